package auth

import "github.com/agentstation/keyprobe/pkg/constants"

// Mask returns the first 20 and last 4 characters of key joined by "...".
// Characters are runes, so multi-byte keys are never cut mid-character.
// Short keys overlap rather than panic; an empty key masks to "".
func Mask(key string) string {
	if key == "" {
		return ""
	}
	runes := []rune(key)
	prefix := runes[:min(len(runes), constants.MaskPrefixLength)]
	suffix := runes[max(0, len(runes)-constants.MaskSuffixLength):]
	return string(prefix) + "..." + string(suffix)
}
