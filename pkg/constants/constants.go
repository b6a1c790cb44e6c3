// Package constants provides shared constants used throughout the keyprobe codebase.
// This includes the probe defaults, file locations, and the remediation hint
// printed when a credential does not work.
package constants

import "time"

// Credential source defaults
const (
	// DefaultEnvFile is the dotenv file the credential is read from
	DefaultEnvFile = ".env.openai"

	// DefaultKeyName is the variable name holding the API key
	DefaultKeyName = "OPENAI_API_KEY"
)

// Probe request defaults
const (
	// DefaultModel is the chat model used for the probe
	DefaultModel = "gpt-4o-mini"

	// DefaultSystemPrompt is the system instruction sent with the probe
	DefaultSystemPrompt = "You are a helpful assistant."

	// DefaultUserPrompt is the user message sent with the probe
	DefaultUserPrompt = "Say 'API key is working!' in Dutch"

	// DefaultMaxTokens caps the length of the generated reply
	DefaultMaxTokens = 50
)

// Timeout constants
const (
	// DefaultProbeTimeout of zero leaves the request bounded only by the transport
	DefaultProbeTimeout time.Duration = 0

	// ShutdownTimeout bounds cleanup after a failed command
	ShutdownTimeout = 5 * time.Second
)

// Masking constants
const (
	// MaskPrefixLength is how many leading characters of a key are shown
	MaskPrefixLength = 20

	// MaskSuffixLength is how many trailing characters of a key are shown
	MaskSuffixLength = 4
)

// LogFilePermissions is used when LOG_OUTPUT names a file (rw-------).
const LogFilePermissions = 0600

// External resources
const (
	// APIKeysURL is where users manage their OpenAI API keys
	APIKeysURL = "https://platform.openai.com/api-keys"
)

// Messages
const (
	// MsgNoAPIKey is printed when no credential could be found
	MsgNoAPIKey = "No API key found!"

	// ErrMsgMalformedResponse is used when a completion carries no choices
	ErrMsgMalformedResponse = "malformed response: no completion choices returned"
)
