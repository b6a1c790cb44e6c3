// Package auth loads the API credential the probe authenticates with and
// reports whether it looks usable before any network call is made.
package auth

// Source identifies where a credential value came from.
type Source string

const (
	// SourceNone means no value was found anywhere.
	SourceNone Source = "none"
	// SourceFile means the value was read from the dotenv file.
	SourceFile Source = "file"
	// SourceEnv means the value was already present in the process environment.
	SourceEnv Source = "env"
)

// Credential is the API key the probe sends. It is read once and never mutated.
type Credential struct {
	Name   string // Variable name, e.g. OPENAI_API_KEY
	Value  string
	Source Source
	File   string // Dotenv file consulted
}

// IsSet reports whether a non-empty value was found.
func (c Credential) IsSet() bool {
	return c.Value != ""
}

// Masked returns the value with its middle elided.
func (c Credential) Masked() string {
	return Mask(c.Value)
}

// State represents the local authentication state of a credential.
type State int

const (
	// StateConfigured means a credential is present.
	StateConfigured State = iota
	// StateMissing means no credential was found.
	StateMissing
	// StateInvalid means a credential was found but does not match the expected pattern.
	StateInvalid
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateConfigured:
		return "configured"
	case StateMissing:
		return "missing"
	case StateInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Status represents authentication status with details.
type Status struct {
	State   State
	Summary string         // Brief one-line summary
	APIKey  *APIKeyDetails // nil when no credential was found
}

// APIKeyDetails contains API key authentication details.
type APIKeyDetails struct {
	EnvVar  string // Variable name
	IsSet   bool   // Whether a value was found
	IsValid bool   // Whether the value matches the configured pattern
	Source  Source // Where the value came from
}
