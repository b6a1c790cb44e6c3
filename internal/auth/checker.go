package auth

import (
	"fmt"
	"regexp"
)

// Checker checks a credential locally. No network calls are made.
type Checker struct {
	pattern *regexp.Regexp
}

// NewChecker creates a checker. An empty pattern accepts any non-empty key.
func NewChecker(pattern string) (*Checker, error) {
	c := &Checker{}
	if pattern == "" || pattern == ".*" {
		return c, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile key pattern %q: %w", pattern, err)
	}
	c.pattern = re
	return c, nil
}

// Check reports the state of cred.
func (c *Checker) Check(cred Credential) *Status {
	if !cred.IsSet() {
		return &Status{
			State:   StateMissing,
			Summary: fmt.Sprintf("Set %s in %s or the environment", cred.Name, fileOrDefault(cred.File)),
		}
	}

	details := &APIKeyDetails{
		EnvVar:  cred.Name,
		IsSet:   true,
		IsValid: true,
		Source:  cred.Source,
	}

	if c.pattern != nil && !c.pattern.MatchString(cred.Value) {
		details.IsValid = false
		return &Status{
			State:   StateInvalid,
			Summary: "API key does not match required pattern",
			APIKey:  details,
		}
	}

	return &Status{
		State:   StateConfigured,
		Summary: fmt.Sprintf("API key configured (%s from %s)", cred.Name, cred.Source),
		APIKey:  details,
	}
}

func fileOrDefault(file string) string {
	if file == "" {
		return "the env file"
	}
	return file
}
