package config

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingAPIKey is matched by errors.Is when no credential was found in
	// flags, environment, .env files or the config file.
	ErrMissingAPIKey = errors.New("API key required. Set GAMMA_API_KEY environment variable or pass --api-key. " +
		"Get your key from https://gamma.app/settings/api-keys")
	// ErrInvalidValue classifies values that parse but fail validation.
	ErrInvalidValue = errors.New("invalid config value")
	// ErrUnknownConfigField classifies strict YAML parse failures caused by
	// unknown keys.
	ErrUnknownConfigField = errors.New("unknown config field")
)

// Error reports a configuration problem detected before any network call.
type Error struct {
	Key string
	Err error
}

func (e *Error) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("config: %v", e.Err)
	}
	return fmt.Sprintf("config: %s: %v", e.Key, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
