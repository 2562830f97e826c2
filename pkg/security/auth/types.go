package auth

import "errors"

// APIKeyInfo describes one operator key.
type APIKeyInfo struct {
	Key     string
	Name    string
	Enabled bool
}

// APIKeyStore stores and validates API keys
type APIKeyStore interface {
	Validate(key string) (*APIKeyInfo, error)
	List() []*APIKeyInfo
}

var (
	// ErrMissingKey is returned when a request carries no API key.
	ErrMissingKey = errors.New("no API key found")

	// ErrInvalidKey is returned for an unknown key.
	ErrInvalidKey = errors.New("invalid API key")

	// ErrKeyDisabled is returned for a configured but disabled key.
	ErrKeyDisabled = errors.New("API key disabled")
)
