package secrets

import "context"

// SecretProvider retrieves secrets from one backend.
type SecretProvider interface {
	// GetSecret returns the value of the named secret.
	GetSecret(ctx context.Context, name string) (string, error)

	// Provider returns the provider name ("env", "file").
	Provider() string

	// Supports reports whether this provider can serve name. The manager
	// skips providers that do not.
	Supports(name string) bool
}

// RefreshableProvider can drop what it has read so rotated secrets are
// picked up.
type RefreshableProvider interface {
	SecretProvider
	Refresh(ctx context.Context) error
}
