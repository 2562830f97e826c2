package secrets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"mealkit-hq/backoffice/pkg/config"
)

// ErrNotFound is returned when no provider holds the secret.
var ErrNotFound = errors.New("secret not found")

var referencePattern = regexp.MustCompile(`\$\{secret:([^}]+)\}`)

// Manager resolves secrets through an ordered list of providers. The first
// provider that supports a name and returns a value wins.
type Manager struct {
	providers []SecretProvider
	cache     *Cache
	logger    *slog.Logger
}

// NewManager creates a manager over providers, caching values for ttl.
func NewManager(providers []SecretProvider, ttl time.Duration) *Manager {
	return &Manager{
		providers: providers,
		cache:     NewCache(ttl),
		logger:    slog.Default().With("component", "secrets"),
	}
}

// FromConfig builds the manager for the security section: the secrets
// directory first when one is configured, then the environment.
func FromConfig(cfg config.SecretsConfig) (*Manager, error) {
	var providers []SecretProvider
	if cfg.Dir != "" {
		fp, err := NewFileProvider(cfg.Dir, true)
		if err != nil {
			return nil, err
		}
		providers = append(providers, fp)
	}
	providers = append(providers, NewEnvProvider(cfg.EnvPrefix))

	return NewManager(providers, cfg.CacheTTL), nil
}

// GetSecret returns the value of the named secret.
func (m *Manager) GetSecret(ctx context.Context, name string) (string, error) {
	if value, ok := m.cache.Get(name); ok {
		return value, nil
	}

	var lastErr error
	for _, p := range m.providers {
		if !p.Supports(name) {
			continue
		}

		value, err := p.GetSecret(ctx, name)
		if err != nil {
			lastErr = err
			m.logger.Debug("secret provider failed", "provider", p.Provider(), "name", name, "error", err)
			continue
		}

		m.cache.Set(name, value)
		m.logger.Debug("secret resolved", "provider", p.Provider(), "name", name)
		return value, nil
	}

	if lastErr != nil {
		return "", fmt.Errorf("failed to get secret %q: %w", name, lastErr)
	}
	return "", fmt.Errorf("%w: %q", ErrNotFound, name)
}

// ResolveReferences replaces every ${secret:name} in input with its value.
// On error the unresolved references are left in place and every failure
// is reported.
func (m *Manager) ResolveReferences(ctx context.Context, input string) (string, error) {
	var failures []string

	output := referencePattern.ReplaceAllStringFunc(input, func(ref string) string {
		name := referencePattern.FindStringSubmatch(ref)[1]
		value, err := m.GetSecret(ctx, name)
		if err != nil {
			failures = append(failures, err.Error())
			return ref
		}
		return value
	})

	if len(failures) > 0 {
		return output, fmt.Errorf("unresolved secret references: %s", strings.Join(failures, "; "))
	}
	return output, nil
}

// Refresh clears the cache and every refreshable provider, so the next
// lookup reads rotated values.
func (m *Manager) Refresh(ctx context.Context) error {
	m.cache.Clear()

	var errs []error
	for _, p := range m.providers {
		if rp, ok := p.(RefreshableProvider); ok {
			if err := rp.Refresh(ctx); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", p.Provider(), err))
			}
		}
	}
	return errors.Join(errs...)
}

// Close releases provider resources such as directory watchers.
func (m *Manager) Close() error {
	var errs []error
	for _, p := range m.providers {
		if c, ok := p.(io.Closer); ok {
			errs = append(errs, c.Close())
		}
	}
	return errors.Join(errs...)
}
