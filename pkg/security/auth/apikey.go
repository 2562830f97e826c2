package auth

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"mealkit-hq/backoffice/pkg/config"
)

// APIKeyValidator validates API keys against a configured set of keys.
// The set can be replaced at runtime when the configuration is reloaded.
type APIKeyValidator struct {
	mu   sync.RWMutex
	keys map[string]*APIKeyInfo
}

// NewAPIKeyValidator creates a new API key validator with the given keys
func NewAPIKeyValidator(keys []*APIKeyInfo) *APIKeyValidator {
	v := &APIKeyValidator{}
	v.Replace(keys)
	return v
}

// FromConfig creates a validator for the keys of the security section.
func FromConfig(cfg config.SecurityConfig) *APIKeyValidator {
	return NewAPIKeyValidator(KeysFromConfig(cfg))
}

// KeysFromConfig converts configured keys to APIKeyInfo values.
func KeysFromConfig(cfg config.SecurityConfig) []*APIKeyInfo {
	keys := make([]*APIKeyInfo, 0, len(cfg.APIKeys))
	for _, k := range cfg.APIKeys {
		keys = append(keys, &APIKeyInfo{
			Key:     k.Key,
			Name:    k.Name,
			Enabled: !k.Disabled,
		})
	}
	return keys
}

// SecretResolver expands ${secret:name} references.
type SecretResolver interface {
	ResolveReferences(ctx context.Context, input string) (string, error)
}

// LoadKeys is KeysFromConfig with every key passed through r. A key that
// does not resolve fails the whole load so a reload never drops keys
// silently.
func LoadKeys(ctx context.Context, cfg config.SecurityConfig, r SecretResolver) ([]*APIKeyInfo, error) {
	keys := KeysFromConfig(cfg)
	if r == nil {
		return keys, nil
	}

	for _, k := range keys {
		resolved, err := r.ResolveReferences(ctx, k.Key)
		if err != nil {
			return nil, fmt.Errorf("API key %q: %w", k.Name, err)
		}
		if resolved == "" {
			return nil, fmt.Errorf("API key %q resolved to an empty value", k.Name)
		}
		k.Key = resolved
	}
	return keys, nil
}

// Validate checks if the given API key is valid and returns its info
func (v *APIKeyValidator) Validate(key string) (*APIKeyInfo, error) {
	if key == "" {
		return nil, ErrMissingKey
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	info, ok := v.keys[key]
	if !ok {
		return nil, ErrInvalidKey
	}
	if !info.Enabled {
		return nil, ErrKeyDisabled
	}
	return info, nil
}

// List returns all configured keys sorted by name.
func (v *APIKeyValidator) List() []*APIKeyInfo {
	v.mu.RLock()
	defer v.mu.RUnlock()

	keys := make([]*APIKeyInfo, 0, len(v.keys))
	for _, key := range v.keys {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Name < keys[j].Name })
	return keys
}

// Replace swaps the whole key set.
func (v *APIKeyValidator) Replace(keys []*APIKeyInfo) {
	keyMap := make(map[string]*APIKeyInfo, len(keys))
	for _, key := range keys {
		keyMap[key.Key] = key
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.keys = keyMap
}
