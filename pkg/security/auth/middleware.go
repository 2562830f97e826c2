package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"mealkit-hq/backoffice/pkg/telemetry/logging"
)

// APIKeySource defines where to extract API keys from
type APIKeySource struct {
	Type   string // header, query
	Name   string // Header name or query param
	Scheme string // "Bearer", etc. (optional)
}

// DefaultSources accepts "Authorization: Bearer <key>" and "X-API-Key: <key>".
var DefaultSources = []APIKeySource{
	{Type: "header", Name: "Authorization", Scheme: "Bearer"},
	{Type: "header", Name: "X-API-Key"},
}

// APIKeyMiddleware is HTTP middleware for API key authentication
type APIKeyMiddleware struct {
	validator APIKeyStore
	sources   []APIKeySource
	logger    *slog.Logger
}

// NewAPIKeyMiddleware creates a new API key authentication middleware.
// With no sources, DefaultSources is used.
func NewAPIKeyMiddleware(validator APIKeyStore, sources []APIKeySource) *APIKeyMiddleware {
	if len(sources) == 0 {
		sources = DefaultSources
	}
	return &APIKeyMiddleware{
		validator: validator,
		sources:   sources,
		logger:    slog.Default().With("component", "auth"),
	}
}

// Handle wraps an HTTP handler with API key authentication. The key's name
// is attached to the request context as the operator.
func (m *APIKeyMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey, err := m.extractAPIKey(r)
		if err == nil {
			var info *APIKeyInfo
			info, err = m.validator.Validate(apiKey)
			if err == nil {
				m.logger.DebugContext(r.Context(), "API key authenticated",
					"operator", info.Name,
					"path", r.URL.Path,
				)

				ctx := context.WithValue(r.Context(), apiKeyInfoKey, info)
				ctx = logging.WithOperator(ctx, info.Name)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
		}

		m.logger.WarnContext(r.Context(), "API key rejected",
			"error", err,
			"api_key", logging.RedactSecret(apiKey),
			"remote_addr", r.RemoteAddr,
			"path", r.URL.Path,
		)

		status := http.StatusUnauthorized
		if errors.Is(err, ErrKeyDisabled) {
			status = http.StatusForbidden
		}
		w.Header().Set("WWW-Authenticate", `Bearer realm="backoffice"`)
		http.Error(w, err.Error(), status)
	})
}

// extractAPIKey extracts the API key from the request using configured sources
func (m *APIKeyMiddleware) extractAPIKey(r *http.Request) (string, error) {
	for _, source := range m.sources {
		switch source.Type {
		case "header":
			value := r.Header.Get(source.Name)
			if value == "" {
				continue
			}
			if source.Scheme == "" {
				return strings.TrimSpace(value), nil
			}
			prefix := source.Scheme + " "
			if len(value) > len(prefix) && strings.EqualFold(value[:len(prefix)], prefix) {
				return strings.TrimSpace(value[len(prefix):]), nil
			}

		case "query":
			if value := r.URL.Query().Get(source.Name); value != "" {
				return value, nil
			}
		}
	}

	return "", ErrMissingKey
}

// Context key for API key info
type contextKey string

// #nosec G101 - This is a context key constant, not a credential
const apiKeyInfoKey contextKey = "api_key_info"

// GetAPIKeyInfo retrieves API key info from request context
func GetAPIKeyInfo(ctx context.Context) (*APIKeyInfo, bool) {
	info, ok := ctx.Value(apiKeyInfoKey).(*APIKeyInfo)
	return info, ok
}
