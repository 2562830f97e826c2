package logging

import (
	"regexp"
	"strings"
)

// Redactor masks secrets and customer contact details in log fields.
// Order documents carry delivery addresses and phone numbers in their
// free-form fields, and operator API keys travel in request headers.
type Redactor struct {
	patterns []*Pattern
}

// Pattern is a named redaction rule.
type Pattern struct {
	Name        string
	Regex       *regexp.Regexp
	Replacement string
}

// Built-in pattern names.
const (
	PatternBearerToken = "bearer_token"
	PatternEmail       = "email"
	PatternPhone       = "phone"
	PatternPassword    = "password"
)

var defaultPatterns = []*Pattern{
	{
		Name:        PatternBearerToken,
		Regex:       regexp.MustCompile(`Bearer\s+[a-zA-Z0-9\-._~+/]+=*`),
		Replacement: "Bearer ***",
	},
	{
		Name:        PatternEmail,
		Regex:       regexp.MustCompile(`([a-zA-Z0-9._%+-])[a-zA-Z0-9._%+-]*@([a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`),
		Replacement: "$1***@$2",
	},
	{
		Name:        PatternPhone,
		Regex:       regexp.MustCompile(`\+\d{1,3}[\s.-]?\(?\d{2,4}\)?[\s.-]?\d{3,4}[\s.-]?\d{3,4}`),
		Replacement: "***-***-****",
	},
	{
		Name:        PatternPassword,
		Regex:       regexp.MustCompile(`(password|passwd|pwd)[:=]\s*[^\s]+`),
		Replacement: "$1: ***",
	},
}

// sensitiveKeys are attribute names whose values are always masked.
var sensitiveKeys = []string{
	"password", "passwd", "secret", "token",
	"api_key", "api-key", "apikey", "authorization", "dsn",
}

// NewRedactor creates a Redactor with the built-in patterns followed by any
// extra ones.
func NewRedactor(extra []*Pattern) *Redactor {
	patterns := make([]*Pattern, 0, len(defaultPatterns)+len(extra))
	patterns = append(patterns, defaultPatterns...)
	for _, p := range extra {
		if p != nil && p.Regex != nil {
			patterns = append(patterns, p)
		}
	}
	return &Redactor{patterns: patterns}
}

// RedactString applies every pattern to value.
func (r *Redactor) RedactString(value string) string {
	if value == "" {
		return value
	}

	redacted := value
	for _, p := range r.patterns {
		redacted = p.Regex.ReplaceAllString(redacted, p.Replacement)
	}
	return redacted
}

func (r *Redactor) isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, sensitive := range sensitiveKeys {
		if strings.Contains(lower, sensitive) {
			return true
		}
	}
	return false
}

// RedactSecret keeps a four character prefix of a secret for identification.
func RedactSecret(secret string) string {
	if len(secret) <= 4 {
		return "***"
	}
	return secret[:4] + "***"
}
