package logging

import (
	"regexp"
	"testing"
)

func TestRedactor_RedactString(t *testing.T) {
	r := NewRedactor(nil)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "email", input: "contact sam@example.org", want: "contact s***@example.org"},
		{name: "bearer", input: "Authorization: Bearer abc123", want: "Authorization: Bearer ***"},
		{name: "password", input: "password=hunter2", want: "password: ***"},
		{name: "phone", input: "+1 415 555 0100", want: "***-***-****"},
		{name: "date key untouched", input: "2025-07-18", want: "2025-07-18"},
		{name: "timestamp untouched", input: "2025-07-25T02:00:00Z", want: "2025-07-25T02:00:00Z"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.RedactString(tt.input); got != tt.want {
				t.Errorf("RedactString(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRedactor_ExtraPatterns(t *testing.T) {
	r := NewRedactor([]*Pattern{
		{Name: "postcode", Regex: regexp.MustCompile(`[A-Z]{1,2}\d{1,2} \d[A-Z]{2}`), Replacement: "*** ***"},
		nil,
	})

	if got := r.RedactString("deliver to EC1 4AB"); got != "deliver to *** ***" {
		t.Errorf("got %q", got)
	}
}

func TestRedactor_SensitiveKeys(t *testing.T) {
	r := NewRedactor(nil)

	for _, key := range []string{"api_key", "X-API-Key", "postgres_dsn", "client_secret"} {
		if !r.isSensitiveKey(key) {
			t.Errorf("expected %q to be sensitive", key)
		}
	}
	for _, key := range []string{"order_id", "cutoff_date", "cleaned_orders"} {
		if r.isSensitiveKey(key) {
			t.Errorf("expected %q not to be sensitive", key)
		}
	}
}

func TestRedactSecret(t *testing.T) {
	if got := RedactSecret("abc"); got != "***" {
		t.Errorf("short secret = %q", got)
	}
	if got := RedactSecret("bo_live_key"); got != "bo_l***" {
		t.Errorf("long secret = %q", got)
	}
}
