package cli

import (
	"errors"
	"fmt"
	"testing"

	"mealkit-hq/backoffice/pkg/config"
	"mealkit-hq/backoffice/pkg/retention"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"plain", errors.New("boom"), ExitError},
		{"config error", NewConfigError("backoffice.yaml", errors.New("bad yaml")), ExitConfig},
		{
			name: "validation error",
			err: fmt.Errorf("load: %w", config.ValidationError{
				Errors: []config.FieldError{{Field: "retention.days", Message: "must be positive"}},
			}),
			want: ExitConfig,
		},
		{"fetch error", NewCommandError("sweep", retention.NewFetchError("2025-07-18", errors.New("down"))), ExitFetch},
		{
			name: "batch commit error",
			err:  NewCommandError("sweep", &retention.BatchCommitError{Cause: errors.New("aborted")}),
			want: ExitBatchCommit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	cause := errors.New("no such file")

	cfgErr := NewConfigError("backoffice.yaml", cause)
	if got := cfgErr.Error(); got != "config error in backoffice.yaml: no such file" {
		t.Errorf("ConfigError.Error() = %q", got)
	}
	if !errors.Is(cfgErr, cause) {
		t.Error("ConfigError should unwrap to its cause")
	}

	cmdErr := NewCommandError("sweep", cause)
	if got := cmdErr.Error(); got != "command sweep failed: no such file" {
		t.Errorf("CommandError.Error() = %q", got)
	}
	if !errors.Is(cmdErr, cause) {
		t.Error("CommandError should unwrap to its cause")
	}
}
