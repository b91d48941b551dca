package cli

import (
	"errors"
	"fmt"
	"testing"
)

func TestConfigError(t *testing.T) {
	tests := []struct {
		name string
		err  *ConfigError
		want string
	}{
		{
			name: "with field",
			err:  NewConfigError("grammar.version", `unknown grammar version "2.0"`),
			want: `config error in grammar.version: unknown grammar version "2.0"`,
		},
		{
			name: "without field",
			err:  NewConfigError("", "failed to load config"),
			want: "config error: failed to load config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCommandError(t *testing.T) {
	underlyingErr := errors.New("underlying error")
	err := NewCommandError("serve", underlyingErr)

	expected := "command serve failed: underlying error"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, underlyingErr) {
		t.Error("errors.Is() should work with CommandError.Unwrap()")
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   int
		wantSilent bool
	}{
		{name: "nil", err: nil, wantCode: 0},
		{name: "plain error", err: errors.New("boom"), wantCode: 1},
		{name: "silent exit", err: NewExitError(1), wantCode: 1, wantSilent: true},
		{name: "exit with message", err: &ExitError{Code: 2, Message: "2 lines below 90"}, wantCode: 2},
		{name: "wrapped exit", err: fmt.Errorf("lint: %w", NewExitError(3)), wantCode: 3, wantSilent: true},
		{name: "command error", err: NewCommandError("lint", errors.New("read failed")), wantCode: 1},
		{name: "config error", err: fmt.Errorf("load: %w", NewConfigError("grammar.version", "unknown")), wantCode: ExitCodeConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.wantCode {
				t.Errorf("ExitCode() = %d, want %d", got, tt.wantCode)
			}
			if got := Silent(tt.err); got != tt.wantSilent {
				t.Errorf("Silent() = %v, want %v", got, tt.wantSilent)
			}
		})
	}
}

func TestExitError_Error(t *testing.T) {
	if got := NewExitError(1).Error(); got != "exit status 1" {
		t.Errorf("Error() = %q", got)
	}
	if got := (&ExitError{Code: 1, Message: "failed"}).Error(); got != "failed" {
		t.Errorf("Error() = %q", got)
	}
}
