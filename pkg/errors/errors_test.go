package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeDomain, "diameter must be positive, got %g", -1.0)

	if err.Code != ErrCodeDomain {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeDomain)
	}

	if err.Message != "diameter must be positive, got -1" {
		t.Errorf("Message = %v, want %v", err.Message, "diameter must be positive, got -1")
	}

	expected := "DOMAIN_ERROR: diameter must be positive, got -1"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeInvalidConfig, cause, "parse config")

	if err.Code != ErrCodeInvalidConfig {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidConfig)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeDomain, "test"),
			code:     ErrCodeDomain,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeDomain, "test"),
			code:     ErrCodeConvergence,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeNoConvergedDiameter, New(ErrCodeDomain, "inner"), "outer"),
			code:     ErrCodeNoConvergedDiameter,
			expected: true,
		},
		{
			name:     "convergence error",
			err:      &ConvergenceError{Diameter: 0.0254},
			code:     ErrCodeConvergence,
			expected: true,
		},
		{
			name:     "convergence error behind fmt wrap",
			err:      fmt.Errorf("sweep: %w", &ConvergenceError{Diameter: 0.0254}),
			code:     ErrCodeConvergence,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeDomain,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeDomain,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeDegenerateTopology, "test"),
			expected: ErrCodeDegenerateTopology,
		},
		{
			name:     "convergence error",
			err:      &ConvergenceError{},
			expected: ErrCodeConvergence,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeDomain, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestConvergenceError(t *testing.T) {
	cause := errors.New("iteration limit reached")
	err := &ConvergenceError{Diameter: 0.0254, Iterations: 100, Residual: 3.5, Cause: cause}

	if !strings.HasPrefix(err.Error(), "CONVERGENCE_FAILED: ") {
		t.Errorf("Error() = %q, want CONVERGENCE_FAILED prefix", err.Error())
	}
	if !strings.Contains(err.Error(), "100 iterations") {
		t.Errorf("Error() = %q, want iteration count", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	if msg := UserMessage(err); strings.HasPrefix(msg, "CONVERGENCE_FAILED") {
		t.Errorf("UserMessage() = %q, should not carry the code", msg)
	}
}
