// Package errors provides structured error types for pipeflow.
//
// Every failure the core can surface carries a machine-readable code so the
// CLI and the HTTP API can react to it without string matching:
//   - DOMAIN_ERROR: non-positive diameter, length or fluid property
//   - CONVERGENCE_FAILED: the root-finder did not reach tolerance
//   - DEGENERATE_TOPOLOGY: the equation system is singular by construction
//   - NO_CONVERGED_DIAMETER: every diameter of a sweep failed
//
// # Usage
//
//	err := errors.New(errors.ErrCodeDomain, "diameter must be positive, got %g", d)
//	if errors.Is(err, errors.ErrCodeDomain) {
//	    // reject input
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidConfig, origErr, "parse %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeDomain        Code = "DOMAIN_ERROR"

	// Numerical errors
	ErrCodeConvergence         Code = "CONVERGENCE_FAILED"
	ErrCodeDegenerateTopology  Code = "DEGENERATE_TOPOLOGY"
	ErrCodeNoConvergedDiameter Code = "NO_CONVERGED_DIAMETER"

	// Resource errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// coder is implemented by typed errors that carry a fixed code.
type coder interface {
	Code() Code
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error or a typed error with a
// matching code. The outermost coded error wins.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if no coded error is found in the chain.
func GetCode(err error) Code {
	for err != nil {
		switch e := err.(type) {
		case *Error:
			return e.Code
		case coder:
			return e.Code()
		}
		err = errors.Unwrap(err)
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For coded errors, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	var ce *ConvergenceError
	if errors.As(err, &ce) {
		return ce.message()
	}
	return err.Error()
}

// ConvergenceError reports a solve that did not reach the residual tolerance.
// In a single solve it is fatal; in a sweep it marks a gap in the cost curve.
type ConvergenceError struct {
	Diameter   float64 // Diameter being solved (m)
	Iterations int     // Iterations performed before giving up
	Residual   float64 // Largest absolute residual at the last iterate
	Cause      error   // Solver-level reason
}

// Error implements the error interface.
func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("%s: %s", ErrCodeConvergence, e.message())
}

func (e *ConvergenceError) message() string {
	msg := fmt.Sprintf("no convergence at diameter %.4g m after %d iterations (residual %.3g)",
		e.Diameter, e.Iterations, e.Residual)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the solver-level cause.
func (e *ConvergenceError) Unwrap() error { return e.Cause }

// Code returns the error code for this error type.
func (e *ConvergenceError) Code() Code {
	return ErrCodeConvergence
}
