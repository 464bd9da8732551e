package myconn

import (
	"errors"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	if !conn.Connect(ctx, false) {
//	    if errors.Is(conn.LastError(), myconn.ErrNoDriverAvailable) {
//	        // both driver generations exhausted
//	    }
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrConnectionFailed indicates the transport connect failed and no
	// fallback was eligible.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrNoDriverAvailable indicates every driver generation was tried
	// and none produced a live handle.
	ErrNoDriverAvailable = errors.New("no driver generation available")

	// ErrTLSSetupFailed indicates the TLS material could not be applied.
	// It is only surfaced in debug visibility; the connect attempt
	// proceeds unencrypted and fails downstream if the server mandates TLS.
	ErrTLSSetupFailed = errors.New("TLS setup failed")

	// ErrNotConnected indicates an operation that requires a live handle
	// was invoked without one.
	ErrNotConnected = errors.New("not connected")
)

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Check for sentinel errors
	switch {
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrConnectionFailed),
		errors.Is(err, ErrNoDriverAvailable),
		errors.Is(err, ErrNotConnected):
		return ExitConnectionError
	}

	errStr := err.Error()

	// Cobra reports flag and argument misuse as plain error strings.
	if isUsageError(errStr) {
		return ExitUsageError
	}

	// Check for common connection error patterns
	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}

func isUsageError(errStr string) bool {
	patterns := []string{
		"unknown flag",
		"unknown shorthand flag",
		"unknown command",
		"invalid argument",
		"required flag",
		"accepts ",
	}
	for _, p := range patterns {
		if strings.Contains(errStr, p) {
			return true
		}
	}
	return false
}
