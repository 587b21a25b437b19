package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSpawn indicates the external binary could not be started at all.
	// Spawn failures are fatal for the job; fallback strategies share the
	// same binary and are not attempted.
	ErrSpawn = errors.New("process spawn failure")
	// ErrExit indicates the external process ran but exited nonzero.
	ErrExit = errors.New("process exit failure")
	// ErrTimeout indicates the invocation exceeded its deadline.
	ErrTimeout = errors.New("timeout")
	// ErrParse indicates diagnostic output did not match the expected grammar.
	ErrParse = errors.New("parse failure")
	// ErrValidation indicates caller-supplied input was rejected.
	ErrValidation = errors.New("validation error")
	// ErrConfiguration indicates broken or missing configuration.
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes pipeline context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrExit
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Retryable reports whether a failed invocation should advance to the next
// strategy in a fallback chain. Exit failures and timeouts mean the tool ran
// and rejected this particular invocation, so a degraded alternative may still
// succeed. Spawn and parse failures cannot be repaired by retrying.
func Retryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrSpawn), errors.Is(err, ErrParse),
		errors.Is(err, ErrValidation), errors.Is(err, ErrConfiguration):
		return false
	default:
		return true
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "pipeline failure"
	}
	return strings.Join(parts, ": ")
}
