package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidationUnavailable means the compliance engine could not produce
	// a verdict. It never replaces the last good verdict.
	ErrValidationUnavailable = errors.New("compliance validation unavailable")
	ErrVerdictNotFound       = errors.New("compliance verdict not found")
	ErrNoSuggestions         = errors.New("no automatic fix available")
	ErrNoRooms               = errors.New("no rooms to validate")
)

// EngineError is a failed call to the compliance engine. StatusCode is zero
// when the engine could not be reached at all.
type EngineError struct {
	Op         string
	StatusCode int
	Detail     string
}

func (e *EngineError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: compliance engine unreachable: %s", e.Op, e.Detail)
	}
	return fmt.Sprintf("%s: compliance engine returned %d: %s", e.Op, e.StatusCode, e.Detail)
}

func (e *EngineError) Unwrap() error { return ErrValidationUnavailable }
