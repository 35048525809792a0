package domain

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedEquipment = errors.New("malformed equipment")
	ErrEquipmentNotFound  = errors.New("equipment not found")
	ErrInvalidMetadata    = errors.New("invalid equipment metadata")
	ErrUnknownProject     = errors.New("unknown project")
)

// MalformedError describes why a record was rejected.
type MalformedError struct {
	Index  int
	Name   string
	Reason string
}

func (e *MalformedError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("malformed equipment at %d: %s", e.Index, e.Reason)
	}
	return fmt.Sprintf("malformed equipment %q at %d: %s", e.Name, e.Index, e.Reason)
}

func (e *MalformedError) Unwrap() error { return ErrMalformedEquipment }
