package ppfg

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when log arrays are structurally unusable
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidParams is returned when a parameter bundle is out of range
	ErrInvalidParams = errors.New("invalid parameters")
)

// InputError describes a structural problem with the input logs.
// It matches ErrInvalidInput with errors.Is.
type InputError struct {
	Field  string
	Index  int // -1 when the problem is not tied to a sample
	Reason string
}

func (e *InputError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid input: %s[%d]: %s", e.Field, e.Index, e.Reason)
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

// ParamError names the parameter that failed validation.
// It matches ErrInvalidParams with errors.Is.
type ParamError struct {
	Param  string
	Value  float64
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("invalid parameters: %s=%g: %s", e.Param, e.Value, e.Reason)
}

func (e *ParamError) Unwrap() error {
	return ErrInvalidParams
}
