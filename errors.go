package pysui

import (
	"errors"
	"fmt"

	"github.com/robmcl4/pysui/types"
)

// ValidationError reports a bad argument shape before any I/O: wrong
// type, heterogeneous vector elements, split count below two, a
// missing required field. Never retried.
type ValidationError struct {
	Op     string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// NewValidationError creates a ValidationError for the given builder
// operation.
func NewValidationError(op, format string, args ...any) *ValidationError {
	return &ValidationError{Op: op, Reason: fmt.Sprintf(format, args...)}
}

// IsValidation checks whether err is a ValidationError.
func IsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}

// ResolutionError reports a failed remote lookup: objects missing
// from a batched fetch, an unknown move-call target, or a malformed
// service response. It aborts the in-progress builder call and
// leaves already-accumulated commands intact.
type ResolutionError struct {
	Reason string
	// Missing lists the object identifiers a batched fetch could not
	// resolve, when that is the cause.
	Missing []types.Address
	Err     error
}

func (e *ResolutionError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("%s: %v", e.Reason, e.Missing)
	}
	return e.Reason
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// IsResolution checks whether err is a ResolutionError.
func IsResolution(err error) (*ResolutionError, bool) {
	var r *ResolutionError
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}

// GasError reports a failed gas resolution: insufficient balance, a
// payment object already consumed by the command log, or a malformed
// dry-run response. The transaction remains buildable.
type GasError struct {
	Reason string
	// Object is the offending payment object, when one is known.
	Object types.Address
}

func (e *GasError) Error() string {
	if !e.Object.IsZero() {
		return fmt.Sprintf("%s: %s", e.Reason, e.Object)
	}
	return e.Reason
}

// IsGas checks whether err is a GasError.
func IsGas(err error) (*GasError, bool) {
	var g *GasError
	if errors.As(err, &g) {
		return g, true
	}
	return nil, false
}

// StateError reports a programming-contract violation of the
// transaction lifecycle, such as a builder call after execution.
// Never recovered automatically.
type StateError struct {
	Op    string
	State string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s called in state %s", e.Op, e.State)
}

// IsState checks whether err is a StateError.
func IsState(err error) (*StateError, bool) {
	var s *StateError
	if errors.As(err, &s) {
		return s, true
	}
	return nil, false
}

// ObjectNotFoundError reports that the execution service has no
// object with the requested identifier.
type ObjectNotFoundError struct {
	ObjectID types.Address
}

func (e *ObjectNotFoundError) Error() string {
	return fmt.Sprintf("object %s does not exist", e.ObjectID)
}

// IsObjectNotFound checks whether err is an ObjectNotFoundError.
func IsObjectNotFound(err error) (*ObjectNotFoundError, bool) {
	var n *ObjectNotFoundError
	if errors.As(err, &n) {
		return n, true
	}
	return nil, false
}
