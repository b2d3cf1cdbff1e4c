package metadata

import (
	"errors"
	"fmt"
)

// Sentinel error classes. Use errors.Is to test a lookup error's class.
var (
	// ErrNotFound marks an expected absence, such as an unknown instance type.
	ErrNotFound = errors.New("not found")
	// ErrTransient marks throttling or temporary unavailability.
	ErrTransient = errors.New("transient failure")
	// ErrFatal marks permission, client or unclassified failures.
	ErrFatal = errors.New("fatal failure")
)

// ErrorClass is the outcome class of a failed lookup.
type ErrorClass int

const (
	ClassNone ErrorClass = iota
	ClassNotFound
	ClassTransient
	ClassFatal
)

func (c ErrorClass) String() string {
	switch c {
	case ClassNone:
		return "none"
	case ClassNotFound:
		return "not-found"
	case ClassTransient:
		return "transient"
	case ClassFatal:
		return "fatal"
	default:
		return fmt.Sprintf("ErrorClass(%d)", int(c))
	}
}

// NotFound marks err as an expected absence.
func NotFound(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrNotFound, err)
}

// Transient marks err as retryable.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrTransient, err)
}

// Classify returns the class of err. Unmarked errors are fatal.
func Classify(err error) ErrorClass {
	switch {
	case err == nil:
		return ClassNone
	case errors.Is(err, ErrNotFound):
		return ClassNotFound
	case errors.Is(err, ErrTransient):
		return ClassTransient
	default:
		return ClassFatal
	}
}

// IsNotFound reports whether err is a not-found lookup result.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// LookupError describes a failed cache query.
type LookupError struct {
	Kind  QueryKind
	Key   string
	Class ErrorClass
	Err   error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s lookup for %q failed (%s): %v", e.Kind, e.Key, e.Class, e.Err)
}

// Unwrap exposes both the class sentinel and the underlying error.
func (e *LookupError) Unwrap() []error {
	var class error
	switch e.Class {
	case ClassNotFound:
		class = ErrNotFound
	case ClassTransient:
		class = ErrTransient
	default:
		class = ErrFatal
	}
	return []error{class, e.Err}
}
