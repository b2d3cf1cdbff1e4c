package validation

import (
	"errors"
	"fmt"

	"github.com/imamik/hpcgate/internal/validators"
)

// AbortError is returned when a metadata lookup fails in a way that leaves
// the configuration undecidable: retries were exhausted or the failure is
// not retryable. It is never turned into a finding.
type AbortError struct {
	Type validators.Type
	Path string
	Err  error
}

func (e *AbortError) Error() string {
	return fmt.Sprintf("validation aborted: %s at %s: %v", e.Type, e.Path, e.Err)
}

func (e *AbortError) Unwrap() error {
	return e.Err
}

// PartialRunError is returned when the run is cancelled. Results holds the
// findings collected before cancellation and must not be treated as a
// complete report.
type PartialRunError struct {
	Validated int
	Results   []validators.Result
	Err       error
}

func (e *PartialRunError) Error() string {
	return fmt.Sprintf("validation interrupted after %d nodes: %v", e.Validated, e.Err)
}

func (e *PartialRunError) Unwrap() error {
	return e.Err
}

// IsAbort reports whether err is or wraps an *AbortError.
func IsAbort(err error) bool {
	var ae *AbortError
	return errors.As(err, &ae)
}

// IsPartialRun reports whether err is or wraps a *PartialRunError.
func IsPartialRun(err error) bool {
	var pe *PartialRunError
	return errors.As(err, &pe)
}
