package coretree

import (
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// Sentinel errors naming validation failure causes. They are plain
// values, not wrapped, so callers can branch on identity. The primitives
// in validate.go report a ValidationResult and do not return these values.
var (
	// ErrAnchorNotFound indicates a StablePlace or StableRange names an
	// anchor NodeId absent from the current view. Invalid, not Malformed:
	// a different baseline could still resolve it.
	ErrAnchorNotFound = fmt.Errorf("coretree: anchor node not found in view")

	// ErrTraitEndpointNotFound indicates a Start/End sentinel names a
	// parent that is absent from the current view.
	ErrTraitEndpointNotFound = fmt.Errorf("coretree: trait endpoint parent not found in view")

	// ErrRangeCrossesTraits indicates a StableRange's start and end
	// resolve to different parents or labels.
	ErrRangeCrossesTraits = fmt.Errorf("coretree: range endpoints are not in the same trait")

	// ErrRangeInverted indicates a StableRange's end resolves to an index
	// before its start within the same trait.
	ErrRangeInverted = fmt.Errorf("coretree: range end precedes range start")

	// ErrMalformedPlace indicates a StablePlace is structurally
	// self-contradictory (no baseline could ever make it interpretable).
	ErrMalformedPlace = fmt.Errorf("coretree: stable place is malformed")
)

// DefectError marks an internal precondition violation: an unknown Change
// or EditNode tag, an unimplemented Constraint hash field, or a broken
// invariant. Per §7 these must fail loudly rather than be reported as a
// data-level EditResult, because they indicate a producer bug or a schema
// mismatch, not a rejectable edit.
type DefectError struct {
	msg   string
	cause error
}

func (d *DefectError) Error() string { return d.msg }

func (d *DefectError) Unwrap() error { return d.cause }

// Defect constructs a stack-traced defect error suitable for panic(...).
// The stack trace lets the embedding host's crash reporter point at the
// producer bug rather than at this package's internals.
func Defect(cause error, msg string) error {
	return pkgerrors.WithStack(&DefectError{msg: msg, cause: cause})
}

// Defectf is Defect with a formatted message and no wrapped cause.
func Defectf(format string, args ...interface{}) error {
	return Defect(nil, fmt.Sprintf(format, args...))
}
