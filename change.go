package coretree

// Change is the closed, five-member tagged variant the interpreter
// consumes: Build, Insert, Detach, Constraint, SetValue. Implementations
// are exhaustively enumerated below; transaction.go's dispatch uses a Go
// type switch with a defect default case rather than a registrable
// handler table, per §9's "dynamic change dispatch" note.
type Change interface {
	isChange()
}

// BuildChange constructs a new detached sequence of nodes from source,
// storing it under destination for later consumption by Insert or by
// reference from another Build (§4.2).
type BuildChange struct {
	Source      []EditNode
	Destination DetachedSequenceId
}

func (BuildChange) isChange() {}

// InsertChange splices a previously produced detached sequence into the
// tree at destination, consuming it (§4.3).
type InsertChange struct {
	Source      DetachedSequenceId
	Destination StablePlace
}

func (InsertChange) isChange() {}

// DetachChange removes a contiguous run of siblings. If Destination is
// non-nil the removed ids become a new detached sequence under that id;
// if nil, the nodes are permanently discarded (§4.4).
type DetachChange struct {
	Source      StableRange
	Destination *DetachedSequenceId
}

func (DetachChange) isChange() {}

// ConstraintEffect controls how a Constraint violation is classified.
type ConstraintEffect int

const (
	// InvalidRetry classifies a violation as Invalid, closing the
	// transaction.
	InvalidRetry ConstraintEffect = iota

	// ValidRetry classifies a violation as Applied: the constraint is
	// advisory, and a violation only signals a non-semantic conflict to
	// the peer, without rejecting the edit.
	ValidRetry
)

func (e ConstraintEffect) String() string {
	switch e {
	case InvalidRetry:
		return "InvalidRetry"
	case ValidRetry:
		return "ValidRetry"
	default:
		return "ConstraintEffect(?)"
	}
}

// ConstraintChange asserts properties about a range in the current view
// without mutating it (§4.5). Length, ParentNode, and Label are checked
// in that order when non-nil; the first violation wins. IdentityHash and
// ContentHash are reserved (see SPEC_FULL.md §E.5): if either is present
// and the range and the other checks pass, applying the change panics
// with a Defect.
type ConstraintChange struct {
	ToConstrain  StableRange
	Effect       ConstraintEffect
	Length       *int
	ParentNode   *NodeId
	Label        *TraitLabel
	IdentityHash []byte
	ContentHash  []byte
}

func (ConstraintChange) isChange() {}

// SetValuePayload distinguishes an explicit clear (Clear=true) from
// setting a concrete value (Clear=false, Value holds it). §4.6/§6 require
// this field to always be present on the wire; "no change" is represented
// by omitting a SetValue change entirely, not by any SetValuePayload
// value.
type SetValuePayload struct {
	Clear bool
	Value interface{}
}

// ClearPayload returns the SetValuePayload sentinel that removes a
// node's payload field entirely.
func ClearPayload() SetValuePayload { return SetValuePayload{Clear: true} }

// SetPayloadValue returns a SetValuePayload that sets a node's payload to
// value.
func SetPayloadValue(value interface{}) SetValuePayload {
	return SetValuePayload{Value: value}
}

// SetValueChange replaces (or clears) a single node's payload (§4.6).
type SetValueChange struct {
	NodeToModify NodeId
	Payload      SetValuePayload
}

func (SetValueChange) isChange() {}
