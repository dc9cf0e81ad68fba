package coretree

// Side specifies which side of an anchor node a StablePlace sits on.
type Side int

const (
	// Before places the position immediately before the anchor within its
	// trait.
	Before Side = iota

	// After places the position immediately after the anchor within its
	// trait.
	After
)

// String returns a human-readable label for Side, used in log lines and
// Defect messages.
func (s Side) String() string {
	switch s {
	case Before:
		return "Before"
	case After:
		return "After"
	default:
		return "Side(?)"
	}
}

// TraitEndpoint names one end of a trait when a StablePlace is anchored to
// the trait itself rather than to a sibling node.
type TraitEndpoint int

const (
	// StartOfTrait anchors to the position before the trait's first
	// child (or the only position, if the trait is empty).
	StartOfTrait TraitEndpoint = iota

	// EndOfTrait anchors to the position after the trait's last child.
	EndOfTrait
)

func (e TraitEndpoint) String() string {
	switch e {
	case StartOfTrait:
		return "StartOfTrait"
	case EndOfTrait:
		return "EndOfTrait"
	default:
		return "TraitEndpoint(?)"
	}
}

// StablePlace is a position within a trait that stays meaningful across
// nearby concurrent edits: either a side of an anchor node, or a named
// trait-endpoint sentinel carrying its own parent+label (so it resolves
// even when the trait is empty).
//
// anchored is the discriminant, and only the fields of the selected form
// are read. A StablePlace built by hand outside this package is always a
// sentinel (anchored is false): validateStablePlace (validate.go)
// classifies it as Malformed when its Parent is zero, and ignores any
// Anchor it carries.
type StablePlace struct {
	anchored bool

	// Populated when anchored is true.
	Anchor NodeId
	Side   Side

	// Populated when anchored is false.
	Endpoint TraitEndpoint
	Parent   NodeId
	Label    TraitLabel
}

// PlaceBefore returns a StablePlace immediately before anchor.
func PlaceBefore(anchor NodeId) StablePlace {
	return StablePlace{anchored: true, Anchor: anchor, Side: Before}
}

// PlaceAfter returns a StablePlace immediately after anchor.
func PlaceAfter(anchor NodeId) StablePlace {
	return StablePlace{anchored: true, Anchor: anchor, Side: After}
}

// PlaceStartOf returns a StablePlace at the start of parent's label trait.
func PlaceStartOf(parent NodeId, label TraitLabel) StablePlace {
	return StablePlace{anchored: false, Endpoint: StartOfTrait, Parent: parent, Label: label}
}

// PlaceEndOf returns a StablePlace at the end of parent's label trait.
func PlaceEndOf(parent NodeId, label TraitLabel) StablePlace {
	return StablePlace{anchored: false, Endpoint: EndOfTrait, Parent: parent, Label: label}
}

// IsAnchored reports whether this place is expressed relative to a
// sibling node (true) or a trait endpoint sentinel (false).
func (p StablePlace) IsAnchored() bool { return p.anchored }

// malformed reports whether p is structurally self-contradictory: an
// anchored place with a zero Anchor, or a sentinel place with a zero
// Parent. No baseline could ever make such a value interpretable, which
// is exactly the Malformed classification in §9's open-question table.
func (p StablePlace) malformed() bool {
	if p.anchored {
		return p.Anchor.IsZero()
	}
	return p.Parent.IsZero()
}

// StableRange is an ordered pair of StablePlace values that, once
// resolved against a Snapshot, designate a contiguous run of siblings in
// one trait. StableRange does not itself carry the parent/label; those
// are derived by resolving Start and End against a Snapshot (see
// rangeFromStableRange in validate.go).
type StableRange struct {
	Start StablePlace
	End   StablePlace
}

// NewStableRange constructs a StableRange from its two endpoints.
func NewStableRange(start, end StablePlace) StableRange {
	return StableRange{Start: start, End: end}
}
