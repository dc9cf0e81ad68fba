package coretree

// NodeId opaquely identifies a node in a Snapshot. Two NodeId values are
// equal iff they name the same node; NodeId carries no ordering.
type NodeId struct {
	raw string
}

// NewNodeId wraps an already-unique string as a NodeId. Callers outside
// this package are responsible for uniqueness; see idfactory.go for the
// default generator.
func NewNodeId(raw string) NodeId { return NodeId{raw: raw} }

// String returns the underlying identifier, primarily for logging and
// wire encoding.
func (id NodeId) String() string { return id.raw }

// IsZero reports whether id is the zero value (never a valid node).
func (id NodeId) IsZero() bool { return id.raw == "" }

// DetachedSequenceId opaquely names a detached sequence held in a
// Transaction's private registry. It is a distinct type from NodeId so a
// Change cannot confuse the two at compile time.
type DetachedSequenceId struct {
	raw string
}

// NewDetachedSequenceId wraps an already-unique string as a
// DetachedSequenceId.
func NewDetachedSequenceId(raw string) DetachedSequenceId {
	return DetachedSequenceId{raw: raw}
}

func (id DetachedSequenceId) String() string { return id.raw }

func (id DetachedSequenceId) IsZero() bool { return id.raw == "" }

// TraitLabel names a child list under a parent node. Traits are opaque
// labels chosen by the embedding host (e.g. "children", "comments").
type TraitLabel string
