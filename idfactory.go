package coretree

import "github.com/google/uuid"

// IDFactory generates the globally-unique identifiers the core never
// produces on its own (see §6 of the specification: identifier generation
// is outside the core). Implementations must never repeat a value for the
// lifetime of the snapshots they are used with.
type IDFactory interface {
	NewNodeId() NodeId
	NewDetachedSequenceId() DetachedSequenceId
}

// UUIDFactory is the production IDFactory, backed by RFC 9562 UUIDv7
// values (time-ordered, suitable as stable on-disk identifiers).
type UUIDFactory struct{}

var _ IDFactory = UUIDFactory{}

// NewNodeId returns a fresh NodeId built from a UUIDv7.
func (UUIDFactory) NewNodeId() NodeId {
	return NewNodeId(mustUUIDv7())
}

// NewDetachedSequenceId returns a fresh DetachedSequenceId built from a
// UUIDv7.
func (UUIDFactory) NewDetachedSequenceId() DetachedSequenceId {
	return NewDetachedSequenceId(mustUUIDv7())
}

func mustUUIDv7() string {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails if the runtime's entropy source is broken,
		// which is a host-level defect, not a data-level error.
		panic(Defect(err, "idfactory: uuid generation failed"))
	}
	return id.String()
}
