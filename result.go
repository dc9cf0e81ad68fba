package coretree

// EditResult is the three-valued outcome of applying a Change or closing
// a Transaction (§3, §7). It is the only error kind at the interpreter
// layer: callers branch on it as data, never as an exception.
type EditResult int

const (
	// Applied means the change (or whole transaction) produced a valid
	// resulting view.
	Applied EditResult = iota

	// Invalid means the change is well-formed but the current view's
	// state prevents its application. A different baseline might accept
	// it, depending on the distributed protocol built on top of this
	// engine.
	Invalid

	// Malformed means the change could not be interpreted against any
	// snapshot. A peer that produced it should never have sent it.
	Malformed
)

func (r EditResult) String() string {
	switch r {
	case Applied:
		return "Applied"
	case Invalid:
		return "Invalid"
	case Malformed:
		return "Malformed"
	default:
		return "EditResult(?)"
	}
}
