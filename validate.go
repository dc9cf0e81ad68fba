package coretree

// ValidationResult is the three-valued outcome of classifying a
// StablePlace or StableRange against a Snapshot (§4, component D).
type ValidationResult int

const (
	// ResultValid means the place/range resolves cleanly against view.
	ResultValid ValidationResult = iota

	// ResultInvalid means the place/range is well-formed but the current
	// view's state prevents resolving it (e.g. a named anchor is absent).
	// A different baseline could still resolve it.
	ResultInvalid

	// ResultMalformed means the place/range is structurally
	// self-contradictory; no baseline could ever resolve it.
	ResultMalformed
)

func (r ValidationResult) String() string {
	switch r {
	case ResultValid:
		return "Valid"
	case ResultInvalid:
		return "Invalid"
	case ResultMalformed:
		return "Malformed"
	default:
		return "ValidationResult(?)"
	}
}

// toEditResult maps a non-Valid ValidationResult to the EditResult a
// change handler should return. Only meaningful when r != ResultValid.
func (r ValidationResult) toEditResult() EditResult {
	if r == ResultMalformed {
		return Malformed
	}
	return Invalid
}

// validateStablePlace classifies place against view. This is the
// authoritative Invalid/Malformed split referenced throughout §4 and
// decided in SPEC_FULL.md §E.5: a structurally self-contradictory place
// (see StablePlace.malformed) is Malformed; a structurally sound place
// whose anchor or trait-endpoint parent is simply absent from the current
// view is Invalid.
func validateStablePlace(view Snapshot, place StablePlace) ValidationResult {
	if place.malformed() {
		return ResultMalformed
	}

	if !place.anchored {
		if !view.HasNode(place.Parent) {
			return ResultInvalid
		}
		return ResultValid
	}

	if !view.HasNode(place.Anchor) {
		return ResultInvalid
	}
	if _, _, found := view.parentOf(place.Anchor); !found {
		// The anchor exists but is not parented anywhere in the tree
		// (e.g. it is the root, or it sits in a detached sequence) —
		// there is no trait to place relative to it.
		return ResultInvalid
	}
	return ResultValid
}

// validateStableRange classifies r against view: both endpoints must
// individually validate, must resolve into the same trait, and the end
// index must not precede the start index.
func validateStableRange(view Snapshot, r StableRange) ValidationResult {
	startResult := validateStablePlace(view, r.Start)
	if startResult == ResultMalformed {
		return ResultMalformed
	}
	endResult := validateStablePlace(view, r.End)
	if endResult == ResultMalformed {
		return ResultMalformed
	}
	if startResult != ResultValid || endResult != ResultValid {
		return ResultInvalid
	}

	startParent, startLabel, ok := view.placeTrait(r.Start)
	if !ok {
		return ResultInvalid
	}
	endParent, endLabel, ok := view.placeTrait(r.End)
	if !ok {
		return ResultInvalid
	}
	if startParent != endParent || startLabel != endLabel {
		return ResultInvalid
	}

	startIndex := view.FindIndexWithinTrait(r.Start)
	endIndex := view.FindIndexWithinTrait(r.End)
	if endIndex < startIndex {
		return ResultInvalid
	}
	return ResultValid
}

// rangeFromStableRange resolves an already-Valid StableRange to its
// containing trait and integer bounds. Precondition:
// validateStableRange(view, r) == ResultValid; violating it is a
// defect, since every caller in this package validates first.
func rangeFromStableRange(view Snapshot, r StableRange) (parent NodeId, label TraitLabel, startIndex, endIndex int) {
	parent, label, ok := view.placeTrait(r.Start)
	if !ok {
		panic(Defect(nil, "coretree: rangeFromStableRange precondition violated: range does not resolve"))
	}
	startIndex = view.FindIndexWithinTrait(r.Start)
	endIndex = view.FindIndexWithinTrait(r.End)
	return parent, label, startIndex, endIndex
}

// isDetachedSequenceId reports whether id names a sequence currently held
// in detached. Exposed as a standalone primitive per §6's consumed
// collaborator contract list, alongside the methods transaction.go calls
// directly on the map.
func isDetachedSequenceId(detached map[DetachedSequenceId][]NodeId, id DetachedSequenceId) bool {
	_, ok := detached[id]
	return ok
}
