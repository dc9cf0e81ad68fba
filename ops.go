package coretree

// detachRange removes the contiguous run of siblings designated by an
// already-Valid StableRange, returning the residual Snapshot and the
// ordered node-id list that was removed. The removed nodes remain in the
// Snapshot's id map (only their parent's trait is rewritten) so a
// subsequent Insert can re-parent them; deleting the records themselves
// is the caller's job when no destination is kept (§4.4 step 4).
//
// Grounded on region_ops.go's dissolve/checkpoint split in garland: there,
// content is always removed from the tree first and only re-inserted (or
// discarded) as a second step, exactly the two-step shape Detach and
// Insert form here.
func detachRange(view Snapshot, r StableRange) (Snapshot, []NodeId) {
	parent, label, startIndex, endIndex := rangeFromStableRange(view, r)
	children := view.traitChildren(parent, label)

	removed := make([]NodeId, endIndex-startIndex)
	copy(removed, children[startIndex:endIndex])

	remaining := make([]NodeId, 0, len(children)-len(removed))
	remaining = append(remaining, children[:startIndex]...)
	remaining = append(remaining, children[endIndex:]...)

	parentNode := view.GetSnapshotNode(parent)
	newView := view.ReplaceNodeData(parent, parentNode.withTrait(label, remaining))
	return newView, removed
}

// insertIntoTrait splices ids at the position resolved from place,
// preserving order, and reparents the nodes into that trait. Precondition:
// validateStablePlace(view, place) == ResultValid.
func insertIntoTrait(view Snapshot, ids []NodeId, place StablePlace) Snapshot {
	parent, label, ok := view.placeTrait(place)
	if !ok {
		panic(Defect(nil, "coretree: insertIntoTrait precondition violated: place does not resolve"))
	}
	index := view.FindIndexWithinTrait(place)
	children := view.traitChildren(parent, label)

	spliced := make([]NodeId, 0, len(children)+len(ids))
	spliced = append(spliced, children[:index]...)
	spliced = append(spliced, ids...)
	spliced = append(spliced, children[index:]...)

	parentNode := view.GetSnapshotNode(parent)
	return view.ReplaceNodeData(parent, parentNode.withTrait(label, spliced))
}
