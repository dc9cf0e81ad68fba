package coretree

// applyBuild implements §4.2. Detached-sequence references inside source
// are resolved against a read-only view of t.detached during traversal;
// nothing is committed to t.detached or t.view until the whole change is
// known to succeed, so a Malformed/Invalid outcome leaves both untouched
// (§8 property 2's detached-conservation invariant would otherwise be
// violated by a half-consumed reference).
func (t *Transaction) applyBuild(c BuildChange) EditResult {
	if _, collides := t.detached[c.Destination]; collides {
		return Malformed
	}

	b := &buildExpander{
		tx:           t,
		newNodes:     make(map[NodeId]SnapshotNode),
		consumedRefs: make(map[DetachedSequenceId]bool),
	}

	topLevelIds := b.expand(c.Source)

	if b.unresolvedReference {
		return Malformed
	}
	if b.duplicateInBuild {
		// Classification dominance (§8 property 5): Malformed outranks
		// Invalid even when both conditions were tripped.
		return Malformed
	}
	if b.idAlreadyPresent {
		return Invalid
	}

	for ref := range b.consumedRefs {
		delete(t.detached, ref)
	}
	t.view = t.view.InsertSnapshotNodes(b.newNodes)
	t.detached[c.Destination] = topLevelIds
	return Applied
}

// buildExpander performs the depth-first, single-explicit-stack traversal
// §9 calls out as the reference implementation's technique. Go's call
// stack plays the role of that explicit stack; traversal order is not
// externally observable per §9, only the top-level id ordering is.
type buildExpander struct {
	tx           *Transaction
	newNodes     map[NodeId]SnapshotNode
	consumedRefs map[DetachedSequenceId]bool

	unresolvedReference bool
	duplicateInBuild    bool
	idAlreadyPresent    bool
}

func (b *buildExpander) expand(nodes []EditNode) []NodeId {
	ids := make([]NodeId, 0, len(nodes))
	for _, n := range nodes {
		if b.unresolvedReference {
			return ids
		}
		if n.IsReference() {
			ids = append(ids, b.expandReference(n.Reference)...)
			continue
		}
		ids = append(ids, b.expandInline(n))
	}
	return ids
}

func (b *buildExpander) expandReference(ref DetachedSequenceId) []NodeId {
	if b.consumedRefs[ref] {
		b.unresolvedReference = true
		return nil
	}
	seq, ok := b.tx.detached[ref]
	if !ok {
		b.unresolvedReference = true
		return nil
	}
	b.consumedRefs[ref] = true
	return seq
}

func (b *buildExpander) expandInline(n EditNode) NodeId {
	if _, dup := b.newNodes[n.Identifier]; dup {
		b.duplicateInBuild = true
	} else if b.tx.view.HasNode(n.Identifier) {
		b.idAlreadyPresent = true
	}
	// Register n before descending so a descendant repeating its id is
	// flagged as a duplicate too; the full record replaces this below.
	b.newNodes[n.Identifier] = SnapshotNode{Identifier: n.Identifier}

	traits := make(map[TraitLabel][]NodeId, len(n.Traits))
	for label, children := range n.Traits {
		childIds := b.expand(children)
		if len(childIds) > 0 {
			traits[label] = childIds
		}
	}

	b.newNodes[n.Identifier] = SnapshotNode{
		Identifier: n.Identifier,
		Definition: n.Definition,
		Traits:     traits,
		HasPayload: n.HasPayload,
		Payload:    n.Payload,
	}
	return n.Identifier
}
