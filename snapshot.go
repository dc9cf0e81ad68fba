package coretree

import "fmt"

// SnapshotNode is the per-node record stored in a Snapshot.
type SnapshotNode struct {
	Identifier NodeId
	Definition interface{}
	Traits     map[TraitLabel][]NodeId

	// HasPayload reports whether the node carries a payload at all, so a
	// present-but-nil payload differs from none. A SetValue clear (§4.6)
	// sets it to false, the same state as a node that never had a
	// payload. Payload is only meaningful when HasPayload is true.
	HasPayload bool
	Payload    interface{}
}

// cloneTraits returns a shallow copy of n's trait map, with each trait's
// child slice also copied so callers can splice without aliasing this
// record's storage.
func (n SnapshotNode) cloneTraits() map[TraitLabel][]NodeId {
	out := make(map[TraitLabel][]NodeId, len(n.Traits))
	for label, children := range n.Traits {
		c := make([]NodeId, len(children))
		copy(c, children)
		out[label] = c
	}
	return out
}

// withTrait returns a copy of n with label's child list replaced.
func (n SnapshotNode) withTrait(label TraitLabel, children []NodeId) SnapshotNode {
	out := n
	out.Traits = n.cloneTraits()
	if len(children) == 0 {
		delete(out.Traits, label)
	} else {
		out.Traits[label] = children
	}
	return out
}

// Snapshot is an immutable, structurally-shared view of a labelled tree:
// a mapping from NodeId to SnapshotNode plus a designated root. All
// mutators return a new Snapshot value; the receiver is left untouched,
// which is what makes baseline immutability (§8 property 1) hold by
// construction rather than by caller discipline.
type Snapshot struct {
	store   *nodeStore
	branch  branchID
	version uint64
	root    NodeId
}

// NewSnapshot builds a fresh baseline Snapshot from a complete id->node
// map and a root id. The root itself must be a key of nodes. The
// returned Snapshot belongs to rootBranch; forking off an independent
// branch (so that, e.g., two Transactions built from it don't observe
// each other's writes) happens in NewTransaction, not here.
func NewSnapshot(root NodeId, nodes map[NodeId]SnapshotNode) Snapshot {
	store := newNodeStore()
	v := store.allocVersion()
	for id, n := range nodes {
		nCopy := n
		nCopy.Identifier = id
		store.write(id, rootBranch, v, &nCopy)
	}
	return Snapshot{store: store, branch: rootBranch, version: v, root: root}
}

// Root returns the snapshot's root NodeId.
func (s Snapshot) Root() NodeId { return s.root }

// HasNode reports whether id names a node present in this snapshot.
func (s Snapshot) HasNode(id NodeId) bool {
	_, ok := s.store.recordAt(id, s.branch, s.version)
	return ok
}

// GetSnapshotNode returns id's record. Precondition: HasNode(id); a
// violation is a producer defect (§7), not a data-level error, so it
// panics rather than returning an error.
func (s Snapshot) GetSnapshotNode(id NodeId) SnapshotNode {
	n, ok := s.store.recordAt(id, s.branch, s.version)
	if !ok {
		panic(Defect(nil, fmt.Sprintf("coretree: GetSnapshotNode precondition violated: node %s not in view", id)))
	}
	return *n
}

// InsertSnapshotNodes returns a new Snapshot with nodes added. None of
// the keys may already exist in this snapshot; violating that is a
// producer defect; the Build change handler (change_build.go) is
// responsible for checking id collisions itself and mapping them to the
// Invalid/Malformed classification §4.2 requires instead of letting this
// precondition trip.
func (s Snapshot) InsertSnapshotNodes(nodes map[NodeId]SnapshotNode) Snapshot {
	v := s.store.allocVersion()
	for id, n := range nodes {
		if _, exists := s.store.recordAt(id, s.branch, s.version); exists {
			panic(Defect(nil, fmt.Sprintf("coretree: InsertSnapshotNodes precondition violated: node %s already exists", id)))
		}
		nCopy := n
		nCopy.Identifier = id
		s.store.write(id, s.branch, v, &nCopy)
	}
	return Snapshot{store: s.store, branch: s.branch, version: v, root: s.root}
}

// DeleteNodes returns a new Snapshot with exactly those ids removed.
func (s Snapshot) DeleteNodes(ids []NodeId) Snapshot {
	if len(ids) == 0 {
		return s
	}
	v := s.store.allocVersion()
	for _, id := range ids {
		s.store.write(id, s.branch, v, nil)
	}
	return Snapshot{store: s.store, branch: s.branch, version: v, root: s.root}
}

// ReplaceNodeData returns a new Snapshot with id's record replaced by
// node in its entirety.
func (s Snapshot) ReplaceNodeData(id NodeId, node SnapshotNode) Snapshot {
	v := s.store.allocVersion()
	nCopy := node
	nCopy.Identifier = id
	s.store.write(id, s.branch, v, &nCopy)
	return Snapshot{store: s.store, branch: s.branch, version: v, root: s.root}
}

// FindIndexWithinTrait returns the integer offset of a resolved stable
// place within its containing trait. place must already be known to
// resolve against s (callers go through validateStablePlace first); an
// unresolvable place is a precondition violation here, surfaced as a
// defect rather than repeated validation.
func (s Snapshot) FindIndexWithinTrait(place StablePlace) int {
	parent, label, ok := s.placeTrait(place)
	if !ok {
		panic(Defect(nil, "coretree: FindIndexWithinTrait precondition violated: place does not resolve"))
	}
	children := s.traitChildren(parent, label)

	if !place.anchored {
		if place.Endpoint == StartOfTrait {
			return 0
		}
		return len(children)
	}

	for i, child := range children {
		if child == place.Anchor {
			if place.Side == Before {
				return i
			}
			return i + 1
		}
	}
	panic(Defect(nil, "coretree: FindIndexWithinTrait precondition violated: anchor not in trait"))
}

// placeTrait resolves the (parent, label) pair a StablePlace refers to,
// without validating that resolution is otherwise sound. ok is false only
// when the relevant node is entirely absent from s.
func (s Snapshot) placeTrait(place StablePlace) (parent NodeId, label TraitLabel, ok bool) {
	if !place.anchored {
		if !s.HasNode(place.Parent) {
			return NodeId{}, "", false
		}
		return place.Parent, place.Label, true
	}
	if !s.HasNode(place.Anchor) {
		return NodeId{}, "", false
	}
	p, l, found := s.parentOf(place.Anchor)
	if !found {
		return NodeId{}, "", false
	}
	return p, l, true
}

// parentOf scans every node's traits for id. The Snapshot contract (§3)
// does not require a reverse index; a production embedding host would
// maintain one alongside the tree, but the core only needs this for
// anchor resolution inside a single apply(), so a linear scan keeps the
// contract minimal per §6 (the interpreter consumes Snapshot only through
// the documented methods).
func (s Snapshot) parentOf(id NodeId) (parent NodeId, label TraitLabel, found bool) {
	visited := map[NodeId]bool{}
	var walk func(NodeId) bool
	walk = func(cur NodeId) bool {
		if visited[cur] {
			return false
		}
		visited[cur] = true
		if !s.HasNode(cur) {
			return false
		}
		node := s.GetSnapshotNode(cur)
		for l, children := range node.Traits {
			for _, child := range children {
				if child == id {
					parent, label, found = cur, l, true
					return true
				}
			}
		}
		for _, children := range node.Traits {
			for _, child := range children {
				if walk(child) {
					return true
				}
			}
		}
		return false
	}
	walk(s.root)
	return parent, label, found
}

// traitChildren returns parent's label trait, or nil if parent has no
// such trait (an empty trait and an absent one are equivalent here).
func (s Snapshot) traitChildren(parent NodeId, label TraitLabel) []NodeId {
	if !s.HasNode(parent) {
		return nil
	}
	return s.GetSnapshotNode(parent).Traits[label]
}
