package coretree

import "reflect"

// DiffKind classifies one entry in a Diff.
type DiffKind int

const (
	// NodeAdded means id exists in the new Snapshot but not the old one.
	NodeAdded DiffKind = iota
	// NodeRemoved means id exists in the old Snapshot but not the new one.
	NodeRemoved
	// NodeChanged means id exists in both but its definition, traits, or
	// payload differ.
	NodeChanged
)

func (k DiffKind) String() string {
	switch k {
	case NodeAdded:
		return "added"
	case NodeRemoved:
		return "removed"
	case NodeChanged:
		return "changed"
	default:
		return "DiffKind(?)"
	}
}

// DiffEntry is one node-level difference between two snapshots.
type DiffEntry struct {
	Node NodeId
	Kind DiffKind
}

// Diff walks both snapshots from their respective roots and reports every
// node whose presence or content differs. It is a supplemental
// introspection tool (SPEC_FULL.md §E.4), not part of the interpreter's
// dispatch path: no Transaction calls this.
func Diff(before, after Snapshot) []DiffEntry {
	beforeIds := reachableIds(before)
	afterIds := reachableIds(after)

	var entries []DiffEntry
	for id := range beforeIds {
		if !afterIds[id] {
			entries = append(entries, DiffEntry{Node: id, Kind: NodeRemoved})
			continue
		}
		if !sameNode(before.GetSnapshotNode(id), after.GetSnapshotNode(id)) {
			entries = append(entries, DiffEntry{Node: id, Kind: NodeChanged})
		}
	}
	for id := range afterIds {
		if !beforeIds[id] {
			entries = append(entries, DiffEntry{Node: id, Kind: NodeAdded})
		}
	}
	return entries
}

func reachableIds(s Snapshot) map[NodeId]bool {
	seen := map[NodeId]bool{}
	var walk func(NodeId)
	walk = func(id NodeId) {
		if seen[id] || !s.HasNode(id) {
			return
		}
		seen[id] = true
		node := s.GetSnapshotNode(id)
		for _, children := range node.Traits {
			for _, child := range children {
				walk(child)
			}
		}
	}
	walk(s.Root())
	return seen
}

func sameNode(a, b SnapshotNode) bool {
	if !reflect.DeepEqual(a.Definition, b.Definition) {
		return false
	}
	if a.HasPayload != b.HasPayload {
		return false
	}
	if a.HasPayload && !reflect.DeepEqual(a.Payload, b.Payload) {
		return false
	}
	if len(a.Traits) != len(b.Traits) {
		return false
	}
	for label, children := range a.Traits {
		other, ok := b.Traits[label]
		if !ok || len(children) != len(other) {
			return false
		}
		for i := range children {
			if children[i] != other[i] {
				return false
			}
		}
	}
	return true
}
