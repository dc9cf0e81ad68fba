package coretree

import "sync"

// branchID names one independent lineage of writes within a nodeStore.
// rootBranch is the implicit lineage a freshly-built baseline Snapshot
// belongs to; every other branch is minted by forkBranch when a
// Transaction starts from some Snapshot, and evolves from then on
// without any other branch observing its writes.
type branchID uint64

const rootBranch branchID = 0

// versionedRecord is one entry in a node's per-branch history: the
// node's record as of version on that branch, or a nil node meaning
// "deleted as of version". Entries for one (NodeId, branchID) pair are
// appended in strictly increasing version order.
type versionedRecord struct {
	version uint64
	node    *SnapshotNode
}

// branchInfo links a forked branch back to the point it forked from:
// parent is the branch it forked out of, and forkVersion is the version
// on parent that was visible at the moment of the fork. Resolving a read
// on a branch with no record of its own walks up through parent,
// forkVersion pairs until it finds one or runs out of ancestry.
type branchInfo struct {
	parent      branchID
	forkVersion uint64
}

// nodeStore is the structural-sharing backing for every Snapshot derived
// from one baseline. It never mutates or removes a history entry once
// written; producing a new Snapshot appends exactly the touched nodes'
// next record on its branch and returns a Snapshot value pinned to the
// new version number, so §9's "structural sharing, not deep copy"
// requirement holds: cost is O(touched nodes) per edit, and every
// earlier Snapshot value keeps resolving against the entries that
// existed when it was minted.
//
// History is keyed by (NodeId, branchID), not just NodeId: a flat
// per-node version log with a single shared counter would let one
// Transaction's writes leak into a sibling Transaction built from the
// same baseline, since both would be reading forward through the same
// timeline. Modeled on garland's Node.history map[ForkRevision]*NodeSnapshot
// (node.go): garland keys its own history by (ForkID, RevisionID)
// specifically so that independent forks never see each other's writes;
// branchID plays the role garland's ForkID does, and forkBranch is
// minted once per Transaction (transaction.go's NewTransaction) so that
// §5's "parallel transactions against the same baseline snapshot are
// independent" holds for real rather than only for the common case where
// nobody tried it.
type nodeStore struct {
	mu          sync.RWMutex
	history     map[NodeId]map[branchID][]versionedRecord
	branches    map[branchID]branchInfo
	nextBranch  branchID
	nextVersion uint64
}

func newNodeStore() *nodeStore {
	return &nodeStore{
		history:    make(map[NodeId]map[branchID][]versionedRecord),
		branches:   make(map[branchID]branchInfo),
		nextBranch: rootBranch + 1,
	}
}

// allocVersion hands out the next version number. Guarded the same way
// garland guards its fork/revision counters. The counter is shared
// across every branch — that only orders writes within a branch's own
// chain and fixes the version a fork happened at; it is forkBranch's
// per-branch ancestry, not this counter, that keeps branches isolated.
func (s *nodeStore) allocVersion() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextVersion++
	return s.nextVersion
}

// forkBranch mints a new branch that inherits everything visible on
// parent as of parentVersion, and from then on evolves independently:
// writes on the new branch are invisible to parent and to any sibling
// branch forked from the same point, and parent's later writes (if any)
// stay invisible to this branch too.
func (s *nodeStore) forkBranch(parent branchID, parentVersion uint64) branchID {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.nextBranch
	s.nextBranch++
	s.branches[b] = branchInfo{parent: parent, forkVersion: parentVersion}
	return b
}

// recordAt returns id's record as visible on branch at version. If
// branch has no entry for id at or before version, resolution falls back
// to the branch it forked from, capped at the version that fork
// happened at, and so on up the ancestry chain until a write is found or
// rootBranch is exhausted.
func (s *nodeStore) recordAt(id NodeId, branch branchID, version uint64) (*SnapshotNode, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ceiling := version
	for {
		if rec, found := latestAtOrBefore(s.history[id][branch], ceiling); found {
			if rec.node == nil {
				return nil, false
			}
			return rec.node, true
		}
		if branch == rootBranch {
			return nil, false
		}
		info := s.branches[branch]
		ceiling = info.forkVersion
		branch = info.parent
	}
}

// latestAtOrBefore binary searches entries (sorted by strictly
// increasing version) for the last one with version <= ceiling.
func latestAtOrBefore(entries []versionedRecord, ceiling uint64) (versionedRecord, bool) {
	lo, hi := 0, len(entries)
	for lo < hi {
		mid := (lo + hi) / 2
		if entries[mid].version <= ceiling {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo == 0 {
		return versionedRecord{}, false
	}
	return entries[lo-1], true
}

// write appends a record for id on branch at version. node may be nil to
// record a deletion (a tombstone).
func (s *nodeStore) write(id NodeId, branch branchID, version uint64, node *SnapshotNode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.history[id] == nil {
		s.history[id] = make(map[branchID][]versionedRecord)
	}
	s.history[id][branch] = append(s.history[id][branch], versionedRecord{version: version, node: node})
}
