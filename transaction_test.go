package coretree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture builds a small baseline: root R with an empty trait "children",
// plus, when withABC is true, three pre-existing siblings A, B, C in that
// trait.
func fixture(t *testing.T, withABC bool) (root NodeId, a, b, c NodeId, baseline Snapshot) {
	t.Helper()
	root = NewNodeId("R")
	a, b, c = NewNodeId("A"), NewNodeId("B"), NewNodeId("C")

	nodes := map[NodeId]SnapshotNode{
		root: {Definition: "root"},
	}
	if withABC {
		nodes[a] = SnapshotNode{Definition: "A"}
		nodes[b] = SnapshotNode{Definition: "B"}
		nodes[c] = SnapshotNode{Definition: "C"}
		nodes[root] = SnapshotNode{Definition: "root", Traits: map[TraitLabel][]NodeId{
			"children": {a, b, c},
		}}
	}
	return root, a, b, c, NewSnapshot(root, nodes)
}

// (a) Build + Insert round trip.
func TestScenarioBuildInsertRoundTrip(t *testing.T) {
	root, _, _, _, baseline := fixture(t, false)
	n := NewNodeId("N")
	seq := NewDetachedSequenceId("S")

	tx := NewTransaction(baseline)
	require.Equal(t, Applied, tx.Apply(BuildChange{
		Source:      []EditNode{InlineEditNode(n, "D", nil)},
		Destination: seq,
	}))
	require.Equal(t, Applied, tx.Apply(InsertChange{
		Source:      seq,
		Destination: PlaceStartOf(root, "children"),
	}))

	outcome, view := tx.Close()
	require.Equal(t, Applied, outcome)
	assert.Equal(t, []NodeId{n}, view.GetSnapshotNode(root).Traits["children"])
	assert.Equal(t, "D", view.GetSnapshotNode(n).Definition)
}

// (b) Unused detached is malformed.
func TestScenarioUnusedDetachedIsMalformed(t *testing.T) {
	_, _, _, _, baseline := fixture(t, false)
	n := NewNodeId("N")
	seq := NewDetachedSequenceId("S")

	tx := NewTransaction(baseline)
	require.Equal(t, Applied, tx.Apply(BuildChange{
		Source:      []EditNode{InlineEditNode(n, "D", nil)},
		Destination: seq,
	}))

	outcome, _ := tx.Close()
	assert.Equal(t, Malformed, outcome)
}

// (c) Duplicate id in build.
func TestScenarioDuplicateIdInBuild(t *testing.T) {
	_, _, _, _, baseline := fixture(t, false)
	n := NewNodeId("N")
	seq := NewDetachedSequenceId("S")

	tx := NewTransaction(baseline)
	result := tx.Apply(BuildChange{
		Source:      []EditNode{InlineEditNode(n, "D1", nil), InlineEditNode(n, "D2", nil)},
		Destination: seq,
	})
	assert.Equal(t, Malformed, result)
	assert.False(t, isDetachedSequenceId(tx.detached, seq))
	assert.True(t, sameSnapshotView(t, baseline, tx.CurrentView()))
}

// (d) Detach without destination deletes.
func TestScenarioDetachDeletes(t *testing.T) {
	_, a, b, c, baseline := fixture(t, true)

	tx := NewTransaction(baseline)
	result := tx.Apply(DetachChange{Source: NewStableRange(PlaceAfter(a), PlaceBefore(c))})
	require.Equal(t, Applied, result)

	outcome, view := tx.Close()
	require.Equal(t, Applied, outcome)
	assert.False(t, view.HasNode(b))
	assert.Equal(t, []NodeId{a, c}, view.GetSnapshotNode(view.Root()).Traits["children"])
}

// (e) Detach with destination preserves for reinsertion.
func TestScenarioDetachThenReinsert(t *testing.T) {
	_, a, b, c, baseline := fixture(t, true)
	seq := NewDetachedSequenceId("S")

	tx := NewTransaction(baseline)
	require.Equal(t, Applied, tx.Apply(DetachChange{
		Source:      NewStableRange(PlaceAfter(a), PlaceBefore(c)),
		Destination: &seq,
	}))
	require.Equal(t, Applied, tx.Apply(InsertChange{
		Source:      seq,
		Destination: PlaceAfter(c),
	}))

	outcome, view := tx.Close()
	require.Equal(t, Applied, outcome)
	assert.Equal(t, []NodeId{a, c, b}, view.GetSnapshotNode(view.Root()).Traits["children"])
	assert.Empty(t, tx.detached)
}

// (f) Constraint ValidRetry violation is non-fatal.
func TestScenarioConstraintValidRetry(t *testing.T) {
	root, a, b, _, baseline := twoChildFixture(t)
	length := 5

	tx := NewTransaction(baseline)
	before := tx.CurrentView()
	result := tx.Apply(ConstraintChange{
		ToConstrain: NewStableRange(PlaceStartOf(root, "children"), PlaceEndOf(root, "children")),
		Effect:      ValidRetry,
		Length:      &length,
	})
	assert.Equal(t, Applied, result)
	assert.True(t, sameSnapshotView(t, before, tx.CurrentView()))
	_ = a
	_ = b
}

// (g) Constraint InvalidRetry violation returns Invalid.
func TestScenarioConstraintInvalidRetry(t *testing.T) {
	root, _, _, _, baseline := twoChildFixture(t)
	length := 5

	tx := NewTransaction(baseline)
	result := tx.Apply(ConstraintChange{
		ToConstrain: NewStableRange(PlaceStartOf(root, "children"), PlaceEndOf(root, "children")),
		Effect:      InvalidRetry,
		Length:      &length,
	})
	assert.Equal(t, Invalid, result)
	assert.False(t, tx.IsOpen())
}

// (h) SetValue on absent node.
func TestScenarioSetValueOnAbsentNode(t *testing.T) {
	_, _, _, _, baseline := fixture(t, false)
	tx := NewTransaction(baseline)
	result := tx.Apply(SetValueChange{NodeToModify: NewNodeId("Z"), Payload: SetPayloadValue(1)})
	assert.Equal(t, Invalid, result)
}

// (i) Insert from consumed detached is malformed.
func TestScenarioInsertFromConsumedDetachedIsMalformed(t *testing.T) {
	root, _, _, _, baseline := fixture(t, false)
	n := NewNodeId("N")
	seq := NewDetachedSequenceId("S")

	tx := NewTransaction(baseline)
	require.Equal(t, Applied, tx.Apply(BuildChange{
		Source:      []EditNode{InlineEditNode(n, "D", nil)},
		Destination: seq,
	}))
	require.Equal(t, Applied, tx.Apply(InsertChange{
		Source:      seq,
		Destination: PlaceStartOf(root, "children"),
	}))
	result := tx.Apply(InsertChange{Source: seq, Destination: PlaceEndOf(root, "children")})
	assert.Equal(t, Malformed, result)
}

func twoChildFixture(t *testing.T) (root, a, b, c NodeId, baseline Snapshot) {
	t.Helper()
	root = NewNodeId("R")
	a, b = NewNodeId("A"), NewNodeId("B")
	nodes := map[NodeId]SnapshotNode{
		a: {Definition: "A"},
		b: {Definition: "B"},
		root: {Definition: "root", Traits: map[TraitLabel][]NodeId{
			"children": {a, b},
		}},
	}
	return root, a, b, NodeId{}, NewSnapshot(root, nodes)
}

func sameSnapshotView(t *testing.T, a, b Snapshot) bool {
	t.Helper()
	return len(Diff(a, b)) == 0
}

// --- Universal invariants ---

func TestInvariantBaselineImmutability(t *testing.T) {
	root, _, _, _, baseline := fixture(t, false)
	n := NewNodeId("N")
	seq := NewDetachedSequenceId("S")

	before := baseline
	tx := NewTransaction(baseline)
	tx.Apply(BuildChange{Source: []EditNode{InlineEditNode(n, "D", nil)}, Destination: seq})
	tx.Apply(InsertChange{Source: seq, Destination: PlaceStartOf(root, "children")})
	tx.Close()

	assert.True(t, sameSnapshotView(t, before, baseline))
	assert.False(t, baseline.HasNode(n))
}

func TestInvariantCloseMalformation(t *testing.T) {
	_, _, _, _, baseline := fixture(t, false)
	seq := NewDetachedSequenceId("S")

	tx := NewTransaction(baseline)
	tx.Apply(BuildChange{Source: []EditNode{InlineEditNode(NewNodeId("N"), "D", nil)}, Destination: seq})
	outcome, _ := tx.Close()
	assert.Equal(t, Malformed, outcome)
}

func TestInvariantClassificationDominance(t *testing.T) {
	_, _, _, _, baseline := fixture(t, false)
	n := NewNodeId("N")
	seq := NewDetachedSequenceId("S")

	// Build N once so the second Build hits idAlreadyPresent...
	tx := NewTransaction(baseline)
	require.Equal(t, Applied, tx.Apply(BuildChange{
		Source:      []EditNode{InlineEditNode(n, "D", nil)},
		Destination: NewDetachedSequenceId("first")}))
	require.Equal(t, Applied, tx.Apply(InsertChange{
		Source:      NewDetachedSequenceId("first"),
		Destination: PlaceStartOf(baseline.Root(), "children"),
	}))

	// ...and also duplicates N within a single Build, which must win.
	result := tx.Apply(BuildChange{
		Source:      []EditNode{InlineEditNode(n, "D2", nil), InlineEditNode(n, "D3", nil)},
		Destination: seq,
	})
	assert.Equal(t, Malformed, result)
}

func TestInvariantConstraintNonMutation(t *testing.T) {
	root, _, _, _, baseline := twoChildFixture(t)
	tx := NewTransaction(baseline)
	before := tx.CurrentView()
	length := 1
	tx.Apply(ConstraintChange{
		ToConstrain: NewStableRange(PlaceStartOf(root, "children"), PlaceEndOf(root, "children")),
		Effect:      ValidRetry,
		Length:      &length,
	})
	assert.True(t, sameSnapshotView(t, before, tx.CurrentView()))
}

func TestInvariantSetValueNullNotAbsent(t *testing.T) {
	_, a, _, _, baseline := twoChildFixture(t)

	tx := NewTransaction(baseline)
	require.Equal(t, Applied, tx.Apply(SetValueChange{NodeToModify: a, Payload: SetPayloadValue(42)}))
	_, view := tx.Close()
	node := view.GetSnapshotNode(a)
	require.True(t, node.HasPayload)
	assert.Equal(t, 42, node.Payload)

	tx2 := NewTransaction(view)
	require.Equal(t, Applied, tx2.Apply(SetValueChange{NodeToModify: a, Payload: ClearPayload()}))
	_, view2 := tx2.Close()
	node2 := view2.GetSnapshotNode(a)
	assert.False(t, node2.HasPayload)
}

func TestInvariantUniqueParent(t *testing.T) {
	root, a, b, c, baseline := fixture(t, true)

	tx := NewTransaction(baseline)
	require.Equal(t, Applied, tx.Apply(DetachChange{
		Source:      NewStableRange(PlaceAfter(a), PlaceBefore(c)),
		Destination: ptr(NewDetachedSequenceId("S")),
	}))
	require.Equal(t, Applied, tx.Apply(InsertChange{
		Source:      NewDetachedSequenceId("S"),
		Destination: PlaceStartOf(root, "children"),
	}))
	_, view := tx.Close()

	seen := map[NodeId]int{}
	for _, id := range view.GetSnapshotNode(root).Traits["children"] {
		seen[id]++
	}
	for id, count := range seen {
		assert.Equalf(t, 1, count, "node %s appears %d times", id, count)
	}
	assert.Equal(t, []NodeId{b, a, c}, view.GetSnapshotNode(root).Traits["children"])
}

func ptr(id DetachedSequenceId) *DetachedSequenceId { return &id }

func TestApplyAfterCloseIsNoop(t *testing.T) {
	_, _, _, _, baseline := fixture(t, false)
	tx := NewTransaction(baseline)
	result := tx.Apply(SetValueChange{NodeToModify: NewNodeId("Z"), Payload: SetPayloadValue(1)})
	require.Equal(t, Invalid, result)

	again := tx.Apply(BuildChange{Source: nil, Destination: NewDetachedSequenceId("S")})
	assert.Equal(t, Invalid, again)
	assert.Empty(t, tx.detached)
}

func TestApplyUnknownChangeKindPanics(t *testing.T) {
	_, _, _, _, baseline := fixture(t, false)
	tx := NewTransaction(baseline)
	assert.Panics(t, func() {
		tx.Apply(unknownChange{})
	})
}

type unknownChange struct{}

func (unknownChange) isChange() {}

// Two Transactions built from the same baseline must stay independent
// (§5): one writing node A must never be visible through the other's
// view, even though both share the baseline's underlying nodeStore.
func TestParallelTransactionsFromSameBaselineAreIsolated(t *testing.T) {
	_, a, b, _, baseline := fixture(t, true)

	t1 := NewTransaction(baseline)
	require.Equal(t, Applied, t1.Apply(SetValueChange{NodeToModify: a, Payload: SetPayloadValue("t1-write")}))

	t2 := NewTransaction(baseline)
	require.Equal(t, Applied, t2.Apply(SetValueChange{NodeToModify: b, Payload: SetPayloadValue("t2-write")}))

	view2 := t2.CurrentView()
	aNode := view2.GetSnapshotNode(a)
	assert.False(t, aNode.HasPayload, "t2's view must not observe t1's write to A")

	view1 := t1.CurrentView()
	bNode := view1.GetSnapshotNode(b)
	assert.False(t, bNode.HasPayload, "t1's view must not observe t2's write to B")

	_, finalView1 := t1.Close()
	require.True(t, finalView1.HasNode(a))
	assert.Equal(t, "t1-write", finalView1.GetSnapshotNode(a).Payload)

	_, finalView2 := t2.Close()
	require.True(t, finalView2.HasNode(b))
	assert.Equal(t, "t2-write", finalView2.GetSnapshotNode(b).Payload)
}
