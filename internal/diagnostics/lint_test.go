package diagnostics

import (
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arbortx/coretree"
)

func baseline() (coretree.NodeId, coretree.Snapshot) {
	root := coretree.NewNodeId("R")
	return root, coretree.NewSnapshot(root, map[coretree.NodeId]coretree.SnapshotNode{root: {}})
}

func TestLintReturnsNilWhenScriptIsClean(t *testing.T) {
	root, base := baseline()
	n := coretree.NewNodeId("N")
	seq := coretree.NewDetachedSequenceId("S")

	changes := []coretree.Change{
		coretree.BuildChange{Source: []coretree.EditNode{coretree.InlineEditNode(n, "D", nil)}, Destination: seq},
		coretree.InsertChange{Source: seq, Destination: coretree.PlaceStartOf(root, "children")},
	}

	err := Lint(base, changes)
	assert.NoError(t, err)
}

func TestLintSurfacesEachRejectedChange(t *testing.T) {
	root, base := baseline()
	n := coretree.NewNodeId("N")

	changes := []coretree.Change{
		// Rejected: absent node.
		coretree.SetValueChange{NodeToModify: coretree.NewNodeId("ghost"), Payload: coretree.SetPayloadValue(1)},
		// Accepted once diagnostics restarts past the rejection above.
		coretree.BuildChange{
			Source:      []coretree.EditNode{coretree.InlineEditNode(n, "D", nil)},
			Destination: coretree.NewDetachedSequenceId("S"),
		},
		coretree.InsertChange{
			Source:      coretree.NewDetachedSequenceId("S"),
			Destination: coretree.PlaceStartOf(root, "children"),
		},
		// Rejected: consuming a sequence that was never produced.
		coretree.InsertChange{Source: coretree.NewDetachedSequenceId("never-built"), Destination: coretree.PlaceEndOf(root, "children")},
	}

	err := Lint(base, changes)
	require.Error(t, err)

	merr, ok := err.(*multierror.Error)
	require.True(t, ok)
	assert.Len(t, merr.Errors, 2)

	first, ok := merr.Errors[0].(Finding)
	require.True(t, ok)
	assert.Equal(t, 0, first.Index)
	assert.Equal(t, coretree.Invalid, first.Result)

	second, ok := merr.Errors[1].(Finding)
	require.True(t, ok)
	assert.Equal(t, 3, second.Index)
	assert.Equal(t, coretree.Malformed, second.Result)
}
