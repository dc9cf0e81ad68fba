package coretree

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodecChangeRoundTrip(t *testing.T) {
	seq := NewDetachedSequenceId("S")
	cases := []Change{
		BuildChange{
			Source:      []EditNode{InlineEditNodeWithPayload(NewNodeId("N"), "def", nil, "payload")},
			Destination: seq,
		},
		InsertChange{Source: seq, Destination: PlaceBefore(NewNodeId("A"))},
		DetachChange{Source: NewStableRange(PlaceStartOf(NewNodeId("R"), "children"), PlaceEndOf(NewNodeId("R"), "children"))},
		ConstraintChange{
			ToConstrain: NewStableRange(PlaceStartOf(NewNodeId("R"), "children"), PlaceEndOf(NewNodeId("R"), "children")),
			Effect:      ValidRetry,
			Length:      intPtr(3),
		},
		SetValueChange{NodeToModify: NewNodeId("N"), Payload: SetPayloadValue(float64(7))},
		SetValueChange{NodeToModify: NewNodeId("N"), Payload: ClearPayload()},
	}

	for _, original := range cases {
		data, err := MarshalChange(original)
		require.NoError(t, err)

		decoded, err := UnmarshalChange(data)
		require.NoError(t, err)

		assert.Equal(t, original, decoded)
	}
}

func TestCodecSetValueMissingPayloadIsMalformed(t *testing.T) {
	_, err := UnmarshalChange([]byte(`{"type":"SetValue","nodeToModify":"N"}`))
	require.Error(t, err)
}

func TestCodecSetValueClearMarshalsLiteralNull(t *testing.T) {
	data, err := MarshalChange(SetValueChange{NodeToModify: NewNodeId("N"), Payload: ClearPayload()})
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	payload, ok := raw["payload"]
	require.True(t, ok, "payload field must be present on the wire for a cleared SetValue")
	assert.Equal(t, "null", string(payload))
}

func TestCodecDetachWithDestinationRoundTrip(t *testing.T) {
	dest := NewDetachedSequenceId("S2")
	original := DetachChange{
		Source:      NewStableRange(PlaceAfter(NewNodeId("A")), PlaceBefore(NewNodeId("C"))),
		Destination: &dest,
	}
	data, err := MarshalChange(original)
	require.NoError(t, err)

	decoded, err := UnmarshalChange(data)
	require.NoError(t, err)

	dc, ok := decoded.(DetachChange)
	require.True(t, ok)
	require.NotNil(t, dc.Destination)
	assert.Equal(t, dest, *dc.Destination)
	assert.Equal(t, original.Source, dc.Source)
}

func TestCodecSnapshotRoundTrip(t *testing.T) {
	root := NewNodeId("R")
	a := NewNodeId("A")
	baseline := NewSnapshot(root, map[NodeId]SnapshotNode{
		root: {Traits: map[TraitLabel][]NodeId{"children": {a}}},
		a:    {Definition: "A", HasPayload: true, Payload: "hello"},
	})

	data, err := MarshalSnapshot(baseline)
	require.NoError(t, err)

	decoded, err := UnmarshalSnapshot(data)
	require.NoError(t, err)

	assert.Equal(t, root, decoded.Root())
	require.True(t, decoded.HasNode(a))
	node := decoded.GetSnapshotNode(a)
	assert.Equal(t, "A", node.Definition)
	assert.True(t, node.HasPayload)
	assert.Equal(t, "hello", node.Payload)
	assert.Equal(t, []NodeId{a}, decoded.GetSnapshotNode(root).Traits["children"])
}

func intPtr(i int) *int { return &i }
