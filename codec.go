package coretree

import (
	"encoding/json"
	"fmt"
)

// This file implements the persisted Change/EditNode wire schema named in
// §6: "the five Change variants and EditNode form the stable
// on-wire/on-disk schema". JSON is the codec (see SPEC_FULL.md §E.2 for
// why no third-party serialization library in the pack improves on it for
// a tagged-union shape like this one). The codec is deliberately outside
// the core dispatch path in transaction.go — a malformed wire payload is
// the "surrounding codec"'s problem per §6, not the interpreter's.

type wirePlace struct {
	Anchored bool   `json:"anchored"`
	Anchor   string `json:"anchor,omitempty"`
	Side     string `json:"side,omitempty"`
	Endpoint string `json:"endpoint,omitempty"`
	Parent   string `json:"parent,omitempty"`
	Label    string `json:"label,omitempty"`
}

func encodePlace(p StablePlace) wirePlace {
	if p.anchored {
		side := "Before"
		if p.Side == After {
			side = "After"
		}
		return wirePlace{Anchored: true, Anchor: p.Anchor.String(), Side: side}
	}
	endpoint := "Start"
	if p.Endpoint == EndOfTrait {
		endpoint = "End"
	}
	return wirePlace{Anchored: false, Endpoint: endpoint, Parent: p.Parent.String(), Label: string(p.Label)}
}

func decodePlace(w wirePlace) StablePlace {
	if w.Anchored {
		side := Before
		if w.Side == "After" {
			side = After
		}
		return StablePlace{anchored: true, Anchor: NewNodeId(w.Anchor), Side: side}
	}
	endpoint := StartOfTrait
	if w.Endpoint == "End" {
		endpoint = EndOfTrait
	}
	return StablePlace{anchored: false, Endpoint: endpoint, Parent: NewNodeId(w.Parent), Label: TraitLabel(w.Label)}
}

type wireRange struct {
	Start wirePlace `json:"start"`
	End   wirePlace `json:"end"`
}

func encodeRange(r StableRange) wireRange {
	return wireRange{Start: encodePlace(r.Start), End: encodePlace(r.End)}
}

func decodeRange(w wireRange) StableRange {
	return StableRange{Start: decodePlace(w.Start), End: decodePlace(w.End)}
}

type wireEditNode struct {
	Reference  string                           `json:"reference,omitempty"`
	Identifier string                           `json:"identifier,omitempty"`
	Definition json.RawMessage                  `json:"definition,omitempty"`
	Traits     map[TraitLabel][]json.RawMessage `json:"traits,omitempty"`
	Payload    json.RawMessage                  `json:"payload,omitempty"`
}

// MarshalJSON encodes an EditNode per the wire schema.
func (n EditNode) MarshalJSON() ([]byte, error) {
	if n.isReference {
		return json.Marshal(wireEditNode{Reference: n.Reference.String()})
	}

	def, err := json.Marshal(n.Definition)
	if err != nil {
		return nil, fmt.Errorf("coretree: marshal EditNode definition: %w", err)
	}

	traits := make(map[TraitLabel][]json.RawMessage, len(n.Traits))
	for label, children := range n.Traits {
		encoded := make([]json.RawMessage, len(children))
		for i, c := range children {
			raw, err := json.Marshal(c)
			if err != nil {
				return nil, fmt.Errorf("coretree: marshal EditNode trait %q[%d]: %w", label, i, err)
			}
			encoded[i] = raw
		}
		traits[label] = encoded
	}

	w := wireEditNode{
		Identifier: n.Identifier.String(),
		Definition: def,
		Traits:     traits,
	}
	if n.HasPayload {
		payload, err := json.Marshal(n.Payload)
		if err != nil {
			return nil, fmt.Errorf("coretree: marshal EditNode payload: %w", err)
		}
		w.Payload = payload
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes an EditNode per the wire schema.
func (n *EditNode) UnmarshalJSON(data []byte) error {
	var w wireEditNode
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.Reference != "" {
		*n = EditNodeReference(NewDetachedSequenceId(w.Reference))
		return nil
	}

	var definition interface{}
	if len(w.Definition) > 0 {
		if err := json.Unmarshal(w.Definition, &definition); err != nil {
			return fmt.Errorf("coretree: unmarshal EditNode definition: %w", err)
		}
	}

	var traits map[TraitLabel][]EditNode
	if len(w.Traits) > 0 {
		traits = make(map[TraitLabel][]EditNode, len(w.Traits))
		for label, children := range w.Traits {
			decoded := make([]EditNode, len(children))
			for i, raw := range children {
				if err := json.Unmarshal(raw, &decoded[i]); err != nil {
					return fmt.Errorf("coretree: unmarshal EditNode trait %q[%d]: %w", label, i, err)
				}
			}
			traits[label] = decoded
		}
	}

	result := InlineEditNode(NewNodeId(w.Identifier), definition, traits)
	if len(w.Payload) > 0 {
		var payload interface{}
		if err := json.Unmarshal(w.Payload, &payload); err != nil {
			return fmt.Errorf("coretree: unmarshal EditNode payload: %w", err)
		}
		result.HasPayload = true
		result.Payload = payload
	}
	*n = result
	return nil
}

type wireChange struct {
	Type         string          `json:"type"`
	Source       json.RawMessage `json:"source,omitempty"`
	Destination  json.RawMessage `json:"destination,omitempty"`
	ToConstrain  *wireRange      `json:"toConstrain,omitempty"`
	Effect       string          `json:"effect,omitempty"`
	Length       *int            `json:"length,omitempty"`
	ParentNode   string          `json:"parentNode,omitempty"`
	Label        string          `json:"label,omitempty"`
	IdentityHash []byte          `json:"identityHash,omitempty"`
	ContentHash  []byte          `json:"contentHash,omitempty"`
	NodeToModify string          `json:"nodeToModify,omitempty"`

	// Payload is always present on a SetValue change (§6): the literal
	// JSON null encodes an explicit clear, any other value encodes the
	// new payload. MarshalChange never leaves this empty for a
	// SetValueChange (a clear marshals the literal null, not an omitted
	// field), so omitempty here only ever drops it for the other four
	// Change kinds, which don't use it at all. UnmarshalChange treats a
	// genuinely empty Payload on a SetValue message as malformed rather
	// than inferring a clear from it.
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MarshalChange encodes a Change per the wire schema (§6): the `type`
// field is the tag discriminator.
func MarshalChange(change Change) ([]byte, error) {
	switch c := change.(type) {
	case BuildChange:
		source, err := json.Marshal(c.Source)
		if err != nil {
			return nil, err
		}
		dest, err := json.Marshal(c.Destination.String())
		if err != nil {
			return nil, err
		}
		return json.Marshal(wireChange{Type: "Build", Source: source, Destination: dest})

	case InsertChange:
		source, err := json.Marshal(c.Source.String())
		if err != nil {
			return nil, err
		}
		dest, err := json.Marshal(encodePlace(c.Destination))
		if err != nil {
			return nil, err
		}
		return json.Marshal(wireChange{Type: "Insert", Source: source, Destination: dest})

	case DetachChange:
		source, err := json.Marshal(encodeRange(c.Source))
		if err != nil {
			return nil, err
		}
		w := wireChange{Type: "Detach", Source: source}
		if c.Destination != nil {
			dest, err := json.Marshal(c.Destination.String())
			if err != nil {
				return nil, err
			}
			w.Destination = dest
		}
		return json.Marshal(w)

	case ConstraintChange:
		r := encodeRange(c.ToConstrain)
		effect := "InvalidRetry"
		if c.Effect == ValidRetry {
			effect = "ValidRetry"
		}
		w := wireChange{Type: "Constraint", ToConstrain: &r, Effect: effect, Length: c.Length, IdentityHash: c.IdentityHash, ContentHash: c.ContentHash}
		if c.ParentNode != nil {
			w.ParentNode = c.ParentNode.String()
		}
		if c.Label != nil {
			w.Label = string(*c.Label)
		}
		return json.Marshal(w)

	case SetValueChange:
		w := wireChange{Type: "SetValue", NodeToModify: c.NodeToModify.String()}
		if c.Payload.Clear {
			w.Payload = json.RawMessage("null")
		} else {
			payload, err := json.Marshal(c.Payload.Value)
			if err != nil {
				return nil, err
			}
			w.Payload = payload
		}
		return json.Marshal(w)

	default:
		panic(Defect(nil, fmt.Sprintf("coretree: MarshalChange: unknown change kind %T", change)))
	}
}

type wireSnapshotNode struct {
	Definition json.RawMessage         `json:"definition,omitempty"`
	Traits     map[TraitLabel][]string `json:"traits,omitempty"`
	Payload    json.RawMessage         `json:"payload,omitempty"`
}

type wireSnapshot struct {
	Root  string                      `json:"root"`
	Nodes map[string]wireSnapshotNode `json:"nodes"`
}

// MarshalSnapshot encodes a Snapshot as a flat id->node map plus a root
// id. This is the format cmd/arbortx reads baseline documents in (§E.4
// of SPEC_FULL.md): it is not the on-wire Change/EditNode schema, since a
// whole-tree baseline and an incremental edit are different artifacts.
func MarshalSnapshot(s Snapshot) ([]byte, error) {
	ids := reachableIds(s)
	nodes := make(map[string]wireSnapshotNode, len(ids))
	for id := range ids {
		n := s.GetSnapshotNode(id)
		def, err := json.Marshal(n.Definition)
		if err != nil {
			return nil, err
		}
		traits := make(map[TraitLabel][]string, len(n.Traits))
		for label, children := range n.Traits {
			rendered := make([]string, len(children))
			for i, c := range children {
				rendered[i] = c.String()
			}
			traits[label] = rendered
		}
		w := wireSnapshotNode{Definition: def, Traits: traits}
		if n.HasPayload {
			payload, err := json.Marshal(n.Payload)
			if err != nil {
				return nil, err
			}
			w.Payload = payload
		}
		nodes[id.String()] = w
	}
	return json.Marshal(wireSnapshot{Root: s.Root().String(), Nodes: nodes})
}

// UnmarshalSnapshot decodes a Snapshot from the format MarshalSnapshot
// produces.
func UnmarshalSnapshot(data []byte) (Snapshot, error) {
	var w wireSnapshot
	if err := json.Unmarshal(data, &w); err != nil {
		return Snapshot{}, err
	}

	nodes := make(map[NodeId]SnapshotNode, len(w.Nodes))
	for rawID, wn := range w.Nodes {
		id := NewNodeId(rawID)

		var definition interface{}
		if len(wn.Definition) > 0 {
			if err := json.Unmarshal(wn.Definition, &definition); err != nil {
				return Snapshot{}, fmt.Errorf("coretree: unmarshal snapshot node %q definition: %w", rawID, err)
			}
		}

		traits := make(map[TraitLabel][]NodeId, len(wn.Traits))
		for label, children := range wn.Traits {
			ids := make([]NodeId, len(children))
			for i, c := range children {
				ids[i] = NewNodeId(c)
			}
			traits[label] = ids
		}

		node := SnapshotNode{Identifier: id, Definition: definition, Traits: traits}
		if len(wn.Payload) > 0 {
			var payload interface{}
			if err := json.Unmarshal(wn.Payload, &payload); err != nil {
				return Snapshot{}, fmt.Errorf("coretree: unmarshal snapshot node %q payload: %w", rawID, err)
			}
			node.HasPayload = true
			node.Payload = payload
		}
		nodes[id] = node
	}

	return NewSnapshot(NewNodeId(w.Root), nodes), nil
}

// UnmarshalChange decodes a Change per the wire schema.
func UnmarshalChange(data []byte) (Change, error) {
	var w wireChange
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}

	switch w.Type {
	case "Build":
		var source []EditNode
		if err := json.Unmarshal(w.Source, &source); err != nil {
			return nil, fmt.Errorf("coretree: unmarshal Build.source: %w", err)
		}
		var dest string
		if err := json.Unmarshal(w.Destination, &dest); err != nil {
			return nil, fmt.Errorf("coretree: unmarshal Build.destination: %w", err)
		}
		return BuildChange{Source: source, Destination: NewDetachedSequenceId(dest)}, nil

	case "Insert":
		var source string
		if err := json.Unmarshal(w.Source, &source); err != nil {
			return nil, fmt.Errorf("coretree: unmarshal Insert.source: %w", err)
		}
		var dest wirePlace
		if err := json.Unmarshal(w.Destination, &dest); err != nil {
			return nil, fmt.Errorf("coretree: unmarshal Insert.destination: %w", err)
		}
		return InsertChange{Source: NewDetachedSequenceId(source), Destination: decodePlace(dest)}, nil

	case "Detach":
		var r wireRange
		if err := json.Unmarshal(w.Source, &r); err != nil {
			return nil, fmt.Errorf("coretree: unmarshal Detach.source: %w", err)
		}
		c := DetachChange{Source: decodeRange(r)}
		if len(w.Destination) > 0 {
			var dest string
			if err := json.Unmarshal(w.Destination, &dest); err != nil {
				return nil, fmt.Errorf("coretree: unmarshal Detach.destination: %w", err)
			}
			id := NewDetachedSequenceId(dest)
			c.Destination = &id
		}
		return c, nil

	case "Constraint":
		if w.ToConstrain == nil {
			return nil, fmt.Errorf("coretree: Constraint missing toConstrain")
		}
		c := ConstraintChange{
			ToConstrain:  decodeRange(*w.ToConstrain),
			Length:       w.Length,
			IdentityHash: w.IdentityHash,
			ContentHash:  w.ContentHash,
		}
		if w.Effect == "ValidRetry" {
			c.Effect = ValidRetry
		}
		if w.ParentNode != "" {
			id := NewNodeId(w.ParentNode)
			c.ParentNode = &id
		}
		if w.Label != "" {
			label := TraitLabel(w.Label)
			c.Label = &label
		}
		return c, nil

	case "SetValue":
		if len(w.Payload) == 0 {
			return nil, fmt.Errorf("coretree: unmarshal SetValue: missing payload field")
		}
		payload := ClearPayload()
		if string(w.Payload) != "null" {
			var value interface{}
			if err := json.Unmarshal(w.Payload, &value); err != nil {
				return nil, fmt.Errorf("coretree: unmarshal SetValue.payload: %w", err)
			}
			payload = SetPayloadValue(value)
		}
		return SetValueChange{NodeToModify: NewNodeId(w.NodeToModify), Payload: payload}, nil

	default:
		return nil, fmt.Errorf("coretree: unmarshal Change: unknown type %q", w.Type)
	}
}
