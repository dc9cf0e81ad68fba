package coretree

// EditNode is a recursive input fragment describing new tree content for
// a Build change. A leaf position in the recursion may either be a
// reference to a previously produced detached sequence (which expands in
// place, consuming that sequence) or an inline node describing its own
// identifier, definition, traits and optional payload.
type EditNode struct {
	isReference bool
	Reference   DetachedSequenceId

	// Populated when isReference is false.
	Identifier NodeId
	Definition interface{}
	Traits     map[TraitLabel][]EditNode
	HasPayload bool
	Payload    interface{}
}

// EditNodeReference returns an EditNode that expands to the contents of a
// previously produced detached sequence.
func EditNodeReference(id DetachedSequenceId) EditNode {
	return EditNode{isReference: true, Reference: id}
}

// InlineEditNode returns an EditNode describing a new node with no
// payload.
func InlineEditNode(identifier NodeId, definition interface{}, traits map[TraitLabel][]EditNode) EditNode {
	return EditNode{
		Identifier: identifier,
		Definition: definition,
		Traits:     traits,
	}
}

// InlineEditNodeWithPayload is InlineEditNode with an explicit payload.
func InlineEditNodeWithPayload(identifier NodeId, definition interface{}, traits map[TraitLabel][]EditNode, payload interface{}) EditNode {
	n := InlineEditNode(identifier, definition, traits)
	n.HasPayload = true
	n.Payload = payload
	return n
}

// IsReference reports whether n is a detached-sequence reference rather
// than an inline node.
func (n EditNode) IsReference() bool { return n.isReference }
