package coretree

// applySetValue implements §4.6.
func (t *Transaction) applySetValue(c SetValueChange) EditResult {
	if !t.view.HasNode(c.NodeToModify) {
		return Invalid
	}

	node := t.view.GetSnapshotNode(c.NodeToModify)
	if c.Payload.Clear {
		node.HasPayload = false
		node.Payload = nil
	} else {
		node.HasPayload = true
		node.Payload = c.Payload.Value
	}

	t.view = t.view.ReplaceNodeData(c.NodeToModify, node)
	return Applied
}
