package coretree

// applyDetach implements §4.4.
func (t *Transaction) applyDetach(c DetachChange) EditResult {
	switch validateStableRange(t.view, c.Source) {
	case ResultMalformed:
		return Malformed
	case ResultInvalid:
		return Invalid
	}

	residual, ids := detachRange(t.view, c.Source)

	if c.Destination == nil {
		t.view = residual.DeleteNodes(ids)
		return Applied
	}

	if _, collides := t.detached[*c.Destination]; collides {
		return Malformed
	}

	t.detached[*c.Destination] = ids
	t.view = residual
	return Applied
}
