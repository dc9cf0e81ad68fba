package coretree

// applyInsert implements §4.3.
func (t *Transaction) applyInsert(c InsertChange) EditResult {
	ids, ok := t.detached[c.Source]
	if !ok {
		return Malformed
	}

	switch validateStablePlace(t.view, c.Destination) {
	case ResultMalformed:
		return Malformed
	case ResultInvalid:
		return Invalid
	}

	delete(t.detached, c.Source)
	t.view = insertIntoTrait(t.view, ids, c.Destination)
	return Applied
}
