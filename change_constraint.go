package coretree

// applyConstraint implements §4.5. It never mutates t.view (§8 property
// 6: constraint non-mutation).
func (t *Transaction) applyConstraint(c ConstraintChange) EditResult {
	onViolation := Invalid
	if c.Effect == ValidRetry {
		onViolation = Applied
	}

	switch validateStableRange(t.view, c.ToConstrain) {
	case ResultMalformed:
		return Malformed
	case ResultInvalid:
		return onViolation
	}

	parent, label, startIndex, endIndex := rangeFromStableRange(t.view, c.ToConstrain)

	if c.Length != nil && *c.Length != endIndex-startIndex {
		return onViolation
	}
	if c.ParentNode != nil && *c.ParentNode != parent {
		return onViolation
	}
	if c.Label != nil && *c.Label != label {
		return onViolation
	}

	// identityHash/contentHash are reserved (SPEC_FULL.md §E.5): their
	// semantics are not implemented, and §7 requires failing loudly
	// rather than silently ignoring them, since a producer emitting
	// either field is relying on behavior this engine does not have.
	if c.IdentityHash != nil {
		panic(Defect(nil, "coretree: Constraint.identityHash is unimplemented (reserved)"))
	}
	if c.ContentHash != nil {
		panic(Defect(nil, "coretree: Constraint.contentHash is unimplemented (reserved)"))
	}

	return Applied
}
