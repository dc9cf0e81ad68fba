package coretree

import (
	"io"

	"github.com/sirupsen/logrus"
)

// discardLogger is the Transaction default: no observability cost unless
// a caller opts in via WithLogger. Grounded on sealer's convention of
// wiring a logrus.FieldLogger through constructors rather than reaching
// for a package-level global.
func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func (t *Transaction) logApply(change Change, result EditResult) {
	t.logger.WithFields(logrus.Fields{
		"change_kind":     changeKind(change),
		"outcome":         result.String(),
		"detached_count":  len(t.detached),
		"transaction_end": result != Applied,
	}).Debug("coretree: applied change")
}

func changeKind(change Change) string {
	switch change.(type) {
	case BuildChange:
		return "Build"
	case InsertChange:
		return "Insert"
	case DetachChange:
		return "Detach"
	case ConstraintChange:
		return "Constraint"
	case SetValueChange:
		return "SetValue"
	default:
		return "Unknown"
	}
}
