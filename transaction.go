// Package coretree implements a transactional tree-edit engine for an
// ordered, labelled tree: the in-memory document model of a
// collaborative editing platform. Given an immutable baseline Snapshot
// and a sequence of Change values, a Transaction produces either a new
// Snapshot reflecting every change applied atomically, or a classified
// rejection (Invalid or Malformed) with the baseline untouched.
package coretree

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// txStatus tracks whether a Transaction still accepts changes.
type txStatus int

const (
	open txStatus = iota
	closed
)

// Transaction is the stateful driver described in §4.1: it consumes
// changes one at a time, dispatches by kind, and maintains an evolving
// view plus a private registry of detached sequences. It is not safe for
// concurrent use by multiple goroutines (§5: single-threaded,
// synchronous, owned by one caller). Independence of parallel
// Transactions that share a baseline Snapshot (§5) is provided by
// NewTransaction forking a private branch in the underlying nodeStore
// (store.go) before the first change is ever applied, so this type never
// has to reason about another Transaction's writes.
type Transaction struct {
	view     Snapshot
	detached map[DetachedSequenceId][]NodeId
	status   txStatus
	outcome  EditResult
	logger   logrus.FieldLogger
}

// TransactionOption configures a Transaction at construction.
type TransactionOption func(*Transaction)

// WithLogger attaches a structured logger that receives a Debug entry
// per apply() call (§E.1.2 of SPEC_FULL.md). Passing nil is equivalent to
// omitting the option.
func WithLogger(logger logrus.FieldLogger) TransactionOption {
	return func(t *Transaction) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// NewTransaction constructs a Transaction over initial, the immutable
// baseline Snapshot. initial is never mutated, regardless of outcome
// (§8 property 1). The Transaction's view starts life on its own forked
// branch of initial's underlying store, so a second Transaction built
// from the same initial (or any Snapshot this one later produces) never
// observes this one's writes, and vice versa.
func NewTransaction(initial Snapshot, opts ...TransactionOption) *Transaction {
	branch := initial.store.forkBranch(initial.branch, initial.version)
	t := &Transaction{
		view: Snapshot{
			store:   initial.store,
			branch:  branch,
			version: initial.version,
			root:    initial.root,
		},
		detached: make(map[DetachedSequenceId][]NodeId),
		status:   open,
		outcome:  Applied,
		logger:   discardLogger(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Apply dispatches change by kind and returns its EditResult. Once the
// transaction is Closed, Apply is an idempotent no-op that returns the
// frozen outcome without inspecting change at all — this includes a
// change of a kind Apply has never seen, since a closed transaction
// never evaluates change in the first place.
func (t *Transaction) Apply(change Change) EditResult {
	if t.status == closed {
		return t.outcome
	}

	var result EditResult
	switch c := change.(type) {
	case BuildChange:
		result = t.applyBuild(c)
	case InsertChange:
		result = t.applyInsert(c)
	case DetachChange:
		result = t.applyDetach(c)
	case ConstraintChange:
		result = t.applyConstraint(c)
	case SetValueChange:
		result = t.applySetValue(c)
	default:
		// The five Change kinds are a closed tagged variant (§9): any
		// other concrete type reaching here is a schema mismatch or a
		// producer bug, not a rejectable edit.
		panic(Defect(nil, fmt.Sprintf("coretree: apply: unknown change kind %T", change)))
	}

	t.logApply(change, result)

	if result != Applied {
		t.status = closed
		t.outcome = result
	}
	return result
}

// CurrentView returns the Transaction's view at any point, including
// mid-application. Callers must treat a view observed before Close as
// provisional: it may still be discarded if a later Apply fails.
func (t *Transaction) CurrentView() Snapshot {
	return t.view
}

// IsOpen reports whether the transaction still accepts changes.
func (t *Transaction) IsOpen() bool { return t.status == open }

// Close finalizes the transaction. If still open, it runs the §4.1
// validateOnClose check (invariant 4): a non-empty detached registry at
// close overrides the outcome to Malformed, since storing a detached
// sequence and never consuming it is a policy error, not a successful
// edit. Close is idempotent: calling it again after the transaction is
// already Closed just returns the frozen outcome and view.
func (t *Transaction) Close() (EditResult, Snapshot) {
	if t.status == open {
		if len(t.detached) > 0 {
			t.outcome = Malformed
		} else {
			t.outcome = Applied
		}
		t.status = closed
	}
	return t.outcome, t.view
}
