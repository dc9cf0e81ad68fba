// Package diagnostics implements the dry-run linter named in
// SPEC_FULL.md §E.4: a tool for surfacing every rejected change in a
// script in one pass, rather than stopping at the first one the way a
// real Transaction does. It is diagnostic tooling, not an alternate
// interpreter — Lint never claims the changes it reports around a
// failure would actually have applied together.
package diagnostics

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/arbortx/coretree"
)

// Finding describes one change that a dry run rejected.
type Finding struct {
	Index  int
	Change coretree.Change
	Result coretree.EditResult
}

func (f Finding) Error() string {
	return fmt.Sprintf("change %d (%T): %s", f.Index, f.Change, f.Result)
}

// Lint replays changes against baseline and reports every change that a
// Transaction would reject. At each rejection, linting continues
// from a fresh Transaction rooted at the view as it stood immediately
// before the offending change, skipping that change — this is what lets
// Lint find problems later in the script instead of stopping at the
// first one, at the cost of no longer representing a single continuous
// execution. The returned error is a *multierror.Error (nil if every
// change applied and the final Close would also succeed); callers that
// want individual Finding values can range over its Errors field.
func Lint(baseline coretree.Snapshot, changes []coretree.Change) error {
	var result *multierror.Error

	tx := coretree.NewTransaction(baseline)
	for i, change := range changes {
		outcome := tx.Apply(change)
		if outcome == coretree.Applied {
			continue
		}

		result = multierror.Append(result, Finding{Index: i, Change: change, Result: outcome})

		view := tx.CurrentView()
		tx = coretree.NewTransaction(view)
	}

	if outcome, _ := tx.Close(); outcome != coretree.Applied {
		result = multierror.Append(result, fmt.Errorf("final close: %s (unconsumed detached sequences)", outcome))
	}

	return result.ErrorOrNil()
}
