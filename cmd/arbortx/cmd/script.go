package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/arbortx/coretree"
)

// scriptFile is the on-disk document arbortx's subcommands read: a
// baseline Snapshot plus the sequence of Change values to apply against
// it, in the order defined in SPEC_FULL.md §E.4.
type scriptFile struct {
	Baseline json.RawMessage   `json:"baseline"`
	Changes  []json.RawMessage `json:"changes"`
}

func loadScript(path string) (coretree.Snapshot, []coretree.Change, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return coretree.Snapshot{}, nil, fmt.Errorf("read script: %w", err)
	}

	var sf scriptFile
	if err := json.Unmarshal(raw, &sf); err != nil {
		return coretree.Snapshot{}, nil, fmt.Errorf("parse script: %w", err)
	}

	baseline, err := coretree.UnmarshalSnapshot(sf.Baseline)
	if err != nil {
		return coretree.Snapshot{}, nil, fmt.Errorf("parse baseline: %w", err)
	}

	changes := make([]coretree.Change, len(sf.Changes))
	for i, raw := range sf.Changes {
		c, err := coretree.UnmarshalChange(raw)
		if err != nil {
			return coretree.Snapshot{}, nil, fmt.Errorf("parse changes[%d]: %w", i, err)
		}
		changes[i] = c
	}

	return baseline, changes, nil
}
