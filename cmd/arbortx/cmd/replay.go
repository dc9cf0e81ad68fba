package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arbortx/coretree"
)

var replayCmd = &cobra.Command{
	Use:     "replay <script.json>",
	Short:   "Apply a script one change at a time, printing each change's outcome",
	Args:    cobra.ExactArgs(1),
	Example: `arbortx replay edits.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		baseline, changes, err := loadScript(args[0])
		if err != nil {
			return err
		}

		tx := coretree.NewTransaction(baseline, coretree.WithLogger(log))
		for i, change := range changes {
			result := tx.Apply(change)
			fmt.Printf("%02d  %T  %s\n", i, change, result)
			if result != coretree.Applied {
				break
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)
}
