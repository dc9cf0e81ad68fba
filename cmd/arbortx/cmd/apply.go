package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arbortx/coretree"
)

var applyCmd = &cobra.Command{
	Use:     "apply <script.json>",
	Short:   "Apply every change in a script to its baseline and print the result",
	Args:    cobra.ExactArgs(1),
	Example: `arbortx apply edits.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		baseline, changes, err := loadScript(args[0])
		if err != nil {
			return err
		}

		tx := coretree.NewTransaction(baseline, coretree.WithLogger(log))
		for i, change := range changes {
			if result := tx.Apply(change); result != coretree.Applied {
				fmt.Printf("change %d rejected: %s\n", i, result)
				break
			}
		}

		outcome, view := tx.Close()
		fmt.Printf("outcome: %s\n", outcome)
		if outcome != coretree.Applied {
			return nil
		}

		out, err := coretree.MarshalSnapshot(view)
		if err != nil {
			return fmt.Errorf("marshal result snapshot: %w", err)
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(applyCmd)
}
