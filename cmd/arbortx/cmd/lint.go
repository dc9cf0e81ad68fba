package cmd

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/arbortx/coretree/internal/diagnostics"
)

var lintCmd = &cobra.Command{
	Use:     "lint <script.json>",
	Short:   "Report every change in a script that a transaction would reject",
	Args:    cobra.ExactArgs(1),
	Example: `arbortx lint edits.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		baseline, changes, err := loadScript(args[0])
		if err != nil {
			return err
		}

		findings := diagnostics.Lint(baseline, changes)
		if findings == nil {
			fmt.Println("no findings")
			return nil
		}

		merr, ok := findings.(*multierror.Error)
		if !ok {
			return findings
		}
		for _, e := range merr.Errors {
			fmt.Println(e)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lintCmd)
}
