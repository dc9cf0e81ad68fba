package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arbortx/coretree"
)

// replState holds one interactive session's open transaction.
type replState struct {
	reader *bufio.Reader
	tx     *coretree.Transaction
}

var replCmd = &cobra.Command{
	Use:     "repl",
	Short:   "Start an interactive session for loading a baseline and applying changes one at a time",
	Args:    cobra.NoArgs,
	Example: `arbortx repl`,
	RunE: func(cmd *cobra.Command, args []string) error {
		r := &replState{reader: bufio.NewReader(os.Stdin)}
		r.run()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func (r *replState) run() {
	fmt.Println("arbortx repl - type 'help' for commands, 'quit' to exit")
	for {
		fmt.Print("arbortx> ")
		input, err := r.reader.ReadString('\n')
		if err != nil {
			fmt.Println()
			return
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if !r.handle(input) {
			return
		}
	}
}

func (r *replState) handle(input string) bool {
	parts := strings.SplitN(input, " ", 2)
	command := strings.ToLower(parts[0])

	switch command {
	case "help":
		r.printHelp()
	case "quit", "exit":
		return false
	case "load":
		r.cmdLoad(arg(parts))
	case "apply":
		r.cmdApply(arg(parts))
	case "status":
		r.cmdStatus()
	case "view":
		r.cmdView()
	case "close":
		r.cmdClose()
	default:
		fmt.Printf("unknown command %q; try 'help'\n", command)
	}
	return true
}

func arg(parts []string) string {
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

func (r *replState) printHelp() {
	fmt.Println(`commands:
  load <baseline.json>   open a transaction over the baseline Snapshot in the file
  apply <change.json>    apply a single Change, given as an inline JSON document
  status                 show whether the current transaction is open
  view                   print the current view as JSON
  close                  close the current transaction and print the final outcome
  quit                   exit the repl`)
}

func (r *replState) cmdLoad(path string) {
	if path == "" {
		fmt.Println("usage: load <baseline.json>")
		return
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	baseline, err := coretree.UnmarshalSnapshot(raw)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	r.tx = coretree.NewTransaction(baseline, coretree.WithLogger(log))
	fmt.Println("loaded")
}

func (r *replState) cmdApply(inline string) {
	if r.tx == nil {
		fmt.Println("no transaction open; use 'load' first")
		return
	}
	change, err := coretree.UnmarshalChange([]byte(inline))
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	fmt.Println(r.tx.Apply(change))
}

func (r *replState) cmdStatus() {
	if r.tx == nil {
		fmt.Println("no transaction open")
		return
	}
	fmt.Printf("open: %v\n", r.tx.IsOpen())
}

func (r *replState) cmdView() {
	if r.tx == nil {
		fmt.Println("no transaction open")
		return
	}
	out, err := coretree.MarshalSnapshot(r.tx.CurrentView())
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	fmt.Println(string(out))
}

func (r *replState) cmdClose() {
	if r.tx == nil {
		fmt.Println("no transaction open")
		return
	}
	outcome, _ := r.tx.Close()
	fmt.Println(outcome)
}
