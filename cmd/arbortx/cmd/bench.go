package cmd

import (
	"fmt"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/arbortx/coretree"
)

// benchResult mirrors the garland-bench report format: a fixed-width name,
// a rounded duration, and an ops/sec figure when applicable.
type benchResult struct {
	Name     string
	Duration time.Duration
	Ops      int
}

func (r benchResult) String() string {
	opsPerSec := float64(r.Ops) / r.Duration.Seconds()
	return fmt.Sprintf("%-32s %12v  (%d ops, %.0f ops/sec)", r.Name, r.Duration.Round(time.Millisecond), r.Ops, opsPerSec)
}

var benchNodeCount int

var benchCmd = &cobra.Command{
	Use:     "bench",
	Short:   "Measure throughput of synthetic Build/Insert/Detach/SetValue workloads",
	Args:    cobra.NoArgs,
	Example: `arbortx bench --nodes 100000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("arbortx benchmark")
		fmt.Println("=================")
		fmt.Printf("node count: %d\n", benchNodeCount)
		fmt.Printf("Go version: %s\n", runtime.Version())
		fmt.Printf("GOMAXPROCS: %d\n", runtime.GOMAXPROCS(0))
		fmt.Println()

		for _, result := range runBench(benchNodeCount) {
			fmt.Println(result)
		}
		return nil
	},
}

func init() {
	benchCmd.Flags().IntVar(&benchNodeCount, "nodes", 10000, "number of nodes to insert during the benchmark")
	rootCmd.AddCommand(benchCmd)
}

func runBench(n int) []benchResult {
	var results []benchResult
	factory := coretree.UUIDFactory{}

	root := factory.NewNodeId()
	baseline := coretree.NewSnapshot(root, map[coretree.NodeId]coretree.SnapshotNode{
		root: {Definition: "root"},
	})

	ids := make([]coretree.NodeId, n)
	for i := range ids {
		ids[i] = factory.NewNodeId()
	}

	start := time.Now()
	tx := coretree.NewTransaction(baseline)
	for i, id := range ids {
		seq := factory.NewDetachedSequenceId()
		tx.Apply(coretree.BuildChange{
			Source:      []coretree.EditNode{coretree.InlineEditNode(id, fmt.Sprintf("node-%d", i), nil)},
			Destination: seq,
		})
		tx.Apply(coretree.InsertChange{
			Source:      seq,
			Destination: coretree.PlaceEndOf(root, "children"),
		})
	}
	outcome, view := tx.Close()
	results = append(results, benchResult{Name: "build+insert " + outcome.String(), Duration: time.Since(start), Ops: n})

	start = time.Now()
	tx = coretree.NewTransaction(view)
	for _, id := range ids {
		tx.Apply(coretree.SetValueChange{NodeToModify: id, Payload: coretree.SetPayloadValue("touched")})
	}
	_, view = tx.Close()
	results = append(results, benchResult{Name: "setValue", Duration: time.Since(start), Ops: n})

	start = time.Now()
	tx = coretree.NewTransaction(view)
	for _, id := range ids {
		tx.Apply(coretree.DetachChange{Source: coretree.NewStableRange(coretree.PlaceBefore(id), coretree.PlaceAfter(id))})
	}
	tx.Close()
	results = append(results, benchResult{Name: "detach", Duration: time.Since(start), Ops: n})

	return results
}
