// Command arbortx drives the coretree transaction interpreter from a
// terminal: apply, replay, and lint persisted edit scripts, or explore
// one change at a time in an interactive session.
package main

import "github.com/arbortx/coretree/cmd/arbortx/cmd"

func main() {
	cmd.Execute()
}
