// Command kinship keeps typed relationships between contact documents
// mutually consistent.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/kinship/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
