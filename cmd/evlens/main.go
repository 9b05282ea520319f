package main

import (
	"fmt"
	"os"

	"github.com/evlens/evlens/internal/cli"
	"github.com/evlens/evlens/pkg/version"
)

func main() {
	os.Exit(run())
}

// run executes the root command and maps errors to the process exit code.
// Separated from main so tests can reference it without exiting.
func run() int {
	root := cli.NewRootCmd(version.GetVersion())
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
