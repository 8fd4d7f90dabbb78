// Package main provides vsopctl, the VSOP87D command-line tool.
package main

import (
	"fmt"
	"os"

	"go.ngs.io/vsop87-api/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
