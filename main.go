package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// Version is the mhwork release, set at build time with -ldflags.
var Version = "dev"

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(exitCode(err))
	}
}

// exitCode is 2 for missing inputs and 1 for every other failure.
func exitCode(err error) int {
	if isNotFound(err) {
		return 2
	}
	return 1
}
