// Package main provides the windgen CLI, an atomic CSS generator for
// Go/templ and HTML projects.
package main

import (
	"errors"
	"fmt"
	"os"
)

// errReported is returned by commands whose failure was already written
// to the build report.
var errReported = errors.New("build failed")

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
