// Package main provides the leapiqr CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/leapiqr/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
