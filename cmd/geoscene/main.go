// Package main provides the CLI for the GeoScene toolkit.
package main

import (
	"os"

	"github.com/leapstack-labs/geoscene/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
