// Package main provides the dbdeck command-line entry point.
package main

import (
	"os"

	"github.com/dbdeck-io/dbdeck/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
