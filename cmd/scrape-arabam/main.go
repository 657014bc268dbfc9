// Package main is the entry point for the scrape-arabam CLI.
package main

import (
	"os"

	"galeri/cmd/scrape-arabam/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
