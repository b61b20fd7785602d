// Command recall is the entry point for the recall CLI.
package main

import (
	"os"

	"github.com/custodia-labs/recall-cli/internal/adapters/driving/cli"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		os.Exit(1)
	}
}
