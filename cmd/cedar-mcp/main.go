package main

import (
	"fmt"
	"os"

	"github.com/musen-lab/cedar-mcp/internal/cli/commands"
)

// Overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	commands.SetVersion(version)
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "cedar-mcp:", err)
		os.Exit(1)
	}
}
