// Command appdiscovery finds and launches installed applications by fuzzy
// name search. It runs as an interactive picker, a one-shot CLI, or an MCP
// server.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
