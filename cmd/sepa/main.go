package main

import (
	"os"

	"github.com/wonny/sepa/backend/cmd/sepa/commands"
)

// main is the entry point for the screener CLI: go run ./cmd/sepa [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
