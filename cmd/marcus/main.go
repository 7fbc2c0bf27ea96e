package main

import (
	"os"

	"github.com/wonny/marcus/cmd/marcus/commands"
)

// main is the entry point for the Marcus CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/marcus [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
