package main

import (
	"os"

	"github.com/banksort-dev/banksort/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
