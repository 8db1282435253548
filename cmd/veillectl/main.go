package main

import (
	"os"

	"github.com/fatih/color"

	"github.com/agentit/Prompty-Veille/internal/command"
)

func main() {
	if err := command.Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
