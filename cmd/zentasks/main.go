// Package main is the entry point for the zentasks CLI.
package main

import (
	"fmt"
	"os"

	"github.com/zentasks/zentasks/internal/app"
	"github.com/zentasks/zentasks/internal/cli"
)

// version is set at build time using -ldflags.
var version = "dev"

// newRootCommand is a variable so tests can swap the command tree.
var newRootCommand = cli.NewRootCommand

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	// Config files are looked up relative to the working directory
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	container, err := app.New(cwd)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer func() { _ = container.Close() }()

	rootCmd := newRootCommand(container, version)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}
