package cli

import (
	"github.com/spf13/cobra"
	"github.com/zentasks/zentasks/internal/app"
	"github.com/zentasks/zentasks/internal/tui"
)

// newTUICommand creates the tui command for launching the interactive TUI.
// Running `zentasks` without arguments does the same.
func newTUICommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Launch interactive TUI",
		Long: `Launch the interactive terminal user interface.

The matrix layout shows the four quadrants side by side; tab switches to a
flat list. Press ? inside the TUI for all key bindings.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return launchTUIFunc(c)
		},
	}
}

// launchTUI runs the TUI until the user quits.
func launchTUI(c *app.Container) error {
	return tui.Run(c)
}
