// Package cli provides the command-line interface for zentasks.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zentasks/zentasks/internal/app"
)

// Command group IDs.
const (
	groupAccount = "account"
	groupTask    = "task"
	groupView    = "view"
	groupSetup   = "setup"
)

// launchTUIFunc is a function variable for launching the TUI, allowing it to be mocked in tests.
var launchTUIFunc = launchTUI

// NewRootCommand creates the root command for zentasks.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "zentasks",
		Short: "Eisenhower-matrix task manager for the ZenTasks API",
		Long: `zentasks is a terminal client for the ZenTasks API.

Every task is urgent or not and important or not, which places it in one
of four quadrants:

  DO_NOW     urgent & important
  SCHEDULE   important, not urgent
  DELEGATE   urgent, not important
  ELIMINATE  neither

Run without arguments to open the interactive matrix.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip if container is nil (e.g. in tests)
			if c == nil {
				return nil
			}
			for _, w := range c.ConfigWarnings() {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
			}
			return nil
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return launchTUIFunc(c)
		},
	}

	root.AddGroup(
		&cobra.Group{ID: groupAccount, Title: "Account:"},
		&cobra.Group{ID: groupTask, Title: "Task Management:"},
		&cobra.Group{ID: groupView, Title: "Views:"},
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
	)

	addToGroup := func(group string, cmds ...*cobra.Command) {
		for _, cmd := range cmds {
			cmd.GroupID = group
			root.AddCommand(cmd)
		}
	}

	addToGroup(groupAccount,
		newLoginCommand(c),
		newRegisterCommand(c),
		newLogoutCommand(c),
		newWhoAmICommand(c),
	)
	addToGroup(groupTask,
		newNewCommand(c),
		newListCommand(c),
		newShowCommand(c),
		newEditCommand(c),
		newStatusCommand(c),
		newMoveCommand(c),
		newRmCommand(c),
	)
	addToGroup(groupView,
		newMatrixCommand(c),
		newDashboardCommand(c),
		newWeekCommand(c),
		newTUICommand(c),
	)
	addToGroup(groupSetup,
		newConfigCommand(c),
	)

	return root
}
