package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"mbb-tracker/internal/errors"
)

// RootCommand is the base command holding the per-invocation App.
type RootCommand struct {
	cmd        *cobra.Command
	app        *App
	configPath string
}

// NewRootCommand creates the root cobra command and its subcommands.
func NewRootCommand() *RootCommand {
	root := &RootCommand{}

	root.cmd = &cobra.Command{
		Use:   "mbb",
		Short: "Kanban task board with per-task timers and a mental bank balance",
		Long: `mbb tracks work on kanban tasks with per-task timers and turns tracked
time into earnings at each task category's hourly rate.

Timers survive across invocations: a running timer keeps accruing
wall-clock time until you pause or stop it, even while mbb is not running.

EXAMPLES:
  mbb category add "Deep Work" --rate 150   # Create a category
  mbb task add "Write report" --category 1  # Add a task to the board
  mbb start 1                               # Start the task timer
  mbb status                                # Show live elapsed time and earnings
  mbb pause 1                               # Hold the timer
  mbb stop 1                                # Stop and record the session
  mbb summary                               # Today / week / month / total earnings
  mbb board --watch                         # Live board view

CONFIGURATION:
  Settings load from ~/.mbb/config.yaml and MBB_* environment variables.

  MBB_STORAGE_DIR           Data directory (default: ~/.mbb)
  MBB_SNAPSHOT_BACKEND      Timer snapshot backend: file or redis
  MBB_SNAPSHOT_STALE_AFTER  Discard restored timers older than this (default: 24h)
  MBB_LOGGING_LEVEL         Log level (default: info)`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(cmd.Context(), root.configPath)
			if err != nil {
				return err
			}
			root.app = app
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if root.app != nil {
				return root.app.Close()
			}
			return nil
		},
	}

	root.cmd.PersistentFlags().StringVar(&root.configPath, "config", "", "path to config file")

	root.addSubcommands()
	return root
}

// Command returns the underlying cobra command.
func (r *RootCommand) Command() *cobra.Command {
	return r.cmd
}

func (r *RootCommand) addSubcommands() {
	r.cmd.AddCommand(
		r.newStartCommand(),
		r.newPauseCommand(),
		r.newResumeCommand(),
		r.newStopCommand(),
		r.newResetCommand(),
		r.newCancelCommand(),
		r.newStatusCommand(),
		r.newSummaryCommand(),
		r.newBoardCommand(),
		r.newTaskCommand(),
		r.newCategoryCommand(),
	)
}

// userError converts an error to its user-facing message, logging it first
// when it indicates a system failure rather than user input.
func (r *RootCommand) userError(err error) error {
	if err == nil {
		return nil
	}
	if errors.ShouldLogError(err) && r.app != nil {
		r.app.logger.Error().Err(err).Msg("command failed")
	}
	return fmt.Errorf("%s", errors.GetUserMessage(err))
}
