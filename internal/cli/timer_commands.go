package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"mbb-tracker/internal/engine"
	"mbb-tracker/internal/validation"
)

func parseTaskID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task ID %q", arg)
	}
	if err := validation.ValidateID("taskID", id); err != nil {
		return 0, err
	}
	return id, nil
}

func printView(cmd *cobra.Command, view engine.View) {
	state := "stopped"
	switch {
	case view.IsPaused:
		state = "paused"
	case view.IsRunning:
		state = "running"
	}
	cmd.Printf("[%d] %s  %s  %s  $%.2f ($%.2f/h %s)\n",
		view.TaskID, view.TaskTitle, state,
		formatDuration(view.ElapsedSeconds), view.Earnings,
		view.Category.HourlyRate, view.Category.Label)
}

func (r *RootCommand) newStartCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "start <task-id>",
		Short: "Start (or resume) the timer for a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return r.userError(err)
			}

			ctx := cmd.Context()
			dbTask, err := r.app.repo.GetTask(ctx, taskID)
			if err != nil {
				return r.userError(err)
			}
			task := r.app.mapper.Task.FromDatabase(*dbTask)

			category, err := r.app.categorySnapshotFor(ctx, task)
			if err != nil {
				return r.userError(err)
			}

			view, err := r.app.engine.Start(ctx, task.ID, task.Title, category)
			if err != nil {
				return r.userError(err)
			}
			printView(cmd, view)
			return nil
		},
	}
}

func (r *RootCommand) newPauseCommand() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "pause [task-id]",
		Short: "Pause a running timer",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if all {
				count := r.app.engine.PauseAll(ctx)
				cmd.Printf("Paused %d timer(s)\n", count)
				return nil
			}
			if len(args) == 0 {
				return fmt.Errorf("task ID required unless --all is set")
			}
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return r.userError(err)
			}
			view, changed := r.app.engine.Pause(ctx, taskID)
			if !changed {
				cmd.Printf("Timer for task %d is not running\n", taskID)
				return nil
			}
			printView(cmd, view)
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "pause every running timer")
	return cmd
}

func (r *RootCommand) newResumeCommand() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "resume [task-id]",
		Short: "Resume a paused timer",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if all {
				count := r.app.engine.ResumeAll(ctx)
				cmd.Printf("Resumed %d timer(s)\n", count)
				return nil
			}
			if len(args) == 0 {
				return fmt.Errorf("task ID required unless --all is set")
			}
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return r.userError(err)
			}
			view, changed := r.app.engine.Resume(ctx, taskID)
			if !changed {
				cmd.Printf("Timer for task %d is not paused\n", taskID)
				return nil
			}
			printView(cmd, view)
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "resume every paused timer")
	return cmd
}

func (r *RootCommand) newStopCommand() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "stop [task-id]",
		Short: "Stop a timer and record the completed session",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if all {
				sessions, err := r.app.engine.StopAll(ctx)
				for _, session := range sessions {
					cmd.Printf("Recorded session for task %d: %s, $%.2f\n",
						session.TaskID, formatDuration(float64(session.DurationSeconds)), session.EarningsUSD)
				}
				if err != nil {
					return r.userError(err)
				}
				return nil
			}
			if len(args) == 0 {
				return fmt.Errorf("task ID required unless --all is set")
			}
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return r.userError(err)
			}
			session, err := r.app.engine.Stop(ctx, taskID)
			if session == nil && err == nil {
				cmd.Printf("No active timer for task %d\n", taskID)
				return nil
			}
			if err != nil {
				return r.userError(err)
			}
			cmd.Printf("Recorded session for task %d: %s, $%.2f\n",
				session.TaskID, formatDuration(float64(session.DurationSeconds)), session.EarningsUSD)
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "stop every timer")
	return cmd
}

func (r *RootCommand) newResetCommand() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "reset [task-id]",
		Short: "Zero a timer's elapsed time without stopping it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if all {
				count := r.app.engine.ResetAll(ctx)
				cmd.Printf("Reset %d timer(s)\n", count)
				return nil
			}
			if len(args) == 0 {
				return fmt.Errorf("task ID required unless --all is set")
			}
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return r.userError(err)
			}
			view, found := r.app.engine.Reset(ctx, taskID)
			if !found {
				cmd.Printf("No active timer for task %d\n", taskID)
				return nil
			}
			printView(cmd, view)
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "reset every timer")
	return cmd
}

func (r *RootCommand) newCancelCommand() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "cancel [task-id]",
		Short: "Discard a timer without recording a session",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if all {
				count := r.app.engine.DeleteAll(ctx)
				cmd.Printf("Discarded %d timer(s)\n", count)
				return nil
			}
			if len(args) == 0 {
				return fmt.Errorf("task ID required unless --all is set")
			}
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return r.userError(err)
			}
			if !r.app.engine.Delete(ctx, taskID) {
				cmd.Printf("No active timer for task %d\n", taskID)
				return nil
			}
			cmd.Printf("Discarded timer for task %d\n", taskID)
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "discard every timer")
	return cmd
}

func (r *RootCommand) newStatusCommand() *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show every active timer with live elapsed time and earnings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printStatus(cmd, r.app.engine.Views())
			if !watch {
				return nil
			}

			ctx := cmd.Context()
			ticker := time.NewTicker(time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					cmd.Println()
					printStatus(cmd, r.app.engine.Tick(ctx))
				}
			}
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "keep refreshing every second")
	return cmd
}

func printStatus(cmd *cobra.Command, views []engine.View) {
	if len(views) == 0 {
		cmd.Println("No active timers")
		return
	}
	for _, view := range views {
		printView(cmd, view)
	}
}
