package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"mbb-tracker/internal/board"
	"mbb-tracker/internal/domain"
	"mbb-tracker/internal/repository/sqlite"
	"mbb-tracker/internal/validation"
)

func (r *RootCommand) newTaskCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage board tasks",
	}
	cmd.AddCommand(
		r.newTaskAddCommand(),
		r.newTaskListCommand(),
		r.newTaskMoveCommand(),
		r.newTaskDeleteCommand(),
	)
	return cmd
}

func (r *RootCommand) newTaskAddCommand() *cobra.Command {
	var status string
	var categoryID int64
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task to the board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := validation.CleanTitle(args[0])
			if err := validation.ValidateTitle("title", title); err != nil {
				return r.userError(err)
			}
			if err := validation.ValidateStatus(status); err != nil {
				return r.userError(err)
			}

			dbTask := sqlite.Task{Title: title, Status: status}
			if categoryID != 0 {
				if err := validation.ValidateID("category", categoryID); err != nil {
					return r.userError(err)
				}
				if _, err := r.app.repo.GetCategory(cmd.Context(), categoryID); err != nil {
					return r.userError(err)
				}
				dbTask.CategoryID = &categoryID
			}

			if err := r.app.repo.CreateTask(cmd.Context(), &dbTask); err != nil {
				return r.userError(err)
			}
			cmd.Printf("Created task %d: %s (%s)\n", dbTask.ID, dbTask.Title, dbTask.Status)
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", string(domain.StatusBacklog), "board column for the new task")
	cmd.Flags().Int64Var(&categoryID, "category", 0, "category ID for the task's hourly rate")
	return cmd
}

func (r *RootCommand) newTaskListCommand() *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks, optionally for one column",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var dbTasks []*sqlite.Task
			var err error
			if status != "" {
				if err := validation.ValidateStatus(status); err != nil {
					return r.userError(err)
				}
				dbTasks, err = r.app.repo.ListTasksByStatus(cmd.Context(), status)
			} else {
				dbTasks, err = r.app.repo.ListTasks(cmd.Context())
			}
			if err != nil {
				return r.userError(err)
			}

			if len(dbTasks) == 0 {
				cmd.Println("No tasks")
				return nil
			}
			for _, task := range r.app.mapper.Task.FromDatabaseSlice(dbTasks) {
				category := "-"
				if task.CategoryID != nil {
					category = strconv.FormatInt(*task.CategoryID, 10)
				}
				cmd.Printf("[%d] %-40s %-8s category=%s\n", task.ID, task.Title, task.Status, category)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "only list one board column")
	return cmd
}

func (r *RootCommand) newTaskMoveCommand() *cobra.Command {
	var position int
	cmd := &cobra.Command{
		Use:   "move <task-id> <status>",
		Short: "Move a task to a column, optionally at a position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return r.userError(err)
			}
			status := args[1]
			if err := validation.ValidateStatus(status); err != nil {
				return r.userError(err)
			}

			ctx := cmd.Context()
			b := board.New(r.app.repo, r.app.logger)
			if err := b.Refresh(ctx); err != nil {
				return r.userError(err)
			}

			pos := position
			if pos < 0 {
				pos = len(b.Column(domain.Status(status)))
			}
			if err := b.Move(ctx, taskID, domain.Status(status), pos); err != nil {
				return r.userError(err)
			}
			cmd.Printf("Moved task %d to %s\n", taskID, status)
			return nil
		},
	}
	cmd.Flags().IntVar(&position, "position", -1, "zero-based position in the target column (default: append)")
	return cmd
}

func (r *RootCommand) newTaskDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return r.userError(err)
			}
			ctx := cmd.Context()
			if err := r.app.repo.DeleteTask(ctx, taskID); err != nil {
				return r.userError(err)
			}
			// The task's timer, if any, has nothing to attach to anymore.
			r.app.engine.Delete(ctx, taskID)
			cmd.Printf("Deleted task %d\n", taskID)
			return nil
		},
	}
}
