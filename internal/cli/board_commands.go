package cli

import (
	"time"

	"github.com/spf13/cobra"

	"mbb-tracker/internal/board"
	"mbb-tracker/internal/domain"
)

func (r *RootCommand) newBoardCommand() *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Show the kanban board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			b := board.New(r.app.repo, r.app.logger)

			if err := b.Refresh(ctx); err != nil {
				return r.userError(err)
			}
			renderBoard(cmd, b)

			if !watch {
				return nil
			}

			ticker := time.NewTicker(r.app.cfg.BoardPollInterval())
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					if err := b.Refresh(ctx); err != nil {
						r.app.logger.Warn().Err(err).Msg("board refresh failed")
						continue
					}
					cmd.Println()
					renderBoard(cmd, b)
				}
			}
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "keep refreshing the board")
	return cmd
}

func renderBoard(cmd *cobra.Command, b *board.Board) {
	for _, status := range domain.Statuses() {
		marker := ""
		if b.Pending(status) {
			marker = " *"
		}
		cmd.Printf("%s%s\n", status, marker)
		for i, task := range b.Column(status) {
			cmd.Printf("  %d. [%d] %s\n", i+1, task.ID, task.Title)
		}
	}
}
