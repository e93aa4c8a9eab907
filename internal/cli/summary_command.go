package cli

import (
	"time"

	"github.com/spf13/cobra"

	"mbb-tracker/internal/analytics"
	"mbb-tracker/internal/repository/sqlite"
)

func (r *RootCommand) newSummaryCommand() *cobra.Command {
	var live bool
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show earnings for today, this week, this month, and all time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dbSessions, err := r.app.repo.ListSessions(cmd.Context(), sqlite.SessionFilter{CompletedOnly: true})
			if err != nil {
				return r.userError(err)
			}
			sessions := r.app.mapper.Session.FromDatabaseSlice(dbSessions)

			now := time.Now()
			summary := analytics.Aggregate(sessions, now)
			if live {
				summary = analytics.CombineWithLive(summary, r.app.engine.ActiveTimers(), now)
			}

			printWindow(cmd, "Today", summary.Today)
			printWindow(cmd, "Week", summary.Week)
			printWindow(cmd, "Month", summary.Month)
			printWindow(cmd, "Total", summary.Total)
			return nil
		},
	}
	cmd.Flags().BoolVar(&live, "live", true, "include accrued earnings of active timers")
	return cmd
}

func printWindow(cmd *cobra.Command, label string, w analytics.WindowStats) {
	cmd.Printf("%-6s $%9.2f  %6.2fh  %3d session(s)  avg $%.2f/h\n",
		label, w.Earnings, w.Hours, w.Count, w.AverageRate)
}
