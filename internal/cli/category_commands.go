package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"mbb-tracker/internal/repository/sqlite"
	"mbb-tracker/internal/validation"
)

func (r *RootCommand) newCategoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Manage task categories and their hourly rates",
	}
	cmd.AddCommand(
		r.newCategoryAddCommand(),
		r.newCategoryListCommand(),
		r.newCategoryRateCommand(),
	)
	return cmd
}

func (r *RootCommand) newCategoryAddCommand() *cobra.Command {
	var rate float64
	cmd := &cobra.Command{
		Use:   "add <label>",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			label := validation.CleanTitle(args[0])
			if err := validation.ValidateTitle("label", label); err != nil {
				return r.userError(err)
			}
			if err := validation.ValidateRate(rate); err != nil {
				return r.userError(err)
			}

			dbCategory := sqlite.Category{Label: label, HourlyRate: rate}
			if err := r.app.repo.CreateCategory(cmd.Context(), &dbCategory); err != nil {
				return r.userError(err)
			}
			cmd.Printf("Created category %d: %s ($%.2f/h)\n", dbCategory.ID, dbCategory.Label, dbCategory.HourlyRate)
			return nil
		},
	}
	cmd.Flags().Float64Var(&rate, "rate", 0, "hourly rate in USD")
	return cmd
}

func (r *RootCommand) newCategoryListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dbCategories, err := r.app.repo.ListCategories(cmd.Context())
			if err != nil {
				return r.userError(err)
			}
			if len(dbCategories) == 0 {
				cmd.Println("No categories")
				return nil
			}
			for _, dbCategory := range dbCategories {
				category := r.app.mapper.Category.FromDatabase(*dbCategory)
				cmd.Printf("[%d] %-30s $%.2f/h\n", category.ID, category.Label, category.HourlyRate)
			}
			return nil
		},
	}
}

// newCategoryRateCommand changes a category's rate. Timers already running
// against the category keep their captured snapshot rate.
func (r *RootCommand) newCategoryRateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rate <category-id> <hourly-rate>",
		Short: "Change a category's hourly rate",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid category ID %q", args[0])
			}
			if err := validation.ValidateID("category", id); err != nil {
				return r.userError(err)
			}
			rate, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid hourly rate %q", args[1])
			}
			if err := validation.ValidateRate(rate); err != nil {
				return r.userError(err)
			}

			ctx := cmd.Context()
			dbCategory, err := r.app.repo.GetCategory(ctx, id)
			if err != nil {
				return r.userError(err)
			}
			dbCategory.HourlyRate = rate
			if err := r.app.repo.UpdateCategory(ctx, dbCategory); err != nil {
				return r.userError(err)
			}
			cmd.Printf("Category %d rate set to $%.2f/h\n", dbCategory.ID, dbCategory.HourlyRate)
			return nil
		},
	}
}
