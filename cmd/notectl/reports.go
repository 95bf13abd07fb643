package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"moneynote/internal/cli"
	"moneynote/internal/core"
)

func summaryCmd(build appBuilder) *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the income/expense balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := core.ParseKindFilter(kind)
			if err != nil {
				return err
			}
			return withApp(cmd, build, func(app *cli.App) error {
				s := app.Repo.Summary(filter)
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, cli.FormatTitle(s.Label()))
				fmt.Fprintf(out, "Income:  %s\n", cli.IncomeStyle.Render(s.Income.String()))
				fmt.Fprintf(out, "Expense: %s\n", cli.ExpenseStyle.Render(s.Expense.String()))
				fmt.Fprintf(out, "Balance: %s (%.1f%% of income)\n",
					cli.FormatAmount(s.Balance.String(), s.Balance.Cents < 0), s.Ratio*100)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "all", "filter by kind: all, expense or income")
	return cmd
}

func reportCmd(build appBuilder) *cobra.Command {
	var kind, month string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show the per-category totals of a month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := core.ParseKindFilter(kind)
			if err != nil {
				return err
			}
			key := core.CurrentMonth()
			if month != "" {
				if key, err = core.ParseMonthKey(month); err != nil {
					return err
				}
			}
			return withApp(cmd, build, func(app *cli.App) error {
				rep := app.Repo.Report(key, filter)
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, cli.FormatTitle("Report "+rep.Month.String()))

				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintf(w, "%s\t%s\t%s\n",
					cli.HeaderStyle.Render("CATEGORY"),
					cli.HeaderStyle.Render("AMOUNT"),
					cli.HeaderStyle.Render("SHARE"))
				for _, row := range rep.ByCategory {
					fmt.Fprintf(w, "%s\t%s\t%.1f%%\n", categoryLabel(row.Category), row.Amount, row.Share*100)
				}
				fmt.Fprintf(w, "%s\t%s\t\n", cli.HeaderStyle.Render("TOTAL"), rep.Total)
				return w.Flush()
			})
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "all", "filter by kind: all, expense or income")
	cmd.Flags().StringVar(&month, "month", "", "month as yyyy/mm (default current month)")
	return cmd
}

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				cli.HeaderStyle.Render("SLUG"),
				cli.HeaderStyle.Render("NAME"),
				cli.HeaderStyle.Render("GLYPH"))
			for _, c := range core.Categories() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", c.Slug(), c.Name(), c.Glyph())
			}
			return w.Flush()
		},
	}
}
