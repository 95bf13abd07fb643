package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"moneynote/internal/cli"
	"moneynote/internal/core"
)

func listCmd(build appBuilder) *cobra.Command {
	var kind, query string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List records, newest first",
		Long:  `List records filtered by kind (all, expense, income) and by a case and accent insensitive note search.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := core.ParseKindFilter(kind)
			if err != nil {
				return err
			}
			return withApp(cmd, build, func(app *cli.App) error {
				recs := app.Repo.Search(filter, query)
				out := cmd.OutOrStdout()
				if len(recs) == 0 {
					fmt.Fprintln(out, cli.SubtleStyle.Render("No records found."))
					return nil
				}

				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					cli.HeaderStyle.Render("ID"),
					cli.HeaderStyle.Render("DATE"),
					cli.HeaderStyle.Render("KIND"),
					cli.HeaderStyle.Render("CATEGORY"),
					cli.HeaderStyle.Render("AMOUNT"),
					cli.HeaderStyle.Render("NOTE"))
				for _, r := range recs {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
						r.ID, r.Date, r.Kind, categoryLabel(r.Category),
						cli.FormatAmount(r.Amount, r.Kind == core.KindExpense), r.Note)
				}
				if err := w.Flush(); err != nil {
					return err
				}
				fmt.Fprintln(out, cli.SubtleStyle.Render(fmt.Sprintf("%d record(s)", len(recs))))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "all", "filter by kind: all, expense or income")
	cmd.Flags().StringVarP(&query, "query", "q", "", "search the notes")
	return cmd
}

func addCmd(build appBuilder) *cobra.Command {
	var kind, date, note, amount, category string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a record",
		Long: `Add a record to the store. Date defaults to today, kind to Expense and
category to food. Categories accept a slug, a display name or a glyph.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rec, err := recordFromFlags(kind, date, note, amount, category)
			if err != nil {
				return err
			}
			return withApp(cmd, build, func(app *cli.App) error {
				created, err := app.Repo.Create(cmd.Context(), rec)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.SuccessStyle.Render(
					fmt.Sprintf("Created %s: %s %s %s on %s", created.ID, created.Kind, created.Amount, categoryLabel(created.Category), created.Date)))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "Expense", "Expense or Income")
	cmd.Flags().StringVar(&date, "date", "", "date as yyyy-mm-dd or yyyy/mm/dd (default today)")
	cmd.Flags().StringVar(&note, "note", "", "free text note")
	cmd.Flags().StringVar(&amount, "amount", "", "amount, e.g. 12.50")
	cmd.Flags().StringVar(&category, "category", core.CategoryFood.Slug(), "category slug, name or glyph")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func recordFromFlags(kind, date, note, amount, category string) (core.Record, error) {
	k, err := core.ParseKind(kind)
	if err != nil {
		return core.Record{}, err
	}
	d := core.Today()
	if strings.TrimSpace(date) != "" {
		if d, err = core.ParseDate(date); err != nil {
			return core.Record{}, err
		}
	}
	c, ok := core.ParseCategory(category)
	if !ok {
		return core.Record{}, fmt.Errorf("%w: %q", core.ErrInvalidCategory, category)
	}
	amount = strings.TrimSpace(amount)
	if _, err := core.ParseDecimalToCents(amount); err != nil {
		return core.Record{}, fmt.Errorf("amount %q: %w", amount, err)
	}
	return core.Record{Kind: k, Date: d, Note: strings.TrimSpace(note), Amount: amount, Category: c}, nil
}

func deleteCmd(build appBuilder) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, build, func(app *cli.App) error {
				if err := app.Repo.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.SuccessStyle.Render("Deleted "+args[0]))
				return nil
			})
		},
	}
}

func categoryLabel(c core.Category) string {
	if !c.Valid() {
		return "-"
	}
	return c.Glyph() + " " + c.Name()
}
