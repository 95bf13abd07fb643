package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"moneynote/internal/cli"
)

var version = "dev"

// appBuilder opens the repository a command works on.
type appBuilder func(ctx context.Context) (*cli.App, error)

func defaultBuilder(ctx context.Context) (*cli.App, error) {
	cli.LoadEnvFile()
	cfg, err := cli.LoadAndValidateConfig(nil)
	if err != nil {
		return nil, err
	}
	logger := cli.SetupLogger(cfg, os.Stderr)
	return cli.BuildApp(ctx, cfg, logger)
}

func newRootCmd(build appBuilder) *cobra.Command {
	root := &cobra.Command{
		Use:           "notectl",
		Short:         "Record and report income and expenses",
		Long:          `notectl manages the records of the configured store (DATA_BACKEND) and prints balances and monthly category reports.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}

	root.AddCommand(listCmd(build))
	root.AddCommand(addCmd(build))
	root.AddCommand(deleteCmd(build))
	root.AddCommand(summaryCmd(build))
	root.AddCommand(reportCmd(build))
	root.AddCommand(categoriesCmd())
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd(defaultBuilder).ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, cli.ExpenseStyle.Render("Error: ")+err.Error())
		os.Exit(1)
	}
}

// withApp opens the repository, runs fn and releases the backend.
func withApp(cmd *cobra.Command, build appBuilder, fn func(*cli.App) error) error {
	app, err := build(cmd.Context())
	if err != nil {
		return fmt.Errorf("open records: %w", err)
	}
	defer func() {
		if app.Cleanup != nil {
			_ = app.Cleanup()
		}
	}()
	if !app.Repo.Loaded() {
		return fmt.Errorf("records could not be loaded from the store")
	}
	return fn(app)
}
