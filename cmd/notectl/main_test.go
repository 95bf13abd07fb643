package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneynote/internal/cli"
	"moneynote/internal/config"
	applog "moneynote/internal/log"
)

// sharedApp builds one memory-backed app and hands it to every command.
func sharedApp(t *testing.T) appBuilder {
	t.Helper()
	cfg := &config.Config{DataBackend: config.BackendMemory, ReportCacheSize: 4}
	app, err := cli.BuildApp(context.Background(), cfg, applog.Discard())
	require.NoError(t, err)
	return func(context.Context) (*cli.App, error) { return app, nil }
}

func run(t *testing.T, build appBuilder, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(build)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestAddListDelete(t *testing.T) {
	build := sharedApp(t)

	out, err := run(t, build, "add", "--kind", "income", "--date", "2023-12-01", "--amount", "2700", "--category", "salary", "--note", "December salary")
	require.NoError(t, err)
	require.Contains(t, out, "Created rec")
	id := strings.Fields(strings.TrimPrefix(out, "Created "))[0]
	id = strings.TrimSuffix(id, ":")

	_, err = run(t, build, "add", "--date", "2023/12/13", "--amount", "35", "--note", "Café latte")
	require.NoError(t, err)

	out, err = run(t, build, "list", "--kind", "expense", "-q", "cafe")
	require.NoError(t, err)
	assert.Contains(t, out, "Café latte")
	assert.NotContains(t, out, "December salary")
	assert.Contains(t, out, "1 record(s)")

	out, err = run(t, build, "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "Balance: $2665 / $2700")

	out, err = run(t, build, "report", "--month", "2023/12", "--kind", "expense")
	require.NoError(t, err)
	assert.Contains(t, out, "Report 2023/12")
	assert.Contains(t, out, "100.0%")

	_, err = run(t, build, "delete", id)
	require.NoError(t, err)
	out, err = run(t, build, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "1 record(s)")
}

func TestAddValidation(t *testing.T) {
	build := sharedApp(t)
	for _, args := range [][]string{
		{"add"},
		{"add", "--amount", "abc"},
		{"add", "--amount", "1", "--kind", "transfer"},
		{"add", "--amount", "1", "--category", "groceries"},
		{"add", "--amount", "1", "--date", "13 Dec"},
	} {
		_, err := run(t, build, args...)
		assert.Error(t, err, "%v", args)
	}
}

func TestReportAndListFlagsValidation(t *testing.T) {
	build := sharedApp(t)
	_, err := run(t, build, "report", "--month", "2023/13")
	assert.Error(t, err)
	_, err = run(t, build, "list", "--kind", "both")
	assert.Error(t, err)
	_, err = run(t, build, "delete")
	assert.Error(t, err)
}

func TestCategories(t *testing.T) {
	out, err := run(t, nil, "categories")
	require.NoError(t, err)
	assert.Contains(t, out, "housing-expense")
	assert.Equal(t, 12, strings.Count(out, "\n"))
}
