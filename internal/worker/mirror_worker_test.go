package worker

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneynote/internal/amqp"
	"moneynote/internal/core"
	applog "moneynote/internal/log"
	"moneynote/internal/records/memory"
	"moneynote/internal/storage"
)

func newMirror(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "mirror.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestHandleEvent(t *testing.T) {
	mirror := newMirror(t)
	w := NewMirrorWorker(mirror, applog.Discard())
	ctx := context.Background()

	rec := core.Record{ID: "recA", Kind: core.KindExpense, Date: core.NewDate(2023, 12, 13), Note: "coffee", Amount: "35", Category: core.CategoryFood}
	require.NoError(t, w.HandleEvent(ctx, amqp.NewCreatedEvent(rec)))
	// redelivery is idempotent
	require.NoError(t, w.HandleEvent(ctx, amqp.NewCreatedEvent(rec)))

	list, err := mirror.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "recA", list[0].ID)
	assert.Equal(t, core.CategoryFood, list[0].Category)

	require.NoError(t, w.HandleEvent(ctx, amqp.NewDeletedEvent("recA")))
	require.NoError(t, w.HandleEvent(ctx, amqp.NewDeletedEvent("recA")))
	list, err = mirror.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestReconcile(t *testing.T) {
	mirror := newMirror(t)
	w := NewMirrorWorker(mirror, applog.Discard())
	ctx := context.Background()

	require.NoError(t, mirror.Upsert(ctx, core.Record{ID: "recStale", Kind: core.KindExpense, Amount: "1"}))
	source := memory.New([]core.Record{
		{ID: "recA", Kind: core.KindIncome, Date: core.NewDate(2023, 12, 1), Amount: "2700", Category: core.CategorySalary},
		{ID: "recB", Kind: core.KindExpense, Date: core.NewDate(2023, 12, 2), Amount: "3", Category: core.CategoryFood},
	})

	require.NoError(t, w.Reconcile(ctx, source))
	list, err := mirror.List(ctx)
	require.NoError(t, err)
	ids := map[string]bool{}
	for _, r := range list {
		ids[r.ID] = true
	}
	assert.Equal(t, map[string]bool{"recA": true, "recB": true}, ids)
}
