// Package repository owns the in-memory record list served to the API and
// the CLI. Writes go to the record store first; queries run the pure filter
// and aggregation functions over a snapshot.
package repository

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"moneynote/internal/cache"
	"moneynote/internal/core"
	applog "moneynote/internal/log"
	"moneynote/internal/records"
)

// Notifier is told about successful writes. Failures are logged and never
// fail the write.
type Notifier interface {
	RecordCreated(ctx context.Context, r core.Record) error
	RecordDeleted(ctx context.Context, id string) error
}

type Options struct {
	Notifier Notifier
	Reports  cache.Cache[core.Report]
	Logger   *applog.Logger
}

type Repository struct {
	store    records.Store
	notifier Notifier
	reports  cache.Cache[core.Report]
	logger   *applog.Logger
	group    singleflight.Group

	mu      sync.RWMutex
	list    []core.Record
	version uint64
	loaded  bool
}

func New(store records.Store, opts Options) *Repository {
	logger := opts.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &Repository{
		store:    store,
		notifier: opts.Notifier,
		reports:  opts.Reports,
		logger:   logger.WithComponent(applog.ComponentRepository),
	}
}

// refreshAttempts bounds how often Refresh re-fetches when writes land while
// a fetch is in flight.
const refreshAttempts = 3

// Refresh replaces the list with a fresh fetch from the store. Concurrent
// callers share a single request, which is not cancelled when the caller
// that started it goes away.
func (r *Repository) Refresh(ctx context.Context) error {
	_, err, shared := r.group.Do("refresh", func() (any, error) {
		return nil, r.refresh(context.WithoutCancel(ctx))
	})
	if err != nil {
		r.logger.ErrorContext(ctx, "Refresh failed", applog.FieldError, err, "shared", shared)
		return fmt.Errorf("refresh: %w", err)
	}
	return nil
}

// refresh fetches the list and installs it unless a write changed the list
// while the fetch was in flight, in which case the fetch is repeated so the
// write is not lost.
func (r *Repository) refresh(ctx context.Context) error {
	for attempt := 1; ; attempt++ {
		r.mu.RLock()
		started := r.version
		r.mu.RUnlock()

		list, err := r.store.List(ctx)
		if err != nil {
			return err
		}
		core.SortByDateDesc(list)

		r.mu.Lock()
		if r.version != started {
			if attempt < refreshAttempts {
				r.mu.Unlock()
				continue
			}
			if r.loaded {
				r.mu.Unlock()
				r.logger.WarnContext(ctx, "Keeping local list, writes raced every refresh attempt",
					"attempts", attempt)
				return nil
			}
		}
		r.list = list
		r.version++
		r.loaded = true
		r.mu.Unlock()
		r.purgeReports()

		r.logger.InfoContext(ctx, "Records refreshed", applog.FieldCount, len(list))
		return nil
	}
}

// Create stores rec and adds the stored record to the list.
func (r *Repository) Create(ctx context.Context, rec core.Record) (core.Record, error) {
	created, err := r.store.Create(ctx, rec)
	if err != nil {
		return core.Record{}, fmt.Errorf("create record: %w", err)
	}

	r.mu.Lock()
	list := make([]core.Record, 0, len(r.list)+1)
	list = append(list, created)
	list = append(list, r.list...)
	core.SortByDateDesc(list)
	r.list = list
	r.version++
	r.mu.Unlock()
	r.purgeReports()

	if r.notifier != nil {
		if err := r.notifier.RecordCreated(ctx, created); err != nil {
			r.logger.ErrorContext(ctx, "Failed to publish created event",
				applog.FieldRecordID, created.ID,
				applog.FieldError, err)
		}
	}
	return created, nil
}

// Delete removes id from the store and then from the list.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}

	r.mu.Lock()
	list := make([]core.Record, 0, len(r.list))
	for _, rec := range r.list {
		if rec.ID != id {
			list = append(list, rec)
		}
	}
	r.list = list
	r.version++
	r.mu.Unlock()
	r.purgeReports()

	if r.notifier != nil {
		if err := r.notifier.RecordDeleted(ctx, id); err != nil {
			r.logger.ErrorContext(ctx, "Failed to publish deleted event",
				applog.FieldRecordID, id,
				applog.FieldError, err)
		}
	}
	return nil
}

// Snapshot returns a copy of the list, newest first.
func (r *Repository) Snapshot() []core.Record {
	list, _ := r.snapshot()
	return list
}

// Search filters the snapshot by kind and then by note.
func (r *Repository) Search(kind core.KindFilter, query string) []core.Record {
	list, _ := r.snapshot()
	return core.Search(list, kind, query)
}

// Summary balances the records matching kind.
func (r *Repository) Summary(kind core.KindFilter) core.Summary {
	list, _ := r.snapshot()
	return core.Summarize(core.FilterByKind(list, kind))
}

// Report builds the category report of month for the records matching kind.
func (r *Repository) Report(month core.MonthKey, kind core.KindFilter) core.Report {
	list, version := r.snapshot()
	key := fmt.Sprintf("%d|%s|%s", version, month, kind)
	if r.reports != nil {
		if rep, ok := r.reports.Get(key); ok {
			return rep
		}
	}
	rep := core.MonthReport(core.FilterByKind(list, kind), month)
	if r.reports != nil {
		r.reports.Set(key, rep)
	}
	return rep
}

// Loaded reports whether at least one refresh has succeeded.
func (r *Repository) Loaded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loaded
}

// Version increases on every change to the list.
func (r *Repository) Version() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

func (r *Repository) snapshot() ([]core.Record, uint64) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]core.Record(nil), r.list...), r.version
}

func (r *Repository) purgeReports() {
	if r.reports != nil {
		r.reports.Purge()
	}
}
