package worker

import (
	"context"
	"errors"
	"fmt"

	"moneynote/internal/amqp"
	"moneynote/internal/core"
	applog "moneynote/internal/log"
	"moneynote/internal/records"
)

// Mirror is the local copy the worker maintains.
type Mirror interface {
	records.Lister
	records.Deleter
	Upsert(ctx context.Context, r core.Record) error
}

// MirrorWorker applies record events to a local mirror of the record store.
type MirrorWorker struct {
	mirror Mirror
	logger *applog.Logger
}

func NewMirrorWorker(mirror Mirror, logger *applog.Logger) *MirrorWorker {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &MirrorWorker{mirror: mirror, logger: logger.WithComponent(applog.ComponentWorker)}
}

// HandleEvent is an amqp.Handler. Deleting an id the mirror never saw is not an error.
func (w *MirrorWorker) HandleEvent(ctx context.Context, ev *amqp.RecordEvent) error {
	switch ev.Type {
	case amqp.EventRecordCreated:
		rec := ev.Record.ToRecord()
		if err := w.mirror.Upsert(ctx, rec); err != nil {
			return fmt.Errorf("mirror created record %s: %w", ev.ID, err)
		}
		w.logger.InfoContext(ctx, "Mirrored created record",
			applog.FieldRecordID, ev.ID,
			applog.FieldKind, rec.Kind.String(),
			applog.FieldCategory, rec.Category.Slug())
	case amqp.EventRecordDeleted:
		err := w.mirror.Delete(ctx, ev.ID)
		if err != nil && !errors.Is(err, records.ErrNotFound) {
			return fmt.Errorf("mirror deleted record %s: %w", ev.ID, err)
		}
		w.logger.InfoContext(ctx, "Mirrored deleted record",
			applog.FieldRecordID, ev.ID,
			"present", err == nil)
	default:
		w.logger.WarnContext(ctx, "Ignoring unknown event type", "type", ev.Type, applog.FieldRecordID, ev.ID)
	}
	return nil
}

// Reconcile makes the mirror match source. It recovers from events missed
// while the worker was down.
func (w *MirrorWorker) Reconcile(ctx context.Context, source records.Lister) error {
	want, err := source.List(ctx)
	if err != nil {
		return fmt.Errorf("list source: %w", err)
	}
	have, err := w.mirror.List(ctx)
	if err != nil {
		return fmt.Errorf("list mirror: %w", err)
	}

	keep := make(map[string]struct{}, len(want))
	upserted := 0
	for _, r := range want {
		if r.ID == "" {
			continue
		}
		keep[r.ID] = struct{}{}
		if err := w.mirror.Upsert(ctx, r); err != nil {
			return fmt.Errorf("upsert %s: %w", r.ID, err)
		}
		upserted++
	}
	removed := 0
	for _, r := range have {
		if _, ok := keep[r.ID]; ok {
			continue
		}
		if err := w.mirror.Delete(ctx, r.ID); err != nil && !errors.Is(err, records.ErrNotFound) {
			return fmt.Errorf("delete %s: %w", r.ID, err)
		}
		removed++
	}

	w.logger.InfoContext(ctx, "Mirror reconciled",
		"upserted", upserted,
		"removed", removed)
	return nil
}
