// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"moneynote/internal/core"
	"moneynote/internal/records"
)

const namespace = "moneynote"

var (
	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"method", "route", "status"},
	)

	storeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"op", "error"},
	)

	cacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "entries",
		},
		[]string{"cache"},
	)

	eventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "published_total",
		},
		[]string{"type", "error"},
	)

	securityEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "security",
			Name:      "events_total",
		},
		[]string{"event"},
	)
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveHTTP records one served request.
func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// ObserveStore records one record store call.
func ObserveStore(op string, elapsed time.Duration, err error) {
	storeDuration.WithLabelValues(op, strconv.FormatBool(err != nil)).Observe(elapsed.Seconds())
}

// SetCacheSize reports the number of entries held by a cache.
func SetCacheSize(name string, size int) {
	cacheSize.WithLabelValues(name).Set(float64(size))
}

// CountEvent records one published event.
func CountEvent(eventType string, err error) {
	eventsPublished.WithLabelValues(eventType, strconv.FormatBool(err != nil)).Inc()
}

// CountSecurityEvent counts rate limit hits and suspicious requests.
func CountSecurityEvent(event string) {
	securityEvents.WithLabelValues(event).Inc()
}

// InstrumentedStore times every call to the wrapped store.
type InstrumentedStore struct {
	next records.Store
}

var _ records.Store = (*InstrumentedStore)(nil)

func Instrument(next records.Store) *InstrumentedStore {
	return &InstrumentedStore{next: next}
}

func (s *InstrumentedStore) List(ctx context.Context) ([]core.Record, error) {
	start := time.Now()
	out, err := s.next.List(ctx)
	ObserveStore("list", time.Since(start), err)
	return out, err
}

func (s *InstrumentedStore) Create(ctx context.Context, r core.Record) (core.Record, error) {
	start := time.Now()
	out, err := s.next.Create(ctx, r)
	ObserveStore("create", time.Since(start), err)
	return out, err
}

func (s *InstrumentedStore) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := s.next.Delete(ctx, id)
	ObserveStore("delete", time.Since(start), err)
	return err
}

// EventPublisher is the notifier side of the record events.
type EventPublisher interface {
	RecordCreated(ctx context.Context, r core.Record) error
	RecordDeleted(ctx context.Context, id string) error
}

// CountingPublisher counts every event handed to the wrapped publisher.
type CountingPublisher struct {
	next EventPublisher
}

func CountEvents(next EventPublisher) *CountingPublisher {
	return &CountingPublisher{next: next}
}

func (p *CountingPublisher) RecordCreated(ctx context.Context, r core.Record) error {
	err := p.next.RecordCreated(ctx, r)
	CountEvent("record.created", err)
	return err
}

func (p *CountingPublisher) RecordDeleted(ctx context.Context, id string) error {
	err := p.next.RecordDeleted(ctx, id)
	CountEvent("record.deleted", err)
	return err
}
