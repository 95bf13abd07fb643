package cache

import (
	"context"
	"time"

	applog "moneynote/internal/log"
)

// Cache is the subset of LRUCache the rest of the service depends on.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, data T)
	Delete(key string)
	// Purge drops every entry.
	Purge()
	Size() int
}

// Cleaner interface for caches that support cleanup
type Cleaner interface {
	CleanExpired() int
	Size() int
}

// Manager periodically evicts expired entries from registered caches and
// reports their sizes through OnSweep.
type Manager struct {
	caches  map[string]Cleaner
	logger  *applog.Logger
	OnSweep func(name string, size int)
	done    chan struct{}
}

func NewManager(logger *applog.Logger) *Manager {
	return &Manager{
		caches: make(map[string]Cleaner),
		logger: logger,
		done:   make(chan struct{}),
	}
}

// Register adds a named cache. Call before StartCleanup.
func (m *Manager) Register(name string, c Cleaner) {
	m.caches[name] = c
}

// StartCleanup sweeps every interval until ctx is cancelled.
func (m *Manager) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		defer close(m.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.Sweep()
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Sweep runs one cleanup pass and returns the number of evicted entries.
func (m *Manager) Sweep() int {
	total := 0
	for name, c := range m.caches {
		n := c.CleanExpired()
		total += n
		if m.OnSweep != nil {
			m.OnSweep(name, c.Size())
		}
		if n > 0 && m.logger != nil {
			m.logger.Debug("Evicted expired cache entries", "cache", name, applog.FieldCount, n)
		}
	}
	return total
}

// Wait blocks until the cleanup goroutine has exited.
func (m *Manager) Wait() {
	<-m.done
}
