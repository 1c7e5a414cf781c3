package state

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/m3rciful/rentalbot/core/logger"
)

type entry[S any] struct {
	session S
	touched time.Time
}

// MemoryStore is a mutex-guarded Store with optional idle eviction.
type MemoryStore[S any] struct {
	mu       sync.RWMutex
	sessions map[Key]*entry[S]
	now      func() time.Time

	// OnEvict, when set, is called for every session removed by Sweep.
	OnEvict func(Key)
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore[S any]() *MemoryStore[S] {
	return &MemoryStore[S]{
		sessions: make(map[Key]*entry[S]),
		now:      time.Now,
	}
}

// Get returns the session for key if it exists.
func (m *MemoryStore[S]) Get(key Key) (S, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if e, ok := m.sessions[key]; ok {
		return e.session, true
	}
	var zero S
	return zero, false
}

// Put stores the session and refreshes its idle timer.
func (m *MemoryStore[S]) Put(key Key, session S) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[key] = &entry[S]{session: session, touched: m.now()}
}

// Delete removes the session for key.
func (m *MemoryStore[S]) Delete(key Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, key)
}

// Len returns the number of stored sessions.
func (m *MemoryStore[S]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep drops sessions idle for longer than ttl and returns how many were removed.
func (m *MemoryStore[S]) Sweep(ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}
	cutoff := m.now().Add(-ttl)

	m.mu.Lock()
	var evicted []Key
	for k, e := range m.sessions {
		if e.touched.Before(cutoff) {
			delete(m.sessions, k)
			evicted = append(evicted, k)
		}
	}
	m.mu.Unlock()

	if m.OnEvict != nil {
		for _, k := range evicted {
			m.OnEvict(k)
		}
	}
	return len(evicted)
}

// RunSweeper calls Sweep every interval until ctx is done. A non-positive ttl
// disables eviction and returns immediately.
func (m *MemoryStore[S]) RunSweeper(ctx context.Context, ttl, interval time.Duration) {
	if ttl <= 0 {
		return
	}
	if interval <= 0 {
		interval = ttl / 2
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(ttl); n > 0 {
				logger.Info(ctx, "tg.state", "session.evicted",
					slog.String("status", "ok"),
					slog.Int("count", n),
					slog.Duration("idle_ttl", ttl),
				)
			}
		}
	}
}
