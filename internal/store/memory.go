package store

import (
	"context"
	"sync"
)

// Memory is a process-local Ledger used when no database is configured.
type Memory struct {
	mu    sync.Mutex
	items []Submission
}

// NewMemory returns an empty ledger.
func NewMemory() *Memory {
	return &Memory{}
}

// Record appends s.
func (m *Memory) Record(_ context.Context, s Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, s)
	return nil
}

// Counts returns submission totals per outcome.
func (m *Memory) Counts(context.Context) (Counts, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var c Counts
	for _, s := range m.items {
		c.add(s.Outcome, 1)
	}
	return c, nil
}

// Recent returns at most limit submissions, newest first.
func (m *Memory) Recent(_ context.Context, limit int) ([]Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit <= 0 {
		return nil, nil
	}
	out := make([]Submission, 0, min(limit, len(m.items)))
	for i := len(m.items) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.items[i])
	}
	return out, nil
}

// Submissions returns a copy of everything recorded so far.
func (m *Memory) Submissions() []Submission {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Submission(nil), m.items...)
}
