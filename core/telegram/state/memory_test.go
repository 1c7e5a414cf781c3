package state

import (
	"testing"
	"time"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	s := NewMemoryStore[string]()
	k := Key{ChatID: 1, UserID: 2}

	if _, ok := s.Get(k); ok {
		t.Fatal("empty store returned a session")
	}
	s.Put(k, "a")
	if got, ok := s.Get(k); !ok || got != "a" {
		t.Fatalf("Get = %q, %v", got, ok)
	}
	if s.Len() != 1 {
		t.Fatalf("Len = %d", s.Len())
	}
	s.Delete(k)
	if _, ok := s.Get(k); ok {
		t.Fatal("session survived Delete")
	}
}

func TestMemoryStoreKeysAreIsolated(t *testing.T) {
	s := NewMemoryStore[int]()
	s.Put(Key{ChatID: 1, UserID: 1}, 1)
	s.Put(Key{ChatID: 1, UserID: 2}, 2)
	if v, _ := s.Get(Key{ChatID: 1, UserID: 1}); v != 1 {
		t.Fatalf("user 1 sees %d", v)
	}
	if v, _ := s.Get(Key{ChatID: 1, UserID: 2}); v != 2 {
		t.Fatalf("user 2 sees %d", v)
	}
}

func TestMemoryStoreSweep(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore[string]()
	s.now = func() time.Time { return now }

	var evicted []Key
	s.OnEvict = func(k Key) { evicted = append(evicted, k) }

	old := Key{ChatID: 1}
	fresh := Key{ChatID: 2}
	s.Put(old, "old")
	now = now.Add(20 * time.Minute)
	s.Put(fresh, "fresh")
	now = now.Add(5 * time.Minute)

	if n := s.Sweep(0); n != 0 {
		t.Fatalf("disabled sweep removed %d", n)
	}
	if n := s.Sweep(10 * time.Minute); n != 1 {
		t.Fatalf("sweep removed %d, want 1", n)
	}
	if _, ok := s.Get(old); ok {
		t.Fatal("idle session not evicted")
	}
	if _, ok := s.Get(fresh); !ok {
		t.Fatal("fresh session evicted")
	}
	if len(evicted) != 1 || evicted[0] != old {
		t.Fatalf("OnEvict got %v", evicted)
	}
}
