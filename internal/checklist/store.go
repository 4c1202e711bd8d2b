package checklist

import "sync"

// Store holds the most recently fetched snapshot. A snapshot is only ever
// swapped whole; MutateLocally is reserved for degraded-mode bulk edits.
type Store struct {
	mu     sync.RWMutex
	snap   Snapshot
	loaded bool
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Replace(snap Snapshot) {
	s.mu.Lock()
	s.snap = snap
	s.loaded = true
	s.mu.Unlock()
}

func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Snapshot returns the held snapshot and whether one has been loaded.
func (s *Store) Snapshot() (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap, s.loaded
}

// FindByID scans categories then tasks and returns the first match.
func (s *Store) FindByID(id TaskID) (Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return Task{}, false
	}
	for _, c := range s.snap.Categories {
		for _, t := range c.Tasks {
			if t.ID == id {
				return t, true
			}
		}
	}
	return Task{}, false
}

// MutateLocally applies fn to every task of a private copy of the snapshot
// and installs the copy. It is a no-op when nothing has been loaded.
func (s *Store) MutateLocally(fn func(*Task)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return
	}
	next := s.snap.Clone()
	for ci := range next.Categories {
		tasks := next.Categories[ci].Tasks
		for ti := range tasks {
			fn(&tasks[ti])
		}
	}
	s.snap = next
}

// MarkAllLocal sets every task's completion flag without touching the
// server-supplied counters.
func (s *Store) MarkAllLocal(completed bool) {
	s.MutateLocally(func(t *Task) {
		t.Completed = completed
	})
}
