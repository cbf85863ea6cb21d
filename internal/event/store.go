package event

import (
	"errors"
	"sync"
)

// ErrNotFound is returned when an index refers to no currently retained event.
var ErrNotFound = errors.New("event not found")

// Store is the in-memory ordered log of detection events plus the aggregate
// detection counter. All mutation and index validation happens under one
// lock; events are identified by their current position, so an index is
// only meaningful within a single Store call.
//
// Retention: once the log grows past maxEvents it is trimmed to the trimTo
// most recent entries. The aggregate counter deliberately keeps the counts
// of trimmed events; only explicit deletes decrement it. Snapshot files of
// trimmed events are likewise left on disk.
type Store struct {
	mu        sync.Mutex
	events    []Event
	total     int
	maxEvents int
	trimTo    int
	listener  func(Event)
}

// NewStore creates a store that trims to trimTo entries once the log
// exceeds maxEvents.
func NewStore(maxEvents, trimTo int) *Store {
	return &Store{
		maxEvents: maxEvents,
		trimTo:    trimTo,
	}
}

// Notify registers a listener invoked after every successful append, outside
// the store lock. Used by the HTTP surface to push events to live clients.
func (s *Store) Notify(fn func(Event)) {
	s.mu.Lock()
	s.listener = fn
	s.mu.Unlock()
}

// Append adds an event to the end of the log and raises the aggregate
// counter by its count, trimming the oldest entries when the log overflows.
func (s *Store) Append(e Event) {
	s.mu.Lock()
	s.events = append(s.events, e)
	s.total += e.Count
	if len(s.events) > s.maxEvents {
		kept := make([]Event, s.trimTo)
		copy(kept, s.events[len(s.events)-s.trimTo:])
		s.events = kept
	}
	listener := s.listener
	s.mu.Unlock()

	if listener != nil {
		listener(e)
	}
}

// Len returns the number of currently retained events.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

// Total returns the aggregate detection counter.
func (s *Store) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// List returns a copy of the retained events in insertion order, restricted
// to the most recent limit entries when limit > 0. With newestFirst the
// returned slice is reversed.
func (s *Store) List(limit int, newestFirst bool) []Event {
	s.mu.Lock()
	events := s.events
	if limit > 0 && len(events) > limit {
		events = events[len(events)-limit:]
	}
	out := make([]Event, len(events))
	copy(out, events)
	s.mu.Unlock()

	if newestFirst {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

// Snapshot returns all retained events in insertion order together with the
// aggregate counter, read under a single lock acquisition.
func (s *Store) Snapshot() ([]Event, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out, s.total
}

// Last returns the most recent event, if any.
func (s *Store) Last() (Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.events) == 0 {
		return Event{}, false
	}
	return s.events[len(s.events)-1], true
}

// GetByIndex returns the event at position i. Positions shift when events
// are trimmed or deleted, so callers must not hold indices across calls.
func (s *Store) GetByIndex(i int) (Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.events) {
		return Event{}, ErrNotFound
	}
	return s.events[i], nil
}

// DeleteByIndex removes the event at position i, decrementing the aggregate
// counter by its count (floored at zero), and returns the removed event so
// the caller can dispose of its snapshot file.
func (s *Store) DeleteByIndex(i int) (Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.events) {
		return Event{}, ErrNotFound
	}
	removed := s.events[i]
	s.events = append(s.events[:i], s.events[i+1:]...)
	s.total -= removed.Count
	if s.total < 0 {
		s.total = 0
	}
	return removed, nil
}

// DeleteByFilename removes every event whose filename matches name and
// decrements the counter once per removed match. A name with no matches is
// a no-op, not an error. The removed events are returned.
func (s *Store) DeleteByFilename(name string) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []Event
	kept := s.events[:0]
	for _, e := range s.events {
		if e.Filename == name {
			removed = append(removed, e)
			s.total -= e.Count
			continue
		}
		kept = append(kept, e)
	}
	s.events = kept
	if s.total < 0 {
		s.total = 0
	}
	return removed
}
