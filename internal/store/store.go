// Package store holds the in-memory event collection. All access is
// serialized through a single mutex; callers get defensive copies.
package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/marcusyeo/TimeButler/internal/models"
)

type EventStore struct {
	mu     sync.RWMutex
	events []models.Event
}

func New() *EventStore {
	return &EventStore{}
}

// NewWithEvents builds a store from a seed set. Every event must validate
// and ids must be unique.
func NewWithEvents(events []models.Event) (*EventStore, error) {
	s := New()
	if err := s.AppendMany(events); err != nil {
		return nil, err
	}
	return s, nil
}

// Create adds a single event. Malformed events are rejected; duplicates of
// an existing id are rejected. The detector depends on every stored event
// having a valid interval.
func (s *EventStore) Create(e models.Event) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(e.ID) >= 0 {
		return fmt.Errorf("event %s: %w", e.ID, models.ErrDuplicateID)
	}
	s.events = append(s.events, e)
	return nil
}

// AppendMany adds a batch atomically: either every event is admitted or none
// is. Validation failures and duplicate ids (against the store or within the
// batch) reject the whole batch.
func (s *EventStore) AppendMany(events []models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[string]struct{}, len(events))
	for _, e := range events {
		if err := e.Validate(); err != nil {
			return err
		}
		if _, dup := seen[e.ID]; dup {
			return fmt.Errorf("event %s: %w", e.ID, models.ErrDuplicateID)
		}
		if s.indexOf(e.ID) >= 0 {
			return fmt.Errorf("event %s: %w", e.ID, models.ErrDuplicateID)
		}
		seen[e.ID] = struct{}{}
	}
	s.events = append(s.events, events...)
	return nil
}

// UpdateByID applies a partial update. Unknown ids are a no-op, not an
// error. A patch that would invalidate the interval is rejected and the
// event is left unchanged.
func (s *EventStore) UpdateByID(id string, patch models.EventPatch) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	updated := s.events[i]
	patch.ApplyTo(&updated)
	if err := updated.Validate(); err != nil {
		return false, err
	}
	s.events[i] = updated
	return true, nil
}

// RemoveByIDs deletes the listed events and reports how many were removed.
// Unknown ids are skipped.
func (s *EventStore) RemoveByIDs(ids ...string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	kept := s.events[:0]
	removed := 0
	for _, e := range s.events {
		if _, gone := drop[e.ID]; gone {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	s.events = kept
	return removed
}

// Get returns a copy of the event with the given id.
func (s *EventStore) Get(id string) (models.Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.events[i], true
	}
	return models.Event{}, false
}

// ListAll returns every event ordered by start time, ties broken by id.
// The ordering is the detector's determinism contract.
func (s *EventStore) ListAll() []models.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Event, len(s.events))
	copy(out, s.events)
	sortEvents(out)
	return out
}

// ListForDate returns the events whose start falls on the given calendar day
// (YYYY-MM-DD), ordered like ListAll. This is the sole date-bucketing entry
// point; the grid view, agenda view and daily summary all go through it.
func (s *EventStore) ListForDate(date string) []models.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Event
	for _, e := range s.events {
		if e.DateKey() == date {
			out = append(out, e)
		}
	}
	sortEvents(out)
	return out
}

func (s *EventStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// SnapshotJSON serializes the event set for the local state store.
func (s *EventStore) SnapshotJSON() ([]byte, error) {
	return json.Marshal(s.ListAll())
}

// RestoreJSON replaces the store contents with a previously serialized
// snapshot.
func (s *EventStore) RestoreJSON(data []byte) error {
	var events []models.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return fmt.Errorf("restore events: %w", err)
	}
	for _, e := range events {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("restore events: %w", err)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = events
	return nil
}

// indexOf must be called with the lock held.
func (s *EventStore) indexOf(id string) int {
	for i, e := range s.events {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func sortEvents(events []models.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Start.Equal(events[j].Start.Time) {
			return events[i].ID < events[j].ID
		}
		return events[i].Start.Before(events[j].Start.Time)
	})
}
