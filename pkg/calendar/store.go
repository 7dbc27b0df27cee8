package calendar

import (
	"fmt"

	"github.com/kalendo/kalendo/pkg/event"
	log "github.com/sirupsen/logrus"
)

// Store is the insertion-ordered collection of event templates for one
// calendar. Recurring events are stored as templates, never expanded.
type Store struct {
	events []*event.Event
}

func NewStore() *Store {
	return &Store{events: make([]*event.Event, 0, 16)}
}

// Add appends the event after scanning for conflicts. When a conflict
// is found and the event requests auto-decline, the insertion is
// rejected with a ConflictError and the store is left unchanged.
// Without auto-decline, conflicts are tolerated.
func (s *Store) Add(ev *event.Event) error {
	conflicting, err := s.Conflicts(ev)
	if err != nil {
		return err
	}
	if conflicting != nil && ev.AutoDecline {
		log.Debugf("declined event %q: conflicts with %q", ev.Subject, conflicting.Subject)
		return &event.ConflictError{Subject: ev.Subject, Existing: conflicting.Subject}
	}
	s.events = append(s.events, ev)
	return nil
}

// Conflicts returns the first stored event whose occurrences overlap
// the candidate's, or nil when the candidate fits cleanly.
func (s *Store) Conflicts(candidate *event.Event) (*event.Event, error) {
	for _, existing := range s.events {
		overlap, err := existing.ConflictsWith(candidate)
		if err != nil {
			return nil, fmt.Errorf("failed to check conflict with %q: %w", existing.Subject, err)
		}
		if overlap {
			return existing, nil
		}
	}
	return nil, nil
}

// All returns a snapshot of the stored templates in insertion order.
// Mutating the returned slice does not affect the store.
func (s *Store) All() []*event.Event {
	return append([]*event.Event(nil), s.events...)
}

func (s *Store) Len() int {
	return len(s.events)
}
