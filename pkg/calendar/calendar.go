package calendar

import (
	"time"

	"github.com/kalendo/kalendo/pkg/event"
)

// Calendar owns one store of event templates, the edit engine for that
// store, and the timezone all wall-clock values are interpreted in.
type Calendar struct {
	name   string
	loc    *time.Location
	store  *Store
	editor *Editor
}

func New(name string, loc *time.Location) *Calendar {
	store := NewStore()
	return &Calendar{
		name:   name,
		loc:    loc,
		store:  store,
		editor: NewEditor(store, loc),
	}
}

func (c *Calendar) Name() string {
	return c.name
}

func (c *Calendar) Location() *time.Location {
	return c.loc
}

// Rename changes the calendar's name. Identity for all other state is
// unaffected; the multi-calendar manager re-keys its index.
func (c *Calendar) Rename(name string) {
	c.name = name
}

// Add inserts a template through the store's conflict-checked path.
func (c *Calendar) Add(ev *event.Event) error {
	return c.store.Add(ev)
}

// All returns a snapshot of the stored templates in insertion order.
func (c *Calendar) All() []*event.Event {
	return c.store.All()
}

// Conflicts returns the first stored event overlapping the candidate,
// or nil when it fits cleanly. The store is not modified.
func (c *Calendar) Conflicts(candidate *event.Event) (*event.Event, error) {
	return c.store.Conflicts(candidate)
}

// Edit applies a scoped property change, see Editor.Edit.
func (c *Calendar) Edit(subject string, from time.Time, property, newValue string, scope Scope) error {
	return c.editor.Edit(subject, from, property, newValue, scope)
}

// EventsOn returns the unexpanded templates with an occurrence on the
// given date, in insertion order. Override replacements are consulted,
// so an occurrence moved to another date by a SINGLE-scope edit counts
// on its new date.
func (c *Calendar) EventsOn(date time.Time) ([]*event.Event, error) {
	result := make([]*event.Event, 0, 4)
	for _, ev := range c.store.All() {
		if ev.Kind == event.Single {
			on, err := ev.OccursOn(date)
			if err != nil {
				return nil, err
			}
			if on {
				result = append(result, ev)
			}
			continue
		}
		occurrences, err := c.occurrencesOf(ev)
		if err != nil {
			return nil, err
		}
		for _, occ := range occurrences {
			if event.SameDate(occ.Start, date) {
				result = append(result, ev)
				break
			}
		}
	}
	return result, nil
}

// Occurrences expands every stored template into concrete occurrences,
// substituting recorded overrides, in insertion-then-chronological
// order per template.
func (c *Calendar) Occurrences() ([]event.Event, error) {
	all := make([]event.Event, 0, c.store.Len())
	for _, ev := range c.store.All() {
		occurrences, err := c.occurrencesOf(ev)
		if err != nil {
			return nil, err
		}
		all = append(all, occurrences...)
	}
	return all, nil
}

// IsBusyAt reports whether any occurrence strictly contains the
// instant. Boundary instants are not busy.
func (c *Calendar) IsBusyAt(t time.Time) (bool, error) {
	occurrences, err := c.Occurrences()
	if err != nil {
		return false, err
	}
	for i := range occurrences {
		if occurrences[i].ActiveAt(t) {
			return true, nil
		}
	}
	return false, nil
}

// SetLocation migrates the calendar to a new timezone. Every stored
// event and override keeps its absolute instants; wall-clock values are
// recomputed for the new zone.
func (c *Calendar) SetLocation(loc *time.Location) {
	for _, ev := range c.store.events {
		ev.Rebase(loc)
	}
	c.editor.Rebase(loc)
	c.loc = loc
}

// occurrencesOf expands one template and applies override shadowing.
func (c *Calendar) occurrencesOf(ev *event.Event) ([]event.Event, error) {
	occurrences, err := ev.Occurrences()
	if err != nil {
		return nil, err
	}
	if ev.Kind == event.Recurring {
		for i := range occurrences {
			if ov, ok := c.editor.Override(ev.ID, occurrences[i].Start); ok {
				occurrences[i] = *ov
			}
		}
	}
	return occurrences, nil
}
