package calendar

import (
	"strings"
	"time"

	"github.com/kalendo/kalendo/pkg/event"
)

// Printer renders human-readable event listings for one calendar.
type Printer struct {
	cal *Calendar
}

func NewPrinter(cal *Calendar) *Printer {
	return &Printer{cal: cal}
}

// EventsOn lists the templates with an occurrence on the given date.
func (p *Printer) EventsOn(date time.Time) (string, error) {
	events, err := p.cal.EventsOn(date)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString("Events on ")
	sb.WriteString(date.Format(event.DateLayout))
	sb.WriteString(":\n")
	for _, ev := range events {
		writeLine(&sb, ev.Subject, ev.Location, ev.Start)
	}
	return sb.String(), nil
}

// EventsRange lists the occurrences (overrides included) whose start
// falls within [start, end).
func (p *Printer) EventsRange(start, end time.Time) (string, error) {
	occurrences, err := p.cal.Occurrences()
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString("Events from ")
	sb.WriteString(start.Format(event.DateTimeLayout))
	sb.WriteString(" to ")
	sb.WriteString(end.Format(event.DateTimeLayout))
	sb.WriteString(":\n")
	for i := range occurrences {
		occ := &occurrences[i]
		if occ.Start.Before(start) || !occ.Start.Before(end) {
			continue
		}
		writeLine(&sb, occ.Subject, occ.Location, occ.Start)
	}
	return sb.String(), nil
}

func writeLine(sb *strings.Builder, subject, location string, start time.Time) {
	sb.WriteString("- ")
	sb.WriteString(subject)
	sb.WriteString(" at ")
	if trimmed := strings.TrimSpace(location); trimmed != "" {
		sb.WriteString(trimmed)
		sb.WriteString(" ")
	}
	sb.WriteString(start.Format(event.DateTimeLayout))
	sb.WriteString("\n")
}
