package event_bus

import "time"

const (
	TypeCalendarCreated         EventType = "calendar.created"
	TypeCalendarTimezoneChanged EventType = "calendar.timezone_changed"
	TypeEventScheduled          EventType = "event.scheduled"
)

type CalendarCreated struct {
	Name     string
	Timezone string
}

type CalendarTimezoneChanged struct {
	Name     string
	Timezone string
}

type EventScheduled struct {
	Calendar string
	Subject  string
	Start    time.Time
	End      time.Time
}
