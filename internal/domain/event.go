package domain

import "time"

// EventType tags a synthesized calendar event.
type EventType string

const (
	EventLoading    EventType = "Loading"
	EventTravelling EventType = "Travelling"
	EventOnSite     EventType = "On Site"
	EventWash       EventType = "Wash"
	EventWaiting    EventType = "Waiting"
	EventBreak      EventType = "Break"
)

// Colour classification codes for calendar display. The code is binary:
// special mixes (by mix-name suffix) and collections share one colour,
// everything else the other.
const (
	ColorStandard = "1"
	ColorSpecial  = "2"
)

// CalendarEvent is the synthesized output unit. A day's full event set
// replaces any prior set for that day on save.
type CalendarEvent struct {
	Type  EventType
	Start time.Time
	End   time.Time
	// BookingID links On Site events back to their booking; empty for
	// synthetic blocks.
	BookingID    string
	Summary      string
	Description  string
	Location     string
	Color        string
	OverCapacity bool
}

func (e CalendarEvent) Duration() time.Duration { return e.End.Sub(e.Start) }
