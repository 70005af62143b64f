package statechart

import (
	"fmt"
	"time"
)

// EventID identifies an event. Transitions filter on it by equality.
type EventID string

// Event represents a trigger dispatched to a chart. A nil *Event is the "none"
// event: it only fires transitions that declare no event filter.
type Event struct {
	ID        EventID
	Data      any
	Timestamp time.Time
}

// NewEvent creates a new event with the given identifier
func NewEvent(id EventID) *Event {
	return &Event{
		ID:        id,
		Timestamp: time.Now(),
	}
}

// NewEventWithData creates a new event carrying a payload
func NewEventWithData(id EventID, data any) *Event {
	return &Event{
		ID:        id,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// Matches reports whether both events are present and share an ID.
// The none event never matches anything, itself included.
func (e *Event) Matches(other *Event) bool {
	if e == nil || other == nil {
		return false
	}
	return e.ID == other.ID
}

func (e *Event) String() string {
	if e == nil {
		return "Event:<none>"
	}
	return fmt.Sprintf("Event:%s", e.ID)
}

// idOrEmpty returns the event ID, or "" for the none event
func (e *Event) idOrEmpty() string {
	if e == nil {
		return ""
	}
	return string(e.ID)
}
