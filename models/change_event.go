package models

import "strings"

// EventType is the kind of change reported by a change feed.
type EventType string

const (
	EventInsert      EventType = "INSERT"
	EventUpdate      EventType = "UPDATE"
	EventDelete      EventType = "DELETE"
	EventUnspecified EventType = ""
)

// EventFilter selects which event types a subscription receives.
// "*" (or empty) means all of them.
type EventFilter string

// AllEvents subscribes to every change of a table.
const AllEvents EventFilter = "*"

// Matches reports whether an event of type t passes the filter.
func (f EventFilter) Matches(t EventType) bool {
	if f == "" || f == AllEvents {
		return true
	}
	return strings.EqualFold(string(f), string(t))
}

// ChangeEvent is a single notification from a change feed. Record and
// OldRecord are informational only: synchronizers always refetch.
type ChangeEvent struct {
	Type      EventType `json:"type"`
	Table     string    `json:"table"`
	Record    Record    `json:"record,omitempty"`
	OldRecord Record    `json:"old_record,omitempty"`
}

// ParseEventType normalizes a feed-specific event name.
func ParseEventType(s string) EventType {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(EventInsert):
		return EventInsert
	case string(EventUpdate):
		return EventUpdate
	case string(EventDelete):
		return EventDelete
	default:
		return EventUnspecified
	}
}
