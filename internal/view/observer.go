package view

import "time"

// EventType represents different phases of a view computation
type EventType string

const (
	EventFilterStart   EventType = "filter_start"
	EventFilterEnd     EventType = "filter_end"
	EventSortStart     EventType = "sort_start"
	EventSortEnd       EventType = "sort_end"
	EventPaginateStart EventType = "paginate_start"
	EventPaginateEnd   EventType = "paginate_end"
)

// Event represents a lifecycle event in a view computation
type Event struct {
	Type      EventType   // Type of event
	RequestID string      // One id per ComputeView call, for tracing
	Table     string      // Table the view is computed over
	Timestamp time.Time   // When the event occurred
	Data      interface{} // Phase-specific data (row counts, sort spec, window)
}

// Observer interface for event subscribers
// Observers receive events at each phase and cannot influence the result
type Observer interface {
	OnEvent(event Event)
}
