// Package timeline keeps the bounded event log shown next to the peer
// table: gateway events plus locally detected peer transitions.
package timeline

import (
	"strings"

	"wgdash/internal/model"
)

// DefaultCapacity is the number of events kept.
const DefaultCapacity = 200

// Timeline is an ordered, bounded log, newest last. Not safe for concurrent
// use; callers serialize access.
type Timeline struct {
	capacity int
	events   []model.Event
}

// New creates a timeline; a non-positive capacity uses the default.
func New(capacity int) *Timeline {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Timeline{capacity: capacity}
}

// Push appends e, keeping only the most recent capacity events.
func (t *Timeline) Push(e model.Event) {
	t.events = append(t.events, e)
	if over := len(t.events) - t.capacity; over > 0 {
		t.events = append(t.events[:0], t.events[over:]...)
	}
}

// Clear drops every event.
func (t *Timeline) Clear() {
	t.events = nil
}

func (t *Timeline) Len() int { return len(t.events) }

// Events returns a copy, oldest first.
func (t *Timeline) Events() []model.Event {
	out := make([]model.Event, len(t.events))
	copy(out, t.events)
	return out
}

// Filter returns the events whose "type msg level" contains query,
// case-insensitively. An empty query returns every event.
func Filter(events []model.Event, query string) []model.Event {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]model.Event, 0, len(events))
	for _, e := range events {
		if q == "" || strings.Contains(strings.ToLower(e.Type+" "+e.Msg+" "+string(e.Level)), q) {
			out = append(out, e)
		}
	}
	return out
}

// FilterLines keeps the lines of text containing query, case-insensitively.
// An empty query returns text unchanged.
func FilterLines(text, query string) string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return text
	}
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.Contains(strings.ToLower(line), q) {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
