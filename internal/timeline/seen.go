package timeline

import "wgdash/internal/model"

const (
	// DefaultSeenLimit is the size at which the signature set is compacted.
	DefaultSeenLimit = 500
	// DefaultSeenKeep is how many recent signatures survive compaction.
	DefaultSeenKeep = 300
)

// Signature identifies a gateway event across polls.
func Signature(e model.Event) string {
	return e.TS + "|" + string(e.Level) + "|" + e.Type + "|" + e.Msg
}

// Seen is a bounded set of event signatures. When it grows past limit it
// keeps the keep most recently inserted entries. Lookups do not refresh
// an entry's position.
type Seen struct {
	limit int
	keep  int
	order []string
	set   map[string]struct{}
}

// NewSeen creates a set; non-positive or inconsistent bounds use defaults.
func NewSeen(limit, keep int) *Seen {
	if limit <= 0 {
		limit = DefaultSeenLimit
	}
	if keep <= 0 || keep > limit {
		keep = DefaultSeenKeep
		if keep > limit {
			keep = limit
		}
	}
	return &Seen{limit: limit, keep: keep, set: make(map[string]struct{})}
}

// Has reports whether sig was recorded and not yet compacted away.
func (s *Seen) Has(sig string) bool {
	_, ok := s.set[sig]
	return ok
}

// Add records sig and returns false if it was already present.
func (s *Seen) Add(sig string) bool {
	if s.Has(sig) {
		return false
	}
	s.set[sig] = struct{}{}
	s.order = append(s.order, sig)
	if len(s.order) > s.limit {
		drop := s.order[:len(s.order)-s.keep]
		for _, d := range drop {
			delete(s.set, d)
		}
		s.order = append([]string(nil), s.order[len(s.order)-s.keep:]...)
	}
	return true
}

func (s *Seen) Len() int { return len(s.order) }

// Ingest appends every event whose signature has not been seen yet and
// returns how many were appended.
func Ingest(t *Timeline, seen *Seen, events []model.Event) int {
	n := 0
	for _, e := range events {
		if !seen.Add(Signature(e)) {
			continue
		}
		t.Push(e)
		n++
	}
	return n
}
