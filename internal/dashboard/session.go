// Package dashboard reconciles gateway telemetry into a display view.
//
// A Session owns every piece of mutable state: the previous snapshot used
// for rate derivation, the rolling history, the event timeline and the last
// fetched status, logs and health. Poll loops feed it through Ingest*
// methods and renderers read deep copies through View.
package dashboard

import (
	"sync"
	"time"

	"wgdash/internal/metrics"
	"wgdash/internal/model"
	"wgdash/internal/timeline"
)

// Options sizes the session's bounded buffers.
type Options struct {
	HistoryCapacity  int
	TimelineCapacity int
	// StaleAfterPolls forgets a peer's tracked state after it is missing from
	// this many status polls. Zero keeps it forever.
	StaleAfterPolls int
	// PublicIP is shown when the gateway reports none.
	PublicIP string
}

// Session is safe for concurrent use.
type Session struct {
	mu sync.Mutex

	prev   *model.StatusSnapshot
	prevAt time.Time

	traffic  *metrics.Traffic
	timeline *timeline.Timeline
	seen     *timeline.Seen
	tracker  *timeline.Tracker

	status    *model.StatusSnapshot
	rates     metrics.RateSample
	logs      string
	health    *model.Health
	err       error
	publicIP  string
	updatedAt time.Time
}

// NewSession creates an empty session.
func NewSession(opts Options) *Session {
	return &Session{
		traffic:  metrics.NewTraffic(opts.HistoryCapacity),
		timeline: timeline.New(opts.TimelineCapacity),
		seen:     timeline.NewSeen(timeline.DefaultSeenLimit, timeline.DefaultSeenKeep),
		tracker:  timeline.NewTracker(opts.StaleAfterPolls),
		rates:    metrics.Undefined(),
		publicIP: opts.PublicIP,
	}
}

// IngestStatus derives rates for s against the committed previous snapshot
// and records them into the history. startedAt is when the iteration that
// fetched s began; elapsed time is measured between iteration starts.
func (s *Session) IngestStatus(st *model.StatusSnapshot, startedAt time.Time) metrics.RateSample {
	s.mu.Lock()
	defer s.mu.Unlock()

	rates := metrics.Undefined()
	if s.prev != nil {
		elapsed := startedAt.Sub(s.prevAt).Seconds()
		rates = metrics.ComputeRates(st, s.prev, elapsed)
	}
	s.traffic.Record(rates)
	s.status = st
	s.rates = rates
	s.updatedAt = startedAt
	return rates
}

// IngestPeerTransitions appends connect, disconnect and endpoint-change
// events for st and returns them.
func (s *Session) IngestPeerTransitions(st *model.StatusSnapshot, at time.Time) []model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := s.tracker.Observe(st, at)
	for _, e := range events {
		s.timeline.Push(e)
	}
	return events
}

// IngestEvents appends gateway events not seen before and returns how
// many were added.
func (s *Session) IngestEvents(events []model.Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return timeline.Ingest(s.timeline, s.seen, events)
}

// IngestLogs replaces the log text.
func (s *Session) IngestLogs(text string) {
	s.mu.Lock()
	s.logs = text
	s.mu.Unlock()
}

// IngestHealth replaces the health reading.
func (s *Session) IngestHealth(h model.Health) {
	s.mu.Lock()
	s.health = &h
	s.mu.Unlock()
}

// Commit makes st the previous snapshot for the next rate derivation and
// clears the last error. Concurrent iterations commit in completion
// order; the last one wins.
func (s *Session) Commit(st *model.StatusSnapshot, startedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prev = st
	s.prevAt = startedAt
	s.err = nil
}

// Fail records an iteration error. The previous snapshot is kept.
func (s *Session) Fail(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// ClearTimeline empties the timeline. Gateway events already ingested are
// still remembered and will not reappear.
func (s *Session) ClearTimeline() {
	s.mu.Lock()
	s.timeline.Clear()
	s.mu.Unlock()
}

// SetPublicIP sets the address shown when the gateway reports none.
func (s *Session) SetPublicIP(ip string) {
	s.mu.Lock()
	s.publicIP = ip
	s.mu.Unlock()
}

// Previous returns the committed snapshot and its iteration start time.
func (s *Session) Previous() (*model.StatusSnapshot, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prev, s.prevAt
}

// TimelineLen returns the number of timeline entries.
func (s *Session) TimelineLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timeline.Len()
}

// Filters narrow the log text and timeline of a view.
type Filters struct {
	Logs   string
	Events string
}

// View returns a deep copy of the current state with filters applied.
func (s *Session) View(f Filters) View {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := snapshotState{
		status:    cloneStatus(s.status),
		rates:     cloneRates(s.rates),
		logs:      timeline.FilterLines(s.logs, f.Logs),
		events:    timeline.Filter(s.timeline.Events(), f.Events),
		down:      s.traffic.Down.Values(),
		up:        s.traffic.Up.Values(),
		merged:    s.traffic.Merged(),
		capacity:  s.traffic.Down.Cap(),
		publicIP:  s.publicIP,
		updatedAt: s.updatedAt,
		err:       s.err,
	}
	if s.health != nil {
		h := *s.health
		if h.Daemon.RestartCount != nil {
			n := *h.Daemon.RestartCount
			h.Daemon.RestartCount = &n
		}
		st.health = &h
	}
	return buildView(st)
}

func cloneStatus(s *model.StatusSnapshot) *model.StatusSnapshot {
	if s == nil {
		return nil
	}
	out := *s
	out.Peers = make([]model.PeerSnapshot, len(s.Peers))
	for i, p := range s.Peers {
		if p.Handshake != nil {
			h := *p.Handshake
			p.Handshake = &h
		}
		out.Peers[i] = p
	}
	return &out
}

func cloneRates(r metrics.RateSample) metrics.RateSample {
	out := r
	out.PerPeer = make(map[string]metrics.PeerRate, len(r.PerPeer))
	for k, v := range r.PerPeer {
		out.PerPeer[k] = v
	}
	return out
}
