package timeline

import (
	"fmt"
	"time"

	"wgdash/internal/format"
	"wgdash/internal/model"
	"wgdash/internal/peer"
)

// EventTypePeer is the type of every locally derived transition event.
const EventTypePeer = "peer"

const noEndpoint = "no-endpoint"

type tracked struct {
	state    peer.State
	endpoint string
	missing  int
}

// Tracker remembers the last classified state and endpoint of every peer
// and turns changes between observations into timeline events.
type Tracker struct {
	// staleAfter drops a peer not seen for this many consecutive
	// observations. Zero keeps peers forever.
	staleAfter int
	peers      map[string]*tracked
}

// NewTracker creates a tracker. staleAfter <= 0 disables pruning.
func NewTracker(staleAfter int) *Tracker {
	if staleAfter < 0 {
		staleAfter = 0
	}
	return &Tracker{staleAfter: staleAfter, peers: make(map[string]*tracked)}
}

// Observe classifies every peer in s and returns the transitions since the
// previous observation. A peer's first observation yields no event.
func (t *Tracker) Observe(s *model.StatusSnapshot, now time.Time) []model.Event {
	if s == nil {
		return nil
	}
	ts := now.UTC().Format(time.RFC3339)
	present := make(map[string]bool, len(s.Peers))
	var out []model.Event

	for _, p := range s.Peers {
		present[p.Key] = true
		st := peer.Classify(p.Handshake)
		prev, ok := t.peers[p.Key]
		if !ok {
			t.peers[p.Key] = &tracked{state: st, endpoint: p.Endpoint}
			continue
		}
		key := format.ShortKey(p.Key, 10)

		if prev.state == peer.Down && st != peer.Down {
			ep := p.Endpoint
			if ep == "" {
				ep = noEndpoint
			}
			out = append(out, model.Event{TS: ts, Level: model.LevelInfo, Type: EventTypePeer,
				Msg: fmt.Sprintf("CONNECTED %s (%s)", key, ep)})
		}
		if prev.state != peer.Down && st == peer.Down {
			out = append(out, model.Event{TS: ts, Level: model.LevelWarn, Type: EventTypePeer,
				Msg: "DISCONNECTED " + key})
		}
		if prev.endpoint != "" && p.Endpoint != "" && prev.endpoint != p.Endpoint {
			out = append(out, model.Event{TS: ts, Level: model.LevelInfo, Type: EventTypePeer,
				Msg: fmt.Sprintf("ENDPOINT CHANGED %s %s → %s", key, prev.endpoint, p.Endpoint)})
		}

		prev.state = st
		prev.endpoint = p.Endpoint
		prev.missing = 0
	}

	for key, tr := range t.peers {
		if present[key] {
			continue
		}
		tr.missing++
		if t.staleAfter > 0 && tr.missing >= t.staleAfter {
			delete(t.peers, key)
		}
	}
	return out
}

// State returns the last recorded state of a peer.
func (t *Tracker) State(key string) (peer.State, bool) {
	tr, ok := t.peers[key]
	if !ok {
		return "", false
	}
	return tr.state, true
}

func (t *Tracker) Len() int { return len(t.peers) }
