package peer

import (
	"math"

	"wgdash/internal/format"
	"wgdash/internal/model"
)

// State is the connectivity class of a peer derived from its handshake age.
type State string

const (
	Up       State = "up"
	Degraded State = "deg"
	Down     State = "down"
)

const (
	// UpMaxAge is the largest handshake age (seconds) still considered up.
	UpMaxAge = 30
	// DegradedMaxAge is the largest handshake age considered degraded.
	DegradedMaxAge = 120
)

// Classify maps a last-handshake age to a State. Unknown ages are down.
func Classify(age *float64) State {
	if age == nil {
		return Down
	}
	s := *age
	if math.IsNaN(s) || math.IsInf(s, 0) {
		return Down
	}
	if s <= UpMaxAge {
		return Up
	}
	if s <= DegradedMaxAge {
		return Degraded
	}
	return Down
}

// Connection is the header badge for the whole interface.
type Connection string

const (
	Connected    Connection = "Connected"
	Degradation  Connection = "Degraded"
	Disconnected Connection = "Down"
	APIError     Connection = "API Error"
)

// Class returns the CSS-ish class used by renderers for a badge.
func (c Connection) Class() string {
	switch c {
	case Connected:
		return string(Up)
	case Degradation:
		return string(Degraded)
	}
	return string(Down)
}

// Overall summarizes all peers: any live peer makes the interface
// connected, degraded if one of them is degraded.
func Overall(peers []model.PeerSnapshot) Connection {
	anyUp, anyDeg := false, false
	for _, p := range peers {
		st := Classify(p.Handshake)
		if st != Down {
			anyUp = true
		}
		if st == Degraded {
			anyDeg = true
		}
	}
	switch {
	case anyUp && anyDeg:
		return Degradation
	case anyUp:
		return Connected
	}
	return Disconnected
}

// NoAlerts is shown in the alert strip when nothing is wrong.
const NoAlerts = "No alerts"

// Alerts lists offline peers and peers without an endpoint.
func Alerts(peers []model.PeerSnapshot) []string {
	var out []string
	for _, p := range peers {
		if Classify(p.Handshake) == Down {
			out = append(out, "Peer offline ("+format.ShortKey(p.Key, 10)+")")
		}
		if p.Endpoint == "" {
			out = append(out, "No endpoint ("+format.ShortKey(p.Key, 10)+")")
		}
	}
	return out
}
