package metrics

import (
	"math"

	"wgdash/internal/model"
)

// PeerRate is the throughput of one peer over a poll interval.
type PeerRate struct {
	DownBps float64 `json:"down_bps"`
	UpBps   float64 `json:"up_bps"`
}

// RateSample is the throughput derived from two consecutive snapshots.
// When Defined is false the aggregate rates are unknown, not zero.
type RateSample struct {
	Defined bool
	DownBps float64
	UpBps   float64
	PerPeer map[string]PeerRate
}

// Undefined returns a sample with no rates.
func Undefined() RateSample {
	return RateSample{PerPeer: map[string]PeerRate{}}
}

// Totals sums cumulative counters across all peers.
func Totals(s *model.StatusSnapshot) (rx, tx float64) {
	if s == nil {
		return 0, 0
	}
	for _, p := range s.Peers {
		rx += p.RX
		tx += p.TX
	}
	return rx, tx
}

// ComputeRates diffs curr against prev over elapsedSec seconds.
// Results are not clamped: a counter reset yields a negative rate.
func ComputeRates(curr, prev *model.StatusSnapshot, elapsedSec float64) RateSample {
	if curr == nil || prev == nil || !(elapsedSec > 0) || math.IsInf(elapsedSec, 0) {
		return Undefined()
	}

	currRX, currTX := Totals(curr)
	prevRX, prevTX := Totals(prev)

	out := RateSample{
		Defined: true,
		DownBps: (currRX - prevRX) / elapsedSec,
		UpBps:   (currTX - prevTX) / elapsedSec,
		PerPeer: make(map[string]PeerRate, len(curr.Peers)),
	}

	prevByKey := make(map[string]model.PeerSnapshot, len(prev.Peers))
	for _, p := range prev.Peers {
		prevByKey[p.Key] = p
	}
	for _, p := range curr.Peers {
		pp, ok := prevByKey[p.Key]
		if !ok {
			continue
		}
		out.PerPeer[p.Key] = PeerRate{
			DownBps: (p.RX - pp.RX) / elapsedSec,
			UpBps:   (p.TX - pp.TX) / elapsedSec,
		}
	}
	return out
}
