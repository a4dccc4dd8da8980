package metrics

import (
	"math"
	"testing"

	"wgdash/internal/model"
)

func snap(peers ...model.PeerSnapshot) *model.StatusSnapshot {
	return &model.StatusSnapshot{Interface: "wg0", Peers: peers}
}

func TestComputeRates_Aggregate(t *testing.T) {
	t.Parallel()

	prev := snap(model.PeerSnapshot{Key: "a", RX: 1000, TX: 500})
	curr := snap(model.PeerSnapshot{Key: "a", RX: 2000, TX: 1500})

	r := ComputeRates(curr, prev, 5)
	if !r.Defined {
		t.Fatalf("expected defined rates")
	}
	if r.DownBps != 200 || r.UpBps != 200 {
		t.Fatalf("down/up=%v/%v", r.DownBps, r.UpBps)
	}
	if got := r.PerPeer["a"]; got.DownBps != 200 || got.UpBps != 200 {
		t.Fatalf("per_peer=%+v", got)
	}
}

func TestComputeRates_Undefined(t *testing.T) {
	t.Parallel()

	curr := snap(model.PeerSnapshot{Key: "a", RX: 10})
	for _, c := range []struct {
		prev    *model.StatusSnapshot
		elapsed float64
	}{
		{nil, 2},
		{curr, 0},
		{curr, -1},
		{curr, math.NaN()},
	} {
		r := ComputeRates(curr, c.prev, c.elapsed)
		if r.Defined {
			t.Fatalf("expected undefined for elapsed=%v prev=%v", c.elapsed, c.prev != nil)
		}
		if r.PerPeer == nil || len(r.PerPeer) != 0 {
			t.Fatalf("per_peer=%v", r.PerPeer)
		}
	}
}

func TestComputeRates_NewPeerSkippedAndResetNegative(t *testing.T) {
	t.Parallel()

	prev := snap(model.PeerSnapshot{Key: "a", RX: 5000, TX: 100})
	curr := snap(
		model.PeerSnapshot{Key: "a", RX: 1000, TX: 300},
		model.PeerSnapshot{Key: "b", RX: 700, TX: 700},
	)

	r := ComputeRates(curr, prev, 2)
	if _, ok := r.PerPeer["b"]; ok {
		t.Fatalf("new peer must not get a rate")
	}
	if got := r.PerPeer["a"].DownBps; got != -2000 {
		t.Fatalf("reset down=%v", got)
	}
	// Aggregate includes the new peer's counters.
	if r.DownBps != (1700-5000)/2.0 {
		t.Fatalf("aggregate down=%v", r.DownBps)
	}
}

func TestHistoryBuffer_CapacityFIFO(t *testing.T) {
	t.Parallel()

	h := NewHistoryBuffer(60)
	for i := 0; i < 1000; i++ {
		h.Push(float64(i))
		if h.Len() > 60 {
			t.Fatalf("len=%d after %d pushes", h.Len(), i+1)
		}
	}
	vals := h.Values()
	if len(vals) != 60 {
		t.Fatalf("len=%d", len(vals))
	}
	if vals[0] != 940 || vals[59] != 999 {
		t.Fatalf("first/last=%v/%v", vals[0], vals[59])
	}
}

func TestTraffic_RecordFloorsAndSkipsUndefined(t *testing.T) {
	t.Parallel()

	tr := NewTraffic(0)
	if tr.Down.Cap() != DefaultHistoryCapacity {
		t.Fatalf("cap=%d", tr.Down.Cap())
	}
	if tr.Record(Undefined()) {
		t.Fatalf("undefined sample recorded")
	}
	tr.Record(RateSample{Defined: true, DownBps: -50, UpBps: math.NaN()})
	tr.Record(RateSample{Defined: true, DownBps: 10, UpBps: 4})

	if got := tr.Down.Values(); got[0] != 0 || got[1] != 10 {
		t.Fatalf("down=%v", got)
	}
	if got := tr.Merged(); len(got) != 2 || got[0] != 0 || got[1] != 14 {
		t.Fatalf("merged=%v", got)
	}
}
