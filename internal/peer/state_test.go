package peer

import (
	"math"
	"testing"

	"wgdash/internal/model"
)

func age(v float64) *float64 { return &v }

func TestClassify_Boundaries(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   *float64
		want State
	}{
		{nil, Down},
		{age(math.NaN()), Down},
		{age(math.Inf(1)), Down},
		{age(0), Up},
		{age(30), Up},
		{age(30.5), Degraded},
		{age(31), Degraded},
		{age(120), Degraded},
		{age(121), Down},
	}
	for _, c := range cases {
		if got := Classify(c.in); got != c.want {
			var v any = "nil"
			if c.in != nil {
				v = *c.in
			}
			t.Fatalf("Classify(%v)=%s want %s", v, got, c.want)
		}
	}
}

func TestOverall(t *testing.T) {
	t.Parallel()

	if got := Overall(nil); got != Disconnected {
		t.Fatalf("empty=%s", got)
	}
	peers := []model.PeerSnapshot{{Key: "a", Handshake: age(5)}, {Key: "b"}}
	if got := Overall(peers); got != Connected {
		t.Fatalf("got=%s", got)
	}
	peers = append(peers, model.PeerSnapshot{Key: "c", Handshake: age(60)})
	if got := Overall(peers); got != Degradation {
		t.Fatalf("got=%s", got)
	}
	if Degradation.Class() != "deg" || APIError.Class() != "down" {
		t.Fatalf("unexpected classes")
	}
}

func TestAlerts(t *testing.T) {
	t.Parallel()

	peers := []model.PeerSnapshot{
		{Key: "AAAAAAAAAAAAAAAA", Endpoint: "1.2.3.4:51820", Handshake: age(3)},
		{Key: "BBBBBBBBBBBBBBBB"},
	}
	got := Alerts(peers)
	if len(got) != 2 {
		t.Fatalf("alerts=%v", got)
	}
	if got[0] != "Peer offline (BBBBBBBBBB…)" || got[1] != "No endpoint (BBBBBBBBBB…)" {
		t.Fatalf("alerts=%v", got)
	}
}
