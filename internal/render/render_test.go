package render

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"wgdash/internal/dashboard"
	"wgdash/internal/health"
	"wgdash/internal/model"
	"wgdash/internal/peer"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestLayout_Empty(t *testing.T) {
	t.Parallel()

	s := Layout(nil, 60, 120, 36)
	if len(s.Points) != 0 {
		t.Fatalf("points=%v", s.Points)
	}
	want := []float64{6, 12, 18, 24, 30}
	if len(s.Gridlines) != 5 {
		t.Fatalf("gridlines=%v", s.Gridlines)
	}
	for i, y := range want {
		if !near(s.Gridlines[i], y) {
			t.Fatalf("gridlines=%v", s.Gridlines)
		}
	}
	if strings.Contains(s.SVG(), "polyline") {
		t.Fatalf("empty spark drew a polyline")
	}
}

func TestLayout_Coordinates(t *testing.T) {
	t.Parallel()

	// max=10, min=0, range=10.
	s := Layout([]float64{0, 5, 10}, 3, 102, 52)
	want := []Point{{1, 51}, {51, 26}, {101, 1}}
	for i, p := range want {
		if !near(s.Points[i].X, p.X) || !near(s.Points[i].Y, p.Y) {
			t.Fatalf("point %d=%+v want %+v", i, s.Points[i], p)
		}
	}
}

func TestLayout_FlatSmallValuesUseUnitRange(t *testing.T) {
	t.Parallel()

	// All zero: max=1, min=0, so points sit on the bottom edge.
	s := Layout([]float64{0, 0}, 60, 100, 40)
	for _, p := range s.Points {
		if !near(p.Y, 39) {
			t.Fatalf("y=%v", p.Y)
		}
	}
	if !near(s.Points[1].X, 1.0/59*98+1) {
		t.Fatalf("x=%v", s.Points[1].X)
	}
}

func TestSVG(t *testing.T) {
	t.Parallel()

	svg := Layout([]float64{0, 10}, 2, 12, 12).SVG()
	if !strings.HasPrefix(svg, "<svg") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatalf("svg=%q", svg)
	}
	if strings.Count(svg, "<line ") != 5 {
		t.Fatalf("gridlines in %q", svg)
	}
	if !strings.Contains(svg, `points="1,11 11,1"`) {
		t.Fatalf("polyline in %q", svg)
	}
}

func TestGlyphs(t *testing.T) {
	t.Parallel()

	if got := Glyphs(nil); got != "" {
		t.Fatalf("got=%q", got)
	}
	if got := Glyphs([]float64{0, 7, 14}); got != "▁▅█" {
		t.Fatalf("got=%q", got)
	}
}

func TestFrame(t *testing.T) {
	t.Parallel()

	v := dashboard.View{
		Interface: "wg0", Port: "51820", PublicIP: "203.0.113.1",
		Connection: peer.Connected, Alerts: []string{peer.NoAlerts},
		TotalRX: "1.0 KB", TotalTX: "2.0 KB", DownRate: "1.00 Kbps", UpRate: "-",
		Peers: []dashboard.PeerRow{{
			ShortKey: "ABCDEFGHIJKLMNOP…", State: peer.Up, Endpoint: "1.2.3.4:5",
			Handshake: "5s", Rate: "-", RX: "1.0 KB", TX: "2.0 KB",
		}},
		Health:   &health.Card{CPU: "1.0%", Level: health.OK},
		Timeline: []model.Event{{TS: "t", Level: model.LevelWarn, Type: "peer", Msg: "DISCONNECTED x"}},
		Logs:     "a\nb\nc\n",
		History:  []float64{1, 2},
	}
	var buf bytes.Buffer
	NewTerminal(&buf, false, 2).Render(v)
	out := buf.String()

	for _, want := range []string{"wg0", "[Connected]", "No alerts", "● ", "ABCDEFGHIJKLMNOP…", "DISCONNECTED x", "cpu 1.0%", "logs:\nb\nc\n"} {
		if !strings.Contains(out, want) {
			t.Fatalf("frame missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\033[2J") {
		t.Fatalf("unexpected clear sequence")
	}
}
