package render

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"

	"wgdash/internal/dashboard"
	"wgdash/internal/format"
	"wgdash/internal/peer"
)

var stateMarks = map[peer.State]string{
	peer.Up:       "●",
	peer.Degraded: "◐",
	peer.Down:     "○",
}

// Frame renders a view as plain text, top to bottom: header, alerts,
// traffic, peers, health, timeline and logs.
func Frame(v dashboard.View, logLines int) string {
	var b strings.Builder

	conn := string(v.Connection)
	if conn == "" {
		conn = format.Sentinel
	}
	fmt.Fprintf(&b, "%s  port %s  public %s  [%s]\n", v.Interface, v.Port, v.PublicIP, conn)
	fmt.Fprintf(&b, "alerts: %s\n", strings.Join(v.Alerts, "; "))
	fmt.Fprintf(&b, "rx %s  tx %s  ↓ %s  ↑ %s\n", v.TotalRX, v.TotalTX, v.DownRate, v.UpRate)
	if line := Glyphs(v.History); line != "" {
		fmt.Fprintf(&b, "%s  avg %s  p95 %s\n", line, format.Rate(v.Summary.AvgBps), format.Rate(v.Summary.P95Bps))
	}

	b.WriteString("\n")
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\tPEER\tENDPOINT\tHANDSHAKE\tRATE\tRX\tTX")
	for _, p := range v.Peers {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			stateMarks[p.State], p.ShortKey, p.Endpoint, p.Handshake, p.Rate, p.RX, p.TX)
	}
	_ = tw.Flush()

	if h := v.Health; h != nil {
		b.WriteString("\n")
		fmt.Fprintf(&b, "cpu %s  load %s  ram %s  disk %s\n", h.CPU, h.Load, h.RAM, h.Disk)
		fmt.Fprintf(&b, "daemon %s/%s [%s]  restarts %s\n", h.Status, h.Health, h.Level, h.Restarts)
	}

	if len(v.Timeline) > 0 {
		b.WriteString("\ntimeline:\n")
		for i := len(v.Timeline) - 1; i >= 0 && i >= len(v.Timeline)-10; i-- {
			e := v.Timeline[i]
			fmt.Fprintf(&b, "  %s %-5s %s %s\n", e.TS, e.Level, e.Type, e.Msg)
		}
	}

	if logs := tail(v.Logs, logLines); logs != "" {
		b.WriteString("\nlogs:\n")
		b.WriteString(logs)
		b.WriteString("\n")
	}
	return b.String()
}

func tail(text string, n int) string {
	text = strings.TrimRight(text, "\n")
	if text == "" || n <= 0 {
		return ""
	}
	lines := strings.Split(text, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}

// Terminal redraws a frame on every view.
type Terminal struct {
	mu       sync.Mutex
	out      io.Writer
	clear    bool
	logLines int
}

// NewTerminal writes frames to out. With clear set, the screen is cleared
// before each frame.
func NewTerminal(out io.Writer, clear bool, logLines int) *Terminal {
	return &Terminal{out: out, clear: clear, logLines: logLines}
}

// Render writes one frame.
func (t *Terminal) Render(v dashboard.View) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.clear {
		_, _ = io.WriteString(t.out, "\033[H\033[2J")
	}
	_, _ = io.WriteString(t.out, Frame(v, t.logLines))
}
