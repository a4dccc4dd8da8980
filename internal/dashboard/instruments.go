package dashboard

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"wgdash/internal/metrics"
	"wgdash/internal/model"
	"wgdash/internal/peer"
)

// Loop names used as metric labels and log fields.
const (
	LoopStatus = "status"
	LoopHealth = "health"
	LoopEvents = "events"
)

// Instruments are the dashboard's own Prometheus metrics.
type Instruments struct {
	polls          *prometheus.CounterVec
	rate           *prometheus.GaugeVec
	peers          *prometheus.GaugeVec
	timelineEvents prometheus.Gauge
	eventsIngested prometheus.Counter
}

// NewInstruments registers the metrics on reg.
func NewInstruments(reg prometheus.Registerer) *Instruments {
	f := promauto.With(reg)
	return &Instruments{
		polls: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wgdash_polls_total",
				Help: "Poll iterations by loop and result",
			},
			[]string{"loop", "result"},
		),
		rate: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "wgdash_rate_bytes_per_second",
				Help: "Last derived aggregate throughput",
			},
			[]string{"direction"},
		),
		peers: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "wgdash_peers",
				Help: "Peers by connectivity state",
			},
			[]string{"state"},
		),
		timelineEvents: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "wgdash_timeline_events",
				Help: "Entries currently held in the timeline",
			},
		),
		eventsIngested: f.NewCounter(
			prometheus.CounterOpts{
				Name: "wgdash_events_ingested_total",
				Help: "Gateway events appended to the timeline",
			},
		),
	}
}

func (i *Instruments) poll(loop string, err error) {
	if i == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	i.polls.WithLabelValues(loop, result).Inc()
}

func (i *Instruments) observeStatus(s *model.StatusSnapshot, r metrics.RateSample) {
	if i == nil || s == nil {
		return
	}
	counts := map[peer.State]int{peer.Up: 0, peer.Degraded: 0, peer.Down: 0}
	for _, p := range s.Peers {
		counts[peer.Classify(p.Handshake)]++
	}
	for st, n := range counts {
		i.peers.WithLabelValues(string(st)).Set(float64(n))
	}
	if r.Defined {
		i.rate.WithLabelValues("down").Set(r.DownBps)
		i.rate.WithLabelValues("up").Set(r.UpBps)
	}
}

func (i *Instruments) observeTimeline(n int, ingested int) {
	if i == nil {
		return
	}
	i.timelineEvents.Set(float64(n))
	if ingested > 0 {
		i.eventsIngested.Add(float64(ingested))
	}
}
