package dashboard

import (
	"time"

	"wgdash/internal/format"
	"wgdash/internal/health"
	"wgdash/internal/metrics"
	"wgdash/internal/model"
	"wgdash/internal/peer"
)

// View is an immutable, render-ready copy of the session.
type View struct {
	Interface       string          `json:"interface"`
	Port            string          `json:"port"`
	PublicIP        string          `json:"public_ip"`
	Connection      peer.Connection `json:"connection"`
	ConnectionClass string          `json:"connection_class"`
	Alerts          []string        `json:"alerts"`

	TotalRX  string `json:"total_rx"`
	TotalTX  string `json:"total_tx"`
	DownRate string `json:"down_rate"`
	UpRate   string `json:"up_rate"`

	Peers    []PeerRow     `json:"peers"`
	Logs     string        `json:"logs"`
	Health   *health.Card  `json:"health,omitempty"`
	Timeline []model.Event `json:"timeline"`

	Down            []float64       `json:"history_down"`
	Up              []float64       `json:"history_up"`
	History         []float64       `json:"history"`
	HistoryCapacity int             `json:"history_capacity"`
	Summary         metrics.Summary `json:"summary"`

	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PeerRow is one line of the peer table.
type PeerRow struct {
	Key       string     `json:"key"`
	ShortKey  string     `json:"short_key"`
	State     peer.State `json:"state"`
	Endpoint  string     `json:"endpoint"`
	Handshake string     `json:"handshake"`
	Rate      string     `json:"rate"`
	RX        string     `json:"rx"`
	TX        string     `json:"tx"`
}

const noEndpoint = "no-endpoint"

type snapshotState struct {
	status    *model.StatusSnapshot
	rates     metrics.RateSample
	logs      string
	events    []model.Event
	health    *model.Health
	down      []float64
	up        []float64
	merged    []float64
	capacity  int
	publicIP  string
	updatedAt time.Time
	err       error
}

func buildView(st snapshotState) View {
	v := View{
		Interface:       format.Sentinel,
		Port:            format.Sentinel,
		PublicIP:        format.Sentinel,
		TotalRX:         format.Sentinel,
		TotalTX:         format.Sentinel,
		DownRate:        format.Sentinel,
		UpRate:          format.Sentinel,
		Peers:           []PeerRow{},
		Logs:            st.logs,
		Timeline:        st.events,
		Down:            st.down,
		Up:              st.up,
		History:         st.merged,
		HistoryCapacity: st.capacity,
		Summary:         metrics.Summarize(st.merged),
		UpdatedAt:       st.updatedAt,
	}

	if st.status != nil {
		s := st.status
		v.Interface = orSentinel(s.Interface)
		v.Port = orSentinel(s.Port)
		switch {
		case s.PublicIP != "":
			v.PublicIP = s.PublicIP
		case st.publicIP != "":
			v.PublicIP = st.publicIP
		}
		rx, tx := metrics.Totals(s)
		v.TotalRX = format.Bytes(rx)
		v.TotalTX = format.Bytes(tx)
		v.Connection = peer.Overall(s.Peers)
		v.Alerts = peer.Alerts(s.Peers)
		for _, p := range s.Peers {
			v.Peers = append(v.Peers, peerRow(p, st.rates))
		}
	}
	if st.rates.Defined {
		v.DownRate = format.Rate(st.rates.DownBps)
		v.UpRate = format.Rate(st.rates.UpBps)
	}

	if st.err != nil {
		v.Connection = peer.APIError
		v.Error = st.err.Error()
		v.Alerts = []string{v.Error}
	}
	if len(v.Alerts) == 0 {
		v.Alerts = []string{peer.NoAlerts}
	}
	if v.Connection != "" {
		v.ConnectionClass = v.Connection.Class()
	}

	if st.health != nil {
		c := health.NewCard(*st.health)
		v.Health = &c
	}
	return v
}

func peerRow(p model.PeerSnapshot, rates metrics.RateSample) PeerRow {
	row := PeerRow{
		Key:       p.Key,
		ShortKey:  format.ShortKey(p.Key, 16),
		State:     peer.Classify(p.Handshake),
		Endpoint:  p.Endpoint,
		Handshake: format.Ago(format.Opt(p.Handshake)),
		Rate:      format.Sentinel,
		RX:        format.Bytes(p.RX),
		TX:        format.Bytes(p.TX),
	}
	if row.Endpoint == "" {
		row.Endpoint = noEndpoint
	}
	if r, ok := rates.PerPeer[p.Key]; ok {
		row.Rate = "↓ " + format.Rate(r.DownBps) + " / ↑ " + format.Rate(r.UpBps)
	}
	return row
}

func orSentinel(s string) string {
	if s == "" {
		return format.Sentinel
	}
	return s
}
