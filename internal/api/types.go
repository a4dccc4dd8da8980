package api

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"wgdash/internal/model"
)

// number accepts a JSON number, a numeric string, or null. Anything else
// decodes as invalid instead of failing the whole response.
type number struct {
	present bool
	null    bool
	valid   bool
	v       float64
}

func (n *number) UnmarshalJSON(b []byte) error {
	n.present = true
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		n.null = true
		return nil
	}
	s := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		s = strings.TrimSpace(s)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	n.v, n.valid = v, true
	return nil
}

// orNaN is the value, or NaN when missing or malformed.
func (n number) orNaN() float64 {
	if !n.valid {
		return math.NaN()
	}
	return n.v
}

// counter is a cumulative byte counter: missing or null counts as zero.
func (n number) counter() float64 {
	if !n.present || n.null {
		return 0
	}
	return n.orNaN()
}

func (n number) ptr() *float64 {
	if !n.valid {
		return nil
	}
	v := n.v
	return &v
}

// text accepts a JSON string or number.
type text string

func (t *text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = text(s)
		return nil
	}
	*t = text(b)
	return nil
}

type peerResponse struct {
	Key       text   `json:"key"`
	Endpoint  text   `json:"endpoint"`
	Handshake number `json:"handshake"`
	RX        number `json:"rx"`
	TX        number `json:"tx"`
}

// StatusResponse is the body of GET /api/status.
type StatusResponse struct {
	Interface text           `json:"interface"`
	Port      text           `json:"port"`
	PublicIP  text           `json:"public_ip"`
	Peers     []peerResponse `json:"peers"`
}

// Snapshot converts the wire form into a model snapshot.
func (r StatusResponse) Snapshot() *model.StatusSnapshot {
	s := &model.StatusSnapshot{
		Interface: string(r.Interface),
		Port:      string(r.Port),
		PublicIP:  string(r.PublicIP),
		Peers:     make([]model.PeerSnapshot, 0, len(r.Peers)),
	}
	for _, p := range r.Peers {
		s.Peers = append(s.Peers, model.PeerSnapshot{
			Key:       string(p.Key),
			Endpoint:  string(p.Endpoint),
			Handshake: p.Handshake.ptr(),
			RX:        p.RX.counter(),
			TX:        p.TX.counter(),
		})
	}
	return s
}

type hostResponse struct {
	CPUPercent  number `json:"cpu_percent"`
	Load1       number `json:"load1"`
	Load5       number `json:"load5"`
	Load15      number `json:"load15"`
	MemUsedMB   number `json:"mem_used_mb"`
	MemTotalMB  number `json:"mem_total_mb"`
	DiskUsedGB  number `json:"disk_used_gb"`
	DiskTotalGB number `json:"disk_total_gb"`
}

type daemonResponse struct {
	Status       text   `json:"status"`
	Health       text   `json:"health"`
	RestartCount number `json:"restart_count"`
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Host   hostResponse   `json:"host"`
	Daemon daemonResponse `json:"wg_easy"`
}

// Health converts the wire form into the model.
func (r HealthResponse) Health() model.Health {
	h := model.Health{
		Host: model.HostHealth{
			CPUPercent:  r.Host.CPUPercent.orNaN(),
			Load1:       r.Host.Load1.orNaN(),
			Load5:       r.Host.Load5.orNaN(),
			Load15:      r.Host.Load15.orNaN(),
			MemUsedMB:   r.Host.MemUsedMB.orNaN(),
			MemTotalMB:  r.Host.MemTotalMB.orNaN(),
			DiskUsedGB:  r.Host.DiskUsedGB.orNaN(),
			DiskTotalGB: r.Host.DiskTotalGB.orNaN(),
		},
		Daemon: model.DaemonHealth{
			Status: string(r.Daemon.Status),
			Health: string(r.Daemon.Health),
		},
	}
	if r.Daemon.RestartCount.valid {
		n := int64(r.Daemon.RestartCount.v)
		h.Daemon.RestartCount = &n
	}
	return h
}

type eventResponse struct {
	TS    text `json:"ts"`
	Level text `json:"level"`
	Type  text `json:"type"`
	Msg   text `json:"msg"`
}

func (e eventResponse) event() model.Event {
	return model.Event{
		TS:    string(e.TS),
		Level: model.Level(e.Level),
		Type:  string(e.Type),
		Msg:   string(e.Msg),
	}
}
