package api

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_StatusErrorText(t *testing.T) {
	t.Parallel()

	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("busy"))
	}))
	defer s.Close()

	c := NewClient(s.URL, 0)
	_, err := c.Status(context.Background())
	if err == nil {
		t.Fatalf("expected error")
	}
	if got := err.Error(); got != "status 503" {
		t.Fatalf("err=%q", got)
	}
	var se *StatusError
	if !errors.As(err, &se) || se.Code != 503 {
		t.Fatalf("err=%#v", err)
	}

	if _, err := c.Logs(context.Background(), 0); err == nil || err.Error() != "logs 503" {
		t.Fatalf("logs err=%v", err)
	}
}

func TestClient_StatusDecodesLoosely(t *testing.T) {
	t.Parallel()

	var gotHeaders http.Header
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/status" {
			http.NotFound(w, r)
			return
		}
		gotHeaders = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"interface":"wg0","port":51820,"public_ip":"",
			"peers":[
				{"key":"k1","endpoint":"1.2.3.4:5","handshake":12,"rx":"2048","tx":10},
				{"key":"k2","handshake":null,"rx":"oops"},
				{"key":"k3","rx":null,"tx":null}
			]}`))
	}))
	defer s.Close()

	c := NewClient(s.URL+"/", 0)
	if c.BaseURL() != s.URL {
		t.Fatalf("base=%q", c.BaseURL())
	}
	snap, err := c.Status(context.Background())
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if gotHeaders.Get("Cache-Control") != "no-cache, no-store" || gotHeaders.Get("Pragma") != "no-cache" {
		t.Fatalf("headers=%v", gotHeaders)
	}
	if snap.Interface != "wg0" || snap.Port != "51820" || len(snap.Peers) != 3 {
		t.Fatalf("snap=%+v", snap)
	}
	p1 := snap.Peers[0]
	if p1.Handshake == nil || *p1.Handshake != 12 || p1.RX != 2048 || p1.TX != 10 {
		t.Fatalf("p1=%+v", p1)
	}
	p2 := snap.Peers[1]
	if p2.Handshake != nil || p2.Endpoint != "" || !math.IsNaN(p2.RX) || p2.TX != 0 {
		t.Fatalf("p2=%+v", p2)
	}
	if p3 := snap.Peers[2]; p3.RX != 0 || p3.TX != 0 {
		t.Fatalf("p3=%+v", p3)
	}
}

func TestClient_LogsHealthEvents(t *testing.T) {
	t.Parallel()

	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/logs":
			if r.URL.Query().Get("tail") != "150" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			_, _ = w.Write([]byte("line1\nline2"))
		case "/api/health":
			_, _ = w.Write([]byte(`{"host":{"cpu_percent":0,"load1":0.1,"mem_used_mb":100,"mem_total_mb":200},
				"wg_easy":{"status":"running","health":"healthy","restart_count":2}}`))
		case "/api/events":
			if r.URL.Query().Get("window") != "300" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			_, _ = w.Write([]byte(`[{"ts":"2024-01-01T00:00:00Z","level":"warn","type":"wg-easy","msg":"restarted"}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer s.Close()

	c := NewClient(s.URL, 0)
	ctx := context.Background()

	logs, err := c.Logs(ctx, 0)
	if err != nil || logs != "line1\nline2" {
		t.Fatalf("logs=%q err=%v", logs, err)
	}

	h, err := c.Health(ctx)
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	if h.Host.CPUPercent != 0 || h.Host.MemTotalMB != 200 || !math.IsNaN(h.Host.DiskTotalGB) {
		t.Fatalf("host=%+v", h.Host)
	}
	if h.Daemon.RestartCount == nil || *h.Daemon.RestartCount != 2 || h.Daemon.Status != "running" {
		t.Fatalf("daemon=%+v", h.Daemon)
	}

	evs, err := c.Events(ctx, 0)
	if err != nil || len(evs) != 1 {
		t.Fatalf("events=%v err=%v", evs, err)
	}
	if evs[0].Level != "warn" || evs[0].Msg != "restarted" {
		t.Fatalf("event=%+v", evs[0])
	}
}

func TestClient_Restart(t *testing.T) {
	t.Parallel()

	var method string
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		w.WriteHeader(http.StatusNoContent)
	}))
	defer s.Close()

	if err := NewClient(s.URL, 0).Restart(context.Background()); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if method != http.MethodPost {
		t.Fatalf("method=%s", method)
	}
}
