// Package health derives the traffic-light badge and card text for the
// gateway host and VPN daemon.
package health

import (
	"strconv"
	"strings"

	"wgdash/internal/format"
	"wgdash/internal/model"
)

// Level is a traffic-light badge.
type Level string

const (
	OK   Level = "ok"
	Warn Level = "warn"
	Bad  Level = "bad"
)

// Measuring is shown while the gateway has not produced a CPU sample yet.
const Measuring = "measuring…"

// LevelOf maps a daemon (status, health) pair to a badge. Comparison is
// case-insensitive; a daemon that is not running is always bad.
func LevelOf(status, health string) Level {
	if !strings.EqualFold(status, "running") {
		return Bad
	}
	switch strings.ToLower(health) {
	case "healthy":
		return OK
	case "starting", "none", "":
		return Warn
	}
	return Bad
}

// Card is the rendered text of the health panel.
type Card struct {
	CPU      string `json:"cpu"`
	Load     string `json:"load"`
	RAM      string `json:"ram"`
	Disk     string `json:"disk"`
	Status   string `json:"status"`
	Health   string `json:"health"`
	Restarts string `json:"restarts"`
	Level    Level  `json:"level"`
}

// NewCard formats h for display.
func NewCard(h model.Health) Card {
	c := Card{
		Load:     format.Load(h.Host.Load1, h.Host.Load5, h.Host.Load15),
		RAM:      format.MBPair(h.Host.MemUsedMB, h.Host.MemTotalMB),
		Disk:     format.GBPair(h.Host.DiskUsedGB, h.Host.DiskTotalGB),
		Status:   orSentinel(h.Daemon.Status),
		Health:   orSentinel(h.Daemon.Health),
		Restarts: format.Sentinel,
		Level:    LevelOf(h.Daemon.Status, h.Daemon.Health),
	}
	if h.Host.CPUPercent == 0 {
		c.CPU = Measuring
	} else {
		c.CPU = format.Percent(h.Host.CPUPercent)
	}
	if h.Daemon.RestartCount != nil {
		c.Restarts = strconv.FormatInt(*h.Daemon.RestartCount, 10)
	}
	return c
}

func orSentinel(s string) string {
	if s == "" {
		return format.Sentinel
	}
	return s
}
