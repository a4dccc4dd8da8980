package health

import (
	"math"
	"testing"

	"wgdash/internal/model"
)

func TestLevelOf(t *testing.T) {
	t.Parallel()

	cases := []struct {
		status, health string
		want           Level
	}{
		{"running", "healthy", OK},
		{"Running", "HEALTHY", OK},
		{"running", "starting", Warn},
		{"running", "none", Warn},
		{"running", "", Warn},
		{"running", "unhealthy", Bad},
		{"exited", "healthy", Bad},
		{"", "", Bad},
	}
	for _, c := range cases {
		if got := LevelOf(c.status, c.health); got != c.want {
			t.Fatalf("status=%q health=%q got=%v want=%v", c.status, c.health, got, c.want)
		}
	}
}

func TestNewCard(t *testing.T) {
	t.Parallel()

	restarts := int64(3)
	c := NewCard(model.Health{
		Host: model.HostHealth{
			CPUPercent: 12.34, Load1: 0.5, Load5: math.NaN(), Load15: 1,
			MemUsedMB: 512, MemTotalMB: 2048, DiskUsedGB: 10.26, DiskTotalGB: 40,
		},
		Daemon: model.DaemonHealth{Status: "running", Health: "healthy", RestartCount: &restarts},
	})
	if c.CPU != "12.3%" || c.Load != "0.50 0.00 1.00" {
		t.Fatalf("cpu=%q load=%q", c.CPU, c.Load)
	}
	if c.RAM != "512/2048 MB" || c.Disk != "10.3/40.0 GB" {
		t.Fatalf("ram=%q disk=%q", c.RAM, c.Disk)
	}
	if c.Restarts != "3" || c.Level != OK {
		t.Fatalf("restarts=%q level=%v", c.Restarts, c.Level)
	}
}

func TestNewCard_FirstSampleAndMissing(t *testing.T) {
	t.Parallel()

	nan := math.NaN()
	c := NewCard(model.Health{Host: model.HostHealth{
		CPUPercent: 0, MemUsedMB: nan, MemTotalMB: nan, DiskUsedGB: 1, DiskTotalGB: 0,
	}})
	if c.CPU != Measuring {
		t.Fatalf("cpu=%q", c.CPU)
	}
	if c.RAM != "-" || c.Disk != "-" || c.Status != "-" || c.Health != "-" || c.Restarts != "-" {
		t.Fatalf("card=%+v", c)
	}
	if c.Level != Bad {
		t.Fatalf("level=%v", c.Level)
	}
}
