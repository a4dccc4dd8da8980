package format

import (
	"math"
	"testing"
)

func TestSentinelForNonFinite(t *testing.T) {
	t.Parallel()

	bad := []float64{math.NaN(), math.Inf(1), math.Inf(-1), Opt(nil)}
	for _, v := range bad {
		for name, fn := range map[string]func(float64) string{
			"bytes":   Bytes,
			"rate":    Rate,
			"ago":     Ago,
			"percent": Percent,
		} {
			if got := fn(v); got != Sentinel {
				t.Fatalf("%s(%v)=%q", name, v, got)
			}
		}
	}
	if got := GBPair(math.NaN(), 10); got != Sentinel {
		t.Fatalf("gb=%q", got)
	}
	if got := MBPair(1, 0); got != Sentinel {
		t.Fatalf("mb=%q", got)
	}
}

func TestBytes(t *testing.T) {
	t.Parallel()

	cases := map[float64]string{
		0:                "0 B",
		1023:             "1023 B",
		1024:             "1.0 KB",
		1536:             "1.5 KB",
		1048576:          "1.0 MB",
		1073741824:       "1.0 GB",
		1099511627776:    "1.0 TB",
		1125899906842624: "1024.0 TB",
	}
	for in, want := range cases {
		if got := Bytes(in); got != want {
			t.Fatalf("Bytes(%v)=%q want %q", in, got, want)
		}
	}
}

func TestRate(t *testing.T) {
	t.Parallel()

	cases := map[float64]string{
		0:         "0.0 bps",
		0.5:       "4.0 bps",
		125:       "1.00 Kbps",
		1250:      "10.0 Kbps",
		125000:    "1.00 Mbps",
		-125:      "-1000.0 bps",
		125000000: "1.00 Gbps",
	}
	for in, want := range cases {
		if got := Rate(in); got != want {
			t.Fatalf("Rate(%v)=%q want %q", in, got, want)
		}
	}
}

func TestAgo(t *testing.T) {
	t.Parallel()

	cases := map[float64]string{
		45:     "45s",
		45.9:   "45s",
		125:    "2m 5s",
		3700:   "1h 1m",
		90000:  "1d 1h",
		-5:     "0s",
		1e18:   "11574074074074d 1h",
		1e19:   "53375995583650d 7h",
		1e300:  "53375995583650d 7h",
		-1e300: "0s",
	}
	for in, want := range cases {
		if got := Ago(in); got != want {
			t.Fatalf("Ago(%v)=%q want %q", in, got, want)
		}
	}
}

func TestPercentAndPairs(t *testing.T) {
	t.Parallel()

	if got := Percent(12.345); got != "12.3%" {
		t.Fatalf("percent=%q", got)
	}
	if got := GBPair(10.25, 40); got != "10.2/40.0 GB" && got != "10.3/40.0 GB" {
		t.Fatalf("gb=%q", got)
	}
	if got := MBPair(512, 2048); got != "512/2048 MB" {
		t.Fatalf("mb=%q", got)
	}
	if got := Load(0.5, math.NaN(), 1.234); got != "0.50 0.00 1.23" {
		t.Fatalf("load=%q", got)
	}
}

func TestShortKey(t *testing.T) {
	t.Parallel()

	if got := ShortKey("abcdefghijklmnop", 10); got != "abcdefghij…" {
		t.Fatalf("short=%q", got)
	}
	if got := ShortKey("abc", 10); got != "abc…" {
		t.Fatalf("short=%q", got)
	}
}
