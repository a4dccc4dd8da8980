// Package format turns raw gateway numbers into short human strings.
// Every function is total: non-finite input yields Sentinel.
package format

import (
	"fmt"
	"math"
	"strconv"
)

// Sentinel is shown for missing or non-finite values.
const Sentinel = "-"

var (
	byteUnits = []string{"B", "KB", "MB", "GB", "TB"}
	rateUnits = []string{"bps", "Kbps", "Mbps", "Gbps"}
)

// Opt maps a nil optional to NaN so it formats as Sentinel.
func Opt(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Bytes scales by 1024 through B..TB.
func Bytes(b float64) string {
	if !finite(b) {
		return Sentinel
	}
	v := b
	i := 0
	for v >= 1024 && i < len(byteUnits)-1 {
		v /= 1024
		i++
	}
	prec := 1
	if i == 0 {
		prec = 0
	}
	return strconv.FormatFloat(v, 'f', prec, 64) + " " + byteUnits[i]
}

// Rate converts bytes per second into a bit rate scaled by 1000.
func Rate(bytesPerSec float64) string {
	if !finite(bytesPerSec) {
		return Sentinel
	}
	v := bytesPerSec * 8
	i := 0
	for v >= 1000 && i < len(rateUnits)-1 {
		v /= 1000
		i++
	}
	prec := 1
	if v < 10 && i > 0 {
		prec = 2
	}
	return strconv.FormatFloat(v, 'f', prec, 64) + " " + rateUnits[i]
}

// maxAgo keeps the int64 conversion in Ago from overflowing.
const maxAgo = 1 << 62

// Ago renders an elapsed number of seconds, largest unit first.
func Ago(sec float64) string {
	if !finite(sec) {
		return Sentinel
	}
	sec = math.Min(math.Max(0, math.Floor(sec)), maxAgo)
	s := int64(sec)
	d := s / 86400
	h := (s % 86400) / 3600
	m := (s % 3600) / 60
	r := s % 60

	switch {
	case d > 0:
		return fmt.Sprintf("%dd %dh", d, h)
	case h > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, r)
	}
	return fmt.Sprintf("%ds", r)
}

// Percent renders one decimal place with a % suffix.
func Percent(v float64) string {
	if !finite(v) {
		return Sentinel
	}
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

// GBPair renders "used/total GB".
func GBPair(used, total float64) string {
	if !finite(used) || !finite(total) || total <= 0 {
		return Sentinel
	}
	return fmt.Sprintf("%.1f/%.1f GB", used, total)
}

// MBPair renders "used/total MB" without decimals.
func MBPair(used, total float64) string {
	if !finite(used) || !finite(total) || total <= 0 {
		return Sentinel
	}
	return strconv.FormatFloat(used, 'f', -1, 64) + "/" + strconv.FormatFloat(total, 'f', -1, 64) + " MB"
}

// Load renders the three load averages; missing values count as zero.
func Load(l1, l5, l15 float64) string {
	z := func(v float64) float64 {
		if !finite(v) {
			return 0
		}
		return v
	}
	return fmt.Sprintf("%.2f %.2f %.2f", z(l1), z(l5), z(l15))
}

// ShortKey keeps the first n runes of a peer key followed by an ellipsis.
func ShortKey(key string, n int) string {
	r := []rune(key)
	if len(r) > n {
		r = r[:n]
	}
	return string(r) + "…"
}
