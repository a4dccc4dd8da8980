package metrics

import (
	"math"
	"sort"
)

// Summary describes the throughput history currently held for the sparkline.
type Summary struct {
	Count  int     `json:"count"`
	AvgBps float64 `json:"avg_bps"`
	P95Bps float64 `json:"p95_bps"`
	MinBps float64 `json:"min_bps"`
	MaxBps float64 `json:"max_bps"`
}

// Summarize computes basic statistics over history samples.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}

	return Summary{
		Count:  len(sorted),
		AvgBps: sum / float64(len(sorted)),
		P95Bps: percentile(sorted, 0.95),
		MinBps: sorted[0],
		MaxBps: sorted[len(sorted)-1],
	}
}

func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	if p <= 0 {
		return values[0]
	}
	if p >= 1 {
		return values[len(values)-1]
	}
	idx := int(math.Ceil(p*float64(len(values)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(values) {
		idx = len(values) - 1
	}
	return values[idx]
}
