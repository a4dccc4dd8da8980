package metrics

import "math"

// DefaultHistoryCapacity is the number of samples kept for the sparkline.
const DefaultHistoryCapacity = 60

// HistoryBuffer is a fixed-capacity FIFO of samples. It is not safe for
// concurrent use; the owning session serializes access.
type HistoryBuffer struct {
	capacity int
	values   []float64
}

// NewHistoryBuffer creates a buffer; a non-positive capacity uses the default.
func NewHistoryBuffer(capacity int) *HistoryBuffer {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &HistoryBuffer{capacity: capacity, values: make([]float64, 0, capacity)}
}

// Push appends v and drops the oldest samples beyond capacity.
func (h *HistoryBuffer) Push(v float64) {
	h.values = append(h.values, v)
	if over := len(h.values) - h.capacity; over > 0 {
		h.values = append(h.values[:0], h.values[over:]...)
	}
}

// Values returns a copy, oldest first.
func (h *HistoryBuffer) Values() []float64 {
	out := make([]float64, len(h.values))
	copy(out, h.values)
	return out
}

func (h *HistoryBuffer) Len() int { return len(h.values) }

func (h *HistoryBuffer) Cap() int { return h.capacity }

// Floor clamps a rate for visualization: negative and non-finite rates
// become zero. The raw rate shown as text is left alone.
func Floor(rate float64) float64 {
	if rate > 0 && rate <= math.MaxFloat64 {
		return rate
	}
	return 0
}

// Traffic holds the download and upload history pair.
type Traffic struct {
	Down *HistoryBuffer
	Up   *HistoryBuffer
}

// NewTraffic creates both buffers with the same capacity.
func NewTraffic(capacity int) *Traffic {
	return &Traffic{Down: NewHistoryBuffer(capacity), Up: NewHistoryBuffer(capacity)}
}

// Record appends a defined sample, floored. Undefined samples are skipped.
func (t *Traffic) Record(s RateSample) bool {
	if !s.Defined {
		return false
	}
	t.Down.Push(Floor(s.DownBps))
	t.Up.Push(Floor(s.UpBps))
	return true
}

// Merged is the elementwise sum of both buffers, used for the sparkline.
func (t *Traffic) Merged() []float64 {
	down := t.Down.Values()
	up := t.Up.Values()
	out := make([]float64, len(down))
	for i, v := range down {
		if i < len(up) {
			v += up[i]
		}
		out[i] = v
	}
	return out
}
