// SPDX-License-Identifier: MIT
package analysis

// DefaultAlpha is the exponential-moving-average weight given to each new
// raw energy sample.
const DefaultAlpha = 0.3

// Smoother maintains the per-category smoothed energy values. Each value is
// a single-pole IIR low-pass over the raw combined energy, updated exactly
// once per analysis cycle. The Smoother is the sole owner of the smoothed
// state; everything else reads it through Value.
type Smoother struct {
	alpha  float64
	values [NumCategories]float64
}

// NewSmoother creates a Smoother with the given smoothing factor.
// Alpha outside (0, 1] falls back to DefaultAlpha.
func NewSmoother(alpha float64) *Smoother {
	if alpha <= 0 || alpha > 1 {
		alpha = DefaultAlpha
	}
	return &Smoother{alpha: alpha}
}

// Update folds one raw sample into the category's moving average and
// returns the new smoothed value.
func (s *Smoother) Update(c Category, raw float64) float64 {
	s.values[c] += (raw - s.values[c]) * s.alpha
	return s.values[c]
}

// Value returns the current smoothed energy for c without mutating state.
func (s *Smoother) Value(c Category) float64 {
	return s.values[c]
}

// Reset zeroes all smoothed values.
func (s *Smoother) Reset() {
	s.values = [NumCategories]float64{}
}

// DefaultHistoryFrames is the history window length: about 0.7 s of raw
// energy at a 60 Hz cycle rate.
const DefaultHistoryFrames = 43

// History is a fixed-capacity circular buffer of raw energy samples.
// The write cursor advances modulo capacity and the oldest entry is
// overwritten; the buffer is allocated once and lives for the analyzer's
// lifetime.
type History struct {
	buf    []float64
	cursor int
	count  int
}

// NewHistory allocates a history buffer. Capacity below 1 uses
// DefaultHistoryFrames.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = DefaultHistoryFrames
	}
	return &History{buf: make([]float64, capacity)}
}

// Push records one raw energy sample, overwriting the oldest entry once
// the buffer is full.
func (h *History) Push(v float64) {
	h.buf[h.cursor] = v
	h.cursor = (h.cursor + 1) % len(h.buf)
	if h.count < len(h.buf) {
		h.count++
	}
}

// Len returns the number of samples recorded, at most Cap.
func (h *History) Len() int { return h.count }

// Cap returns the buffer capacity.
func (h *History) Cap() int { return len(h.buf) }

// Values copies the recorded samples into dst oldest-first and returns the
// filled slice. dst is grown if needed; pass a reused slice to avoid
// per-frame allocation.
func (h *History) Values(dst []float64) []float64 {
	if cap(dst) < h.count {
		dst = make([]float64, h.count)
	}
	dst = dst[:h.count]

	// Oldest sample sits at cursor-count, modulo capacity.
	start := (h.cursor - h.count + len(h.buf)) % len(h.buf)
	for i := 0; i < h.count; i++ {
		dst[i] = h.buf[(start+i)%len(h.buf)]
	}
	return dst
}

// Reset discards all recorded samples. The backing array is kept.
func (h *History) Reset() {
	h.cursor = 0
	h.count = 0
}
