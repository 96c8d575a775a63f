// SPDX-License-Identifier: MIT
package analysis

// Default peak-detector tuning. Both values are empirical and material
// dependent, so they stay constructor parameters rather than constants
// baked into the detector.
const (
	DefaultPeakDecay     = 0.95
	DefaultPeakThreshold = 0.7
)

// PeakDetector is a per-category transient detector with a decay-based
// adaptive threshold. Each cycle the remembered peak decays geometrically;
// a new transient fires only when the current smoothed energy exceeds both
// that decaying memory and an absolute floor. Energy riding below the
// decay tail of a previous hit cannot re-trigger until the tail drops
// under it.
type PeakDetector struct {
	decay     float64
	threshold float64
	values    [NumCategories]float64
	fired     [NumCategories]bool
}

// NewPeakDetector creates a detector with the given decay factor and
// absolute trigger floor. Out-of-range values fall back to the defaults.
func NewPeakDetector(decay, threshold float64) *PeakDetector {
	if decay <= 0 || decay >= 1 {
		decay = DefaultPeakDecay
	}
	if threshold < 0 || threshold > 1 {
		threshold = DefaultPeakThreshold
	}
	return &PeakDetector{decay: decay, threshold: threshold}
}

// Detect runs one detection step for the category. The decay is applied
// unconditionally before the comparison, every cycle. Returns the peak
// value after the step and whether a transient fired this cycle.
func (d *PeakDetector) Detect(c Category, energy float64) (float64, bool) {
	d.values[c] *= d.decay

	if energy > d.values[c] && energy > d.threshold {
		d.values[c] = energy
		d.fired[c] = true
	} else {
		d.fired[c] = false
	}
	return d.values[c], d.fired[c]
}

// Value returns the current decayed peak value for c.
func (d *PeakDetector) Value(c Category) float64 { return d.values[c] }

// Fired reports whether a transient fired for c on the most recent cycle.
func (d *PeakDetector) Fired(c Category) bool { return d.fired[c] }

// Reset clears all peak state.
func (d *PeakDetector) Reset() {
	d.values = [NumCategories]float64{}
	d.fired = [NumCategories]bool{}
}
