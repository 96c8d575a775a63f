// SPDX-License-Identifier: MIT
package analysis

// byteScale is the magnitude scale of the upstream spectrum format. The
// spectrum source delivers bins in [0, 255]; energies normalize to [0, 1].
const byteScale = 255.0

// AverageEnergy returns the normalized mean magnitude over the bins of r,
// clamped to the spectrum bounds. An empty clamped interval (a band wholly
// above Nyquist at the current sample rate) yields 0; that is a legitimate
// degenerate case, not an error. Output is always in [0, 1] for inputs in
// [0, 255]. Pure, no state.
func AverageEnergy(spectrum []float64, r BinRange) float64 {
	lo := r.Start
	if lo < 0 {
		lo = 0
	}
	hi := r.End
	if hi > len(spectrum) {
		hi = len(spectrum)
	}
	if lo >= hi {
		return 0
	}

	var sum float64
	for i := lo; i < hi; i++ {
		sum += spectrum[i]
	}
	return sum / float64(hi-lo) / byteScale
}

// WeightedCombine folds per-band energies into one value using the group's
// declared weights, in order. There is no implicit normalization: callers
// own the weight scale (the default tables sum to 1.0). Mismatched lengths
// combine over the shorter of the two.
func WeightedCombine(energies, weights []float64) float64 {
	n := len(energies)
	if len(weights) < n {
		n = len(weights)
	}

	var combined float64
	for i := 0; i < n; i++ {
		combined += energies[i] * weights[i]
	}
	return combined
}
