// SPDX-License-Identifier: MIT
package analysis

import (
	"fmt"
	"math"
)

// BinRange is a half-open index interval [Start, End) into a magnitude
// spectrum. Ranges are derived once per (sampleRate, transformSize) pair;
// End may exceed the spectrum length for bands above Nyquist, readers clamp.
type BinRange struct {
	Start int
	End   int
}

// MapBand converts a band's frequency range into spectrum bin indices.
// Each bin covers sampleRate/transformSize Hz; the start index floors, the
// end index ceils, so a band always covers every bin it touches. No
// clamping happens here.
func MapBand(band FrequencyBand, sampleRate float64, transformSize int) (BinRange, error) {
	if sampleRate <= 0 {
		return BinRange{}, fmt.Errorf("map band %s: sample rate must be positive, got %g", band.Name, sampleRate)
	}
	if transformSize <= 0 {
		return BinRange{}, fmt.Errorf("map band %s: transform size must be positive, got %d", band.Name, transformSize)
	}

	binHz := sampleRate / float64(transformSize)
	start := int(math.Floor(band.MinHz / binHz))
	end := int(math.Ceil(band.MaxHz / binHz))
	return BinRange{Start: start, End: end}, nil
}

// MapAll computes the bin range for every band in the table. The result is
// deterministic for a fixed (sampleRate, transformSize) and is meant to be
// cached for the session, not recomputed per cycle. It must be rebuilt if
// the input device or transform size changes.
func MapAll(table *BandTable, sampleRate float64, transformSize int) (map[string]BinRange, error) {
	ranges := make(map[string]BinRange, len(table.Bands))
	for _, band := range table.Bands {
		r, err := MapBand(band, sampleRate, transformSize)
		if err != nil {
			return nil, err
		}
		ranges[band.Name] = r
	}
	return ranges, nil
}
