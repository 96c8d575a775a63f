// Package utils holds shared test-signal generators and spectrum
// inspection helpers used by the fft and analysis test suites.
package utils

import "math"

// GenerateSineWave produces size samples of a pure tone at frequency Hz.
// Amplitude is a fraction of int32 full scale in [0,1].
func GenerateSineWave(size int, sampleRate, frequency, amplitude float64) []int32 {
	buffer := make([]int32, size)
	for i := range buffer {
		t := float64(i) / sampleRate
		buffer[i] = int32(math.Sin(2*math.Pi*frequency*t) * math.MaxInt32 * amplitude)
	}
	return buffer
}

// GenerateComplexWave produces a 440Hz fundamental with two harmonics,
// useful when a test needs energy across several bins.
func GenerateComplexWave(size int, sampleRate float64) []int32 {
	buffer := make([]int32, size)
	for i := range buffer {
		tm := float64(i) / sampleRate
		signal := math.Sin(2*math.Pi*440*tm)*0.5 +
			math.Sin(2*math.Pi*880*tm)*0.3 +
			math.Sin(2*math.Pi*1320*tm)*0.2
		buffer[i] = int32(signal * math.MaxInt32 * 0.9)
	}
	return buffer
}

// FindPeakBin returns the index of the largest magnitude in
// magnitudes[startBin:endBin], clamping the range to valid indices.
func FindPeakBin(magnitudes []float64, startBin, endBin int) int {
	if len(magnitudes) == 0 {
		return 0
	}

	if startBin < 0 {
		startBin = 0
	}
	if endBin >= len(magnitudes) {
		endBin = len(magnitudes) - 1
	}

	peakBin := startBin
	peakValue := magnitudes[startBin]
	for bin := startBin + 1; bin <= endBin; bin++ {
		if magnitudes[bin] > peakValue {
			peakValue = magnitudes[bin]
			peakBin = bin
		}
	}
	return peakBin
}
