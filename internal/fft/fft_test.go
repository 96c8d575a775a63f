// SPDX-License-Identifier: MIT
package fft

import (
	"math"
	"testing"

	"github.com/escanorganic/music-viz1/pkg/utils"
)

const (
	testFFTSize    = 1024
	testSampleRate = 44100
)

// binFor maps a frequency to its spectrum bin index at the test transform
// size and sample rate.
func binFor(freq float64) int {
	return int(freq * testFFTSize / testSampleRate)
}

func newTestProcessor(t *testing.T, smoothing float64) *Processor {
	t.Helper()
	p, err := NewProcessor(testFFTSize, testSampleRate, smoothing)
	if err != nil {
		t.Fatalf("NewProcessor returned error: %v", err)
	}
	return p
}

func TestNewProcessorInvalidConfig(t *testing.T) {
	tests := []struct {
		desc       string
		fftSize    int
		sampleRate float64
	}{
		{"Non power of two", 1000, testSampleRate},
		{"Zero size", 0, testSampleRate},
		{"Negative size", -1024, testSampleRate},
		{"Zero sample rate", testFFTSize, 0},
		{"Negative sample rate", testFFTSize, -44100},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if _, err := NewProcessor(tt.fftSize, tt.sampleRate, 0.8); err == nil {
				t.Error("expected configuration error, got nil")
			}
		})
	}
}

func TestProcessHotPath(t *testing.T) {
	processor := newTestProcessor(t, 0.8)
	inputBuffer := utils.GenerateSineWave(testFFTSize, testSampleRate, 440, 0.9)

	// Warm-up call to absorb any one-time allocations.
	processor.Process(inputBuffer)
	allocs := testing.AllocsPerRun(100, func() {
		processor.Process(inputBuffer)
	})
	if allocs > 0 {
		t.Errorf("Expected zero allocations in Process hot path, got %.1f", allocs)
	}
}

func TestByteSpectrumBounded(t *testing.T) {
	processor := newTestProcessor(t, 0)
	processor.Process(utils.GenerateSineWave(testFFTSize, testSampleRate, 440, 0.9))

	spectrum := processor.ByteSpectrum(nil)
	if len(spectrum) != testFFTSize/2 {
		t.Fatalf("spectrum length = %d, want %d", len(spectrum), testFFTSize/2)
	}
	for i, v := range spectrum {
		if v < 0 || v > 255 {
			t.Fatalf("bin %d = %.3f, outside [0, 255]", i, v)
		}
	}
}

func TestByteSpectrumPeakBin(t *testing.T) {
	processor := newTestProcessor(t, 0)

	// Drive several frames so the sine settles, then the hottest bin
	// should sit at the signal frequency.
	const freq = 440.0
	input := utils.GenerateSineWave(testFFTSize, testSampleRate, freq, 0.9)
	for i := 0; i < 8; i++ {
		processor.Process(input)
	}

	spectrum := processor.ByteSpectrum(nil)
	peakBin := utils.FindPeakBin(spectrum, 0, len(spectrum)-1)

	expectedBin := binFor(freq)
	if peakBin < expectedBin-1 || peakBin > expectedBin+1 {
		t.Errorf("peak bin = %d (%.1f Hz), want near %d (%.1f Hz)",
			peakBin, processor.BinFrequency(peakBin), expectedBin, freq)
	}
	if spectrum[peakBin] < 100 {
		t.Errorf("peak bin magnitude = %.1f, expected a hot bin", spectrum[peakBin])
	}
}

func TestByteSpectrumReuse(t *testing.T) {
	processor := newTestProcessor(t, 0.8)
	processor.Process(utils.GenerateSineWave(testFFTSize, testSampleRate, 440, 0.9))

	dst := make([]float64, testFFTSize/2)
	allocs := testing.AllocsPerRun(100, func() {
		dst = processor.ByteSpectrum(dst)
	})
	if allocs > 0 {
		t.Errorf("Expected zero allocations with pre-sized dst, got %.1f", allocs)
	}
}

func TestSmoothingSettles(t *testing.T) {
	heavy := newTestProcessor(t, 0.9)
	instant := newTestProcessor(t, 0)

	// Quiet signal: loud sines clamp to 255 through the dB window and
	// would mask the smoothing difference.
	input := utils.GenerateSineWave(testFFTSize, testSampleRate, 440, 0.002)
	heavy.Process(input)
	instant.Process(input)

	// After one frame the heavily smoothed spectrum must trail the
	// unsmoothed one at the signal bin.
	bin := binFor(440)
	h := heavy.ByteSpectrum(nil)
	ins := instant.ByteSpectrum(nil)
	if h[bin] >= ins[bin] {
		t.Errorf("smoothed bin %.1f >= unsmoothed bin %.1f after one frame", h[bin], ins[bin])
	}

	// Many frames later it converges to the same value.
	for i := 0; i < 200; i++ {
		heavy.Process(input)
	}
	h = heavy.ByteSpectrum(h)
	if math.Abs(h[bin]-ins[bin]) > 2 {
		t.Errorf("smoothed bin %.1f did not settle near %.1f", h[bin], ins[bin])
	}
}

func TestReset(t *testing.T) {
	processor := newTestProcessor(t, 0.8)
	processor.Process(utils.GenerateSineWave(testFFTSize, testSampleRate, 440, 0.9))
	processor.Reset()

	for i, v := range processor.ByteSpectrum(nil) {
		if v != 0 {
			t.Fatalf("bin %d = %.3f after Reset, want 0", i, v)
		}
	}
}

func TestBinFrequency(t *testing.T) {
	processor := newTestProcessor(t, 0.8)

	if got := processor.BinFrequency(0); got != 0 {
		t.Errorf("DC bin frequency = %.2f, want 0", got)
	}
	// Bin spacing is sampleRate / fftSize.
	want := float64(testSampleRate) / testFFTSize
	if got := processor.BinFrequency(1); math.Abs(got-want) > 0.01 {
		t.Errorf("bin 1 frequency = %.2f, want %.2f", got, want)
	}
	if got := processor.BinFrequency(-1); got != 0 {
		t.Errorf("negative bin frequency = %.2f, want 0", got)
	}
	if got := processor.BinFrequency(testFFTSize); got != 0 {
		t.Errorf("out-of-range bin frequency = %.2f, want 0", got)
	}
}

func BenchmarkProcess(b *testing.B) {
	processor, err := NewProcessor(testFFTSize, testSampleRate, 0.8)
	if err != nil {
		b.Fatalf("NewProcessor returned error: %v", err)
	}

	inputBuffer := utils.GenerateComplexWave(testFFTSize, testSampleRate)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		processor.Process(inputBuffer)
	}
}
