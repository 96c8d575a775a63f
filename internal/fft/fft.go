// SPDX-License-Identifier: MIT
package fft

import (
	"fmt"
	"math"
	"math/cmplx"
	"sync"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/escanorganic/music-viz1/pkg/bitint"
)

// Output shaping constants. Smoothed linear magnitudes are mapped through
// this dB window onto the byte scale [0, 255] that the analysis layer's
// energy extractor expects.
const (
	minDecibels = -100.0
	maxDecibels = -30.0
	byteScale   = 255.0
)

// DefaultSmoothing is the per-bin time constant applied to linear
// magnitudes between frames.
const DefaultSmoothing = 0.8

// workspace holds pre-allocated buffers for FFT calculations so the
// audio-callback hot path never allocates.
type workspace struct {
	input    []float64    // windowed, scaled real input samples
	coeffs   []complex128 // FFT complex output
	smoothed []float64    // per-bin EMA of linear magnitudes
	window   []float64    // Hann window coefficients
}

// Processor computes the magnitude spectrum of raw input buffers and
// shapes it into byte-scale bins. Process runs on the audio callback
// thread; ByteSpectrum is read from the render loop, so the published
// spectrum sits behind a mutex.
type Processor struct {
	fftSize    int
	sampleRate float64
	smoothing  float64
	fftObj     *fourier.FFT
	workspace  workspace

	mu       sync.Mutex
	byteSpec []float64 // published spectrum, fftSize/2 bins in [0, 255]
}

// NewProcessor creates an FFT processor, pre-allocating all buffers and
// the Hann window coefficients. The transform size must be a power of two
// and the sample rate positive; violations are configuration errors and
// fail fast.
func NewProcessor(fftSize int, sampleRate, smoothing float64) (*Processor, error) {
	if !bitint.IsPowerOfTwo(fftSize) {
		return nil, fmt.Errorf("fft size must be a power of 2, got %d", fftSize)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %g", sampleRate)
	}
	if smoothing < 0 || smoothing >= 1 {
		smoothing = DefaultSmoothing
	}

	window := make([]float64, fftSize)
	for i := 0; i < fftSize; i++ {
		window[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(fftSize-1)))
	}

	half := fftSize / 2
	return &Processor{
		fftSize:    fftSize,
		sampleRate: sampleRate,
		smoothing:  smoothing,
		fftObj:     fourier.NewFFT(fftSize),
		byteSpec:   make([]float64, half),
		workspace: workspace{
			input:    make([]float64, fftSize),
			coeffs:   make([]complex128, fftSize/2+1),
			smoothed: make([]float64, half),
			window:   window,
		},
	}, nil
}

// Process performs one FFT pass over the input buffer: Hann window,
// transform, per-bin magnitude smoothing, dB mapping to byte scale, and
// publication of the result. Zero allocations; safe to call from the
// audio callback.
func (p *Processor) Process(inputBuffer []int32) {
	for i := 0; i < p.fftSize; i++ {
		if i < len(inputBuffer) {
			p.workspace.input[i] = float64(inputBuffer[i]) * p.workspace.window[i] / float64(math.MaxInt32)
		} else {
			p.workspace.input[i] = 0
		}
	}

	_ = p.fftObj.Coefficients(p.workspace.coeffs, p.workspace.input)

	p.mu.Lock()
	for i := range p.workspace.smoothed {
		mag := cmplx.Abs(p.workspace.coeffs[i]) * 2 / float64(p.fftSize)
		p.workspace.smoothed[i] = p.smoothing*p.workspace.smoothed[i] + (1-p.smoothing)*mag
		p.byteSpec[i] = toByte(p.workspace.smoothed[i])
	}
	p.mu.Unlock()
}

// toByte maps a linear magnitude onto [0, 255] through the dB window.
func toByte(mag float64) float64 {
	if mag <= 0 {
		return 0
	}
	db := 20 * math.Log10(mag)
	v := byteScale * (db - minDecibels) / (maxDecibels - minDecibels)
	if v < 0 {
		return 0
	}
	if v > byteScale {
		return byteScale
	}
	return v
}

// ByteSpectrum copies the latest published spectrum into dst and returns
// it. Pass a reused slice of length fftSize/2 to keep the render loop
// allocation-free.
func (p *Processor) ByteSpectrum(dst []float64) []float64 {
	if cap(dst) < len(p.byteSpec) {
		dst = make([]float64, len(p.byteSpec))
	}
	dst = dst[:len(p.byteSpec)]

	p.mu.Lock()
	copy(dst, p.byteSpec)
	p.mu.Unlock()
	return dst
}

// Bins returns the number of spectrum bins published per frame.
func (p *Processor) Bins() int { return p.fftSize / 2 }

// BinFrequency returns the center frequency in Hz for a spectrum bin.
func (p *Processor) BinFrequency(i int) float64 {
	if i < 0 || i > p.fftSize/2 {
		return 0
	}
	return p.fftObj.Freq(i) * p.sampleRate
}

// Reset clears the smoothing state and the published spectrum.
func (p *Processor) Reset() {
	p.mu.Lock()
	clear(p.workspace.smoothed)
	clear(p.byteSpec)
	p.mu.Unlock()
}
