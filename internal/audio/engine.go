// SPDX-License-Identifier: MIT
/*
Package audio implements the live input side of the visualizer:
- Lock-free audio capture using PortAudio
- Hann-windowed FFT feeding the byte-scale spectrum the analyzer reads
- Noise gate with branchless implementation
- Optional WAV recording with atomic state management

The Engine is the concrete analysis.SpectrumSource: Start acquires the
input device, the PortAudio callback keeps the FFT spectrum fresh, and
Analyze hands the latest snapshot to the analyzer once per frame.

Thread Safety:
- Uses atomic operations for recording state
- Pre-allocates buffers to avoid GC in the callback hot path
- Locks the OS thread during audio processing
*/
package audio

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/gordonklaus/portaudio"

	"github.com/escanorganic/music-viz1/internal/analysis"
	"github.com/escanorganic/music-viz1/internal/config"
	"github.com/escanorganic/music-viz1/internal/fft"
	applog "github.com/escanorganic/music-viz1/internal/log"
)

var _ analysis.SpectrumSource = (*Engine)(nil)

type Engine struct {
	cfg *config.Config

	// Audio input handling.
	inputBuffer  []int32
	monoBuffer   []int32 // mono mixdown for the FFT
	inputDevice  *portaudio.DeviceInfo
	inputLatency time.Duration
	inputStream  *portaudio.Stream

	// Spectrum pipeline.
	fftProcessor *fft.Processor
	spectrum     []float64 // reused snapshot buffer for Analyze

	// Noise gate for signal conditioning.
	gateEnabled   bool
	gateThreshold int32 // absolute amplitude threshold

	// Recording state, see recording.go.
	isRecording int32
	recording   recordingState
}

// NewEngine resolves the input device and pre-allocates the full capture
// and analysis pipeline. No device is opened until Start.
func NewEngine(cfg *config.Config) (*Engine, error) {
	inputDevice, err := InputDevice(cfg.Audio.InputDevice)
	if err != nil {
		return nil, err
	}

	fftProcessor, err := fft.NewProcessor(
		cfg.Audio.FramesPerBuffer,
		cfg.Audio.SampleRate,
		cfg.Analysis.SpectrumSmoothing,
	)
	if err != nil {
		return nil, err
	}

	inputSize := cfg.Audio.FramesPerBuffer * cfg.Audio.InputChannels
	e := &Engine{
		cfg:          cfg,
		inputBuffer:  make([]int32, inputSize),
		monoBuffer:   make([]int32, cfg.Audio.FramesPerBuffer),
		inputDevice:  inputDevice,
		fftProcessor: fftProcessor,
		spectrum:     make([]float64, fftProcessor.Bins()),
		gateEnabled:  cfg.Audio.GateThreshold > 0,
	}
	e.SetGateThreshold(cfg.Audio.GateThreshold)

	if cfg.Audio.LowLatency {
		e.inputLatency = inputDevice.DefaultLowInputLatency
	} else {
		e.inputLatency = inputDevice.DefaultHighInputLatency
	}

	return e, nil
}

// Start opens and starts the input stream. A device-access failure
// (permission denied, device gone) comes back as an ordinary error; the
// caller may retry after user action.
func (e *Engine) Start(ctx context.Context) error {
	if e.inputStream != nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Channels: e.cfg.Audio.InputChannels,
			Device:   e.inputDevice,
			Latency:  e.inputLatency,
		},
		FramesPerBuffer: e.cfg.Audio.FramesPerBuffer,
		SampleRate:      e.cfg.Audio.SampleRate,
	}

	stream, err := portaudio.OpenStream(params, e.processInputStream)
	if err != nil {
		return fmt.Errorf("open input stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		return fmt.Errorf("start input stream: %w", err)
	}
	e.inputStream = stream

	applog.Infof("Audio: input stream started on %q (%.0f Hz, %d frames)",
		e.inputDevice.Name, e.cfg.Audio.SampleRate, e.cfg.Audio.FramesPerBuffer)
	return nil
}

// Stop stops and closes the input stream. Safe to call when not started.
func (e *Engine) Stop() error {
	if e.inputStream == nil {
		return nil
	}

	if err := e.inputStream.Stop(); err != nil {
		return err
	}
	if err := e.inputStream.Close(); err != nil {
		return err
	}
	e.inputStream = nil
	e.fftProcessor.Reset()
	return nil
}

// SampleRate returns the configured capture rate in Hz.
func (e *Engine) SampleRate() float64 {
	return e.cfg.Audio.SampleRate
}

// Analyze returns the latest byte-scale magnitude spectrum. The slice is
// reused between calls; the analyzer consumes it within the same cycle.
func (e *Engine) Analyze() []float64 {
	return e.fftProcessor.ByteSpectrum(e.spectrum)
}

// processInputStream is the PortAudio callback.
// Performance Critical:
// - Runs in a dedicated OS thread (LockOSThread)
// - Uses pre-allocated buffers only
// - No dynamic allocations in the hot path
func (e *Engine) processInputStream(in []int32) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	copy(e.inputBuffer, in)
	e.processBuffer(e.inputBuffer)

	if atomic.LoadInt32(&e.isRecording) == 1 {
		e.writeRecording(e.inputBuffer)
	}
}

// processBuffer runs the gate and, if it opens, the FFT pass.
// Performance Critical (Hot Path):
// - No allocations
// - Branchless noise gate implementation
func (e *Engine) processBuffer(buffer []int32) {
	shouldProcess := true
	if e.gateEnabled {
		var maxAmplitude int32
		for i := range buffer {
			sample := buffer[i]
			mask := sample >> 31
			amplitude := (sample ^ mask) - mask
			diff := amplitude - maxAmplitude
			maxAmplitude += (diff & (diff >> 31)) ^ diff
		}
		shouldProcess = maxAmplitude > e.gateThreshold
	}
	if !shouldProcess {
		return
	}

	fftInput := buffer
	if e.cfg.Audio.InputChannels > 1 {
		channels := e.cfg.Audio.InputChannels
		for i := range e.cfg.Audio.FramesPerBuffer {
			if i*channels < len(buffer) {
				e.monoBuffer[i] = buffer[i*channels]
			} else {
				e.monoBuffer[i] = 0
			}
		}
		fftInput = e.monoBuffer
	}

	e.fftProcessor.Process(fftInput)
}

// Close stops any recording in progress and releases the input stream.
func (e *Engine) Close() error {
	if atomic.LoadInt32(&e.isRecording) == 1 {
		if err := e.StopRecording(); err != nil {
			return err
		}
	}
	return e.Stop()
}
