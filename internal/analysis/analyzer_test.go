// SPDX-License-Identifier: MIT
package analysis

import (
	"context"
	"errors"
	"math"
	"testing"
)

// stubSource is an in-memory SpectrumSource for orchestrator tests.
type stubSource struct {
	rate     float64
	spectrum []float64
	startErr error
	started  bool
	stops    int
	analyzed int
}

func (s *stubSource) Start(ctx context.Context) error {
	if s.startErr != nil {
		return s.startErr
	}
	s.started = true
	return nil
}

func (s *stubSource) Stop() error {
	s.started = false
	s.stops++
	return nil
}

func (s *stubSource) SampleRate() float64 { return s.rate }

func (s *stubSource) Analyze() []float64 {
	s.analyzed++
	return s.spectrum
}

// bassHeavySpectrum returns a 512-bin byte-scale spectrum with full-scale
// energy in the lowest bins and silence elsewhere.
func bassHeavySpectrum() []float64 {
	spectrum := make([]float64, 512)
	for i := 0; i < 12; i++ {
		spectrum[i] = 255
	}
	return spectrum
}

func newTestAnalyzer(t *testing.T, src *stubSource, cfg Config) *Analyzer {
	t.Helper()
	a, err := NewAnalyzer(src, nil, cfg)
	if err != nil {
		t.Fatalf("NewAnalyzer returned error: %v", err)
	}
	return a
}

func TestAnalyzerStart(t *testing.T) {
	src := &stubSource{rate: 44100, spectrum: bassHeavySpectrum()}
	a := newTestAnalyzer(t, src, Config{TransformSize: 1024})

	if err := a.Start(context.Background()); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if !a.Listening() {
		t.Error("analyzer not listening after Start")
	}
	if !src.started {
		t.Error("source was not started")
	}

	// Start is idempotent while listening.
	if err := a.Start(context.Background()); err != nil {
		t.Errorf("second Start returned error: %v", err)
	}
}

func TestAnalyzerStartDeviceFailure(t *testing.T) {
	src := &stubSource{rate: 44100, startErr: errors.New("microphone denied")}
	a := newTestAnalyzer(t, src, Config{TransformSize: 1024})

	if err := a.Start(context.Background()); err == nil {
		t.Fatal("expected device-access error from Start")
	}
	if a.Listening() {
		t.Error("analyzer listening after failed Start")
	}

	// Recoverable: the host may retry after the user grants access.
	src.startErr = nil
	if err := a.Start(context.Background()); err != nil {
		t.Errorf("retry after device grant failed: %v", err)
	}
}

func TestAnalyzerStartBadConfig(t *testing.T) {
	src := &stubSource{rate: 44100}
	a := newTestAnalyzer(t, src, Config{TransformSize: 0})

	if err := a.Start(context.Background()); err == nil {
		t.Fatal("expected bin-mapping error for zero transform size")
	}
	if src.stops != 1 {
		t.Errorf("source stopped %d times, want 1 (released after map failure)", src.stops)
	}
}

func TestAnalyzerCycleGuard(t *testing.T) {
	src := &stubSource{rate: 44100, spectrum: bassHeavySpectrum()}
	a := newTestAnalyzer(t, src, Config{TransformSize: 1024})

	// Not listening: Cycle must be a no-op and must not touch the source.
	a.Cycle()
	if src.analyzed != 0 {
		t.Errorf("source analyzed %d times before Start, want 0", src.analyzed)
	}
}

func TestAnalyzerCyclePipeline(t *testing.T) {
	src := &stubSource{rate: 44100, spectrum: bassHeavySpectrum()}
	// Alpha 1 makes smoothed == raw so a single cycle is assertable.
	a := newTestAnalyzer(t, src, Config{TransformSize: 1024, Alpha: 1})

	if err := a.Start(context.Background()); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	a.Cycle()

	energies := a.Energies()

	// Full-scale bins 0..11 cover sub-bass and bass entirely at this rate,
	// so bass combines to 1.0 while highs see silence.
	if got := energies.Combined[Bass]; math.Abs(got-1.0) > 1e-9 {
		t.Errorf("bass combined = %.6f, want 1.0", got)
	}
	if got := energies.Combined[Highs]; got != 0 {
		t.Errorf("highs combined = %.6f, want 0", got)
	}
	if got := energies.Smoothed[Bass]; math.Abs(got-1.0) > 1e-9 {
		t.Errorf("bass smoothed = %.6f, want 1.0 at alpha 1", got)
	}

	peaks := a.Peaks()
	if !peaks.Fired[Bass] {
		t.Error("expected bass transient on first loud cycle")
	}
	if peaks.Fired[Highs] {
		t.Error("highs fired with no energy")
	}
}

func TestAnalyzerCycleContainsFailure(t *testing.T) {
	src := &stubSource{rate: 44100, spectrum: bassHeavySpectrum()}
	a := newTestAnalyzer(t, src, Config{TransformSize: 1024, Alpha: 1, HistoryFrames: 8})

	if err := a.Start(context.Background()); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	a.Cycle()
	if got := a.Energies().Combined[Drums]; got == 0 {
		t.Fatal("drums combined 0 on a bass-heavy spectrum, test setup broken")
	}

	// Corrupt the drums group past its allocated band count; the next
	// cycle's energy extraction for drums must fail without taking the
	// frame down.
	a.table.Groups[Drums].Members = append(a.table.Groups[Drums].Members, "air")
	a.Cycle()

	energies := a.Energies()
	if got := energies.Combined[Drums]; got != 0 {
		t.Errorf("failed drums category combined = %.6f, want 0", got)
	}
	// The zero still flows through the smoother (alpha 1: smoothed == raw).
	if got := energies.Smoothed[Drums]; got != 0 {
		t.Errorf("failed drums category smoothed = %.6f, want 0", got)
	}
	// And into history, keeping the window advancing.
	hist := a.HistoryValues(Drums, nil)
	if len(hist) != 2 {
		t.Fatalf("drums history has %d samples, want 2", len(hist))
	}
	if hist[1] != 0 {
		t.Errorf("drums history tail = %.6f, want 0", hist[1])
	}
	// Other categories are unaffected.
	if got := energies.Combined[Bass]; math.Abs(got-1.0) > 1e-9 {
		t.Errorf("bass combined = %.6f, want 1.0", got)
	}
}

func TestAnalyzerAccessorsIdempotent(t *testing.T) {
	src := &stubSource{rate: 44100, spectrum: bassHeavySpectrum()}
	a := newTestAnalyzer(t, src, Config{TransformSize: 1024, Alpha: 0.3})

	if err := a.Start(context.Background()); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	a.Cycle()

	first := a.Energies()
	firstPeaks := a.Peaks()
	for i := 0; i < 10; i++ {
		if got := a.Energies(); got.Smoothed != first.Smoothed || got.Combined != first.Combined {
			t.Fatalf("read %d: Energies changed between cycles", i)
		}
		if got := a.Peaks(); got != firstPeaks {
			t.Fatalf("read %d: Peaks changed between cycles", i)
		}
	}
	if analyzed := src.analyzed; analyzed != 1 {
		t.Errorf("accessors pulled the source: analyzed = %d, want 1", analyzed)
	}
}

func TestAnalyzerHistory(t *testing.T) {
	src := &stubSource{rate: 44100, spectrum: bassHeavySpectrum()}
	a := newTestAnalyzer(t, src, Config{TransformSize: 1024, Alpha: 1, HistoryFrames: 8})

	if err := a.Start(context.Background()); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	for i := 0; i < 5; i++ {
		a.Cycle()
	}

	if got := a.HistoryValues(Drums, nil); len(got) != 5 {
		t.Errorf("drums history has %d samples, want 5", len(got))
	}
	if got := a.HistoryValues(Bass, nil); len(got) != 5 {
		t.Errorf("bass history has %d samples, want 5", len(got))
	}
	// Vocals and highs carry no history.
	if got := a.HistoryValues(Vocals, make([]float64, 0, 8)); len(got) != 0 {
		t.Errorf("vocals history has %d samples, want 0", len(got))
	}
}

func TestAnalyzerDispose(t *testing.T) {
	src := &stubSource{rate: 44100, spectrum: bassHeavySpectrum()}
	a := newTestAnalyzer(t, src, Config{TransformSize: 1024, Alpha: 1})

	if err := a.Start(context.Background()); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	a.Cycle()

	if err := a.Dispose(); err != nil {
		t.Fatalf("Dispose returned error: %v", err)
	}
	if a.Listening() {
		t.Error("still listening after Dispose")
	}
	if src.started {
		t.Error("source still started after Dispose")
	}

	energies := a.Energies()
	for _, c := range Categories() {
		if energies.Smoothed[c] != 0 || energies.Combined[c] != 0 {
			t.Errorf("%s energy survived Dispose", c)
		}
	}

	// Idempotent: a second Dispose must not stop the source again.
	stops := src.stops
	if err := a.Dispose(); err != nil {
		t.Errorf("second Dispose returned error: %v", err)
	}
	if src.stops != stops {
		t.Errorf("second Dispose stopped the source again (%d -> %d)", stops, src.stops)
	}
}

func TestAnalyzerCycleHotPath(t *testing.T) {
	src := &stubSource{rate: 44100, spectrum: bassHeavySpectrum()}
	a := newTestAnalyzer(t, src, Config{TransformSize: 1024})

	if err := a.Start(context.Background()); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	a.Cycle() // warm-up
	allocs := testing.AllocsPerRun(100, func() {
		a.Cycle()
	})
	if allocs > 0 {
		t.Errorf("Expected zero allocations in Cycle hot path, got %.1f", allocs)
	}
}

func BenchmarkAnalyzerCycle(b *testing.B) {
	src := &stubSource{rate: 44100, spectrum: bassHeavySpectrum()}
	a, err := NewAnalyzer(src, nil, Config{TransformSize: 1024})
	if err != nil {
		b.Fatalf("NewAnalyzer returned error: %v", err)
	}
	if err := a.Start(context.Background()); err != nil {
		b.Fatalf("Start returned error: %v", err)
	}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		a.Cycle()
	}
}
