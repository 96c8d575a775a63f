// SPDX-License-Identifier: MIT
/*
Package analysis decomposes a live magnitude spectrum into musically
meaningful band energies and per-category transient signals.

The pipeline per cycle is fixed: pull one spectrum snapshot, average the
magnitudes of each group's member bands over precomputed bin ranges,
combine them by weight, fold the result into a per-category moving
average and history buffer, then run peak detection on the smoothed
value. Consumers read the published snapshot between cycles; nothing in
the hot path allocates or blocks.
*/
package analysis

import (
	"context"
	"fmt"

	applog "github.com/escanorganic/music-viz1/internal/log"
)

// SpectrumSource is the external audio subsystem the analyzer pulls from.
// Analyze returns the current magnitude spectrum as a fixed-length slice
// (transform size / 2 bins) with values in [0, 255]. Start acquires the
// input device; a device-access failure is returned as an ordinary error
// for the host to retry, never a panic.
type SpectrumSource interface {
	Start(ctx context.Context) error
	Stop() error
	SampleRate() float64
	Analyze() []float64
}

// Config carries the analyzer tuning parameters. Zero values select the
// package defaults.
type Config struct {
	TransformSize int     // FFT size used by the source
	Alpha         float64 // energy smoothing factor
	PeakDecay     float64 // peak memory decay per cycle
	PeakThreshold float64 // absolute transient floor
	HistoryFrames int     // raw-energy history window length
}

// EnergySnapshot is the published per-cycle energy view. The Bands slices
// are shared with the analyzer's internal state: consumers must treat them
// as read-only.
type EnergySnapshot struct {
	Smoothed [NumCategories]float64
	Combined [NumCategories]float64
	Bands    [NumCategories][]float64
}

// PeakSnapshot is the published per-cycle transient view.
type PeakSnapshot struct {
	Values [NumCategories]float64
	Fired  [NumCategories]bool
}

// Analyzer orchestrates one analysis cycle per host frame. It owns all
// per-category state exclusively; there is exactly one writer (the host's
// frame loop) and readers only observe the published snapshot between
// cycles, so no locking is involved.
type Analyzer struct {
	cfg    Config
	source SpectrumSource
	table  *BandTable

	// Read-only after Start; rebuilt only on Reconfigure.
	ranges map[string]BinRange

	smoother  *Smoother
	peaks     *PeakDetector
	histories [NumCategories]*History

	bandEnergies [NumCategories][]float64
	combined     [NumCategories]float64

	listening bool
}

// NewAnalyzer wires an analyzer to a spectrum source using the given band
// table (nil selects DefaultTable). The table is validated up front; a
// malformed table is a programmer error and fails construction.
func NewAnalyzer(source SpectrumSource, table *BandTable, cfg Config) (*Analyzer, error) {
	if source == nil {
		return nil, fmt.Errorf("analyzer requires a spectrum source")
	}
	if table == nil {
		table = DefaultTable()
	}
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("invalid band table: %w", err)
	}
	if cfg.HistoryFrames < 1 {
		cfg.HistoryFrames = DefaultHistoryFrames
	}

	a := &Analyzer{
		cfg:      cfg,
		source:   source,
		table:    table,
		smoother: NewSmoother(cfg.Alpha),
		peaks:    NewPeakDetector(cfg.PeakDecay, cfg.PeakThreshold),
	}

	// Only the percussive categories carry history; the wave renderers
	// that consume it have no use for vocal or treble trails.
	a.histories[Drums] = NewHistory(cfg.HistoryFrames)
	a.histories[Bass] = NewHistory(cfg.HistoryFrames)

	for _, c := range Categories() {
		a.bandEnergies[c] = make([]float64, len(table.Groups[c].Members))
	}

	return a, nil
}

// Start acquires the input device and prepares the bin mapping for the
// detected sample rate. It must complete before the first Cycle is
// meaningful. Device-access failure is recoverable: the host may prompt
// the user and call Start again.
func (a *Analyzer) Start(ctx context.Context) error {
	if a.listening {
		return nil
	}

	if err := a.source.Start(ctx); err != nil {
		return fmt.Errorf("spectrum source start: %w", err)
	}

	if err := a.remap(); err != nil {
		// Misconfiguration, not a device problem. Release the device
		// before reporting.
		_ = a.source.Stop()
		return err
	}

	a.listening = true
	applog.Infof("Analysis: listening at %.0f Hz, transform size %d", a.source.SampleRate(), a.cfg.TransformSize)
	return nil
}

// Reconfigure rebuilds the bin mapping from the source's current sample
// rate, e.g. after an input device change.
func (a *Analyzer) Reconfigure() error {
	return a.remap()
}

func (a *Analyzer) remap() error {
	ranges, err := MapAll(a.table, a.source.SampleRate(), a.cfg.TransformSize)
	if err != nil {
		return fmt.Errorf("bin mapping: %w", err)
	}
	a.ranges = ranges
	return nil
}

// Cycle runs one full analysis pass: spectrum pull, per-band energies,
// weighted combination, smoothing, history, peak detection. Call exactly
// once per rendered frame. A no-op unless listening. Within a cycle,
// raw-energy computation strictly precedes smoothing, which strictly
// precedes peak detection, for every category.
func (a *Analyzer) Cycle() {
	if !a.listening {
		return
	}

	spectrum := a.source.Analyze()

	for _, c := range Categories() {
		a.cycleCategory(c, spectrum)
	}
}

// cycleCategory updates one category. Energy extraction is guarded; a
// failed category contributes zero raw energy for the frame, and that zero
// still flows through the smoother, history, and peak detector so their
// state keeps advancing.
func (a *Analyzer) cycleCategory(c Category, spectrum []float64) {
	raw := a.rawEnergy(c, spectrum)
	a.combined[c] = raw

	smoothed := a.smoother.Update(c, raw)
	if h := a.histories[c]; h != nil {
		h.Push(raw)
	}

	a.peaks.Detect(c, smoothed)
}

// rawEnergy computes the weighted group energy for c. A panic is contained
// to this category: its per-band energies reset and the frame reads as 0.
func (a *Analyzer) rawEnergy(c Category, spectrum []float64) (energy float64) {
	defer func() {
		if r := recover(); r != nil {
			applog.Errorf("Analysis: %s energy extraction failed: %v", c, r)
			for i := range a.bandEnergies[c] {
				a.bandEnergies[c][i] = 0
			}
			energy = 0
		}
	}()

	group := a.table.Groups[c]
	for i, name := range group.Members {
		a.bandEnergies[c][i] = AverageEnergy(spectrum, a.ranges[name])
	}
	return WeightedCombine(a.bandEnergies[c], group.Weights)
}

// Energies returns the current energy snapshot. Reading between cycles is
// idempotent; the Bands slices are shared, not copied.
func (a *Analyzer) Energies() EnergySnapshot {
	snap := EnergySnapshot{
		Combined: a.combined,
		Bands:    a.bandEnergies,
	}
	for _, c := range Categories() {
		snap.Smoothed[c] = a.smoother.Value(c)
	}
	return snap
}

// Peaks returns the current transient snapshot. Idempotent between cycles.
func (a *Analyzer) Peaks() PeakSnapshot {
	var snap PeakSnapshot
	for _, c := range Categories() {
		snap.Values[c] = a.peaks.Value(c)
		snap.Fired[c] = a.peaks.Fired(c)
	}
	return snap
}

// HistoryValues copies the raw-energy history for c into dst oldest-first.
// Categories without history return dst[:0].
func (a *Analyzer) HistoryValues(c Category, dst []float64) []float64 {
	h := a.histories[c]
	if h == nil {
		return dst[:0]
	}
	return h.Values(dst)
}

// Table returns the band table the analyzer was built with.
func (a *Analyzer) Table() *BandTable { return a.table }

// Listening reports whether Start has completed and Cycle is live.
func (a *Analyzer) Listening() bool { return a.listening }

// Dispose releases the input device and clears all per-category state.
// Idempotent and safe to call multiple times; also registered as a
// cleanup hook by hosts that run a background memory monitor.
func (a *Analyzer) Dispose() error {
	if !a.listening {
		return nil
	}
	a.listening = false

	a.smoother.Reset()
	a.peaks.Reset()
	for _, h := range a.histories {
		if h != nil {
			h.Reset()
		}
	}
	for _, c := range Categories() {
		clear(a.bandEnergies[c])
	}
	a.combined = [NumCategories]float64{}

	if err := a.source.Stop(); err != nil {
		return fmt.Errorf("spectrum source stop: %w", err)
	}
	return nil
}
