// SPDX-License-Identifier: MIT

// Package visualizer renders the per-cycle analysis state as terminal
// art. Each renderer owns one category pane; the bubbletea model in
// model.go drives them all from a single frame tick.
package visualizer

import "github.com/escanorganic/music-viz1/internal/analysis"

// Frame is the per-cycle input every renderer receives. History slices
// are reused between frames; renderers must not retain them.
type Frame struct {
	Energies analysis.EnergySnapshot
	Peaks    analysis.PeakSnapshot
	History  [analysis.NumCategories][]float64
}

// Renderer turns frames into a drawable pane.
type Renderer interface {
	Name() string
	Update(frame Frame, width, height int)
	View() string
}

// Renderers returns one renderer per category, in category order.
func Renderers(fps int) []Renderer {
	return []Renderer{
		NewPulse(),
		NewBars(fps),
		NewWave(),
		NewSparks(),
	}
}
