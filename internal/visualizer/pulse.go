// SPDX-License-Identifier: MIT
package visualizer

import (
	"strings"

	"github.com/escanorganic/music-viz1/internal/analysis"
)

// Pulse renders the drums category as a block that flashes on a detected
// transient and fades back over subsequent frames.
type Pulse struct {
	level  float64 // flash envelope, decays toward the smoothed energy
	color  string
	accent string
	output string
}

// NewPulse creates the drums pulse renderer.
func NewPulse() *Pulse {
	return &Pulse{color: "#C3423F", accent: "#FF6B6B"}
}

func (p *Pulse) Name() string { return "drums pulse" }

func (p *Pulse) Update(frame Frame, width, height int) {
	smoothed := clamp01(frame.Energies.Smoothed[analysis.Drums])

	// A fired peak snaps the envelope to full; otherwise it relaxes
	// toward the smoothed energy.
	if frame.Peaks.Fired[analysis.Drums] {
		p.level = 1.0
	} else {
		const release = 0.85
		p.level = p.level*release + smoothed*(1-release)
	}

	if width < 4 {
		width = 4
	}
	if height < 3 {
		height = 3
	}

	// Centered block whose size follows the envelope.
	blockW := 2 + int(p.level*float64(width-4))
	blockH := 1 + int(p.level*float64(height-2))
	padX := (width - blockW) / 2
	padY := (height - blockH) / 2

	base := p.color
	if frame.Peaks.Fired[analysis.Drums] {
		base = p.accent
	}
	style := rampStyle(base, 0.3+0.7*p.level)
	row := strings.Repeat(" ", padX) + style.Render(strings.Repeat("█", blockW))

	var sb strings.Builder
	for y := 0; y < height; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		if y >= padY && y < padY+blockH {
			sb.WriteString(row)
		}
	}
	p.output = sb.String()
}

func (p *Pulse) View() string { return p.output }
