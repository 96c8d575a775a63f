// SPDX-License-Identifier: MIT
package visualizer

import (
	"strings"

	"github.com/escanorganic/music-viz1/internal/analysis"
)

var barChars = []rune(" ▁▂▃▄▅▆▇█")

// Bars renders the vocals category as spring-animated vertical bars: one
// bar per member band plus a wider combined bar in the middle.
type Bars struct {
	springs springBank
	targets []float64
	color   string
	output  string
}

// NewBars creates the vocals bars renderer. fps must match the frame
// tick so the spring time base is right.
func NewBars(fps int) *Bars {
	return &Bars{
		springs: newSpringBank(fps, 6.0, 0.6),
		color:   "#E0B84C",
	}
}

func (b *Bars) Name() string { return "vocals bars" }

func (b *Bars) Update(frame Frame, width, height int) {
	bands := frame.Energies.Bands[analysis.Vocals]
	combined := clamp01(frame.Energies.Smoothed[analysis.Vocals])

	// Band energies on the outside, the combined value in the middle.
	n := len(bands) + 1
	if cap(b.targets) < n {
		b.targets = make([]float64, n)
	}
	b.targets = b.targets[:0]
	for i, e := range bands {
		b.targets = append(b.targets, clamp01(e))
		if i == len(bands)/2-1 {
			b.targets = append(b.targets, combined)
		}
	}
	if len(b.targets) < n {
		b.targets = append(b.targets, combined)
	}

	b.springs.resize(len(b.targets))

	if height < 2 {
		height = 2
	}
	if width < len(b.targets) {
		width = len(b.targets)
	}
	colWidth := width / len(b.targets)

	levels := make([]float64, len(b.targets))
	for i, t := range b.targets {
		levels[i] = clamp01(b.springs.step(i, t))
	}

	var sb strings.Builder
	for y := 0; y < height; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		rowLevel := float64(height-y) / float64(height)
		for _, level := range levels {
			cell := barCell(level, rowLevel, height)
			style := rampStyle(b.color, 0.3+0.7*level)
			sb.WriteString(style.Render(strings.Repeat(string(cell), colWidth)))
		}
	}
	b.output = sb.String()
}

// barCell picks the partial block rune for one cell of a vertical bar.
func barCell(level, rowLevel float64, height int) rune {
	if level >= rowLevel {
		return barChars[len(barChars)-1]
	}
	// Fractional cell at the bar tip.
	gap := (rowLevel - level) * float64(height)
	if gap < 1 {
		idx := int((1 - gap) * float64(len(barChars)-1))
		return barChars[idx]
	}
	return barChars[0]
}

func (b *Bars) View() string { return b.output }
