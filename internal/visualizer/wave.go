// SPDX-License-Identifier: MIT
package visualizer

import (
	"strings"

	"github.com/escanorganic/music-viz1/internal/analysis"
)

// Wave renders the bass category's energy history as a scrolling line,
// oldest frame on the left, newest on the right.
type Wave struct {
	color  string
	output string
}

// NewWave creates the bass wave renderer.
func NewWave() *Wave {
	return &Wave{color: "#7D1128"}
}

func (w *Wave) Name() string { return "bass wave" }

func (w *Wave) Update(frame Frame, width, height int) {
	history := frame.History[analysis.Bass]

	if width < 2 {
		width = 2
	}
	if height < 2 {
		height = 2
	}

	// Resample history onto the pane width; missing frames stay at zero
	// so the wave grows in from the right.
	levels := make([]float64, width)
	if len(history) > 0 {
		for x := 0; x < width; x++ {
			idx := x * len(history) / width
			levels[x] = clamp01(history[idx])
		}
	}

	var sb strings.Builder
	for y := 0; y < height; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		// Row y covers levels in (rowLo, rowHi].
		rowHi := float64(height-y) / float64(height)
		rowLo := float64(height-y-1) / float64(height)
		for _, level := range levels {
			switch {
			case level > rowLo && level <= rowHi:
				sb.WriteString(rampStyle(w.color, 0.4+0.6*level).Render("▄"))
			case level > rowHi:
				sb.WriteString(rampStyle(w.color, 0.2+0.3*level).Render("│"))
			default:
				if y == height-1 {
					sb.WriteString(dimStyle.Render("·"))
				} else {
					sb.WriteByte(' ')
				}
			}
		}
	}
	w.output = sb.String()
}

func (w *Wave) View() string { return w.output }
