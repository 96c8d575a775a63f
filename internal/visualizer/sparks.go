// SPDX-License-Identifier: MIT
package visualizer

import (
	"math/rand"
	"strings"

	"github.com/escanorganic/music-viz1/internal/analysis"
)

var sparkChars = []rune{'·', '+', '✦', '✸'}

type spark struct {
	x, y int
	life float64
}

// Sparks renders the highs category as short-lived glints: the brighter
// the high end, the more sparks appear per frame.
type Sparks struct {
	sparks []spark
	rng    *rand.Rand
	color  string
	output string
}

// NewSparks creates the highs sparks renderer.
func NewSparks() *Sparks {
	return &Sparks{
		rng:   rand.New(rand.NewSource(1)),
		color: "#4C86A8",
	}
}

func (s *Sparks) Name() string { return "highs sparks" }

func (s *Sparks) Update(frame Frame, width, height int) {
	energy := clamp01(frame.Energies.Smoothed[analysis.Highs])

	if width < 2 {
		width = 2
	}
	if height < 2 {
		height = 2
	}

	// Age out existing sparks.
	const fade = 0.15
	alive := s.sparks[:0]
	for _, sp := range s.sparks {
		sp.life -= fade
		if sp.life > 0 && sp.x < width && sp.y < height {
			alive = append(alive, sp)
		}
	}
	s.sparks = alive

	// Spawn proportionally to the high-end energy, with a burst on a
	// fired transient.
	spawn := int(energy * float64(width*height) / 8)
	if frame.Peaks.Fired[analysis.Highs] {
		spawn += width / 2
	}
	for i := 0; i < spawn; i++ {
		s.sparks = append(s.sparks, spark{
			x:    s.rng.Intn(width),
			y:    s.rng.Intn(height),
			life: 0.5 + s.rng.Float64()*0.5,
		})
	}

	// Paint onto a rune grid, brightest spark wins per cell.
	grid := make([]float64, width*height)
	for _, sp := range s.sparks {
		if cell := sp.y*width + sp.x; grid[cell] < sp.life {
			grid[cell] = sp.life
		}
	}

	var sb strings.Builder
	for y := 0; y < height; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < width; x++ {
			life := grid[y*width+x]
			if life <= 0 {
				sb.WriteByte(' ')
				continue
			}
			ch := sparkChars[int(life*float64(len(sparkChars)-1))]
			sb.WriteString(rampStyle(s.color, life).Render(string(ch)))
		}
	}
	s.output = sb.String()
}

func (s *Sparks) View() string { return s.output }
