// SPDX-License-Identifier: MIT
package visualizer

import "github.com/charmbracelet/harmonica"

// springBank animates a row of values toward per-column targets with a
// shared damped spring, giving bar movement a physical feel.
type springBank struct {
	spring harmonica.Spring
	pos    []float64
	vel    []float64
}

func newSpringBank(fps int, frequency, damping float64) springBank {
	if fps <= 0 {
		fps = 30
	}
	return springBank{spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping)}
}

func (s *springBank) resize(n int) {
	if len(s.pos) == n {
		return
	}
	s.pos = make([]float64, n)
	s.vel = make([]float64, n)
}

func (s *springBank) step(i int, target float64) float64 {
	p, v := s.spring.Update(s.pos[i], s.vel[i], target)
	s.pos[i] = p
	s.vel[i] = v
	return p
}
