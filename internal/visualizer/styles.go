// SPDX-License-Identifier: MIT
package visualizer

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/escanorganic/music-viz1/pkg/lru"
)

var (
	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#FFFFFF"})

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#999999", Dark: "#666666"})

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#555555"))
)

// rampSteps quantizes intensity so the style cache stays tiny.
const rampSteps = 16

// styleCache holds one style per (base color, intensity step) pair.
// Purged by the memwatch sweep via PurgeStyles.
var styleCache = lru.New[string, lipgloss.Style](256)

// PurgeStyles drops all cached ramp styles. Registered as a cleanup hook.
func PurgeStyles() error {
	styleCache.Purge()
	return nil
}

// rampStyle returns a foreground style for base faded toward black by
// 1-intensity. Intensity is clamped to [0,1].
func rampStyle(base string, intensity float64) lipgloss.Style {
	if intensity < 0 {
		intensity = 0
	}
	if intensity > 1 {
		intensity = 1
	}
	step := int(intensity * (rampSteps - 1))

	key := fmt.Sprintf("%s/%d", base, step)
	return styleCache.GetOrCompute(key, func() lipgloss.Style {
		r, g, b := parseHex(base)
		t := float64(step) / (rampSteps - 1)
		faded := fmt.Sprintf("#%02x%02x%02x",
			uint8(float64(r)*t), uint8(float64(g)*t), uint8(float64(b)*t))
		return lipgloss.NewStyle().Foreground(lipgloss.Color(faded))
	})
}

func parseHex(hex string) (r, g, b int) {
	fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &b)
	return r, g, b
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
