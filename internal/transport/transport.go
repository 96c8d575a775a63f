// SPDX-License-Identifier: MIT
package transport

import (
	"time"

	"github.com/escanorganic/music-viz1/internal/analysis"
)

// Transport defines a generic interface for sending analysis snapshots.
// Implementations must be thread-safe.
type Transport interface {
	Send(data any) error
	Close() error
}

// CategoryFrame is the wire view of one category for a single cycle.
type CategoryFrame struct {
	Name     string  `json:"name"`
	Energy   float64 `json:"energy"`
	Smoothed float64 `json:"smoothed"`
	Peak     float64 `json:"peak"`
	Fired    bool    `json:"fired"`
}

// Snapshot is the JSON payload published to connected clients once per
// publish interval.
type Snapshot struct {
	Sequence   uint32                                `json:"seq"`
	Timestamp  int64                                 `json:"ts"`
	Categories [analysis.NumCategories]CategoryFrame `json:"categories"`
}

// NewSnapshot assembles a Snapshot from the analyzer's per-cycle views.
// Sequence is assigned by the publisher.
func NewSnapshot(energies analysis.EnergySnapshot, peaks analysis.PeakSnapshot) Snapshot {
	snap := Snapshot{Timestamp: time.Now().UnixNano()}
	for _, c := range analysis.Categories() {
		snap.Categories[c] = CategoryFrame{
			Name:     c.String(),
			Energy:   energies.Combined[c],
			Smoothed: energies.Smoothed[c],
			Peak:     peaks.Values[c],
			Fired:    peaks.Fired[c],
		}
	}
	return snap
}
