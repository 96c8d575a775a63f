// SPDX-License-Identifier: MIT
package analysis

// Category identifies one of the four perceptual groupings the analyzer
// tracks. The set is closed: per-category state lives in fixed-size arrays
// indexed by Category, so a typo'd category is a compile error rather than
// a silent map miss.
type Category uint8

const (
	Drums Category = iota
	Vocals
	Bass
	Highs

	// NumCategories sizes per-category state arrays.
	NumCategories = 4
)

// String returns the lowercase category name.
func (c Category) String() string {
	switch c {
	case Drums:
		return "drums"
	case Vocals:
		return "vocals"
	case Bass:
		return "bass"
	case Highs:
		return "highs"
	default:
		return "unknown"
	}
}

// Categories returns all categories in their fixed update order.
func Categories() [NumCategories]Category {
	return [NumCategories]Category{Drums, Vocals, Bass, Highs}
}

// FrequencyBand is a named contiguous frequency range of interest.
// Bands are defined once at startup and never mutated.
type FrequencyBand struct {
	Name  string
	MinHz float64
	MaxHz float64
	Color string // display hint for renderers, hex
}

// BandGroup maps a Category onto a weighted set of member bands.
// Weights are applied in declared order and are expected to sum to 1.0;
// the combiner performs no implicit normalization.
type BandGroup struct {
	Name         string
	Members      []string
	Weights      []float64
	PrimaryColor string
	AccentColor  string
}

// BandTable holds the full band and group definitions used by an Analyzer.
type BandTable struct {
	Bands  []FrequencyBand
	Groups [NumCategories]BandGroup
}

// DefaultTable returns the standard eight-band split and the four
// perceptual groups built on top of it.
func DefaultTable() *BandTable {
	return &BandTable{
		Bands: []FrequencyBand{
			{Name: "subbass", MinHz: 20, MaxHz: 60, Color: "#7D1128"},
			{Name: "bass", MinHz: 60, MaxHz: 250, Color: "#C3423F"},
			{Name: "lowmid", MinHz: 250, MaxHz: 500, Color: "#D9762B"},
			{Name: "mid", MinHz: 500, MaxHz: 2000, Color: "#E0B84C"},
			{Name: "highmid", MinHz: 2000, MaxHz: 4000, Color: "#6BA368"},
			{Name: "presence", MinHz: 4000, MaxHz: 6000, Color: "#4C86A8"},
			{Name: "brilliance", MinHz: 6000, MaxHz: 16000, Color: "#7A6BA3"},
			{Name: "air", MinHz: 16000, MaxHz: 20000, Color: "#B8B8D1"},
		},
		Groups: [NumCategories]BandGroup{
			Drums: {
				Name:         "drums",
				Members:      []string{"subbass", "bass", "lowmid"},
				Weights:      []float64{0.5, 0.3, 0.2},
				PrimaryColor: "#C3423F",
				AccentColor:  "#FF6B6B",
			},
			Vocals: {
				Name:         "vocals",
				Members:      []string{"mid", "highmid"},
				Weights:      []float64{0.6, 0.4},
				PrimaryColor: "#E0B84C",
				AccentColor:  "#FFE066",
			},
			Bass: {
				Name:         "bass",
				Members:      []string{"subbass", "bass"},
				Weights:      []float64{0.6, 0.4},
				PrimaryColor: "#7D1128",
				AccentColor:  "#C3423F",
			},
			Highs: {
				Name:         "highs",
				Members:      []string{"presence", "brilliance", "air"},
				Weights:      []float64{0.4, 0.4, 0.2},
				PrimaryColor: "#4C86A8",
				AccentColor:  "#9AD1D4",
			},
		},
	}
}

// Band looks up a band definition by name.
func (t *BandTable) Band(name string) (FrequencyBand, bool) {
	for _, b := range t.Bands {
		if b.Name == name {
			return b, true
		}
	}
	return FrequencyBand{}, false
}

// Validate checks the structural invariants of the table: every band has
// 0 <= MinHz < MaxHz, every group references defined bands, and weight
// counts match member counts.
func (t *BandTable) Validate() error {
	for _, b := range t.Bands {
		if b.MinHz < 0 || b.MinHz >= b.MaxHz {
			return &TableError{Band: b.Name, Reason: "requires 0 <= min < max"}
		}
	}
	for _, g := range t.Groups {
		if len(g.Members) == 0 {
			return &TableError{Group: g.Name, Reason: "has no member bands"}
		}
		if len(g.Weights) != len(g.Members) {
			return &TableError{Group: g.Name, Reason: "weight count does not match member count"}
		}
		for _, name := range g.Members {
			if _, ok := t.Band(name); !ok {
				return &TableError{Group: g.Name, Reason: "references undefined band " + name}
			}
		}
	}
	return nil
}

// TableError reports an invalid band or group definition.
type TableError struct {
	Band   string
	Group  string
	Reason string
}

func (e *TableError) Error() string {
	if e.Band != "" {
		return "band " + e.Band + " " + e.Reason
	}
	return "group " + e.Group + " " + e.Reason
}
