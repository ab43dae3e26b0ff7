// Package calibration keeps predicted probabilities realistic at highly
// selective institutions. A per-institution table supplies multiplicative
// shrinkage and a hard cap, both modulated by the applicant's assessed
// profile strength.
package calibration

import (
	"math"
	"strings"

	"github.com/rs/zerolog/log"
)

// Entry is one institution's calibration parameters. The table is read-only
// after process start.
type Entry struct {
	CalibrationFactor float64 `yaml:"calibration_factor" json:"calibration_factor"`
	MaxProbability    float64 `yaml:"max_probability" json:"max_probability"`
	AcceptanceRate    float64 `yaml:"acceptance_rate" json:"acceptance_rate"`
	Category          string  `yaml:"category" json:"category"`
}

// NamedEntry pairs a match key with its entry. Exposed for config loading.
type NamedEntry struct {
	Name  string `yaml:"name" json:"name"`
	Entry Entry  `yaml:",inline" json:"entry"`
}

// Table is an explicit ordered list of calibration entries. Match priority is
// the slice order; the first matching entry wins. Never backed by a map, so
// lookups are deterministic and unit-testable.
type Table struct {
	entries []NamedEntry
}

// NewTable builds a table preserving the given priority order.
func NewTable(entries []NamedEntry) *Table {
	copied := make([]NamedEntry, len(entries))
	copy(copied, entries)
	return &Table{entries: copied}
}

// Entries returns the table contents in priority order.
func (t *Table) Entries() []NamedEntry {
	out := make([]NamedEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Lookup finds the calibration entry for a college by case-insensitive
// substring match in either direction: the table key contained in the name,
// or the name contained in the table key.
func (t *Table) Lookup(collegeName string) (Entry, bool) {
	name := strings.ToLower(strings.TrimSpace(collegeName))
	if name == "" {
		return Entry{}, false
	}

	for _, ne := range t.entries {
		key := strings.ToLower(ne.Name)
		if strings.Contains(name, key) || strings.Contains(key, name) {
			log.Debug().
				Str("college", collegeName).
				Str("matched", ne.Name).
				Str("category", ne.Entry.Category).
				Msg("elite calibration match")
			return ne.Entry, true
		}
	}

	return Entry{}, false
}

// Strength-bucket multipliers: stronger profiles keep more of the raw
// probability and face a higher cap.
var (
	factorMultipliers = map[Strength]float64{
		Perfect:      1.2,
		Strong:       1.0,
		Average:      0.7,
		BelowAverage: 0.5,
	}
	capMultipliers = map[Strength]float64{
		Perfect:      1.0,
		Strong:       0.8,
		Average:      0.6,
		BelowAverage: 0.4,
	}
)

// Apply shrinks a probability by the entry's calibration factor and caps it
// at the entry's maximum, both scaled by the profile-strength bucket.
func Apply(probability float64, entry Entry, bucket Strength) float64 {
	factor := entry.CalibrationFactor * factorMultipliers[bucket]
	limit := entry.MaxProbability * capMultipliers[bucket]
	return math.Min(probability*factor, limit)
}

// DefaultTable returns the built-in institution list, ordered from most to
// least selective. Ordering doubles as match priority.
func DefaultTable() *Table {
	return NewTable([]NamedEntry{
		{Name: "massachusetts institute of technology", Entry: Entry{CalibrationFactor: 0.0734, MaxProbability: 0.0980, AcceptanceRate: 0.041, Category: "ultra_selective"}},
		{Name: "harvard university", Entry: Entry{CalibrationFactor: 0.0736, MaxProbability: 0.0980, AcceptanceRate: 0.040, Category: "ultra_selective"}},
		{Name: "stanford university", Entry: Entry{CalibrationFactor: 0.0736, MaxProbability: 0.0980, AcceptanceRate: 0.040, Category: "ultra_selective"}},
		{Name: "yale university", Entry: Entry{CalibrationFactor: 0.1073, MaxProbability: 0.1460, AcceptanceRate: 0.053, Category: "highly_selective"}},
		{Name: "princeton university", Entry: Entry{CalibrationFactor: 0.1094, MaxProbability: 0.1467, AcceptanceRate: 0.044, Category: "highly_selective"}},
		{Name: "columbia university", Entry: Entry{CalibrationFactor: 0.1102, MaxProbability: 0.1469, AcceptanceRate: 0.041, Category: "highly_selective"}},
		{Name: "university of pennsylvania", Entry: Entry{CalibrationFactor: 0.1058, MaxProbability: 0.1456, AcceptanceRate: 0.059, Category: "highly_selective"}},
		{Name: "dartmouth college", Entry: Entry{CalibrationFactor: 0.1051, MaxProbability: 0.1453, AcceptanceRate: 0.062, Category: "highly_selective"}},
		{Name: "brown university", Entry: Entry{CalibrationFactor: 0.1068, MaxProbability: 0.1459, AcceptanceRate: 0.055, Category: "highly_selective"}},
		{Name: "university of chicago", Entry: Entry{CalibrationFactor: 0.1044, MaxProbability: 0.1451, AcceptanceRate: 0.065, Category: "highly_selective"}},
		{Name: "cornell university", Entry: Entry{CalibrationFactor: 0.1652, MaxProbability: 0.2104, AcceptanceRate: 0.087, Category: "very_selective"}},
		{Name: "duke university", Entry: Entry{CalibrationFactor: 0.1764, MaxProbability: 0.2135, AcceptanceRate: 0.059, Category: "very_selective"}},
		{Name: "northwestern university", Entry: Entry{CalibrationFactor: 0.1720, MaxProbability: 0.2123, AcceptanceRate: 0.070, Category: "very_selective"}},
		{Name: "vanderbilt university", Entry: Entry{CalibrationFactor: 0.1716, MaxProbability: 0.2122, AcceptanceRate: 0.071, Category: "very_selective"}},
		{Name: "rice university", Entry: Entry{CalibrationFactor: 0.2835, MaxProbability: 0.2858, AcceptanceRate: 0.095, Category: "selective"}},
		{Name: "emory university", Entry: Entry{CalibrationFactor: 0.2583, MaxProbability: 0.2804, AcceptanceRate: 0.131, Category: "selective"}},
		{Name: "georgetown university", Entry: Entry{CalibrationFactor: 0.2660, MaxProbability: 0.2820, AcceptanceRate: 0.120, Category: "selective"}},
		{Name: "carnegie mellon university", Entry: Entry{CalibrationFactor: 0.2555, MaxProbability: 0.2798, AcceptanceRate: 0.135, Category: "selective"}},
		{Name: "new york university", Entry: Entry{CalibrationFactor: 0.2590, MaxProbability: 0.2805, AcceptanceRate: 0.130, Category: "selective"}},
		{Name: "boston university", Entry: Entry{CalibrationFactor: 0.4000, MaxProbability: 0.5000, AcceptanceRate: 0.190, Category: "selective"}},
	})
}
