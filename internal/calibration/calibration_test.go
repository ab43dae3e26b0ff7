package calibration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chancify/chancify/internal/factors"
	"github.com/chancify/chancify/internal/optfloat"
)

func TestLookupSubstringBothDirections(t *testing.T) {
	table := DefaultTable()

	entry, ok := table.Lookup("Harvard University")
	require.True(t, ok)
	assert.Equal(t, "ultra_selective", entry.Category)

	// Table key contained in a longer college name.
	entry, ok = table.Lookup("Harvard University - Cambridge, MA")
	require.True(t, ok)
	assert.Equal(t, 0.040, entry.AcceptanceRate)

	// College name contained in the table key.
	entry, ok = table.Lookup("harvard")
	require.True(t, ok)
	assert.Equal(t, "ultra_selective", entry.Category)

	_, ok = table.Lookup("State College of Nowhere")
	assert.False(t, ok)

	_, ok = table.Lookup("")
	assert.False(t, ok)
}

func TestLookupFirstMatchWins(t *testing.T) {
	table := NewTable([]NamedEntry{
		{Name: "university", Entry: Entry{Category: "first"}},
		{Name: "duke university", Entry: Entry{Category: "second"}},
	})

	entry, ok := table.Lookup("Duke University")
	require.True(t, ok)
	assert.Equal(t, "first", entry.Category, "earlier entries take priority")
}

func TestLookupCaseInsensitive(t *testing.T) {
	table := DefaultTable()

	entry, ok := table.Lookup("MASSACHUSETTS INSTITUTE OF TECHNOLOGY")
	require.True(t, ok)
	assert.Equal(t, "ultra_selective", entry.Category)
}

func perfectScores() factors.Set {
	s := make(factors.Set, len(factors.Universe))
	for _, f := range factors.Universe {
		s[f] = optfloat.Some(9.0)
	}
	return s
}

func TestAssessProfileStrength(t *testing.T) {
	tests := []struct {
		name      string
		academics Academics
		scores    factors.Set
		want      Strength
	}{
		{
			name: "perfect profile",
			academics: Academics{
				GPAUnweighted: optfloat.Some(3.98),
				GPAWeighted:   optfloat.Some(4.5),
				SATTotal:      optfloat.Some(1580),
			},
			scores: perfectScores(),
			want:   Perfect,
		},
		{
			name: "strong profile",
			academics: Academics{
				GPAUnweighted: optfloat.Some(3.85),
				SATTotal:      optfloat.Some(1520),
			},
			scores: factors.Set{
				factors.Grades:  optfloat.Some(9),
				factors.Rigor:   optfloat.Some(8),
				factors.Testing: optfloat.Some(8),
			},
			want: Average, // 1 + 1 points, no breadth bonus
		},
		{
			name: "strong with breadth",
			academics: Academics{
				GPAUnweighted: optfloat.Some(3.97),
				SATTotal:      optfloat.Some(1560),
			},
			scores: factors.Set{},
			want:   Strong, // 2 + 2 points
		},
		{
			name:      "below average",
			academics: Academics{GPAUnweighted: optfloat.Some(3.2)},
			scores:    factors.Set{},
			want:      BelowAverage,
		},
		{
			name:      "missing academics score nothing",
			academics: Academics{},
			scores:    factors.Set{},
			want:      BelowAverage,
		},
		{
			name:      "ACT tiers",
			academics: Academics{ACTComposite: optfloat.Some(36)},
			scores: factors.Set{
				factors.Grades:               optfloat.Some(8),
				factors.Rigor:                optfloat.Some(8),
				factors.Testing:              optfloat.Some(8),
				factors.Essay:                optfloat.Some(8),
				factors.ECsLeadership:        optfloat.Some(8),
				factors.Recommendations:      optfloat.Some(8),
				factors.MajorFit:             optfloat.Some(8),
				factors.AwardsPublications:   optfloat.Some(8),
				factors.Interview:            optfloat.Some(8),
				factors.DemonstratedInterest: optfloat.Some(8),
			},
			want: Average, // 2 + 1 points
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AssessProfileStrength(tt.academics, tt.scores))
		})
	}
}

func TestApplyShrinksAndCaps(t *testing.T) {
	entry := Entry{CalibrationFactor: 0.1, MaxProbability: 0.15}

	// Shrinkage path: 0.5 * 0.1 * 1.0 = 0.05, below the cap.
	assert.InDelta(t, 0.05, Apply(0.5, entry, Strong), 1e-9)

	// Cap path: 0.98 * 0.1 * 1.2 = 0.1176 vs cap 0.15 * 1.0 = 0.15.
	assert.InDelta(t, 0.1176, Apply(0.98, entry, Perfect), 1e-9)

	// Weak profiles shrink harder and cap lower.
	weak := Apply(0.9, entry, BelowAverage)
	strong := Apply(0.9, entry, Perfect)
	assert.Less(t, weak, strong)
}

func TestElitePropertyPerfectProfileStaysCapped(t *testing.T) {
	// An ultra-selective school with a ~4% acceptance rate must never show a
	// calibrated probability above the entry's maximum, even for a perfect
	// applicant fed a near-certain raw probability.
	table := DefaultTable()
	entry, ok := table.Lookup("Harvard University")
	require.True(t, ok)

	calibrated := Apply(0.98, entry, Perfect)
	assert.LessOrEqual(t, calibrated, entry.MaxProbability)
	assert.Greater(t, calibrated, 0.0)
}

func TestDefaultTableOrdering(t *testing.T) {
	entries := DefaultTable().Entries()
	require.NotEmpty(t, entries)

	assert.Equal(t, "massachusetts institute of technology", entries[0].Name)

	// Acceptance rates loosely rise with position; spot-check the boundary
	// between categories.
	var lastUltra, firstSelective int
	for i, ne := range entries {
		if ne.Entry.Category == "ultra_selective" {
			lastUltra = i
		}
		if ne.Entry.Category == "selective" && firstSelective == 0 {
			firstSelective = i
		}
	}
	assert.Less(t, lastUltra, firstSelective)
}
