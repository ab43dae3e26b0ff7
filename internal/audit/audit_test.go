package audit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chancify/chancify/internal/factors"
	"github.com/chancify/chancify/internal/optfloat"
)

func activeExcept(gated ...factors.Factor) []factors.Factor {
	skip := make(map[factors.Factor]bool, len(gated))
	for _, f := range gated {
		skip[f] = true
	}
	var out []factors.Factor
	for _, f := range factors.Universe {
		if !skip[f] {
			out = append(out, f)
		}
	}
	return out
}

func TestBuildCoversFullUniverse(t *testing.T) {
	rows := Build(factors.Set{}, factors.DefaultWeights, activeExcept())

	require.Len(t, rows, len(factors.Universe))
	for i, row := range rows {
		assert.Equal(t, factors.Universe[i], row.Factor, "rows follow universe order")
	}
}

func TestBuildGatedFactors(t *testing.T) {
	raw := factors.Set{factors.Testing: optfloat.Some(9.5)}
	rows := Build(raw, factors.DefaultWeights, activeExcept(factors.Testing, factors.AbilityToPay))

	byFactor := make(map[factors.Factor]Row, len(rows))
	for _, r := range rows {
		byFactor[r.Factor] = r
	}

	testing := byFactor[factors.Testing]
	assert.Nil(t, testing.Score, "gated factor has no score even if supplied")
	assert.Nil(t, testing.Contribution)
	assert.Equal(t, NotePolicyGated, testing.Note)

	pay := byFactor[factors.AbilityToPay]
	assert.Equal(t, NotePolicyGated, pay.Note)
}

func TestBuildAnnotations(t *testing.T) {
	raw := factors.Set{
		factors.Grades: optfloat.Some(9.2),
		factors.Essay:  optfloat.Some(2.0),
		factors.Rigor:  optfloat.Some(5.0), // supplied 5.0 is not a default
	}
	rows := Build(raw, factors.DefaultWeights, activeExcept())

	byFactor := make(map[factors.Factor]Row, len(rows))
	for _, r := range rows {
		byFactor[r.Factor] = r
	}

	assert.Equal(t, NoteStrength, byFactor[factors.Grades].Note)
	assert.Equal(t, NoteConcern, byFactor[factors.Essay].Note)
	assert.Empty(t, byFactor[factors.Rigor].Note, "explicit 5.0 is not a neutral default")
	assert.Equal(t, NoteNeutralDefault, byFactor[factors.Interview].Note)
}

func TestBuildContributionUsesUndampenedWeight(t *testing.T) {
	// Two high cluster factors would dampen composite weights, but the
	// audit display keeps the original weights.
	raw := factors.Set{
		factors.ECsLeadership:      optfloat.Some(9.0),
		factors.AwardsPublications: optfloat.Some(9.0),
	}
	rows := Build(raw, factors.DefaultWeights, activeExcept())

	for _, r := range rows {
		if r.Factor == factors.ECsLeadership {
			require.NotNil(t, r.Contribution)
			assert.InDelta(t, 9.0*factors.DefaultWeights[factors.ECsLeadership], *r.Contribution, 1e-9)
		}
	}
}

func TestBuildClampsScores(t *testing.T) {
	raw := factors.Set{factors.Grades: optfloat.Some(42)}
	rows := Build(raw, factors.DefaultWeights, activeExcept())

	for _, r := range rows {
		if r.Factor == factors.Grades {
			require.NotNil(t, r.Score)
			assert.Equal(t, 10.0, *r.Score)
		}
	}
}

func TestStrengthsAndWeaknesses(t *testing.T) {
	raw := factors.Set{
		factors.Grades:  optfloat.Some(9.5),
		factors.Rigor:   optfloat.Some(8.0),
		factors.Testing: optfloat.Some(7.5),
		factors.Essay:   optfloat.Some(2.0),
	}
	rows := Build(raw, factors.DefaultWeights, activeExcept())

	insights := StrengthsAndWeaknesses(rows, 3)

	require.Len(t, insights.Strengths, 3)
	assert.Equal(t, "grades (9.5/10)", insights.Strengths[0])
	assert.Equal(t, "rigor (8.0/10)", insights.Strengths[1])
	assert.Equal(t, "testing (7.5/10)", insights.Strengths[2])

	// Weakest entries are the bottom of the sorted list, bounded at <= 6.
	require.NotEmpty(t, insights.Weaknesses)
	assert.Contains(t, insights.Weaknesses, "essay (2.0/10)")
	for _, w := range insights.Weaknesses {
		assert.NotContains(t, w, "grades")
	}
}

func TestStrengthsRequireHighScores(t *testing.T) {
	raw := factors.Set{factors.Grades: optfloat.Some(6.5)}
	rows := Build(raw, factors.DefaultWeights, activeExcept())

	insights := StrengthsAndWeaknesses(rows, 3)
	assert.Empty(t, insights.Strengths, "no factor reaches the 7.0 strength bar")
}

func TestReportJSONRounding(t *testing.T) {
	score := 9.2345
	contrib := 184.6912
	report := Report{
		CompositeScore:     742.5678,
		Probability:        0.18349,
		AcceptanceRate:     0.0995,
		PercentileEstimate: 68.04,
		FactorBreakdown: []Row{
			{Factor: factors.Grades, Weight: 20, Score: &score, Contribution: &contrib},
		},
		PolicyNotes: []string{"test-optional policy"},
	}

	data, err := json.Marshal(report)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, 742.6, decoded["composite_score"])
	assert.Equal(t, 0.183, decoded["probability"])
	assert.Equal(t, 0.1, decoded["acceptance_rate"])
	assert.Equal(t, 68.0, decoded["percentile_estimate"])

	rows := decoded["factor_breakdown"].([]interface{})
	first := rows[0].(map[string]interface{})
	assert.Equal(t, 9.2, first["score_0_to_10"])
	assert.Equal(t, 184.69, first["weighted_contribution"])
}

func TestFormatReport(t *testing.T) {
	score := 9.0
	contrib := 180.0
	report := Report{
		CompositeScore:     900,
		Probability:        0.75,
		AcceptanceRate:     0.5,
		PercentileEstimate: 90,
		FactorBreakdown: []Row{
			{Factor: factors.Grades, Weight: 20, Score: &score, Contribution: &contrib, Note: NoteStrength},
			{Factor: factors.Testing, Weight: 12, Note: NotePolicyGated},
		},
		PolicyNotes: []string{"test-blind policy: standardized testing not used"},
	}

	text := FormatReport(report)
	assert.Contains(t, text, "900.0 / 1000")
	assert.Contains(t, text, "75.0%")
	assert.Contains(t, text, "N/A")
	assert.Contains(t, text, NotePolicyGated)
	assert.Contains(t, text, "POLICY NOTES")
}
