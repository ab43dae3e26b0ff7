package factors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chancify/chancify/internal/optfloat"
)

func TestNormalizeFillsNeutralDefaults(t *testing.T) {
	out := Normalize(Set{}, Policy{UsesTesting: true, NeedAware: true}, true)

	require.Len(t, out, len(Universe))
	for _, f := range Universe {
		v := out[f]
		require.True(t, v.Valid, "factor %s should default", f)
		assert.Equal(t, Neutral, v.Float64, "factor %s", f)
	}
}

func TestNormalizeTestBlindExcludesTesting(t *testing.T) {
	// A supplied testing score must be excluded, not merely defaulted.
	in := Set{
		Testing: optfloat.Some(9.5),
		Grades:  optfloat.Some(8.0),
	}
	out := Normalize(in, Policy{UsesTesting: false, NeedAware: true}, true)

	assert.False(t, out[Testing].Valid, "testing must be gated out")
	assert.Equal(t, optfloat.Some(8.0), out[Grades])
	assert.Equal(t, optfloat.Some(Neutral), out[Essay])
}

func TestNormalizeNeedBlindExcludesAbilityToPay(t *testing.T) {
	in := Set{AbilityToPay: optfloat.Some(10)}
	out := Normalize(in, Policy{UsesTesting: true, NeedAware: false}, true)

	assert.False(t, out[AbilityToPay].Valid)
}

func TestNormalizeWithoutNeutralDefaults(t *testing.T) {
	in := Set{Grades: optfloat.Some(7.0)}
	out := Normalize(in, Policy{UsesTesting: true, NeedAware: true}, false)

	require.Len(t, out, len(Universe))
	assert.Equal(t, optfloat.Some(7.0), out[Grades])
	assert.False(t, out[Essay].Valid, "missing factors stay absent")
}

func TestNormalizeKeepsOutOfRangeForScorer(t *testing.T) {
	// Out-of-range values pass through; clamping is the scorer's job.
	in := Set{Grades: optfloat.Some(14.0)}
	out := Normalize(in, Policy{UsesTesting: true, NeedAware: true}, true)

	assert.Equal(t, optfloat.Some(14.0), out[Grades])
}

func TestDefaultWeightsValid(t *testing.T) {
	require.NoError(t, DefaultWeights.Validate())
}

func TestWeightsValidateRejectsGaps(t *testing.T) {
	w := DefaultWeights.Clone()
	delete(w, Essay)
	assert.Error(t, w.Validate())

	w = DefaultWeights.Clone()
	w[Essay] = -1
	assert.Error(t, w.Validate())

	w = DefaultWeights.Clone()
	w[Essay] += 5
	assert.Error(t, w.Validate())
}

func TestClusterMembership(t *testing.T) {
	assert.True(t, IsCluster(ECsLeadership))
	assert.True(t, IsCluster(AwardsPublications))
	assert.False(t, IsCluster(Grades))
	assert.False(t, IsCluster(Testing))
}
