// Package scoring converts a policy-gated factor-score set into the 0-1000
// composite used by the probability pipeline. Scores are on a 0-10 scale,
// weights are percent-like, and the composite is relative to whichever
// factors survived gating.
package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/chancify/chancify/internal/factors"
	"github.com/chancify/chancify/internal/optfloat"
)

const (
	// Cluster dampening: if two or more cluster factors score at or above
	// the trigger, every cluster factor's weight is scaled by the multiplier.
	clusterTrigger    = 8.0
	clusterMultiplier = 0.85

	// Conduct penalty: below this score, each missing point costs
	// penaltyPerPoint composite points. Max penalty 40 at conduct 0.
	conductThreshold = 5.0
	penaltyPerPoint  = 8.0
)

// Result holds the composite score and its provenance. Created once per
// scoring call and never mutated afterward.
type Result struct {
	Composite   float64          `json:"composite"`
	SumWeights  float64          `json:"sum_weights"`
	UsedFactors []factors.Factor `json:"used_factors"`
	ClusterNote string           `json:"cluster_note,omitempty"`
}

// ClampScore bounds a factor score to the valid 0-10 range.
func ClampScore(v float64) float64 {
	return math.Max(0, math.Min(10, v))
}

// Score computes the weighted composite over the active (non-absent) factors
// of a normalized set.
//
//  1. Active factors are those with a present value after normalization.
//  2. Active scores are clamped to [0,10].
//  3. Cluster dampening scales every cluster factor's weight by 0.85 when
//     two or more cluster factors score >= 8 post-clamp.
//  4. composite = weightedSum / (10 * sumActiveWeights) * 1000.
//
// The denominator uses only active-factor weights, so the composite is
// relative to the factors that survived gating rather than an absolute
// fraction of the full weight table.
func Score(normalized factors.Set, weights factors.Weights) Result {
	clamped := make(map[factors.Factor]float64, len(factors.Universe))
	used := make([]factors.Factor, 0, len(factors.Universe))

	for _, f := range factors.Universe {
		v := normalized.Get(f)
		if !v.Valid {
			continue
		}
		clamped[f] = ClampScore(v.Float64)
		used = append(used, f)
	}

	effective, note := dampenClusterWeights(clamped, weights)

	weightedSum := 0.0
	sumWeights := 0.0
	for _, f := range used {
		weightedSum += clamped[f] * effective[f]
		sumWeights += effective[f]
	}

	composite := 0.0
	if sumWeights > 0 {
		composite = weightedSum / (10.0 * sumWeights) * 1000.0
	}

	return Result{
		Composite:   composite,
		SumWeights:  sumWeights,
		UsedFactors: used,
		ClusterNote: note,
	}
}

// dampenClusterWeights applies anti-double-counting dampening. Returns the
// effective weight table and a note naming the triggering factors, or the
// original weights and an empty note when fewer than two cluster factors
// qualify.
func dampenClusterWeights(clamped map[factors.Factor]float64, weights factors.Weights) (factors.Weights, string) {
	var triggers []string
	for _, f := range factors.ClusterFactors {
		if score, ok := clamped[f]; ok && score >= clusterTrigger {
			triggers = append(triggers, string(f))
		}
	}

	if len(triggers) < 2 {
		return weights, ""
	}

	dampened := weights.Clone()
	for _, f := range factors.ClusterFactors {
		if _, ok := dampened[f]; ok {
			dampened[f] *= clusterMultiplier
		}
	}

	note := fmt.Sprintf("cluster_dampened_15pct: %s", strings.Join(triggers, ","))
	return dampened, note
}

// ApplyConductPenalty subtracts up to 40 composite points for disciplinary
// issues. A conduct score of 5 or above, or an absent score, leaves the
// composite unchanged; the result is floored at 0.
func ApplyConductPenalty(composite float64, conduct optfloat.Value) float64 {
	if !conduct.Valid || conduct.Float64 >= conductThreshold {
		return composite
	}

	penalty := (conductThreshold - conduct.Float64) * penaltyPerPoint
	return math.Max(0, composite-penalty)
}
