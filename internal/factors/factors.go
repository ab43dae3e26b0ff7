// Package factors defines the fixed admission factor universe, the constant
// factor weights, and the policy-gated normalization that every scoring call
// runs through first.
package factors

import (
	"fmt"
	"math"
)

// Factor identifies one admission factor on the 0-10 scale.
type Factor string

const (
	Grades               Factor = "grades"
	Rigor                Factor = "rigor"
	Testing              Factor = "testing"
	Essay                Factor = "essay"
	ECsLeadership        Factor = "ecs_leadership"
	Recommendations      Factor = "recommendations"
	PlanTiming           Factor = "plan_timing"
	AthleticRecruit      Factor = "athletic_recruit"
	MajorFit             Factor = "major_fit"
	GeographyResidency   Factor = "geography_residency"
	FirstGenDiversity    Factor = "firstgen_diversity"
	AbilityToPay         Factor = "ability_to_pay"
	AwardsPublications   Factor = "awards_publications"
	PortfolioAudition    Factor = "portfolio_audition"
	PolicyKnob           Factor = "policy_knob"
	DemonstratedInterest Factor = "demonstrated_interest"
	Legacy               Factor = "legacy"
	Interview            Factor = "interview"
	ConductRecord        Factor = "conduct_record"
	HSReputation         Factor = "hs_reputation"
)

// Universe lists every factor in evaluation order. The order is fixed so
// used-factor lists and audit rows come out deterministic.
var Universe = []Factor{
	Grades,
	Rigor,
	Testing,
	Essay,
	ECsLeadership,
	Recommendations,
	PlanTiming,
	AthleticRecruit,
	MajorFit,
	GeographyResidency,
	FirstGenDiversity,
	AbilityToPay,
	AwardsPublications,
	PortfolioAudition,
	PolicyKnob,
	DemonstratedInterest,
	Legacy,
	Interview,
	ConductRecord,
	HSReputation,
}

// ClusterFactors are the achievement/leadership-correlated factors subject to
// anti-double-counting dampening. Several simultaneously-high signals in this
// group usually describe the same underlying achievement.
var ClusterFactors = []Factor{
	ECsLeadership,
	AwardsPublications,
	AthleticRecruit,
	PortfolioAudition,
}

// Weights maps each factor to its percent-like weight.
type Weights map[Factor]float64

// DefaultWeights is the production weight table. Weights sum to 100.
var DefaultWeights = Weights{
	Grades:               20,
	Rigor:                10,
	Testing:              12,
	Essay:                8,
	ECsLeadership:        8,
	Recommendations:      5,
	PlanTiming:           2,
	AthleticRecruit:      3,
	MajorFit:             3,
	GeographyResidency:   2,
	FirstGenDiversity:    2,
	AbilityToPay:         2,
	AwardsPublications:   5,
	PortfolioAudition:    2,
	PolicyKnob:           1,
	DemonstratedInterest: 3,
	Legacy:               2,
	Interview:            3,
	ConductRecord:        4,
	HSReputation:         3,
}

// weightSumTolerance allows for floating point drift when validating
// configured weights against the expected total of 100.
const weightSumTolerance = 0.01

// Validate checks that the weight table covers exactly the factor universe,
// has no negative entries, and sums to approximately 100.
func (w Weights) Validate() error {
	if len(w) != len(Universe) {
		return fmt.Errorf("weights cover %d factors, universe has %d", len(w), len(Universe))
	}

	sum := 0.0
	for _, f := range Universe {
		weight, ok := w[f]
		if !ok {
			return fmt.Errorf("missing weight for factor %q", f)
		}
		if weight < 0 {
			return fmt.Errorf("negative weight %f for factor %q", weight, f)
		}
		sum += weight
	}

	if math.Abs(sum-100.0) > weightSumTolerance {
		return fmt.Errorf("weights sum to %f, expected ~100", sum)
	}

	return nil
}

// Clone returns a copy so callers can derive effective weights without
// touching the shared table.
func (w Weights) Clone() Weights {
	out := make(Weights, len(w))
	for f, v := range w {
		out[f] = v
	}
	return out
}

// IsCluster reports whether f belongs to the dampening cluster.
func IsCluster(f Factor) bool {
	for _, c := range ClusterFactors {
		if c == f {
			return true
		}
	}
	return false
}
