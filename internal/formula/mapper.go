// Package formula maps a factor-score snapshot to an admission probability
// through the transparent composite pipeline: normalize, gate, score, then a
// selectivity-calibrated logistic curve.
package formula

import (
	"math"

	"github.com/chancify/chancify/internal/audit"
	"github.com/chancify/chancify/internal/factors"
	"github.com/chancify/chancify/internal/scoring"
)

// Probability output bounds for the formula path.
const (
	MinProbability = 0.01
	MaxProbability = 0.98
)

// Result is the formula path output consumed by the hybrid blender.
type Result struct {
	Probability float64          `json:"probability"`
	Composite   float64          `json:"composite_score"`
	Percentile  float64          `json:"percentile_estimate"`
	Breakdown   []audit.Row      `json:"factor_breakdown"`
	PolicyNotes []string         `json:"policy_notes"`
	UsedFactors []factors.Factor `json:"used_factors"`
}

// Mapper converts composite-style inputs to a probability, percentile, and
// policy notes. Implementations must be monotonic: a higher composite never
// lowers the probability, and a higher acceptance rate never lowers it for a
// fixed composite.
type Mapper interface {
	Map(scores factors.Set, acceptanceRate float64, usesTesting, needAware bool) Result
}

// LogisticMapper is the default curve: a logistic transform of the composite,
// scaled by the college's acceptance rate. The midpoint sits at the composite
// a middle-of-the-pack applicant reaches with every factor at the neutral
// default plus a modest edge.
type LogisticMapper struct {
	weights  factors.Weights
	midpoint float64
	slope    float64
}

// NewLogisticMapper builds a mapper over the given weight table.
func NewLogisticMapper(weights factors.Weights) *LogisticMapper {
	return &LogisticMapper{
		weights:  weights,
		midpoint: 600.0,
		slope:    110.0,
	}
}

// Map runs the full formula pipeline: normalize with neutral defaults, apply
// policy gates, compute the composite with cluster dampening and the conduct
// penalty, then map composite and acceptance rate onto [0.01, 0.98].
func (m *LogisticMapper) Map(scores factors.Set, acceptanceRate float64, usesTesting, needAware bool) Result {
	rate := math.Max(0, math.Min(1, acceptanceRate))
	policy := factors.Policy{UsesTesting: usesTesting, NeedAware: needAware}

	normalized := factors.Normalize(scores, policy, true)
	scored := scoring.Score(normalized, m.weights)
	composite := scoring.ApplyConductPenalty(scored.Composite, normalized.Get(factors.ConductRecord))

	base := 1.0 / (1.0 + math.Exp(-(composite-m.midpoint)/m.slope))
	probability := base * (0.25 + 1.1*rate)
	probability = math.Max(MinProbability, math.Min(MaxProbability, probability))

	percentile := math.Max(0, math.Min(100, composite/10.0))

	notes := policyNotes(policy, scored.ClusterNote)

	return Result{
		Probability: probability,
		Composite:   composite,
		Percentile:  percentile,
		Breakdown:   audit.Build(scores, m.weights, scored.UsedFactors),
		PolicyNotes: notes,
		UsedFactors: scored.UsedFactors,
	}
}

func policyNotes(policy factors.Policy, clusterNote string) []string {
	notes := []string{}
	if !policy.UsesTesting {
		notes = append(notes, "test-blind policy: standardized testing not used")
	}
	if !policy.NeedAware {
		notes = append(notes, "need-blind admissions: ability to pay not considered")
	}
	if clusterNote != "" {
		notes = append(notes, clusterNote)
	}
	return notes
}

// Report assembles the full audit report for a formula result.
func (r Result) Report(acceptanceRate float64) audit.Report {
	return audit.Report{
		CompositeScore:     r.Composite,
		Probability:        r.Probability,
		AcceptanceRate:     acceptanceRate,
		PercentileEstimate: r.Percentile,
		FactorBreakdown:    r.Breakdown,
		PolicyNotes:        r.PolicyNotes,
	}
}
