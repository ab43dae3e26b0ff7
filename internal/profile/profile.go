// Package profile defines the applicant and college input types shared by
// the prediction pipeline.
package profile

import (
	"strings"

	"github.com/chancify/chancify/internal/factors"
	"github.com/chancify/chancify/internal/optfloat"
)

// DefaultAcceptanceRate substitutes for colleges with no published rate.
const DefaultAcceptanceRate = 0.1

// StudentProfile is the full applicant input. Zero values mean "not
// provided"; the pipeline substitutes neutral defaults where sensible.
type StudentProfile struct {
	GPAUnweighted optfloat.Value `json:"gpa_unweighted" yaml:"gpa_unweighted"`
	GPAWeighted   optfloat.Value `json:"gpa_weighted" yaml:"gpa_weighted"`
	SATTotal      optfloat.Value `json:"sat_total" yaml:"sat_total"`
	ACTComposite  optfloat.Value `json:"act_composite" yaml:"act_composite"`

	FactorScores factors.Set `json:"factor_scores" yaml:"factor_scores"`

	// MiscItems are free-text activity and award descriptions, one per entry.
	MiscItems []string `json:"misc_items" yaml:"misc_items"`
}

// College describes the target institution and its admission policies.
type College struct {
	Name               string         `json:"name" yaml:"name"`
	AcceptanceRate     optfloat.Value `json:"acceptance_rate" yaml:"acceptance_rate"`
	TestPolicy         string         `json:"test_policy" yaml:"test_policy"`
	FinancialAidPolicy string         `json:"financial_aid_policy" yaml:"financial_aid_policy"`
}

// UsesTesting reports whether standardized test scores factor into this
// college's decisions. Only an explicit blind policy excludes them.
func (c College) UsesTesting() bool {
	policy := strings.ToLower(strings.TrimSpace(c.TestPolicy))
	return policy != "blind" && policy != "test-blind" && policy != "test blind"
}

// NeedAware reports whether the college weighs ability to pay.
func (c College) NeedAware() bool {
	return strings.EqualFold(strings.TrimSpace(c.FinancialAidPolicy), "need-aware")
}

// AcceptanceRateOrDefault returns the published rate clamped to [0, 1], or
// the default when missing.
func (c College) AcceptanceRateOrDefault() float64 {
	if !c.AcceptanceRate.Valid {
		return DefaultAcceptanceRate
	}
	return c.AcceptanceRate.Clamp(0, 1).Float64
}

// Policy converts the college's stated policies into normalization gates.
func (c College) Policy() factors.Policy {
	return factors.Policy{
		UsesTesting: c.UsesTesting(),
		NeedAware:   c.NeedAware(),
	}
}
