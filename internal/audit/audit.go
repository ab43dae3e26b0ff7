// Package audit builds the per-factor explainability report that accompanies
// every probability calculation: which factors were used, what each one
// contributed, and where the profile is strong or weak.
package audit

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/chancify/chancify/internal/factors"
	"github.com/chancify/chancify/internal/scoring"
)

// Row annotations.
const (
	NotePolicyGated    = "policy-gated (not used)"
	NoteNeutralDefault = "neutral default (no data)"
	NoteStrength       = "exceptional strength"
	NoteConcern        = "area of concern"
)

// Row is one factor's line in the audit breakdown. Score and Contribution
// are nil for policy-gated factors.
type Row struct {
	Factor       factors.Factor `json:"factor"`
	Weight       float64        `json:"weight"`
	Score        *float64       `json:"score_0_to_10"`
	Contribution *float64       `json:"weighted_contribution"`
	Note         string         `json:"note,omitempty"`
}

// Report is the complete audit for one probability calculation. Immutable
// once built.
type Report struct {
	CompositeScore     float64  `json:"composite_score"`
	Probability        float64  `json:"probability"`
	AcceptanceRate     float64  `json:"acceptance_rate"`
	PercentileEstimate float64  `json:"percentile_estimate"`
	FactorBreakdown    []Row    `json:"factor_breakdown"`
	PolicyNotes        []string `json:"policy_notes"`
}

// Build produces one row per factor in the full universe, in universe order.
// Gated-out factors (absent from usedFactors) get nil score and contribution.
// Active factors default to neutral when the raw input lacked them, clamp to
// [0,10], and contribute score times the original undampened weight. The
// undampened contribution intentionally diverges from the dampened composite;
// the breakdown explains individual factors, not the exact composite sum.
func Build(raw factors.Set, weights factors.Weights, usedFactors []factors.Factor) []Row {
	used := make(map[factors.Factor]bool, len(usedFactors))
	for _, f := range usedFactors {
		used[f] = true
	}

	rows := make([]Row, 0, len(factors.Universe))
	for _, f := range factors.Universe {
		weight := weights[f]

		if !used[f] {
			rows = append(rows, Row{
				Factor: f,
				Weight: weight,
				Note:   NotePolicyGated,
			})
			continue
		}

		defaulted := !raw.Has(f)
		score := scoring.ClampScore(raw.Get(f).Or(factors.Neutral))
		contribution := score * weight

		note := ""
		switch {
		case score == factors.Neutral && defaulted:
			note = NoteNeutralDefault
		case score >= 9.0:
			note = NoteStrength
		case score <= 3.0:
			note = NoteConcern
		}

		s, c := score, contribution
		rows = append(rows, Row{
			Factor:       f,
			Weight:       weight,
			Score:        &s,
			Contribution: &c,
			Note:         note,
		})
	}

	return rows
}

// Insights are the top strengths and weaknesses extracted from an audit.
type Insights struct {
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
}

// StrengthsAndWeaknesses picks the strongest and weakest active factors.
// Rows without a score are skipped; the remaining rows are sorted by score
// descending, then the first topN with score >= 7 become strengths and the
// last topN with score <= 6 become weaknesses.
func StrengthsAndWeaknesses(rows []Row, topN int) Insights {
	active := make([]Row, 0, len(rows))
	for _, r := range rows {
		if r.Score != nil {
			active = append(active, r)
		}
	}

	sort.SliceStable(active, func(i, j int) bool {
		return *active[i].Score > *active[j].Score
	})

	insights := Insights{}

	for i := 0; i < len(active) && i < topN; i++ {
		if *active[i].Score >= 7.0 {
			insights.Strengths = append(insights.Strengths, formatEntry(active[i]))
		}
	}

	start := len(active) - topN
	if start < 0 {
		start = 0
	}
	for _, r := range active[start:] {
		if *r.Score <= 6.0 {
			insights.Weaknesses = append(insights.Weaknesses, formatEntry(r))
		}
	}

	return insights
}

func formatEntry(r Row) string {
	return fmt.Sprintf("%s (%.1f/10)", r.Factor, *r.Score)
}

// MarshalJSON applies the documented API rounding: composite to 1 decimal,
// probability and acceptance rate to 3, percentile to 1, row scores to 1 and
// contributions to 2.
func (r Report) MarshalJSON() ([]byte, error) {
	type alias Report
	rounded := alias(r)

	rounded.CompositeScore = roundTo(r.CompositeScore, 1)
	rounded.Probability = roundTo(r.Probability, 3)
	rounded.AcceptanceRate = roundTo(r.AcceptanceRate, 3)
	rounded.PercentileEstimate = roundTo(r.PercentileEstimate, 1)

	rounded.FactorBreakdown = make([]Row, len(r.FactorBreakdown))
	for i, row := range r.FactorBreakdown {
		out := row
		if row.Score != nil {
			s := roundTo(*row.Score, 1)
			out.Score = &s
		}
		if row.Contribution != nil {
			c := roundTo(*row.Contribution, 2)
			out.Contribution = &c
		}
		rounded.FactorBreakdown[i] = out
	}

	return json.Marshal(rounded)
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
