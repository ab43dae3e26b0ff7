package audit

import (
	"fmt"
	"strings"
)

const rule = "----------------------------------------------------------------------"

// FormatReport renders a report as human-readable text. Presentation only;
// callers wanting machine output should serialize the Report instead.
func FormatReport(r Report) string {
	var b strings.Builder

	b.WriteString("ADMISSION PROBABILITY AUDIT\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "  Composite Score:     %.1f / 1000\n", r.CompositeScore)
	fmt.Fprintf(&b, "  Admission Prob:      %.1f%%\n", r.Probability*100)
	fmt.Fprintf(&b, "  School Accept Rate:  %.1f%%\n", r.AcceptanceRate*100)
	fmt.Fprintf(&b, "  Percentile Estimate: ~%.0fth\n", r.PercentileEstimate)
	b.WriteString("\n")

	b.WriteString("FACTOR BREAKDOWN\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "%-25s %-8s %-8s %-10s %s\n", "Factor", "Weight", "Score", "Contrib", "Note")
	for _, row := range r.FactorBreakdown {
		score := "N/A"
		contrib := "---"
		if row.Score != nil {
			score = fmt.Sprintf("%.1f/10", *row.Score)
		}
		if row.Contribution != nil {
			contrib = fmt.Sprintf("%.1f", *row.Contribution)
		}
		fmt.Fprintf(&b, "%-25s %-8s %-8s %-10s %s\n",
			row.Factor, fmt.Sprintf("%g%%", row.Weight), score, contrib, row.Note)
	}
	b.WriteString("\n")

	if len(r.PolicyNotes) > 0 {
		b.WriteString("POLICY NOTES\n")
		b.WriteString(rule + "\n")
		for _, note := range r.PolicyNotes {
			fmt.Fprintf(&b, "  - %s\n", note)
		}
		b.WriteString("\n")
	}

	insights := StrengthsAndWeaknesses(r.FactorBreakdown, 3)
	if len(insights.Strengths) > 0 {
		b.WriteString("TOP STRENGTHS\n")
		b.WriteString(rule + "\n")
		for _, s := range insights.Strengths {
			fmt.Fprintf(&b, "  + %s\n", s)
		}
		b.WriteString("\n")
	}
	if len(insights.Weaknesses) > 0 {
		b.WriteString("AREAS FOR IMPROVEMENT\n")
		b.WriteString(rule + "\n")
		for _, w := range insights.Weaknesses {
			fmt.Fprintf(&b, "  ! %s\n", w)
		}
	}

	return b.String()
}
