package predict

import (
	"math"

	"github.com/chancify/chancify/internal/profile"
)

// Fallback bounds. The deterministic path never claims near-certainty.
const (
	fallbackMin = 0.02
	fallbackMax = 0.85
)

// deterministicFallback produces a probability from raw academics alone,
// used when the full pipeline fails. Linear scaling of GPA and test scores,
// averaged and clamped.
func deterministicFallback(student profile.StudentProfile) float64 {
	gpaScore := 0.5
	switch {
	case student.GPAUnweighted.Valid:
		gpaScore = math.Min(1, student.GPAUnweighted.Float64/4.0)
	case student.GPAWeighted.Valid:
		gpaScore = math.Min(1, student.GPAWeighted.Float64/5.0)
	}

	testScore := 0.5
	switch {
	case student.SATTotal.Valid:
		testScore = clamp01((student.SATTotal.Float64 - 1200) / 400)
	case student.ACTComposite.Valid:
		testScore = clamp01((student.ACTComposite.Float64 - 20) / 16)
	}

	p := (gpaScore + testScore) / 2
	return math.Max(fallbackMin, math.Min(fallbackMax, p))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
