package calibration

import (
	"github.com/chancify/chancify/internal/factors"
	"github.com/chancify/chancify/internal/optfloat"
)

// Strength buckets an applicant profile for calibration purposes.
type Strength string

const (
	Perfect      Strength = "perfect"
	Strong       Strength = "strong"
	Average      Strength = "average"
	BelowAverage Strength = "below_average"
)

// Academics carries the raw academic inputs used for strength assessment.
type Academics struct {
	GPAUnweighted optfloat.Value
	GPAWeighted   optfloat.Value
	SATTotal      optfloat.Value
	ACTComposite  optfloat.Value
}

// AssessProfileStrength scores an applicant on a point scale and buckets the
// total. Each academic signal can earn up to 2 points, plus up to 2 points
// for breadth of high factor scores.
func AssessProfileStrength(academics Academics, scores factors.Set) Strength {
	points := 0

	points += tieredPoints(academics.GPAUnweighted, 3.95, 3.8)
	points += tieredPoints(academics.GPAWeighted, 4.3, 4.0)
	points += tieredPoints(academics.SATTotal, 1550, 1500)
	points += tieredPoints(academics.ACTComposite, 35, 34)

	high := 0
	for _, f := range factors.Universe {
		if v, ok := scores[f]; ok && v.Valid && v.Float64 >= 8.0 {
			high++
		}
	}
	switch {
	case high >= 15:
		points += 2
	case high >= 10:
		points++
	}

	switch {
	case points >= 6:
		return Perfect
	case points >= 4:
		return Strong
	case points >= 2:
		return Average
	default:
		return BelowAverage
	}
}

func tieredPoints(v optfloat.Value, top, mid float64) int {
	if !v.Valid {
		return 0
	}
	switch {
	case v.Float64 >= top:
		return 2
	case v.Float64 >= mid:
		return 1
	default:
		return 0
	}
}
