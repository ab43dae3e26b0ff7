package predict

// Band classifications, ordered from least to most likely.
const (
	BandFarReach = "far_reach"
	BandReach    = "reach"
	BandTarget   = "target"
	BandSafety   = "safety"
)

// Band classifies a probability into an admissions band.
func Band(probability float64) string {
	switch {
	case probability < 0.15:
		return BandFarReach
	case probability < 0.40:
		return BandReach
	case probability < 0.65:
		return BandTarget
	default:
		return BandSafety
	}
}
