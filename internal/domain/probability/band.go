package probability

// Interpretation band thresholds, in percent.
const (
	bandVeryHigh = 95.0
	bandHigh     = 80.0
	bandModerate = 60.0
	bandLow      = 40.0
)

// Band maps a probability to a human-readable chance label shown next to
// each prediction.
func Band(p float64) string {
	switch {
	case p >= bandVeryHigh:
		return "Very High Chance"
	case p >= bandHigh:
		return "High Chance"
	case p >= bandModerate:
		return "Moderate Chance"
	case p >= bandLow:
		return "Low Chance"
	case p > defaultFloor:
		return "Very Low Chance"
	default:
		return "Unlikely"
	}
}
