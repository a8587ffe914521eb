package agreement

import "math"

// Correlation strength thresholds on |r|
const (
	VeryStrongThreshold = 0.80
	StrongThreshold     = 0.60
	ModerateThreshold   = 0.40
	WeakThreshold       = 0.20
)

// Labels for results without a defined correlation
const (
	Undefined     = "Undefined"
	NotApplicable = "n/a"
)

// Strength classifies |r| into one of five bands
func Strength(r float64) string {
	abs := math.Abs(r)
	switch {
	case abs >= VeryStrongThreshold:
		return "Very strong"
	case abs >= StrongThreshold:
		return "Strong"
	case abs >= ModerateThreshold:
		return "Moderate"
	case abs >= WeakThreshold:
		return "Weak"
	default:
		return "Very weak"
	}
}

// Direction is "positive" for r > 0 and "negative" otherwise
func Direction(r float64) string {
	if r > 0 {
		return "positive"
	}
	return "negative"
}

// Interpret combines strength and direction, e.g. "Moderate negative"
func Interpret(r float64) string {
	return Strength(r) + " " + Direction(r)
}

// Significance maps a p-value to ***, **, * or ns
func Significance(p float64) string {
	switch {
	case math.IsNaN(p):
		return NotApplicable
	case p < 0.001:
		return "***"
	case p < 0.01:
		return "**"
	case p < 0.05:
		return "*"
	default:
		return "ns"
	}
}
