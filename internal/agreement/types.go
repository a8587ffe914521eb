package agreement

import "math"

// LoAFactor is the z value for 95% limits of agreement
const LoAFactor = 1.96

// MinPairs is the smallest sample Calculate accepts
const MinPairs = 3

// Result holds the correlation and Bland-Altman statistics of one measurement.
// When CorrelationDefined is false, R, PValue, RSquared, Slope and Intercept
// are NaN; the agreement fields are always set.
type Result struct {
	N int `json:"n"`

	R                  float64 `json:"r"`
	PValue             float64 `json:"p_value"`
	RSquared           float64 `json:"r_squared"`
	CorrelationDefined bool    `json:"correlation_defined"`

	// Least-squares fit of B on A
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`

	MeanDiff float64 `json:"mean_diff"`
	SDDiff   float64 `json:"sd_diff"`
	LoALower float64 `json:"loa_lower"`
	LoAUpper float64 `json:"loa_upper"`
}

// Strength returns the correlation strength band, or "" when undefined
func (r Result) Strength() string {
	if !r.CorrelationDefined {
		return ""
	}
	return Strength(r.R)
}

// Interpretation returns e.g. "Strong positive", or "Undefined"
func (r Result) Interpretation() string {
	if !r.CorrelationDefined {
		return Undefined
	}
	return Interpret(r.R)
}

// Significance returns the p-value band, or "n/a" when undefined
func (r Result) Significance() string {
	if !r.CorrelationDefined {
		return NotApplicable
	}
	return Significance(r.PValue)
}

// Significant reports p < 0.05
func (r Result) Significant() bool {
	return r.CorrelationDefined && r.PValue < 0.05
}

// IsStrong reports |r| >= 0.60
func (r Result) IsStrong() bool {
	return r.CorrelationDefined && math.Abs(r.R) >= StrongThreshold
}
