package agreement

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	apperrors "github.com/jocelynchengyang/correlationAnalysis/internal/errors"
)

// Calculate computes Pearson correlation and Bland-Altman agreement between
// paired readings a (method A) and b (method B). Differences are b - a.
func Calculate(a, b []float64) (Result, error) {
	if len(a) != len(b) {
		return Result{}, fmt.Errorf("paired series differ in length: %d vs %d", len(a), len(b))
	}
	n := len(a)
	if n < MinPairs {
		return Result{}, &apperrors.InsufficientDataError{Have: n, Need: MinPairs}
	}

	res := Result{N: n}
	res.MeanDiff, res.SDDiff = stat.MeanStdDev(Differences(a, b), nil)
	res.LoALower = res.MeanDiff - LoAFactor*res.SDDiff
	res.LoAUpper = res.MeanDiff + LoAFactor*res.SDDiff

	if isConstant(a) || isConstant(b) {
		res.R, res.PValue, res.RSquared = math.NaN(), math.NaN(), math.NaN()
		res.Slope, res.Intercept = math.NaN(), math.NaN()
		return res, nil
	}

	res.CorrelationDefined = true
	res.R = clamp(stat.Correlation(a, b, nil), -1, 1)
	res.RSquared = res.R * res.R
	res.PValue = PValue(res.R, n)
	res.Intercept, res.Slope = stat.LinearRegression(a, b, nil, false)

	return res, nil
}

// PValue returns the two-sided p-value of r under H0: rho = 0 using the
// t distribution with n-2 degrees of freedom.
func PValue(r float64, n int) float64 {
	if n < MinPairs || math.IsNaN(r) {
		return math.NaN()
	}
	if math.Abs(r) >= 1 {
		return 0
	}
	df := float64(n - 2)
	t := r * math.Sqrt(df/(1-r*r))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return clamp(2*dist.Survival(math.Abs(t)), 0, 1)
}

// Differences returns b[i] - a[i]
func Differences(a, b []float64) []float64 {
	d := make([]float64, len(a))
	for i := range a {
		d[i] = b[i] - a[i]
	}
	return d
}

// Means returns (a[i] + b[i]) / 2
func Means(a, b []float64) []float64 {
	m := make([]float64, len(a))
	for i := range a {
		m[i] = (a[i] + b[i]) / 2
	}
	return m
}

func isConstant(x []float64) bool {
	for _, v := range x[1:] {
		if v != x[0] {
			return false
		}
	}
	return true
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
