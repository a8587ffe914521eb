package agreement

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/jocelynchengyang/correlationAnalysis/internal/errors"
)

const tolerance = 1e-9

func seq(n int, f func(i int) float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = f(i)
	}
	return out
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float64
		validate func(t *testing.T, res Result)
	}{
		{
			name: "reference sample",
			a:    []float64{1, 2, 3, 4, 5},
			b:    []float64{2, 4, 5, 4, 5},
			validate: func(t *testing.T, res Result) {
				assert.Equal(t, 5, res.N)
				assert.True(t, res.CorrelationDefined)
				assert.InDelta(t, 0.7745966692, res.R, 1e-9)
				assert.InDelta(t, 0.6, res.RSquared, 1e-9)
				assert.InDelta(t, 0.1242, res.PValue, 1e-3)
				assert.InDelta(t, 0.6, res.Slope, tolerance)
				assert.InDelta(t, 2.2, res.Intercept, tolerance)
				assert.InDelta(t, 1.0, res.MeanDiff, tolerance)
				assert.InDelta(t, 1.0, res.SDDiff, tolerance)
				assert.InDelta(t, -0.96, res.LoALower, tolerance)
				assert.InDelta(t, 2.96, res.LoAUpper, tolerance)
				assert.Equal(t, "Strong positive", res.Interpretation())
				assert.Equal(t, "ns", res.Significance())
				assert.True(t, res.IsStrong())
				assert.False(t, res.Significant())
			},
		},
		{
			name: "identical methods",
			a:    seq(10, func(i int) float64 { return 0.4 + 0.03*float64(i) }),
			b:    seq(10, func(i int) float64 { return 0.4 + 0.03*float64(i) }),
			validate: func(t *testing.T, res Result) {
				assert.InDelta(t, 1.0, res.R, tolerance)
				assert.InDelta(t, 1.0, res.RSquared, tolerance)
				assert.Less(t, res.PValue, 0.001)
				assert.Equal(t, "***", res.Significance())
				assert.InDelta(t, 0, res.MeanDiff, tolerance)
				assert.InDelta(t, 0, res.SDDiff, tolerance)
				assert.InDelta(t, 0, res.LoALower, tolerance)
				assert.InDelta(t, 0, res.LoAUpper, tolerance)
			},
		},
		{
			name: "perfect negative line",
			a:    []float64{1, 2, 3, 4},
			b:    []float64{-1, -3, -5, -7},
			validate: func(t *testing.T, res Result) {
				assert.InDelta(t, -1.0, res.R, tolerance)
				assert.Less(t, res.PValue, 0.001)
				assert.InDelta(t, -2.0, res.Slope, tolerance)
				assert.InDelta(t, 1.0, res.Intercept, tolerance)
				assert.Equal(t, "Very strong negative", res.Interpretation())
				assert.True(t, res.IsStrong())
				assert.True(t, res.Significant())
			},
		},
		{
			name: "constant non-identical columns",
			a:    []float64{0.5, 0.5, 0.5, 0.5},
			b:    []float64{0.7, 0.7, 0.7, 0.7},
			validate: func(t *testing.T, res Result) {
				assert.False(t, res.CorrelationDefined)
				assert.True(t, math.IsNaN(res.R))
				assert.True(t, math.IsNaN(res.PValue))
				assert.True(t, math.IsNaN(res.RSquared))
				assert.True(t, math.IsNaN(res.Slope))
				assert.Equal(t, Undefined, res.Interpretation())
				assert.Equal(t, NotApplicable, res.Significance())
				assert.Equal(t, "", res.Strength())
				assert.False(t, res.Significant())
				assert.False(t, res.IsStrong())

				assert.InDelta(t, 0.2, res.MeanDiff, tolerance)
				assert.InDelta(t, 0, res.SDDiff, tolerance)
				assert.InDelta(t, 0.2, res.LoALower, tolerance)
				assert.InDelta(t, 0.2, res.LoAUpper, tolerance)
			},
		},
		{
			name: "one constant column",
			a:    []float64{1, 2, 3},
			b:    []float64{4, 4, 4},
			validate: func(t *testing.T, res Result) {
				assert.False(t, res.CorrelationDefined)
				assert.InDelta(t, 2.0, res.MeanDiff, tolerance)
				assert.InDelta(t, 1.0, res.SDDiff, tolerance)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Calculate(tt.a, tt.b)
			require.NoError(t, err)
			tt.validate(t, res)
		})
	}
}

func TestCalculate_Errors(t *testing.T) {
	tests := []struct {
		name          string
		a, b          []float64
		insufficient  bool
		errorContains string
	}{
		{
			name:          "two pairs",
			a:             []float64{1, 2},
			b:             []float64{1, 2},
			insufficient:  true,
			errorContains: "2 valid pairs",
		},
		{
			name:          "empty",
			insufficient:  true,
			errorContains: "0 valid pairs",
		},
		{
			name:          "length mismatch",
			a:             []float64{1, 2, 3},
			b:             []float64{1, 2},
			errorContains: "differ in length",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Calculate(tt.a, tt.b)
			require.Error(t, err)
			assert.Equal(t, tt.insufficient, errors.Is(err, apperrors.ErrInsufficientData))
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}

func TestCalculate_Properties(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 7))

	for trial := 0; trial < 200; trial++ {
		n := 3 + rng.IntN(40)
		noise := rng.Float64() * 2
		slope := rng.Float64()*4 - 2

		a := make([]float64, n)
		b := make([]float64, n)
		for i := range a {
			a[i] = rng.NormFloat64()
			b[i] = slope*a[i] + noise*rng.NormFloat64()
		}

		res, err := Calculate(a, b)
		require.NoError(t, err)
		require.True(t, res.CorrelationDefined)

		assert.GreaterOrEqual(t, res.R, -1.0)
		assert.LessOrEqual(t, res.R, 1.0)
		assert.InDelta(t, res.R*res.R, res.RSquared, tolerance)
		assert.GreaterOrEqual(t, res.PValue, 0.0)
		assert.LessOrEqual(t, res.PValue, 1.0)

		assert.GreaterOrEqual(t, res.SDDiff, 0.0)
		assert.LessOrEqual(t, res.LoALower, res.MeanDiff)
		assert.GreaterOrEqual(t, res.LoAUpper, res.MeanDiff)
		assert.InDelta(t, res.MeanDiff-res.LoALower, res.LoAUpper-res.MeanDiff, tolerance)
		assert.InDelta(t, 2*LoAFactor*res.SDDiff, res.LoAUpper-res.LoALower, tolerance)
	}
}

func TestPValue(t *testing.T) {
	assert.Equal(t, 0.0, PValue(1, 10))
	assert.Equal(t, 0.0, PValue(-1, 10))
	assert.InDelta(t, 1.0, PValue(0, 10), tolerance)
	assert.True(t, math.IsNaN(PValue(0.5, 2)))
	assert.True(t, math.IsNaN(PValue(math.NaN(), 10)))
	// Symmetric in the sign of r
	assert.InDelta(t, PValue(0.45, 12), PValue(-0.45, 12), tolerance)
}

func TestDifferencesAndMeans(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{2, 2, 1}

	assert.Equal(t, []float64{1, 0, -2}, Differences(a, b))
	assert.Equal(t, []float64{1.5, 2, 2}, Means(a, b))
}
