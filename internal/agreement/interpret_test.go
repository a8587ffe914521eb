package agreement

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterpret(t *testing.T) {
	tests := []struct {
		r    float64
		want string
	}{
		{0.95, "Very strong positive"},
		{0.80, "Very strong positive"},
		{0.7999, "Strong positive"},
		{-0.60, "Strong negative"},
		{0.45, "Moderate positive"},
		{-0.25, "Weak negative"},
		{0.19, "Very weak positive"},
		{0, "Very weak negative"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Interpret(tt.r))
		})
	}
}

func TestSignificance(t *testing.T) {
	tests := []struct {
		p    float64
		want string
	}{
		{0, "***"},
		{0.0009, "***"},
		{0.001, "**"},
		{0.0099, "**"},
		{0.01, "*"},
		{0.049, "*"},
		{0.05, "ns"},
		{0.8, "ns"},
		{math.NaN(), "n/a"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Significance(tt.p), "p=%v", tt.p)
	}
}
