package core

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCDF_Normalization(t *testing.T) {
	c := NewCDF([]float64{1, 2, 3, 4})
	require.Equal(t, 4, c.Size())

	// pdf masses must recover the normalized weights and sum to 1
	total := 0.0
	prev := 0.0
	for i := 0; i < c.Size(); i++ {
		pdf := c.Pdf(i, true)
		assert.GreaterOrEqual(t, pdf, 0.0)
		total += pdf
		// cumulative values are non-decreasing
		assert.GreaterOrEqual(t, prev+pdf, prev)
		prev += pdf
	}
	assert.InDelta(t, 1.0, total, 1e-12)
	assert.InDelta(t, 0.1, c.Pdf(0, true), 1e-12)
	assert.InDelta(t, 0.4, c.Pdf(3, true), 1e-12)
}

func TestCDF_PdfMasking(t *testing.T) {
	c := NewCDF([]float64{1, 2, 3})

	// out-of-range bins and inactive lanes contribute zero, no panic
	assert.Equal(t, 0.0, c.Pdf(3, true))
	assert.Equal(t, 0.0, c.Pdf(-1, true))
	assert.Equal(t, 0.0, c.Pdf(1, false))
}

func TestCDF_BoundaryTieBreak(t *testing.T) {
	// cumulative values are exactly {0.1, 0.3, 0.6, 1.0}
	c := NewCDF([]float64{1, 2, 3, 4})

	tests := []struct {
		name string
		xi   float64
		want int
	}{
		{"zero selects first bin", 0.0, 0},
		{"interior of first bin", 0.05, 0},
		{"exact boundary selects the bin that reaches it", 0.3, 1},
		{"just past a boundary", 0.30001, 2},
		{"one selects last bin", 1.0, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := c.Sample(tt.xi, true)
			assert.Equal(t, tt.want, s.Index)
		})
	}
}

func TestCDF_SampleRoundTrip(t *testing.T) {
	c := NewCDF([]float64{0.5, 1.5, 2.5, 3.0, 0.25, 2.25})
	random := rand.New(rand.NewSource(42))

	for i := 0; i < 1000; i++ {
		xi := random.Float64()
		s := c.Sample(xi, true)
		require.Less(t, s.Index, c.Size())
		require.GreaterOrEqual(t, s.Index, 0)

		// reconstruct xi from the sampled bin and the residual
		cumBefore := 0.0
		for j := 0; j < s.Index; j++ {
			cumBefore += c.Pdf(j, true)
		}
		assert.InDelta(t, xi, cumBefore+s.Residual*s.Pdf, 1e-12)
		assert.InDelta(t, c.Pdf(s.Index, true), s.Pdf, 1e-15)
	}
}

func TestCDF_InvalidXiMasked(t *testing.T) {
	c := NewCDF([]float64{1, 1, 1})

	for _, xi := range []float64{-0.1, 1.1} {
		s := c.Sample(xi, true)
		assert.Equal(t, c.Size(), s.Index)
		assert.Equal(t, 0.0, s.Pdf)
		assert.Equal(t, 0.0, s.Residual)
	}
}

func TestCDF_InactiveMask(t *testing.T) {
	c := NewCDF([]float64{1, 1, 1})

	s := c.Sample(0.5, false)
	assert.Equal(t, c.Size(), s.Index)
	assert.Equal(t, 0.0, s.Pdf)
	assert.Equal(t, 0.0, s.Residual)
}

func TestCDF_Empty(t *testing.T) {
	c := NewCDF(nil)
	assert.Equal(t, 0, c.Size())

	// sampling an empty CDF masks out instead of panicking
	s := c.Sample(0.5, true)
	assert.Equal(t, 0, s.Index)
	assert.Equal(t, 0.0, s.Pdf)
	assert.Equal(t, 0.0, s.Residual)
}
