package core

import (
	"gonum.org/v1/gonum/floats"
)

// CDF is a discrete cumulative distribution function built from a
// sequence of non-negative weights. Construction normalizes the running
// sum so the last entry is 1, making each entry the probability of
// sampling a bin index at or below it.
type CDF struct {
	cdf []float64
}

// CDFSample is the result of inverting a CDF with a random variable:
// the sampled bin, its probability mass, and the rescaled fraction of
// the random variable that was not consumed selecting the bin.
type CDFSample struct {
	Index    int
	Pdf      float64
	Residual float64
}

// NewCDF builds a normalized CDF from a sequence of weights. The caller
// guarantees the weights are non-negative with a positive total; an
// empty sequence yields an empty CDF.
func NewCDF(samples []float64) CDF {
	if len(samples) == 0 {
		return CDF{}
	}
	cdf := make([]float64, len(samples))
	floats.CumSum(cdf, samples)
	floats.Scale(1/cdf[len(cdf)-1], cdf)
	return CDF{cdf: cdf}
}

// Size returns the number of bins
func (c CDF) Size() int {
	return len(c.cdf)
}

// Sample inverts the CDF for a random variable xi in [0, 1]. The sampled
// index is the smallest bin whose cumulative value reaches xi. Lanes with
// xi out of range come back masked: index == Size() and zero pdf/residual.
func (c CDF) Sample(xi float64, mask Mask) CDFSample {
	mask = mask && xi >= 0 && xi <= 1

	idx := BinarySearch(c.cdf, func(v float64) bool { return v < xi }, mask)
	mask = mask && idx < len(c.cdf)

	eval := Lookup(c.cdf, idx, mask)
	prev := Lookup(c.cdf, idx-1, mask && idx >= 1)

	pdf := eval - prev
	residual := 0.0
	if mask {
		residual = (xi - prev) / pdf
	}

	return CDFSample{Index: idx, Pdf: pdf, Residual: residual}
}

// Pdf returns the probability mass of a bin, the difference between its
// cumulative value and its predecessor's. Out-of-range indices and
// inactive lanes contribute zero.
func (c CDF) Pdf(index int, mask Mask) float64 {
	mask = mask && index >= 0 && index < len(c.cdf)

	eval := Lookup(c.cdf, index, mask)
	prev := Lookup(c.cdf, index-1, mask && index >= 1)

	return eval - prev
}
