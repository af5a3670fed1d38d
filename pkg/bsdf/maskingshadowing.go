package bsdf

import (
	"github.com/bsdfbenchmark/go-bbm/pkg/core"
	"github.com/bsdfbenchmark/go-bbm/pkg/ndf"
)

// MaskingShadowing combines the monodirectional shadowing factors of an
// NDF into a joint masking-shadowing term (Heitz 2014).
type MaskingShadowing interface {
	Eval(n ndf.NDF, in, out, m core.Vec3, mask core.Mask) float64
}

// Uncorrelated is the separable form G1(in)·G1(out) (Heitz 2014, eq. 98).
type Uncorrelated struct{}

func (Uncorrelated) Eval(n ndf.NDF, in, out, m core.Vec3, mask core.Mask) float64 {
	mask = mask && in.Dot(m) > 0 && out.Dot(m) > 0
	if !mask {
		return 0
	}
	return n.G1(in, m, mask) * n.G1(out, m, mask)
}

// HeightCorrelated accounts for the correlation between masking and
// shadowing at equal microsurface heights (Heitz 2014, eq. 99).
type HeightCorrelated struct{}

func (HeightCorrelated) Eval(n ndf.NDF, in, out, m core.Vec3, mask core.Mask) float64 {
	mask = mask && in.Dot(m) > 0 && out.Dot(m) > 0
	if !mask {
		return 0
	}

	gin := n.G1(in, m, mask)
	gout := n.G1(out, m, mask)
	gio := gin * gout

	denom := gin + gout - gio
	mask = mask && denom > core.Epsilon
	return core.Select(mask, gio/denom, 0)
}
