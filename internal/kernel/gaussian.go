package kernel

import (
	"math/big"

	"github.com/agbru/grfc/internal/precision"
)

// GaussianGate implements the default, singularity-free amplitude gate:
//
//	A(theta) = exp(-principal(theta)^2 / (2*sigma^2))
//
// A(0) = 1 and A is monotone decreasing in the distance of theta from the
// nearest multiple of 2*pi. It is the strongly recommended variant because
// its bandwidth is controlled by a single parameter and it has no removable
// singularities to guard.
type GaussianGate struct {
	// Sigma is the Gaussian kernel width.
	// It also doubles as the snap kernel's weight for this variant
	//.
	Sigma float64
}

// Name identifies this gate for logging and Result snapshots.
func (g *GaussianGate) Name() string { return "gaussian" }

// Amplitude computes exp(-principal(theta)^2 / (2*sigma^2)) at ctx's
// precision.
func (g *GaussianGate) Amplitude(ctx *precision.Context, theta *big.Float) *big.Float {
	p := ctx.Principal(theta)
	pSq := new(big.Float).SetPrec(ctx.Prec).Mul(p, p)

	sigma := ctx.NewFloat(g.Sigma)
	twoSigmaSq := new(big.Float).SetPrec(ctx.Prec).Mul(sigma, sigma)
	two := ctx.NewFloat(2)
	twoSigmaSq = new(big.Float).SetPrec(ctx.Prec).Mul(two, twoSigmaSq)

	exponent := new(big.Float).SetPrec(ctx.Prec).Quo(pSq, twoSigmaSq)
	exponent = new(big.Float).SetPrec(ctx.Prec).Neg(exponent)

	return ctx.Exp(exponent)
}

// Weight returns sigma, the kernel-specific weight used by the snap kernel's
// Delta-phi = principal(theta) * weight.
func (g *GaussianGate) Weight(ctx *precision.Context) *big.Float {
	return ctx.NewFloat(g.Sigma)
}
