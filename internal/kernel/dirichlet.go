package kernel

import (
	"math/big"

	"github.com/agbru/grfc/internal/precision"
)

// DirichletGate implements the legacy normalized Dirichlet kernel:
//
//	A(theta) = |sin((2J+1)*theta/2) / ((2J+1) * sin(theta/2))|
//
// clamped to [0,1]. It has removable singularities at theta = 0 (mod 2*pi),
// guarded by computing the ratio as sinc((2J+1)*theta/2) / sinc(theta/2)
// (since sin(x) = x*sinc(x), the (2J+1) and theta/2 factors cancel),
// with sinc evaluated by a numerically stable helper and a direct
// shortcut when theta itself sits inside the epsilon neighborhood of a
// singularity.
type DirichletGate struct {
	// J is the Dirichlet kernel half-width.
	J int
}

// Name identifies this gate for logging and Result snapshots.
func (d *DirichletGate) Name() string { return "dirichlet" }

// Weight returns the first-order correction 1/(2J+1) used by the snap
// kernel for this variant.
func (d *DirichletGate) Weight(ctx *precision.Context) *big.Float {
	n := 2*d.J + 1
	return new(big.Float).SetPrec(ctx.Prec).Quo(ctx.NewFloat(1), ctx.NewFloat(float64(n)))
}

// epsilon returns the singularity-guard threshold 10^(-max(12, P/2)),
// scaled to the Context's precision.
func epsilon(ctx *precision.Context) *big.Float {
	p := int(ctx.Prec)
	exp := p / 2
	if exp < 12 {
		exp = 12
	}
	// 10^-exp as a big.Float: compute via repeated division, precision-safe.
	ten := ctx.NewFloat(10)
	result := ctx.NewFloat(1)
	for i := 0; i < exp; i++ {
		result = new(big.Float).SetPrec(ctx.Prec).Quo(result, ten)
	}
	return result
}

// Amplitude computes the normalized Dirichlet amplitude at ctx's precision.
func (d *DirichletGate) Amplitude(ctx *precision.Context, theta *big.Float) *big.Float {
	p := ctx.Principal(theta)
	half := ctx.NewFloat(0.5)
	halfTheta := new(big.Float).SetPrec(ctx.Prec).Mul(p, half)

	sinHalfTheta := ctx.Sin(halfTheta)
	eps := epsilon(ctx)

	absSinHalf := new(big.Float).SetPrec(ctx.Prec).Abs(sinHalfTheta)
	if absSinHalf.Cmp(eps) < 0 {
		return ctx.NewFloat(1)
	}

	n := 2*d.J + 1
	nBig := ctx.NewFloat(float64(n))
	bigArg := new(big.Float).SetPrec(ctx.Prec).Mul(nBig, halfTheta)

	sincBig := stableSinc(ctx, bigArg, eps)
	sincSmall := stableSinc(ctx, halfTheta, eps)

	ratio := new(big.Float).SetPrec(ctx.Prec).Quo(sincBig, sincSmall)
	ratio.Abs(ratio)

	one := ctx.NewFloat(1)
	if ratio.Cmp(one) > 0 {
		return one
	}
	zero := ctx.NewFloat(0)
	if ratio.Sign() < 0 {
		return zero
	}
	return ratio
}

// stableSinc returns sin(x)/x, via the Taylor series
// 1 - x^2/6 + x^4/120 - x^6/5040 for |x| < eps, and a direct sin(x)/x
// division otherwise.
func stableSinc(ctx *precision.Context, x, eps *big.Float) *big.Float {
	absX := new(big.Float).SetPrec(ctx.Prec).Abs(x)
	if absX.Cmp(eps) < 0 {
		xSq := new(big.Float).SetPrec(ctx.Prec).Mul(x, x)
		one := ctx.NewFloat(1)
		terms := []float64{6, 120, 5040}
		sum := new(big.Float).SetPrec(ctx.Prec).Copy(one)
		power := new(big.Float).SetPrec(ctx.Prec).Copy(xSq)
		sign := -1.0
		for _, d := range terms {
			term := new(big.Float).SetPrec(ctx.Prec).Quo(power, ctx.NewFloat(d))
			if sign < 0 {
				sum = new(big.Float).SetPrec(ctx.Prec).Sub(sum, term)
			} else {
				sum = new(big.Float).SetPrec(ctx.Prec).Add(sum, term)
			}
			power = new(big.Float).SetPrec(ctx.Prec).Mul(power, xSq)
			sign = -sign
		}
		return sum
	}
	return new(big.Float).SetPrec(ctx.Prec).Quo(ctx.Sin(x), x)
}

// StabilityCheck implements the optional amplitude-crossing stability
// check: when amp has just crossed threshold, require that A(theta +/-
// epsStab) both exceed 0.9*threshold, with epsStab = 10^(-P/4). If either
// side fails, the sample is rejected as a numerical artifact.
func StabilityCheck(ctx *precision.Context, gate Gate, theta, threshold *big.Float) bool {
	exp := int(ctx.Prec) / 4
	epsStab := ctx.NewFloat(1)
	ten := ctx.NewFloat(10)
	for i := 0; i < exp; i++ {
		epsStab = new(big.Float).SetPrec(ctx.Prec).Quo(epsStab, ten)
	}

	ninetyPct := new(big.Float).SetPrec(ctx.Prec).Mul(threshold, ctx.NewFloat(0.9))

	plus := new(big.Float).SetPrec(ctx.Prec).Add(theta, epsStab)
	minus := new(big.Float).SetPrec(ctx.Prec).Sub(theta, epsStab)

	ampPlus := gate.Amplitude(ctx, plus)
	ampMinus := gate.Amplitude(ctx, minus)

	return ampPlus.Cmp(ninetyPct) > 0 && ampMinus.Cmp(ninetyPct) > 0
}
