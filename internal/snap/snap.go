// Package snap implements the phase-corrected snap kernel:
// mapping a kernel-accepted angle to an integer candidate p0, with optional
// Newton refinement of the underlying real-valued p-hat before rounding.
package snap

import (
	"math/big"

	"github.com/agbru/grfc/internal/kernel"
	"github.com/agbru/grfc/internal/precision"
)

// Options configures the snap kernel. NewtonIterations bounds the number of
// refinement steps (0 disables refinement; valid range [0,3]).
type Options struct {
	NewtonIterations int
}

// Result holds the outcome of a snap: the rounded integer candidate p0 and
// the pre-rounding real value p-hat (kept for diagnostics/logging).
type Result struct {
	P0   *big.Int
	PHat *big.Float
}

// Snap computes Delta-phi = principal(theta) * gate.Weight(), then
//
//	p-hat = exp((lnN + Delta-phi) / 2)
//
// optionally refines p-hat via Newton iteration on ln(p) = target, and
// rounds the result half-up to produce p0.
func Snap(ctx *precision.Context, lnN, theta *big.Float, gate kernel.Gate, opts Options) Result {
	principal := ctx.Principal(theta)
	weight := gate.Weight(ctx)
	deltaPhi := new(big.Float).SetPrec(ctx.Prec).Mul(principal, weight)

	target := new(big.Float).SetPrec(ctx.Prec).Add(lnN, deltaPhi)
	two := ctx.NewFloat(2)
	target = new(big.Float).SetPrec(ctx.Prec).Quo(target, two)

	pHat := ctx.Exp(target)

	if opts.NewtonIterations > 0 {
		refined, ok := refine(ctx, pHat, target, opts.NewtonIterations)
		if ok {
			pHat = refined
		}
	}

	return Result{
		P0:   roundHalfUp(ctx, pHat),
		PHat: pHat,
	}
}

// refine applies Newton iteration to solve f(p) = ln(p) - target = 0:
//
//	p_{i+1} = p_i - p_i*(ln(p_i) - target)
//
// stopping early once |ln(p) - target| < 10^(-P/2), up to maxIter steps.
// If any iterate is <= 1 (where ln is non-positive or degenerate for our
// domain of candidates > 1), refine aborts and the caller keeps the
// pre-refinement p-hat.
func refine(ctx *precision.Context, pHat, target *big.Float, maxIter int) (*big.Float, bool) {
	one := ctx.NewFloat(1)
	p := new(big.Float).SetPrec(ctx.Prec).Copy(pHat)
	tolerance := convergenceTolerance(ctx)

	for i := 0; i < maxIter; i++ {
		if p.Cmp(one) <= 0 {
			return nil, false
		}
		lnP, err := ctx.Ln(p)
		if err != nil {
			return nil, false
		}
		residual := new(big.Float).SetPrec(ctx.Prec).Sub(lnP, target)

		absResidual := new(big.Float).SetPrec(ctx.Prec).Abs(residual)
		if absResidual.Cmp(tolerance) < 0 {
			return p, true
		}

		step := new(big.Float).SetPrec(ctx.Prec).Mul(p, residual)
		p = new(big.Float).SetPrec(ctx.Prec).Sub(p, step)
	}
	if p.Cmp(one) <= 0 {
		return nil, false
	}
	return p, true
}

// convergenceTolerance returns 10^(-P/2), the Newton stopping threshold.
func convergenceTolerance(ctx *precision.Context) *big.Float {
	exp := int(ctx.Prec) / 2
	ten := ctx.NewFloat(10)
	result := ctx.NewFloat(1)
	for i := 0; i < exp; i++ {
		result = new(big.Float).SetPrec(ctx.Prec).Quo(result, ten)
	}
	return result
}

// roundHalfUp rounds x to the nearest integer, ties rounding away from zero
// (half-up).
func roundHalfUp(ctx *precision.Context, x *big.Float) *big.Int {
	half := ctx.NewFloat(0.5)
	shifted := new(big.Float).SetPrec(ctx.Prec)
	if x.Sign() >= 0 {
		shifted.Add(x, half)
	} else {
		shifted.Sub(x, half)
	}
	z, _ := shifted.Int(nil)
	return z
}

// Neighborhood returns {p0-1, p0, p0+1}, the tiny candidate set that
// certification tests.
func Neighborhood(p0 *big.Int) [3]*big.Int {
	one := big.NewInt(1)
	return [3]*big.Int{
		new(big.Int).Sub(p0, one),
		new(big.Int).Set(p0),
		new(big.Int).Add(p0, one),
	}
}
