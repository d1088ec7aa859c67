// Package sampler implements the deterministic sampler and parallel m-scan:
// a low-discrepancy additive-recurrence sequence over k, paired with a
// bounded integer sweep over m, fanned out to a worker pool per k with
// early-exit on a certified factor or wall-clock timeout.
package sampler

import (
	"math/big"

	"github.com/agbru/grfc/internal/precision"
)

// Sequence is a low-discrepancy 1-D generator over u in [0,1), used to map
// to the outer k coordinate. It is restartable from (n, u_n): calling Next
// repeatedly from a freshly constructed Sequence always reproduces the same
// trace for the same phiInv, giving the sampler its determinism.
type Sequence struct {
	u      *big.Float
	phiInv *big.Float
	prec   uint
}

// NewSequence constructs the additive-recurrence (Weyl/Kronecker) generator
// seeded at u_0 = 0, stepping by phiInv = (sqrt(5)-1)/2 at the given
// precision.
func NewSequence(phiInv *big.Float, prec uint) *Sequence {
	return &Sequence{
		u:      new(big.Float).SetPrec(prec),
		phiInv: phiInv,
		prec:   prec,
	}
}

// Next advances the sequence and returns u_{n+1} = frac(u_n + phiInv).
func (s *Sequence) Next() *big.Float {
	sum := new(big.Float).SetPrec(s.prec).Add(s.u, s.phiInv)
	s.u = frac(sum)
	return new(big.Float).SetPrec(s.prec).Copy(s.u)
}

// frac returns the fractional part of x, assuming x >= 0 (true for this
// generator since u and phiInv are both in [0,1)).
func frac(x *big.Float) *big.Float {
	i, _ := x.Int(nil)
	whole := new(big.Float).SetPrec(x.Prec()).SetInt(i)
	return new(big.Float).SetPrec(x.Prec()).Sub(x, whole)
}

// KFromU maps u in [0,1) to k in [kLo, kHi]: k = kLo + u*(kHi-kLo).
func KFromU(ctx *precision.Context, u *big.Float, kLo, kHi float64) *big.Float {
	lo := ctx.NewFloat(kLo)
	hi := ctx.NewFloat(kHi)
	span := new(big.Float).SetPrec(ctx.Prec).Sub(hi, lo)
	scaled := new(big.Float).SetPrec(ctx.Prec).Mul(u, span)
	return new(big.Float).SetPrec(ctx.Prec).Add(lo, scaled)
}
