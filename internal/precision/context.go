// Package precision owns the arbitrary-precision arithmetic context used by
// every other GRFC component. It is the only source of truth for digit count
// and rounding mode, and it exposes the transcendental primitives (ln, exp,
// sin, cos, sqrt, pi) that the kernel gate and the snap kernel build on.
package precision

import (
	"fmt"
	"math/big"
)

// MinExtraBits is the headroom, in bits, added on top of 4*bits(N) when
// deriving the working precision. It absorbs the error accumulated by
// composing ln, exp and the kernel's sin/cos evaluations.
const MinExtraBits = 200

// BitsPerInputBit is the multiplier applied to bits(N) when deriving the
// working precision: P = max(configured, bits(N)*BitsPerInputBit + MinExtraBits).
const BitsPerInputBit = 4

// Context is the frozen arbitrary-precision environment shared by a single
// call to the engine. It is created once at call entry and never mutated;
// every big.Float produced by its primitives is rounded at the same
// precision and the same rounding mode.
//
// Context deliberately has no mutable state: Prec is fixed for the lifetime
// of the value, so precision never decreases during a call.
type Context struct {
	// Prec is the working precision, in bits of mantissa, for every
	// big.Float value produced through this Context.
	Prec uint
}

// NewContext derives the working precision for a search over N and returns
// the Context that every other GRFC component threads through.
//
// configuredPrec is a floor taken from Config.Precision (in bits); bitsN is
// bits(N). The effective precision is:
//
//	P = max(configuredPrec, bitsN*BitsPerInputBit + MinExtraBits)
func NewContext(configuredPrec uint, bitsN int) *Context {
	derived := uint(bitsN)*BitsPerInputBit + MinExtraBits
	if configuredPrec > derived {
		derived = configuredPrec
	}
	return &Context{Prec: derived}
}

// num allocates a new big.Float bound to this Context's precision, with
// half-to-even rounding (big.Float's default rounding mode, ToNearestEven).
func (c *Context) num() *big.Float {
	return new(big.Float).SetPrec(c.Prec).SetMode(big.ToNearestEven)
}

// NewFloat returns an x-valued big.Float at this Context's precision.
func (c *Context) NewFloat(x float64) *big.Float {
	return c.num().SetFloat64(x)
}

// NewFromInt returns z's value converted to a big.Float at this Context's
// precision.
func (c *Context) NewFromInt(z *big.Int) *big.Float {
	return c.num().SetInt(z)
}

// ErrNonPositiveArgument is returned by Ln when given a non-positive argument
// and by Sqrt when given a negative one. This is a local numerical degeneracy: callers convert it into a
// skipped sample, never into a process-level failure.
type ErrNonPositiveArgument struct {
	Func string
	X    *big.Float
}

func (e *ErrNonPositiveArgument) Error() string {
	return fmt.Sprintf("precision: %s requires a positive argument, got %s", e.Func, e.X.Text('g', 10))
}

// Pi returns the value of π at the Context's precision, via Machin's
// formula π = 16·arctan(1/5) − 4·arctan(1/239) (see piBig); 2*pi is
// computed in TwoPi.
func (c *Context) Pi() *big.Float {
	return piBig(c)
}

// TwoPi returns 2*pi at the Context's precision.
func (c *Context) TwoPi() *big.Float {
	two := c.NewFloat(2)
	return c.num().Mul(two, c.Pi())
}

// E returns Euler's number e at the Context's precision, via Exp(1).
func (c *Context) E() *big.Float {
	return c.Exp(c.NewFloat(1))
}

// GoldenRatioInverse returns (sqrt(5)-1)/2, the reciprocal of the golden
// ratio, used by the sampler's additive-recurrence sequence.
func (c *Context) GoldenRatioInverse() *big.Float {
	five := c.NewFloat(5)
	sqrt5, err := c.Sqrt(five)
	if err != nil {
		// unreachable: 5 is always positive
		panic(err)
	}
	one := c.NewFloat(1)
	two := c.NewFloat(2)
	num := c.num().Sub(sqrt5, one)
	return c.num().Quo(num, two)
}
