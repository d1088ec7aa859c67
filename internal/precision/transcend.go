package precision

import (
	"math"
	"math/big"
)

// Sqrt returns sqrt(x) at the Context's precision. It delegates to
// big.Float's native Sqrt, which is correctly rounded at the receiver's
// precision; GRFC's own responsibility is only to make sure every operand
// and result stays pinned to the same Context.
func (c *Context) Sqrt(x *big.Float) (*big.Float, error) {
	if x.Sign() < 0 {
		return nil, &ErrNonPositiveArgument{Func: "sqrt", X: x}
	}
	z := c.num()
	z.Sqrt(x)
	return z, nil
}

// iterBound returns a loop bound on the number of Taylor/Newton iterations
// needed to converge to the Context's precision, with a small constant
// safety factor. It is deliberately generous: a few extra iterations are
// cheap relative to a single big.Float multiply at hundreds of digits.
func (c *Context) iterBound() int {
	// Each iteration of the series used below contributes roughly one
	// additional bit of convergence per doubling; 2*Prec is a safe, simple
	// bound for the Taylor loops in Exp, taylorSin, taylorCos and
	// arctanReciprocal. Ln's Newton loop is bounded by newtonIterBound.
	n := int(c.Prec)*2 + 16
	if n < 32 {
		n = 32
	}
	return n
}

// Exp returns e^x at the Context's precision. It reduces the argument by
// repeated halving until |x/2^k| < 1, sums the Taylor series for
// exp(x/2^k), then squares the result k times: exp(x) = (exp(x/2^k))^(2^k).
func (c *Context) Exp(x *big.Float) *big.Float {
	one := c.NewFloat(1)

	// Determine k such that |x| / 2^k < 1.
	k := 0
	reduced := c.num().Copy(x)
	absReduced := new(big.Float).Abs(reduced)
	threshold := c.NewFloat(1)
	two := c.NewFloat(2)
	for absReduced.Cmp(threshold) >= 0 {
		reduced = c.num().Quo(reduced, two)
		absReduced = new(big.Float).Abs(reduced)
		k++
	}

	// Taylor series: exp(y) = sum_{n=0}^{N} y^n / n!
	sum := c.num().Copy(one)
	term := c.num().Copy(one)
	maxIter := c.iterBound()
	for n := 1; n <= maxIter; n++ {
		nBig := c.NewFloat(float64(n))
		term = c.num().Mul(term, reduced)
		term = c.num().Quo(term, nBig)
		sum = c.num().Add(sum, term)
		if isNegligible(term, c.Prec) {
			break
		}
	}

	// Undo the argument reduction by repeated squaring.
	result := sum
	for i := 0; i < k; i++ {
		result = c.num().Mul(result, result)
	}
	return result
}

// Ln returns the natural logarithm of x at the Context's precision.
//
// x is decomposed as m * 2^e with m in [0.5, 1) via big.Float.MantExp, so
// ln(x) = ln(m) + e*ln(2). ln(m) is obtained by Newton iteration on
// f(y) = exp(y) - m, y_{n+1} = y_n + m*exp(-y_n) - 1, seeded from a
// float64 approximation of ln(m) (always representable: m is in [0.5,1)).
// ln(2) is computed once per call via the same Newton scheme seeded from
// math.Ln2, at the Context's precision.
func (c *Context) Ln(x *big.Float) (*big.Float, error) {
	if x.Sign() <= 0 {
		return nil, &ErrNonPositiveArgument{Func: "ln", X: x}
	}

	mantissa := c.num()
	exp := x.MantExp(mantissa)

	lnM := c.newtonLn(mantissa, math.Log(mantissaFloat64(mantissa)))
	ln2 := c.newtonLn(c.NewFloat(2), math.Ln2)

	expBig := c.NewFloat(float64(exp))
	term := c.num().Mul(expBig, ln2)
	return c.num().Add(lnM, term), nil
}

// newtonLn computes ln(m) for m>0 via Newton iteration on exp, seeded from
// a float64 approximation (guess) of the answer.
func (c *Context) newtonLn(m *big.Float, guess float64) *big.Float {
	y := c.NewFloat(guess)
	maxIter := newtonIterBound(c.Prec)
	for i := 0; i < maxIter; i++ {
		negY := c.num().Neg(y)
		expNegY := c.Exp(negY)
		correction := c.num().Mul(m, expNegY)
		one := c.NewFloat(1)
		correction = c.num().Sub(correction, one)
		yNext := c.num().Add(y, correction)
		if converged(yNext, y, c.Prec) {
			y = yNext
			break
		}
		y = yNext
	}
	return y
}

// newtonIterBound returns the number of Newton iterations needed to reach
// Prec bits of accuracy: Newton's method for Ln roughly doubles the number
// of correct bits per iteration once it is in the basin of convergence, so
// log2(Prec) iterations plus a safety margin suffice.
func newtonIterBound(prec uint) int {
	n := 0
	for p := uint(1); p < prec; p *= 2 {
		n++
	}
	return n + 8
}

// Sin returns sin(theta) at the Context's precision, reducing theta to the
// principal range [-pi, pi] first, then to [-pi/4, pi/4] via the standard
// quadrant identities before summing the Taylor series.
func (c *Context) Sin(theta *big.Float) *big.Float {
	s, _ := c.sinCos(theta)
	return s
}

// Cos returns cos(theta) at the Context's precision, via the same reduction
// as Sin.
func (c *Context) Cos(theta *big.Float) *big.Float {
	_, cosv := c.sinCos(theta)
	return cosv
}

// sinCos computes sin and cos together, sharing the argument-reduction work.
func (c *Context) sinCos(theta *big.Float) (*big.Float, *big.Float) {
	reduced := c.Principal(theta)

	// Quadrant reduction: write reduced = q*(pi/2) + r with r in [-pi/4, pi/4].
	halfPi := c.num().Quo(c.Pi(), c.NewFloat(2))
	qFloat := c.num().Quo(reduced, halfPi)
	qf, _ := qFloat.Float64()
	q := int(math.Round(qf))

	r := c.num().Sub(reduced, c.num().Mul(c.NewFloat(float64(q)), halfPi))

	sinR := c.taylorSin(r)
	cosR := c.taylorCos(r)

	switch ((q % 4) + 4) % 4 {
	case 0:
		return sinR, cosR
	case 1:
		return cosR, c.num().Neg(sinR)
	case 2:
		return c.num().Neg(sinR), c.num().Neg(cosR)
	default: // 3
		return c.num().Neg(cosR), sinR
	}
}

// taylorSin sums the Taylor series for sin(x), valid for small |x|
// (callers pass |x| <= pi/4).
func (c *Context) taylorSin(x *big.Float) *big.Float {
	sum := c.num().Copy(x)
	term := c.num().Copy(x)
	xSq := c.num().Mul(x, x)
	maxIter := c.iterBound()
	for n := 1; n <= maxIter; n++ {
		denom := c.NewFloat(float64((2*n + 1) * (2 * n)))
		term = c.num().Mul(term, xSq)
		term = c.num().Quo(term, denom)
		term = c.num().Neg(term)
		sum = c.num().Add(sum, term)
		if isNegligible(term, c.Prec) {
			break
		}
	}
	return sum
}

// taylorCos sums the Taylor series for cos(x), valid for small |x|
// (callers pass |x| <= pi/4).
func (c *Context) taylorCos(x *big.Float) *big.Float {
	one := c.NewFloat(1)
	sum := c.num().Copy(one)
	term := c.num().Copy(one)
	xSq := c.num().Mul(x, x)
	maxIter := c.iterBound()
	for n := 1; n <= maxIter; n++ {
		denom := c.NewFloat(float64((2*n - 1) * (2 * n)))
		term = c.num().Mul(term, xSq)
		term = c.num().Quo(term, denom)
		term = c.num().Neg(term)
		sum = c.num().Add(sum, term)
		if isNegligible(term, c.Prec) {
			break
		}
	}
	return sum
}

// Principal reduces theta to its principal representative in [-pi, pi]:
// theta - 2*pi*floor(theta/(2*pi) + 1/2).
func (c *Context) Principal(theta *big.Float) *big.Float {
	twoPi := c.TwoPi()
	half := c.NewFloat(0.5)
	ratio := c.num().Quo(theta, twoPi)
	ratio = c.num().Add(ratio, half)
	floorRatio := floorBig(ratio)
	shift := c.num().Mul(floorRatio, twoPi)
	return c.num().Sub(theta, shift)
}

// floorBig returns floor(x) as a big.Float at x's precision.
func floorBig(x *big.Float) *big.Float {
	i, _ := x.Int(nil)
	z := new(big.Float).SetPrec(x.Prec()).SetInt(i)
	if x.Sign() < 0 && z.Cmp(x) > 0 {
		z = new(big.Float).SetPrec(x.Prec()).Sub(z, big.NewFloat(1))
	}
	return z
}

// isNegligible reports whether term is small enough, relative to 2^-prec,
// to stop a converging series.
func isNegligible(term *big.Float, prec uint) bool {
	if term.Sign() == 0 {
		return true
	}
	exp := term.MantExp(nil)
	return int64(exp) < -int64(prec)+8
}

// converged reports whether two successive Newton iterates agree to the
// Context's precision.
func converged(a, b *big.Float, prec uint) bool {
	diff := new(big.Float).SetPrec(prec).Sub(a, b)
	return isNegligible(diff, prec)
}

// mantissaFloat64 extracts the float64 value of a mantissa known to lie in
// [0.5, 1); used only to seed Newton's method, never as the final result.
func mantissaFloat64(m *big.Float) float64 {
	f, _ := m.Float64()
	if f == 0 {
		return 0.5
	}
	return f
}

// piBig computes pi at Context c's precision via the Machin-like formula
// pi = 16*arctan(1/5) - 4*arctan(1/239), summing each arctan's Taylor
// series (which converges geometrically because both arguments are small).
func piBig(c *Context) *big.Float {
	a1 := c.arctanReciprocal(5)
	a2 := c.arctanReciprocal(239)
	sixteen := c.NewFloat(16)
	four := c.NewFloat(4)
	t1 := c.num().Mul(sixteen, a1)
	t2 := c.num().Mul(four, a2)
	return c.num().Sub(t1, t2)
}

// arctanReciprocal computes arctan(1/n) via its Taylor series
// arctan(x) = x - x^3/3 + x^5/5 - ... for x = 1/n.
func (c *Context) arctanReciprocal(n int64) *big.Float {
	x := c.num().Quo(c.NewFloat(1), c.NewFloat(float64(n)))
	xSq := c.num().Mul(x, x)
	sum := c.num().Copy(x)
	term := c.num().Copy(x)
	maxIter := c.iterBound()
	for k := 1; k <= maxIter; k++ {
		term = c.num().Mul(term, xSq)
		denom := c.NewFloat(float64(2*k + 1))
		step := c.num().Quo(term, denom)
		if k%2 == 1 {
			sum = c.num().Sub(sum, step)
		} else {
			sum = c.num().Add(sum, step)
		}
		if isNegligible(step, c.Prec) {
			break
		}
	}
	return sum
}
