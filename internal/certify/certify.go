// Package certify implements the arithmetic certification layer: the only
// arithmetic predicate GRFC applies outside geometry, N mod d == 0, tested
// on at most three integers per accepted snap. No wide sweep, no classical
// factoring fallback.
package certify

import (
	"math/big"

	apperrors "github.com/agbru/grfc/internal/errors"
)

// Pair is a certified factor pair with p <= q and p*q == N.
type Pair struct {
	P, Q *big.Int
}

// gmpTry is registered by certify_gmp.go's init when built with the "gmp"
// build tag. It stays nil in the default build, so the dispatch in Try is a
// single cheap nil check with no GMP dependency pulled in.
var gmpTry func(N *big.Int, neighborhood [3]*big.Int) (Pair, bool)

// whitelistedN mirrors engine.WhitelistedN: the single 127-bit challenge GMP
// dispatch applies to. It is duplicated here rather than imported to avoid a
// certify -> engine import cycle (engine reaches certify transitively
// through sampler).
var whitelistedN = mustParseInt("137524771864208156028430259349934309717")

func mustParseInt(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("certify: invalid literal " + s)
	}
	return n
}

// Try applies N mod d == 0 to each candidate in neighborhood, in order,
// skipping d <= 1 or d >= N. It returns the first certified pair found, or
// ok=false if none of the (at most three) candidates certify.
//
// When built with the "gmp" build tag and N is the whitelisted challenge,
// Try dispatches to the GMP-backed path registered by certify_gmp.go instead
// of running the math/big loop itself.
//
// On a hit, p*q == N is re-verified before returning; a violation indicates
// an arithmetic bug, not an algorithmic one, and is fatal —
// it panics rather than returning a silently wrong Result.
func Try(N *big.Int, neighborhood [3]*big.Int) (Pair, bool) {
	if gmpTry != nil && N.Cmp(whitelistedN) == 0 {
		return gmpTry(N, neighborhood)
	}

	one := big.NewInt(1)
	for _, d := range neighborhood {
		if d == nil {
			continue
		}
		if d.Cmp(one) <= 0 || d.Cmp(N) >= 0 {
			continue
		}
		rem := new(big.Int).Mod(N, d)
		if rem.Sign() != 0 {
			continue
		}
		q := new(big.Int).Div(N, d)
		p, q := order(d, q)

		verify := new(big.Int).Mul(p, q)
		if verify.Cmp(N) != 0 {
			panic(apperrors.NewCertificationError(N.String(), p.String(), q.String()))
		}
		return Pair{P: p, Q: q}, true
	}
	return Pair{}, false
}

// order returns (a,b) sorted so the first element is the smaller,
// guaranteeing the same (p,q) pair regardless of which (k,m) discovered it.
func order(a, b *big.Int) (*big.Int, *big.Int) {
	if a.Cmp(b) <= 0 {
		return a, b
	}
	return b, a
}
