//go:build gmp

// This file provides a GMP-backed certification path, conditionally
// compiled with the "gmp" build tag: GMP support is opt-in (go build
// -tags=gmp) so the default build stays dependency-free of libgmp. It is
// used only for the single 127-bit whitelisted challenge, where GMP's
// assembly-optimized Mod narrowly outperforms math/big at that one operand
// size class; below it, math/big.Int.Mod is already faster in practice due
// to cgo call overhead, so TryGMP is never the default path.
package certify

import (
	"math/big"

	apperrors "github.com/agbru/grfc/internal/errors"
	"github.com/ncw/gmp"
)

func init() {
	gmpTry = TryGMP
}

// TryGMP is functionally identical to Try but performs the modulus test via
// github.com/ncw/gmp instead of math/big. This file's init registers it as
// gmpTry, so Try reaches it automatically for the whitelisted challenge once the repo
// is built with -tags=gmp; it is never called directly by other packages.
func TryGMP(N *big.Int, neighborhood [3]*big.Int) (Pair, bool) {
	gN := new(gmp.Int).SetBytes(N.Bytes())
	one := big.NewInt(1)

	for _, d := range neighborhood {
		if d == nil {
			continue
		}
		if d.Cmp(one) <= 0 || d.Cmp(N) >= 0 {
			continue
		}
		gD := new(gmp.Int).SetBytes(d.Bytes())
		gRem := new(gmp.Int).Mod(gN, gD)
		if gRem.Sign() != 0 {
			continue
		}
		gQ := new(gmp.Int).Div(gN, gD)
		q := new(big.Int).SetBytes(gQ.Bytes())
		p, q := order(new(big.Int).Set(d), q)

		verify := new(big.Int).Mul(p, q)
		if verify.Cmp(N) != 0 {
			panic(apperrors.NewCertificationError(N.String(), p.String(), q.String()))
		}
		return Pair{P: p, Q: q}, true
	}
	return Pair{}, false
}
