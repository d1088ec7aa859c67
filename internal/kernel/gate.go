// Package kernel implements the smooth amplitude gate that decides, cheaply
// per angle theta, whether a sample is worth snapping to an integer
// candidate. Two interchangeable implementations are provided behind a
// common interface: a preferred Gaussian gate with no singularities, and a
// legacy normalized-Dirichlet gate kept for compatibility with prior
// tuning.
package kernel

import (
	"math/big"

	"github.com/agbru/grfc/internal/precision"
)

// Gate evaluates a smooth amplitude A(theta) in [0,1] and decides whether it
// clears an acceptance threshold. Implementations must be stateless and safe
// for concurrent use by multiple sampler workers.
type Gate interface {
	// Amplitude returns A(theta) in [0,1], periodic with period 2*pi.
	Amplitude(ctx *precision.Context, theta *big.Float) *big.Float

	// Weight returns the kernel-specific weight used by the snap kernel to
	// compute Delta-phi = principal(theta) * Weight().
	Weight(ctx *precision.Context) *big.Float

	// Name identifies the variant, for logging and Result snapshots.
	Name() string
}

// Variant selects which Gate implementation Config wires up.
type Variant string

const (
	// Gaussian is the default, recommended variant: no singularities,
	// bandwidth controlled by a single parameter sigma.
	Gaussian Variant = "gaussian"
	// Dirichlet is the legacy variant, kept for compatibility with prior
	// tuning; it requires singularity guards at theta = 0 (mod 2*pi).
	Dirichlet Variant = "dirichlet"
)

// New constructs the Gate for the given variant and parameters. sigma is the
// Gaussian bandwidth;
// j is the Dirichlet half-width.
func New(variant Variant, sigma float64, j int) Gate {
	switch variant {
	case Dirichlet:
		return &DirichletGate{J: j}
	default:
		return &GaussianGate{Sigma: sigma}
	}
}

// Accept reports whether amp clears threshold.
func Accept(amp, threshold *big.Float) bool {
	return amp.Cmp(threshold) > 0
}
