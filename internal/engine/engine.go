// Package engine is the composition root that wires precision, kernel,
// snap, sampler and certify into a single call-scoped operation:
// Factor(N, cfg) -> Result. It owns the operational gate and the
// Config-to-Context translation; it holds no state across calls.
package engine

import (
	"context"
	"math/big"
	"time"

	"github.com/agbru/grfc/internal/kernel"
	"github.com/agbru/grfc/internal/precision"
	"github.com/agbru/grfc/internal/sampler"
	"github.com/agbru/grfc/internal/snap"
)

// GateLow and GateHigh bound the engine's operational window: N must fall in [GateLow, GateHigh] unless it equals WhitelistedN and
// the caller has set Config.AllowWhitelistedChallenge.
var (
	GateLow  = mustParseInt("100000000000000")    // 10^14
	GateHigh = mustParseInt("1000000000000000000") // 10^18

	// WhitelistedN is the single named 127-bit challenge the gate may admit
	// when Config.AllowWhitelistedChallenge is true.
	WhitelistedN = mustParseInt("137524771864208156028430259349934309717")
)

func mustParseInt(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("engine: invalid literal " + s)
	}
	return n
}

// Reason mirrors sampler.Reason plus the engine-level OUT_OF_GATE outcome,
// forming the Result::Failure{reason} enum.
type Reason string

const (
	ReasonNoFactorFound Reason = "NO_FACTOR_FOUND"
	ReasonTimeout       Reason = "TIMEOUT"
	ReasonOutOfGate     Reason = "OUT_OF_GATE"
)

// Result is the sum type Factor returns: either Success with a certified
// pair, or Failure with a Reason. Success is zero-valued (P, Q nil) when
// the result is a Failure, and vice versa.
type Result struct {
	Success bool
	P, Q    *big.Int
	Elapsed time.Duration
	Reason  Reason
	Config  Config
	Samples int
}

// Factor runs the gated geometric search: it rejects N outside the
// operational window before any sampling, derives a frozen
// precision.Context, drives the sampler, and returns a Result. Factor holds
// no state across calls and is idempotent: two successive calls with the
// same (N, cfg) return equal Results modulo Elapsed.
func Factor(ctx context.Context, N *big.Int, cfg Config) Result {
	start := time.Now()

	if reason, ok := checkGate(N, cfg); !ok {
		return Result{Reason: reason, Config: cfg, Elapsed: time.Since(start)}
	}

	return search(ctx, N, cfg, start)
}

// search drives the gate-free geometric search: deriving the frozen
// precision.Context, wiring the kernel gate and sampler, and returning a
// Result. It is split out of Factor so the gate decision stays a single,
// easily-audited guard at the top of the public entry point.
func search(ctx context.Context, N *big.Int, cfg Config, start time.Time) Result {
	pctx := precision.NewContext(cfg.Precision, N.BitLen())

	lnN, err := pctx.Ln(pctx.NewFromInt(N))
	if err != nil {
		// N > 0 is already guaranteed by checkGate; unreachable in practice.
		return Result{Reason: ReasonNoFactorFound, Config: cfg, Elapsed: time.Since(start)}
	}
	twoPi := pctx.TwoPi()
	phiInv := pctx.GoldenRatioInverse()

	gate := kernel.New(cfg.KernelVariant, cfg.Sigma, cfg.J)

	var deadline time.Time
	var searchCtx context.Context
	var cancel context.CancelFunc
	if cfg.SearchTimeoutMS > 0 {
		deadline = start.Add(time.Duration(cfg.SearchTimeoutMS) * time.Millisecond)
		searchCtx, cancel = context.WithDeadline(ctx, deadline)
	} else {
		searchCtx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	params := sampler.Params{
		KLo:            cfg.KLo,
		KHi:            cfg.KHi,
		MSpan:          cfg.MSpan,
		Samples:        cfg.Samples,
		Threshold:      cfg.Threshold,
		Gate:           gate,
		SnapOptions:    snap.Options{NewtonIterations: cfg.NewtonIterations},
		StabilityCheck: cfg.StabilityCheck,
		Workers:        cfg.Workers,
	}

	out := sampler.Run(searchCtx, pctx, N, lnN, twoPi, phiInv, params, deadline, nil)

	elapsed := time.Since(start)
	if out.Found {
		return Result{
			Success: true,
			P:       out.Pair.P,
			Q:       out.Pair.Q,
			Elapsed: elapsed,
			Config:  cfg,
			Samples: out.SamplesUsed,
		}
	}

	reason := ReasonNoFactorFound
	if out.Reason == sampler.ReasonTimeout {
		reason = ReasonTimeout
	}
	return Result{Reason: reason, Config: cfg, Elapsed: elapsed, Samples: out.SamplesUsed}
}

// checkGate applies the operational-window guard: N must lie in
// [GateLow, GateHigh], or equal WhitelistedN with
// Config.AllowWhitelistedChallenge set.
func checkGate(N *big.Int, cfg Config) (Reason, bool) {
	if N == nil || N.Sign() <= 0 {
		return ReasonOutOfGate, false
	}
	if cfg.AllowWhitelistedChallenge && N.Cmp(WhitelistedN) == 0 {
		return "", true
	}
	if N.Cmp(GateLow) < 0 || N.Cmp(GateHigh) > 0 {
		return ReasonOutOfGate, false
	}
	return "", true
}
