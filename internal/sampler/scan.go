package sampler

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	"github.com/agbru/grfc/internal/certify"
	"github.com/agbru/grfc/internal/kernel"
	"github.com/agbru/grfc/internal/logging"
	"github.com/agbru/grfc/internal/precision"
	"github.com/agbru/grfc/internal/snap"
)

// Prometheus metrics for the search loop itself, as opposed to the
// server package's generic HTTP request counters.
var (
	samplesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "grfc_samples_total",
		Help: "Total number of (k,m) samples evaluated across all searches.",
	})
	gateRejectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "grfc_gate_rejections_total",
		Help: "Total number of samples rejected by the kernel amplitude gate or the optional stability check.",
	})
	certificationsAttemptedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "grfc_certifications_attempted_total",
		Help: "Total number of certify.Try invocations, i.e. samples that cleared the gate.",
	})
)

// tracer instruments each outer k-iteration of Run so a search is
// inspectable end-to-end in a trace viewer.
var tracer = otel.Tracer("github.com/agbru/grfc/internal/sampler")

// Params configures a Run: the sampling window for k, the integer sweep
// range for m, the iteration and worker budgets, and the kernel/snap
// settings every worker shares. Params is a frozen value, matching the
// spec's "no post-construction mutation" configuration idiom.
type Params struct {
	KLo, KHi       float64
	MSpan          int
	Samples        int
	Threshold      float64
	Gate           kernel.Gate
	SnapOptions    snap.Options
	StabilityCheck bool
	Workers        int
}

// Reason enumerates the non-success exit states of a Run.
type Reason string

const (
	// ReasonNone indicates Run succeeded; Reason is unset in that case.
	ReasonNone Reason = ""
	// ReasonNoFactorFound indicates the sample budget was exhausted with
	// no certified factor.
	ReasonNoFactorFound Reason = "NO_FACTOR_FOUND"
	// ReasonTimeout indicates the wall-clock deadline expired first.
	ReasonTimeout Reason = "TIMEOUT"
)

// Outcome is the result of a Run: either a certified Pair (Found=true), or
// a Reason explaining why none was found.
type Outcome struct {
	Pair        certify.Pair
	Found       bool
	Reason      Reason
	SamplesUsed int
}

// resultCell is a write-once, lock-free-read holder for the first certified
// pair any worker finds: a sync.Once guards the single write, and reads
// never block.
type resultCell struct {
	once sync.Once
	pair certify.Pair
	set  bool
}

func (c *resultCell) install(p certify.Pair) {
	c.once.Do(func() {
		c.pair = p
		c.set = true
	})
}

func (c *resultCell) get() (certify.Pair, bool) {
	return c.pair, c.set
}

// Run drives the outer k-loop and, for each k, fans the inner m-sweep out
// to a bounded worker pool via errgroup.WithContext. The outer k order
// is strict and sequential, keeping the additive recurrence (and any
// progress log) monotone; the inner m order is unspecified.
func Run(ctx context.Context, pctx *precision.Context, N *big.Int, lnN, twoPi, phiInv *big.Float, params Params, deadline time.Time, logger logging.Logger) Outcome {
	seq := NewSequence(phiInv, pctx.Prec)
	threshold := pctx.NewFloat(params.Threshold)

	workers := params.Workers
	if workers < 1 {
		workers = 1
	}

	samplesUsed := 0
	for n := 0; n < params.Samples; n++ {
		if !deadline.IsZero() && time.Now().After(deadline) {
			return Outcome{Reason: ReasonTimeout, SamplesUsed: samplesUsed}
		}
		select {
		case <-ctx.Done():
			return Outcome{Reason: ReasonTimeout, SamplesUsed: samplesUsed}
		default:
		}

		u := seq.Next()
		k := KFromU(pctx, u, params.KLo, params.KHi)

		kCtx, span := tracer.Start(ctx, "sampler.k_iteration")
		kCtx, cancel := context.WithCancel(kCtx)

		cell := &resultCell{}
		g, gCtx := errgroup.WithContext(kCtx)
		g.SetLimit(workers)

		for m := -params.MSpan; m <= params.MSpan; m++ {
			m := m
			samplesUsed++
			samplesTotal.Inc()
			g.Go(func() error {
				select {
				case <-gCtx.Done():
					return nil
				default:
				}
				if _, found := cell.get(); found {
					return nil
				}

				theta := angleFor(pctx, twoPi, m, k)
				amp := params.Gate.Amplitude(pctx, theta)
				if !kernel.Accept(amp, threshold) {
					gateRejectionsTotal.Inc()
					return nil
				}
				if params.StabilityCheck && !kernel.StabilityCheck(pctx, params.Gate, theta, threshold) {
					gateRejectionsTotal.Inc()
					return nil
				}

				res := snap.Snap(pctx, lnN, theta, params.Gate, params.SnapOptions)
				neighborhood := snap.Neighborhood(res.P0)

				certificationsAttemptedTotal.Inc()
				pair, ok := certify.Try(N, neighborhood)
				if ok {
					cell.install(pair)
					cancel()
					if logger != nil {
						logger.Debug("candidate certified", logging.Int("m", m))
					}
				}
				return nil
			})
		}

		_ = g.Wait()
		cancel()
		span.End()

		if pair, found := cell.get(); found {
			return Outcome{Pair: pair, Found: true, SamplesUsed: samplesUsed}
		}
	}

	return Outcome{Reason: ReasonNoFactorFound, SamplesUsed: samplesUsed}
}

// angleFor computes theta = 2*pi*m/k at the Context's precision.
func angleFor(ctx *precision.Context, twoPi *big.Float, m int, k *big.Float) *big.Float {
	mBig := ctx.NewFloat(float64(m))
	num := new(big.Float).SetPrec(ctx.Prec).Mul(twoPi, mBig)
	return new(big.Float).SetPrec(ctx.Prec).Quo(num, k)
}
