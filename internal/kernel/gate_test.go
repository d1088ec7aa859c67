package kernel

import (
	"math/big"
	"testing"

	"github.com/agbru/grfc/internal/precision"
)

func gatesUnderTest() []Gate {
	return []Gate{
		New(Gaussian, 0.35, 0),
		New(Dirichlet, 0, 5),
	}
}

func TestGate_AmplitudeClamped(t *testing.T) {
	t.Parallel()
	ctx := precision.NewContext(256, 64)
	zero := ctx.NewFloat(0)
	one := ctx.NewFloat(1)

	for _, g := range gatesUnderTest() {
		for _, th := range []float64{0, 0.1, 1, 2, 3.14159, 10, -10, 1000} {
			amp := g.Amplitude(ctx, ctx.NewFloat(th))
			if amp.Cmp(zero) < 0 {
				t.Fatalf("%s: Amplitude(%v) = %s < 0", g.Name(), th, amp.Text('g', 10))
			}
			if amp.Cmp(one) > 0 {
				t.Fatalf("%s: Amplitude(%v) = %s > 1", g.Name(), th, amp.Text('g', 10))
			}
		}
	}
}

func TestGate_AmplitudeAtZeroIsOne(t *testing.T) {
	t.Parallel()
	ctx := precision.NewContext(256, 64)
	for _, g := range gatesUnderTest() {
		amp := g.Amplitude(ctx, ctx.NewFloat(0))
		one := ctx.NewFloat(1)
		diff := new(big.Float).SetPrec(ctx.Prec).Sub(amp, one)
		diff.Abs(diff)
		tolerance := ctx.NewFloat(1e-20)
		if diff.Cmp(tolerance) > 0 {
			t.Fatalf("%s: Amplitude(0) = %s, want ~1", g.Name(), amp.Text('g', 20))
		}
	}
}

func TestGate_Periodicity(t *testing.T) {
	t.Parallel()
	ctx := precision.NewContext(256, 64)
	twoPi := ctx.TwoPi()
	for _, g := range gatesUnderTest() {
		for _, th := range []float64{0.2, 1.1, -0.7, 2.9} {
			x := ctx.NewFloat(th)
			shifted := new(big.Float).SetPrec(ctx.Prec).Add(x, twoPi)
			a1 := g.Amplitude(ctx, x)
			a2 := g.Amplitude(ctx, shifted)
			diff := new(big.Float).SetPrec(ctx.Prec).Sub(a1, a2)
			diff.Abs(diff)
			tolerance := ctx.NewFloat(1e-15)
			if diff.Cmp(tolerance) > 0 {
				t.Fatalf("%s: Amplitude(%v) != Amplitude(%v+2pi): diff %s", g.Name(), th, th, diff.Text('g', 5))
			}
		}
	}
}

func TestGaussianGate_MonotoneInDistance(t *testing.T) {
	t.Parallel()
	ctx := precision.NewContext(256, 64)
	g := New(Gaussian, 0.35, 0)
	prev := g.Amplitude(ctx, ctx.NewFloat(0))
	for _, th := range []float64{0.1, 0.3, 0.6, 1.0, 1.5, 2.0} {
		cur := g.Amplitude(ctx, ctx.NewFloat(th))
		if cur.Cmp(prev) >= 0 {
			t.Fatalf("expected amplitude to decrease monotonically approaching pi: at theta=%v, %s >= %s", th, cur.Text('g', 10), prev.Text('g', 10))
		}
		prev = cur
	}
}

func TestDirichletGate_SingularityGuard(t *testing.T) {
	t.Parallel()
	ctx := precision.NewContext(256, 64)
	g := New(Dirichlet, 0, 7)
	// theta extremely close to 0 should hit the |sin(theta/2)| < eps guard
	// and return exactly 1, not NaN/div-by-zero.
	tiny := ctx.NewFloat(0)
	amp := g.Amplitude(ctx, tiny)
	one := ctx.NewFloat(1)
	if amp.Cmp(one) != 0 {
		t.Fatalf("Amplitude(0) = %s, want exactly 1", amp.Text('g', 20))
	}
}

func TestAccept(t *testing.T) {
	t.Parallel()
	ctx := precision.NewContext(256, 64)
	threshold := ctx.NewFloat(0.5)
	if !Accept(ctx.NewFloat(0.6), threshold) {
		t.Fatal("expected 0.6 to clear threshold 0.5")
	}
	if Accept(ctx.NewFloat(0.4), threshold) {
		t.Fatal("expected 0.4 to not clear threshold 0.5")
	}
}
