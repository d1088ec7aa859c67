package certify

import (
	"math/big"
	"testing"
)

func TestTry_CertifiesExactNeighbor(t *testing.T) {
	t.Parallel()
	N := big.NewInt(100000980001501) // 10000019 * 10000079
	neighborhood := [3]*big.Int{
		big.NewInt(10000018),
		big.NewInt(10000019),
		big.NewInt(10000020),
	}
	pair, ok := Try(N, neighborhood)
	if !ok {
		t.Fatal("expected certification to succeed")
	}
	if pair.P.Cmp(big.NewInt(10000019)) != 0 || pair.Q.Cmp(big.NewInt(10000079)) != 0 {
		t.Fatalf("got (%v,%v), want (10000019,10000079)", pair.P, pair.Q)
	}
}

func TestTry_NoFactorInNeighborhood(t *testing.T) {
	t.Parallel()
	N := big.NewInt(100000980001501)
	neighborhood := [3]*big.Int{
		big.NewInt(123456),
		big.NewInt(123457),
		big.NewInt(123458),
	}
	_, ok := Try(N, neighborhood)
	if ok {
		t.Fatal("expected certification to fail for unrelated neighborhood")
	}
}

func TestTry_SkipsOutOfRangeCandidates(t *testing.T) {
	t.Parallel()
	N := big.NewInt(35) // 5 * 7
	neighborhood := [3]*big.Int{
		big.NewInt(0),
		big.NewInt(1),
		big.NewInt(35),
	}
	_, ok := Try(N, neighborhood)
	if ok {
		t.Fatal("expected d<=1 and d>=N candidates to be skipped, no certification")
	}
}

func TestTry_CanonicalOrdering(t *testing.T) {
	t.Parallel()
	// Regardless of whether the neighborhood finds q before p, the result
	// must be ordered p <= q.
	N := big.NewInt(35)
	neighborhood := [3]*big.Int{
		big.NewInt(6),
		big.NewInt(7),
		big.NewInt(8),
	}
	pair, ok := Try(N, neighborhood)
	if !ok {
		t.Fatal("expected certification to succeed")
	}
	if pair.P.Cmp(pair.Q) > 0 {
		t.Fatalf("expected p <= q, got p=%v q=%v", pair.P, pair.Q)
	}
	if pair.P.Cmp(big.NewInt(5)) != 0 || pair.Q.Cmp(big.NewInt(7)) != 0 {
		t.Fatalf("got (%v,%v), want (5,7)", pair.P, pair.Q)
	}
}

func TestTry_WhitelistedChallenge(t *testing.T) {
	t.Parallel()
	N, ok := new(big.Int).SetString("137524771864208156028430259349934309717", 10)
	if !ok {
		t.Fatal("failed to parse whitelisted N")
	}
	p, ok := new(big.Int).SetString("10508623501177419659", 10)
	if !ok {
		t.Fatal("failed to parse p")
	}
	neighborhood := [3]*big.Int{
		new(big.Int).Sub(p, big.NewInt(1)),
		p,
		new(big.Int).Add(p, big.NewInt(1)),
	}
	pair, ok := Try(N, neighborhood)
	if !ok {
		t.Fatal("expected certification to succeed for the whitelisted challenge")
	}
	q, _ := new(big.Int).SetString("13086849276577416863", 10)
	if pair.P.Cmp(p) != 0 || pair.Q.Cmp(q) != 0 {
		t.Fatalf("got (%v,%v), want (%v,%v)", pair.P, pair.Q, p, q)
	}
}
