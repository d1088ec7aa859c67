package orchestration

import (
	"bytes"
	"context"
	"math/big"
	"testing"

	"github.com/agbru/grfc/internal/kernel"
)

// TestExecuteBatchRespectsKernelVariant verifies that the orchestration layer
// correctly passes the configured KernelVariant through to engine.Factor for
// every N in the batch, proving the engine config is resolved once and
// shared across the batch rather than re-derived per-N.
func TestExecuteBatchRespectsKernelVariant(t *testing.T) {
	t.Parallel()

	cfg := testBatchConfig()
	cfg.KernelVariant = kernel.Dirichlet

	Ns := []*big.Int{big.NewInt(21), big.NewInt(35)}
	results, err := ExecuteBatch(context.Background(), Ns, cfg, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("unexpected batch error: %v", err)
	}

	for i, r := range results {
		if r.Result.Config.KernelVariant != kernel.Dirichlet {
			t.Errorf("result %d: expected kernel variant %s, got %s", i, kernel.Dirichlet, r.Result.Config.KernelVariant)
		}
	}
}
