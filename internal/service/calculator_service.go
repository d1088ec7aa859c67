// Package service provides the core business logic for factoring N,
// decoupled from the transport layer (HTTP handlers, CLI commands). This
// centralizes validation and kernel-variant selection for the HTTP server;
// the batch orchestrator and the REPL call engine.Factor directly.
package service

//go:generate mockgen -source=calculator_service.go -destination=mocks/mock_service.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/agbru/grfc/internal/config"
	"github.com/agbru/grfc/internal/engine"
	"github.com/agbru/grfc/internal/kernel"
)

var (
	// ErrMaxBitsExceeded is returned when N's bit length exceeds the
	// configured maximum limit.
	ErrMaxBitsExceeded = errors.New("maximum n bit length exceeded")
)

// Service defines the interface for factorization services. This
// abstraction enables dependency injection and easier testing/mocking.
type Service interface {
	// Factor performs the gated geometric search for N using the named
	// kernel variant override ("" keeps the service's configured default).
	//
	// Parameters:
	//   - ctx: The context for cancellation.
	//   - N: The semiprime to factor.
	//   - kernelVariant: "gaussian", "dirichlet", or "" for the default.
	//
	// Returns:
	//   - engine.Result: The outcome (success, or a Failure Reason).
	//   - error: An error if the request itself is invalid (bad N, unknown
	//     kernel variant, N too large). Gate rejections are reported via
	//     Result.Reason, not an error.
	Factor(ctx context.Context, N *big.Int, kernelVariant string) (engine.Result, error)
}

// FactorizationService handles the core logic for factoring N. It
// centralizes validation, kernel-variant resolution, and execution
// options. Implements the Service interface.
type FactorizationService struct {
	config  config.Config
	maxBits int
}

// Ensure FactorizationService implements Service interface.
var _ Service = (*FactorizationService)(nil)

// NewFactorizationService creates a new instance of FactorizationService.
//
// Parameters:
//   - cfg: The application configuration (engine parameters).
//   - maxBits: The maximum allowed bit length for N (0 for no limit).
func NewFactorizationService(cfg config.Config, maxBits int) *FactorizationService {
	return &FactorizationService{
		config:  cfg,
		maxBits: maxBits,
	}
}

// Factor resolves the effective engine.Config (applying the kernel-variant
// override if given), validates N, and runs engine.Factor.
func (s *FactorizationService) Factor(ctx context.Context, N *big.Int, kernelVariant string) (engine.Result, error) {
	if N == nil || N.Sign() <= 0 {
		return engine.Result{}, fmt.Errorf("n must be a positive integer")
	}
	if s.maxBits > 0 && N.BitLen() > s.maxBits {
		return engine.Result{}, ErrMaxBitsExceeded
	}

	cfg := s.config.EngineConfig()
	if kernelVariant != "" {
		v := kernel.Variant(kernelVariant)
		if v != kernel.Gaussian && v != kernel.Dirichlet {
			return engine.Result{}, fmt.Errorf("unrecognized kernel_variant: %q", kernelVariant)
		}
		cfg.KernelVariant = v
	}

	return engine.Factor(ctx, N, cfg), nil
}
