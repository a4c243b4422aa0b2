package payments

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/easymove/remit/internal/domain"
	"github.com/easymove/remit/internal/usecase"
)

// ErrCardDeclined is a permanent failure; retrying will not help.
var ErrCardDeclined = errors.New("card declined")

// SandboxProvider simulates a card acquirer. Charges succeed unless the
// per-method failure rate fires, which makes local runs exercise the
// retry and compensation paths.
type SandboxProvider struct {
	name string

	mu          sync.Mutex
	rng         *rand.Rand
	failureRate float64
	seq         int
}

// NewSandboxProvider creates a sandbox provider. failureRate is the
// probability in [0,1) that a charge attempt fails transiently.
func NewSandboxProvider(name string, failureRate float64, seed int64) *SandboxProvider {
	return &SandboxProvider{
		name:        name,
		rng:         rand.New(rand.NewSource(seed)),
		failureRate: failureRate,
	}
}

// Charge implements usecase.PaymentProcessor.
func (p *SandboxProvider) Charge(ctx context.Context, req usecase.ChargeRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.failureRate > 0 && p.rng.Float64() < p.failureRate {
		return "", &domain.PaymentProviderError{
			Provider: p.name,
			Code:     "gateway_timeout",
			Err:      errors.New("upstream acquirer timed out"),
		}
	}

	p.seq++
	return fmt.Sprintf("%s_ch_%06d", p.name, p.seq), nil
}

var _ usecase.PaymentProcessor = (*SandboxProvider)(nil)
