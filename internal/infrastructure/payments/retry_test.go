package payments

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/easymove/remit/internal/domain"
	"github.com/easymove/remit/internal/usecase"
)

func TestRetryingProcessorRecoversFromTransientFailure(t *testing.T) {
	inner := &countingProcessor{failFirst: 1}
	p := newFastRetrier(inner, 3)

	id, err := p.Charge(context.Background(), usecase.ChargeRequest{TransactionID: "txn-1"})
	if err != nil {
		t.Fatalf("expected charge to succeed after retry, got %v", err)
	}
	if id != "ch_ok" {
		t.Fatalf("unexpected payment id %q", id)
	}
	if inner.calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", inner.calls)
	}
}

func TestRetryingProcessorStopsAtAttemptBudget(t *testing.T) {
	inner := &countingProcessor{failFirst: 10}
	p := newFastRetrier(inner, 3)

	if _, err := p.Charge(context.Background(), usecase.ChargeRequest{TransactionID: "txn-1"}); err == nil {
		t.Fatal("expected charge to fail")
	}
	if inner.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", inner.calls)
	}
}

func TestRetryingProcessorDoesNotRetryDeclines(t *testing.T) {
	inner := &countingProcessor{permanentErr: ErrCardDeclined}
	p := newFastRetrier(inner, 3)

	_, err := p.Charge(context.Background(), usecase.ChargeRequest{TransactionID: "txn-1"})
	if !errors.Is(err, ErrCardDeclined) {
		t.Fatalf("expected decline error, got %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("expected a single attempt for a decline, got %d", inner.calls)
	}
}

func newFastRetrier(inner usecase.PaymentProcessor, maxAttempts int) *RetryingProcessor {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	p := NewRetryingProcessor(inner, logger, maxAttempts)
	p.initialWait = time.Millisecond
	p.maxWait = 2 * time.Millisecond
	return p
}

type countingProcessor struct {
	mu           sync.Mutex
	calls        int
	failFirst    int
	permanentErr error
}

func (c *countingProcessor) Charge(ctx context.Context, req usecase.ChargeRequest) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls++
	if c.permanentErr != nil {
		return "", c.permanentErr
	}
	if c.calls <= c.failFirst {
		return "", &domain.PaymentProviderError{
			Provider: "sandbox",
			Code:     "gateway_timeout",
			Err:      errors.New("timed out"),
		}
	}
	return "ch_ok", nil
}
