package payments

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/easymove/remit/internal/domain"
	"github.com/easymove/remit/internal/usecase"
)

// RetryingProcessor wraps a PaymentProcessor with exponential backoff.
// Provider errors are treated as transient; declines are permanent.
type RetryingProcessor struct {
	inner       usecase.PaymentProcessor
	logger      *slog.Logger
	maxAttempts int
	initialWait time.Duration
	maxWait     time.Duration
}

// NewRetryingProcessor wraps inner with up to maxAttempts charge attempts.
func NewRetryingProcessor(inner usecase.PaymentProcessor, logger *slog.Logger, maxAttempts int) *RetryingProcessor {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RetryingProcessor{
		inner:       inner,
		logger:      logger,
		maxAttempts: maxAttempts,
		initialWait: 100 * time.Millisecond,
		maxWait:     5 * time.Second,
	}
}

// Charge implements usecase.PaymentProcessor.
func (p *RetryingProcessor) Charge(ctx context.Context, req usecase.ChargeRequest) (string, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = p.initialWait
	bo.MaxInterval = p.maxWait
	bo.MaxElapsedTime = 0

	var paymentID string
	attempt := 0

	operation := func() error {
		attempt++
		id, err := p.inner.Charge(ctx, req)
		if err == nil {
			paymentID = id
			return nil
		}

		if !isTransient(err) {
			return backoff.Permanent(err)
		}

		if attempt >= p.maxAttempts {
			return backoff.Permanent(err)
		}

		p.logger.Warn("charge attempt failed, retrying",
			slog.String("transaction_id", req.TransactionID),
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()))
		return err
	}

	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		return "", err
	}
	return paymentID, nil
}

func isTransient(err error) bool {
	if errors.Is(err, ErrCardDeclined) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var provErr *domain.PaymentProviderError
	return errors.As(err, &provErr)
}

var _ usecase.PaymentProcessor = (*RetryingProcessor)(nil)
