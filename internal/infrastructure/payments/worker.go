package payments

import (
	"context"
	"log/slog"
	"time"

	"github.com/easymove/remit/internal/domain"
	"github.com/easymove/remit/internal/infrastructure/metrics"
	"github.com/easymove/remit/internal/usecase"
)

// transferService is the slice of the transfer use case the worker needs.
type transferService interface {
	ListByStatus(ctx context.Context, status domain.Status, limit int) ([]*domain.Transaction, error)
	StartProcessing(ctx context.Context, id, paymentID string) (*domain.Transaction, error)
	RecordRetry(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, id string, next domain.Status, reason string) (*domain.Transaction, error)
}

// Worker polls for pending transfers and captures the sender's payment.
// A capture that keeps failing past the attempt budget fails the
// transfer, which credits the held funds back to the sender.
type Worker struct {
	transfers   transferService
	processor   usecase.PaymentProcessor
	logger      *slog.Logger
	metrics     *metrics.Metrics
	interval    time.Duration
	batchSize   int
	maxAttempts int
}

// WorkerConfig for Worker.
type WorkerConfig struct {
	Transfers   transferService
	Processor   usecase.PaymentProcessor
	Logger      *slog.Logger
	Metrics     *metrics.Metrics
	Interval    time.Duration
	BatchSize   int
	MaxAttempts int
}

// NewWorker creates a payment worker.
func NewWorker(cfg WorkerConfig) *Worker {
	if cfg.Interval == 0 {
		cfg.Interval = 10 * time.Second
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 20
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Worker{
		transfers:   cfg.Transfers,
		processor:   cfg.Processor,
		logger:      cfg.Logger,
		metrics:     cfg.Metrics,
		interval:    cfg.Interval,
		batchSize:   cfg.BatchSize,
		maxAttempts: cfg.MaxAttempts,
	}
}

// Start runs the worker until the context is cancelled.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("payment worker started",
		slog.Duration("interval", w.interval),
		slog.Int("batch_size", w.batchSize))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("payment worker shutting down")
			return ctx.Err()
		case <-ticker.C:
			if err := w.processBatch(ctx); err != nil {
				w.logger.Error("error processing pending transfers", slog.String("error", err.Error()))
			}
		}
	}
}

// processBatch charges one batch of pending transfers, oldest first.
func (w *Worker) processBatch(ctx context.Context) error {
	pending, err := w.transfers.ListByStatus(ctx, domain.StatusPending, w.batchSize)
	if err != nil {
		return err
	}

	for _, txn := range pending {
		w.processOne(ctx, txn)
	}
	return nil
}

func (w *Worker) processOne(ctx context.Context, txn *domain.Transaction) {
	start := time.Now()
	paymentID, err := w.processor.Charge(ctx, usecase.ChargeRequest{
		TransactionID: txn.ID,
		SenderID:      txn.SenderID,
		Amount:        txn.TotalSendAmount,
		Currency:      txn.SendCurrency,
		Method:        txn.PaymentMethod,
	})
	if w.metrics != nil {
		w.metrics.PaymentDuration.Observe(time.Since(start).Seconds())
		outcome := "success"
		if err != nil {
			outcome = "failure"
		}
		w.metrics.PaymentAttempts.WithLabelValues(outcome).Inc()
	}
	if err != nil {
		w.handleChargeFailure(ctx, txn, err)
		return
	}

	if _, err := w.transfers.StartProcessing(ctx, txn.ID, paymentID); err != nil {
		w.logger.Error("failed to move transfer into processing",
			slog.String("transaction_id", txn.ID),
			slog.String("error", err.Error()))
	}
}

func (w *Worker) handleChargeFailure(ctx context.Context, txn *domain.Transaction, chargeErr error) {
	attempts := txn.RetryCount + 1
	if attempts >= w.maxAttempts {
		w.logger.Warn("charge failed permanently, failing transfer",
			slog.String("transaction_id", txn.ID),
			slog.Int("attempts", attempts),
			slog.String("error", chargeErr.Error()))
		if _, err := w.transfers.UpdateStatus(ctx, txn.ID, domain.StatusFailed, "payment capture failed"); err != nil {
			w.logger.Error("failed to fail transfer",
				slog.String("transaction_id", txn.ID),
				slog.String("error", err.Error()))
		}
		return
	}

	if w.metrics != nil {
		w.metrics.PaymentRetries.Inc()
	}
	w.logger.Warn("charge failed, will retry on next poll",
		slog.String("transaction_id", txn.ID),
		slog.Int("attempts", attempts),
		slog.String("error", chargeErr.Error()))
	if err := w.transfers.RecordRetry(ctx, txn.ID); err != nil {
		w.logger.Error("failed to record retry",
			slog.String("transaction_id", txn.ID),
			slog.String("error", err.Error()))
	}
}
