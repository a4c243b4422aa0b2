package payments

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/easymove/remit/internal/domain"
	"github.com/easymove/remit/internal/usecase"
)

func TestProcessBatchChargesPendingTransfers(t *testing.T) {
	svc := &stubTransferService{
		pending: []*domain.Transaction{
			pendingTxn("txn-1", 0),
			pendingTxn("txn-2", 0),
		},
	}
	proc := &stubProcessor{paymentID: "ch_123"}
	w := newTestWorker(svc, proc, 3)

	if err := w.processBatch(context.Background()); err != nil {
		t.Fatalf("processBatch failed: %v", err)
	}

	if len(svc.started) != 2 {
		t.Fatalf("expected 2 transfers moved to processing, got %d", len(svc.started))
	}
	if svc.started["txn-1"] != "ch_123" {
		t.Fatalf("expected payment id recorded, got %q", svc.started["txn-1"])
	}
	if len(svc.retried) != 0 || len(svc.failed) != 0 {
		t.Fatalf("expected no retries or failures, got %v / %v", svc.retried, svc.failed)
	}
}

func TestProcessBatchRecordsRetryBeforeBudgetExhausted(t *testing.T) {
	svc := &stubTransferService{
		pending: []*domain.Transaction{pendingTxn("txn-1", 0)},
	}
	proc := &stubProcessor{err: errors.New("gateway timeout")}
	w := newTestWorker(svc, proc, 3)

	if err := w.processBatch(context.Background()); err != nil {
		t.Fatalf("processBatch failed: %v", err)
	}

	if len(svc.retried) != 1 || svc.retried[0] != "txn-1" {
		t.Fatalf("expected one retry for txn-1, got %v", svc.retried)
	}
	if len(svc.failed) != 0 {
		t.Fatalf("expected no failures yet, got %v", svc.failed)
	}
}

func TestProcessBatchFailsTransferAfterMaxAttempts(t *testing.T) {
	svc := &stubTransferService{
		pending: []*domain.Transaction{pendingTxn("txn-1", 2)},
	}
	proc := &stubProcessor{err: errors.New("gateway timeout")}
	w := newTestWorker(svc, proc, 3)

	if err := w.processBatch(context.Background()); err != nil {
		t.Fatalf("processBatch failed: %v", err)
	}

	if len(svc.failed) != 1 || svc.failed[0] != "txn-1" {
		t.Fatalf("expected txn-1 to be failed, got %v", svc.failed)
	}
	if len(svc.retried) != 0 {
		t.Fatalf("expected no retry when budget exhausted, got %v", svc.retried)
	}
}

func newTestWorker(svc *stubTransferService, proc usecase.PaymentProcessor, maxAttempts int) *Worker {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	return NewWorker(WorkerConfig{
		Transfers:   svc,
		Processor:   proc,
		Logger:      logger,
		BatchSize:   10,
		MaxAttempts: maxAttempts,
	})
}

func pendingTxn(id string, retries int) *domain.Transaction {
	return &domain.Transaction{
		ID:              id,
		SenderID:        "acct-1",
		Status:          domain.StatusPending,
		SendCurrency:    "USD",
		TotalSendAmount: decimal.NewFromInt(1035),
		PaymentMethod:   "credit-card",
		RetryCount:      retries,
	}
}

type stubTransferService struct {
	pending []*domain.Transaction
	started map[string]string
	retried []string
	failed  []string
}

func (s *stubTransferService) ListByStatus(ctx context.Context, status domain.Status, limit int) ([]*domain.Transaction, error) {
	return s.pending, nil
}

func (s *stubTransferService) StartProcessing(ctx context.Context, id, paymentID string) (*domain.Transaction, error) {
	if s.started == nil {
		s.started = make(map[string]string)
	}
	s.started[id] = paymentID
	return nil, nil
}

func (s *stubTransferService) RecordRetry(ctx context.Context, id string) error {
	s.retried = append(s.retried, id)
	return nil
}

func (s *stubTransferService) UpdateStatus(ctx context.Context, id string, next domain.Status, reason string) (*domain.Transaction, error) {
	s.failed = append(s.failed, id)
	return nil, nil
}

type stubProcessor struct {
	paymentID string
	err       error
}

func (s *stubProcessor) Charge(ctx context.Context, req usecase.ChargeRequest) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.paymentID, nil
}
