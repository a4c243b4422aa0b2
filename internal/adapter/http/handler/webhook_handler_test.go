package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/easymove/remit/internal/domain"
)

type webhookServiceStub struct {
	getByNumberFn  func(ctx context.Context, transactionID string) (*domain.Transaction, error)
	startFn        func(ctx context.Context, id, paymentID string) (*domain.Transaction, error)
	updateStatusFn func(ctx context.Context, id string, next domain.Status, reason string) (*domain.Transaction, error)
}

func (s *webhookServiceStub) GetByTransactionID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return s.getByNumberFn(ctx, transactionID)
}

func (s *webhookServiceStub) StartProcessing(ctx context.Context, id, paymentID string) (*domain.Transaction, error) {
	return s.startFn(ctx, id, paymentID)
}

func (s *webhookServiceStub) UpdateStatus(ctx context.Context, id string, next domain.Status, reason string) (*domain.Transaction, error) {
	return s.updateStatusFn(ctx, id, next, reason)
}

func postWebhook(t *testing.T, h *WebhookHandler, body map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/payment", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	h.Payment(rec, req)
	return rec
}

func TestWebhookHandler_CapturedResolvesTransactionNumber(t *testing.T) {
	var startedID, startedPayment string
	stub := &webhookServiceStub{
		getByNumberFn: func(ctx context.Context, transactionID string) (*domain.Transaction, error) {
			if transactionID != "TXN1756600000000481516" {
				t.Errorf("lookup by %q, want the transaction number", transactionID)
			}
			return &domain.Transaction{ID: "01INTERNAL", TransactionID: transactionID}, nil
		},
		startFn: func(ctx context.Context, id, paymentID string) (*domain.Transaction, error) {
			startedID, startedPayment = id, paymentID
			return &domain.Transaction{ID: id, Status: domain.StatusProcessing}, nil
		},
	}

	rec := postWebhook(t, NewWebhookHandler(stub), map[string]string{
		"event":          "payment.captured",
		"transaction_id": "TXN1756600000000481516",
		"payment_id":     "sandbox_ch_000042",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if startedID != "01INTERNAL" {
		t.Errorf("started id = %q, want the resolved internal ID", startedID)
	}
	if startedPayment != "sandbox_ch_000042" {
		t.Errorf("payment id = %q", startedPayment)
	}
}

func TestWebhookHandler_UnknownTransactionNumber(t *testing.T) {
	stub := &webhookServiceStub{
		getByNumberFn: func(ctx context.Context, transactionID string) (*domain.Transaction, error) {
			return nil, domain.ErrTransactionNotFound
		},
	}

	rec := postWebhook(t, NewWebhookHandler(stub), map[string]string{
		"event":          "payout.completed",
		"transaction_id": "TXN000",
	})

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestWebhookHandler_UnknownEvent(t *testing.T) {
	stub := &webhookServiceStub{
		getByNumberFn: func(ctx context.Context, transactionID string) (*domain.Transaction, error) {
			return &domain.Transaction{ID: "01INTERNAL"}, nil
		},
	}

	rec := postWebhook(t, NewWebhookHandler(stub), map[string]string{
		"event":          "payment.exploded",
		"transaction_id": "TXN000",
	})

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestWebhookHandler_PayoutFailedMarksFailed(t *testing.T) {
	var gotStatus domain.Status
	var gotReason string
	stub := &webhookServiceStub{
		getByNumberFn: func(ctx context.Context, transactionID string) (*domain.Transaction, error) {
			return &domain.Transaction{ID: "01INTERNAL", TransactionID: transactionID}, nil
		},
		updateStatusFn: func(ctx context.Context, id string, next domain.Status, reason string) (*domain.Transaction, error) {
			gotStatus, gotReason = next, reason
			return &domain.Transaction{ID: id, Status: next}, nil
		},
	}

	rec := postWebhook(t, NewWebhookHandler(stub), map[string]string{
		"event":          "payout.failed",
		"transaction_id": "TXN000",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if gotStatus != domain.StatusFailed {
		t.Errorf("status = %s, want failed", gotStatus)
	}
	if gotReason != "payout failed" {
		t.Errorf("reason = %q, want default payout failure reason", gotReason)
	}
}
