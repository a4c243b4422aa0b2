package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/easymove/remit/internal/adapter/http/dto"
	"github.com/easymove/remit/internal/domain"
)

// WebhookService is the slice of the transfer use case webhooks drive.
type WebhookService interface {
	GetByTransactionID(ctx context.Context, transactionID string) (*domain.Transaction, error)
	StartProcessing(ctx context.Context, id, paymentID string) (*domain.Transaction, error)
	UpdateStatus(ctx context.Context, id string, next domain.Status, reason string) (*domain.Transaction, error)
}

// WebhookHandler receives callbacks from the payment provider. The
// provider retries deliveries, so every branch must be idempotent.
type WebhookHandler struct {
	transactions WebhookService
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(transactions WebhookService) *WebhookHandler {
	return &WebhookHandler{transactions: transactions}
}

// Payment processes a payment provider callback.
func (h *WebhookHandler) Payment(w http.ResponseWriter, r *http.Request) {
	var req dto.PaymentWebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if req.TransactionID == "" {
		writeError(w, http.StatusBadRequest, "missing transaction_id", "")
		return
	}

	ctx := domain.WithActor(r.Context(), domain.SystemActor)

	// The provider references the customer-facing transaction number,
	// never our internal row ID.
	txn, err := h.transactions.GetByTransactionID(ctx, req.TransactionID)
	if err != nil {
		writeError(w, mapDomainError(err), "unknown transaction", err.Error())
		return
	}

	switch req.Event {
	case "payment.captured":
		_, err = h.transactions.StartProcessing(ctx, txn.ID, req.PaymentID)
	case "payment.failed":
		_, err = h.transactions.UpdateStatus(ctx, txn.ID, domain.StatusFailed, reasonOr(req.Reason, "payment failed"))
	case "payout.completed":
		_, err = h.transactions.UpdateStatus(ctx, txn.ID, domain.StatusCompleted, reasonOr(req.Reason, "payout delivered"))
	case "payout.failed":
		_, err = h.transactions.UpdateStatus(ctx, txn.ID, domain.StatusFailed, reasonOr(req.Reason, "payout failed"))
	default:
		writeError(w, http.StatusBadRequest, "unknown event", req.Event)
		return
	}

	if err != nil {
		writeError(w, mapDomainError(err), "failed to process webhook", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "processed"})
}

func reasonOr(reason, fallback string) string {
	if reason != "" {
		return reason
	}
	return fallback
}
