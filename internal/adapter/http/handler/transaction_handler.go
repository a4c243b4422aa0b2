package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/easymove/remit/internal/adapter/http/dto"
	"github.com/easymove/remit/internal/domain"
	"github.com/easymove/remit/internal/usecase"
)

// TransactionService is the slice of the transfer use case the handler needs.
type TransactionService interface {
	GetQuote(ctx context.Context, input usecase.QuoteInput) (*usecase.Quote, error)
	CreateTransaction(ctx context.Context, input usecase.CreateTransactionInput) (*domain.Transaction, error)
	Get(ctx context.Context, id string) (*domain.Transaction, error)
	List(ctx context.Context, senderID string, limit, offset int) ([]*domain.Transaction, error)
	Cancel(ctx context.Context, id, reason string) (*domain.Transaction, error)
	Refund(ctx context.Context, id, reason string) (*domain.Transaction, error)
	UpdateStatus(ctx context.Context, id string, next domain.Status, reason string) (*domain.Transaction, error)
	Track(ctx context.Context, trackingNumber string) (*usecase.TrackingInfo, error)
	GetStats(ctx context.Context, senderID string) (*usecase.Stats, error)
}

// TransactionHandler handles transfer-related HTTP requests.
type TransactionHandler struct {
	transactions TransactionService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactions TransactionService) *TransactionHandler {
	return &TransactionHandler{transactions: transactions}
}

// Quote prices a prospective transfer.
func (h *TransactionHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req dto.QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	quote, err := h.transactions.GetQuote(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build quote", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, quote)
}

// Create creates a new transfer.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	txn, err := h.transactions.CreateTransaction(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create transfer", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(txn))
}

// Get retrieves a transfer by ID.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	txn, err := h.transactions.Get(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get transfer", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}

// List lists transfers for a sender.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	senderID := r.URL.Query().Get("sender_id")
	if senderID == "" {
		writeError(w, http.StatusBadRequest, "missing sender_id", "")
		return
	}

	limit := parseIntQuery(r, "limit", 50)
	offset := parseIntQuery(r, "offset", 0)

	txns, err := h.transactions.List(r.Context(), senderID, limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list transfers", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(txns))
}

// Cancel cancels a transfer that has not completed yet.
func (h *TransactionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	var req dto.StatusChangeRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
			return
		}
	}

	txn, err := h.transactions.Cancel(r.Context(), id, req.Reason)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to cancel transfer", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}

// Refund refunds a completed transfer inside the refund window.
func (h *TransactionHandler) Refund(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	var req dto.StatusChangeRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
			return
		}
	}

	txn, err := h.transactions.Refund(r.Context(), id, req.Reason)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to refund transfer", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}

// Dispute freezes a transfer pending compliance review. Requires an
// admin actor; the use case enforces it.
func (h *TransactionHandler) Dispute(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	var req dto.StatusChangeRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
			return
		}
	}

	txn, err := h.transactions.UpdateStatus(r.Context(), id, domain.StatusDisputed, req.Reason)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to dispute transfer", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}

// Track returns the public tracking view of a transfer.
func (h *TransactionHandler) Track(w http.ResponseWriter, r *http.Request) {
	trackingNumber := chi.URLParam(r, "trackingNumber")
	if trackingNumber == "" {
		writeError(w, http.StatusBadRequest, "missing tracking number", "")
		return
	}

	info, err := h.transactions.Track(r.Context(), trackingNumber)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to track transfer", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, info)
}

// Stats returns per-status counts and today's volume for a sender.
func (h *TransactionHandler) Stats(w http.ResponseWriter, r *http.Request) {
	senderID := r.URL.Query().Get("sender_id")
	if senderID == "" {
		writeError(w, http.StatusBadRequest, "missing sender_id", "")
		return
	}

	stats, err := h.transactions.GetStats(r.Context(), senderID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get stats", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
