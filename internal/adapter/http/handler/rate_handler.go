package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/easymove/remit/internal/adapter/http/dto"
	"github.com/easymove/remit/internal/domain"
	"github.com/easymove/remit/internal/usecase"
)

// RateService is the slice of the rate use case the handler needs.
type RateService interface {
	Corridors(ctx context.Context) ([]usecase.Corridor, error)
	GetPair(ctx context.Context, from, to string) (*domain.CurrencyPair, error)
	History(ctx context.Context, from, to string, limit int) ([]domain.RateSample, error)
	Alerts(ctx context.Context, thresholdPercent float64) ([]usecase.Alert, error)
	RecordRate(ctx context.Context, from, to string, rate decimal.Decimal, source string) (*domain.CurrencyPair, error)
	SetMargin(ctx context.Context, from, to string, margin decimal.Decimal) (*domain.CurrencyPair, error)
}

// RateHandler handles exchange-rate HTTP requests.
type RateHandler struct {
	rates RateService
}

// NewRateHandler creates a new RateHandler.
func NewRateHandler(rates RateService) *RateHandler {
	return &RateHandler{rates: rates}
}

// List lists all active corridors with display rates.
func (h *RateHandler) List(w http.ResponseWriter, r *http.Request) {
	corridors, err := h.rates.Corridors(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list rates", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, corridors)
}

// Get returns a single corridor's pair.
func (h *RateHandler) Get(w http.ResponseWriter, r *http.Request) {
	from := chi.URLParam(r, "from")
	to := chi.URLParam(r, "to")

	pair, err := h.rates.GetPair(r.Context(), from, to)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get rate", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, pair)
}

// History returns recent rate samples for a corridor, newest first.
func (h *RateHandler) History(w http.ResponseWriter, r *http.Request) {
	from := chi.URLParam(r, "from")
	to := chi.URLParam(r, "to")
	limit := parseIntQuery(r, "limit", 0)

	samples, err := h.rates.History(r.Context(), from, to, limit)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get rate history", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, samples)
}

// Alerts lists corridors with large daily moves or stale feeds.
func (h *RateHandler) Alerts(w http.ResponseWriter, r *http.Request) {
	threshold := parseFloatQuery(r, "threshold", 5)

	alerts, err := h.rates.Alerts(r.Context(), threshold)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list alerts", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, alerts)
}

// Record records a rate sample for a corridor. Admin endpoint.
func (h *RateHandler) Record(w http.ResponseWriter, r *http.Request) {
	from := chi.URLParam(r, "from")
	to := chi.URLParam(r, "to")

	var req dto.RecordRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	source := req.Source
	if source == "" {
		source = "manual"
	}

	pair, err := h.rates.RecordRate(r.Context(), from, to, req.Rate, source)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to record rate", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, pair)
}

// SetMargin changes a corridor's margin. Admin endpoint.
func (h *RateHandler) SetMargin(w http.ResponseWriter, r *http.Request) {
	from := chi.URLParam(r, "from")
	to := chi.URLParam(r, "to")

	var req dto.SetMarginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	pair, err := h.rates.SetMargin(r.Context(), from, to, req.Margin)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to set margin", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, pair)
}
