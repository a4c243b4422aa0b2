package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/easymove/remit/internal/adapter/http/dto"
	"github.com/easymove/remit/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	var validationErr *domain.ValidationError
	var balanceErr *domain.InsufficientBalanceError
	var transitionErr *domain.InvalidTransitionError

	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrTransactionNotFound),
		errors.Is(err, domain.ErrPairNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrKYCRequired),
		errors.Is(err, domain.ErrDailyLimitExceeded):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrAccountLocked),
		errors.Is(err, domain.ErrAccountInactive):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrRefundWindowClosed):
		return http.StatusConflict
	case errors.Is(err, domain.ErrVersionConflict):
		return http.StatusConflict
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &balanceErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &transitionErr):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// parseFloatQuery parses a float query parameter with a default value.
func parseFloatQuery(r *http.Request, key string, defaultValue float64) float64 {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return defaultValue
	}
	return f
}
