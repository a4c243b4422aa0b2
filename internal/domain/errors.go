package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// Account errors
	ErrAccountNotFound    = errors.New("account not found")
	ErrAccountInactive    = errors.New("account is not active")
	ErrAccountLocked      = errors.New("account is locked")
	ErrKYCRequired        = errors.New("identity verification required for this amount")
	ErrDailyLimitExceeded = errors.New("daily transfer limit exceeded")

	// Transaction errors
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrRefundWindowClosed  = errors.New("refund window has closed")
	ErrVersionConflict     = errors.New("transaction was modified concurrently")

	// Currency pair errors
	ErrPairNotFound = errors.New("currency pair not found")
)

// InsufficientBalanceError reports how much was required versus available.
type InsufficientBalanceError struct {
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: required %s, available %s (shortfall %s)",
		e.Required, e.Available, e.Required.Sub(e.Available))
}

// Shortfall returns the missing amount.
func (e *InsufficientBalanceError) Shortfall() decimal.Decimal {
	return e.Required.Sub(e.Available)
}

// InvalidTransitionError is returned when a status change violates the
// transaction state machine.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition: %s -> %s", e.From, e.To)
}

// ValidationError wraps input validation failures with the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// PaymentProviderError wraps failures from the external payment processor.
type PaymentProviderError struct {
	Provider string
	Code     string
	Err      error
}

func (e *PaymentProviderError) Error() string {
	return fmt.Sprintf("payment provider %s failed (%s): %v", e.Provider, e.Code, e.Err)
}

func (e *PaymentProviderError) Unwrap() error {
	return e.Err
}
