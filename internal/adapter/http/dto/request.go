package dto

import (
	"github.com/shopspring/decimal"

	"github.com/easymove/remit/internal/domain"
	"github.com/easymove/remit/internal/usecase"
)

// QuoteRequest represents a request to price a transfer.
type QuoteRequest struct {
	SendAmount      decimal.Decimal     `json:"send_amount"`
	SendCurrency    string              `json:"send_currency"`
	ReceiveCurrency string              `json:"receive_currency"`
	PaymentMethod   string              `json:"payment_method"`
	PayoutMethod    domain.PayoutMethod `json:"payout_method"`
}

// ToUseCaseInput converts to use case input.
func (r *QuoteRequest) ToUseCaseInput() usecase.QuoteInput {
	return usecase.QuoteInput{
		SendAmount:      r.SendAmount,
		SendCurrency:    r.SendCurrency,
		ReceiveCurrency: r.ReceiveCurrency,
		PaymentMethod:   r.PaymentMethod,
		PayoutMethod:    r.PayoutMethod,
	}
}

// CreateTransactionRequest represents a request to create a transfer.
type CreateTransactionRequest struct {
	SenderID        string           `json:"sender_id"`
	Recipient       domain.Recipient `json:"recipient"`
	SendAmount      decimal.Decimal  `json:"send_amount"`
	SendCurrency    string           `json:"send_currency"`
	ReceiveCurrency string           `json:"receive_currency"`
	PaymentMethod   string           `json:"payment_method"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransactionRequest) ToUseCaseInput() usecase.CreateTransactionInput {
	return usecase.CreateTransactionInput{
		SenderID:        r.SenderID,
		Recipient:       r.Recipient,
		SendAmount:      r.SendAmount,
		SendCurrency:    r.SendCurrency,
		ReceiveCurrency: r.ReceiveCurrency,
		PaymentMethod:   r.PaymentMethod,
	}
}

// StatusChangeRequest carries the optional reason for cancels and refunds.
type StatusChangeRequest struct {
	Reason string `json:"reason,omitempty"`
}

// CreateAccountRequest represents a request to create a sender account.
type CreateAccountRequest struct {
	Email         string          `json:"email"`
	Name          string          `json:"name"`
	Currency      string          `json:"currency"`
	DailyLimitUSD decimal.Decimal `json:"daily_limit_usd,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		Email:         r.Email,
		Name:          r.Name,
		Currency:      r.Currency,
		DailyLimitUSD: r.DailyLimitUSD,
	}
}

// DepositRequest represents a request to top up an account balance.
type DepositRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// RecordRateRequest represents an admin request to record a rate sample.
type RecordRateRequest struct {
	Rate   decimal.Decimal `json:"rate"`
	Source string          `json:"source,omitempty"`
}

// SetMarginRequest represents an admin request to change a pair's margin.
type SetMarginRequest struct {
	Margin decimal.Decimal `json:"margin"`
}

// PaymentWebhookRequest is the payload the payment provider posts back.
// TransactionID is the customer-facing TXN number shared with the
// provider at capture time.
type PaymentWebhookRequest struct {
	Event         string `json:"event"`
	TransactionID string `json:"transaction_id"`
	PaymentID     string `json:"payment_id,omitempty"`
	Reason        string `json:"reason,omitempty"`
}
