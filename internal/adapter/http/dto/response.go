package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/easymove/remit/internal/domain"
)

// TransactionResponse represents a transfer in API responses.
type TransactionResponse struct {
	ID                string                `json:"id"`
	TransactionID     string                `json:"transaction_id"`
	TrackingNumber    string                `json:"tracking_number"`
	SenderID          string                `json:"sender_id"`
	Recipient         domain.Recipient      `json:"recipient"`
	SendAmount        decimal.Decimal       `json:"send_amount"`
	SendCurrency      string                `json:"send_currency"`
	ReceiveAmount     decimal.Decimal       `json:"receive_amount"`
	ReceiveCurrency   string                `json:"receive_currency"`
	Rate              domain.RateSnapshot   `json:"rate"`
	Fees              domain.Fees           `json:"fees"`
	TotalSendAmount   decimal.Decimal       `json:"total_send_amount"`
	PaymentMethod     string                `json:"payment_method"`
	Status            domain.Status         `json:"status"`
	StatusHistory     []domain.StatusChange `json:"status_history"`
	EstimatedDelivery time.Time             `json:"estimated_delivery"`
	CompletedAt       *time.Time            `json:"completed_at,omitempty"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:                t.ID,
		TransactionID:     t.TransactionID,
		TrackingNumber:    t.TrackingNumber,
		SenderID:          t.SenderID,
		Recipient:         t.Recipient,
		SendAmount:        t.SendAmount,
		SendCurrency:      t.SendCurrency,
		ReceiveAmount:     t.ReceiveAmount,
		ReceiveCurrency:   t.ReceiveCurrency,
		Rate:              t.Rate,
		Fees:              t.Fees,
		TotalSendAmount:   t.TotalSendAmount,
		PaymentMethod:     t.PaymentMethod,
		Status:            t.Status,
		StatusHistory:     t.StatusHistory,
		EstimatedDelivery: t.EstimatedDelivery,
		CompletedAt:       t.CompletedAt,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(txns []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txns))
	for i, t := range txns {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// AccountResponse represents a sender account in API responses.
type AccountResponse struct {
	ID            string          `json:"id"`
	Email         string          `json:"email"`
	Name          string          `json:"name"`
	Balance       decimal.Decimal `json:"balance"`
	Currency      string          `json:"currency"`
	Status        string          `json:"status"`
	KYCLevel      string          `json:"kyc_level"`
	DailyLimitUSD decimal.Decimal `json:"daily_limit_usd"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:            a.ID,
		Email:         a.Email,
		Name:          a.Name,
		Balance:       a.Balance,
		Currency:      a.Currency,
		Status:        string(a.Status),
		KYCLevel:      string(a.KYCLevel),
		DailyLimitUSD: a.DailyLimitUSD,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
