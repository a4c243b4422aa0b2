package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
	StatusRefunded   Status = "refunded"
	StatusDisputed   Status = "disputed"
)

// Transitions are one-directional. disputed is reachable from anywhere via
// compliance action; the remaining terminal states admit no exit.
var statusTransitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCompleted, StatusFailed, StatusCancelled, StatusDisputed},
	StatusProcessing: {StatusCompleted, StatusFailed, StatusCancelled, StatusDisputed},
	StatusCompleted:  {StatusRefunded, StatusDisputed},
	StatusFailed:     {StatusDisputed},
	StatusCancelled:  {StatusDisputed},
	StatusRefunded:   {StatusDisputed},
	StatusDisputed:   {},
}

// IsTerminal reports whether no further processing happens in s.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

// compensating statuses credit the held funds back to the sender.
func (s Status) compensates() bool {
	switch s {
	case StatusFailed, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

// StatusChange is one append-only entry in a transaction's history.
type StatusChange struct {
	Status    Status    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Reason    string    `json:"reason,omitempty"`
	Actor     string    `json:"actor,omitempty"`
}

// RateSnapshot freezes the exchange rate at creation time. It is
// authoritative for the life of the transaction and never recomputed,
// insulating in-flight transfers from later rate updates.
type RateSnapshot struct {
	Rate          decimal.Decimal `json:"rate"`
	Margin        decimal.Decimal `json:"margin"`
	EffectiveRate decimal.Decimal `json:"effective_rate"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	// Stale marks a snapshot taken from a pair whose feed had missed two
	// refresh cycles. The quote proceeds on the best available rate.
	Stale bool `json:"stale"`
}

// Fees is the fee breakdown in the sender's currency.
type Fees struct {
	TransferFee decimal.Decimal `json:"transfer_fee"`
	ExchangeFee decimal.Decimal `json:"exchange_fee"`
	PaymentFee  decimal.Decimal `json:"payment_fee"`
	TotalFees   decimal.Decimal `json:"total_fees"`
}

// Transaction is a single money transfer moving through the lifecycle
// state machine. transactionId and trackingNumber are assigned at
// creation and immutable.
type Transaction struct {
	ID              string
	TransactionID   string
	TrackingNumber  string
	SenderID        string
	Recipient       Recipient
	SendAmount      decimal.Decimal
	SendCurrency    string
	ReceiveAmount   decimal.Decimal
	ReceiveCurrency string
	Rate            RateSnapshot
	Fees            Fees
	TotalSendAmount decimal.Decimal
	PaymentMethod   string
	PaymentID       string

	Status        Status
	StatusHistory []StatusChange

	// Compensated guards the single-shot balance credit on terminal
	// failure states. Once set it is never cleared.
	Compensated bool

	EstimatedDelivery time.Time
	CompletedAt       *time.Time
	RetryCount        int
	Version           int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// RecomputeTotal sets TotalSendAmount = SendAmount + TotalFees. Call on
// every save path; the stored total must never drift from its parts.
func (t *Transaction) RecomputeTotal() {
	t.TotalSendAmount = t.SendAmount.Add(t.Fees.TotalFees)
}

// CanTransitionTo checks the state machine without mutating.
func (t *Transaction) CanTransitionTo(next Status) bool {
	for _, s := range statusTransitions[t.Status] {
		if s == next {
			return true
		}
	}
	return false
}

// ApplyStatus advances the state machine, appending exactly one history
// entry. A transition to the current status is rejected here; callers
// treat duplicate terminal deliveries as no-ops before calling.
func (t *Transaction) ApplyStatus(next Status, reason, actor string, now time.Time) error {
	if !t.CanTransitionTo(next) {
		return &InvalidTransitionError{From: t.Status, To: next}
	}

	t.Status = next
	t.StatusHistory = append(t.StatusHistory, StatusChange{
		Status:    next,
		Timestamp: now,
		Reason:    reason,
		Actor:     actor,
	})

	if next == StatusCompleted {
		at := now
		t.CompletedAt = &at
	}

	t.UpdatedAt = now
	return nil
}

// NeedsCompensation reports whether entering next must credit the held
// funds back to the sender. Funds are held from creation until either the
// transfer completes and is not refunded, or a compensating status is
// reached; the Compensated flag makes the credit idempotent under
// at-least-once webhook delivery.
func (t *Transaction) NeedsCompensation(next Status) bool {
	return next.compensates() && !t.Compensated
}

// CanBeCancelled allows user-initiated cancellation only before completion.
func (t *Transaction) CanBeCancelled() bool {
	return t.Status == StatusPending || t.Status == StatusProcessing
}

// CanBeRefunded allows refunds only within window after completion.
func (t *Transaction) CanBeRefunded(now time.Time, window time.Duration) error {
	if t.Status != StatusCompleted {
		return &InvalidTransitionError{From: t.Status, To: StatusRefunded}
	}
	if t.CompletedAt == nil || now.Sub(*t.CompletedAt) > window {
		return ErrRefundWindowClosed
	}
	return nil
}
