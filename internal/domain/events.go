package domain

import "time"

// Event types
const (
	EventTypeTransactionCreated   = "transaction.created"
	EventTypeTransactionUpdated   = "transaction.updated"
	EventTypeTransactionCancelled = "transaction.cancelled"
	EventTypeRateRecorded         = "rate.recorded"
)

// Aggregate types
const (
	AggregateTypeTransaction  = "transaction"
	AggregateTypeCurrencyPair = "currency_pair"
)

// OutboxEvent is written in the same database transaction as the state
// change it describes, and published asynchronously. Notification
// delivery is fire-and-forget: a publish failure never rolls back the
// transaction that produced the event.
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// TransactionEvent is the payload for transaction lifecycle events.
type TransactionEvent struct {
	TransactionID  string `json:"transaction_id"`
	TrackingNumber string `json:"tracking_number"`
	Status         string `json:"status"`
	SenderID       string `json:"sender_id"`
	SendAmount     string `json:"send_amount"`
	SendCurrency   string `json:"send_currency"`
}

// RateRecordedEvent is the payload emitted when a pair receives a rate.
type RateRecordedEvent struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Rate   string `json:"rate"`
	Source string `json:"source"`
}
