package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/easymove/remit/internal/domain"
	"github.com/easymove/remit/internal/fx"
)

// TransactionUseCase handles the transfer lifecycle: quoting, creation
// with the atomic balance debit, status transitions and the
// compensation credit on terminal failure.
type TransactionUseCase struct {
	txManager    TransactionManager
	accountRepo  AccountRepository
	txnRepo      TransactionRepository
	outboxRepo   OutboxRepository
	idGen        IDGenerator
	numGen       NumberGenerator
	rates        RateProvider
	fees         FeeQuoter
	converter    *fx.Converter
	refundWindow time.Duration
	logger       *slog.Logger
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	txnRepo TransactionRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	numGen NumberGenerator,
	rates RateProvider,
	fees FeeQuoter,
	converter *fx.Converter,
	refundWindow time.Duration,
) *TransactionUseCase {
	if refundWindow <= 0 {
		refundWindow = DefaultRefundWindow
	}
	return &TransactionUseCase{
		txManager:    txManager,
		accountRepo:  accountRepo,
		txnRepo:      txnRepo,
		outboxRepo:   outboxRepo,
		idGen:        idGen,
		numGen:       numGen,
		rates:        rates,
		fees:         fees,
		converter:    converter,
		refundWindow: refundWindow,
	}
}

// WithLogger attaches a logger for data-quality warnings on the quote
// path. Optional; quoting works without one.
func (uc *TransactionUseCase) WithLogger(logger *slog.Logger) *TransactionUseCase {
	uc.logger = logger
	return uc
}

// QuoteInput asks what a transfer would cost without creating one.
type QuoteInput struct {
	SendAmount      decimal.Decimal
	SendCurrency    string
	ReceiveCurrency string
	PaymentMethod   string
	PayoutMethod    domain.PayoutMethod
}

// Quote prices a prospective transfer.
type Quote struct {
	SendAmount        decimal.Decimal     `json:"send_amount"`
	SendCurrency      string              `json:"send_currency"`
	ReceiveAmount     decimal.Decimal     `json:"receive_amount"`
	ReceiveCurrency   string              `json:"receive_currency"`
	Rate              domain.RateSnapshot `json:"rate"`
	Fees              domain.Fees         `json:"fees"`
	TotalSendAmount   decimal.Decimal     `json:"total_send_amount"`
	EstimatedDelivery time.Time           `json:"estimated_delivery"`
}

// CreateTransactionInput represents input for creating a transfer.
type CreateTransactionInput struct {
	SenderID        string
	Recipient       domain.Recipient
	SendAmount      decimal.Decimal
	SendCurrency    string
	ReceiveCurrency string
	PaymentMethod   string
}

// GetQuote prices a transfer without touching any state.
func (uc *TransactionUseCase) GetQuote(ctx context.Context, input QuoteInput) (*Quote, error) {
	input.SendCurrency = strings.ToUpper(input.SendCurrency)
	input.ReceiveCurrency = strings.ToUpper(input.ReceiveCurrency)

	if err := uc.validateQuoteInput(input.SendAmount, input.SendCurrency, input.ReceiveCurrency); err != nil {
		return nil, err
	}
	uc.warnUnknownCurrencies(input.SendCurrency, input.ReceiveCurrency)

	snapshot, err := uc.rates.SnapshotFor(ctx, input.SendCurrency, input.ReceiveCurrency, input.SendAmount)
	if err != nil {
		return nil, err
	}
	if snapshot.Stale && uc.logger != nil {
		uc.logger.Warn("quoting on a stale rate",
			"from", input.SendCurrency,
			"to", input.ReceiveCurrency,
			"last_updated", snapshot.Timestamp)
	}

	feeQuote := uc.fees.QuoteFee(input.SendAmount, input.SendCurrency, input.ReceiveCurrency, input.PaymentMethod)
	fees := domain.Fees{
		TransferFee: uc.converter.Convert(feeQuote.BaseFeeUSD, "USD", input.SendCurrency),
		ExchangeFee: decimal.Zero,
		PaymentFee:  uc.converter.Convert(feeQuote.MethodFeeUSD, "USD", input.SendCurrency),
		TotalFees:   feeQuote.FeeAmount,
	}

	return &Quote{
		SendAmount:        input.SendAmount,
		SendCurrency:      input.SendCurrency,
		ReceiveAmount:     input.SendAmount.Mul(snapshot.EffectiveRate),
		ReceiveCurrency:   input.ReceiveCurrency,
		Rate:              snapshot,
		Fees:              fees,
		TotalSendAmount:   input.SendAmount.Add(fees.TotalFees),
		EstimatedDelivery: domain.EstimateDelivery(input.PayoutMethod, input.SendCurrency, input.ReceiveCurrency, time.Now().UTC()),
	}, nil
}

// CreateTransaction creates a transfer and debits the sender's balance
// for amount plus fees in one database transaction. The rate is frozen
// at creation and never recomputed.
func (uc *TransactionUseCase) CreateTransaction(ctx context.Context, input CreateTransactionInput) (*domain.Transaction, error) {
	input.SendCurrency = strings.ToUpper(input.SendCurrency)
	input.ReceiveCurrency = strings.ToUpper(input.ReceiveCurrency)

	if err := uc.validateQuoteInput(input.SendAmount, input.SendCurrency, input.ReceiveCurrency); err != nil {
		return nil, err
	}
	if err := input.Recipient.Validate(); err != nil {
		return nil, err
	}

	account, err := uc.accountRepo.GetByID(ctx, input.SenderID)
	if err != nil {
		return nil, err
	}
	if err := account.CanTransact(); err != nil {
		return nil, err
	}

	usdAmount := uc.converter.ToUSD(input.SendAmount, input.SendCurrency)
	if err := uc.checkKYC(account, usdAmount); err != nil {
		return nil, err
	}
	if err := uc.checkDailyLimit(ctx, account, usdAmount); err != nil {
		return nil, err
	}

	quote, err := uc.GetQuote(ctx, QuoteInput{
		SendAmount:      input.SendAmount,
		SendCurrency:    input.SendCurrency,
		ReceiveCurrency: input.ReceiveCurrency,
		PaymentMethod:   input.PaymentMethod,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	actor := domain.ActorOrSystem(ctx)

	txn := &domain.Transaction{
		ID:              uc.idGen.Generate(),
		TransactionID:   uc.numGen.TransactionNumber(),
		TrackingNumber:  uc.numGen.TrackingNumber(),
		SenderID:        input.SenderID,
		Recipient:       input.Recipient,
		SendAmount:      input.SendAmount,
		SendCurrency:    input.SendCurrency,
		ReceiveAmount:   quote.ReceiveAmount,
		ReceiveCurrency: input.ReceiveCurrency,
		Rate:            quote.Rate,
		Fees:            quote.Fees,
		PaymentMethod:   input.PaymentMethod,
		Status:          domain.StatusPending,
		StatusHistory: []domain.StatusChange{{
			Status:    domain.StatusPending,
			Timestamp: now,
			Reason:    "transaction created",
			Actor:     actor.ID,
		}},
		EstimatedDelivery: domain.EstimateDelivery(input.Recipient.PayoutMethod, input.SendCurrency, input.ReceiveCurrency, now),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	txn.RecomputeTotal()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Lock the sender row; the balance check must see the committed
	// balance, not a snapshot raced by a concurrent transfer.
	locked, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, input.SenderID)
	if err != nil {
		return nil, err
	}
	if err := locked.ValidateDebit(txn.TotalSendAmount); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.UpdateBalance(ctx, tx, locked.ID, locked.ApplyDebit(txn.TotalSendAmount), now); err != nil {
		return nil, err
	}
	if err := uc.txnRepo.Create(ctx, tx, txn); err != nil {
		return nil, err
	}

	if err := uc.emitTransactionEvent(ctx, tx, txn, domain.EventTypeTransactionCreated, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return txn, nil
}

// UpdateStatus moves a transaction through the state machine. Receiving
// the status it already has is treated as a duplicate delivery and
// returns the transaction unchanged. When the new status is failed,
// cancelled or refunded the sender is credited amount plus fees exactly
// once, in the same database transaction as the status change.
func (uc *TransactionUseCase) UpdateStatus(ctx context.Context, id string, next domain.Status, reason string) (*domain.Transaction, error) {
	actor := domain.ActorOrSystem(ctx)
	if next == domain.StatusDisputed && !actor.Role.CanDispute() {
		return nil, domain.ErrUnauthorized
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Lock order is fixed: transaction row first, then its sender
	// account.
	txn, err := uc.txnRepo.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if txn.Status == next {
		return txn, nil
	}

	now := time.Now().UTC()

	if txn.NeedsCompensation(next) {
		account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, txn.SenderID)
		if err != nil {
			return nil, err
		}
		if err := uc.accountRepo.UpdateBalance(ctx, tx, account.ID, account.ApplyCredit(txn.TotalSendAmount), now); err != nil {
			return nil, err
		}
		txn.Compensated = true
	}

	if err := txn.ApplyStatus(next, reason, actor.ID, now); err != nil {
		return nil, err
	}

	if err := uc.txnRepo.Update(ctx, tx, txn); err != nil {
		return nil, err
	}

	eventType := domain.EventTypeTransactionUpdated
	if next == domain.StatusCancelled {
		eventType = domain.EventTypeTransactionCancelled
	}
	if err := uc.emitTransactionEvent(ctx, tx, txn, eventType, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return txn, nil
}

// Cancel is the caller-facing cancellation path, allowed only before
// completion.
func (uc *TransactionUseCase) Cancel(ctx context.Context, id, reason string) (*domain.Transaction, error) {
	txn, err := uc.txnRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !txn.CanBeCancelled() {
		return nil, &domain.InvalidTransitionError{From: txn.Status, To: domain.StatusCancelled}
	}
	if reason == "" {
		reason = "cancelled by sender"
	}
	return uc.UpdateStatus(ctx, id, domain.StatusCancelled, reason)
}

// Refund reverses a completed transfer within the refund window.
func (uc *TransactionUseCase) Refund(ctx context.Context, id, reason string) (*domain.Transaction, error) {
	txn, err := uc.txnRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := txn.CanBeRefunded(time.Now().UTC(), uc.refundWindow); err != nil {
		return nil, err
	}
	if reason == "" {
		reason = "refund requested"
	}
	return uc.UpdateStatus(ctx, id, domain.StatusRefunded, reason)
}

// StartProcessing records the provider payment ID and moves the
// transaction to processing. Called by the payment worker after a
// successful charge.
func (uc *TransactionUseCase) StartProcessing(ctx context.Context, id, paymentID string) (*domain.Transaction, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	txn, err := uc.txnRepo.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if txn.Status == domain.StatusProcessing {
		return txn, nil
	}

	now := time.Now().UTC()
	txn.PaymentID = paymentID
	if err := txn.ApplyStatus(domain.StatusProcessing, "payment captured", domain.SystemActor.ID, now); err != nil {
		return nil, err
	}
	if err := uc.txnRepo.Update(ctx, tx, txn); err != nil {
		return nil, err
	}
	if err := uc.emitTransactionEvent(ctx, tx, txn, domain.EventTypeTransactionUpdated, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return txn, nil
}

// RecordRetry bumps the attempt counter after a failed charge without
// leaving pending.
func (uc *TransactionUseCase) RecordRetry(ctx context.Context, id string) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	txn, err := uc.txnRepo.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return err
	}
	txn.RetryCount++
	txn.UpdatedAt = time.Now().UTC()
	if err := uc.txnRepo.Update(ctx, tx, txn); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Get returns a transaction by internal ID.
func (uc *TransactionUseCase) Get(ctx context.Context, id string) (*domain.Transaction, error) {
	return uc.txnRepo.GetByID(ctx, id)
}

// GetByTransactionID returns a transaction by its TXN number.
func (uc *TransactionUseCase) GetByTransactionID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return uc.txnRepo.GetByTransactionID(ctx, transactionID)
}

// TrackingInfo is the public view of a transfer, exposing no sender or
// amount details beyond what the recipient needs.
type TrackingInfo struct {
	TrackingNumber    string                `json:"tracking_number"`
	Status            domain.Status         `json:"status"`
	ReceiveAmount     decimal.Decimal       `json:"receive_amount"`
	ReceiveCurrency   string                `json:"receive_currency"`
	EstimatedDelivery time.Time             `json:"estimated_delivery"`
	History           []domain.StatusChange `json:"history"`
}

// Track looks up a transfer by tracking number for the unauthenticated
// recipient-facing endpoint.
func (uc *TransactionUseCase) Track(ctx context.Context, trackingNumber string) (*TrackingInfo, error) {
	txn, err := uc.txnRepo.GetByTrackingNumber(ctx, trackingNumber)
	if err != nil {
		return nil, err
	}

	// Strip actor attribution from the public history.
	history := make([]domain.StatusChange, len(txn.StatusHistory))
	for i, h := range txn.StatusHistory {
		history[i] = domain.StatusChange{Status: h.Status, Timestamp: h.Timestamp}
	}

	return &TrackingInfo{
		TrackingNumber:    txn.TrackingNumber,
		Status:            txn.Status,
		ReceiveAmount:     txn.ReceiveAmount,
		ReceiveCurrency:   txn.ReceiveCurrency,
		EstimatedDelivery: txn.EstimatedDelivery,
		History:           history,
	}, nil
}

// List returns a sender's transactions, newest first.
func (uc *TransactionUseCase) List(ctx context.Context, senderID string, limit, offset int) ([]*domain.Transaction, error) {
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}
	return uc.txnRepo.ListBySender(ctx, senderID, limit, offset)
}

// ListByStatus returns transactions in a given status, used by the
// payment worker to pick up pending transfers.
func (uc *TransactionUseCase) ListByStatus(ctx context.Context, status domain.Status, limit int) ([]*domain.Transaction, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return uc.txnRepo.ListByStatus(ctx, status, limit)
}

// Stats summarizes a sender's transfer history.
type Stats struct {
	TotalCount int                   `json:"total_count"`
	ByStatus   map[domain.Status]int `json:"by_status"`
	SentToday  decimal.Decimal       `json:"sent_today_usd"`
}

// GetStats returns per-status counts and today's USD volume for a sender.
func (uc *TransactionUseCase) GetStats(ctx context.Context, senderID string) (*Stats, error) {
	counts, err := uc.txnRepo.CountByStatus(ctx, senderID)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, n := range counts {
		total += n
	}

	account, err := uc.accountRepo.GetByID(ctx, senderID)
	if err != nil {
		return nil, err
	}
	dayStart := time.Now().UTC().Truncate(24 * time.Hour)
	sent, err := uc.txnRepo.SumSendAmountSince(ctx, senderID, dayStart)
	if err != nil {
		return nil, err
	}

	return &Stats{
		TotalCount: total,
		ByStatus:   counts,
		SentToday:  uc.converter.ToUSD(sent, account.Currency),
	}, nil
}

func (uc *TransactionUseCase) validateQuoteInput(amount decimal.Decimal, sendCurrency, receiveCurrency string) error {
	if err := domain.ValidateSendAmount(amount); err != nil {
		return err
	}
	if err := domain.ValidateCurrencyCode(sendCurrency); err != nil {
		return err
	}
	if err := domain.ValidateCurrencyCode(receiveCurrency); err != nil {
		return err
	}
	return nil
}

// warnUnknownCurrencies flags codes missing from the currency table.
// Quoting proceeds on the fallback rate; the miss is a data-quality
// signal, not an error.
func (uc *TransactionUseCase) warnUnknownCurrencies(codes ...string) {
	if uc.logger == nil {
		return
	}
	for _, code := range codes {
		if !uc.converter.Known(code) {
			uc.logger.Warn("unknown currency code, quoting at fallback rate", "code", code)
		}
	}
}

func (uc *TransactionUseCase) checkKYC(account *domain.Account, usdAmount decimal.Decimal) error {
	threshold, _ := decimal.NewFromString(KYCThresholdUSD)
	if usdAmount.GreaterThanOrEqual(threshold) && account.KYCLevel != domain.KYCLevelVerified {
		return domain.ErrKYCRequired
	}
	return nil
}

func (uc *TransactionUseCase) checkDailyLimit(ctx context.Context, account *domain.Account, usdAmount decimal.Decimal) error {
	limit := account.DailyLimitUSD
	if limit.IsZero() {
		limit = DefaultDailyLimit(account.KYCLevel)
	}

	dayStart := time.Now().UTC().Truncate(24 * time.Hour)
	sent, err := uc.txnRepo.SumSendAmountSince(ctx, account.ID, dayStart)
	if err != nil {
		return err
	}

	sentUSD := uc.converter.ToUSD(sent, account.Currency)
	if sentUSD.Add(usdAmount).GreaterThan(limit) {
		return domain.ErrDailyLimitExceeded
	}
	return nil
}

func (uc *TransactionUseCase) emitTransactionEvent(ctx context.Context, tx Transaction, txn *domain.Transaction, eventType string, now time.Time) error {
	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   txn.ID,
		AggregateType: domain.AggregateTypeTransaction,
		EventType:     eventType,
		Payload: map[string]any{
			"transaction_id":  txn.TransactionID,
			"tracking_number": txn.TrackingNumber,
			"status":          string(txn.Status),
			"sender_id":       txn.SenderID,
			"send_amount":     txn.SendAmount.String(),
			"send_currency":   txn.SendCurrency,
			"recipient_email": txn.Recipient.Email,
		},
		CreatedAt: now,
		Published: false,
	}
	return uc.outboxRepo.Create(ctx, tx, event)
}
