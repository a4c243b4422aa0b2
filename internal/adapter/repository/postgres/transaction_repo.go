package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/easymove/remit/internal/domain"
	"github.com/easymove/remit/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
// Recipient, rate snapshot, fee breakdown and status history are stored
// as jsonb documents; the queryable lifecycle fields stay relational.
type TransactionRepository struct {
	pool dbtx
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return newTransactionRepositoryWithPool(pool)
}

func newTransactionRepositoryWithPool(pool dbtx) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `id, transaction_number, tracking_number, sender_id, recipient,
	send_amount, send_currency, receive_amount, receive_currency, rate, fees,
	total_send_amount, payment_method, payment_id, status, status_history, compensated,
	estimated_delivery, completed_at, retry_count, version, created_at, updated_at`

// Create persists a new transaction inside a database transaction.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	recipient, err := json.Marshal(txn.Recipient)
	if err != nil {
		return err
	}
	rate, err := json.Marshal(txn.Rate)
	if err != nil {
		return err
	}
	fees, err := json.Marshal(txn.Fees)
	if err != nil {
		return err
	}
	history, err := json.Marshal(txn.StatusHistory)
	if err != nil {
		return err
	}

	_, err = queryTarget(tx).Exec(ctx, `
		INSERT INTO transactions (`+transactionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)`,
		txn.ID,
		txn.TransactionID,
		txn.TrackingNumber,
		txn.SenderID,
		recipient,
		decimalToNumeric(txn.SendAmount),
		txn.SendCurrency,
		decimalToNumeric(txn.ReceiveAmount),
		txn.ReceiveCurrency,
		rate,
		fees,
		decimalToNumeric(txn.TotalSendAmount),
		txn.PaymentMethod,
		txn.PaymentID,
		string(txn.Status),
		history,
		txn.Compensated,
		timeToPgTimestamptz(txn.EstimatedDelivery),
		timePtrToPgTimestamptz(txn.CompletedAt),
		txn.RetryCount,
		txn.Version,
		timeToPgTimestamptz(txn.CreatedAt),
		timeToPgTimestamptz(txn.UpdatedAt),
	)

	return err
}

// GetByID retrieves a transaction by internal ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	return scanTransaction(r.pool.QueryRow(ctx, `
		SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id))
}

// GetByIDForUpdate retrieves a transaction with a FOR UPDATE lock.
func (r *TransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transaction, error) {
	return scanTransaction(queryTarget(tx).QueryRow(ctx, `
		SELECT `+transactionColumns+` FROM transactions WHERE id = $1 FOR UPDATE`, id))
}

// GetByTransactionID retrieves a transaction by its TXN number.
func (r *TransactionRepository) GetByTransactionID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return scanTransaction(r.pool.QueryRow(ctx, `
		SELECT `+transactionColumns+` FROM transactions WHERE transaction_number = $1`, transactionID))
}

// GetByTrackingNumber retrieves a transaction by its tracking number.
func (r *TransactionRepository) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*domain.Transaction, error) {
	return scanTransaction(r.pool.QueryRow(ctx, `
		SELECT `+transactionColumns+` FROM transactions WHERE tracking_number = $1`, trackingNumber))
}

// Update persists the mutable transaction fields with an optimistic
// version check.
func (r *TransactionRepository) Update(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	history, err := json.Marshal(txn.StatusHistory)
	if err != nil {
		return err
	}

	tag, err := queryTarget(tx).Exec(ctx, `
		UPDATE transactions
		SET status = $2, status_history = $3, compensated = $4, payment_id = $5,
			completed_at = $6, retry_count = $7, version = version + 1, updated_at = $8
		WHERE id = $1 AND version = $9`,
		txn.ID,
		string(txn.Status),
		history,
		txn.Compensated,
		txn.PaymentID,
		timePtrToPgTimestamptz(txn.CompletedAt),
		txn.RetryCount,
		timeToPgTimestamptz(txn.UpdatedAt),
		txn.Version,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrVersionConflict
	}

	txn.Version++
	return nil
}

// ListBySender lists a sender's transactions, newest first.
func (r *TransactionRepository) ListBySender(ctx context.Context, senderID string, limit, offset int) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+transactionColumns+` FROM transactions
		WHERE sender_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, senderID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// ListByStatus lists transactions in the given status, oldest first so
// the payment worker drains fairly.
func (r *TransactionRepository) ListByStatus(ctx context.Context, status domain.Status, limit int) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+transactionColumns+` FROM transactions
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2`, string(status), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// SumSendAmountSince totals a sender's send amounts since the cutoff,
// excluding transfers whose money came back.
func (r *TransactionRepository) SumSendAmountSince(ctx context.Context, senderID string, since time.Time) (decimal.Decimal, error) {
	var sum pgtype.Numeric
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(send_amount), 0) FROM transactions
		WHERE sender_id = $1 AND created_at >= $2 AND status NOT IN ('cancelled', 'failed', 'refunded')`,
		senderID, timeToPgTimestamptz(since),
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(sum), nil
}

// CountByStatus returns per-status counts for a sender.
func (r *TransactionRepository) CountByStatus(ctx context.Context, senderID string) (map[domain.Status]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT status, COUNT(*) FROM transactions
		WHERE sender_id = $1
		GROUP BY status`, senderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.Status]int)
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[domain.Status(status)] = count
	}

	return counts, rows.Err()
}

func collectTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
	var txns []*domain.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}

	return txns, rows.Err()
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		txn                            domain.Transaction
		recipient, rate, fees, history []byte
		sendAmount, receiveAmount      pgtype.Numeric
		totalSendAmount                pgtype.Numeric
		status                         string
		estimatedDelivery, completedAt pgtype.Timestamptz
		createdAt, updatedAt           pgtype.Timestamptz
	)

	err := row.Scan(
		&txn.ID,
		&txn.TransactionID,
		&txn.TrackingNumber,
		&txn.SenderID,
		&recipient,
		&sendAmount,
		&txn.SendCurrency,
		&receiveAmount,
		&txn.ReceiveCurrency,
		&rate,
		&fees,
		&totalSendAmount,
		&txn.PaymentMethod,
		&txn.PaymentID,
		&status,
		&history,
		&txn.Compensated,
		&estimatedDelivery,
		&completedAt,
		&txn.RetryCount,
		&txn.Version,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, err
	}

	if err := json.Unmarshal(recipient, &txn.Recipient); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(rate, &txn.Rate); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(fees, &txn.Fees); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(history, &txn.StatusHistory); err != nil {
		return nil, err
	}

	txn.SendAmount = numericToDecimal(sendAmount)
	txn.ReceiveAmount = numericToDecimal(receiveAmount)
	txn.TotalSendAmount = numericToDecimal(totalSendAmount)
	txn.Status = domain.Status(status)
	txn.EstimatedDelivery = estimatedDelivery.Time
	txn.CompletedAt = pgTimestamptzToTimePtr(completedAt)
	txn.CreatedAt = createdAt.Time
	txn.UpdatedAt = updatedAt.Time

	return &txn, nil
}
