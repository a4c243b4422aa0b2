package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/easymove/remit/internal/domain"
	"github.com/easymove/remit/internal/usecase"
)

// PairRepository implements usecase.PairRepository. The rate history
// ring buffer and statistics live in jsonb; they are always read and
// written whole.
type PairRepository struct {
	pool *pgxpool.Pool
}

// NewPairRepository creates a new PairRepository.
func NewPairRepository(pool *pgxpool.Pool) *PairRepository {
	return &PairRepository{pool: pool}
}

const pairColumns = `pair_id, from_currency, to_currency, current_rate, client_rate, margin,
	source, last_updated, historical_rates, statistics, active, update_frequency_seconds,
	version, created_at, updated_at`

// Create persists a new pair.
func (r *PairRepository) Create(ctx context.Context, pair *domain.CurrencyPair) error {
	history, err := json.Marshal(pair.HistoricalRates)
	if err != nil {
		return err
	}
	stats, err := json.Marshal(pair.Statistics)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO currency_pairs (`+pairColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		pair.PairID(),
		pair.From,
		pair.To,
		decimalToNumeric(pair.CurrentRate),
		decimalToNumeric(pair.ClientRate),
		decimalToNumeric(pair.Margin),
		pair.Source,
		timeToPgTimestamptz(pair.LastUpdated),
		history,
		stats,
		pair.Active,
		int64(pair.UpdateFrequency/time.Second),
		pair.Version,
		timeToPgTimestamptz(pair.CreatedAt),
		timeToPgTimestamptz(pair.UpdatedAt),
	)

	return err
}

// GetByID retrieves a pair by its FROM_TO identifier.
func (r *PairRepository) GetByID(ctx context.Context, pairID string) (*domain.CurrencyPair, error) {
	return scanPair(r.pool.QueryRow(ctx, `
		SELECT `+pairColumns+` FROM currency_pairs WHERE pair_id = $1`, pairID))
}

// GetByIDForUpdate retrieves a pair with a FOR UPDATE lock.
func (r *PairRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, pairID string) (*domain.CurrencyPair, error) {
	return scanPair(queryTarget(tx).QueryRow(ctx, `
		SELECT `+pairColumns+` FROM currency_pairs WHERE pair_id = $1 FOR UPDATE`, pairID))
}

// Update persists the mutable pair state.
func (r *PairRepository) Update(ctx context.Context, tx usecase.Transaction, pair *domain.CurrencyPair) error {
	history, err := json.Marshal(pair.HistoricalRates)
	if err != nil {
		return err
	}
	stats, err := json.Marshal(pair.Statistics)
	if err != nil {
		return err
	}

	tag, err := queryTarget(tx).Exec(ctx, `
		UPDATE currency_pairs
		SET current_rate = $2, client_rate = $3, margin = $4, source = $5, last_updated = $6,
			historical_rates = $7, statistics = $8, active = $9, version = version + 1,
			updated_at = $10
		WHERE pair_id = $1`,
		pair.PairID(),
		decimalToNumeric(pair.CurrentRate),
		decimalToNumeric(pair.ClientRate),
		decimalToNumeric(pair.Margin),
		pair.Source,
		timeToPgTimestamptz(pair.LastUpdated),
		history,
		stats,
		pair.Active,
		timeToPgTimestamptz(pair.UpdatedAt),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPairNotFound
	}

	pair.Version++
	return nil
}

// List returns pairs, optionally only active ones.
func (r *PairRepository) List(ctx context.Context, activeOnly bool) ([]*domain.CurrencyPair, error) {
	query := `SELECT ` + pairColumns + ` FROM currency_pairs ORDER BY pair_id`
	if activeOnly {
		query = `SELECT ` + pairColumns + ` FROM currency_pairs WHERE active ORDER BY pair_id`
	}

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pairs []*domain.CurrencyPair
	for rows.Next() {
		pair, err := scanPair(rows)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, pair)
	}

	return pairs, rows.Err()
}

func scanPair(row pgx.Row) (*domain.CurrencyPair, error) {
	var (
		pair                            domain.CurrencyPair
		pairID                          string
		currentRate, clientRate, margin pgtype.Numeric
		history, stats                  []byte
		updateFrequencySeconds          int64
		lastUpdated                     pgtype.Timestamptz
		createdAt, updatedAt            pgtype.Timestamptz
	)

	err := row.Scan(
		&pairID,
		&pair.From,
		&pair.To,
		&currentRate,
		&clientRate,
		&margin,
		&pair.Source,
		&lastUpdated,
		&history,
		&stats,
		&pair.Active,
		&updateFrequencySeconds,
		&pair.Version,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPairNotFound
		}

		return nil, err
	}

	if err := json.Unmarshal(history, &pair.HistoricalRates); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(stats, &pair.Statistics); err != nil {
		return nil, err
	}

	pair.CurrentRate = numericToDecimal(currentRate)
	pair.ClientRate = numericToDecimal(clientRate)
	pair.Margin = numericToDecimal(margin)
	pair.LastUpdated = lastUpdated.Time
	pair.UpdateFrequency = time.Duration(updateFrequencySeconds) * time.Second
	pair.CreatedAt = createdAt.Time
	pair.UpdatedAt = updatedAt.Time

	return &pair, nil
}
