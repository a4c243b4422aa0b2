package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/easymove/remit/internal/domain"
	"github.com/easymove/remit/internal/fx"
)

// RateUseCase owns currency pairs: lazy creation, rate recording, margin
// management and the corridor queries behind the rates API.
type RateUseCase struct {
	txManager  TransactionManager
	pairRepo   PairRepository
	outboxRepo OutboxRepository
	idGen      IDGenerator
	converter  *fx.Converter
	cache      Cache
}

// NewRateUseCase creates a new RateUseCase. cache may be nil.
func NewRateUseCase(
	txManager TransactionManager,
	pairRepo PairRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	converter *fx.Converter,
	cache Cache,
) *RateUseCase {
	return &RateUseCase{
		txManager:  txManager,
		pairRepo:   pairRepo,
		outboxRepo: outboxRepo,
		idGen:      idGen,
		converter:  converter,
		cache:      cache,
	}
}

// GetPair returns the pair for a corridor, creating it on first use
// seeded with the table's cross rate rather than parity.
func (uc *RateUseCase) GetPair(ctx context.Context, from, to string) (*domain.CurrencyPair, error) {
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)
	pairID := fmt.Sprintf("%s_%s", from, to)

	if pair, ok := uc.cachedPair(ctx, pairID); ok {
		return pair, nil
	}

	pair, err := uc.pairRepo.GetByID(ctx, pairID)
	if err == nil {
		uc.cachePair(ctx, pair)
		return pair, nil
	}
	if !errors.Is(err, domain.ErrPairNotFound) {
		return nil, err
	}

	pair = domain.NewCurrencyPair(from, to, uc.converter.RateBetween(from, to), time.Now().UTC())
	if err := uc.pairRepo.Create(ctx, pair); err != nil {
		// A concurrent request may have created it first.
		if existing, getErr := uc.pairRepo.GetByID(ctx, pairID); getErr == nil {
			return existing, nil
		}
		return nil, err
	}

	uc.cachePair(ctx, pair)
	return pair, nil
}

// SnapshotFor freezes the customer rate for a given corridor and amount.
// A stale pair still quotes, flagged so callers can surface the risk.
// Implements RateProvider.
func (uc *RateUseCase) SnapshotFor(ctx context.Context, from, to string, amount decimal.Decimal) (domain.RateSnapshot, error) {
	pair, err := uc.GetPair(ctx, from, to)
	if err != nil {
		return domain.RateSnapshot{}, err
	}

	return domain.RateSnapshot{
		Rate:          pair.CurrentRate,
		Margin:        pair.Margin,
		EffectiveRate: pair.RateForAmount(amount),
		Source:        pair.Source,
		Timestamp:     pair.LastUpdated,
		Stale:         pair.IsStale(time.Now().UTC()),
	}, nil
}

// RecordRate appends a market observation to the pair and emits a
// rate.recorded event. In-flight transactions keep their frozen
// snapshots; only new quotes see the update.
func (uc *RateUseCase) RecordRate(ctx context.Context, from, to string, rate decimal.Decimal, source string) (*domain.CurrencyPair, error) {
	if rate.LessThanOrEqual(decimal.Zero) {
		return nil, &domain.ValidationError{Field: "rate", Reason: "rate must be positive"}
	}

	if _, err := uc.GetPair(ctx, from, to); err != nil {
		return nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	pairID := fmt.Sprintf("%s_%s", strings.ToUpper(from), strings.ToUpper(to))
	pair, err := uc.pairRepo.GetByIDForUpdate(ctx, tx, pairID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	pair.RecordRate(rate, source, now)

	if err := uc.pairRepo.Update(ctx, tx, pair); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   pair.PairID(),
		AggregateType: domain.AggregateTypeCurrencyPair,
		EventType:     domain.EventTypeRateRecorded,
		Payload: map[string]any{
			"from":   pair.From,
			"to":     pair.To,
			"rate":   rate.String(),
			"source": source,
		},
		CreatedAt: now,
		Published: false,
	}
	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.dropCachedPair(ctx, pair.PairID())
	return pair, nil
}

// SetMargin adjusts a pair's margin, clamped to the platform maximum.
func (uc *RateUseCase) SetMargin(ctx context.Context, from, to string, margin decimal.Decimal) (*domain.CurrencyPair, error) {
	if _, err := uc.GetPair(ctx, from, to); err != nil {
		return nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	pairID := fmt.Sprintf("%s_%s", strings.ToUpper(from), strings.ToUpper(to))
	pair, err := uc.pairRepo.GetByIDForUpdate(ctx, tx, pairID)
	if err != nil {
		return nil, err
	}

	pair.SetMargin(margin)
	pair.UpdatedAt = time.Now().UTC()

	if err := uc.pairRepo.Update(ctx, tx, pair); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.dropCachedPair(ctx, pairID)
	return pair, nil
}

// Corridor is one row of the public rates listing.
type Corridor struct {
	From        string                `json:"from"`
	To          string                `json:"to"`
	ClientRate  decimal.Decimal       `json:"client_rate"`
	Trend       string                `json:"trend"`
	Stale       bool                  `json:"stale"`
	LastUpdated time.Time             `json:"last_updated"`
	Statistics  domain.PairStatistics `json:"statistics"`
}

// Corridors lists all active pairs with their display statistics.
func (uc *RateUseCase) Corridors(ctx context.Context) ([]Corridor, error) {
	pairs, err := uc.pairRepo.List(ctx, true)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	corridors := make([]Corridor, 0, len(pairs))
	for _, p := range pairs {
		corridors = append(corridors, Corridor{
			From:        p.From,
			To:          p.To,
			ClientRate:  p.ClientRate,
			Trend:       p.Trend(),
			Stale:       p.IsStale(now),
			LastUpdated: p.LastUpdated,
			Statistics:  p.Statistics,
		})
	}
	return corridors, nil
}

// History returns up to limit samples for a corridor, newest first.
func (uc *RateUseCase) History(ctx context.Context, from, to string, limit int) ([]domain.RateSample, error) {
	pair, err := uc.GetPair(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > len(pair.HistoricalRates) {
		limit = len(pair.HistoricalRates)
	}
	return pair.HistoricalRates[:limit], nil
}

// Alert flags a corridor needing attention: a large daily move or a
// stale feed.
type Alert struct {
	From        string  `json:"from"`
	To          string  `json:"to"`
	DailyChange float64 `json:"daily_change"`
	Stale       bool    `json:"stale"`
}

// Alerts returns corridors whose daily move exceeds thresholdPercent or
// whose feed went stale.
func (uc *RateUseCase) Alerts(ctx context.Context, thresholdPercent float64) ([]Alert, error) {
	pairs, err := uc.pairRepo.List(ctx, true)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var alerts []Alert
	for _, p := range pairs {
		stale := p.IsStale(now)
		moved := p.Statistics.DailyChange >= thresholdPercent || p.Statistics.DailyChange <= -thresholdPercent
		if stale || moved {
			alerts = append(alerts, Alert{
				From:        p.From,
				To:          p.To,
				DailyChange: p.Statistics.DailyChange,
				Stale:       stale,
			})
		}
	}
	return alerts, nil
}

func pairCacheKey(pairID string) string {
	return "pair:" + pairID
}

func (uc *RateUseCase) cachedPair(ctx context.Context, pairID string) (*domain.CurrencyPair, bool) {
	if uc.cache == nil {
		return nil, false
	}
	data, err := uc.cache.Get(ctx, pairCacheKey(pairID))
	if err != nil || data == nil {
		return nil, false
	}
	var pair domain.CurrencyPair
	if err := json.Unmarshal(data, &pair); err != nil {
		return nil, false
	}
	return &pair, true
}

func (uc *RateUseCase) cachePair(ctx context.Context, pair *domain.CurrencyPair) {
	if uc.cache == nil {
		return
	}
	data, err := json.Marshal(pair)
	if err != nil {
		return
	}
	// Cache writes are best effort.
	_ = uc.cache.Set(ctx, pairCacheKey(pair.PairID()), data, PairCacheTTL)
}

func (uc *RateUseCase) dropCachedPair(ctx context.Context, pairID string) {
	if uc.cache == nil {
		return
	}
	_ = uc.cache.Delete(ctx, pairCacheKey(pairID))
}
