// Package ratewatch keeps corridor rates fresh by polling an external
// feed and recording samples through the rate use case.
package ratewatch

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/easymove/remit/internal/domain"
	"github.com/easymove/remit/internal/infrastructure/metrics"
	"github.com/easymove/remit/internal/usecase"
)

// rateService is the slice of the rate use case the watcher needs.
type rateService interface {
	Corridors(ctx context.Context) ([]usecase.Corridor, error)
	RecordRate(ctx context.Context, from, to string, rate decimal.Decimal, source string) (*domain.CurrencyPair, error)
}

// Watcher refreshes every known corridor on a fixed interval. Corridor
// rates are derived from the source's per-USD quotes, so a single fetch
// covers all corridors.
type Watcher struct {
	rates    rateService
	source   Source
	logger   *slog.Logger
	metrics  *metrics.Metrics
	interval time.Duration
}

// Config for Watcher.
type Config struct {
	Rates    rateService
	Source   Source
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Interval time.Duration
}

// NewWatcher creates a rate watcher.
func NewWatcher(cfg Config) *Watcher {
	if cfg.Interval == 0 {
		cfg.Interval = 15 * time.Minute
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Watcher{
		rates:    cfg.Rates,
		source:   cfg.Source,
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,
		interval: cfg.Interval,
	}
}

// Start runs the watcher until the context is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	w.logger.Info("rate watcher started",
		slog.String("source", w.source.Name()),
		slog.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	if err := w.refresh(ctx); err != nil {
		w.logger.Error("error refreshing rates on start", slog.String("error", err.Error()))
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("rate watcher shutting down")
			return ctx.Err()
		case <-ticker.C:
			if err := w.refresh(ctx); err != nil {
				w.logger.Error("error refreshing rates", slog.String("error", err.Error()))
			}
		}
	}
}

// refresh records a fresh sample for every corridor the source covers.
func (w *Watcher) refresh(ctx context.Context) error {
	quotes, err := w.source.Fetch(ctx)
	if err != nil {
		return err
	}

	corridors, err := w.rates.Corridors(ctx)
	if err != nil {
		return err
	}

	if w.metrics != nil {
		stale := 0
		for _, c := range corridors {
			if c.Stale {
				stale++
			}
		}
		w.metrics.StaleCorridors.Set(float64(stale))
	}

	recorded := 0
	for _, c := range corridors {
		fromRate, okFrom := quotes[c.From]
		toRate, okTo := quotes[c.To]
		if !okFrom || !okTo || fromRate.LessThanOrEqual(decimal.Zero) {
			w.logger.Debug("source has no quote for corridor",
				slog.String("from", c.From),
				slog.String("to", c.To))
			continue
		}

		rate := toRate.Div(fromRate)
		if _, err := w.rates.RecordRate(ctx, c.From, c.To, rate, w.source.Name()); err != nil {
			w.logger.Error("failed to record rate",
				slog.String("from", c.From),
				slog.String("to", c.To),
				slog.String("error", err.Error()))
			continue
		}
		if w.metrics != nil {
			w.metrics.RatesRecorded.WithLabelValues(w.source.Name()).Inc()
		}
		recorded++
	}

	w.logger.Info("rates refreshed",
		slog.Int("corridors", len(corridors)),
		slog.Int("recorded", recorded))
	return nil
}
