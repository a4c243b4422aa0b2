package domain

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// DefaultMargin is applied to newly created pairs.
	DefaultMargin = 0.02

	// MaxMargin caps the margin a pair may carry.
	MaxMargin = 0.10

	// MaxHistoricalRates bounds the ring buffer: one day of one-minute
	// samples.
	MaxHistoricalRates = 1440

	// DefaultUpdateFrequency is how often a pair expects fresh rates.
	DefaultUpdateFrequency = 15 * time.Minute
)

// RateSample is one historical rate observation. historicalRates keeps
// samples newest first.
type RateSample struct {
	Rate      decimal.Decimal `json:"rate"`
	Timestamp time.Time       `json:"timestamp"`
	Source    string          `json:"source"`
}

// PairStatistics are trailing trend figures recomputed on every recorded
// rate. These drive display and alerting only, so float64 precision is
// acceptable here, unlike monetary amounts.
type PairStatistics struct {
	DailyChange    float64 `json:"daily_change"`
	WeeklyChange   float64 `json:"weekly_change"`
	MonthlyChange  float64 `json:"monthly_change"`
	Volatility     float64 `json:"volatility"`
	AverageRate30d float64 `json:"average_rate_30d"`
	HighestRate30d float64 `json:"highest_rate_30d"`
	LowestRate30d  float64 `json:"lowest_rate_30d"`
}

// CurrencyPair owns the current and historical market rates for one
// (from, to) corridor. ClientRate is the customer-facing rate and is
// recomputed whenever CurrentRate or Margin changes.
type CurrencyPair struct {
	From            string
	To              string
	CurrentRate     decimal.Decimal
	ClientRate      decimal.Decimal
	Margin          decimal.Decimal
	Source          string
	LastUpdated     time.Time
	HistoricalRates []RateSample
	Statistics      PairStatistics
	Active          bool
	UpdateFrequency time.Duration
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewCurrencyPair creates a pair with the default margin. Rate defaults
// to 1 until a refresh records a real one.
func NewCurrencyPair(from, to string, rate decimal.Decimal, now time.Time) *CurrencyPair {
	if rate.LessThanOrEqual(decimal.Zero) {
		rate = decimal.NewFromInt(1)
	}

	p := &CurrencyPair{
		From:            from,
		To:              to,
		CurrentRate:     rate,
		Margin:          decimal.NewFromFloat(DefaultMargin),
		Source:          "calculated",
		LastUpdated:     now,
		Active:          true,
		UpdateFrequency: DefaultUpdateFrequency,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	p.recomputeClientRate()

	return p
}

// PairID is the compound key "FROM_TO".
func (p *CurrencyPair) PairID() string {
	return fmt.Sprintf("%s_%s", p.From, p.To)
}

func (p *CurrencyPair) recomputeClientRate() {
	p.ClientRate = p.CurrentRate.Mul(decimal.NewFromInt(1).Add(p.Margin))
}

// SetMargin updates the margin, clamped to [0, MaxMargin], and refreshes
// the client rate.
func (p *CurrencyPair) SetMargin(margin decimal.Decimal) {
	if margin.IsNegative() {
		margin = decimal.Zero
	}
	if max := decimal.NewFromFloat(MaxMargin); margin.GreaterThan(max) {
		margin = max
	}

	p.Margin = margin
	p.recomputeClientRate()
}

// volume discount thresholds: larger transfers get a slimmer margin.
var volumeTiers = []struct {
	threshold    decimal.Decimal
	marginFactor decimal.Decimal
}{
	{decimal.NewFromInt(10000), decimal.NewFromFloat(0.5)},
	{decimal.NewFromInt(5000), decimal.NewFromFloat(0.7)},
	{decimal.NewFromInt(1000), decimal.NewFromFloat(0.9)},
}

// RateForAmount returns the client-facing rate with the volume-tiered
// margin discount applied. This, not the flat ClientRate, is the rate
// used for actual quotes.
func (p *CurrencyPair) RateForAmount(amount decimal.Decimal) decimal.Decimal {
	for _, tier := range volumeTiers {
		if amount.GreaterThanOrEqual(tier.threshold) {
			return p.CurrentRate.Mul(decimal.NewFromInt(1).Add(p.Margin.Mul(tier.marginFactor)))
		}
	}
	return p.ClientRate
}

// IsStale reports whether the pair missed two refresh cycles.
func (p *CurrencyPair) IsStale(now time.Time) bool {
	return now.Sub(p.LastUpdated) > 2*p.UpdateFrequency
}

// RecordRate prepends a sample to the ring buffer, updates the current
// and client rates, and recomputes trailing statistics.
func (p *CurrencyPair) RecordRate(rate decimal.Decimal, source string, now time.Time) {
	p.CurrentRate = rate
	p.Source = source
	p.LastUpdated = now
	p.UpdatedAt = now
	p.recomputeClientRate()

	p.HistoricalRates = append([]RateSample{{Rate: rate, Timestamp: now, Source: source}}, p.HistoricalRates...)
	if len(p.HistoricalRates) > MaxHistoricalRates {
		p.HistoricalRates = p.HistoricalRates[:MaxHistoricalRates]
	}

	p.updateStatistics(now)
}

// updateStatistics recomputes period changes against the nearest sample
// at least that old, and 30-day mean/high/low/stddev.
func (p *CurrencyPair) updateStatistics(now time.Time) {
	if len(p.HistoricalRates) == 0 {
		return
	}

	current, _ := p.CurrentRate.Float64()

	dayAgo := now.Add(-24 * time.Hour)
	weekAgo := now.Add(-7 * 24 * time.Hour)
	monthAgo := now.Add(-30 * 24 * time.Hour)

	if old, ok := p.rateAtOrBefore(dayAgo); ok {
		p.Statistics.DailyChange = percentChange(current, old)
	}
	if old, ok := p.rateAtOrBefore(weekAgo); ok {
		p.Statistics.WeeklyChange = percentChange(current, old)
	}
	if old, ok := p.rateAtOrBefore(monthAgo); ok {
		p.Statistics.MonthlyChange = percentChange(current, old)
	}

	var window []float64
	for _, s := range p.HistoricalRates {
		if !s.Timestamp.Before(monthAgo) {
			r, _ := s.Rate.Float64()
			window = append(window, r)
		}
	}

	if len(window) == 0 {
		return
	}

	sum := 0.0
	high := window[0]
	low := window[0]
	for _, r := range window {
		sum += r
		if r > high {
			high = r
		}
		if r < low {
			low = r
		}
	}

	mean := sum / float64(len(window))
	variance := 0.0
	for _, r := range window {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(window))

	p.Statistics.AverageRate30d = mean
	p.Statistics.HighestRate30d = high
	p.Statistics.LowestRate30d = low
	p.Statistics.Volatility = math.Sqrt(variance)
}

// rateAtOrBefore finds the newest sample at least as old as cutoff.
// Samples are ordered newest first.
func (p *CurrencyPair) rateAtOrBefore(cutoff time.Time) (float64, bool) {
	for _, s := range p.HistoricalRates {
		if !s.Timestamp.After(cutoff) {
			r, _ := s.Rate.Float64()
			return r, true
		}
	}
	return 0, false
}

func percentChange(current, old float64) float64 {
	if old == 0 {
		return 0
	}
	return (current - old) / old * 100
}

// Trend classifies the daily movement for display.
func (p *CurrencyPair) Trend() string {
	switch {
	case p.Statistics.DailyChange > 0.5:
		return "up"
	case p.Statistics.DailyChange < -0.5:
		return "down"
	default:
		return "neutral"
	}
}
