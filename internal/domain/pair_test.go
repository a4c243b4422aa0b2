package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrencyPair_ClientRate(t *testing.T) {
	now := time.Now()
	pair := NewCurrencyPair("USD", "NGN", decimal.NewFromInt(400), now)

	// default 2% margin
	assert.True(t, pair.ClientRate.Equal(decimal.NewFromInt(408)), "got %s", pair.ClientRate)

	pair.SetMargin(decimal.NewFromFloat(0.05))
	assert.True(t, pair.ClientRate.Equal(decimal.NewFromInt(420)), "got %s", pair.ClientRate)

	pair.SetMargin(decimal.NewFromFloat(0.5))
	assert.True(t, pair.Margin.Equal(decimal.NewFromFloat(MaxMargin)), "margin must be clamped, got %s", pair.Margin)
}

func TestCurrencyPair_RateForAmount(t *testing.T) {
	now := time.Now()
	pair := NewCurrencyPair("USD", "NGN", decimal.NewFromInt(100), now)

	tests := []struct {
		name   string
		amount int64
		want   string
	}{
		{name: "small amount full margin", amount: 500, want: "102"},
		{name: "1k gets 10 percent discount", amount: 1000, want: "101.8"},
		{name: "5k gets 30 percent discount", amount: 5000, want: "101.4"},
		{name: "10k gets 50 percent discount", amount: 10000, want: "101"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want, err := decimal.NewFromString(tt.want)
			require.NoError(t, err)

			got := pair.RateForAmount(decimal.NewFromInt(tt.amount))
			assert.True(t, got.Equal(want), "expected %s, got %s", want, got)
		})
	}
}

func TestCurrencyPair_IsStale(t *testing.T) {
	now := time.Now()
	pair := NewCurrencyPair("USD", "EUR", decimal.NewFromFloat(0.85), now)

	assert.False(t, pair.IsStale(now.Add(29*time.Minute)))
	assert.True(t, pair.IsStale(now.Add(31*time.Minute)), "stale after 2x the 15m update frequency")
}

func TestCurrencyPair_RecordRate(t *testing.T) {
	now := time.Now()
	pair := NewCurrencyPair("USD", "EUR", decimal.NewFromFloat(0.85), now)

	pair.RecordRate(decimal.NewFromFloat(0.86), "api", now.Add(time.Minute))

	require.Len(t, pair.HistoricalRates, 1)
	assert.True(t, pair.CurrentRate.Equal(decimal.NewFromFloat(0.86)))
	assert.Equal(t, "api", pair.Source)
	assert.True(t, pair.ClientRate.Equal(decimal.NewFromFloat(0.86).Mul(decimal.NewFromFloat(1.02))))

	// newest first
	pair.RecordRate(decimal.NewFromFloat(0.87), "api", now.Add(2*time.Minute))
	require.Len(t, pair.HistoricalRates, 2)
	assert.True(t, pair.HistoricalRates[0].Rate.Equal(decimal.NewFromFloat(0.87)))
}

func TestCurrencyPair_RecordRate_RingBufferCap(t *testing.T) {
	now := time.Now()
	pair := NewCurrencyPair("USD", "EUR", decimal.NewFromFloat(0.85), now)

	for i := 0; i < MaxHistoricalRates+10; i++ {
		pair.RecordRate(decimal.NewFromFloat(0.85), "api", now.Add(time.Duration(i)*time.Minute))
	}

	assert.Len(t, pair.HistoricalRates, MaxHistoricalRates)
}

func TestCurrencyPair_Statistics(t *testing.T) {
	start := time.Now().Add(-48 * time.Hour)
	pair := NewCurrencyPair("USD", "NGN", decimal.NewFromInt(400), start)

	// a sample two days old, then a fresh one 10% higher
	pair.RecordRate(decimal.NewFromInt(400), "api", start)
	now := start.Add(48 * time.Hour)
	pair.RecordRate(decimal.NewFromInt(440), "api", now)

	assert.InDelta(t, 10.0, pair.Statistics.DailyChange, 0.001)
	assert.InDelta(t, 420.0, pair.Statistics.AverageRate30d, 0.001)
	assert.InDelta(t, 440.0, pair.Statistics.HighestRate30d, 0.001)
	assert.InDelta(t, 400.0, pair.Statistics.LowestRate30d, 0.001)
	assert.InDelta(t, 20.0, pair.Statistics.Volatility, 0.001)
}

func TestCurrencyPair_Trend(t *testing.T) {
	pair := &CurrencyPair{}

	pair.Statistics.DailyChange = 1.2
	assert.Equal(t, "up", pair.Trend())

	pair.Statistics.DailyChange = -0.8
	assert.Equal(t, "down", pair.Trend())

	pair.Statistics.DailyChange = 0.3
	assert.Equal(t, "neutral", pair.Trend())
}
