package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/easymove/remit/internal/domain"
	"github.com/easymove/remit/internal/fx"
	"github.com/easymove/remit/internal/usecase"
	"github.com/easymove/remit/internal/usecase/mocks"
)

type rateFixture struct {
	uc         *usecase.RateUseCase
	pairRepo   *mocks.MockPairRepository
	outboxRepo *mocks.MockOutboxRepository
}

func newRateFixture() *rateFixture {
	converter := fx.NewConverter(fx.NewTable([]fx.Entry{
		fx.Standalone("USD", 1.0, "United States", fx.TierMajor),
		fx.Standalone("EUR", 0.85, "Euro Area", fx.TierMajor),
		fx.Standalone("NGN", 411.0, "Nigeria", fx.TierRegional),
	}))

	f := &rateFixture{
		pairRepo:   mocks.NewMockPairRepository(),
		outboxRepo: mocks.NewMockOutboxRepository(),
	}
	f.uc = usecase.NewRateUseCase(
		&mocks.MockTransactionManager{},
		f.pairRepo,
		f.outboxRepo,
		&mocks.MockIDGenerator{},
		converter,
		nil,
	)
	return f
}

func TestRateUseCase_GetPairSeedsCrossRate(t *testing.T) {
	f := newRateFixture()

	pair, err := f.uc.GetPair(context.Background(), "usd", "ngn")
	if err != nil {
		t.Fatalf("GetPair: %v", err)
	}

	if pair.PairID() != "USD_NGN" {
		t.Errorf("pair ID = %s", pair.PairID())
	}
	if !pair.CurrentRate.Equal(decimal.NewFromInt(411)) {
		t.Errorf("seeded rate = %s, want table cross rate 411", pair.CurrentRate)
	}
	if !pair.Margin.Equal(decimal.NewFromFloat(domain.DefaultMargin)) {
		t.Errorf("margin = %s", pair.Margin)
	}

	// Second call returns the stored pair, not a fresh one.
	again, err := f.uc.GetPair(context.Background(), "USD", "NGN")
	if err != nil {
		t.Fatalf("second GetPair: %v", err)
	}
	if again.CreatedAt != pair.CreatedAt {
		t.Error("GetPair recreated an existing pair")
	}
}

func TestRateUseCase_SnapshotForAppliesVolumeDiscount(t *testing.T) {
	f := newRateFixture()
	pair := domain.NewCurrencyPair("USD", "NGN", decimal.NewFromInt(100), time.Now().UTC())
	f.pairRepo.Seed(pair)

	small, err := f.uc.SnapshotFor(context.Background(), "USD", "NGN", decimal.NewFromInt(100))
	if err != nil {
		t.Fatalf("SnapshotFor: %v", err)
	}
	if !small.EffectiveRate.Equal(decimal.NewFromInt(102)) {
		t.Errorf("small effective rate = %s, want 102", small.EffectiveRate)
	}

	large, err := f.uc.SnapshotFor(context.Background(), "USD", "NGN", decimal.NewFromInt(10000))
	if err != nil {
		t.Fatalf("SnapshotFor: %v", err)
	}
	if !large.EffectiveRate.Equal(decimal.NewFromInt(101)) {
		t.Errorf("large effective rate = %s, want 101", large.EffectiveRate)
	}
}

func TestRateUseCase_SnapshotForFlagsStaleRate(t *testing.T) {
	f := newRateFixture()
	pair := domain.NewCurrencyPair("USD", "NGN", decimal.NewFromInt(411), time.Now().UTC())
	pair.LastUpdated = time.Now().UTC().Add(-3 * pair.UpdateFrequency)
	f.pairRepo.Seed(pair)

	snapshot, err := f.uc.SnapshotFor(context.Background(), "USD", "NGN", decimal.NewFromInt(100))
	if err != nil {
		t.Fatalf("SnapshotFor: %v", err)
	}

	// The quote still carries the best available rate.
	if !snapshot.Rate.Equal(decimal.NewFromInt(411)) {
		t.Errorf("rate = %s, want 411", snapshot.Rate)
	}
	if !snapshot.Stale {
		t.Error("snapshot from a pair past two refresh cycles not flagged stale")
	}
}

func TestRateUseCase_SnapshotForFreshRateNotStale(t *testing.T) {
	f := newRateFixture()
	f.pairRepo.Seed(domain.NewCurrencyPair("USD", "NGN", decimal.NewFromInt(411), time.Now().UTC()))

	snapshot, err := f.uc.SnapshotFor(context.Background(), "USD", "NGN", decimal.NewFromInt(100))
	if err != nil {
		t.Fatalf("SnapshotFor: %v", err)
	}
	if snapshot.Stale {
		t.Error("fresh snapshot flagged stale")
	}
}

func TestRateUseCase_RecordRate(t *testing.T) {
	f := newRateFixture()

	pair, err := f.uc.RecordRate(context.Background(), "USD", "NGN", decimal.NewFromInt(415), "api")
	if err != nil {
		t.Fatalf("RecordRate: %v", err)
	}

	if !pair.CurrentRate.Equal(decimal.NewFromInt(415)) {
		t.Errorf("current rate = %s", pair.CurrentRate)
	}
	if pair.Source != "api" {
		t.Errorf("source = %s", pair.Source)
	}
	if len(pair.HistoricalRates) != 1 {
		t.Fatalf("history length = %d", len(pair.HistoricalRates))
	}

	var found bool
	for _, e := range f.outboxRepo.Events {
		if e.EventType == domain.EventTypeRateRecorded {
			found = true
		}
	}
	if !found {
		t.Error("rate.recorded event not emitted")
	}
}

func TestRateUseCase_RecordRateRejectsNonPositive(t *testing.T) {
	f := newRateFixture()

	if _, err := f.uc.RecordRate(context.Background(), "USD", "NGN", decimal.Zero, "api"); err == nil {
		t.Error("expected zero rate to be rejected")
	}
	if _, err := f.uc.RecordRate(context.Background(), "USD", "NGN", decimal.NewFromInt(-1), "api"); err == nil {
		t.Error("expected negative rate to be rejected")
	}
}

func TestRateUseCase_SetMarginClamps(t *testing.T) {
	f := newRateFixture()

	pair, err := f.uc.SetMargin(context.Background(), "USD", "NGN", decimal.NewFromFloat(0.5))
	if err != nil {
		t.Fatalf("SetMargin: %v", err)
	}
	if !pair.Margin.Equal(decimal.NewFromFloat(domain.MaxMargin)) {
		t.Errorf("margin = %s, want clamped to %v", pair.Margin, domain.MaxMargin)
	}
}

func TestRateUseCase_Alerts(t *testing.T) {
	f := newRateFixture()
	now := time.Now().UTC()

	quiet := domain.NewCurrencyPair("USD", "EUR", decimal.NewFromFloat(0.85), now)
	f.pairRepo.Seed(quiet)

	stale := domain.NewCurrencyPair("USD", "NGN", decimal.NewFromInt(411), now.Add(-2*time.Hour))
	f.pairRepo.Seed(stale)

	moved := domain.NewCurrencyPair("USD", "TRY", decimal.NewFromInt(8), now)
	moved.Statistics.DailyChange = -6.2
	f.pairRepo.Seed(moved)

	alerts, err := f.uc.Alerts(context.Background(), 5)
	if err != nil {
		t.Fatalf("Alerts: %v", err)
	}
	if len(alerts) != 2 {
		t.Fatalf("alerts = %d, want 2", len(alerts))
	}
	byPair := make(map[string]usecase.Alert)
	for _, a := range alerts {
		byPair[a.From+"_"+a.To] = a
	}
	if !byPair["USD_NGN"].Stale {
		t.Error("stale pair not flagged")
	}
	if byPair["USD_TRY"].DailyChange != -6.2 {
		t.Error("moved pair not flagged")
	}
}

func TestRateUseCase_History(t *testing.T) {
	f := newRateFixture()

	for i := 1; i <= 5; i++ {
		if _, err := f.uc.RecordRate(context.Background(), "USD", "NGN", decimal.NewFromInt(int64(400+i)), "api"); err != nil {
			t.Fatalf("RecordRate: %v", err)
		}
	}

	samples, err := f.uc.History(context.Background(), "USD", "NGN", 3)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(samples) != 3 {
		t.Fatalf("samples = %d, want 3", len(samples))
	}
	if !samples[0].Rate.Equal(decimal.NewFromInt(405)) {
		t.Errorf("newest sample = %s, want 405", samples[0].Rate)
	}
}
