package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestTransaction_ApplyStatus(t *testing.T) {
	tests := []struct {
		name        string
		from        Status
		to          Status
		expectError bool
	}{
		{name: "pending to processing", from: StatusPending, to: StatusProcessing},
		{name: "processing to completed", from: StatusProcessing, to: StatusCompleted},
		{name: "processing to failed", from: StatusProcessing, to: StatusFailed},
		{name: "pending to cancelled", from: StatusPending, to: StatusCancelled},
		{name: "processing to cancelled", from: StatusProcessing, to: StatusCancelled},
		{name: "completed to refunded", from: StatusCompleted, to: StatusRefunded},
		{name: "completed to disputed", from: StatusCompleted, to: StatusDisputed},
		{name: "completed to pending rejected", from: StatusCompleted, to: StatusPending, expectError: true},
		{name: "cancelled to processing rejected", from: StatusCancelled, to: StatusProcessing, expectError: true},
		{name: "refunded to completed rejected", from: StatusRefunded, to: StatusCompleted, expectError: true},
		{name: "failed to completed rejected", from: StatusFailed, to: StatusCompleted, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := &Transaction{Status: tt.from}

			err := tx.ApplyStatus(tt.to, "test", "tester", time.Now())

			if tt.expectError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if len(tx.StatusHistory) != 0 {
					t.Errorf("rejected transition must not append history, got %d entries", len(tx.StatusHistory))
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tx.Status != tt.to {
				t.Errorf("expected status %s, got %s", tt.to, tx.Status)
			}
			if len(tx.StatusHistory) != 1 {
				t.Errorf("expected exactly one history entry, got %d", len(tx.StatusHistory))
			}
		})
	}
}

func TestTransaction_ApplyStatus_SetsCompletedAt(t *testing.T) {
	tx := &Transaction{Status: StatusProcessing}
	now := time.Now()

	if err := tx.ApplyStatus(StatusCompleted, "payout confirmed", "system", now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tx.CompletedAt == nil || !tx.CompletedAt.Equal(now) {
		t.Errorf("expected CompletedAt %v, got %v", now, tx.CompletedAt)
	}
}

func TestTransaction_NeedsCompensation(t *testing.T) {
	tests := []struct {
		name        string
		next        Status
		compensated bool
		want        bool
	}{
		{name: "failed needs compensation", next: StatusFailed, want: true},
		{name: "cancelled needs compensation", next: StatusCancelled, want: true},
		{name: "refunded needs compensation", next: StatusRefunded, want: true},
		{name: "completed keeps funds", next: StatusCompleted, want: false},
		{name: "disputed freezes funds", next: StatusDisputed, want: false},
		{name: "already compensated is not credited twice", next: StatusFailed, compensated: true, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := &Transaction{Status: StatusProcessing, Compensated: tt.compensated}
			if got := tx.NeedsCompensation(tt.next); got != tt.want {
				t.Errorf("NeedsCompensation(%s) = %v, want %v", tt.next, got, tt.want)
			}
		})
	}
}

func TestTransaction_CanBeRefunded(t *testing.T) {
	now := time.Now()
	window := 24 * time.Hour

	t.Run("inside window", func(t *testing.T) {
		completedAt := now.Add(-2 * time.Hour)
		tx := &Transaction{Status: StatusCompleted, CompletedAt: &completedAt}
		if err := tx.CanBeRefunded(now, window); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("window closed", func(t *testing.T) {
		completedAt := now.Add(-25 * time.Hour)
		tx := &Transaction{Status: StatusCompleted, CompletedAt: &completedAt}
		if err := tx.CanBeRefunded(now, window); err != ErrRefundWindowClosed {
			t.Errorf("expected ErrRefundWindowClosed, got %v", err)
		}
	})

	t.Run("not completed", func(t *testing.T) {
		tx := &Transaction{Status: StatusProcessing}
		err := tx.CanBeRefunded(now, window)
		if _, ok := err.(*InvalidTransitionError); !ok {
			t.Errorf("expected InvalidTransitionError, got %v", err)
		}
	})
}

func TestTransaction_RecomputeTotal(t *testing.T) {
	tx := &Transaction{
		SendAmount: decimal.NewFromInt(1000),
		Fees:       Fees{TotalFees: decimal.NewFromInt(35)},
	}

	tx.RecomputeTotal()

	if !tx.TotalSendAmount.Equal(decimal.NewFromInt(1035)) {
		t.Errorf("expected total 1035, got %s", tx.TotalSendAmount)
	}
}

func TestAccount_ValidateDebit(t *testing.T) {
	acc := &Account{Balance: decimal.NewFromInt(5000)}

	if err := acc.ValidateDebit(decimal.NewFromInt(5000)); err != nil {
		t.Errorf("debit equal to balance should pass: %v", err)
	}

	err := acc.ValidateDebit(decimal.NewFromInt(6000))
	insufficient, ok := err.(*InsufficientBalanceError)
	if !ok {
		t.Fatalf("expected InsufficientBalanceError, got %v", err)
	}
	if !insufficient.Shortfall().Equal(decimal.NewFromInt(1000)) {
		t.Errorf("expected shortfall 1000, got %s", insufficient.Shortfall())
	}
}

func TestEstimateDelivery(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		method    PayoutMethod
		from, to  string
		wantHours int
	}{
		{name: "bank major corridor", method: PayoutBankAccount, from: "USD", to: "EUR", wantHours: 24},
		{name: "mobile money with corridor penalty", method: PayoutMobileMoney, from: "USD", to: "NGN", wantHours: 14},
		{name: "wallet major corridor", method: PayoutDigitalWallet, from: "GBP", to: "USD", wantHours: 1},
		{name: "cash pickup penalty both sides", method: PayoutCashPickup, from: "KES", to: "GHS", wantHours: 16},
		{name: "unknown method defaults to a day", method: PayoutMethod("carrier_pigeon"), from: "USD", to: "EUR", wantHours: 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateDelivery(tt.method, tt.from, tt.to, now)
			want := now.Add(time.Duration(tt.wantHours) * time.Hour)
			if !got.Equal(want) {
				t.Errorf("expected %v, got %v", want, got)
			}
		})
	}
}
