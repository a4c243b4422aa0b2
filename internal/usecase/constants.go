package usecase

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/easymove/remit/internal/domain"
)

const (
	// KYCThresholdUSD is the USD-equivalent send amount above which the
	// sender must hold a verified KYC level.
	KYCThresholdUSD = "2000"

	// DefaultRefundWindow is how long after completion a refund stays
	// available.
	DefaultRefundWindow = 24 * time.Hour

	// DefaultDailyLimitUnverifiedUSD and DefaultDailyLimitVerifiedUSD
	// apply to accounts without an explicit limit. Verification lifts the
	// cap tenfold.
	DefaultDailyLimitUnverifiedUSD = "1000"
	DefaultDailyLimitVerifiedUSD   = "10000"

	// IdempotencyKeyTTL is how long idempotency keys are cached.
	IdempotencyKeyTTL = 24 * time.Hour

	// PairCacheTTL bounds how stale a cached pair read may be.
	PairCacheTTL = time.Minute

	// DefaultListLimit caps unbounded list queries.
	DefaultListLimit = 50
)

// DefaultDailyLimit is the per-day USD cap for accounts that never set
// one explicitly, keyed by the sender's KYC level.
func DefaultDailyLimit(level domain.KYCLevel) decimal.Decimal {
	if level == domain.KYCLevelVerified {
		limit, _ := decimal.NewFromString(DefaultDailyLimitVerifiedUSD)
		return limit
	}
	limit, _ := decimal.NewFromString(DefaultDailyLimitUnverifiedUSD)
	return limit
}
