package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "active"
	AccountStatusSuspended AccountStatus = "suspended"
	AccountStatusLocked    AccountStatus = "locked"
)

type KYCLevel string

const (
	KYCLevelNone     KYCLevel = "none"
	KYCLevelBasic    KYCLevel = "basic"
	KYCLevelVerified KYCLevel = "verified"
)

// Account is a sender's account. The ledger owns its balance mutations:
// debits happen atomically with transaction creation, credits only as
// compensation for failed, cancelled or refunded transactions.
type Account struct {
	ID            string
	Email         string
	Name          string
	Balance       decimal.Decimal
	Currency      string
	Status        AccountStatus
	KYCLevel      KYCLevel
	DailyLimitUSD decimal.Decimal
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CanTransact checks account-level preconditions for creating a transfer.
// The balance check is deferred to the ledger, which knows the full debit
// including fees.
func (a *Account) CanTransact() error {
	switch a.Status {
	case AccountStatusLocked:
		return ErrAccountLocked
	case AccountStatusActive:
		return nil
	default:
		return ErrAccountInactive
	}
}

// ValidateDebit checks that the balance covers amount. The balance must
// never go negative.
func (a *Account) ValidateDebit(amount decimal.Decimal) error {
	if a.Balance.LessThan(amount) {
		return &InsufficientBalanceError{Required: amount, Available: a.Balance}
	}
	return nil
}

// ApplyDebit returns the balance after a debit.
func (a *Account) ApplyDebit(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Sub(amount)
}

// ApplyCredit returns the balance after a credit.
func (a *Account) ApplyCredit(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Add(amount)
}
