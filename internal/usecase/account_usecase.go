package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/easymove/remit/internal/domain"
)

// AccountUseCase handles sender account management.
type AccountUseCase struct {
	accountRepo AccountRepository
	txManager   TransactionManager
	idGen       IDGenerator
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(accountRepo AccountRepository, txManager TransactionManager, idGen IDGenerator) *AccountUseCase {
	return &AccountUseCase{
		accountRepo: accountRepo,
		txManager:   txManager,
		idGen:       idGen,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	Email         string
	Name          string
	Currency      string
	DailyLimitUSD decimal.Decimal
}

// CreateAccount creates a new sender account with a zero balance and no
// KYC level.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	input.Currency = strings.ToUpper(input.Currency)

	if err := domain.ValidateEmail(input.Email); err != nil {
		return nil, err
	}
	if err := domain.ValidateCurrencyCode(input.Currency); err != nil {
		return nil, err
	}
	if input.Name == "" {
		return nil, &domain.ValidationError{Field: "name", Reason: "name is required"}
	}

	limit := input.DailyLimitUSD
	if limit.IsZero() {
		limit = DefaultDailyLimit(domain.KYCLevelNone)
	}

	now := time.Now().UTC()
	account := &domain.Account{
		ID:            uc.idGen.Generate(),
		Email:         input.Email,
		Name:          input.Name,
		Balance:       decimal.Zero,
		Currency:      input.Currency,
		Status:        domain.AccountStatusActive,
		KYCLevel:      domain.KYCLevelNone,
		DailyLimitUSD: limit,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// Deposit credits an account, the funding path before a transfer.
func (uc *AccountUseCase) Deposit(ctx context.Context, id string, amount decimal.Decimal) (*domain.Account, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := account.CanTransact(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	newBalance := account.ApplyCredit(amount)
	if err := uc.accountRepo.UpdateBalance(ctx, tx, id, newBalance, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	account.Balance = newBalance
	account.UpdatedAt = now
	return account, nil
}

// ListAccounts lists accounts with pagination.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return uc.accountRepo.List(ctx, limit, offset)
}
