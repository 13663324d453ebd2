package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrInconsistentLedger is returned when account balances do not add up to the money deposited.
	ErrInconsistentLedger = errors.New("ledger is inconsistent: balances do not equal deposits")
)

// LedgerUseCase handles ledger-wide operations.
type LedgerUseCase struct {
	accountRepo AccountRepository
	ledgerRepo  LedgerRepository
	now         func() time.Time
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(accountRepo AccountRepository, ledgerRepo LedgerRepository) *LedgerUseCase {
	return &LedgerUseCase{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// ConsistencyReport compares the money held by accounts with the money that entered the system.
type ConsistencyReport struct {
	TotalBalances decimal.Decimal
	TotalDeposits decimal.Decimal
	Difference    decimal.Decimal
	Consistent    bool
	CheckedAt     time.Time
}

// CheckConsistency verifies that transfers neither created nor destroyed money.
// Deposits are the only source of funds, so the balances must sum to them.
// The report is returned together with ErrInconsistentLedger on mismatch.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (*ConsistencyReport, error) {
	totalBalances, err := uc.accountRepo.SumBalances(ctx)
	if err != nil {
		return nil, err
	}

	totalDeposits, err := uc.ledgerRepo.SumDeposits(ctx)
	if err != nil {
		return nil, err
	}

	report := &ConsistencyReport{
		TotalBalances: totalBalances,
		TotalDeposits: totalDeposits,
		Difference:    totalBalances.Sub(totalDeposits),
		Consistent:    totalBalances.Equal(totalDeposits),
		CheckedAt:     uc.now(),
	}

	if !report.Consistent {
		return report, ErrInconsistentLedger
	}

	return report, nil
}
