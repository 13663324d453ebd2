package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/postgres/generated"
	"github.com/iho/gowallet/internal/usecase"
)

// LedgerRepository implements usecase.LedgerRepository. The table rejects
// updates and deletes, so entries can only be appended.
type LedgerRepository struct {
	queries *generated.Queries
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(db generated.DBTX) *LedgerRepository {
	return &LedgerRepository{
		queries: generated.New(db),
	}
}

// Append inserts an entry within tx.
func (r *LedgerRepository) Append(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	pgTx, err := pgxTxFrom(tx)
	if err != nil {
		return err
	}

	return r.queries.WithTx(pgTx.PgxTx()).CreateLedgerEntry(ctx, generated.CreateLedgerEntryParams{
		ID:         entry.ID,
		SenderID:   stringToPgText(entry.SenderID),
		ReceiverID: entry.ReceiverID,
		Amount:     moneyToNumeric(entry.Amount),
		Kind:       string(entry.Kind),
		CreatedAt:  timeToPgTimestamptz(entry.CreatedAt),
	})
}

// GetByID retrieves an entry by ID.
func (r *LedgerRepository) GetByID(ctx context.Context, id string) (*domain.LedgerEntry, error) {
	row, err := r.queries.GetLedgerEntryByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}

		return nil, err
	}

	return rowToLedgerEntry(row), nil
}

// ListByAccount returns entries where the account is sender or receiver, most recent first.
func (r *LedgerRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.LedgerEntry, error) {
	rows, err := r.queries.ListLedgerEntriesByAccount(ctx, generated.ListLedgerEntriesByAccountParams{
		SenderID: pgtype.Text{String: accountID, Valid: true},
		Limit:    int32(limit),
		Offset:   int32(offset),
	})
	if err != nil {
		return nil, err
	}

	entries := make([]*domain.LedgerEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, rowToLedgerEntry(row))
	}

	return entries, nil
}

// CountByAccount counts entries involving the account.
func (r *LedgerRepository) CountByAccount(ctx context.Context, accountID string) (int64, error) {
	return r.queries.CountLedgerEntriesByAccount(ctx, pgtype.Text{String: accountID, Valid: true})
}

// SumDeposits returns the total deposited into the system.
func (r *LedgerRepository) SumDeposits(ctx context.Context) (decimal.Decimal, error) {
	total, err := r.queries.SumDeposits(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(total), nil
}

// NetForAccount returns credits minus debits for one account.
func (r *LedgerRepository) NetForAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	net, err := r.queries.NetForAccount(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(net), nil
}

func rowToLedgerEntry(row generated.LedgerEntry) *domain.LedgerEntry {
	return &domain.LedgerEntry{
		ID:         row.ID,
		SenderID:   pgTextToString(row.SenderID),
		ReceiverID: row.ReceiverID,
		Amount:     numericToMoney(row.Amount),
		Kind:       domain.EntryKind(row.Kind),
		CreatedAt:  row.CreatedAt.Time,
	}
}
