package services

import (
	"context"
	"time"

	"github.com/bahikhata/bahikhata_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReportingSvc defines the balance engine surface consumed by the
// reporting/UI layer. All operations are deterministic reads over the
// registry and the voucher log; they never mutate state.
type ReportingSvc interface {
	// BalanceAsOf computes a ledger's signed balance (debit-positive) as of
	// a date: opening balance plus the fold of all effective postings up to
	// and including that date. Unknown ledgers are a hard error.
	BalanceAsOf(ctx context.Context, ledgerID string, asOf time.Time) (decimal.Decimal, error)

	// TrialBalance computes every ledger's balance as of a date, split into
	// debit and credit columns.
	TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalance, error)

	// LedgerStatement renders one ledger's posting narrative over a range
	// with running balances.
	LedgerStatement(ctx context.Context, ledgerID string, from, to time.Time) (*domain.LedgerStatement, error)

	// ProfitAndLoss nets the P&L-nature ledgers over a period.
	ProfitAndLoss(ctx context.Context, from, to time.Time) (*domain.PAndLReport, error)

	// BalanceSheet states the balance-sheet-nature ledgers as of a date,
	// carrying the period's net profit into the liabilities side.
	BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheetReport, error)
}
