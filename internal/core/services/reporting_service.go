package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bahikhata/bahikhata_backend/internal/core/domain"
	portssvc "github.com/bahikhata/bahikhata_backend/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// reportingService is the balance engine: every figure it produces is a
// deterministic fold over opening balances and the effective voucher log.
//
// Sign convention, used everywhere inside the engine: balances are signed
// decimals where debits are positive and credits negative. A debit-stated
// opening balance enters positive, a credit-stated one negative. Reports
// split the signed value back into Dr/Cr columns at the edge.
type reportingService struct {
	BaseService
	masters  portssvc.MasterReaderSvc
	vouchers portssvc.VoucherReaderSvc
}

// NewReportingService creates a balance engine over the given registry and
// voucher store.
func NewReportingService(masters portssvc.MasterReaderSvc, vouchers portssvc.VoucherReaderSvc) portssvc.ReportingSvc {
	return &reportingService{masters: masters, vouchers: vouchers}
}

var _ portssvc.ReportingSvc = (*reportingService)(nil)

// BalanceAsOf computes a ledger's signed balance as of a date.
func (s *reportingService) BalanceAsOf(ctx context.Context, ledgerID string, asOf time.Time) (decimal.Decimal, error) {
	ledger, err := s.masters.GetLedger(ctx, ledgerID)
	if err != nil {
		// Unknown ledger is a hard error: reporting must never silently
		// render zero for a ledger that does not exist.
		return decimal.Zero, err
	}

	postings, err := s.vouchers.ListByLedger(ctx, ledgerID, time.Time{}, asOf)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to list postings for ledger %s: %w", ledgerID, err)
	}

	balance := ledger.OpeningSigned()
	for _, p := range postings {
		balance = balance.Add(p.Entry.SignedAmount())
	}
	return balance, nil
}

// TrialBalance computes every ledger's balance as of a date, split into
// debit and credit columns. Ledgers that net to zero appear with both
// columns zero, keeping the report a complete census of the book.
func (s *reportingService) TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalance, error) {
	ledgers, err := s.masters.ListLedgers(ctx)
	if err != nil {
		return nil, err
	}
	snap := s.masters.Snapshot()

	tb := &domain.TrialBalance{
		AsOf:        asOf,
		Rows:        make([]domain.TrialBalanceRow, 0, len(ledgers)),
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}

	for _, ledger := range ledgers {
		balance, err := s.BalanceAsOf(ctx, ledger.LedgerID, asOf)
		if err != nil {
			return nil, err
		}

		row := domain.TrialBalanceRow{
			LedgerID:   ledger.LedgerID,
			LedgerName: ledger.Name,
			Debit:      decimal.Zero,
			Credit:     decimal.Zero,
		}
		if group, ok := snap.Group(ledger.GroupID); ok {
			row.GroupName = group.Name
			row.Nature = group.Nature
		}
		switch {
		case balance.IsPositive():
			row.Debit = balance
		case balance.IsNegative():
			row.Credit = balance.Neg()
		}

		tb.Rows = append(tb.Rows, row)
		tb.TotalDebit = tb.TotalDebit.Add(row.Debit)
		tb.TotalCredit = tb.TotalCredit.Add(row.Credit)
	}

	s.LogDebug(ctx, "Trial balance computed",
		slog.String("as_of", asOf.Format(time.RFC3339)),
		slog.Int("row_count", len(tb.Rows)))
	return tb, nil
}

// LedgerStatement renders one ledger's posting narrative over a range with
// running balances. Postings before the range fold into the opening figure.
func (s *reportingService) LedgerStatement(ctx context.Context, ledgerID string, from, to time.Time) (*domain.LedgerStatement, error) {
	ledger, err := s.masters.GetLedger(ctx, ledgerID)
	if err != nil {
		return nil, err
	}

	postings, err := s.vouchers.ListByLedger(ctx, ledgerID, time.Time{}, to)
	if err != nil {
		return nil, err
	}

	st := &domain.LedgerStatement{
		LedgerID:   ledger.LedgerID,
		LedgerName: ledger.Name,
		From:       from,
		To:         to,
	}

	running := ledger.OpeningSigned()
	for _, p := range postings {
		running = running.Add(p.Entry.SignedAmount())
		if !from.IsZero() && p.Voucher.Date.Before(from) {
			continue
		}
		st.Lines = append(st.Lines, domain.StatementLine{
			VoucherID:   p.Voucher.VoucherID,
			VoucherNo:   p.Voucher.VoucherNo,
			VoucherType: p.Voucher.VoucherType,
			Date:        p.Voucher.Date,
			Narration:   p.Voucher.Narration,
			Debit:       p.Entry.Debit,
			Credit:      p.Entry.Credit,
			Balance:     running,
		})
	}

	if len(st.Lines) > 0 {
		first := st.Lines[0]
		st.OpeningBalance = first.Balance.Sub(first.Debit.Sub(first.Credit))
	} else {
		st.OpeningBalance = running
	}
	st.ClosingBalance = running
	return st, nil
}

// ProfitAndLoss nets the P&L-nature ledgers over a period. Income natures
// are credit-normal, so their amounts are presented credit-positive;
// expense natures debit-positive.
func (s *reportingService) ProfitAndLoss(ctx context.Context, from, to time.Time) (*domain.PAndLReport, error) {
	ledgers, err := s.masters.ListLedgers(ctx)
	if err != nil {
		return nil, err
	}
	snap := s.masters.Snapshot()

	report := &domain.PAndLReport{
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}

	for _, ledger := range ledgers {
		nature, ok := snap.NatureOf(ledger.LedgerID)
		if !ok || nature.Statement() != domain.ProfitAndLossStatement {
			continue
		}

		net, err := s.netMovement(ctx, ledger.LedgerID, from, to)
		if err != nil {
			return nil, err
		}
		if net.IsZero() {
			continue
		}

		amount := domain.GroupAmount{
			LedgerID:   ledger.LedgerID,
			LedgerName: ledger.Name,
			Nature:     nature,
		}
		if nature.NormalSide() == domain.Credit {
			amount.NetAmount = net.Neg()
			report.Income = append(report.Income, amount)
			report.TotalIncome = report.TotalIncome.Add(amount.NetAmount)
		} else {
			amount.NetAmount = net
			report.Expenses = append(report.Expenses, amount)
			report.TotalExpense = report.TotalExpense.Add(amount.NetAmount)
		}
	}

	report.NetProfit = report.TotalIncome.Sub(report.TotalExpense)

	s.LogDebug(ctx, "Profit and loss computed",
		slog.String("from", from.Format(time.RFC3339)),
		slog.String("to", to.Format(time.RFC3339)),
		slog.Int("income_ledgers", len(report.Income)),
		slog.Int("expense_ledgers", len(report.Expenses)))
	return report, nil
}

// BalanceSheet states the balance-sheet-nature ledgers as of a date. The
// period's net profit is carried into the liabilities side, which is what
// makes both sides equal for a balanced book.
func (s *reportingService) BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheetReport, error) {
	ledgers, err := s.masters.ListLedgers(ctx)
	if err != nil {
		return nil, err
	}
	snap := s.masters.Snapshot()

	report := &domain.BalanceSheetReport{
		TotalAssets:      decimal.Zero,
		TotalLiabilities: decimal.Zero,
	}

	for _, ledger := range ledgers {
		nature, ok := snap.NatureOf(ledger.LedgerID)
		if !ok || nature.Statement() != domain.BalanceSheetStatement {
			continue
		}

		balance, err := s.BalanceAsOf(ctx, ledger.LedgerID, asOf)
		if err != nil {
			return nil, err
		}
		if balance.IsZero() {
			continue
		}

		amount := domain.GroupAmount{
			LedgerID:   ledger.LedgerID,
			LedgerName: ledger.Name,
			Nature:     nature,
		}
		if nature.NormalSide() == domain.Debit {
			amount.NetAmount = balance
			report.Assets = append(report.Assets, amount)
			report.TotalAssets = report.TotalAssets.Add(amount.NetAmount)
		} else {
			amount.NetAmount = balance.Neg()
			report.Liabilities = append(report.Liabilities, amount)
			report.TotalLiabilities = report.TotalLiabilities.Add(amount.NetAmount)
		}
	}

	pnl, err := s.ProfitAndLoss(ctx, time.Time{}, asOf)
	if err != nil {
		return nil, err
	}
	report.NetProfit = pnl.NetProfit
	report.TotalLiabilities = report.TotalLiabilities.Add(report.NetProfit)

	return report, nil
}

// netMovement folds a ledger's postings within a range, excluding the
// opening balance. Used by the P&L, which reports period activity.
func (s *reportingService) netMovement(ctx context.Context, ledgerID string, from, to time.Time) (decimal.Decimal, error) {
	postings, err := s.vouchers.ListByLedger(ctx, ledgerID, from, to)
	if err != nil {
		return decimal.Zero, err
	}
	net := decimal.Zero
	for _, p := range postings {
		net = net.Add(p.Entry.SignedAmount())
	}
	return net, nil
}
