package dto

import (
	"time"

	"github.com/bahikhata/bahikhata_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TrialBalanceRowResponse represents a row in the trial balance report response.
type TrialBalanceRowResponse struct {
	LedgerID   string          `json:"ledgerID"`
	LedgerName string          `json:"ledgerName"`
	GroupName  string          `json:"groupName"`
	Nature     string          `json:"nature"`
	Debit      decimal.Decimal `json:"debit"`
	Credit     decimal.Decimal `json:"credit"`
}

// TrialBalanceResponse represents the trial balance report response.
type TrialBalanceResponse struct {
	AsOf   string                    `json:"asOf"`
	Rows   []TrialBalanceRowResponse `json:"rows"`
	Totals struct {
		Debit  decimal.Decimal `json:"debit"`
		Credit decimal.Decimal `json:"credit"`
	} `json:"totals"`
}

// ToTrialBalanceResponse converts a domain trial balance to a DTO response.
func ToTrialBalanceResponse(tb *domain.TrialBalance) TrialBalanceResponse {
	response := TrialBalanceResponse{
		AsOf: tb.AsOf.Format("2006-01-02"),
		Rows: make([]TrialBalanceRowResponse, len(tb.Rows)),
	}
	for i, row := range tb.Rows {
		response.Rows[i] = TrialBalanceRowResponse{
			LedgerID:   row.LedgerID,
			LedgerName: row.LedgerName,
			GroupName:  row.GroupName,
			Nature:     string(row.Nature),
			Debit:      row.Debit,
			Credit:     row.Credit,
		}
	}
	response.Totals.Debit = tb.TotalDebit
	response.Totals.Credit = tb.TotalCredit
	return response
}

// StatementLineResponse represents one posting line in a ledger statement.
type StatementLineResponse struct {
	VoucherID   string          `json:"voucherID"`
	VoucherNo   int64           `json:"voucherNo"`
	VoucherType string          `json:"voucherType"`
	Date        string          `json:"date"`
	Narration   string          `json:"narration"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
}

// LedgerStatementResponse represents the ledger statement report response.
type LedgerStatementResponse struct {
	LedgerID       string                  `json:"ledgerID"`
	LedgerName     string                  `json:"ledgerName"`
	From           string                  `json:"from"`
	To             string                  `json:"to"`
	OpeningBalance decimal.Decimal         `json:"openingBalance"`
	Lines          []StatementLineResponse `json:"lines"`
	ClosingBalance decimal.Decimal         `json:"closingBalance"`
}

// ToLedgerStatementResponse converts a domain ledger statement to a DTO response.
func ToLedgerStatementResponse(st *domain.LedgerStatement) LedgerStatementResponse {
	lines := make([]StatementLineResponse, len(st.Lines))
	for i, line := range st.Lines {
		lines[i] = StatementLineResponse{
			VoucherID:   line.VoucherID,
			VoucherNo:   line.VoucherNo,
			VoucherType: string(line.VoucherType),
			Date:        line.Date.Format("2006-01-02"),
			Narration:   line.Narration,
			Debit:       line.Debit,
			Credit:      line.Credit,
			Balance:     line.Balance,
		}
	}
	return LedgerStatementResponse{
		LedgerID:       st.LedgerID,
		LedgerName:     st.LedgerName,
		From:           st.From.Format("2006-01-02"),
		To:             st.To.Format("2006-01-02"),
		OpeningBalance: st.OpeningBalance,
		Lines:          lines,
		ClosingBalance: st.ClosingBalance,
	}
}

// GroupAmountResponse represents a ledger with its amount in a financial report.
type GroupAmountResponse struct {
	LedgerID   string          `json:"ledgerID"`
	LedgerName string          `json:"ledgerName"`
	Nature     string          `json:"nature"`
	Amount     decimal.Decimal `json:"amount"`
}

// ProfitAndLossResponse represents the profit and loss report response.
type ProfitAndLossResponse struct {
	FromDate string                `json:"fromDate"`
	ToDate   string                `json:"toDate"`
	Income   []GroupAmountResponse `json:"income"`
	Expenses []GroupAmountResponse `json:"expenses"`
	Summary  struct {
		TotalIncome  decimal.Decimal `json:"totalIncome"`
		TotalExpense decimal.Decimal `json:"totalExpense"`
		NetProfit    decimal.Decimal `json:"netProfit"`
	} `json:"summary"`
}

// ToProfitAndLossResponse converts a domain P&L report to a DTO response.
func ToProfitAndLossResponse(report *domain.PAndLReport, from, to time.Time) ProfitAndLossResponse {
	response := ProfitAndLossResponse{
		FromDate: from.Format("2006-01-02"),
		ToDate:   to.Format("2006-01-02"),
		Income:   toGroupAmountResponses(report.Income),
		Expenses: toGroupAmountResponses(report.Expenses),
	}
	response.Summary.TotalIncome = report.TotalIncome
	response.Summary.TotalExpense = report.TotalExpense
	response.Summary.NetProfit = report.NetProfit
	return response
}

// BalanceSheetResponse represents the balance sheet report response.
type BalanceSheetResponse struct {
	AsOf        string                `json:"asOf"`
	Assets      []GroupAmountResponse `json:"assets"`
	Liabilities []GroupAmountResponse `json:"liabilities"`
	Summary     struct {
		NetProfit        decimal.Decimal `json:"netProfit"`
		TotalAssets      decimal.Decimal `json:"totalAssets"`
		TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	} `json:"summary"`
}

// ToBalanceSheetResponse converts a domain balance sheet report to a DTO response.
func ToBalanceSheetResponse(report *domain.BalanceSheetReport, asOf time.Time) BalanceSheetResponse {
	response := BalanceSheetResponse{
		AsOf:        asOf.Format("2006-01-02"),
		Assets:      toGroupAmountResponses(report.Assets),
		Liabilities: toGroupAmountResponses(report.Liabilities),
	}
	response.Summary.NetProfit = report.NetProfit
	response.Summary.TotalAssets = report.TotalAssets
	response.Summary.TotalLiabilities = report.TotalLiabilities
	return response
}

func toGroupAmountResponses(amounts []domain.GroupAmount) []GroupAmountResponse {
	res := make([]GroupAmountResponse, len(amounts))
	for i, a := range amounts {
		res[i] = GroupAmountResponse{
			LedgerID:   a.LedgerID,
			LedgerName: a.LedgerName,
			Nature:     string(a.Nature),
			Amount:     a.NetAmount,
		}
	}
	return res
}
