package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrialBalanceRow represents a single ledger row in a trial balance report.
// Exactly one of Debit/Credit is non-zero for a non-nil balance; both are
// zero for a ledger that nets out.
type TrialBalanceRow struct {
	LedgerID   string          `json:"ledgerID"`
	LedgerName string          `json:"ledgerName"`
	GroupName  string          `json:"groupName"`
	Nature     NatureType      `json:"nature"`
	Debit      decimal.Decimal `json:"debit"`
	Credit     decimal.Decimal `json:"credit"`
}

// TrialBalance is the full trial balance as of a date. TotalDebit equals
// TotalCredit whenever the opening balances balance and only balanced
// vouchers were ever appended.
type TrialBalance struct {
	AsOf        time.Time         `json:"asOf"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
}

// StatementLine is a single posting in a ledger statement, carrying the
// running balance after the posting was applied.
type StatementLine struct {
	VoucherID   string          `json:"voucherID"`
	VoucherNo   int64           `json:"voucherNo"`
	VoucherType VoucherType     `json:"voucherType"`
	Date        time.Time       `json:"date"`
	Narration   string          `json:"narration"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"` // Signed, debit-positive
}

// LedgerStatement is the posting-by-posting narrative of one ledger over
// a date range.
type LedgerStatement struct {
	LedgerID       string          `json:"ledgerID"`
	LedgerName     string          `json:"ledgerName"`
	From           time.Time       `json:"from"`
	To             time.Time       `json:"to"`
	OpeningBalance decimal.Decimal `json:"openingBalance"` // Signed balance entering the range
	Lines          []StatementLine `json:"lines"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}

// GroupAmount represents a ledger with its net amount in a financial report.
type GroupAmount struct {
	LedgerID   string          `json:"ledgerID"`
	LedgerName string          `json:"ledgerName"`
	Nature     NatureType      `json:"nature"`
	NetAmount  decimal.Decimal `json:"netAmount"`
}

// PAndLReport represents a profit and loss statement for a period.
type PAndLReport struct {
	Income       []GroupAmount   `json:"income"`   // sales, indirect-income
	Expenses     []GroupAmount   `json:"expenses"` // purchase, direct/indirect expenses
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	NetProfit    decimal.Decimal `json:"netProfit"`
}

// BalanceSheetReport represents a balance sheet as of a date. Net profit
// for the period up to the date is carried into the liabilities side so
// the statement balances.
type BalanceSheetReport struct {
	Assets           []GroupAmount   `json:"assets"`
	Liabilities      []GroupAmount   `json:"liabilities"` // capital, loans, current liabilities
	NetProfit        decimal.Decimal `json:"netProfit"`
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
}
