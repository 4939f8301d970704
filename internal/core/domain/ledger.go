package domain

import (
	"github.com/shopspring/decimal"
)

// Ledger is a single account in the books (e.g. "Cash", "HDFC Bank",
// "Sundry Debtors - Acme"). Every ledger belongs to exactly one group.
type Ledger struct {
	LedgerID           string          `json:"ledgerID"`           // Primary Key (e.g., UUID)
	Name               string          `json:"name"`               // User-defined name
	GroupID            string          `json:"groupID"`            // FK -> ledger_groups.group_id (Not Null)
	OpeningBalance     decimal.Decimal `json:"openingBalance"`     // Magnitude at start of the financial period; never mutated by postings
	OpeningBalanceType BalanceType     `json:"openingBalanceType"` // Which side the opening balance is stated on
	AuditFields
}

// OpeningSigned returns the opening balance as a signed amount in the
// engine's debit-positive convention: a debit opening enters positive,
// a credit opening negative.
func (l Ledger) OpeningSigned() decimal.Decimal {
	if l.OpeningBalanceType == Credit {
		return l.OpeningBalance.Neg()
	}
	return l.OpeningBalance
}
