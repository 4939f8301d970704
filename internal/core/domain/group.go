package domain

// NatureType classifies a ledger group under one of the fixed accounting natures.
// The nature decides which statement the group reports under and which side its
// balances normally sit on.
type NatureType string

const (
	NatureCapital            NatureType = "capital"
	NatureLoans              NatureType = "loans"
	NatureCurrentLiabilities NatureType = "current-liabilities"
	NatureFixedAssets        NatureType = "fixed-assets"
	NatureCurrentAssets      NatureType = "current-assets"
	NaturePurchase           NatureType = "purchase"
	NatureDirectExpenses     NatureType = "direct-expenses"
	NatureSales              NatureType = "sales"
	NatureIndirectExpenses   NatureType = "indirect-expenses"
	NatureIndirectIncome     NatureType = "indirect-income"
)

// StatementKind identifies the financial statement a nature reports under.
type StatementKind string

const (
	ProfitAndLossStatement StatementKind = "PROFIT_AND_LOSS"
	BalanceSheetStatement  StatementKind = "BALANCE_SHEET"
)

// BalanceType indicates which side of the books an amount is stated on.
type BalanceType string

const (
	Debit  BalanceType = "DEBIT"
	Credit BalanceType = "CREDIT"
)

// IsValid reports whether n is one of the known natures.
func (n NatureType) IsValid() bool {
	switch n {
	case NatureCapital, NatureLoans, NatureCurrentLiabilities,
		NatureFixedAssets, NatureCurrentAssets,
		NaturePurchase, NatureDirectExpenses,
		NatureSales, NatureIndirectExpenses, NatureIndirectIncome:
		return true
	}
	return false
}

// NormalSide returns the side a nature's balances are normally stated on.
// Asset-like and expense-like natures are debit-normal, everything else
// credit-normal.
func (n NatureType) NormalSide() BalanceType {
	switch n {
	case NatureFixedAssets, NatureCurrentAssets, NaturePurchase,
		NatureDirectExpenses, NatureIndirectExpenses:
		return Debit
	default:
		return Credit
	}
}

// Statement returns which financial statement the nature reports under.
func (n NatureType) Statement() StatementKind {
	switch n {
	case NaturePurchase, NatureDirectExpenses, NatureSales,
		NatureIndirectExpenses, NatureIndirectIncome:
		return ProfitAndLossStatement
	default:
		return BalanceSheetStatement
	}
}

// LedgerGroup is a node in the chart-of-accounts hierarchy (e.g. "Sundry
// Debtors" under "Current Assets"). Groups carry the accounting nature
// directly; ledgers inherit it from their owning group.
type LedgerGroup struct {
	GroupID       string     `json:"groupID"`       // Primary Key (e.g., UUID)
	Name          string     `json:"name"`          // Display name
	ParentGroupID string     `json:"parentGroupID"` // Optional FK -> ledger_groups.group_id; empty for a root group
	Nature        NatureType `json:"nature"`        // Immutable once vouchers reference ledgers under the group
	AuditFields
}
