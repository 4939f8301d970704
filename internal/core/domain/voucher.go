package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// VoucherType is the closed set of voucher kinds the book accepts.
type VoucherType string

const (
	PaymentVoucher    VoucherType = "PAYMENT"
	ReceiptVoucher    VoucherType = "RECEIPT"
	ContraVoucher     VoucherType = "CONTRA"
	JournalVoucher    VoucherType = "JOURNAL"
	SalesVoucher      VoucherType = "SALES"
	PurchaseVoucher   VoucherType = "PURCHASE"
	CreditNoteVoucher VoucherType = "CREDIT_NOTE"
	DebitNoteVoucher  VoucherType = "DEBIT_NOTE"
)

// IsValid reports whether t is one of the known voucher types.
func (t VoucherType) IsValid() bool {
	switch t {
	case PaymentVoucher, ReceiptVoucher, ContraVoucher, JournalVoucher,
		SalesVoucher, PurchaseVoucher, CreditNoteVoucher, DebitNoteVoucher:
		return true
	}
	return false
}

// VoucherStatus indicates the state of a voucher revision.
type VoucherStatus string

const (
	Posted     VoucherStatus = "POSTED"
	Superseded VoucherStatus = "SUPERSEDED"
)

// VoucherEntry is a single line within a voucher, affecting one ledger.
// Exactly one of Debit/Credit is non-zero; entries are owned by their
// parent voucher and never shared.
type VoucherEntry struct {
	LedgerID string          `json:"ledgerID"` // FK -> ledgers.ledger_id (Not Null)
	Debit    decimal.Decimal `json:"debit"`    // Non-negative
	Credit   decimal.Decimal `json:"credit"`   // Non-negative
	Notes    string          `json:"notes"`    // Nullable
}

// SignedAmount returns the entry amount in the engine's debit-positive
// convention: debits add, credits subtract.
func (e VoucherEntry) SignedAmount() decimal.Decimal {
	return e.Debit.Sub(e.Credit)
}

// Voucher is a single, balanced accounting event. Vouchers are immutable
// once posted: an edit produces a new revision of the same voucher id and
// flips the previous revision to Superseded, preserving the audit trail.
type Voucher struct {
	VoucherID   string         `json:"voucherID"`   // Stable external id across revisions (e.g., UUID)
	VoucherNo   int64          `json:"voucherNo"`   // Monotonic insertion sequence, assigned by the store
	Revision    int            `json:"revision"`    // 1 for the first posting, incremented by supersede
	VoucherType VoucherType    `json:"voucherType"` // PAYMENT, RECEIPT, etc.
	Date        time.Time      `json:"date"`        // Date the event occurred
	Narration   string         `json:"narration"`   // Free-text description
	Entries     []VoucherEntry `json:"entries"`     // Ordered, length >= 2
	Status      VoucherStatus  `json:"status"`      // POSTED or SUPERSEDED
	AuditFields
}

// DebitTotal sums the debit side of all entries.
func (v Voucher) DebitTotal() decimal.Decimal {
	total := decimal.Zero
	for _, e := range v.Entries {
		total = total.Add(e.Debit)
	}
	return total
}

// CreditTotal sums the credit side of all entries.
func (v Voucher) CreditTotal() decimal.Decimal {
	total := decimal.Zero
	for _, e := range v.Entries {
		total = total.Add(e.Credit)
	}
	return total
}

// Touches reports whether any entry of the voucher references the ledger.
func (v Voucher) Touches(ledgerID string) bool {
	for _, e := range v.Entries {
		if e.LedgerID == ledgerID {
			return true
		}
	}
	return false
}

// LedgerPosting pairs a voucher with one of its entries for ledger-scoped
// listings (ledger report, running balances).
type LedgerPosting struct {
	Voucher Voucher      `json:"voucher"`
	Entry   VoucherEntry `json:"entry"`
}
