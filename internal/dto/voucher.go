package dto

import (
	"time"

	"github.com/bahikhata/bahikhata_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// VoucherEntryRequest is one candidate voucher line. Exactly one of
// Debit/Credit must be positive; the validator rejects everything else.
type VoucherEntryRequest struct {
	LedgerID string          `json:"ledgerID" binding:"required"`
	Debit    decimal.Decimal `json:"debit"`
	Credit   decimal.Decimal `json:"credit"`
	Notes    string          `json:"notes"`
}

// CreateVoucherRequest defines a candidate voucher for Append or Supersede.
type CreateVoucherRequest struct {
	VoucherType domain.VoucherType    `json:"voucherType" binding:"required,vouchertype"`
	Date        time.Time             `json:"date" binding:"required"`
	Narration   string                `json:"narration"`
	Entries     []VoucherEntryRequest `json:"entries" binding:"required,min=2,dive"`
}

// ToDomainEntries converts request lines to domain voucher entries.
func (r CreateVoucherRequest) ToDomainEntries() []domain.VoucherEntry {
	entries := make([]domain.VoucherEntry, len(r.Entries))
	for i, e := range r.Entries {
		entries[i] = domain.VoucherEntry{
			LedgerID: e.LedgerID,
			Debit:    e.Debit,
			Credit:   e.Credit,
			Notes:    e.Notes,
		}
	}
	return entries
}

// VoucherEntryResponse defines the data returned for one voucher line.
type VoucherEntryResponse struct {
	LedgerID string          `json:"ledgerID"`
	Debit    decimal.Decimal `json:"debit"`
	Credit   decimal.Decimal `json:"credit"`
	Notes    string          `json:"notes,omitempty"`
}

// VoucherResponse defines the data returned for a voucher.
type VoucherResponse struct {
	VoucherID   string                 `json:"voucherID"`
	VoucherNo   int64                  `json:"voucherNo"`
	Revision    int                    `json:"revision"`
	VoucherType domain.VoucherType     `json:"voucherType"`
	Date        string                 `json:"date"`
	Narration   string                 `json:"narration"`
	Status      domain.VoucherStatus   `json:"status"`
	Entries     []VoucherEntryResponse `json:"entries"`
	CreatedAt   time.Time              `json:"createdAt"`
	CreatedBy   string                 `json:"createdBy"`
}

// ToVoucherResponse converts a domain.Voucher to VoucherResponse DTO.
func ToVoucherResponse(v *domain.Voucher) VoucherResponse {
	entries := make([]VoucherEntryResponse, len(v.Entries))
	for i, e := range v.Entries {
		entries[i] = VoucherEntryResponse{
			LedgerID: e.LedgerID,
			Debit:    e.Debit,
			Credit:   e.Credit,
			Notes:    e.Notes,
		}
	}
	return VoucherResponse{
		VoucherID:   v.VoucherID,
		VoucherNo:   v.VoucherNo,
		Revision:    v.Revision,
		VoucherType: v.VoucherType,
		Date:        v.Date.Format("2006-01-02"),
		Narration:   v.Narration,
		Status:      v.Status,
		Entries:     entries,
		CreatedAt:   v.CreatedAt,
		CreatedBy:   v.CreatedBy,
	}
}

// ListVouchersResponse wraps a page of vouchers with the token for the
// next page. NextToken is nil on the last page.
type ListVouchersResponse struct {
	Vouchers  []VoucherResponse `json:"vouchers"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToListVoucherResponse converts a slice of domain.Voucher to a paginated response DTO.
func ToListVoucherResponse(vouchers []domain.Voucher, nextToken *string) ListVouchersResponse {
	res := make([]VoucherResponse, len(vouchers))
	for i, v := range vouchers {
		res[i] = ToVoucherResponse(&v)
	}
	return ListVouchersResponse{Vouchers: res, NextToken: nextToken}
}

// ListVouchersParams defines query parameters for day-book style listings.
type ListVouchersParams struct {
	From        time.Time          `form:"from" time_format:"2006-01-02"`
	To          time.Time          `form:"to" time_format:"2006-01-02"`
	VoucherType domain.VoucherType `form:"voucherType"` // Optional filter; empty matches all
	Limit       int                `form:"limit"`       // 0 means no page limit
	NextToken   *string            `form:"nextToken"`
}
