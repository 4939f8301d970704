package services

import (
	"context"
	"time"

	"github.com/bahikhata/bahikhata_backend/internal/core/domain"
	"github.com/bahikhata/bahikhata_backend/internal/dto"
)

// VoucherReaderSvc defines read operations over the posted voucher log.
type VoucherReaderSvc interface {
	// GetVoucher retrieves the latest revision of a voucher by its ID.
	GetVoucher(ctx context.Context, voucherID string) (*domain.Voucher, error)

	// ListAll retrieves effective vouchers in a date range in day-book
	// order: ascending (date, voucherNo), optionally filtered by type,
	// using token-based pagination. It returns the vouchers and a token
	// for the next page, nil when the listing is exhausted.
	ListAll(ctx context.Context, params dto.ListVouchersParams) ([]domain.Voucher, *string, error)

	// ListByLedger retrieves the postings touching one ledger in a date
	// range, in ascending (date, voucherNo) order.
	ListByLedger(ctx context.Context, ledgerID string, from, to time.Time) ([]domain.LedgerPosting, error)
}

// VoucherWriterSvc defines the serialized write path into the voucher log.
type VoucherWriterSvc interface {
	// Append validates a candidate voucher and, on success, assigns the next
	// voucher number and persists it. Rejections leave the store untouched.
	Append(ctx context.Context, req dto.CreateVoucherRequest, creatorUserID string) (*domain.Voucher, error)

	// Supersede posts a corrected revision of an existing voucher. The prior
	// revision stays on record with status SUPERSEDED.
	Supersede(ctx context.Context, voucherID string, req dto.CreateVoucherRequest, requestingUserID string) (*domain.Voucher, error)
}

// VoucherUsageSvc answers whether ledgers have been posted against. The
// master registry consults it to enforce nature immutability.
type VoucherUsageSvc interface {
	// HasPostings reports whether any effective voucher references any of
	// the given ledgers.
	HasPostings(ledgerIDs []string) bool
}

// VoucherSvcFacade combines all voucher-store service interfaces.
type VoucherSvcFacade interface {
	VoucherReaderSvc
	VoucherWriterSvc
	VoucherUsageSvc
}
