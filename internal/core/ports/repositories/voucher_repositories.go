package repositories

import (
	"context"

	"github.com/bahikhata/bahikhata_backend/internal/core/domain"
)

// VoucherRepository is the persistence backend for the append-only voucher
// log. SaveVoucher is the write-through hook invoked by the store after a
// candidate passes validation; it must be atomic so that a rejected or
// cancelled append has zero observable effect.
type VoucherRepository interface {
	// SaveVoucher persists one voucher revision and its entries in a single
	// transaction. For revisions beyond the first it also flips the prior
	// revision's status to superseded.
	SaveVoucher(ctx context.Context, voucher domain.Voucher) error

	// LoadVouchers retrieves every persisted voucher revision in ascending
	// voucher_no order for book startup replay.
	LoadVouchers(ctx context.Context) ([]domain.Voucher, error)
}

// VoucherRepositoryWithTx extends VoucherRepository with transaction capabilities
type VoucherRepositoryWithTx interface {
	VoucherRepository
	TransactionManager
}
