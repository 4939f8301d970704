package repositories

import (
	"context"

	"github.com/bahikhata/bahikhata_backend/internal/core/domain"
)

// MasterRepository is the persistence backend for chart-of-accounts masters.
// The registry itself is in-memory; the repository is only consulted at book
// open (LoadMasters) and as a write-through hook after successful
// registration.
type MasterRepository interface {
	// SaveGroup persists a newly registered ledger group.
	SaveGroup(ctx context.Context, group domain.LedgerGroup) error

	// UpdateGroup persists changes to an existing group.
	UpdateGroup(ctx context.Context, group domain.LedgerGroup) error

	// SaveLedger persists a newly registered ledger.
	SaveLedger(ctx context.Context, ledger domain.Ledger) error

	// LoadMasters retrieves all groups and ledgers for book startup.
	LoadMasters(ctx context.Context) ([]domain.LedgerGroup, []domain.Ledger, error)
}

// MasterRepositoryWithTx extends MasterRepository with transaction capabilities
type MasterRepositoryWithTx interface {
	MasterRepository
	TransactionManager
}
