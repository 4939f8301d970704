package services

import (
	"context"

	"github.com/bahikhata/bahikhata_backend/internal/core/domain"
	"github.com/bahikhata/bahikhata_backend/internal/dto"
)

// MasterReaderSvc defines read operations over the chart of accounts.
type MasterReaderSvc interface {
	// GetGroup retrieves a ledger group by its ID.
	GetGroup(ctx context.Context, groupID string) (*domain.LedgerGroup, error)

	// ListGroups retrieves all registered ledger groups.
	ListGroups(ctx context.Context) ([]domain.LedgerGroup, error)

	// GetLedger retrieves a ledger by its ID.
	GetLedger(ctx context.Context, ledgerID string) (*domain.Ledger, error)

	// ListLedgers retrieves all registered ledgers.
	ListLedgers(ctx context.Context) ([]domain.Ledger, error)

	// ResolveNature returns the accounting nature of a ledger via its group.
	ResolveNature(ctx context.Context, ledgerID string) (domain.NatureType, error)

	// Snapshot returns an immutable point-in-time view of the registry for
	// validation and balance computation.
	Snapshot() domain.RegistrySnapshot
}

// MasterWriterSvc defines registration operations for master data.
type MasterWriterSvc interface {
	// CreateGroup registers a new ledger group.
	CreateGroup(ctx context.Context, req dto.CreateGroupRequest, creatorUserID string) (*domain.LedgerGroup, error)

	// UpdateGroup renames a group or, while no postings reference it,
	// changes its nature.
	UpdateGroup(ctx context.Context, groupID string, req dto.UpdateGroupRequest, requestingUserID string) (*domain.LedgerGroup, error)

	// CreateLedger registers a new ledger under an existing group.
	CreateLedger(ctx context.Context, req dto.CreateLedgerRequest, creatorUserID string) (*domain.Ledger, error)
}

// MasterSvcFacade combines all master-registry service interfaces.
type MasterSvcFacade interface {
	MasterReaderSvc
	MasterWriterSvc
}
