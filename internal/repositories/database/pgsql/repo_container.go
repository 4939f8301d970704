package pgsql

import (
	portsrepo "github.com/bahikhata/bahikhata_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	masterRepo := newPgxMasterRepository(dbPool)
	voucherRepo := newPgxVoucherRepository(dbPool)

	return portsrepo.RepositoryProvider{
		MasterRepo:  masterRepo,
		VoucherRepo: voucherRepo,
	}
}
