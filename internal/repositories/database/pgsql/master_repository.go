package pgsql

import (
	"context"
	"fmt"

	"github.com/bahikhata/bahikhata_backend/internal/apperrors"
	"github.com/bahikhata/bahikhata_backend/internal/core/domain"
	portsrepo "github.com/bahikhata/bahikhata_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxMasterRepository persists chart-of-accounts masters.
type PgxMasterRepository struct {
	BaseRepository
}

func newPgxMasterRepository(pool *pgxpool.Pool) portsrepo.MasterRepositoryWithTx {
	return &PgxMasterRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxMasterRepository implements portsrepo.MasterRepositoryWithTx
var _ portsrepo.MasterRepositoryWithTx = (*PgxMasterRepository)(nil)

// SaveGroup persists a newly registered ledger group.
func (r *PgxMasterRepository) SaveGroup(ctx context.Context, group domain.LedgerGroup) error {
	query := `
		INSERT INTO ledger_groups (
			group_id, name, parent_group_id, nature,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		group.GroupID,
		group.Name,
		group.ParentGroupID,
		string(group.Nature),
		group.CreatedAt,
		group.CreatedBy,
		group.LastUpdatedAt,
		group.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert ledger group "+group.GroupID, err)
	}
	return nil
}

// UpdateGroup persists changes to an existing group.
func (r *PgxMasterRepository) UpdateGroup(ctx context.Context, group domain.LedgerGroup) error {
	query := `
		UPDATE ledger_groups
		SET name = $2, nature = $3, last_updated_at = $4, last_updated_by = $5
		WHERE group_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		group.GroupID,
		group.Name,
		string(group.Nature),
		group.LastUpdatedAt,
		group.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update ledger group "+group.GroupID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: group %q", apperrors.ErrNotFound, group.GroupID)
	}
	return nil
}

// SaveLedger persists a newly registered ledger.
func (r *PgxMasterRepository) SaveLedger(ctx context.Context, ledger domain.Ledger) error {
	query := `
		INSERT INTO ledgers (
			ledger_id, name, group_id, opening_balance, opening_balance_type,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		ledger.LedgerID,
		ledger.Name,
		ledger.GroupID,
		ledger.OpeningBalance,
		string(ledger.OpeningBalanceType),
		ledger.CreatedAt,
		ledger.CreatedBy,
		ledger.LastUpdatedAt,
		ledger.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert ledger "+ledger.LedgerID, err)
	}
	return nil
}

// LoadMasters retrieves all groups and ledgers for book startup. Groups are
// ordered so parents always precede children, which is what the registry's
// replay path expects.
func (r *PgxMasterRepository) LoadMasters(ctx context.Context) ([]domain.LedgerGroup, []domain.Ledger, error) {
	groupQuery := `
		WITH RECURSIVE group_tree AS (
			SELECT g.*, 0 AS depth
			FROM ledger_groups g
			WHERE g.parent_group_id IS NULL
			UNION ALL
			SELECT g.*, t.depth + 1
			FROM ledger_groups g
			JOIN group_tree t ON g.parent_group_id = t.group_id
		)
		SELECT group_id, name, COALESCE(parent_group_id, ''), nature,
			created_at, created_by, last_updated_at, last_updated_by
		FROM group_tree
		ORDER BY depth, group_id;
	`
	rows, err := r.Pool.Query(ctx, groupQuery)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query ledger groups", err)
	}
	defer rows.Close()

	var groups []domain.LedgerGroup
	for rows.Next() {
		var g domain.LedgerGroup
		var nature string
		if err := rows.Scan(
			&g.GroupID, &g.Name, &g.ParentGroupID, &nature,
			&g.CreatedAt, &g.CreatedBy, &g.LastUpdatedAt, &g.LastUpdatedBy,
		); err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan ledger group", err)
		}
		g.Nature = domain.NatureType(nature)
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating ledger groups", err)
	}

	ledgerQuery := `
		SELECT ledger_id, name, group_id, opening_balance, opening_balance_type,
			created_at, created_by, last_updated_at, last_updated_by
		FROM ledgers
		ORDER BY ledger_id;
	`
	lrows, err := r.Pool.Query(ctx, ledgerQuery)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query ledgers", err)
	}
	defer lrows.Close()

	var ledgers []domain.Ledger
	for lrows.Next() {
		var l domain.Ledger
		var balanceType string
		if err := lrows.Scan(
			&l.LedgerID, &l.Name, &l.GroupID, &l.OpeningBalance, &balanceType,
			&l.CreatedAt, &l.CreatedBy, &l.LastUpdatedAt, &l.LastUpdatedBy,
		); err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan ledger", err)
		}
		l.OpeningBalanceType = domain.BalanceType(balanceType)
		ledgers = append(ledgers, l)
	}
	if err := lrows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating ledgers", err)
	}

	return groups, ledgers, nil
}
