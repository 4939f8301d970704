package pgsql

import (
	"context"
	"fmt"

	"github.com/bahikhata/bahikhata_backend/internal/apperrors"
	"github.com/bahikhata/bahikhata_backend/internal/core/domain"
	portsrepo "github.com/bahikhata/bahikhata_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxVoucherRepository persists vouchers and their entries.
type PgxVoucherRepository struct {
	BaseRepository
}

func newPgxVoucherRepository(pool *pgxpool.Pool) portsrepo.VoucherRepositoryWithTx {
	return &PgxVoucherRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxVoucherRepository implements portsrepo.VoucherRepositoryWithTx
var _ portsrepo.VoucherRepositoryWithTx = (*PgxVoucherRepository)(nil)

// SaveVoucher writes a voucher revision and its entries in one transaction.
// When the revision is above 1 the prior revision of the same voucher is
// flipped to SUPERSEDED in the same transaction, so readers never observe two
// posted revisions of one voucher.
func (r *PgxVoucherRepository) SaveVoucher(ctx context.Context, voucher domain.Voucher) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if voucher.Revision > 1 {
		supersedeQuery := `
			UPDATE vouchers
			SET status = $3, last_updated_at = $4, last_updated_by = $5
			WHERE voucher_id = $1 AND revision = $2 AND status = $6;
		`
		tag, err := tx.Exec(ctx, supersedeQuery,
			voucher.VoucherID,
			voucher.Revision-1,
			string(domain.Superseded),
			voucher.LastUpdatedAt,
			voucher.LastUpdatedBy,
			string(domain.Posted),
		)
		if err != nil {
			return apperrors.NewAppError(500, "failed to supersede prior revision of voucher "+voucher.VoucherID, err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.NewAppError(500, "no posted prior revision found for voucher "+voucher.VoucherID, nil)
		}
	}

	voucherQuery := `
		INSERT INTO vouchers (
			voucher_id, revision, voucher_no, voucher_type, date, narration, status,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err = tx.Exec(ctx, voucherQuery,
		voucher.VoucherID,
		voucher.Revision,
		voucher.VoucherNo,
		string(voucher.VoucherType),
		voucher.Date,
		voucher.Narration,
		string(voucher.Status),
		voucher.CreatedAt,
		voucher.CreatedBy,
		voucher.LastUpdatedAt,
		voucher.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert voucher "+voucher.VoucherID, err)
	}

	entryRows := make([][]any, 0, len(voucher.Entries))
	for i, entry := range voucher.Entries {
		entryRows = append(entryRows, []any{
			voucher.VoucherID,
			voucher.Revision,
			i,
			entry.LedgerID,
			entry.Debit,
			entry.Credit,
			entry.Notes,
		})
	}
	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"voucher_entries"},
		[]string{"voucher_id", "revision", "line_no", "ledger_id", "debit", "credit", "notes"},
		pgx.CopyFromRows(entryRows),
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert entries for voucher "+voucher.VoucherID, err)
	}

	return r.Commit(ctx, tx)
}

// LoadVouchers retrieves every voucher revision with its entries, ordered by
// voucher number then revision so replay sees edits in the order they happened.
func (r *PgxVoucherRepository) LoadVouchers(ctx context.Context) ([]domain.Voucher, error) {
	voucherQuery := `
		SELECT voucher_id, revision, voucher_no, voucher_type, date, narration, status,
			created_at, created_by, last_updated_at, last_updated_by
		FROM vouchers
		ORDER BY voucher_no, revision;
	`
	rows, err := r.Pool.Query(ctx, voucherQuery)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query vouchers", err)
	}
	defer rows.Close()

	var vouchers []domain.Voucher
	index := make(map[string]int)
	for rows.Next() {
		var v domain.Voucher
		var vType, status string
		if err := rows.Scan(
			&v.VoucherID, &v.Revision, &v.VoucherNo, &vType, &v.Date, &v.Narration, &status,
			&v.CreatedAt, &v.CreatedBy, &v.LastUpdatedAt, &v.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan voucher", err)
		}
		v.VoucherType = domain.VoucherType(vType)
		v.Status = domain.VoucherStatus(status)
		index[revisionKey(v.VoucherID, v.Revision)] = len(vouchers)
		vouchers = append(vouchers, v)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating vouchers", err)
	}

	entryQuery := `
		SELECT voucher_id, revision, ledger_id, debit, credit, notes
		FROM voucher_entries
		ORDER BY voucher_id, revision, line_no;
	`
	erows, err := r.Pool.Query(ctx, entryQuery)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query voucher entries", err)
	}
	defer erows.Close()

	for erows.Next() {
		var voucherID string
		var revision int
		var entry domain.VoucherEntry
		if err := erows.Scan(&voucherID, &revision, &entry.LedgerID, &entry.Debit, &entry.Credit, &entry.Notes); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan voucher entry", err)
		}
		i, ok := index[revisionKey(voucherID, revision)]
		if !ok {
			return nil, apperrors.NewAppError(500, "orphan entry for voucher "+voucherID, nil)
		}
		vouchers[i].Entries = append(vouchers[i].Entries, entry)
	}
	if err := erows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating voucher entries", err)
	}

	return vouchers, nil
}

func revisionKey(voucherID string, revision int) string {
	return fmt.Sprintf("%s#%d", voucherID, revision)
}
