package accounting

import (
	"fmt"

	"github.com/bahikhata/bahikhata_backend/internal/apperrors"
	"github.com/bahikhata/bahikhata_backend/internal/core/domain"
)

// Rejection kinds for a candidate voucher. All wrap apperrors.ErrValidation
// so handlers can classify them with a single errors.Is check; individual
// kinds stay distinguishable for precise user-facing messages.
var (
	ErrEmptyEntries   = fmt.Errorf("%w: voucher must have at least two entries", apperrors.ErrValidation)
	ErrUnknownLedger  = fmt.Errorf("%w: entry references an unknown ledger", apperrors.ErrValidation)
	ErrMixedEntry     = fmt.Errorf("%w: entry must carry exactly one of debit or credit", apperrors.ErrValidation)
	ErrNegativeAmount = fmt.Errorf("%w: entry amounts must be non-negative", apperrors.ErrValidation)
	ErrBadPrecision   = fmt.Errorf("%w: entry amount exceeds minor-unit precision", apperrors.ErrValidation)
	ErrUnbalanced     = fmt.Errorf("%w: voucher entries do not balance", apperrors.ErrValidation)
)

// ValidateVoucher checks a candidate voucher's entries for structural and
// accounting validity against a registry snapshot. It is a pure function:
// no I/O, no mutation, independently testable without a voucher store.
//
// Checks, in order: minimum entry count, ledger existence, one-sided
// entries, non-negative amounts, minor-unit precision, and finally the
// fundamental law sum(debits) == sum(credits), compared in integer paise.
func ValidateVoucher(entries []domain.VoucherEntry, registry domain.RegistrySnapshot) error {
	if len(entries) < 2 {
		return fmt.Errorf("%w: got %d", ErrEmptyEntries, len(entries))
	}

	var debitTotal, creditTotal int64
	for i, e := range entries {
		if _, ok := registry.Ledger(e.LedgerID); !ok {
			return fmt.Errorf("%w: entry %d, ledger %q", ErrUnknownLedger, i, e.LedgerID)
		}
		if e.Debit.IsNegative() || e.Credit.IsNegative() {
			return fmt.Errorf("%w: entry %d, ledger %q (debit %s, credit %s)",
				ErrNegativeAmount, i, e.LedgerID, e.Debit.String(), e.Credit.String())
		}
		debitSet := e.Debit.IsPositive()
		creditSet := e.Credit.IsPositive()
		if debitSet == creditSet {
			return fmt.Errorf("%w: entry %d, ledger %q (debit %s, credit %s)",
				ErrMixedEntry, i, e.LedgerID, e.Debit.String(), e.Credit.String())
		}

		debit, err := MinorUnits(e.Debit)
		if err != nil {
			return fmt.Errorf("%w: entry %d, ledger %q: %v", ErrBadPrecision, i, e.LedgerID, err)
		}
		credit, err := MinorUnits(e.Credit)
		if err != nil {
			return fmt.Errorf("%w: entry %d, ledger %q: %v", ErrBadPrecision, i, e.LedgerID, err)
		}
		debitTotal += debit
		creditTotal += credit
	}

	if debitTotal != creditTotal {
		diff := FromMinorUnits(debitTotal - creditTotal)
		return fmt.Errorf("%w: debit total %s, credit total %s, difference %s",
			ErrUnbalanced,
			FromMinorUnits(debitTotal).String(),
			FromMinorUnits(creditTotal).String(),
			diff.Abs().String())
	}

	return nil
}
