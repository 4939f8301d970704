package services

import (
	"context"
	"fmt"
	"log/slog"

	portsrepo "github.com/bahikhata/bahikhata_backend/internal/core/ports/repositories"
	portssvc "github.com/bahikhata/bahikhata_backend/internal/core/ports/services"
	"github.com/bahikhata/bahikhata_backend/internal/middleware"
)

// Book is one open company book: the ledger-book context object plus its
// lifecycle. All state flows through it; nothing in the engine is a
// package-level singleton.
type Book struct {
	portssvc.LedgerBook
}

// OpenBook loads masters and vouchers from the persistence backend, replays
// them through the same validation paths as live traffic, and returns a
// ready book. A zero-value RepositoryProvider opens a volatile in-memory
// book, which is how the tests run.
func OpenBook(ctx context.Context, repos portsrepo.RepositoryProvider) (*Book, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	registry := newMasterRegistry(repos.MasterRepo)
	store := newVoucherStore(registry, repos.VoucherRepo)

	if repos.MasterRepo != nil {
		groups, ledgers, err := repos.MasterRepo.LoadMasters(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load masters: %w", err)
		}
		if err := registry.restore(groups, ledgers); err != nil {
			return nil, fmt.Errorf("failed to restore masters: %w", err)
		}
		logger.Info("Masters restored",
			slog.Int("groups", len(groups)),
			slog.Int("ledgers", len(ledgers)))
	}

	if repos.VoucherRepo != nil {
		vouchers, err := repos.VoucherRepo.LoadVouchers(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load vouchers: %w", err)
		}
		if err := store.restore(vouchers); err != nil {
			return nil, fmt.Errorf("failed to restore vouchers: %w", err)
		}
		logger.Info("Vouchers restored", slog.Int("revisions", len(vouchers)))
	}

	// The postings probe closes the registry->store loop for nature
	// immutability; it is wired last so restore runs unprobed.
	registry.setUsageProbe(store)

	return &Book{
		LedgerBook: portssvc.LedgerBook{
			Masters:   registry,
			Vouchers:  store,
			Reporting: NewReportingService(registry, store),
		},
	}, nil
}

// Close releases the book. Both master and voucher writes go through the
// backend synchronously on each operation, so there is nothing buffered to
// flush; Close exists so callers hold the open/close lifecycle either way.
func (b *Book) Close(ctx context.Context) error {
	middleware.GetLoggerFromCtx(ctx).Info("Ledger book closed")
	return nil
}
