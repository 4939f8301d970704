package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the book constructor cleaner.
type RepositoryProvider struct {
	MasterRepo  MasterRepository
	VoucherRepo VoucherRepository
}
