package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/bahikhata/bahikhata_backend/internal/apperrors"
	"github.com/bahikhata/bahikhata_backend/internal/core/domain"
	portsrepo "github.com/bahikhata/bahikhata_backend/internal/core/ports/repositories"
	portssvc "github.com/bahikhata/bahikhata_backend/internal/core/ports/services"
	"github.com/bahikhata/bahikhata_backend/internal/dto"
)

var (
	ErrUnknownParentGroup = fmt.Errorf("%w: parent group not found", apperrors.ErrValidation)
	ErrUnknownGroup       = fmt.Errorf("%w: group not found", apperrors.ErrValidation)
	ErrBadNature          = fmt.Errorf("%w: unknown nature type", apperrors.ErrValidation)
)

// masterRegistry is the in-memory chart of accounts for one book. Writers
// take the mutex, clone the current snapshot, mutate the clone and publish
// it atomically; readers work off the published snapshot and never block.
type masterRegistry struct {
	BaseService
	mu   sync.Mutex
	snap atomic.Pointer[domain.RegistrySnapshot]

	repo  portsrepo.MasterRepository // nil for a volatile (unpersisted) book
	usage portssvc.VoucherUsageSvc   // wired after store construction
}

// NewMasterRegistry creates an empty master registry. The repository may be
// nil for a book that lives only in memory.
func NewMasterRegistry(repo portsrepo.MasterRepository) portssvc.MasterSvcFacade {
	return newMasterRegistry(repo)
}

func newMasterRegistry(repo portsrepo.MasterRepository) *masterRegistry {
	r := &masterRegistry{repo: repo}
	snap := domain.NewRegistrySnapshot(map[string]domain.LedgerGroup{}, map[string]domain.Ledger{})
	r.snap.Store(&snap)
	return r
}

var _ portssvc.MasterSvcFacade = (*masterRegistry)(nil)

// setUsageProbe wires the voucher store's postings probe. Called once at
// book open; the probe enforces nature immutability.
func (r *masterRegistry) setUsageProbe(usage portssvc.VoucherUsageSvc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.usage = usage
}

// Snapshot returns the current immutable registry view.
func (r *masterRegistry) Snapshot() domain.RegistrySnapshot {
	return *r.snap.Load()
}

// CreateGroup registers a new ledger group.
func (r *masterRegistry) CreateGroup(ctx context.Context, req dto.CreateGroupRequest, creatorUserID string) (*domain.LedgerGroup, error) {
	now := time.Now()
	group := domain.LedgerGroup{
		GroupID:       uuid.NewString(),
		Name:          req.Name,
		ParentGroupID: req.ParentGroupID,
		Nature:        req.Nature,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := r.registerGroup(group); err != nil {
		return nil, err
	}

	if r.repo != nil {
		if err := r.repo.SaveGroup(ctx, group); err != nil {
			r.rollbackGroup(group.GroupID)
			r.LogError(ctx, err, "Failed to persist ledger group", slog.String("group_id", group.GroupID))
			return nil, err
		}
	}

	r.LogInfo(ctx, "Ledger group registered", slog.String("group_id", group.GroupID), slog.String("nature", string(group.Nature)))
	return &group, nil
}

// registerGroup validates and inserts a group into a fresh snapshot.
func (r *masterRegistry) registerGroup(group domain.LedgerGroup) error {
	if !group.Nature.IsValid() {
		return fmt.Errorf("%w: %q", ErrBadNature, group.Nature)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	snap := r.snap.Load()
	if _, exists := snap.Group(group.GroupID); exists {
		return fmt.Errorf("%w: group %q", apperrors.ErrDuplicate, group.GroupID)
	}
	// Names are unique book-wide, mirroring the schema constraint.
	for _, g := range snap.Groups() {
		if g.Name == group.Name {
			return fmt.Errorf("%w: group name %q", apperrors.ErrDuplicate, group.Name)
		}
	}
	if group.ParentGroupID != "" {
		if _, ok := snap.Group(group.ParentGroupID); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownParentGroup, group.ParentGroupID)
		}
		if hasCycle(*snap, group) {
			return fmt.Errorf("%w: group %q", apperrors.ErrCyclicParent, group.GroupID)
		}
	}

	groups, ledgers := cloneMaps(*snap)
	groups[group.GroupID] = group
	next := domain.NewRegistrySnapshot(groups, ledgers)
	r.snap.Store(&next)
	return nil
}

// rollbackGroup removes a group whose persistence failed, restoring the
// zero-observable-effect contract for rejected registrations.
func (r *masterRegistry) rollbackGroup(groupID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	groups, ledgers := cloneMaps(*r.snap.Load())
	delete(groups, groupID)
	next := domain.NewRegistrySnapshot(groups, ledgers)
	r.snap.Store(&next)
}

// hasCycle walks the candidate's parent chain and reports whether it loops
// back to the candidate or fails to terminate.
func hasCycle(snap domain.RegistrySnapshot, candidate domain.LedgerGroup) bool {
	seen := map[string]bool{candidate.GroupID: true}
	cur := candidate.ParentGroupID
	for cur != "" {
		if seen[cur] {
			return true
		}
		seen[cur] = true
		parent, ok := snap.Group(cur)
		if !ok {
			return false
		}
		cur = parent.ParentGroupID
	}
	return false
}

// UpdateGroup renames a group and, while no postings reference ledgers
// under it, may change its nature. Nature changes after postings would
// silently reclassify every historical report, so they are rejected.
func (r *masterRegistry) UpdateGroup(ctx context.Context, groupID string, req dto.UpdateGroupRequest, requestingUserID string) (*domain.LedgerGroup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := r.snap.Load()
	group, ok := snap.Group(groupID)
	if !ok {
		return nil, fmt.Errorf("%w: group %q", apperrors.ErrNotFound, groupID)
	}

	if req.Name != nil && *req.Name != group.Name {
		for id, g := range snap.Groups() {
			if id != groupID && g.Name == *req.Name {
				return nil, fmt.Errorf("%w: group name %q", apperrors.ErrDuplicate, *req.Name)
			}
		}
		group.Name = *req.Name
	}
	if req.Nature != nil && *req.Nature != group.Nature {
		if !req.Nature.IsValid() {
			return nil, fmt.Errorf("%w: %q", ErrBadNature, *req.Nature)
		}
		if r.usage != nil && r.usage.HasPostings(r.ledgerIDsUnderLocked(*snap, groupID)) {
			return nil, fmt.Errorf("%w: group %q", apperrors.ErrImmutableNature, groupID)
		}
		group.Nature = *req.Nature
	}
	group.LastUpdatedAt = time.Now()
	group.LastUpdatedBy = requestingUserID

	if r.repo != nil {
		if err := r.repo.UpdateGroup(ctx, group); err != nil {
			r.LogError(ctx, err, "Failed to persist group update", slog.String("group_id", groupID))
			return nil, err
		}
	}

	groups, ledgers := cloneMaps(*snap)
	groups[groupID] = group
	next := domain.NewRegistrySnapshot(groups, ledgers)
	r.snap.Store(&next)

	r.LogInfo(ctx, "Ledger group updated", slog.String("group_id", groupID))
	return &group, nil
}

// ledgerIDsUnderLocked collects the ledgers owned by a group or any of its
// descendant groups. Caller holds the write lock.
func (r *masterRegistry) ledgerIDsUnderLocked(snap domain.RegistrySnapshot, groupID string) []string {
	inScope := map[string]bool{groupID: true}
	// Group chains are acyclic and shallow; a few passes settle descendants.
	for changed := true; changed; {
		changed = false
		for id, g := range snap.Groups() {
			if !inScope[id] && inScope[g.ParentGroupID] {
				inScope[id] = true
				changed = true
			}
		}
	}

	var ids []string
	for id, l := range snap.Ledgers() {
		if inScope[l.GroupID] {
			ids = append(ids, id)
		}
	}
	return ids
}

// CreateLedger registers a new ledger under an existing group.
func (r *masterRegistry) CreateLedger(ctx context.Context, req dto.CreateLedgerRequest, creatorUserID string) (*domain.Ledger, error) {
	balanceType := req.OpeningBalanceType
	if balanceType == "" {
		balanceType = domain.Debit
	}

	now := time.Now()
	ledger := domain.Ledger{
		LedgerID:           uuid.NewString(),
		Name:               req.Name,
		GroupID:            req.GroupID,
		OpeningBalance:     req.OpeningBalance,
		OpeningBalanceType: balanceType,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := r.registerLedger(ledger); err != nil {
		return nil, err
	}

	if r.repo != nil {
		if err := r.repo.SaveLedger(ctx, ledger); err != nil {
			r.rollbackLedger(ledger.LedgerID)
			r.LogError(ctx, err, "Failed to persist ledger", slog.String("ledger_id", ledger.LedgerID))
			return nil, err
		}
	}

	r.LogInfo(ctx, "Ledger registered", slog.String("ledger_id", ledger.LedgerID), slog.String("group_id", ledger.GroupID))
	return &ledger, nil
}

// registerLedger validates and inserts a ledger into a fresh snapshot.
func (r *masterRegistry) registerLedger(ledger domain.Ledger) error {
	if ledger.OpeningBalance.IsNegative() {
		return fmt.Errorf("%w: opening balance must be a non-negative magnitude", apperrors.ErrValidation)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	snap := r.snap.Load()
	if _, exists := snap.Ledger(ledger.LedgerID); exists {
		return fmt.Errorf("%w: ledger %q", apperrors.ErrDuplicate, ledger.LedgerID)
	}
	// Names are unique book-wide, mirroring the schema constraint.
	for _, l := range snap.Ledgers() {
		if l.Name == ledger.Name {
			return fmt.Errorf("%w: ledger name %q", apperrors.ErrDuplicate, ledger.Name)
		}
	}
	group, ok := snap.Group(ledger.GroupID)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownGroup, ledger.GroupID)
	}
	// Opening balances are brought-forward balance sheet positions; income
	// and expense ledgers start every period at zero, and an opening there
	// would unbalance the balance sheet without touching the trial balance.
	if !ledger.OpeningBalance.IsZero() && group.Nature.Statement() == domain.ProfitAndLossStatement {
		return fmt.Errorf("%w: %s ledgers cannot carry an opening balance", apperrors.ErrValidation, group.Nature)
	}

	groups, ledgers := cloneMaps(*snap)
	ledgers[ledger.LedgerID] = ledger
	next := domain.NewRegistrySnapshot(groups, ledgers)
	r.snap.Store(&next)
	return nil
}

func (r *masterRegistry) rollbackLedger(ledgerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	groups, ledgers := cloneMaps(*r.snap.Load())
	delete(ledgers, ledgerID)
	next := domain.NewRegistrySnapshot(groups, ledgers)
	r.snap.Store(&next)
}

// GetGroup retrieves a ledger group by its ID.
func (r *masterRegistry) GetGroup(ctx context.Context, groupID string) (*domain.LedgerGroup, error) {
	group, ok := r.Snapshot().Group(groupID)
	if !ok {
		return nil, fmt.Errorf("%w: group %q", apperrors.ErrNotFound, groupID)
	}
	return &group, nil
}

// ListGroups retrieves all registered ledger groups.
func (r *masterRegistry) ListGroups(ctx context.Context) ([]domain.LedgerGroup, error) {
	snap := r.Snapshot()
	groups := make([]domain.LedgerGroup, 0, len(snap.Groups()))
	for _, g := range snap.Groups() {
		groups = append(groups, g)
	}
	sortGroups(groups)
	return groups, nil
}

// GetLedger retrieves a ledger by its ID.
func (r *masterRegistry) GetLedger(ctx context.Context, ledgerID string) (*domain.Ledger, error) {
	ledger, ok := r.Snapshot().Ledger(ledgerID)
	if !ok {
		return nil, fmt.Errorf("%w: ledger %q", apperrors.ErrNotFound, ledgerID)
	}
	return &ledger, nil
}

// ListLedgers retrieves all registered ledgers.
func (r *masterRegistry) ListLedgers(ctx context.Context) ([]domain.Ledger, error) {
	snap := r.Snapshot()
	ledgers := make([]domain.Ledger, 0, len(snap.Ledgers()))
	for _, l := range snap.Ledgers() {
		ledgers = append(ledgers, l)
	}
	sortLedgers(ledgers)
	return ledgers, nil
}

// ResolveNature returns the accounting nature of a ledger via its group.
func (r *masterRegistry) ResolveNature(ctx context.Context, ledgerID string) (domain.NatureType, error) {
	nature, ok := r.Snapshot().NatureOf(ledgerID)
	if !ok {
		return "", fmt.Errorf("%w: ledger %q", apperrors.ErrNotFound, ledgerID)
	}
	return nature, nil
}

// restore replays persisted masters through the same registration path as
// live traffic, so corrupt persisted data (duplicate ids, cyclic parents,
// dangling group refs) is rejected at the boundary rather than trusted.
// Groups must arrive parent-before-child; LoadMasters guarantees it.
func (r *masterRegistry) restore(groups []domain.LedgerGroup, ledgers []domain.Ledger) error {
	for _, g := range groups {
		if err := r.registerGroup(g); err != nil {
			return fmt.Errorf("restoring group %q: %w", g.GroupID, err)
		}
	}
	for _, l := range ledgers {
		if err := r.registerLedger(l); err != nil {
			return fmt.Errorf("restoring ledger %q: %w", l.LedgerID, err)
		}
	}
	return nil
}

func cloneMaps(snap domain.RegistrySnapshot) (map[string]domain.LedgerGroup, map[string]domain.Ledger) {
	groups := make(map[string]domain.LedgerGroup, len(snap.Groups())+1)
	for k, v := range snap.Groups() {
		groups[k] = v
	}
	ledgers := make(map[string]domain.Ledger, len(snap.Ledgers())+1)
	for k, v := range snap.Ledgers() {
		ledgers[k] = v
	}
	return groups, ledgers
}

// Listings sort by name for stable output; name ties fall back to id.

func sortGroups(groups []domain.LedgerGroup) {
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Name != groups[j].Name {
			return groups[i].Name < groups[j].Name
		}
		return groups[i].GroupID < groups[j].GroupID
	})
}

func sortLedgers(ledgers []domain.Ledger) {
	sort.Slice(ledgers, func(i, j int) bool {
		if ledgers[i].Name != ledgers[j].Name {
			return ledgers[i].Name < ledgers[j].Name
		}
		return ledgers[i].LedgerID < ledgers[j].LedgerID
	})
}
