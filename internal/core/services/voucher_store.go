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
	"github.com/bahikhata/bahikhata_backend/internal/utils/accounting"
	"github.com/bahikhata/bahikhata_backend/internal/utils/pagination"
)

var (
	ErrBadVoucherType = fmt.Errorf("%w: unknown voucher type", apperrors.ErrValidation)
	ErrMissingDate    = fmt.Errorf("%w: voucher date is required", apperrors.ErrValidation)
)

// storeState is one immutable generation of the voucher log. Appends build
// a new generation and publish it atomically, so readers always observe a
// complete, consistent log and never a half-appended voucher.
type storeState struct {
	// ordered holds the effective (latest, posted) revision of every
	// voucher, ascending (date, voucherNo).
	ordered []domain.Voucher
	// latest maps voucher id to its effective revision.
	latest map[string]domain.Voucher
	// nextNo is the voucher number the next append will take.
	nextNo int64
}

// voucherStore is the append-only voucher log for one book. Appends are
// serialized behind a single mutex, which keeps voucher numbers monotonic
// and makes validate-then-commit atomic. Reads run lock-free off the
// published state.
type voucherStore struct {
	BaseService
	mu    sync.Mutex
	state atomic.Pointer[storeState]

	registry portssvc.MasterReaderSvc
	repo     portsrepo.VoucherRepository // nil for a volatile (unpersisted) book
}

// NewVoucherStore creates an empty voucher store validating against the
// given registry. The repository may be nil for a book that lives only in
// memory.
func NewVoucherStore(registry portssvc.MasterReaderSvc, repo portsrepo.VoucherRepository) portssvc.VoucherSvcFacade {
	return newVoucherStore(registry, repo)
}

func newVoucherStore(registry portssvc.MasterReaderSvc, repo portsrepo.VoucherRepository) *voucherStore {
	s := &voucherStore{registry: registry, repo: repo}
	s.state.Store(&storeState{latest: map[string]domain.Voucher{}, nextNo: 1})
	return s
}

var _ portssvc.VoucherSvcFacade = (*voucherStore)(nil)

// Append validates a candidate voucher and, on success, assigns the next
// voucher number, persists it and publishes the new log generation.
// Rejected vouchers have zero observable effect.
func (s *voucherStore) Append(ctx context.Context, req dto.CreateVoucherRequest, creatorUserID string) (*domain.Voucher, error) {
	if err := checkVoucherHeader(req); err != nil {
		return nil, err
	}

	entries := req.ToDomainEntries()
	if err := accounting.ValidateVoucher(entries, s.registry.Snapshot()); err != nil {
		s.LogDebug(ctx, "Candidate voucher rejected", slog.String("error", err.Error()))
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state.Load()
	now := time.Now()
	voucher := domain.Voucher{
		VoucherID:   uuid.NewString(),
		VoucherNo:   st.nextNo,
		Revision:    1,
		VoucherType: req.VoucherType,
		Date:        dayOf(req.Date),
		Narration:   req.Narration,
		Entries:     entries,
		Status:      domain.Posted,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	// Persist before publishing: if the backend rejects the write the
	// in-memory log is untouched and the append reports failure.
	if s.repo != nil {
		if err := s.repo.SaveVoucher(ctx, voucher); err != nil {
			s.LogError(ctx, err, "Failed to persist voucher", slog.String("voucher_id", voucher.VoucherID))
			return nil, err
		}
	}

	s.state.Store(st.withAppended(voucher))

	s.LogInfo(ctx, "Voucher posted",
		slog.String("voucher_id", voucher.VoucherID),
		slog.Int64("voucher_no", voucher.VoucherNo),
		slog.String("voucher_type", string(voucher.VoucherType)))
	return &voucher, nil
}

// Supersede posts a corrected revision of an existing voucher. The prior
// revision stays on record with status SUPERSEDED and drops out of every
// balance and listing; the new revision keeps the original voucher number.
func (s *voucherStore) Supersede(ctx context.Context, voucherID string, req dto.CreateVoucherRequest, requestingUserID string) (*domain.Voucher, error) {
	if err := checkVoucherHeader(req); err != nil {
		return nil, err
	}

	entries := req.ToDomainEntries()
	if err := accounting.ValidateVoucher(entries, s.registry.Snapshot()); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state.Load()
	prior, ok := st.latest[voucherID]
	if !ok {
		return nil, fmt.Errorf("%w: voucher %q", apperrors.ErrNotFound, voucherID)
	}

	now := time.Now()
	revision := domain.Voucher{
		VoucherID:   voucherID,
		VoucherNo:   prior.VoucherNo,
		Revision:    prior.Revision + 1,
		VoucherType: req.VoucherType,
		Date:        dayOf(req.Date),
		Narration:   req.Narration,
		Entries:     entries,
		Status:      domain.Posted,
		AuditFields: domain.AuditFields{
			CreatedAt:     prior.CreatedAt,
			CreatedBy:     prior.CreatedBy,
			LastUpdatedAt: now,
			LastUpdatedBy: requestingUserID,
		},
	}

	if s.repo != nil {
		if err := s.repo.SaveVoucher(ctx, revision); err != nil {
			s.LogError(ctx, err, "Failed to persist voucher revision", slog.String("voucher_id", voucherID))
			return nil, err
		}
	}

	s.state.Store(st.withSuperseded(prior, revision))

	s.LogInfo(ctx, "Voucher superseded",
		slog.String("voucher_id", voucherID),
		slog.Int("revision", revision.Revision))
	return &revision, nil
}

// GetVoucher retrieves the latest revision of a voucher by its ID.
func (s *voucherStore) GetVoucher(ctx context.Context, voucherID string) (*domain.Voucher, error) {
	v, ok := s.state.Load().latest[voucherID]
	if !ok {
		return nil, fmt.Errorf("%w: voucher %q", apperrors.ErrNotFound, voucherID)
	}
	return &v, nil
}

// ListAll retrieves effective vouchers in day-book order: ascending
// (date, voucherNo), optionally filtered by voucher type. When a page
// limit is set, the returned token resumes the walk after the last
// voucher of the page.
func (s *voucherStore) ListAll(ctx context.Context, params dto.ListVouchersParams) ([]domain.Voucher, *string, error) {
	var afterDate time.Time
	var afterNo int64
	if params.NextToken != nil && *params.NextToken != "" {
		var err error
		afterDate, afterNo, err = pagination.DecodeToken(*params.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
	}

	st := s.state.Load()
	result := make([]domain.Voucher, 0, len(st.ordered))
	var nextToken *string
	for _, v := range st.ordered {
		if !inRange(v.Date, params.From, params.To) {
			continue
		}
		if params.VoucherType != "" && v.VoucherType != params.VoucherType {
			continue
		}
		if params.NextToken != nil && !afterDayBookKey(v, afterDate, afterNo) {
			continue
		}
		if params.Limit > 0 && len(result) == params.Limit {
			token := pagination.EncodeToken(result[len(result)-1].Date, result[len(result)-1].VoucherNo)
			nextToken = &token
			break
		}
		result = append(result, v)
	}
	return result, nextToken, nil
}

// afterDayBookKey reports whether v sorts strictly after the (date,
// voucherNo) position a pagination token points at. Voucher dates are
// normalized to midnight UTC, matching the token's day resolution.
func afterDayBookKey(v domain.Voucher, date time.Time, voucherNo int64) bool {
	if v.Date.After(date) {
		return true
	}
	return v.Date.Equal(date) && v.VoucherNo > voucherNo
}

// dayOf normalizes a voucher date to midnight UTC. Vouchers are dated by
// calendar day; any time-of-day on the incoming value is dropped so the
// day-book sort key, range filters and pagination tokens all agree.
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ListByLedger retrieves the postings touching one ledger in a date range,
// ascending (date, voucherNo). A voucher hitting the ledger on several
// lines yields one posting per line, in entry order.
func (s *voucherStore) ListByLedger(ctx context.Context, ledgerID string, from, to time.Time) ([]domain.LedgerPosting, error) {
	if _, ok := s.registry.Snapshot().Ledger(ledgerID); !ok {
		return nil, fmt.Errorf("%w: ledger %q", apperrors.ErrNotFound, ledgerID)
	}

	st := s.state.Load()
	var postings []domain.LedgerPosting
	for _, v := range st.ordered {
		if !inRange(v.Date, from, to) {
			continue
		}
		for _, e := range v.Entries {
			if e.LedgerID == ledgerID {
				postings = append(postings, domain.LedgerPosting{Voucher: v, Entry: e})
			}
		}
	}
	return postings, nil
}

// HasPostings reports whether any effective voucher references any of the
// given ledgers. Used by the registry to enforce nature immutability.
func (s *voucherStore) HasPostings(ledgerIDs []string) bool {
	if len(ledgerIDs) == 0 {
		return false
	}
	wanted := make(map[string]bool, len(ledgerIDs))
	for _, id := range ledgerIDs {
		wanted[id] = true
	}

	for _, v := range s.state.Load().ordered {
		for _, e := range v.Entries {
			if wanted[e.LedgerID] {
				return true
			}
		}
	}
	return false
}

// restore replays persisted voucher revisions in voucher_no order into a
// fresh state without re-persisting. Each effective voucher is run through
// the validator so a corrupted backend cannot smuggle unbalanced history
// into the book.
func (s *voucherStore) restore(vouchers []domain.Voucher) error {
	latest := make(map[string]domain.Voucher, len(vouchers))
	var maxNo int64
	for _, v := range vouchers {
		v.Date = dayOf(v.Date)
		if v.VoucherNo > maxNo {
			maxNo = v.VoucherNo
		}
		if cur, ok := latest[v.VoucherID]; ok && cur.Revision >= v.Revision {
			continue
		}
		latest[v.VoucherID] = v
	}

	snap := s.registry.Snapshot()
	ordered := make([]domain.Voucher, 0, len(latest))
	for id, v := range latest {
		if v.Status != domain.Posted {
			// A voucher whose newest revision is superseded should not
			// exist; treat it as corrupt rather than guessing.
			return fmt.Errorf("voucher %q: newest revision %d is not posted", id, v.Revision)
		}
		if !v.VoucherType.IsValid() {
			return fmt.Errorf("voucher %q: %w", id, ErrBadVoucherType)
		}
		if err := accounting.ValidateVoucher(v.Entries, snap); err != nil {
			return fmt.Errorf("voucher %q: %w", id, err)
		}
		ordered = append(ordered, v)
	}
	sortVouchers(ordered)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Store(&storeState{ordered: ordered, latest: latest, nextNo: maxNo + 1})
	return nil
}

func checkVoucherHeader(req dto.CreateVoucherRequest) error {
	if !req.VoucherType.IsValid() {
		return fmt.Errorf("%w: %q", ErrBadVoucherType, req.VoucherType)
	}
	if req.Date.IsZero() {
		return ErrMissingDate
	}
	return nil
}

// withAppended builds the next state generation with the voucher inserted
// at its (date, voucherNo) position. The new voucher holds the highest
// number, so it lands after every existing voucher of the same date.
func (st *storeState) withAppended(v domain.Voucher) *storeState {
	idx := sort.Search(len(st.ordered), func(i int) bool {
		return st.ordered[i].Date.After(v.Date)
	})

	ordered := make([]domain.Voucher, 0, len(st.ordered)+1)
	ordered = append(ordered, st.ordered[:idx]...)
	ordered = append(ordered, v)
	ordered = append(ordered, st.ordered[idx:]...)

	latest := make(map[string]domain.Voucher, len(st.latest)+1)
	for k, val := range st.latest {
		latest[k] = val
	}
	latest[v.VoucherID] = v

	return &storeState{ordered: ordered, latest: latest, nextNo: st.nextNo + 1}
}

// withSuperseded builds the next state generation with the prior revision
// replaced by the new one, re-sorted in case the date changed.
func (st *storeState) withSuperseded(prior, revision domain.Voucher) *storeState {
	ordered := make([]domain.Voucher, 0, len(st.ordered))
	for _, v := range st.ordered {
		if v.VoucherID == prior.VoucherID {
			continue
		}
		ordered = append(ordered, v)
	}
	ordered = append(ordered, revision)
	sortVouchers(ordered)

	latest := make(map[string]domain.Voucher, len(st.latest))
	for k, val := range st.latest {
		latest[k] = val
	}
	latest[revision.VoucherID] = revision

	return &storeState{ordered: ordered, latest: latest, nextNo: st.nextNo}
}

func sortVouchers(vouchers []domain.Voucher) {
	sort.Slice(vouchers, func(i, j int) bool {
		if !vouchers[i].Date.Equal(vouchers[j].Date) {
			return vouchers[i].Date.Before(vouchers[j].Date)
		}
		return vouchers[i].VoucherNo < vouchers[j].VoucherNo
	})
}

// inRange checks date containment with inclusive bounds; zero bounds are
// open ends.
func inRange(date, from, to time.Time) bool {
	if !from.IsZero() && date.Before(from) {
		return false
	}
	if !to.IsZero() && date.After(to) {
		return false
	}
	return true
}
