package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bahikhata/bahikhata_backend/internal/apperrors"
	"github.com/bahikhata/bahikhata_backend/internal/core/domain"
	portssvc "github.com/bahikhata/bahikhata_backend/internal/core/ports/services"
	"github.com/bahikhata/bahikhata_backend/internal/core/services"
	"github.com/bahikhata/bahikhata_backend/internal/dto"
	"github.com/bahikhata/bahikhata_backend/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock VoucherRepository ---
type MockVoucherRepository struct {
	mock.Mock
}

func (m *MockVoucherRepository) SaveVoucher(ctx context.Context, voucher domain.Voucher) error {
	args := m.Called(ctx, voucher)
	return args.Error(0)
}

func (m *MockVoucherRepository) LoadVouchers(ctx context.Context) ([]domain.Voucher, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Voucher), args.Error(1)
}

// --- Test Suite Setup ---
type VoucherStoreTestSuite struct {
	suite.Suite
	registry portssvc.MasterSvcFacade
	store    portssvc.VoucherSvcFacade
	cash     string
	bank     string
	sales    string
	capital  string
	userID   string
	day      time.Time
}

func (suite *VoucherStoreTestSuite) SetupTest() {
	suite.registry = services.NewMasterRegistry(nil)
	suite.store = services.NewVoucherStore(suite.registry, nil)
	suite.userID = "tester"
	suite.day = time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	ctx := context.Background()
	assets, err := suite.registry.CreateGroup(ctx, dto.CreateGroupRequest{Name: "Current Assets", Nature: domain.NatureCurrentAssets}, suite.userID)
	suite.Require().NoError(err)
	salesGrp, err := suite.registry.CreateGroup(ctx, dto.CreateGroupRequest{Name: "Sales Accounts", Nature: domain.NatureSales}, suite.userID)
	suite.Require().NoError(err)
	capitalGrp, err := suite.registry.CreateGroup(ctx, dto.CreateGroupRequest{Name: "Capital Account", Nature: domain.NatureCapital}, suite.userID)
	suite.Require().NoError(err)

	suite.cash = suite.mustCreateLedger("Cash", assets.GroupID)
	suite.bank = suite.mustCreateLedger("Bank", assets.GroupID)
	suite.sales = suite.mustCreateLedger("Sales", salesGrp.GroupID)
	suite.capital = suite.mustCreateLedger("Owner Capital", capitalGrp.GroupID)
}

func (suite *VoucherStoreTestSuite) mustCreateLedger(name, groupID string) string {
	ledger, err := suite.registry.CreateLedger(context.Background(), dto.CreateLedgerRequest{
		Name:    name,
		GroupID: groupID,
	}, suite.userID)
	suite.Require().NoError(err)
	return ledger.LedgerID
}

func (suite *VoucherStoreTestSuite) receipt(date time.Time, debitLedger, creditLedger string, amount int64) dto.CreateVoucherRequest {
	return dto.CreateVoucherRequest{
		VoucherType: domain.ReceiptVoucher,
		Date:        date,
		Entries: []dto.VoucherEntryRequest{
			{LedgerID: debitLedger, Debit: decimal.NewFromInt(amount)},
			{LedgerID: creditLedger, Credit: decimal.NewFromInt(amount)},
		},
	}
}

func (suite *VoucherStoreTestSuite) TestAppend_Success() {
	voucher, err := suite.store.Append(context.Background(), suite.receipt(suite.day, suite.cash, suite.sales, 10000), suite.userID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), voucher.VoucherNo)
	assert.Equal(suite.T(), 1, voucher.Revision)
	assert.Equal(suite.T(), domain.Posted, voucher.Status)
	assert.Equal(suite.T(), suite.userID, voucher.CreatedBy)

	fetched, err := suite.store.GetVoucher(context.Background(), voucher.VoucherID)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), decimal.NewFromInt(10000).Equal(fetched.DebitTotal()))
}

func (suite *VoucherStoreTestSuite) TestAppend_MonotonicVoucherNumbers() {
	for i := int64(1); i <= 5; i++ {
		voucher, err := suite.store.Append(context.Background(), suite.receipt(suite.day, suite.cash, suite.sales, 100*i), suite.userID)
		assert.NoError(suite.T(), err)
		assert.Equal(suite.T(), i, voucher.VoucherNo)
	}
}

func (suite *VoucherStoreTestSuite) TestAppend_UnbalancedRejectedStoreUntouched() {
	req := dto.CreateVoucherRequest{
		VoucherType: domain.JournalVoucher,
		Date:        suite.day,
		Entries: []dto.VoucherEntryRequest{
			{LedgerID: suite.cash, Debit: decimal.NewFromInt(5000)},
			{LedgerID: suite.sales, Credit: decimal.NewFromInt(4000)},
		},
	}

	_, err := suite.store.Append(context.Background(), req, suite.userID)
	assert.Error(suite.T(), err)
	assert.ErrorIs(suite.T(), err, accounting.ErrUnbalanced)

	// The rejection must have zero observable effect: the log stays empty
	// and the next accepted voucher still takes number 1.
	vouchers, _, err := suite.store.ListAll(context.Background(), dto.ListVouchersParams{})
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), vouchers)

	voucher, err := suite.store.Append(context.Background(), suite.receipt(suite.day, suite.cash, suite.sales, 4000), suite.userID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), voucher.VoucherNo)
}

func (suite *VoucherStoreTestSuite) TestAppend_UnknownLedgerRejected() {
	req := dto.CreateVoucherRequest{
		VoucherType: domain.PaymentVoucher,
		Date:        suite.day,
		Entries: []dto.VoucherEntryRequest{
			{LedgerID: suite.cash, Debit: decimal.NewFromInt(100)},
			{LedgerID: "no-such-ledger", Credit: decimal.NewFromInt(100)},
		},
	}

	_, err := suite.store.Append(context.Background(), req, suite.userID)
	assert.Error(suite.T(), err)
	assert.ErrorIs(suite.T(), err, accounting.ErrUnknownLedger)
}

func (suite *VoucherStoreTestSuite) TestAppend_BadHeaderRejected() {
	req := suite.receipt(suite.day, suite.cash, suite.sales, 100)
	req.VoucherType = domain.VoucherType("MEMO")
	_, err := suite.store.Append(context.Background(), req, suite.userID)
	assert.ErrorIs(suite.T(), err, services.ErrBadVoucherType)

	req = suite.receipt(time.Time{}, suite.cash, suite.sales, 100)
	_, err = suite.store.Append(context.Background(), req, suite.userID)
	assert.ErrorIs(suite.T(), err, services.ErrMissingDate)
}

func (suite *VoucherStoreTestSuite) TestListAll_SameDateKeepsInsertionOrder() {
	ctx := context.Background()
	v1, err := suite.store.Append(ctx, suite.receipt(suite.day, suite.cash, suite.sales, 100), suite.userID)
	suite.Require().NoError(err)
	v2, err := suite.store.Append(ctx, suite.receipt(suite.day, suite.bank, suite.sales, 200), suite.userID)
	suite.Require().NoError(err)
	v3, err := suite.store.Append(ctx, suite.receipt(suite.day, suite.cash, suite.sales, 300), suite.userID)
	suite.Require().NoError(err)

	vouchers, _, err := suite.store.ListAll(ctx, dto.ListVouchersParams{})
	assert.NoError(suite.T(), err)
	suite.Require().Len(vouchers, 3)
	assert.Equal(suite.T(), v1.VoucherID, vouchers[0].VoucherID)
	assert.Equal(suite.T(), v2.VoucherID, vouchers[1].VoucherID)
	assert.Equal(suite.T(), v3.VoucherID, vouchers[2].VoucherID)
}

func (suite *VoucherStoreTestSuite) TestListAll_DayBookOrderAcrossDates() {
	ctx := context.Background()
	later, err := suite.store.Append(ctx, suite.receipt(suite.day.AddDate(0, 0, 5), suite.cash, suite.sales, 100), suite.userID)
	suite.Require().NoError(err)
	earlier, err := suite.store.Append(ctx, suite.receipt(suite.day, suite.cash, suite.sales, 200), suite.userID)
	suite.Require().NoError(err)

	vouchers, _, err := suite.store.ListAll(ctx, dto.ListVouchersParams{})
	assert.NoError(suite.T(), err)
	suite.Require().Len(vouchers, 2)
	// The back-dated voucher sorts first even though it was posted second.
	assert.Equal(suite.T(), earlier.VoucherID, vouchers[0].VoucherID)
	assert.Equal(suite.T(), later.VoucherID, vouchers[1].VoucherID)
}

func (suite *VoucherStoreTestSuite) TestListAll_RangeAndTypeFilter() {
	ctx := context.Background()
	_, err := suite.store.Append(ctx, suite.receipt(suite.day, suite.cash, suite.sales, 100), suite.userID)
	suite.Require().NoError(err)

	payment := dto.CreateVoucherRequest{
		VoucherType: domain.PaymentVoucher,
		Date:        suite.day.AddDate(0, 0, 10),
		Entries: []dto.VoucherEntryRequest{
			{LedgerID: suite.sales, Debit: decimal.NewFromInt(50)},
			{LedgerID: suite.cash, Credit: decimal.NewFromInt(50)},
		},
	}
	_, err = suite.store.Append(ctx, payment, suite.userID)
	suite.Require().NoError(err)

	byType, _, err := suite.store.ListAll(ctx, dto.ListVouchersParams{VoucherType: domain.PaymentVoucher})
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), byType, 1)

	// Inclusive bounds: a voucher exactly on the boundary date is included.
	byRange, _, err := suite.store.ListAll(ctx, dto.ListVouchersParams{From: suite.day, To: suite.day})
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), byRange, 1)
	assert.Equal(suite.T(), domain.ReceiptVoucher, byRange[0].VoucherType)
}

func (suite *VoucherStoreTestSuite) TestListAll_TokenPagination() {
	ctx := context.Background()
	var posted []string
	for i := int64(1); i <= 5; i++ {
		v, err := suite.store.Append(ctx, suite.receipt(suite.day.AddDate(0, 0, int(i)), suite.cash, suite.sales, 100*i), suite.userID)
		suite.Require().NoError(err)
		posted = append(posted, v.VoucherID)
	}

	page1, token, err := suite.store.ListAll(ctx, dto.ListVouchersParams{Limit: 2})
	assert.NoError(suite.T(), err)
	suite.Require().Len(page1, 2)
	suite.Require().NotNil(token)
	assert.Equal(suite.T(), posted[0], page1[0].VoucherID)
	assert.Equal(suite.T(), posted[1], page1[1].VoucherID)

	page2, token, err := suite.store.ListAll(ctx, dto.ListVouchersParams{Limit: 2, NextToken: token})
	assert.NoError(suite.T(), err)
	suite.Require().Len(page2, 2)
	suite.Require().NotNil(token)
	assert.Equal(suite.T(), posted[2], page2[0].VoucherID)
	assert.Equal(suite.T(), posted[3], page2[1].VoucherID)

	// Last page is short and carries no token.
	page3, token, err := suite.store.ListAll(ctx, dto.ListVouchersParams{Limit: 2, NextToken: token})
	assert.NoError(suite.T(), err)
	suite.Require().Len(page3, 1)
	assert.Nil(suite.T(), token)
	assert.Equal(suite.T(), posted[4], page3[0].VoucherID)

	bad := "not-a-token"
	_, _, err = suite.store.ListAll(ctx, dto.ListVouchersParams{Limit: 2, NextToken: &bad})
	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
}

func (suite *VoucherStoreTestSuite) TestListAll_PaginationStableWithTimeOfDayInput() {
	ctx := context.Background()

	// Same calendar day, but the first posting carries a later time of day.
	// The store must date vouchers by day only, so a page walk keyed on
	// (date, voucherNo) sees both in voucher-number order.
	afternoon := suite.day.Add(15 * time.Hour)
	morning := suite.day.Add(10 * time.Hour)

	first, err := suite.store.Append(ctx, suite.receipt(afternoon, suite.cash, suite.sales, 100), suite.userID)
	suite.Require().NoError(err)
	second, err := suite.store.Append(ctx, suite.receipt(morning, suite.bank, suite.sales, 200), suite.userID)
	suite.Require().NoError(err)

	assert.True(suite.T(), first.Date.Equal(suite.day), "time of day should be dropped")
	assert.True(suite.T(), second.Date.Equal(suite.day), "time of day should be dropped")

	var seen []int64
	params := dto.ListVouchersParams{Limit: 1}
	for {
		page, token, err := suite.store.ListAll(ctx, params)
		suite.Require().NoError(err)
		for _, v := range page {
			seen = append(seen, v.VoucherNo)
		}
		if token == nil {
			break
		}
		params.NextToken = token
	}
	assert.Equal(suite.T(), []int64{1, 2}, seen, "page walk must cover every voucher exactly once")
}

func (suite *VoucherStoreTestSuite) TestListByLedger() {
	ctx := context.Background()
	_, err := suite.store.Append(ctx, suite.receipt(suite.day, suite.cash, suite.sales, 100), suite.userID)
	suite.Require().NoError(err)
	_, err = suite.store.Append(ctx, suite.receipt(suite.day, suite.bank, suite.sales, 200), suite.userID)
	suite.Require().NoError(err)

	postings, err := suite.store.ListByLedger(ctx, suite.cash, time.Time{}, time.Time{})
	assert.NoError(suite.T(), err)
	suite.Require().Len(postings, 1)
	assert.True(suite.T(), decimal.NewFromInt(100).Equal(postings[0].Entry.Debit))

	salesPostings, err := suite.store.ListByLedger(ctx, suite.sales, time.Time{}, time.Time{})
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), salesPostings, 2)
}

func (suite *VoucherStoreTestSuite) TestListByLedger_UnknownLedger() {
	_, err := suite.store.ListByLedger(context.Background(), "no-such-ledger", time.Time{}, time.Time{})
	assert.Error(suite.T(), err)
	assert.ErrorIs(suite.T(), err, apperrors.ErrNotFound)
}

func (suite *VoucherStoreTestSuite) TestSupersede_ReplacesEffectiveRevision() {
	ctx := context.Background()
	original, err := suite.store.Append(ctx, suite.receipt(suite.day, suite.cash, suite.sales, 10000), suite.userID)
	suite.Require().NoError(err)

	corrected, err := suite.store.Supersede(ctx, original.VoucherID, suite.receipt(suite.day, suite.bank, suite.sales, 12000), "corrector")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), original.VoucherID, corrected.VoucherID)
	assert.Equal(suite.T(), original.VoucherNo, corrected.VoucherNo)
	assert.Equal(suite.T(), 2, corrected.Revision)
	assert.Equal(suite.T(), original.CreatedBy, corrected.CreatedBy)
	assert.Equal(suite.T(), "corrector", corrected.LastUpdatedBy)

	// Only the corrected revision is effective.
	vouchers, _, err := suite.store.ListAll(ctx, dto.ListVouchersParams{})
	assert.NoError(suite.T(), err)
	suite.Require().Len(vouchers, 1)
	assert.Equal(suite.T(), 2, vouchers[0].Revision)

	cashPostings, err := suite.store.ListByLedger(ctx, suite.cash, time.Time{}, time.Time{})
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), cashPostings)
}

func (suite *VoucherStoreTestSuite) TestSupersede_UnknownVoucher() {
	_, err := suite.store.Supersede(context.Background(), "no-such-voucher", suite.receipt(suite.day, suite.cash, suite.sales, 100), suite.userID)
	assert.Error(suite.T(), err)
	assert.ErrorIs(suite.T(), err, apperrors.ErrNotFound)
}

func (suite *VoucherStoreTestSuite) TestSupersede_UnbalancedRejected() {
	ctx := context.Background()
	original, err := suite.store.Append(ctx, suite.receipt(suite.day, suite.cash, suite.sales, 10000), suite.userID)
	suite.Require().NoError(err)

	bad := dto.CreateVoucherRequest{
		VoucherType: domain.ReceiptVoucher,
		Date:        suite.day,
		Entries: []dto.VoucherEntryRequest{
			{LedgerID: suite.cash, Debit: decimal.NewFromInt(1)},
			{LedgerID: suite.sales, Credit: decimal.NewFromInt(2)},
		},
	}
	_, err = suite.store.Supersede(ctx, original.VoucherID, bad, suite.userID)
	assert.ErrorIs(suite.T(), err, accounting.ErrUnbalanced)

	// Original revision stays effective.
	fetched, err := suite.store.GetVoucher(ctx, original.VoucherID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, fetched.Revision)
}

func (suite *VoucherStoreTestSuite) TestHasPostings() {
	ctx := context.Background()
	assert.False(suite.T(), suite.store.HasPostings([]string{suite.cash}))

	_, err := suite.store.Append(ctx, suite.receipt(suite.day, suite.cash, suite.sales, 100), suite.userID)
	suite.Require().NoError(err)

	assert.True(suite.T(), suite.store.HasPostings([]string{suite.cash}))
	assert.True(suite.T(), suite.store.HasPostings([]string{suite.bank, suite.sales}))
	assert.False(suite.T(), suite.store.HasPostings([]string{suite.bank, suite.capital}))
	assert.False(suite.T(), suite.store.HasPostings(nil))
}

func (suite *VoucherStoreTestSuite) TestAppend_PersistFailureLeavesStoreUntouched() {
	mockRepo := new(MockVoucherRepository)
	store := services.NewVoucherStore(suite.registry, mockRepo)

	saveErr := errors.New("connection reset")
	mockRepo.On("SaveVoucher", mock.Anything, mock.AnythingOfType("domain.Voucher")).Return(saveErr).Once()

	_, err := store.Append(context.Background(), suite.receipt(suite.day, suite.cash, suite.sales, 100), suite.userID)
	assert.ErrorIs(suite.T(), err, saveErr)

	vouchers, _, err := store.ListAll(context.Background(), dto.ListVouchersParams{})
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), vouchers)

	// The failed append must not burn a voucher number.
	mockRepo.On("SaveVoucher", mock.Anything, mock.AnythingOfType("domain.Voucher")).Return(nil).Once()
	voucher, err := store.Append(context.Background(), suite.receipt(suite.day, suite.cash, suite.sales, 100), suite.userID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), voucher.VoucherNo)
	mockRepo.AssertExpectations(suite.T())
}

func TestVoucherStoreTestSuite(t *testing.T) {
	suite.Run(t, new(VoucherStoreTestSuite))
}
