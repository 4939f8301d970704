package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/bahikhata/bahikhata_backend/internal/apperrors"
	"github.com/bahikhata/bahikhata_backend/internal/core/domain"
	portssvc "github.com/bahikhata/bahikhata_backend/internal/core/ports/services"
	"github.com/bahikhata/bahikhata_backend/internal/core/services"
	"github.com/bahikhata/bahikhata_backend/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock MasterRepository ---
type MockMasterRepository struct {
	mock.Mock
}

func (m *MockMasterRepository) SaveGroup(ctx context.Context, group domain.LedgerGroup) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *MockMasterRepository) UpdateGroup(ctx context.Context, group domain.LedgerGroup) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *MockMasterRepository) SaveLedger(ctx context.Context, ledger domain.Ledger) error {
	args := m.Called(ctx, ledger)
	return args.Error(0)
}

func (m *MockMasterRepository) LoadMasters(ctx context.Context) ([]domain.LedgerGroup, []domain.Ledger, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.LedgerGroup), args.Get(1).([]domain.Ledger), args.Error(2)
}

// --- Test Suite Setup ---
type MasterRegistryTestSuite struct {
	suite.Suite
	registry portssvc.MasterSvcFacade
	userID   string
}

func (suite *MasterRegistryTestSuite) SetupTest() {
	suite.registry = services.NewMasterRegistry(nil)
	suite.userID = "tester"
}

func (suite *MasterRegistryTestSuite) createGroup(name string, nature domain.NatureType, parentID string) *domain.LedgerGroup {
	group, err := suite.registry.CreateGroup(context.Background(), dto.CreateGroupRequest{
		Name:          name,
		ParentGroupID: parentID,
		Nature:        nature,
	}, suite.userID)
	suite.Require().NoError(err)
	return group
}

func (suite *MasterRegistryTestSuite) TestCreateGroup_Success() {
	group := suite.createGroup("Current Assets", domain.NatureCurrentAssets, "")

	assert.NotEmpty(suite.T(), group.GroupID)
	assert.Equal(suite.T(), domain.NatureCurrentAssets, group.Nature)
	assert.Equal(suite.T(), suite.userID, group.CreatedBy)

	fetched, err := suite.registry.GetGroup(context.Background(), group.GroupID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), group.Name, fetched.Name)
}

func (suite *MasterRegistryTestSuite) TestCreateGroup_BadNature() {
	_, err := suite.registry.CreateGroup(context.Background(), dto.CreateGroupRequest{
		Name:   "Imaginary",
		Nature: domain.NatureType("made-up"),
	}, suite.userID)

	assert.Error(suite.T(), err)
	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
}

func (suite *MasterRegistryTestSuite) TestCreateGroup_UnknownParent() {
	_, err := suite.registry.CreateGroup(context.Background(), dto.CreateGroupRequest{
		Name:          "Orphan",
		ParentGroupID: "no-such-group",
		Nature:        domain.NatureCurrentAssets,
	}, suite.userID)

	assert.Error(suite.T(), err)
	assert.ErrorIs(suite.T(), err, services.ErrUnknownParentGroup)
}

func (suite *MasterRegistryTestSuite) TestCreateGroup_NestedHierarchy() {
	root := suite.createGroup("Current Assets", domain.NatureCurrentAssets, "")
	child := suite.createGroup("Sundry Debtors", domain.NatureCurrentAssets, root.GroupID)
	grandchild := suite.createGroup("North Region Debtors", domain.NatureCurrentAssets, child.GroupID)

	assert.Equal(suite.T(), child.GroupID, grandchild.ParentGroupID)

	groups, err := suite.registry.ListGroups(context.Background())
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), groups, 3)
}

func (suite *MasterRegistryTestSuite) TestCreateLedger_Success() {
	group := suite.createGroup("Current Assets", domain.NatureCurrentAssets, "")

	ledger, err := suite.registry.CreateLedger(context.Background(), dto.CreateLedgerRequest{
		Name:               "Cash",
		GroupID:            group.GroupID,
		OpeningBalance:     decimal.NewFromInt(50000),
		OpeningBalanceType: domain.Debit,
	}, suite.userID)

	assert.NoError(suite.T(), err)
	assert.NotEmpty(suite.T(), ledger.LedgerID)
	assert.True(suite.T(), decimal.NewFromInt(50000).Equal(ledger.OpeningBalance))

	nature, err := suite.registry.ResolveNature(context.Background(), ledger.LedgerID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.NatureCurrentAssets, nature)
}

func (suite *MasterRegistryTestSuite) TestCreateLedger_DefaultsToDebitOpening() {
	group := suite.createGroup("Current Assets", domain.NatureCurrentAssets, "")

	ledger, err := suite.registry.CreateLedger(context.Background(), dto.CreateLedgerRequest{
		Name:    "Petty Cash",
		GroupID: group.GroupID,
	}, suite.userID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.Debit, ledger.OpeningBalanceType)
	assert.True(suite.T(), ledger.OpeningBalance.IsZero())
}

func (suite *MasterRegistryTestSuite) TestCreateLedger_UnknownGroup() {
	_, err := suite.registry.CreateLedger(context.Background(), dto.CreateLedgerRequest{
		Name:    "Cash",
		GroupID: "no-such-group",
	}, suite.userID)

	assert.Error(suite.T(), err)
	assert.ErrorIs(suite.T(), err, services.ErrUnknownGroup)
}

func (suite *MasterRegistryTestSuite) TestCreateLedger_NegativeOpeningRejected() {
	group := suite.createGroup("Current Assets", domain.NatureCurrentAssets, "")

	_, err := suite.registry.CreateLedger(context.Background(), dto.CreateLedgerRequest{
		Name:               "Cash",
		GroupID:            group.GroupID,
		OpeningBalance:     decimal.NewFromInt(-100),
		OpeningBalanceType: domain.Debit,
	}, suite.userID)

	assert.Error(suite.T(), err)
	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
}

func (suite *MasterRegistryTestSuite) TestUpdateGroup_Rename() {
	group := suite.createGroup("Current Asets", domain.NatureCurrentAssets, "")

	newName := "Current Assets"
	updated, err := suite.registry.UpdateGroup(context.Background(), group.GroupID, dto.UpdateGroupRequest{
		Name: &newName,
	}, suite.userID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), newName, updated.Name)
	assert.Equal(suite.T(), group.Nature, updated.Nature)
}

func (suite *MasterRegistryTestSuite) TestUpdateGroup_NotFound() {
	newName := "whatever"
	_, err := suite.registry.UpdateGroup(context.Background(), "missing", dto.UpdateGroupRequest{
		Name: &newName,
	}, suite.userID)

	assert.Error(suite.T(), err)
	assert.ErrorIs(suite.T(), err, apperrors.ErrNotFound)
}

func (suite *MasterRegistryTestSuite) TestUpdateGroup_NatureChangeBeforePostings() {
	group := suite.createGroup("Miscellaneous", domain.NatureIndirectExpenses, "")

	newNature := domain.NatureIndirectIncome
	updated, err := suite.registry.UpdateGroup(context.Background(), group.GroupID, dto.UpdateGroupRequest{
		Nature: &newNature,
	}, suite.userID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), newNature, updated.Nature)
}

func (suite *MasterRegistryTestSuite) TestSnapshotIsolation() {
	group := suite.createGroup("Current Assets", domain.NatureCurrentAssets, "")
	before := suite.registry.Snapshot()

	_, err := suite.registry.CreateLedger(context.Background(), dto.CreateLedgerRequest{
		Name:    "Cash",
		GroupID: group.GroupID,
	}, suite.userID)
	suite.Require().NoError(err)

	// The snapshot taken before the write must not see the new ledger.
	assert.Len(suite.T(), before.Ledgers(), 0)
	assert.Len(suite.T(), suite.registry.Snapshot().Ledgers(), 1)
}

func (suite *MasterRegistryTestSuite) TestCreateGroup_PersistFailureRollsBack() {
	mockRepo := new(MockMasterRepository)
	registry := services.NewMasterRegistry(mockRepo)

	saveErr := errors.New("connection reset")
	mockRepo.On("SaveGroup", mock.Anything, mock.AnythingOfType("domain.LedgerGroup")).Return(saveErr).Once()

	_, err := registry.CreateGroup(context.Background(), dto.CreateGroupRequest{
		Name:   "Current Assets",
		Nature: domain.NatureCurrentAssets,
	}, suite.userID)

	assert.ErrorIs(suite.T(), err, saveErr)
	groups, _ := registry.ListGroups(context.Background())
	assert.Empty(suite.T(), groups)
	mockRepo.AssertExpectations(suite.T())
}

func (suite *MasterRegistryTestSuite) TestCreateGroup_DuplicateNameRejected() {
	suite.createGroup("Current Assets", domain.NatureCurrentAssets, "")

	_, err := suite.registry.CreateGroup(context.Background(), dto.CreateGroupRequest{
		Name:   "Current Assets",
		Nature: domain.NatureFixedAssets,
	}, suite.userID)

	assert.Error(suite.T(), err)
	assert.ErrorIs(suite.T(), err, apperrors.ErrDuplicate)
}

func (suite *MasterRegistryTestSuite) TestCreateLedger_DuplicateNameRejected() {
	group := suite.createGroup("Current Assets", domain.NatureCurrentAssets, "")

	_, err := suite.registry.CreateLedger(context.Background(), dto.CreateLedgerRequest{
		Name:    "Cash",
		GroupID: group.GroupID,
	}, suite.userID)
	suite.Require().NoError(err)

	_, err = suite.registry.CreateLedger(context.Background(), dto.CreateLedgerRequest{
		Name:    "Cash",
		GroupID: group.GroupID,
	}, suite.userID)

	assert.Error(suite.T(), err)
	assert.ErrorIs(suite.T(), err, apperrors.ErrDuplicate)
}

func (suite *MasterRegistryTestSuite) TestUpdateGroup_RenameToExistingNameRejected() {
	suite.createGroup("Current Assets", domain.NatureCurrentAssets, "")
	group := suite.createGroup("Fixed Assets", domain.NatureFixedAssets, "")

	newName := "Current Assets"
	_, err := suite.registry.UpdateGroup(context.Background(), group.GroupID, dto.UpdateGroupRequest{
		Name: &newName,
	}, suite.userID)

	assert.Error(suite.T(), err)
	assert.ErrorIs(suite.T(), err, apperrors.ErrDuplicate)
}

func (suite *MasterRegistryTestSuite) TestUpdateGroup_RenameToOwnNameAllowed() {
	group := suite.createGroup("Current Assets", domain.NatureCurrentAssets, "")

	sameName := "Current Assets"
	updated, err := suite.registry.UpdateGroup(context.Background(), group.GroupID, dto.UpdateGroupRequest{
		Name: &sameName,
	}, suite.userID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), sameName, updated.Name)
}

func (suite *MasterRegistryTestSuite) TestCreateLedger_OpeningOnIncomeLedgerRejected() {
	group := suite.createGroup("Sales Accounts", domain.NatureSales, "")

	_, err := suite.registry.CreateLedger(context.Background(), dto.CreateLedgerRequest{
		Name:               "Export Sales",
		GroupID:            group.GroupID,
		OpeningBalance:     decimal.NewFromInt(1000),
		OpeningBalanceType: domain.Credit,
	}, suite.userID)

	assert.Error(suite.T(), err)
	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
}

func (suite *MasterRegistryTestSuite) TestCreateLedger_ZeroOpeningOnExpenseLedgerAllowed() {
	group := suite.createGroup("Indirect Expenses", domain.NatureIndirectExpenses, "")

	ledger, err := suite.registry.CreateLedger(context.Background(), dto.CreateLedgerRequest{
		Name:    "Rent",
		GroupID: group.GroupID,
	}, suite.userID)

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), ledger.OpeningBalance.IsZero())
}

func TestMasterRegistryTestSuite(t *testing.T) {
	suite.Run(t, new(MasterRegistryTestSuite))
}
