package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/rentora/rentora_payments/internal/apperrors"
	"github.com/rentora/rentora_payments/internal/core/domain"
	"github.com/rentora/rentora_payments/internal/core/ports/gateways"
	portsrepo "github.com/rentora/rentora_payments/internal/core/ports/repositories"
	portssvc "github.com/rentora/rentora_payments/internal/core/ports/services"
	"github.com/rentora/rentora_payments/internal/core/services"
	"github.com/rentora/rentora_payments/internal/dto"
)

type ConnectedAccountServiceTestSuite struct {
	suite.Suite
	ctx             context.Context
	mockAccountRepo *MockConnectedAccountRepository
	mockOrgRepo     *MockOrganizationRepository
	mockProcessor   *MockPaymentProcessor
	events          *fakeEventSink
	service         portssvc.ConnectedAccountSvcFacade
}

func (suite *ConnectedAccountServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.mockAccountRepo = new(MockConnectedAccountRepository)
	suite.mockOrgRepo = new(MockOrganizationRepository)
	suite.mockProcessor = new(MockPaymentProcessor)
	suite.events = new(fakeEventSink)
	suite.service = services.NewConnectedAccountService(suite.mockAccountRepo, suite.mockOrgRepo, suite.mockProcessor, suite.events)
}

func (suite *ConnectedAccountServiceTestSuite) assertAllExpectations() {
	suite.mockAccountRepo.AssertExpectations(suite.T())
	suite.mockOrgRepo.AssertExpectations(suite.T())
	suite.mockProcessor.AssertExpectations(suite.T())
}

func createAccountRequest() dto.CreateConnectedAccountRequest {
	return dto.CreateConnectedAccountRequest{
		BusinessType: "company",
		EntityType:   "llc",
		Name:         "Maple Court LLC",
	}
}

func (suite *ConnectedAccountServiceTestSuite) TestCreateAccountStartsOnboarding() {
	suite.mockOrgRepo.On("FindOrganizationByID", suite.ctx, testOrgID).Return(landlordAbsorbsOrg(), nil).Once()
	suite.mockAccountRepo.On("FindByOrganizationID", suite.ctx, testOrgID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockProcessor.On("CreateAccount", suite.ctx, "company", "llc", "Maple Court LLC").Return(&gateways.Account{
		ID:     "acct_1",
		Status: gateways.ProcessorAccountPending,
	}, nil).Once()
	suite.mockAccountRepo.On("SaveConnectedAccount", suite.ctx, mock.MatchedBy(func(a domain.ConnectedAccount) bool {
		return a.OrganizationID == testOrgID &&
			a.ProcessorAccountID == "acct_1" &&
			a.Status == domain.AccountOnboarding
	})).Return(nil).Once()

	account, err := suite.service.CreateAccount(suite.ctx, testOrgID, createAccountRequest(), testOwnerID)

	suite.Require().NoError(err)
	suite.Equal(domain.AccountOnboarding, account.Status)
	suite.Len(suite.events.named("connected_account_created"), 1)
	suite.assertAllExpectations()
}

func (suite *ConnectedAccountServiceTestSuite) TestCreateAccountRequiresOwner() {
	suite.mockOrgRepo.On("FindOrganizationByID", suite.ctx, testOrgID).Return(landlordAbsorbsOrg(), nil).Once()

	_, err := suite.service.CreateAccount(suite.ctx, testOrgID, createAccountRequest(), "stranger")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockProcessor.AssertNotCalled(suite.T(), "CreateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.assertAllExpectations()
}

func (suite *ConnectedAccountServiceTestSuite) TestCreateAccountRejectsSecondAccount() {
	suite.mockOrgRepo.On("FindOrganizationByID", suite.ctx, testOrgID).Return(landlordAbsorbsOrg(), nil).Once()
	suite.mockAccountRepo.On("FindByOrganizationID", suite.ctx, testOrgID).Return(activeAccount(), nil).Once()

	_, err := suite.service.CreateAccount(suite.ctx, testOrgID, createAccountRequest(), testOwnerID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockProcessor.AssertNotCalled(suite.T(), "CreateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.assertAllExpectations()
}

func (suite *ConnectedAccountServiceTestSuite) TestCreateAccountRaceReturnsWinner() {
	winner := activeAccount()
	suite.mockOrgRepo.On("FindOrganizationByID", suite.ctx, testOrgID).Return(landlordAbsorbsOrg(), nil).Once()
	suite.mockAccountRepo.On("FindByOrganizationID", suite.ctx, testOrgID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockProcessor.On("CreateAccount", suite.ctx, "company", "llc", "Maple Court LLC").Return(&gateways.Account{ID: "acct_2"}, nil).Once()
	suite.mockAccountRepo.On("SaveConnectedAccount", suite.ctx, mock.AnythingOfType("domain.ConnectedAccount")).Return(apperrors.ErrDuplicate).Once()
	suite.mockAccountRepo.On("FindByOrganizationID", suite.ctx, testOrgID).Return(winner, nil).Once()

	account, err := suite.service.CreateAccount(suite.ctx, testOrgID, createAccountRequest(), testOwnerID)

	suite.Require().NoError(err)
	suite.Equal("acct_1", account.ProcessorAccountID)
	suite.assertAllExpectations()
}

func (suite *ConnectedAccountServiceTestSuite) TestOnboardingURLRefusedForRejectedAccount() {
	account := activeAccount()
	account.Status = domain.AccountRejected
	suite.mockAccountRepo.On("FindByOrganizationID", suite.ctx, testOrgID).Return(account, nil).Once()

	_, err := suite.service.GetOnboardingURL(suite.ctx, testOrgID, dto.OnboardingLinkRequest{})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotActive)
	suite.assertAllExpectations()
}

func (suite *ConnectedAccountServiceTestSuite) TestDashboardURLRequiresActiveAccount() {
	account := activeAccount()
	account.Status = domain.AccountOnboarding
	suite.mockAccountRepo.On("FindByOrganizationID", suite.ctx, testOrgID).Return(account, nil).Once()

	_, err := suite.service.GetExpressDashboardURL(suite.ctx, testOrgID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotActive)
	suite.mockProcessor.AssertNotCalled(suite.T(), "CreateLoginLink", mock.Anything, mock.Anything)
	suite.assertAllExpectations()
}

func (suite *ConnectedAccountServiceTestSuite) TestSyncAppliesProcessorSnapshot() {
	account := activeAccount()
	account.Status = domain.AccountOnboarding
	account.ChargesEnabled = false
	account.PayoutsEnabled = false

	synced := activeAccount()

	suite.mockAccountRepo.On("FindByOrganizationID", suite.ctx, testOrgID).Return(account, nil).Once()
	suite.mockProcessor.On("GetAccount", suite.ctx, "acct_1").Return(&gateways.Account{
		ID:               "acct_1",
		Status:           gateways.ProcessorAccountActive,
		ChargesEnabled:   true,
		PayoutsEnabled:   true,
		DetailsSubmitted: true,
	}, nil).Once()
	suite.mockAccountRepo.On("ApplySyncState", suite.ctx, "ca-1", mock.MatchedBy(func(state portsrepo.ConnectedAccountSyncState) bool {
		return state.Status == domain.AccountActive && state.ChargesEnabled && state.PayoutsEnabled
	}), testOwnerID).Return(true, nil).Once()
	suite.mockAccountRepo.On("FindByOrganizationID", suite.ctx, testOrgID).Return(synced, nil).Once()

	got, err := suite.service.SyncAccountStatus(suite.ctx, testOrgID, testOwnerID)

	suite.Require().NoError(err)
	suite.Equal(domain.AccountActive, got.Status)
	suite.Len(suite.events.named("connected_account_status_changed"), 1)
	suite.assertAllExpectations()
}

func (suite *ConnectedAccountServiceTestSuite) TestSyncActiveReportWithCapabilityOffStoresRestricted() {
	account := activeAccount()
	restricted := activeAccount()
	restricted.Status = domain.AccountRestricted
	restricted.PayoutsEnabled = false

	// The processor says active but payouts are switched off. ACTIVE implies
	// both capabilities locally, so the snapshot lands as RESTRICTED.
	suite.mockAccountRepo.On("FindByOrganizationID", suite.ctx, testOrgID).Return(account, nil).Once()
	suite.mockProcessor.On("GetAccount", suite.ctx, "acct_1").Return(&gateways.Account{
		ID:               "acct_1",
		Status:           gateways.ProcessorAccountActive,
		ChargesEnabled:   true,
		PayoutsEnabled:   false,
		DetailsSubmitted: true,
	}, nil).Once()
	suite.mockAccountRepo.On("ApplySyncState", suite.ctx, "ca-1", mock.MatchedBy(func(state portsrepo.ConnectedAccountSyncState) bool {
		return state.Status == domain.AccountRestricted && state.ChargesEnabled && !state.PayoutsEnabled
	}), testOwnerID).Return(true, nil).Once()
	suite.mockAccountRepo.On("FindByOrganizationID", suite.ctx, testOrgID).Return(restricted, nil).Once()

	got, err := suite.service.SyncAccountStatus(suite.ctx, testOrgID, testOwnerID)

	suite.Require().NoError(err)
	suite.Equal(domain.AccountRestricted, got.Status)
	suite.Len(suite.events.named("connected_account_status_changed"), 1)
	suite.assertAllExpectations()
}

func (suite *ConnectedAccountServiceTestSuite) TestSyncDiscardsStaleSnapshot() {
	account := activeAccount()
	suite.mockAccountRepo.On("FindByOrganizationID", suite.ctx, testOrgID).Return(account, nil).Once()
	suite.mockProcessor.On("GetAccount", suite.ctx, "acct_1").Return(&gateways.Account{
		ID:     "acct_1",
		Status: gateways.ProcessorAccountRestricted,
	}, nil).Once()
	// A concurrent fresher sync already won the compare-and-swap.
	suite.mockAccountRepo.On("ApplySyncState", suite.ctx, "ca-1", mock.AnythingOfType("repositories.ConnectedAccountSyncState"), testOwnerID).Return(false, nil).Once()
	suite.mockAccountRepo.On("FindByOrganizationID", suite.ctx, testOrgID).Return(account, nil).Once()

	got, err := suite.service.SyncAccountStatus(suite.ctx, testOrgID, testOwnerID)

	suite.Require().NoError(err)
	suite.Equal(domain.AccountActive, got.Status)
	suite.Empty(suite.events.named("connected_account_status_changed"))
	suite.assertAllExpectations()
}

func (suite *ConnectedAccountServiceTestSuite) TestCanAcceptPaymentsReasons() {
	restricted := activeAccount()
	restricted.Status = domain.AccountRestricted

	chargesOff := activeAccount()
	chargesOff.ChargesEnabled = false

	payoutsOff := activeAccount()
	payoutsOff.PayoutsEnabled = false

	pastDue := activeAccount()
	pastDue.Requirements.PastDue = []string{"individual.verification.document"}

	cases := []struct {
		name    string
		account *domain.ConnectedAccount
		err     error
		accept  bool
		reason  string
	}{
		{name: "no account", err: apperrors.ErrNotFound, reason: "NO_CONNECTED_ACCOUNT"},
		{name: "restricted", account: restricted, reason: "ACCOUNT_NOT_ACTIVE"},
		{name: "charges disabled", account: chargesOff, reason: "CHARGES_DISABLED"},
		{name: "payouts disabled", account: payoutsOff, reason: "PAYOUTS_DISABLED"},
		{name: "past due requirements", account: pastDue, reason: "REQUIREMENTS_PAST_DUE"},
		{name: "ready", account: activeAccount(), accept: true},
	}

	for _, tc := range cases {
		suite.Run(tc.name, func() {
			suite.mockAccountRepo.On("FindByOrganizationID", suite.ctx, testOrgID).Return(tc.account, tc.err).Once()

			resp, err := suite.service.CanAcceptPayments(suite.ctx, testOrgID)

			suite.Require().NoError(err)
			suite.Equal(tc.accept, resp.CanAccept)
			suite.Equal(tc.reason, resp.Reason)
		})
	}
	suite.assertAllExpectations()
}

func TestConnectedAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ConnectedAccountServiceTestSuite))
}
