package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
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

const (
	testTenantID   = "tenant-1"
	testLeaseID    = "lease-1"
	testOrgID      = "org-1"
	testOwnerID    = "owner-1"
	testMethodID   = "pm-1"
	testCustomerID = "cus_1"
	testSystemUser = "system-autopay"
)

type PaymentServiceTestSuite struct {
	suite.Suite
	ctx             context.Context
	mockPaymentRepo *MockPaymentRepository
	mockChargeRepo  *MockChargeRepository
	mockMethodRepo  *MockPaymentMethodRepository
	mockOrgRepo     *MockOrganizationRepository
	mockAccountRepo *MockConnectedAccountRepository
	mockProcessor   *MockPaymentProcessor
	events          *fakeEventSink
	service         portssvc.PaymentSvcFacade
}

func (suite *PaymentServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.mockPaymentRepo = new(MockPaymentRepository)
	suite.mockChargeRepo = new(MockChargeRepository)
	suite.mockMethodRepo = new(MockPaymentMethodRepository)
	suite.mockOrgRepo = new(MockOrganizationRepository)
	suite.mockAccountRepo = new(MockConnectedAccountRepository)
	suite.mockProcessor = new(MockPaymentProcessor)
	suite.events = new(fakeEventSink)
	suite.service = services.NewPaymentService(
		portsrepo.RepositoryProvider{
			OrganizationRepo:     suite.mockOrgRepo,
			ConnectedAccountRepo: suite.mockAccountRepo,
			PaymentMethodRepo:    suite.mockMethodRepo,
			ChargeRepo:           suite.mockChargeRepo,
			PaymentRepo:          suite.mockPaymentRepo,
			AutoPayRepo:          new(MockAutoPayRepository),
		},
		suite.mockProcessor,
		suite.events,
		decimal.NewFromFloat(0.5),
		testSystemUser,
	)
}

func (suite *PaymentServiceTestSuite) assertAllExpectations() {
	suite.mockPaymentRepo.AssertExpectations(suite.T())
	suite.mockChargeRepo.AssertExpectations(suite.T())
	suite.mockMethodRepo.AssertExpectations(suite.T())
	suite.mockOrgRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
	suite.mockProcessor.AssertExpectations(suite.T())
}

func activeCardMethod() *domain.PaymentMethod {
	return &domain.PaymentMethod{
		PaymentMethodID:   testMethodID,
		TenantID:          testTenantID,
		ProcessorMethodID: "proc_pm_1",
		MethodClass:       domain.MethodCard,
		Status:            domain.MethodActive,
		IsDefault:         true,
	}
}

func unpaidCharges() map[string]domain.Charge {
	return map[string]domain.Charge{
		"charge-1": {
			ChargeID:       "charge-1",
			OrganizationID: testOrgID,
			LeaseID:        testLeaseID,
			TenantID:       testTenantID,
			ChargeType:     domain.ChargeRent,
			Amount:         decimal.NewFromFloat(700),
		},
		"charge-2": {
			ChargeID:       "charge-2",
			OrganizationID: testOrgID,
			LeaseID:        testLeaseID,
			TenantID:       testTenantID,
			ChargeType:     domain.ChargeUtility,
			Amount:         decimal.NewFromFloat(350),
		},
	}
}

func landlordAbsorbsOrg() *domain.Organization {
	return &domain.Organization{
		OrganizationID: testOrgID,
		Name:           "Maple Court LLC",
		OwnerUserID:    testOwnerID,
		FeePolicy:      domain.LandlordAbsorbs,
		PayoutPolicy: domain.PayoutPolicy{
			TrustLevel:         domain.TrustNew,
			PayoutDelayDays:    7,
			PayoutDelayMinimum: 7,
		},
	}
}

func activeAccount() *domain.ConnectedAccount {
	return &domain.ConnectedAccount{
		ConnectedAccountID: "ca-1",
		OrganizationID:     testOrgID,
		ProcessorAccountID: "acct_1",
		Status:             domain.AccountActive,
		ChargesEnabled:     true,
		PayoutsEnabled:     true,
		DetailsSubmitted:   true,
	}
}

func processRequest() dto.ProcessPaymentRequest {
	return dto.ProcessPaymentRequest{
		TenantID:        testTenantID,
		LeaseID:         testLeaseID,
		ChargeIDs:       []string{"charge-1", "charge-2"},
		PaymentMethodID: testMethodID,
		Amount:          decimal.NewFromFloat(1050),
		Description:     "October rent",
		IdempotencyKey:  "key-1",
	}
}

// expectValidationReads registers the reads every attempt performs before the
// write-ahead row.
func (suite *PaymentServiceTestSuite) expectValidationReads() {
	suite.mockPaymentRepo.On("FindByIdempotencyKey", suite.ctx, "key-1").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockMethodRepo.On("FindPaymentMethodByID", suite.ctx, testMethodID).Return(activeCardMethod(), nil).Once()
	suite.mockChargeRepo.On("FindChargesByIDs", suite.ctx, []string{"charge-1", "charge-2"}).Return(unpaidCharges(), nil).Once()
	suite.mockOrgRepo.On("FindOrganizationByID", suite.ctx, testOrgID).Return(landlordAbsorbsOrg(), nil).Once()
	suite.mockAccountRepo.On("FindByOrganizationID", suite.ctx, testOrgID).Return(activeAccount(), nil).Once()
	suite.mockMethodRepo.On("FindCustomerIDByTenant", suite.ctx, testTenantID).Return(testCustomerID, nil).Once()
}

func (suite *PaymentServiceTestSuite) TestProcessPaymentSucceeds() {
	req := processRequest()
	suite.expectValidationReads()

	var created domain.Payment
	suite.mockPaymentRepo.On("CreatePending", suite.ctx, mock.MatchedBy(func(p domain.Payment) bool {
		return p.Status == domain.PaymentPending &&
			p.IdempotencyKey == "key-1" &&
			p.OrganizationID == testOrgID &&
			p.Amount.Equal(decimal.NewFromFloat(1050))
	})).Run(func(args mock.Arguments) {
		created = args.Get(1).(domain.Payment)
	}).Return(nil).Once()

	// Landlord absorbs: the tenant is charged the gross amount, the landlord
	// receives gross minus the 2.9% + $0.30 card fee.
	suite.mockProcessor.On("CreateCharge", suite.ctx, mock.MatchedBy(func(cr gateways.ChargeRequest) bool {
		return cr.IdempotencyKey == "key-1" &&
			cr.CustomerID == testCustomerID &&
			cr.PaymentMethodID == "proc_pm_1" &&
			cr.AmountCents == 105000 &&
			cr.NetToDestinationCents == 101925 &&
			cr.DestinationAccountID == "acct_1"
	})).Return(&gateways.ChargeResult{
		ChargeID:   "ch_1",
		Status:     gateways.ChargeStatusSucceeded,
		ReceiptURL: "https://receipts.test/ch_1",
	}, nil).Once()

	suite.mockPaymentRepo.On("MarkSucceeded", suite.ctx, mock.AnythingOfType("string"), "ch_1", "https://receipts.test/ch_1", req.ChargeIDs, testTenantID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockPaymentRepo.On("FindPaymentByID", suite.ctx, mock.AnythingOfType("string")).Return(&domain.Payment{
		PaymentID:         "p-1",
		Status:            domain.PaymentSucceeded,
		ProcessorChargeID: "ch_1",
		ReceiptURL:        "https://receipts.test/ch_1",
	}, nil).Once()

	result, err := suite.service.ProcessPayment(suite.ctx, req)

	suite.Require().NoError(err)
	suite.True(result.Success)
	suite.Equal(domain.PaymentSucceeded, result.Status)
	suite.Equal("https://receipts.test/ch_1", result.ReceiptURL)
	suite.Equal("key-1", created.IdempotencyKey)
	suite.NotEmpty(created.ParamsHash)
	suite.Len(suite.events.named("payment_succeeded"), 1)
	suite.assertAllExpectations()
}

func (suite *PaymentServiceTestSuite) TestProcessPaymentReplaysStoredOutcome() {
	stored := &domain.Payment{
		PaymentID:      "p-1",
		IdempotencyKey: "key-1",
		Status:         domain.PaymentSucceeded,
		ReceiptURL:     "https://receipts.test/ch_1",
	}

	// Run a full attempt first to learn the parameter hash the service binds
	// to the key, then replay with the same request.
	req := processRequest()
	suite.expectValidationReads()
	suite.mockPaymentRepo.On("CreatePending", suite.ctx, mock.AnythingOfType("domain.Payment")).Run(func(args mock.Arguments) {
		stored.ParamsHash = args.Get(1).(domain.Payment).ParamsHash
	}).Return(nil).Once()
	suite.mockProcessor.On("CreateCharge", suite.ctx, mock.AnythingOfType("gateways.ChargeRequest")).Return(&gateways.ChargeResult{
		ChargeID:   "ch_1",
		Status:     gateways.ChargeStatusSucceeded,
		ReceiptURL: "https://receipts.test/ch_1",
	}, nil).Once()
	suite.mockPaymentRepo.On("MarkSucceeded", suite.ctx, mock.AnythingOfType("string"), "ch_1", "https://receipts.test/ch_1", req.ChargeIDs, testTenantID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockPaymentRepo.On("FindPaymentByID", suite.ctx, mock.AnythingOfType("string")).Return(stored, nil).Once()

	first, err := suite.service.ProcessPayment(suite.ctx, req)
	suite.Require().NoError(err)
	suite.Require().True(first.Success)

	// The replay must come straight from storage: no processor call, no new
	// row.
	suite.mockPaymentRepo.On("FindByIdempotencyKey", suite.ctx, "key-1").Return(stored, nil).Once()

	second, err := suite.service.ProcessPayment(suite.ctx, req)

	suite.Require().NoError(err)
	suite.True(second.Success)
	suite.Equal("p-1", second.PaymentID)
	suite.mockProcessor.AssertNumberOfCalls(suite.T(), "CreateCharge", 1)
	suite.assertAllExpectations()
}

func (suite *PaymentServiceTestSuite) TestProcessPaymentRejectsKeyReuseWithDifferentParams() {
	stored := &domain.Payment{
		PaymentID:      "p-1",
		IdempotencyKey: "key-1",
		ParamsHash:     "some-other-hash",
		Status:         domain.PaymentSucceeded,
	}
	suite.mockPaymentRepo.On("FindByIdempotencyKey", suite.ctx, "key-1").Return(stored, nil).Once()

	result, err := suite.service.ProcessPayment(suite.ctx, processRequest())

	suite.Require().NoError(err)
	suite.False(result.Success)
	suite.Equal(domain.FailureConflict, result.FailureReason)
	suite.Empty(result.PaymentID)
	suite.assertAllExpectations()
}

func (suite *PaymentServiceTestSuite) TestProcessPaymentAmountMismatch() {
	req := processRequest()
	req.IdempotencyKey = ""
	req.Amount = decimal.NewFromFloat(1000) // charges total 1050

	suite.mockMethodRepo.On("FindPaymentMethodByID", suite.ctx, testMethodID).Return(activeCardMethod(), nil).Once()
	suite.mockChargeRepo.On("FindChargesByIDs", suite.ctx, req.ChargeIDs).Return(unpaidCharges(), nil).Once()
	suite.mockOrgRepo.On("FindOrganizationByID", suite.ctx, testOrgID).Return(landlordAbsorbsOrg(), nil).Once()

	result, err := suite.service.ProcessPayment(suite.ctx, req)

	suite.Require().NoError(err)
	suite.False(result.Success)
	suite.Equal(domain.FailureAmountMismatch, result.FailureReason)
	// Rejected before the write-ahead row: nothing was persisted and the
	// processor was never called. The breakdown for the requested amount is
	// still reported.
	suite.Empty(result.PaymentID)
	suite.Require().NotNil(result.Fees)
	suite.True(result.Fees.TotalCharged.Equal(decimal.NewFromFloat(1000)))
	suite.mockPaymentRepo.AssertNotCalled(suite.T(), "CreatePending", mock.Anything, mock.Anything)
	suite.assertAllExpectations()
}

func (suite *PaymentServiceTestSuite) TestProcessPaymentRejectsAlreadyPaidCharge() {
	req := processRequest()
	req.IdempotencyKey = ""

	charges := unpaidCharges()
	paid := charges["charge-2"]
	paid.Paid = true
	charges["charge-2"] = paid

	suite.mockMethodRepo.On("FindPaymentMethodByID", suite.ctx, testMethodID).Return(activeCardMethod(), nil).Once()
	suite.mockChargeRepo.On("FindChargesByIDs", suite.ctx, req.ChargeIDs).Return(charges, nil).Once()
	suite.mockOrgRepo.On("FindOrganizationByID", suite.ctx, testOrgID).Return(landlordAbsorbsOrg(), nil).Once()

	result, err := suite.service.ProcessPayment(suite.ctx, req)

	suite.Require().NoError(err)
	suite.False(result.Success)
	suite.Equal(domain.FailureAmountMismatch, result.FailureReason)
	suite.Contains(result.FailureDetail, "already paid")
	suite.NotNil(result.Fees)
	suite.assertAllExpectations()
}

func (suite *PaymentServiceTestSuite) TestProcessPaymentRejectsForeignMethod() {
	req := processRequest()
	req.IdempotencyKey = ""

	method := activeCardMethod()
	method.TenantID = "someone-else"
	suite.mockMethodRepo.On("FindPaymentMethodByID", suite.ctx, testMethodID).Return(method, nil).Once()

	result, err := suite.service.ProcessPayment(suite.ctx, req)

	suite.Require().NoError(err)
	suite.False(result.Success)
	suite.Equal(domain.FailurePaymentMethodInvalid, result.FailureReason)
	suite.mockChargeRepo.AssertNotCalled(suite.T(), "FindChargesByIDs", mock.Anything, mock.Anything)
	suite.assertAllExpectations()
}

func (suite *PaymentServiceTestSuite) TestProcessPaymentWithoutConnectedAccount() {
	req := processRequest()
	req.IdempotencyKey = ""

	suite.mockMethodRepo.On("FindPaymentMethodByID", suite.ctx, testMethodID).Return(activeCardMethod(), nil).Once()
	suite.mockChargeRepo.On("FindChargesByIDs", suite.ctx, req.ChargeIDs).Return(unpaidCharges(), nil).Once()
	suite.mockOrgRepo.On("FindOrganizationByID", suite.ctx, testOrgID).Return(landlordAbsorbsOrg(), nil).Once()
	suite.mockAccountRepo.On("FindByOrganizationID", suite.ctx, testOrgID).Return(nil, apperrors.ErrNotFound).Once()

	result, err := suite.service.ProcessPayment(suite.ctx, req)

	suite.Require().NoError(err)
	suite.False(result.Success)
	suite.Equal(domain.FailurePayoutNotConfigured, result.FailureReason)
	// The breakdown that would have applied still comes back for display.
	suite.Require().NotNil(result.Fees)
	suite.Equal(domain.LandlordAbsorbs, result.Fees.FeePolicy)
	suite.True(result.Fees.ProcessingFee.Equal(decimal.NewFromFloat(30.75)))
	suite.True(result.Fees.TotalCharged.Equal(decimal.NewFromFloat(1050)))
	suite.True(result.Fees.NetToLandlord.Equal(decimal.NewFromFloat(1019.25)))
	suite.assertAllExpectations()
}

func (suite *PaymentServiceTestSuite) TestProcessPaymentWithRestrictedAccount() {
	req := processRequest()
	req.IdempotencyKey = ""

	account := activeAccount()
	account.Status = domain.AccountRestricted
	account.PayoutsEnabled = false

	suite.mockMethodRepo.On("FindPaymentMethodByID", suite.ctx, testMethodID).Return(activeCardMethod(), nil).Once()
	suite.mockChargeRepo.On("FindChargesByIDs", suite.ctx, req.ChargeIDs).Return(unpaidCharges(), nil).Once()
	suite.mockOrgRepo.On("FindOrganizationByID", suite.ctx, testOrgID).Return(landlordAbsorbsOrg(), nil).Once()
	suite.mockAccountRepo.On("FindByOrganizationID", suite.ctx, testOrgID).Return(account, nil).Once()

	result, err := suite.service.ProcessPayment(suite.ctx, req)

	suite.Require().NoError(err)
	suite.False(result.Success)
	suite.Equal(domain.FailurePayoutNotConfigured, result.FailureReason)
	suite.NotNil(result.Fees)
	suite.assertAllExpectations()
}

func (suite *PaymentServiceTestSuite) TestProcessPaymentDeclinedAtSubmission() {
	req := processRequest()
	suite.expectValidationReads()
	suite.mockPaymentRepo.On("CreatePending", suite.ctx, mock.AnythingOfType("domain.Payment")).Return(nil).Once()

	apiErr := &gateways.APIError{StatusCode: 402, Code: "card_declined", Message: "insufficient funds"}
	suite.mockProcessor.On("CreateCharge", suite.ctx, mock.AnythingOfType("gateways.ChargeRequest")).Return(nil, apiErr).Once()

	suite.mockPaymentRepo.On("MarkFailed", suite.ctx, mock.AnythingOfType("string"), domain.FailureProcessorDeclined, "insufficient funds", testTenantID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockPaymentRepo.On("FindPaymentByID", suite.ctx, mock.AnythingOfType("string")).Return(&domain.Payment{
		PaymentID:     "p-1",
		Status:        domain.PaymentFailed,
		FailureReason: domain.FailureProcessorDeclined,
		FailureDetail: "insufficient funds",
	}, nil).Once()

	result, err := suite.service.ProcessPayment(suite.ctx, req)

	suite.Require().NoError(err)
	suite.False(result.Success)
	suite.Equal(domain.FailureProcessorDeclined, result.FailureReason)
	suite.Len(suite.events.named("payment_failed"), 1)
	suite.assertAllExpectations()
}

func (suite *PaymentServiceTestSuite) TestProcessPaymentAmbiguousOutcomeParksProcessing() {
	req := processRequest()
	suite.expectValidationReads()
	suite.mockPaymentRepo.On("CreatePending", suite.ctx, mock.AnythingOfType("domain.Payment")).Return(nil).Once()

	// Transport failure: the charge may or may not have reached the
	// processor. The payment must not be marked failed.
	suite.mockProcessor.On("CreateCharge", suite.ctx, mock.AnythingOfType("gateways.ChargeRequest")).Return(nil, gateways.ErrUnavailable).Once()

	suite.mockPaymentRepo.On("MarkProcessing", suite.ctx, mock.AnythingOfType("string"), "", testTenantID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockPaymentRepo.On("FindPaymentByID", suite.ctx, mock.AnythingOfType("string")).Return(&domain.Payment{
		PaymentID: "p-1",
		Status:    domain.PaymentProcessing,
	}, nil).Once()

	result, err := suite.service.ProcessPayment(suite.ctx, req)

	suite.Require().NoError(err)
	suite.False(result.Success)
	suite.Equal(domain.PaymentProcessing, result.Status)
	suite.mockPaymentRepo.AssertNotCalled(suite.T(), "MarkFailed", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.assertAllExpectations()
}

func (suite *PaymentServiceTestSuite) TestProcessPaymentProcessorReportsFailed() {
	req := processRequest()
	suite.expectValidationReads()
	suite.mockPaymentRepo.On("CreatePending", suite.ctx, mock.AnythingOfType("domain.Payment")).Return(nil).Once()

	suite.mockProcessor.On("CreateCharge", suite.ctx, mock.AnythingOfType("gateways.ChargeRequest")).Return(&gateways.ChargeResult{
		ChargeID:      "ch_1",
		Status:        gateways.ChargeStatusFailed,
		DeclineReason: "expired card",
	}, nil).Once()

	suite.mockPaymentRepo.On("MarkFailed", suite.ctx, mock.AnythingOfType("string"), domain.FailureProcessorDeclined, "expired card", testTenantID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockPaymentRepo.On("FindPaymentByID", suite.ctx, mock.AnythingOfType("string")).Return(&domain.Payment{
		PaymentID:     "p-1",
		Status:        domain.PaymentFailed,
		FailureReason: domain.FailureProcessorDeclined,
		FailureDetail: "expired card",
	}, nil).Once()

	result, err := suite.service.ProcessPayment(suite.ctx, req)

	suite.Require().NoError(err)
	suite.False(result.Success)
	suite.Equal("expired card", result.FailureDetail)
	suite.assertAllExpectations()
}

func (suite *PaymentServiceTestSuite) TestGetPaymentHiddenFromStrangers() {
	payment := &domain.Payment{
		PaymentID:      "p-1",
		OrganizationID: testOrgID,
		TenantID:       testTenantID,
	}
	suite.mockPaymentRepo.On("FindPaymentByID", suite.ctx, "p-1").Return(payment, nil).Twice()
	suite.mockOrgRepo.On("FindOrganizationByID", suite.ctx, testOrgID).Return(landlordAbsorbsOrg(), nil).Twice()

	got, err := suite.service.GetPayment(suite.ctx, "p-1", testOwnerID)
	suite.Require().NoError(err)
	suite.Equal("p-1", got.PaymentID)

	_, err = suite.service.GetPayment(suite.ctx, "p-1", "stranger")
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.assertAllExpectations()
}

func (suite *PaymentServiceTestSuite) TestListTenantPaymentsClampsLimit() {
	suite.mockPaymentRepo.On("ListByTenant", suite.ctx, testTenantID, 100, (*string)(nil)).Return([]domain.Payment{}, nil, nil).Once()

	_, err := suite.service.ListTenantPayments(suite.ctx, testTenantID, dto.ListPaymentsParams{Limit: 500})

	suite.Require().NoError(err)
	suite.assertAllExpectations()
}

func (suite *PaymentServiceTestSuite) TestReconcileLeavesTerminalPaymentUntouched() {
	payment := &domain.Payment{
		PaymentID:         "p-1",
		ProcessorChargeID: "ch_1",
		Status:            domain.PaymentSucceeded,
	}
	suite.mockPaymentRepo.On("FindByProcessorChargeID", suite.ctx, "ch_1").Return(payment, nil).Once()

	got, err := suite.service.ReconcileTransaction(suite.ctx, dto.ReconcileRequest{
		ProcessorChargeID: "ch_1",
		FinalStatus:       gateways.ChargeStatusFailed,
	})

	suite.Require().NoError(err)
	suite.Equal(domain.PaymentSucceeded, got.Status)
	suite.mockPaymentRepo.AssertNotCalled(suite.T(), "MarkFailed", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.assertAllExpectations()
}

func (suite *PaymentServiceTestSuite) TestReconcileResolvesProcessingPayment() {
	payment := &domain.Payment{
		PaymentID:         "p-1",
		TenantID:          testTenantID,
		OrganizationID:    testOrgID,
		ProcessorChargeID: "ch_1",
		ChargeIDs:         []string{"charge-1", "charge-2"},
		Amount:            decimal.NewFromFloat(1050),
		Status:            domain.PaymentProcessing,
	}
	suite.mockPaymentRepo.On("FindByProcessorChargeID", suite.ctx, "ch_1").Return(payment, nil).Once()
	suite.mockPaymentRepo.On("MarkSucceeded", suite.ctx, "p-1", "ch_1", "https://receipts.test/ch_1", payment.ChargeIDs, testSystemUser, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockPaymentRepo.On("FindPaymentByID", suite.ctx, "p-1").Return(&domain.Payment{
		PaymentID: "p-1",
		Status:    domain.PaymentSucceeded,
	}, nil).Once()

	got, err := suite.service.ReconcileTransaction(suite.ctx, dto.ReconcileRequest{
		ProcessorChargeID: "ch_1",
		FinalStatus:       gateways.ChargeStatusSucceeded,
		ReceiptURL:        "https://receipts.test/ch_1",
	})

	suite.Require().NoError(err)
	suite.Equal(domain.PaymentSucceeded, got.Status)
	suite.Len(suite.events.named("payment_succeeded"), 1)
	suite.assertAllExpectations()
}

func TestPaymentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentServiceTestSuite))
}
