package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/rentora/rentora_payments/internal/apperrors"
	"github.com/rentora/rentora_payments/internal/core/domain"
	"github.com/rentora/rentora_payments/internal/core/ports/gateways"
	portssvc "github.com/rentora/rentora_payments/internal/core/ports/services"
	"github.com/rentora/rentora_payments/internal/core/services"
	"github.com/rentora/rentora_payments/internal/dto"
)

type PaymentMethodServiceTestSuite struct {
	suite.Suite
	ctx             context.Context
	mockMethodRepo  *MockPaymentMethodRepository
	mockAutoPayRepo *MockAutoPayRepository
	mockProcessor   *MockPaymentProcessor
	events          *fakeEventSink
	service         portssvc.PaymentMethodSvcFacade
}

func (suite *PaymentMethodServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.mockMethodRepo = new(MockPaymentMethodRepository)
	suite.mockAutoPayRepo = new(MockAutoPayRepository)
	suite.mockProcessor = new(MockPaymentProcessor)
	suite.events = new(fakeEventSink)
	suite.service = services.NewPaymentMethodService(suite.mockMethodRepo, suite.mockAutoPayRepo, suite.mockProcessor, suite.events)
}

func (suite *PaymentMethodServiceTestSuite) assertAllExpectations() {
	suite.mockMethodRepo.AssertExpectations(suite.T())
	suite.mockAutoPayRepo.AssertExpectations(suite.T())
	suite.mockProcessor.AssertExpectations(suite.T())
}

func (suite *PaymentMethodServiceTestSuite) TestCreateSetupSessionCreatesCustomerOnFirstUse() {
	suite.mockMethodRepo.On("FindCustomerIDByTenant", suite.ctx, testTenantID).Return("", apperrors.ErrNotFound).Once()
	suite.mockProcessor.On("CreateCustomer", suite.ctx, testTenantID).Return(&gateways.Customer{ID: "cus_new"}, nil).Once()
	suite.mockMethodRepo.On("SaveCustomerID", suite.ctx, testTenantID, "cus_new", mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockMethodRepo.On("FindCustomerIDByTenant", suite.ctx, testTenantID).Return("cus_new", nil).Once()

	expires := time.Now().Add(30 * time.Minute)
	suite.mockProcessor.On("CreateSetupSession", suite.ctx, "cus_new", []string{"card", "us_bank_account"}, "https://app.test/done").Return(&gateways.SetupSession{
		SessionID:    "ss_1",
		ClientSecret: "secret_1",
		ExpiresAt:    expires,
	}, nil).Once()

	resp, err := suite.service.CreateSetupSession(suite.ctx, testTenantID, dto.CreateSetupSessionRequest{
		AllowedMethodClasses: []domain.PaymentMethodClass{domain.MethodCard, domain.MethodUSBankAccount},
		ReturnURL:            "https://app.test/done",
	})

	suite.Require().NoError(err)
	suite.Equal("ss_1", resp.SessionID)
	suite.Equal("secret_1", resp.ClientSecret)
	suite.assertAllExpectations()
}

func (suite *PaymentMethodServiceTestSuite) TestCreateSetupSessionReusesExistingCustomer() {
	suite.mockMethodRepo.On("FindCustomerIDByTenant", suite.ctx, testTenantID).Return(testCustomerID, nil).Once()
	suite.mockProcessor.On("CreateSetupSession", suite.ctx, testCustomerID, []string{"card"}, "https://app.test/done").Return(&gateways.SetupSession{SessionID: "ss_1"}, nil).Once()

	_, err := suite.service.CreateSetupSession(suite.ctx, testTenantID, dto.CreateSetupSessionRequest{
		AllowedMethodClasses: []domain.PaymentMethodClass{domain.MethodCard},
		ReturnURL:            "https://app.test/done",
	})

	suite.Require().NoError(err)
	suite.mockProcessor.AssertNotCalled(suite.T(), "CreateCustomer", mock.Anything, mock.Anything)
	suite.assertAllExpectations()
}

func (suite *PaymentMethodServiceTestSuite) TestSaveMethodFirstBecomesDefault() {
	suite.mockMethodRepo.On("FindCustomerIDByTenant", suite.ctx, testTenantID).Return(testCustomerID, nil).Once()
	suite.mockProcessor.On("GetPaymentMethod", suite.ctx, "proc_pm_1").Return(&gateways.MethodToken{
		ID:    "proc_pm_1",
		Class: "card",
		Last4: "4242",
		Brand: "visa",
	}, nil).Once()
	suite.mockProcessor.On("AttachPaymentMethod", suite.ctx, testCustomerID, "proc_pm_1").Return(nil).Once()
	suite.mockMethodRepo.On("ListActiveByTenant", suite.ctx, testTenantID).Return([]domain.PaymentMethod{}, nil).Once()
	suite.mockMethodRepo.On("SavePaymentMethod", suite.ctx, mock.MatchedBy(func(m domain.PaymentMethod) bool {
		return m.IsDefault && m.MethodClass == domain.MethodCard && m.Last4 == "4242" && m.Status == domain.MethodActive
	})).Return(nil).Once()

	method, err := suite.service.SaveMethod(suite.ctx, testTenantID, dto.SavePaymentMethodRequest{
		ProcessorMethodID: "proc_pm_1",
	}, testTenantID)

	suite.Require().NoError(err)
	suite.True(method.IsDefault)
	suite.Len(suite.events.named("payment_method_saved"), 1)
	suite.assertAllExpectations()
}

func (suite *PaymentMethodServiceTestSuite) TestSaveMethodKeepsExistingDefault() {
	suite.mockMethodRepo.On("FindCustomerIDByTenant", suite.ctx, testTenantID).Return(testCustomerID, nil).Once()
	suite.mockProcessor.On("GetPaymentMethod", suite.ctx, "proc_pm_2").Return(&gateways.MethodToken{
		ID:    "proc_pm_2",
		Class: "us_bank_account",
		Last4: "6789",
		Brand: "Chase",
	}, nil).Once()
	suite.mockProcessor.On("AttachPaymentMethod", suite.ctx, testCustomerID, "proc_pm_2").Return(nil).Once()
	suite.mockMethodRepo.On("ListActiveByTenant", suite.ctx, testTenantID).Return([]domain.PaymentMethod{*activeCardMethod()}, nil).Once()
	suite.mockMethodRepo.On("SavePaymentMethod", suite.ctx, mock.MatchedBy(func(m domain.PaymentMethod) bool {
		return !m.IsDefault && m.MethodClass == domain.MethodUSBankAccount
	})).Return(nil).Once()

	method, err := suite.service.SaveMethod(suite.ctx, testTenantID, dto.SavePaymentMethodRequest{
		ProcessorMethodID: "proc_pm_2",
	}, testTenantID)

	suite.Require().NoError(err)
	suite.False(method.IsDefault)
	suite.assertAllExpectations()
}

func (suite *PaymentMethodServiceTestSuite) TestSaveMethodRejectsUnknownProcessorClass() {
	suite.mockMethodRepo.On("FindCustomerIDByTenant", suite.ctx, testTenantID).Return(testCustomerID, nil).Once()
	suite.mockProcessor.On("GetPaymentMethod", suite.ctx, "proc_pm_3").Return(&gateways.MethodToken{
		ID:    "proc_pm_3",
		Class: "crypto",
	}, nil).Once()

	_, err := suite.service.SaveMethod(suite.ctx, testTenantID, dto.SavePaymentMethodRequest{
		ProcessorMethodID: "proc_pm_3",
	}, testTenantID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockProcessor.AssertNotCalled(suite.T(), "AttachPaymentMethod", mock.Anything, mock.Anything, mock.Anything)
	suite.assertAllExpectations()
}

func (suite *PaymentMethodServiceTestSuite) TestSetDefaultHidesForeignMethod() {
	method := activeCardMethod()
	method.TenantID = "someone-else"
	suite.mockMethodRepo.On("FindPaymentMethodByID", suite.ctx, testMethodID).Return(method, nil).Once()

	err := suite.service.SetDefault(suite.ctx, testTenantID, testMethodID, testTenantID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.assertAllExpectations()
}

func (suite *PaymentMethodServiceTestSuite) TestRemoveBlockedByActiveAutoPay() {
	suite.mockMethodRepo.On("FindPaymentMethodByID", suite.ctx, testMethodID).Return(activeCardMethod(), nil).Once()
	suite.mockAutoPayRepo.On("ExistsActiveForMethod", suite.ctx, testMethodID).Return(true, nil).Once()

	err := suite.service.Remove(suite.ctx, testTenantID, testMethodID, testTenantID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockProcessor.AssertNotCalled(suite.T(), "DetachPaymentMethod", mock.Anything, mock.Anything)
	suite.assertAllExpectations()
}

func (suite *PaymentMethodServiceTestSuite) TestRemoveDetachesAndTombstones() {
	suite.mockMethodRepo.On("FindPaymentMethodByID", suite.ctx, testMethodID).Return(activeCardMethod(), nil).Once()
	suite.mockAutoPayRepo.On("ExistsActiveForMethod", suite.ctx, testMethodID).Return(false, nil).Once()
	suite.mockProcessor.On("DetachPaymentMethod", suite.ctx, "proc_pm_1").Return(nil).Once()
	suite.mockMethodRepo.On("MarkRemoved", suite.ctx, testTenantID, testMethodID, testTenantID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.Remove(suite.ctx, testTenantID, testMethodID, testTenantID)

	suite.Require().NoError(err)
	suite.Len(suite.events.named("payment_method_removed"), 1)
	suite.assertAllExpectations()
}

func TestPaymentMethodServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentMethodServiceTestSuite))
}
