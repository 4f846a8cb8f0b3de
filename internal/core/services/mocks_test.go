package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/rentora/rentora_payments/internal/core/domain"
	"github.com/rentora/rentora_payments/internal/core/ports/gateways"
	portsrepo "github.com/rentora/rentora_payments/internal/core/ports/repositories"
	"github.com/rentora/rentora_payments/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock OrganizationRepository ---

type MockOrganizationRepository struct {
	mock.Mock
}

func (m *MockOrganizationRepository) SaveOrganization(ctx context.Context, org domain.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}

func (m *MockOrganizationRepository) FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error) {
	args := m.Called(ctx, organizationID)
	var org *domain.Organization
	if args.Get(0) != nil {
		org = args.Get(0).(*domain.Organization)
	}
	return org, args.Error(1)
}

func (m *MockOrganizationRepository) UpdateFeePolicy(ctx context.Context, organizationID string, policy domain.FeePolicy, updatedBy string, now time.Time) error {
	args := m.Called(ctx, organizationID, policy, updatedBy, now)
	return args.Error(0)
}

func (m *MockOrganizationRepository) UpdatePayoutPolicy(ctx context.Context, organizationID string, policy domain.PayoutPolicy, updatedBy string, now time.Time) error {
	args := m.Called(ctx, organizationID, policy, updatedBy, now)
	return args.Error(0)
}

// --- Mock ConnectedAccountRepository ---

type MockConnectedAccountRepository struct {
	mock.Mock
}

func (m *MockConnectedAccountRepository) SaveConnectedAccount(ctx context.Context, account domain.ConnectedAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockConnectedAccountRepository) FindByOrganizationID(ctx context.Context, organizationID string) (*domain.ConnectedAccount, error) {
	args := m.Called(ctx, organizationID)
	var account *domain.ConnectedAccount
	if args.Get(0) != nil {
		account = args.Get(0).(*domain.ConnectedAccount)
	}
	return account, args.Error(1)
}

func (m *MockConnectedAccountRepository) FindByProcessorAccountID(ctx context.Context, processorAccountID string) (*domain.ConnectedAccount, error) {
	args := m.Called(ctx, processorAccountID)
	var account *domain.ConnectedAccount
	if args.Get(0) != nil {
		account = args.Get(0).(*domain.ConnectedAccount)
	}
	return account, args.Error(1)
}

func (m *MockConnectedAccountRepository) ApplySyncState(ctx context.Context, connectedAccountID string, state portsrepo.ConnectedAccountSyncState, updatedBy string) (bool, error) {
	args := m.Called(ctx, connectedAccountID, state, updatedBy)
	return args.Bool(0), args.Error(1)
}

// --- Mock PaymentMethodRepository ---

type MockPaymentMethodRepository struct {
	mock.Mock
}

func (m *MockPaymentMethodRepository) SavePaymentMethod(ctx context.Context, method domain.PaymentMethod) error {
	args := m.Called(ctx, method)
	return args.Error(0)
}

func (m *MockPaymentMethodRepository) FindPaymentMethodByID(ctx context.Context, paymentMethodID string) (*domain.PaymentMethod, error) {
	args := m.Called(ctx, paymentMethodID)
	var method *domain.PaymentMethod
	if args.Get(0) != nil {
		method = args.Get(0).(*domain.PaymentMethod)
	}
	return method, args.Error(1)
}

func (m *MockPaymentMethodRepository) ListActiveByTenant(ctx context.Context, tenantID string) ([]domain.PaymentMethod, error) {
	args := m.Called(ctx, tenantID)
	var methods []domain.PaymentMethod
	if args.Get(0) != nil {
		methods = args.Get(0).([]domain.PaymentMethod)
	}
	return methods, args.Error(1)
}

func (m *MockPaymentMethodRepository) SetDefault(ctx context.Context, tenantID, paymentMethodID, updatedBy string, now time.Time) error {
	args := m.Called(ctx, tenantID, paymentMethodID, updatedBy, now)
	return args.Error(0)
}

func (m *MockPaymentMethodRepository) UpdateNickname(ctx context.Context, tenantID, paymentMethodID, nickname, updatedBy string, now time.Time) error {
	args := m.Called(ctx, tenantID, paymentMethodID, nickname, updatedBy, now)
	return args.Error(0)
}

func (m *MockPaymentMethodRepository) MarkRemoved(ctx context.Context, tenantID, paymentMethodID, updatedBy string, now time.Time) error {
	args := m.Called(ctx, tenantID, paymentMethodID, updatedBy, now)
	return args.Error(0)
}

func (m *MockPaymentMethodRepository) FindCustomerIDByTenant(ctx context.Context, tenantID string) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

func (m *MockPaymentMethodRepository) SaveCustomerID(ctx context.Context, tenantID, customerID string, now time.Time) error {
	args := m.Called(ctx, tenantID, customerID, now)
	return args.Error(0)
}

// --- Mock ChargeRepository ---

type MockChargeRepository struct {
	mock.Mock
}

func (m *MockChargeRepository) SaveCharge(ctx context.Context, charge domain.Charge) error {
	args := m.Called(ctx, charge)
	return args.Error(0)
}

func (m *MockChargeRepository) FindChargesByIDs(ctx context.Context, chargeIDs []string) (map[string]domain.Charge, error) {
	args := m.Called(ctx, chargeIDs)
	var charges map[string]domain.Charge
	if args.Get(0) != nil {
		charges = args.Get(0).(map[string]domain.Charge)
	}
	return charges, args.Error(1)
}

func (m *MockChargeRepository) ListUnpaidByLease(ctx context.Context, leaseID string, chargeTypes []domain.ChargeType) ([]domain.Charge, error) {
	args := m.Called(ctx, leaseID, chargeTypes)
	var charges []domain.Charge
	if args.Get(0) != nil {
		charges = args.Get(0).([]domain.Charge)
	}
	return charges, args.Error(1)
}

// --- Mock PaymentRepository ---

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) CreatePending(ctx context.Context, payment domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID)
	var payment *domain.Payment
	if args.Get(0) != nil {
		payment = args.Get(0).(*domain.Payment)
	}
	return payment, args.Error(1)
}

func (m *MockPaymentRepository) FindByIdempotencyKey(ctx context.Context, idempotencyKey string) (*domain.Payment, error) {
	args := m.Called(ctx, idempotencyKey)
	var payment *domain.Payment
	if args.Get(0) != nil {
		payment = args.Get(0).(*domain.Payment)
	}
	return payment, args.Error(1)
}

func (m *MockPaymentRepository) FindByProcessorChargeID(ctx context.Context, processorChargeID string) (*domain.Payment, error) {
	args := m.Called(ctx, processorChargeID)
	var payment *domain.Payment
	if args.Get(0) != nil {
		payment = args.Get(0).(*domain.Payment)
	}
	return payment, args.Error(1)
}

func (m *MockPaymentRepository) MarkSucceeded(ctx context.Context, paymentID, processorChargeID, receiptURL string, chargeIDs []string, updatedBy string, now time.Time) error {
	args := m.Called(ctx, paymentID, processorChargeID, receiptURL, chargeIDs, updatedBy, now)
	return args.Error(0)
}

func (m *MockPaymentRepository) MarkFailed(ctx context.Context, paymentID string, reason domain.FailureReason, detail, updatedBy string, now time.Time) error {
	args := m.Called(ctx, paymentID, reason, detail, updatedBy, now)
	return args.Error(0)
}

func (m *MockPaymentRepository) MarkProcessing(ctx context.Context, paymentID, processorChargeID, updatedBy string, now time.Time) error {
	args := m.Called(ctx, paymentID, processorChargeID, updatedBy, now)
	return args.Error(0)
}

func (m *MockPaymentRepository) ListByTenant(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.Payment, *string, error) {
	args := m.Called(ctx, tenantID, limit, nextToken)
	var payments []domain.Payment
	if args.Get(0) != nil {
		payments = args.Get(0).([]domain.Payment)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return payments, token, args.Error(2)
}

// --- Mock AutoPayRepository ---

type MockAutoPayRepository struct {
	mock.Mock
}

func (m *MockAutoPayRepository) SaveSchedule(ctx context.Context, schedule domain.AutoPaySchedule) error {
	args := m.Called(ctx, schedule)
	return args.Error(0)
}

func (m *MockAutoPayRepository) FindScheduleByID(ctx context.Context, scheduleID string) (*domain.AutoPaySchedule, error) {
	args := m.Called(ctx, scheduleID)
	var schedule *domain.AutoPaySchedule
	if args.Get(0) != nil {
		schedule = args.Get(0).(*domain.AutoPaySchedule)
	}
	return schedule, args.Error(1)
}

func (m *MockAutoPayRepository) FindActiveByTenantAndLease(ctx context.Context, tenantID, leaseID string) (*domain.AutoPaySchedule, error) {
	args := m.Called(ctx, tenantID, leaseID)
	var schedule *domain.AutoPaySchedule
	if args.Get(0) != nil {
		schedule = args.Get(0).(*domain.AutoPaySchedule)
	}
	return schedule, args.Error(1)
}

func (m *MockAutoPayRepository) ListByTenant(ctx context.Context, tenantID string) ([]domain.AutoPaySchedule, error) {
	args := m.Called(ctx, tenantID)
	var schedules []domain.AutoPaySchedule
	if args.Get(0) != nil {
		schedules = args.Get(0).([]domain.AutoPaySchedule)
	}
	return schedules, args.Error(1)
}

func (m *MockAutoPayRepository) UpdateSchedule(ctx context.Context, schedule domain.AutoPaySchedule) error {
	args := m.Called(ctx, schedule)
	return args.Error(0)
}

func (m *MockAutoPayRepository) Deactivate(ctx context.Context, scheduleID, updatedBy string, now time.Time) error {
	args := m.Called(ctx, scheduleID, updatedBy, now)
	return args.Error(0)
}

func (m *MockAutoPayRepository) ListDue(ctx context.Context, asOf time.Time) ([]domain.AutoPaySchedule, error) {
	args := m.Called(ctx, asOf)
	var schedules []domain.AutoPaySchedule
	if args.Get(0) != nil {
		schedules = args.Get(0).([]domain.AutoPaySchedule)
	}
	return schedules, args.Error(1)
}

func (m *MockAutoPayRepository) RecordRunResult(ctx context.Context, scheduleID string, result domain.AutoPayResult, detail string, consecutiveFailures int, runAt time.Time, updatedBy string) error {
	args := m.Called(ctx, scheduleID, result, detail, consecutiveFailures, runAt, updatedBy)
	return args.Error(0)
}

func (m *MockAutoPayRepository) ExistsActiveForMethod(ctx context.Context, paymentMethodID string) (bool, error) {
	args := m.Called(ctx, paymentMethodID)
	return args.Bool(0), args.Error(1)
}

// --- Mock PaymentProcessor ---

type MockPaymentProcessor struct {
	mock.Mock
}

func (m *MockPaymentProcessor) CreateAccount(ctx context.Context, businessType, entityType, name string) (*gateways.Account, error) {
	args := m.Called(ctx, businessType, entityType, name)
	var account *gateways.Account
	if args.Get(0) != nil {
		account = args.Get(0).(*gateways.Account)
	}
	return account, args.Error(1)
}

func (m *MockPaymentProcessor) GetAccount(ctx context.Context, processorAccountID string) (*gateways.Account, error) {
	args := m.Called(ctx, processorAccountID)
	var account *gateways.Account
	if args.Get(0) != nil {
		account = args.Get(0).(*gateways.Account)
	}
	return account, args.Error(1)
}

func (m *MockPaymentProcessor) CreateAccountLink(ctx context.Context, processorAccountID, refreshURL, returnURL string) (*gateways.AccountLink, error) {
	args := m.Called(ctx, processorAccountID, refreshURL, returnURL)
	var link *gateways.AccountLink
	if args.Get(0) != nil {
		link = args.Get(0).(*gateways.AccountLink)
	}
	return link, args.Error(1)
}

func (m *MockPaymentProcessor) CreateLoginLink(ctx context.Context, processorAccountID string) (*gateways.LoginLink, error) {
	args := m.Called(ctx, processorAccountID)
	var link *gateways.LoginLink
	if args.Get(0) != nil {
		link = args.Get(0).(*gateways.LoginLink)
	}
	return link, args.Error(1)
}

func (m *MockPaymentProcessor) UpdatePayoutDelay(ctx context.Context, processorAccountID string, delayDays int) error {
	args := m.Called(ctx, processorAccountID, delayDays)
	return args.Error(0)
}

func (m *MockPaymentProcessor) CreateCustomer(ctx context.Context, tenantID string) (*gateways.Customer, error) {
	args := m.Called(ctx, tenantID)
	var customer *gateways.Customer
	if args.Get(0) != nil {
		customer = args.Get(0).(*gateways.Customer)
	}
	return customer, args.Error(1)
}

func (m *MockPaymentProcessor) CreateSetupSession(ctx context.Context, customerID string, methodClasses []string, returnURL string) (*gateways.SetupSession, error) {
	args := m.Called(ctx, customerID, methodClasses, returnURL)
	var session *gateways.SetupSession
	if args.Get(0) != nil {
		session = args.Get(0).(*gateways.SetupSession)
	}
	return session, args.Error(1)
}

func (m *MockPaymentProcessor) GetPaymentMethod(ctx context.Context, processorMethodID string) (*gateways.MethodToken, error) {
	args := m.Called(ctx, processorMethodID)
	var token *gateways.MethodToken
	if args.Get(0) != nil {
		token = args.Get(0).(*gateways.MethodToken)
	}
	return token, args.Error(1)
}

func (m *MockPaymentProcessor) AttachPaymentMethod(ctx context.Context, customerID, processorMethodID string) error {
	args := m.Called(ctx, customerID, processorMethodID)
	return args.Error(0)
}

func (m *MockPaymentProcessor) DetachPaymentMethod(ctx context.Context, processorMethodID string) error {
	args := m.Called(ctx, processorMethodID)
	return args.Error(0)
}

func (m *MockPaymentProcessor) CreateCharge(ctx context.Context, req gateways.ChargeRequest) (*gateways.ChargeResult, error) {
	args := m.Called(ctx, req)
	var result *gateways.ChargeResult
	if args.Get(0) != nil {
		result = args.Get(0).(*gateways.ChargeResult)
	}
	return result, args.Error(1)
}

// --- Fake EventSink ---

type recordedEvent struct {
	DistinctID string
	Event      string
	Properties map[string]any
}

// fakeEventSink records emitted events for assertions.
type fakeEventSink struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (f *fakeEventSink) Emit(distinctID string, event string, properties map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, recordedEvent{DistinctID: distinctID, Event: event, Properties: properties})
}

func (f *fakeEventSink) named(event string) []recordedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []recordedEvent
	for _, e := range f.events {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

// --- Mock PaymentSvc (for the autopay scheduler tests) ---

type MockPaymentSvc struct {
	mock.Mock
}

func (m *MockPaymentSvc) ProcessPayment(ctx context.Context, req dto.ProcessPaymentRequest) (*dto.PaymentResult, error) {
	args := m.Called(ctx, req)
	var result *dto.PaymentResult
	if args.Get(0) != nil {
		result = args.Get(0).(*dto.PaymentResult)
	}
	return result, args.Error(1)
}

func (m *MockPaymentSvc) GetPayment(ctx context.Context, paymentID string, callerID string) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID, callerID)
	var payment *domain.Payment
	if args.Get(0) != nil {
		payment = args.Get(0).(*domain.Payment)
	}
	return payment, args.Error(1)
}

func (m *MockPaymentSvc) ListTenantPayments(ctx context.Context, tenantID string, params dto.ListPaymentsParams) (*dto.ListPaymentsResponse, error) {
	args := m.Called(ctx, tenantID, params)
	var resp *dto.ListPaymentsResponse
	if args.Get(0) != nil {
		resp = args.Get(0).(*dto.ListPaymentsResponse)
	}
	return resp, args.Error(1)
}

func (m *MockPaymentSvc) ReconcileTransaction(ctx context.Context, req dto.ReconcileRequest) (*domain.Payment, error) {
	args := m.Called(ctx, req)
	var payment *domain.Payment
	if args.Get(0) != nil {
		payment = args.Get(0).(*domain.Payment)
	}
	return payment, args.Error(1)
}
