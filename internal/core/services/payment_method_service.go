package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rentora/rentora_payments/internal/apperrors"
	"github.com/rentora/rentora_payments/internal/core/domain"
	"github.com/rentora/rentora_payments/internal/core/ports/gateways"
	portsrepo "github.com/rentora/rentora_payments/internal/core/ports/repositories"
	portssvc "github.com/rentora/rentora_payments/internal/core/ports/services"
	"github.com/rentora/rentora_payments/internal/dto"
	"github.com/rentora/rentora_payments/internal/middleware"
)

// methodClassToProcessor maps local method classes to processor wire names.
var methodClassToProcessor = map[domain.PaymentMethodClass]string{
	domain.MethodCard:          "card",
	domain.MethodUSBankAccount: "us_bank_account",
	domain.MethodWallet:        "wallet",
}

// processorToMethodClass is the inverse of methodClassToProcessor.
var processorToMethodClass = map[string]domain.PaymentMethodClass{
	"card":            domain.MethodCard,
	"us_bank_account": domain.MethodUSBankAccount,
	"wallet":          domain.MethodWallet,
}

// paymentMethodService manages tenants' saved payment instruments.
type paymentMethodService struct {
	methodRepo  portsrepo.PaymentMethodRepositoryFacade
	autoPayRepo portsrepo.AutoPayRepositoryFacade
	processor   gateways.PaymentProcessor
	events      gateways.EventSink
	now         func() time.Time
}

// NewPaymentMethodService creates a new PaymentMethodService.
func NewPaymentMethodService(methodRepo portsrepo.PaymentMethodRepositoryFacade, autoPayRepo portsrepo.AutoPayRepositoryFacade, processor gateways.PaymentProcessor, events gateways.EventSink) portssvc.PaymentMethodSvcFacade {
	return &paymentMethodService{
		methodRepo:  methodRepo,
		autoPayRepo: autoPayRepo,
		processor:   processor,
		events:      events,
		now:         time.Now,
	}
}

var _ portssvc.PaymentMethodSvcFacade = (*paymentMethodService)(nil)

// ensureCustomer returns the tenant's processor customer ID, creating the
// customer record on first use. A concurrent first-time race resolves to the
// first writer, so the stored mapping is re-read after saving.
func (s *paymentMethodService) ensureCustomer(ctx context.Context, tenantID string) (string, error) {
	customerID, err := s.methodRepo.FindCustomerIDByTenant(ctx, tenantID)
	if err == nil {
		return customerID, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return "", err
	}

	customer, err := s.processor.CreateCustomer(ctx, tenantID)
	if err != nil {
		return "", fmt.Errorf("failed to create processor customer for tenant %s: %w", tenantID, err)
	}
	if err := s.methodRepo.SaveCustomerID(ctx, tenantID, customer.ID, s.now()); err != nil {
		return "", err
	}
	return s.methodRepo.FindCustomerIDByTenant(ctx, tenantID)
}

// CreateSetupSession opens a processor session for collecting a new
// instrument.
func (s *paymentMethodService) CreateSetupSession(ctx context.Context, tenantID string, req dto.CreateSetupSessionRequest) (*dto.SetupSessionResponse, error) {
	customerID, err := s.ensureCustomer(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	classes := make([]string, len(req.AllowedMethodClasses))
	for i, class := range req.AllowedMethodClasses {
		wire, ok := methodClassToProcessor[class]
		if !ok {
			return nil, fmt.Errorf("%w: unknown method class %q", apperrors.ErrValidation, class)
		}
		classes[i] = wire
	}

	session, err := s.processor.CreateSetupSession(ctx, customerID, classes, req.ReturnURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create setup session for tenant %s: %w", tenantID, err)
	}
	return &dto.SetupSessionResponse{
		SessionID:    session.SessionID,
		ClientSecret: session.ClientSecret,
		ExpiresAt:    session.ExpiresAt,
	}, nil
}

// SaveMethod attaches the collected instrument to the tenant's processor
// customer and persists the local row. A tenant's first method becomes the
// default automatically.
func (s *paymentMethodService) SaveMethod(ctx context.Context, tenantID string, req dto.SavePaymentMethodRequest, userID string) (*domain.PaymentMethod, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	customerID, err := s.methodRepo.FindCustomerIDByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	token, err := s.processor.GetPaymentMethod(ctx, req.ProcessorMethodID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up processor method %s: %w", req.ProcessorMethodID, err)
	}
	class, ok := processorToMethodClass[token.Class]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported processor method class %q", apperrors.ErrValidation, token.Class)
	}

	if err := s.processor.AttachPaymentMethod(ctx, customerID, req.ProcessorMethodID); err != nil {
		return nil, fmt.Errorf("failed to attach processor method %s: %w", req.ProcessorMethodID, err)
	}

	existing, err := s.methodRepo.ListActiveByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	method := domain.PaymentMethod{
		PaymentMethodID:   uuid.NewString(),
		TenantID:          tenantID,
		ProcessorMethodID: req.ProcessorMethodID,
		MethodClass:       class,
		Last4:             token.Last4,
		Brand:             token.Brand,
		Nickname:          req.Nickname,
		IsDefault:         req.SetAsDefault || len(existing) == 0,
		Status:            domain.MethodActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.methodRepo.SavePaymentMethod(ctx, method); err != nil {
		return nil, err
	}

	logger.Info("Payment method saved",
		slog.String("tenant_id", tenantID),
		slog.String("payment_method_id", method.PaymentMethodID),
		slog.String("method_class", string(class)),
	)
	s.events.Emit(userID, "payment_method_saved", map[string]any{
		"tenant_id":         tenantID,
		"payment_method_id": method.PaymentMethodID,
		"method_class":      string(class),
	})
	return &method, nil
}

// ListMethods returns the tenant's active methods, default first.
func (s *paymentMethodService) ListMethods(ctx context.Context, tenantID string) ([]domain.PaymentMethod, error) {
	return s.methodRepo.ListActiveByTenant(ctx, tenantID)
}

// ownedActiveMethod fetches the method and verifies tenant ownership. A
// method belonging to another tenant reads as not found so IDs cannot be
// probed.
func (s *paymentMethodService) ownedActiveMethod(ctx context.Context, tenantID, paymentMethodID string) (*domain.PaymentMethod, error) {
	method, err := s.methodRepo.FindPaymentMethodByID(ctx, paymentMethodID)
	if err != nil {
		return nil, err
	}
	if method.TenantID != tenantID || method.Status != domain.MethodActive {
		return nil, fmt.Errorf("%w: payment method %s", apperrors.ErrNotFound, paymentMethodID)
	}
	return method, nil
}

// SetDefault makes the given method the tenant's single default.
func (s *paymentMethodService) SetDefault(ctx context.Context, tenantID string, paymentMethodID string, userID string) error {
	if _, err := s.ownedActiveMethod(ctx, tenantID, paymentMethodID); err != nil {
		return err
	}
	return s.methodRepo.SetDefault(ctx, tenantID, paymentMethodID, userID, s.now())
}

// UpdateNickname renames a saved method.
func (s *paymentMethodService) UpdateNickname(ctx context.Context, tenantID string, paymentMethodID string, nickname string, userID string) error {
	if _, err := s.ownedActiveMethod(ctx, tenantID, paymentMethodID); err != nil {
		return err
	}
	return s.methodRepo.UpdateNickname(ctx, tenantID, paymentMethodID, nickname, userID, s.now())
}

// Remove detaches the instrument from the processor and tombstones the local
// row. Methods referenced by an active autopay schedule are refused; the
// caller must cancel or repoint the schedule first.
func (s *paymentMethodService) Remove(ctx context.Context, tenantID string, paymentMethodID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	method, err := s.ownedActiveMethod(ctx, tenantID, paymentMethodID)
	if err != nil {
		return err
	}

	referenced, err := s.autoPayRepo.ExistsActiveForMethod(ctx, paymentMethodID)
	if err != nil {
		return err
	}
	if referenced {
		return fmt.Errorf("%w: payment method %s is used by an active autopay schedule", apperrors.ErrConflict, paymentMethodID)
	}

	if err := s.processor.DetachPaymentMethod(ctx, method.ProcessorMethodID); err != nil {
		return fmt.Errorf("failed to detach processor method %s: %w", method.ProcessorMethodID, err)
	}
	if err := s.methodRepo.MarkRemoved(ctx, tenantID, paymentMethodID, userID, s.now()); err != nil {
		return err
	}

	logger.Info("Payment method removed", slog.String("tenant_id", tenantID), slog.String("payment_method_id", paymentMethodID))
	s.events.Emit(userID, "payment_method_removed", map[string]any{
		"tenant_id":         tenantID,
		"payment_method_id": paymentMethodID,
	})
	return nil
}
