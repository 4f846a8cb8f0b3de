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

// connectedAccountService manages the processor account lifecycle for
// organizations.
type connectedAccountService struct {
	accountRepo portsrepo.ConnectedAccountRepositoryFacade
	orgRepo     portsrepo.OrganizationRepositoryFacade
	processor   gateways.PaymentProcessor
	events      gateways.EventSink
	now         func() time.Time
}

// NewConnectedAccountService creates a new ConnectedAccountService.
func NewConnectedAccountService(accountRepo portsrepo.ConnectedAccountRepositoryFacade, orgRepo portsrepo.OrganizationRepositoryFacade, processor gateways.PaymentProcessor, events gateways.EventSink) portssvc.ConnectedAccountSvcFacade {
	return &connectedAccountService{
		accountRepo: accountRepo,
		orgRepo:     orgRepo,
		processor:   processor,
		events:      events,
		now:         time.Now,
	}
}

var _ portssvc.ConnectedAccountSvcFacade = (*connectedAccountService)(nil)

// mapProcessorStatus converts a processor-reported account status to the
// local lifecycle status. ACTIVE always implies both capabilities are on, so
// an active report with a capability switched off lands as RESTRICTED.
func mapProcessorStatus(status string, chargesEnabled, payoutsEnabled bool) domain.ConnectedAccountStatus {
	switch status {
	case gateways.ProcessorAccountActive:
		if !chargesEnabled || !payoutsEnabled {
			return domain.AccountRestricted
		}
		return domain.AccountActive
	case gateways.ProcessorAccountRestricted:
		return domain.AccountRestricted
	case gateways.ProcessorAccountRejected:
		return domain.AccountRejected
	default:
		return domain.AccountOnboarding
	}
}

// CreateAccount provisions a processor account and records the local link in
// ONBOARDING. The local row is written only after the processor confirms
// creation, and the unique organization index makes retries idempotent.
func (s *connectedAccountService) CreateAccount(ctx context.Context, organizationID string, req dto.CreateConnectedAccountRequest, userID string) (*domain.ConnectedAccount, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	org, err := s.orgRepo.FindOrganizationByID(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	if org.OwnerUserID != userID {
		return nil, fmt.Errorf("%w: user %s is not the owner of organization %s", apperrors.ErrForbidden, userID, organizationID)
	}

	existing, err := s.accountRepo.FindByOrganizationID(ctx, organizationID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: organization %s already has a connected account", apperrors.ErrDuplicate, organizationID)
	}

	processorAccount, err := s.processor.CreateAccount(ctx, req.BusinessType, req.EntityType, req.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to create processor account: %w", err)
	}

	now := s.now()
	account := domain.ConnectedAccount{
		ConnectedAccountID: uuid.NewString(),
		OrganizationID:     organizationID,
		ProcessorAccountID: processorAccount.ID,
		Status:             domain.AccountOnboarding,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.accountRepo.SaveConnectedAccount(ctx, account); err != nil {
		// A concurrent create won the unique index race; the processor
		// account it registered is the canonical one.
		if errors.Is(err, apperrors.ErrDuplicate) {
			return s.accountRepo.FindByOrganizationID(ctx, organizationID)
		}
		return nil, err
	}

	logger.Info("Connected account created",
		slog.String("organization_id", organizationID),
		slog.String("processor_account_id", processorAccount.ID),
	)
	s.events.Emit(userID, "connected_account_created", map[string]any{
		"organization_id":      organizationID,
		"connected_account_id": account.ConnectedAccountID,
	})
	return &account, nil
}

func (s *connectedAccountService) GetAccount(ctx context.Context, organizationID string) (*domain.ConnectedAccount, error) {
	return s.accountRepo.FindByOrganizationID(ctx, organizationID)
}

// GetOnboardingURL mints a fresh onboarding link. Safe to call repeatedly;
// each call produces a new short-lived URL.
func (s *connectedAccountService) GetOnboardingURL(ctx context.Context, organizationID string, req dto.OnboardingLinkRequest) (*dto.OnboardingLinkResponse, error) {
	account, err := s.accountRepo.FindByOrganizationID(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	if account.Status == domain.AccountRejected {
		return nil, fmt.Errorf("%w: connected account for organization %s was rejected", apperrors.ErrNotActive, organizationID)
	}

	link, err := s.processor.CreateAccountLink(ctx, account.ProcessorAccountID, req.RefreshURL, req.ReturnURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create onboarding link: %w", err)
	}
	return &dto.OnboardingLinkResponse{URL: link.URL, ExpiresAt: link.ExpiresAt}, nil
}

// GetExpressDashboardURL mints a one-time processor dashboard login link for
// a fully active account.
func (s *connectedAccountService) GetExpressDashboardURL(ctx context.Context, organizationID string) (*dto.DashboardLinkResponse, error) {
	account, err := s.accountRepo.FindByOrganizationID(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	if account.Status != domain.AccountActive {
		return nil, fmt.Errorf("%w: connected account for organization %s is %s", apperrors.ErrNotActive, organizationID, account.Status)
	}

	link, err := s.processor.CreateLoginLink(ctx, account.ProcessorAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to create dashboard link: %w", err)
	}
	return &dto.DashboardLinkResponse{URL: link.URL}, nil
}

// SyncAccountStatus pulls the processor's current account state and applies
// it through the compare-and-swap on last_synced_at. When a concurrent
// fresher sync already won, the stale snapshot is dropped silently.
func (s *connectedAccountService) SyncAccountStatus(ctx context.Context, organizationID string, userID string) (*domain.ConnectedAccount, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindByOrganizationID(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	snapshotAt := s.now()
	processorAccount, err := s.processor.GetAccount(ctx, account.ProcessorAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch processor account %s: %w", account.ProcessorAccountID, err)
	}

	state := portsrepo.ConnectedAccountSyncState{
		Status:           mapProcessorStatus(processorAccount.Status, processorAccount.ChargesEnabled, processorAccount.PayoutsEnabled),
		ChargesEnabled:   processorAccount.ChargesEnabled,
		PayoutsEnabled:   processorAccount.PayoutsEnabled,
		DetailsSubmitted: processorAccount.DetailsSubmitted,
		Requirements: domain.AccountRequirements{
			CurrentlyDue:  processorAccount.CurrentlyDue,
			EventuallyDue: processorAccount.EventuallyDue,
			PastDue:       processorAccount.PastDue,
		},
		BankLast4:  processorAccount.BankLast4,
		BankName:   processorAccount.BankName,
		SnapshotAt: snapshotAt,
	}

	applied, err := s.accountRepo.ApplySyncState(ctx, account.ConnectedAccountID, state, userID)
	if err != nil {
		return nil, err
	}
	if !applied {
		logger.Info("Stale account sync discarded", slog.String("connected_account_id", account.ConnectedAccountID))
	} else if state.Status != account.Status {
		logger.Info("Connected account status changed",
			slog.String("connected_account_id", account.ConnectedAccountID),
			slog.String("from", string(account.Status)),
			slog.String("to", string(state.Status)),
		)
		s.events.Emit(userID, "connected_account_status_changed", map[string]any{
			"organization_id": organizationID,
			"from":            string(account.Status),
			"to":              string(state.Status),
		})
	}
	return s.accountRepo.FindByOrganizationID(ctx, organizationID)
}

// CanAcceptPayments is the derived readiness check combining status,
// capability flags and past-due requirements.
func (s *connectedAccountService) CanAcceptPayments(ctx context.Context, organizationID string) (*dto.CanAcceptPaymentsResponse, error) {
	account, err := s.accountRepo.FindByOrganizationID(ctx, organizationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &dto.CanAcceptPaymentsResponse{CanAccept: false, Reason: "NO_CONNECTED_ACCOUNT"}, nil
		}
		return nil, err
	}

	switch {
	case account.Status != domain.AccountActive:
		return &dto.CanAcceptPaymentsResponse{CanAccept: false, Reason: "ACCOUNT_NOT_ACTIVE"}, nil
	case !account.ChargesEnabled:
		return &dto.CanAcceptPaymentsResponse{CanAccept: false, Reason: "CHARGES_DISABLED"}, nil
	case !account.PayoutsEnabled:
		return &dto.CanAcceptPaymentsResponse{CanAccept: false, Reason: "PAYOUTS_DISABLED"}, nil
	case len(account.Requirements.PastDue) > 0:
		return &dto.CanAcceptPaymentsResponse{CanAccept: false, Reason: "REQUIREMENTS_PAST_DUE"}, nil
	}
	return &dto.CanAcceptPaymentsResponse{CanAccept: true}, nil
}
