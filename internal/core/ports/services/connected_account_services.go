package services

import (
	"context"

	"github.com/rentora/rentora_payments/internal/core/domain"
	"github.com/rentora/rentora_payments/internal/dto"
)

// ConnectedAccountSvcFacade manages processor accounts for organizations.
type ConnectedAccountSvcFacade interface {
	// CreateAccount provisions a processor account for the organization.
	// A second call for the same organization returns apperrors.ErrDuplicate.
	CreateAccount(ctx context.Context, organizationID string, req dto.CreateConnectedAccountRequest, userID string) (*domain.ConnectedAccount, error)
	// GetAccount returns the stored connected account snapshot.
	GetAccount(ctx context.Context, organizationID string) (*domain.ConnectedAccount, error)
	// GetOnboardingURL mints a fresh short-lived onboarding link. Terminal
	// accounts fail with apperrors.ErrNotActive.
	GetOnboardingURL(ctx context.Context, organizationID string, req dto.OnboardingLinkRequest) (*dto.OnboardingLinkResponse, error)
	// GetExpressDashboardURL mints a one-time processor dashboard login link.
	GetExpressDashboardURL(ctx context.Context, organizationID string) (*dto.DashboardLinkResponse, error)
	// SyncAccountStatus pulls the processor's current account state and
	// applies it. A concurrent fresher sync wins; the stale one is discarded.
	SyncAccountStatus(ctx context.Context, organizationID string, userID string) (*domain.ConnectedAccount, error)
	// CanAcceptPayments reports whether the organization is ready to receive
	// money, with a machine-readable reason when it is not.
	CanAcceptPayments(ctx context.Context, organizationID string) (*dto.CanAcceptPaymentsResponse, error)
}
