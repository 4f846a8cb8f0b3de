package services

import (
	"context"
	"time"

	"github.com/rentora/rentora_payments/internal/core/domain"
)

// OrganizationSvcFacade manages fee and payout policy for an organization.
type OrganizationSvcFacade interface {
	// GetOrganization returns the organization by ID.
	GetOrganization(ctx context.Context, organizationID string) (*domain.Organization, error)
	// AuthorizeOwner returns apperrors.ErrForbidden unless userID owns the
	// organization.
	AuthorizeOwner(ctx context.Context, organizationID string, userID string) error
	// UpdateFeePolicy changes the fee policy applied to future payments.
	// In-flight payments keep the breakdown computed at creation.
	UpdateFeePolicy(ctx context.Context, organizationID string, policy domain.FeePolicy, userID string) (*domain.Organization, error)
	// SetPayoutDelay sets the payout delay in days. Requests below the
	// trust-derived minimum fail with apperrors.ErrPolicyViolation.
	SetPayoutDelay(ctx context.Context, organizationID string, days int, userID string) (*domain.Organization, error)
	// RecordPayoutSuccess increments the payout history and re-derives the
	// trust level. Trust never regresses through this path.
	RecordPayoutSuccess(ctx context.Context, organizationID string, payoutAt time.Time) (*domain.Organization, error)
}
