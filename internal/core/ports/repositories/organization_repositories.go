package repositories

import (
	"context"
	"time"

	"github.com/rentora/rentora_payments/internal/core/domain"
)

// OrganizationRepositoryFacade defines persistence operations for
// organizations and their embedded fee/payout policies.
type OrganizationRepositoryFacade interface {
	SaveOrganization(ctx context.Context, org domain.Organization) error
	FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error)
	UpdateFeePolicy(ctx context.Context, organizationID string, policy domain.FeePolicy, updatedBy string, now time.Time) error
	UpdatePayoutPolicy(ctx context.Context, organizationID string, policy domain.PayoutPolicy, updatedBy string, now time.Time) error
}
