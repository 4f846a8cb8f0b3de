package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rentora/rentora_payments/internal/apperrors"
	"github.com/rentora/rentora_payments/internal/core/domain"
	"github.com/rentora/rentora_payments/internal/core/ports/gateways"
	portsrepo "github.com/rentora/rentora_payments/internal/core/ports/repositories"
	portssvc "github.com/rentora/rentora_payments/internal/core/ports/services"
	"github.com/rentora/rentora_payments/internal/middleware"
	"github.com/rentora/rentora_payments/internal/utils/trust"
)

// trustRank orders trust levels so derived levels can never demote an
// organization.
var trustRank = map[domain.TrustLevel]int{
	domain.TrustNew:         0,
	domain.TrustEstablished: 1,
	domain.TrustTrusted:     2,
}

// organizationService manages fee and payout policy for organizations.
type organizationService struct {
	orgRepo     portsrepo.OrganizationRepositoryFacade
	accountRepo portsrepo.ConnectedAccountRepositoryFacade
	processor   gateways.PaymentProcessor
	events      gateways.EventSink
	now         func() time.Time
}

// NewOrganizationService creates a new OrganizationService.
func NewOrganizationService(orgRepo portsrepo.OrganizationRepositoryFacade, accountRepo portsrepo.ConnectedAccountRepositoryFacade, processor gateways.PaymentProcessor, events gateways.EventSink) portssvc.OrganizationSvcFacade {
	return &organizationService{
		orgRepo:     orgRepo,
		accountRepo: accountRepo,
		processor:   processor,
		events:      events,
		now:         time.Now,
	}
}

var _ portssvc.OrganizationSvcFacade = (*organizationService)(nil)

func (s *organizationService) GetOrganization(ctx context.Context, organizationID string) (*domain.Organization, error) {
	return s.orgRepo.FindOrganizationByID(ctx, organizationID)
}

func (s *organizationService) AuthorizeOwner(ctx context.Context, organizationID string, userID string) error {
	org, err := s.orgRepo.FindOrganizationByID(ctx, organizationID)
	if err != nil {
		return err
	}
	if org.OwnerUserID != userID {
		return fmt.Errorf("%w: user %s is not the owner of organization %s", apperrors.ErrForbidden, userID, organizationID)
	}
	return nil
}

// UpdateFeePolicy changes who pays processing fees for future charges.
// Historical payments keep the breakdown computed at their creation.
func (s *organizationService) UpdateFeePolicy(ctx context.Context, organizationID string, policy domain.FeePolicy, userID string) (*domain.Organization, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	switch policy {
	case domain.LandlordAbsorbs, domain.TenantPays, domain.SplitFees:
	default:
		return nil, fmt.Errorf("%w: unknown fee policy %q", apperrors.ErrValidation, policy)
	}

	if err := s.AuthorizeOwner(ctx, organizationID, userID); err != nil {
		return nil, err
	}

	if err := s.orgRepo.UpdateFeePolicy(ctx, organizationID, policy, userID, s.now()); err != nil {
		return nil, err
	}

	logger.Info("Fee policy updated", slog.String("organization_id", organizationID), slog.String("fee_policy", string(policy)))
	s.events.Emit(userID, "fee_policy_updated", map[string]any{
		"organization_id": organizationID,
		"fee_policy":      string(policy),
	})
	return s.orgRepo.FindOrganizationByID(ctx, organizationID)
}

// SetPayoutDelay validates the requested delay against the trust-derived
// minimum and pushes the accepted value to the processor. The local value
// only changes once the processor accepts the new delay.
func (s *organizationService) SetPayoutDelay(ctx context.Context, organizationID string, days int, userID string) (*domain.Organization, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.AuthorizeOwner(ctx, organizationID, userID); err != nil {
		return nil, err
	}

	org, err := s.orgRepo.FindOrganizationByID(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	if days < org.PayoutPolicy.PayoutDelayMinimum {
		return nil, fmt.Errorf("%w: requested payout delay %d is below the minimum %d for trust level %s",
			apperrors.ErrPolicyViolation, days, org.PayoutPolicy.PayoutDelayMinimum, org.PayoutPolicy.TrustLevel)
	}

	// Processor first: if it rejects the delay the local value must not move.
	account, err := s.accountRepo.FindByOrganizationID(ctx, organizationID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if account != nil {
		if err := s.processor.UpdatePayoutDelay(ctx, account.ProcessorAccountID, days); err != nil {
			return nil, fmt.Errorf("failed to update payout delay at processor: %w", err)
		}
	}

	policy := org.PayoutPolicy
	policy.PayoutDelayDays = days
	if err := s.orgRepo.UpdatePayoutPolicy(ctx, organizationID, policy, userID, s.now()); err != nil {
		return nil, err
	}

	logger.Info("Payout delay updated", slog.String("organization_id", organizationID), slog.Int("payout_delay_days", days))
	s.events.Emit(userID, "payout_delay_updated", map[string]any{
		"organization_id":   organizationID,
		"payout_delay_days": days,
	})
	return s.orgRepo.FindOrganizationByID(ctx, organizationID)
}

// RecordPayoutSuccess increments the payout history and re-derives the trust
// level. Derived levels only ever escalate here; demotion is an explicit risk
// action outside this service.
func (s *organizationService) RecordPayoutSuccess(ctx context.Context, organizationID string, payoutAt time.Time) (*domain.Organization, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	org, err := s.orgRepo.FindOrganizationByID(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	policy := org.PayoutPolicy
	policy.SuccessfulPayoutCount++
	if policy.FirstSuccessfulPayoutAt == nil {
		first := payoutAt
		policy.FirstSuccessfulPayoutAt = &first
	}

	derivedLevel, derivedMin := trust.Derive(policy.SuccessfulPayoutCount, policy.FirstSuccessfulPayoutAt, payoutAt)
	if trustRank[derivedLevel] > trustRank[policy.TrustLevel] {
		policy.TrustLevel = derivedLevel
		policy.PayoutDelayMinimum = derivedMin
		logger.Info("Trust level escalated",
			slog.String("organization_id", organizationID),
			slog.String("trust_level", string(derivedLevel)),
			slog.Int("payout_delay_minimum", derivedMin),
		)
		s.events.Emit(org.OwnerUserID, "trust_level_escalated", map[string]any{
			"organization_id": organizationID,
			"trust_level":     string(derivedLevel),
		})
	}
	if policy.PayoutDelayDays < policy.PayoutDelayMinimum {
		policy.PayoutDelayDays = policy.PayoutDelayMinimum
	}

	if err := s.orgRepo.UpdatePayoutPolicy(ctx, organizationID, policy, org.OwnerUserID, s.now()); err != nil {
		return nil, err
	}
	return s.orgRepo.FindOrganizationByID(ctx, organizationID)
}
