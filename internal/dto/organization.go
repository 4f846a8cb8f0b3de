package dto

import (
	"time"

	"github.com/rentora/rentora_payments/internal/core/domain"
)

// UpdateFeePolicyRequest changes who pays processing fees for future charges.
type UpdateFeePolicyRequest struct {
	FeePolicy domain.FeePolicy `json:"feePolicy" binding:"required,oneof=LANDLORD_ABSORBS TENANT_PAYS SPLIT_FEES"`
}

// SetPayoutDelayRequest proposes a new payout delay in days. Values below the
// organization's derived minimum are rejected, not clamped.
type SetPayoutDelayRequest struct {
	PayoutDelayDays int `json:"payoutDelayDays" binding:"required,min=1"`
}

// RecordPayoutRequest reports a completed payout from the processor. PayoutAt
// nil means the notification carries no timestamp and now is used.
type RecordPayoutRequest struct {
	PayoutAt *time.Time `json:"payoutAt,omitempty"`
}

// PayoutPolicyResponse mirrors the embedded payout policy.
type PayoutPolicyResponse struct {
	TrustLevel              domain.TrustLevel `json:"trustLevel"`
	PayoutDelayDays         int               `json:"payoutDelayDays"`
	PayoutDelayMinimum      int               `json:"payoutDelayMinimum"`
	SuccessfulPayoutCount   int               `json:"successfulPayoutCount"`
	FirstSuccessfulPayoutAt *time.Time        `json:"firstSuccessfulPayoutAt,omitempty"`
}

// OrganizationResponse exposes the payment-relevant slice of an organization.
type OrganizationResponse struct {
	OrganizationID string               `json:"organizationID"`
	Name           string               `json:"name"`
	FeePolicy      domain.FeePolicy     `json:"feePolicy"`
	PayoutPolicy   PayoutPolicyResponse `json:"payoutPolicy"`
}

// ToOrganizationResponse converts a domain.Organization to its DTO.
func ToOrganizationResponse(org *domain.Organization) OrganizationResponse {
	return OrganizationResponse{
		OrganizationID: org.OrganizationID,
		Name:           org.Name,
		FeePolicy:      org.FeePolicy,
		PayoutPolicy: PayoutPolicyResponse{
			TrustLevel:              org.PayoutPolicy.TrustLevel,
			PayoutDelayDays:         org.PayoutPolicy.PayoutDelayDays,
			PayoutDelayMinimum:      org.PayoutPolicy.PayoutDelayMinimum,
			SuccessfulPayoutCount:   org.PayoutPolicy.SuccessfulPayoutCount,
			FirstSuccessfulPayoutAt: org.PayoutPolicy.FirstSuccessfulPayoutAt,
		},
	}
}
