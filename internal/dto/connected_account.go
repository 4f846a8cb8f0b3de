package dto

import (
	"time"

	"github.com/rentora/rentora_payments/internal/core/domain"
)

// CreateConnectedAccountRequest starts processor onboarding for an organization.
type CreateConnectedAccountRequest struct {
	BusinessType string `json:"businessType" binding:"required,oneof=individual company"`
	EntityType   string `json:"entityType" binding:"required,oneof=sole_prop llc corporation partnership"`
	Name         string `json:"name" binding:"required"`
}

// OnboardingLinkRequest carries the optional redirect URLs for the hosted
// onboarding flow.
type OnboardingLinkRequest struct {
	RefreshURL string `form:"refreshUrl"`
	ReturnURL  string `form:"returnUrl"`
}

// OnboardingLinkResponse returns a short-lived onboarding redirect.
type OnboardingLinkResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// DashboardLinkResponse returns a one-time express dashboard URL.
type DashboardLinkResponse struct {
	URL string `json:"url"`
}

// CanAcceptPaymentsResponse is the derived readiness check for an organization.
type CanAcceptPaymentsResponse struct {
	CanAccept bool   `json:"canAccept"`
	Reason    string `json:"reason,omitempty"`
}

// ConnectedAccountResponse mirrors domain.ConnectedAccount for API callers.
type ConnectedAccountResponse struct {
	ConnectedAccountID string                        `json:"connectedAccountID"`
	OrganizationID     string                        `json:"organizationID"`
	ProcessorAccountID string                        `json:"processorAccountID"`
	Status             domain.ConnectedAccountStatus `json:"status"`
	ChargesEnabled     bool                          `json:"chargesEnabled"`
	PayoutsEnabled     bool                          `json:"payoutsEnabled"`
	DetailsSubmitted   bool                          `json:"detailsSubmitted"`
	Requirements       domain.AccountRequirements    `json:"requirements"`
	BankLast4          string                        `json:"bankLast4,omitempty"`
	BankName           string                        `json:"bankName,omitempty"`
	LastSyncedAt       *time.Time                    `json:"lastSyncedAt,omitempty"`
	CreatedAt          time.Time                     `json:"createdAt"`
}

// ToConnectedAccountResponse converts a domain.ConnectedAccount to its DTO.
func ToConnectedAccountResponse(a *domain.ConnectedAccount) ConnectedAccountResponse {
	return ConnectedAccountResponse{
		ConnectedAccountID: a.ConnectedAccountID,
		OrganizationID:     a.OrganizationID,
		ProcessorAccountID: a.ProcessorAccountID,
		Status:             a.Status,
		ChargesEnabled:     a.ChargesEnabled,
		PayoutsEnabled:     a.PayoutsEnabled,
		DetailsSubmitted:   a.DetailsSubmitted,
		Requirements:       a.Requirements,
		BankLast4:          a.BankLast4,
		BankName:           a.BankName,
		LastSyncedAt:       a.LastSyncedAt,
		CreatedAt:          a.CreatedAt,
	}
}
