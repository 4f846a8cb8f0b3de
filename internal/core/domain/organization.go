package domain

import "time"

// FeePolicy determines who bears the processing fee for charges created while
// the policy is in effect. Changing it never recomputes historical charges.
type FeePolicy string

const (
	LandlordAbsorbs FeePolicy = "LANDLORD_ABSORBS"
	TenantPays      FeePolicy = "TENANT_PAYS"
	SplitFees       FeePolicy = "SPLIT_FEES"
)

// TrustLevel classifies an organization's payout track record. Levels only
// escalate from history; demotion requires an explicit risk flag elsewhere.
type TrustLevel string

const (
	TrustNew         TrustLevel = "NEW"
	TrustEstablished TrustLevel = "ESTABLISHED"
	TrustTrusted     TrustLevel = "TRUSTED"
)

// PayoutPolicy is embedded in Organization and governs how quickly payouts are
// released. PayoutDelayDays must never drop below PayoutDelayMinimum.
type PayoutPolicy struct {
	TrustLevel              TrustLevel `json:"trustLevel"`
	PayoutDelayDays         int        `json:"payoutDelayDays"`
	PayoutDelayMinimum      int        `json:"payoutDelayMinimum"`
	SuccessfulPayoutCount   int        `json:"successfulPayoutCount"`
	FirstSuccessfulPayoutAt *time.Time `json:"firstSuccessfulPayoutAt,omitempty"`
}

// Organization represents a landlord organization that receives rent payouts.
type Organization struct {
	OrganizationID string       `json:"organizationID"` // Primary key (UUID)
	Name           string       `json:"name"`
	OwnerUserID    string       `json:"ownerUserID"` // Only the owner may change payment settings
	FeePolicy      FeePolicy    `json:"feePolicy"`
	PayoutPolicy   PayoutPolicy `json:"payoutPolicy"`
	AuditFields
}
