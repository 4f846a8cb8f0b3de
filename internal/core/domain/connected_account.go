package domain

import "time"

// ConnectedAccountStatus is the lifecycle state of an organization's link to
// the payment processor.
//
// NOT_STARTED -(create)-> ONBOARDING -(requirements satisfied)-> ACTIVE
// ONBOARDING|ACTIVE -(processor restriction)-> RESTRICTED -(resolved)-> ACTIVE
// any state -(processor rejects)-> REJECTED (terminal)
type ConnectedAccountStatus string

const (
	AccountNotStarted ConnectedAccountStatus = "NOT_STARTED"
	AccountOnboarding ConnectedAccountStatus = "ONBOARDING"
	AccountRestricted ConnectedAccountStatus = "RESTRICTED"
	AccountActive     ConnectedAccountStatus = "ACTIVE"
	AccountRejected   ConnectedAccountStatus = "REJECTED"
)

// AccountRequirements lists processor-reported capability requirements.
type AccountRequirements struct {
	CurrentlyDue  []string `json:"currentlyDue"`
	EventuallyDue []string `json:"eventuallyDue"`
	PastDue       []string `json:"pastDue"`
}

// ConnectedAccount is the one-per-organization link to the payment processor.
// Rows are never deleted; they only transition status. Capability flags and
// requirement lists are written exclusively by status synchronization.
// Invariant: Status == ACTIVE implies ChargesEnabled && PayoutsEnabled.
type ConnectedAccount struct {
	ConnectedAccountID string                 `json:"connectedAccountID"` // Primary key (UUID)
	OrganizationID     string                 `json:"organizationID"`
	ProcessorAccountID string                 `json:"processorAccountID"`
	Status             ConnectedAccountStatus `json:"status"`
	ChargesEnabled     bool                   `json:"chargesEnabled"`
	PayoutsEnabled     bool                   `json:"payoutsEnabled"`
	DetailsSubmitted   bool                   `json:"detailsSubmitted"`
	Requirements       AccountRequirements    `json:"requirements"`
	BankLast4          string                 `json:"bankLast4,omitempty"`
	BankName           string                 `json:"bankName,omitempty"`
	LastSyncedAt       *time.Time             `json:"lastSyncedAt,omitempty"`
	AuditFields
}

// IsTerminal reports whether the account can no longer transition.
func (s ConnectedAccountStatus) IsTerminal() bool {
	return s == AccountRejected
}
