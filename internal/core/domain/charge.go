package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ChargeType categorizes a billing obligation on a lease.
type ChargeType string

const (
	ChargeRent    ChargeType = "RENT"
	ChargeLateFee ChargeType = "LATE_FEE"
	ChargeUtility ChargeType = "UTILITY"
	ChargeOther   ChargeType = "OTHER"
)

// Charge is a single billing obligation (e.g. one month's rent, a late fee)
// owed by a tenant on a lease. A payment settles one or more charges whose
// amounts must sum exactly to the payment's gross amount.
type Charge struct {
	ChargeID       string          `json:"chargeID"` // Primary key (UUID)
	OrganizationID string          `json:"organizationID"`
	LeaseID        string          `json:"leaseID"`
	TenantID       string          `json:"tenantID"`
	ChargeType     ChargeType      `json:"chargeType"`
	Description    string          `json:"description"`
	Amount         decimal.Decimal `json:"amount"`
	DueDate        time.Time       `json:"dueDate"`
	Paid           bool            `json:"paid"`
	PaidByPayment  *string         `json:"paidByPayment,omitempty"` // PaymentID that settled this charge
	AuditFields
}
