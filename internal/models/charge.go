package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Charge is the persistence shape of an amount owed on a lease.
type Charge struct {
	ChargeID       string          `db:"charge_id"`
	OrganizationID string          `db:"organization_id"`
	LeaseID        string          `db:"lease_id"`
	TenantID       string          `db:"tenant_id"`
	ChargeType     string          `db:"charge_type"`
	Description    string          `db:"description"`
	Amount         decimal.Decimal `db:"amount"`
	DueDate        time.Time       `db:"due_date"`
	Paid           bool            `db:"paid"`
	PaidByPayment  *string         `db:"paid_by_payment"`
	AuditFields
}
