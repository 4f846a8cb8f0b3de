package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AutoPaySchedule is the persistence shape of a recurring payment
// instruction. FixedAmount nil means full-balance mode.
type AutoPaySchedule struct {
	ScheduleID          string           `db:"schedule_id"`
	TenantID            string           `db:"tenant_id"`
	LeaseID             string           `db:"lease_id"`
	OrganizationID      string           `db:"organization_id"`
	DayOfMonth          int              `db:"day_of_month"`
	FixedAmount         *decimal.Decimal `db:"fixed_amount"`
	PaymentMethodID     string           `db:"payment_method_id"`
	ChargeTypes         []string         `db:"charge_types"`
	Active              bool             `db:"active"`
	LastRunAt           *time.Time       `db:"last_run_at"`
	LastResult          string           `db:"last_result"`
	LastFailureDetail   string           `db:"last_failure_detail"`
	ConsecutiveFailures int              `db:"consecutive_failures"`
	AuditFields
}
