package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AutoPayResult records the outcome of the most recent scheduled run.
type AutoPayResult string

const (
	AutoPaySucceeded AutoPayResult = "SUCCEEDED"
	AutoPayFailed    AutoPayResult = "FAILED"
)

// AutoPaySchedule is a standing instruction to charge a tenant's saved payment
// method on a recurring monthly date. At most one active schedule exists per
// (tenant, lease) pair. DayOfMonth is restricted to 1-28 so no month is
// skipped.
type AutoPaySchedule struct {
	ScheduleID          string           `json:"scheduleID"` // Primary key (UUID)
	TenantID            string           `json:"tenantID"`
	LeaseID             string           `json:"leaseID"`
	OrganizationID      string           `json:"organizationID"`
	DayOfMonth          int              `json:"dayOfMonth"`
	FixedAmount         *decimal.Decimal `json:"fixedAmount,omitempty"` // nil means "full balance" mode
	PaymentMethodID     string           `json:"paymentMethodID"`
	ChargeTypes         []ChargeType     `json:"chargeTypes"` // Obligation types this schedule settles
	Active              bool             `json:"active"`
	LastRunAt           *time.Time       `json:"lastRunAt,omitempty"`
	LastResult          AutoPayResult    `json:"lastResult,omitempty"`
	LastFailureDetail   string           `json:"lastFailureDetail,omitempty"`
	ConsecutiveFailures int              `json:"consecutiveFailures"`
	AuditFields
}

// FullBalance reports whether the schedule charges the full outstanding
// balance rather than a fixed amount.
func (s AutoPaySchedule) FullBalance() bool {
	return s.FixedAmount == nil
}

// SeedFirstRun stamps LastRunAt at creation when the configured day has
// already passed this month, so the missed-sweep recovery in the due query
// does not charge the schedule before its first real run date.
func (s *AutoPaySchedule) SeedFirstRun(createdAt time.Time) {
	if createdAt.Day() > s.DayOfMonth {
		s.LastRunAt = &createdAt
	}
}
