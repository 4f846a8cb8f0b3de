package dto

import (
	"time"

	"github.com/rentora/rentora_payments/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SetupAutoPayRequest creates a recurring monthly payment instruction for a
// lease. FixedAmount nil means "full balance" mode.
type SetupAutoPayRequest struct {
	LeaseID         string              `json:"leaseID" binding:"required"`
	OrganizationID  string              `json:"organizationID" binding:"required"`
	DayOfMonth      int                 `json:"dayOfMonth" binding:"required,min=1,max=28"`
	FixedAmount     *decimal.Decimal    `json:"fixedAmount,omitempty" binding:"omitempty,dgt0"`
	PaymentMethodID string              `json:"paymentMethodID" binding:"required"`
	ChargeTypes     []domain.ChargeType `json:"chargeTypes" binding:"required,min=1,dive,oneof=RENT LATE_FEE UTILITY OTHER"`
}

// UpdateAutoPayRequest changes an existing schedule. Pointer fields
// distinguish "not provided" from zero values.
type UpdateAutoPayRequest struct {
	DayOfMonth      *int                `json:"dayOfMonth,omitempty" binding:"omitempty,min=1,max=28"`
	FixedAmount     *decimal.Decimal    `json:"fixedAmount,omitempty" binding:"omitempty,dgt0"`
	FullBalance     *bool               `json:"fullBalance,omitempty"` // true switches to full-balance mode
	PaymentMethodID *string             `json:"paymentMethodID,omitempty"`
	ChargeTypes     []domain.ChargeType `json:"chargeTypes,omitempty" binding:"omitempty,min=1,dive,oneof=RENT LATE_FEE UTILITY OTHER"`
}

// AutoPayResponse mirrors domain.AutoPaySchedule for API callers.
type AutoPayResponse struct {
	ScheduleID          string               `json:"scheduleID"`
	TenantID            string               `json:"tenantID"`
	LeaseID             string               `json:"leaseID"`
	DayOfMonth          int                  `json:"dayOfMonth"`
	FixedAmount         *decimal.Decimal     `json:"fixedAmount,omitempty"`
	FullBalance         bool                 `json:"fullBalance"`
	PaymentMethodID     string               `json:"paymentMethodID"`
	ChargeTypes         []domain.ChargeType  `json:"chargeTypes"`
	Active              bool                 `json:"active"`
	LastRunAt           *time.Time           `json:"lastRunAt,omitempty"`
	LastResult          domain.AutoPayResult `json:"lastResult,omitempty"`
	LastFailureDetail   string               `json:"lastFailureDetail,omitempty"`
	ConsecutiveFailures int                  `json:"consecutiveFailures"`
}

// RunDueSummary reports one runDue invocation.
type RunDueSummary struct {
	Selected  int `json:"selected"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

// ToAutoPayResponse converts a domain schedule to its DTO.
func ToAutoPayResponse(s *domain.AutoPaySchedule) AutoPayResponse {
	return AutoPayResponse{
		ScheduleID:          s.ScheduleID,
		TenantID:            s.TenantID,
		LeaseID:             s.LeaseID,
		DayOfMonth:          s.DayOfMonth,
		FixedAmount:         s.FixedAmount,
		FullBalance:         s.FullBalance(),
		PaymentMethodID:     s.PaymentMethodID,
		ChargeTypes:         s.ChargeTypes,
		Active:              s.Active,
		LastRunAt:           s.LastRunAt,
		LastResult:          s.LastResult,
		LastFailureDetail:   s.LastFailureDetail,
		ConsecutiveFailures: s.ConsecutiveFailures,
	}
}

// ToAutoPayResponses converts a slice of domain schedules to DTOs.
func ToAutoPayResponses(schedules []domain.AutoPaySchedule) []AutoPayResponse {
	res := make([]AutoPayResponse, len(schedules))
	for i, s := range schedules {
		res[i] = ToAutoPayResponse(&s)
	}
	return res
}
