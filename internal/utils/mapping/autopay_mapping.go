package mapping

import (
	"github.com/rentora/rentora_payments/internal/core/domain"
	"github.com/rentora/rentora_payments/internal/models"
)

// ToModelAutoPaySchedule converts a domain AutoPaySchedule to its model
func ToModelAutoPaySchedule(d domain.AutoPaySchedule) models.AutoPaySchedule {
	chargeTypes := make([]string, len(d.ChargeTypes))
	for i, t := range d.ChargeTypes {
		chargeTypes[i] = string(t)
	}
	return models.AutoPaySchedule{
		ScheduleID:          d.ScheduleID,
		TenantID:            d.TenantID,
		LeaseID:             d.LeaseID,
		OrganizationID:      d.OrganizationID,
		DayOfMonth:          d.DayOfMonth,
		FixedAmount:         d.FixedAmount,
		PaymentMethodID:     d.PaymentMethodID,
		ChargeTypes:         chargeTypes,
		Active:              d.Active,
		LastRunAt:           d.LastRunAt,
		LastResult:          string(d.LastResult),
		LastFailureDetail:   d.LastFailureDetail,
		ConsecutiveFailures: d.ConsecutiveFailures,
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAutoPaySchedule converts a model AutoPaySchedule to its domain shape
func ToDomainAutoPaySchedule(m models.AutoPaySchedule) domain.AutoPaySchedule {
	chargeTypes := make([]domain.ChargeType, len(m.ChargeTypes))
	for i, t := range m.ChargeTypes {
		chargeTypes[i] = domain.ChargeType(t)
	}
	return domain.AutoPaySchedule{
		ScheduleID:          m.ScheduleID,
		TenantID:            m.TenantID,
		LeaseID:             m.LeaseID,
		OrganizationID:      m.OrganizationID,
		DayOfMonth:          m.DayOfMonth,
		FixedAmount:         m.FixedAmount,
		PaymentMethodID:     m.PaymentMethodID,
		ChargeTypes:         chargeTypes,
		Active:              m.Active,
		LastRunAt:           m.LastRunAt,
		LastResult:          domain.AutoPayResult(m.LastResult),
		LastFailureDetail:   m.LastFailureDetail,
		ConsecutiveFailures: m.ConsecutiveFailures,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAutoPayScheduleSlice converts a slice of model schedules
func ToDomainAutoPayScheduleSlice(ms []models.AutoPaySchedule) []domain.AutoPaySchedule {
	ds := make([]domain.AutoPaySchedule, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAutoPaySchedule(m)
	}
	return ds
}
