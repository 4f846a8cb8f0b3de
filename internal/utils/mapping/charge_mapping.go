package mapping

import (
	"github.com/rentora/rentora_payments/internal/core/domain"
	"github.com/rentora/rentora_payments/internal/models"
)

// ToModelCharge converts a domain Charge to a model Charge
func ToModelCharge(d domain.Charge) models.Charge {
	return models.Charge{
		ChargeID:       d.ChargeID,
		OrganizationID: d.OrganizationID,
		LeaseID:        d.LeaseID,
		TenantID:       d.TenantID,
		ChargeType:     string(d.ChargeType),
		Description:    d.Description,
		Amount:         d.Amount,
		DueDate:        d.DueDate,
		Paid:           d.Paid,
		PaidByPayment:  d.PaidByPayment,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCharge converts a model Charge to a domain Charge
func ToDomainCharge(m models.Charge) domain.Charge {
	return domain.Charge{
		ChargeID:       m.ChargeID,
		OrganizationID: m.OrganizationID,
		LeaseID:        m.LeaseID,
		TenantID:       m.TenantID,
		ChargeType:     domain.ChargeType(m.ChargeType),
		Description:    m.Description,
		Amount:         m.Amount,
		DueDate:        m.DueDate,
		Paid:           m.Paid,
		PaidByPayment:  m.PaidByPayment,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainChargeSlice converts a slice of model Charges
func ToDomainChargeSlice(ms []models.Charge) []domain.Charge {
	ds := make([]domain.Charge, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCharge(m)
	}
	return ds
}
