package mapping

import (
	"github.com/rentora/rentora_payments/internal/core/domain"
	"github.com/rentora/rentora_payments/internal/models"
)

// ToModelPaymentMethod converts a domain PaymentMethod to its model
func ToModelPaymentMethod(d domain.PaymentMethod) models.PaymentMethod {
	return models.PaymentMethod{
		PaymentMethodID:   d.PaymentMethodID,
		TenantID:          d.TenantID,
		ProcessorMethodID: d.ProcessorMethodID,
		MethodClass:       string(d.MethodClass),
		Last4:             d.Last4,
		Brand:             d.Brand,
		Nickname:          d.Nickname,
		IsDefault:         d.IsDefault,
		Status:            string(d.Status),
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPaymentMethod converts a model PaymentMethod to its domain shape
func ToDomainPaymentMethod(m models.PaymentMethod) domain.PaymentMethod {
	return domain.PaymentMethod{
		PaymentMethodID:   m.PaymentMethodID,
		TenantID:          m.TenantID,
		ProcessorMethodID: m.ProcessorMethodID,
		MethodClass:       domain.PaymentMethodClass(m.MethodClass),
		Last4:             m.Last4,
		Brand:             m.Brand,
		Nickname:          m.Nickname,
		IsDefault:         m.IsDefault,
		Status:            domain.PaymentMethodStatus(m.Status),
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainPaymentMethodSlice converts a slice of model PaymentMethods
func ToDomainPaymentMethodSlice(ms []models.PaymentMethod) []domain.PaymentMethod {
	ds := make([]domain.PaymentMethod, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPaymentMethod(m)
	}
	return ds
}
