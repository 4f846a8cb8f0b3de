package mapping

import (
	"github.com/rentora/rentora_payments/internal/core/domain"
	"github.com/rentora/rentora_payments/internal/models"
)

// ToModelPayment converts a domain Payment to a model Payment
func ToModelPayment(d domain.Payment) models.Payment {
	return models.Payment{
		PaymentID:          d.PaymentID,
		IdempotencyKey:     d.IdempotencyKey,
		ParamsHash:         d.ParamsHash,
		OrganizationID:     d.OrganizationID,
		TenantID:           d.TenantID,
		LeaseID:            d.LeaseID,
		ChargeIDs:          d.ChargeIDs,
		PaymentMethodID:    d.PaymentMethodID,
		Amount:             d.Amount,
		FeeScheduleVersion: d.Fees.ScheduleVersion,
		FeePolicy:          string(d.Fees.FeePolicy),
		ProcessingFee:      d.Fees.ProcessingFee,
		PayerPortion:       d.Fees.PayerPortion,
		LandlordPortion:    d.Fees.LandlordPortion,
		TotalCharged:       d.Fees.TotalCharged,
		NetToLandlord:      d.Fees.NetToLandlord,
		ProcessorChargeID:  d.ProcessorChargeID,
		Status:             string(d.Status),
		FailureReason:      string(d.FailureReason),
		FailureDetail:      d.FailureDetail,
		Description:        d.Description,
		ReceiptURL:         d.ReceiptURL,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPayment converts a model Payment to a domain Payment
func ToDomainPayment(m models.Payment) domain.Payment {
	return domain.Payment{
		PaymentID:       m.PaymentID,
		IdempotencyKey:  m.IdempotencyKey,
		ParamsHash:      m.ParamsHash,
		OrganizationID:  m.OrganizationID,
		TenantID:        m.TenantID,
		LeaseID:         m.LeaseID,
		ChargeIDs:       m.ChargeIDs,
		PaymentMethodID: m.PaymentMethodID,
		Amount:          m.Amount,
		Fees: domain.FeeBreakdown{
			ScheduleVersion: m.FeeScheduleVersion,
			FeePolicy:       domain.FeePolicy(m.FeePolicy),
			ProcessingFee:   m.ProcessingFee,
			PayerPortion:    m.PayerPortion,
			LandlordPortion: m.LandlordPortion,
			TotalCharged:    m.TotalCharged,
			NetToLandlord:   m.NetToLandlord,
		},
		ProcessorChargeID: m.ProcessorChargeID,
		Status:            domain.PaymentStatus(m.Status),
		FailureReason:     domain.FailureReason(m.FailureReason),
		FailureDetail:     m.FailureDetail,
		Description:       m.Description,
		ReceiptURL:        m.ReceiptURL,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainPaymentSlice converts a slice of model Payments
func ToDomainPaymentSlice(ms []models.Payment) []domain.Payment {
	ds := make([]domain.Payment, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPayment(m)
	}
	return ds
}
