package mapping

import (
	"github.com/rentora/rentora_payments/internal/core/domain"
	"github.com/rentora/rentora_payments/internal/models"
)

// ToModelOrganization converts a domain Organization to a model Organization
func ToModelOrganization(d domain.Organization) models.Organization {
	return models.Organization{
		OrganizationID:          d.OrganizationID,
		Name:                    d.Name,
		OwnerUserID:             d.OwnerUserID,
		FeePolicy:               string(d.FeePolicy),
		TrustLevel:              string(d.PayoutPolicy.TrustLevel),
		PayoutDelayDays:         d.PayoutPolicy.PayoutDelayDays,
		PayoutDelayMinimum:      d.PayoutPolicy.PayoutDelayMinimum,
		SuccessfulPayoutCount:   d.PayoutPolicy.SuccessfulPayoutCount,
		FirstSuccessfulPayoutAt: d.PayoutPolicy.FirstSuccessfulPayoutAt,
		AuditFields:             ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainOrganization converts a model Organization to a domain Organization
func ToDomainOrganization(m models.Organization) domain.Organization {
	return domain.Organization{
		OrganizationID: m.OrganizationID,
		Name:           m.Name,
		OwnerUserID:    m.OwnerUserID,
		FeePolicy:      domain.FeePolicy(m.FeePolicy),
		PayoutPolicy: domain.PayoutPolicy{
			TrustLevel:              domain.TrustLevel(m.TrustLevel),
			PayoutDelayDays:         m.PayoutDelayDays,
			PayoutDelayMinimum:      m.PayoutDelayMinimum,
			SuccessfulPayoutCount:   m.SuccessfulPayoutCount,
			FirstSuccessfulPayoutAt: m.FirstSuccessfulPayoutAt,
		},
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
