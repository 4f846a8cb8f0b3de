package mapping

import (
	"github.com/rentora/rentora_payments/internal/core/domain"
	"github.com/rentora/rentora_payments/internal/models"
)

// ToModelConnectedAccount converts a domain ConnectedAccount to its model
func ToModelConnectedAccount(d domain.ConnectedAccount) models.ConnectedAccount {
	return models.ConnectedAccount{
		ConnectedAccountID: d.ConnectedAccountID,
		OrganizationID:     d.OrganizationID,
		ProcessorAccountID: d.ProcessorAccountID,
		Status:             string(d.Status),
		ChargesEnabled:     d.ChargesEnabled,
		PayoutsEnabled:     d.PayoutsEnabled,
		DetailsSubmitted:   d.DetailsSubmitted,
		CurrentlyDue:       d.Requirements.CurrentlyDue,
		EventuallyDue:      d.Requirements.EventuallyDue,
		PastDue:            d.Requirements.PastDue,
		BankLast4:          d.BankLast4,
		BankName:           d.BankName,
		LastSyncedAt:       d.LastSyncedAt,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainConnectedAccount converts a model ConnectedAccount to its domain shape
func ToDomainConnectedAccount(m models.ConnectedAccount) domain.ConnectedAccount {
	return domain.ConnectedAccount{
		ConnectedAccountID: m.ConnectedAccountID,
		OrganizationID:     m.OrganizationID,
		ProcessorAccountID: m.ProcessorAccountID,
		Status:             domain.ConnectedAccountStatus(m.Status),
		ChargesEnabled:     m.ChargesEnabled,
		PayoutsEnabled:     m.PayoutsEnabled,
		DetailsSubmitted:   m.DetailsSubmitted,
		Requirements: domain.AccountRequirements{
			CurrentlyDue:  m.CurrentlyDue,
			EventuallyDue: m.EventuallyDue,
			PastDue:       m.PastDue,
		},
		BankLast4:    m.BankLast4,
		BankName:     m.BankName,
		LastSyncedAt: m.LastSyncedAt,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}
