package models

import "time"

// ConnectedAccount is the persistence shape of a processor account.
// Requirement lists are stored as text[] columns.
type ConnectedAccount struct {
	ConnectedAccountID string     `db:"connected_account_id"`
	OrganizationID     string     `db:"organization_id"`
	ProcessorAccountID string     `db:"processor_account_id"`
	Status             string     `db:"status"`
	ChargesEnabled     bool       `db:"charges_enabled"`
	PayoutsEnabled     bool       `db:"payouts_enabled"`
	DetailsSubmitted   bool       `db:"details_submitted"`
	CurrentlyDue       []string   `db:"currently_due"`
	EventuallyDue      []string   `db:"eventually_due"`
	PastDue            []string   `db:"past_due"`
	BankLast4          string     `db:"bank_last4"`
	BankName           string     `db:"bank_name"`
	LastSyncedAt       *time.Time `db:"last_synced_at"`
	AuditFields
}
