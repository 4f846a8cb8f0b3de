package models

import "time"

// Organization is the persistence shape of an organization. The payout
// policy is flattened into columns.
type Organization struct {
	OrganizationID          string     `db:"organization_id"`
	Name                    string     `db:"name"`
	OwnerUserID             string     `db:"owner_user_id"`
	FeePolicy               string     `db:"fee_policy"`
	TrustLevel              string     `db:"trust_level"`
	PayoutDelayDays         int        `db:"payout_delay_days"`
	PayoutDelayMinimum      int        `db:"payout_delay_minimum"`
	SuccessfulPayoutCount   int        `db:"successful_payout_count"`
	FirstSuccessfulPayoutAt *time.Time `db:"first_successful_payout_at"`
	AuditFields
}
