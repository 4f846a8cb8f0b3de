package models

import (
	"github.com/shopspring/decimal"
)

// Payment is the persistence shape of a payment attempt. The fee breakdown
// is flattened into columns so reporting queries never need JSON parsing.
type Payment struct {
	PaymentID          string          `db:"payment_id"`
	IdempotencyKey     string          `db:"idempotency_key"`
	ParamsHash         string          `db:"params_hash"`
	OrganizationID     string          `db:"organization_id"`
	TenantID           string          `db:"tenant_id"`
	LeaseID            string          `db:"lease_id"`
	ChargeIDs          []string        `db:"charge_ids"`
	PaymentMethodID    string          `db:"payment_method_id"`
	Amount             decimal.Decimal `db:"amount"`
	FeeScheduleVersion string          `db:"fee_schedule_version"`
	FeePolicy          string          `db:"fee_policy"`
	ProcessingFee      decimal.Decimal `db:"processing_fee"`
	PayerPortion       decimal.Decimal `db:"payer_portion"`
	LandlordPortion    decimal.Decimal `db:"landlord_portion"`
	TotalCharged       decimal.Decimal `db:"total_charged"`
	NetToLandlord      decimal.Decimal `db:"net_to_landlord"`
	ProcessorChargeID  string          `db:"processor_charge_id"`
	Status             string          `db:"status"`
	FailureReason      string          `db:"failure_reason"`
	FailureDetail      string          `db:"failure_detail"`
	Description        string          `db:"description"`
	ReceiptURL         string          `db:"receipt_url"`
	AuditFields
}
