package domain

import (
	"github.com/shopspring/decimal"
)

// PaymentStatus is the lifecycle of a single money-movement attempt.
// PENDING rows are written before the processor is called (write-ahead);
// PROCESSING marks an ambiguous outcome awaiting reconciliation.
// A SUCCEEDED payment is immutable.
type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "PENDING"
	PaymentProcessing PaymentStatus = "PROCESSING"
	PaymentSucceeded  PaymentStatus = "SUCCEEDED"
	PaymentFailed     PaymentStatus = "FAILED"
)

// FailureReason is a stable machine-readable code for expected payment
// failures. The human-readable detail travels alongside it.
type FailureReason string

const (
	FailureAmountMismatch       FailureReason = "AMOUNT_MISMATCH"
	FailurePayoutNotConfigured  FailureReason = "PAYOUT_NOT_CONFIGURED"
	FailurePaymentMethodInvalid FailureReason = "PAYMENT_METHOD_INVALID"
	FailureProcessorDeclined    FailureReason = "PROCESSOR_DECLINED"
	FailureProcessorUnavailable FailureReason = "PROCESSOR_UNAVAILABLE"
	FailureConflict             FailureReason = "CONFLICT"
)

// FeeBreakdown is the deterministic fee split applied to a payment. It is
// computed before the processor call and persisted with the payment so every
// historical charge can be explained.
type FeeBreakdown struct {
	ScheduleVersion string          `json:"scheduleVersion"` // Fee table version used
	FeePolicy       FeePolicy       `json:"feePolicy"`
	ProcessingFee   decimal.Decimal `json:"processingFee"`
	PayerPortion    decimal.Decimal `json:"payerPortion"`    // Fee share added on top of the gross amount
	LandlordPortion decimal.Decimal `json:"landlordPortion"` // Fee share deducted from the landlord
	TotalCharged    decimal.Decimal `json:"totalCharged"`    // What the tenant's instrument is charged
	NetToLandlord   decimal.Decimal `json:"netToLandlord"`   // What the connected account receives
}

// Payment records one money-movement attempt from a tenant to an organization.
// Invariant: Amount equals the sum of the settled charges' amounts at
// creation time; once SUCCEEDED the row is immutable.
type Payment struct {
	PaymentID         string          `json:"paymentID"` // Primary key (UUID)
	IdempotencyKey    string          `json:"idempotencyKey"`
	ParamsHash        string          `json:"-"` // Detects idempotency key reuse with different parameters
	OrganizationID    string          `json:"organizationID"`
	TenantID          string          `json:"tenantID"`
	LeaseID           string          `json:"leaseID"`
	ChargeIDs         []string        `json:"chargeIDs"`
	PaymentMethodID   string          `json:"paymentMethodID"`
	Amount            decimal.Decimal `json:"amount"` // Gross amount (sum of charges)
	Fees              FeeBreakdown    `json:"fees"`
	ProcessorChargeID string          `json:"processorChargeID,omitempty"`
	Status            PaymentStatus   `json:"status"`
	FailureReason     FailureReason   `json:"failureReason,omitempty"`
	FailureDetail     string          `json:"failureDetail,omitempty"`
	Description       string          `json:"description,omitempty"`
	ReceiptURL        string          `json:"receiptURL,omitempty"`
	AuditFields
}
