package dto

import (
	"time"

	"github.com/rentora/rentora_payments/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ProcessPaymentRequest asks the charge processor to move money for one or
// more unpaid charges on a lease. IdempotencyKey is optional; when absent one
// is generated, but retrying clients should supply their own.
type ProcessPaymentRequest struct {
	TenantID        string          `json:"-"` // Set from the authenticated caller
	LeaseID         string          `json:"leaseID" binding:"required"`
	ChargeIDs       []string        `json:"chargeIDs" binding:"required,min=1"`
	PaymentMethodID string          `json:"paymentMethodID" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required,dgt0"`
	Description     string          `json:"description" binding:"max=200"`
	IdempotencyKey  string          `json:"idempotencyKey" binding:"max=64"`
}

// FeeBreakdownResponse mirrors domain.FeeBreakdown.
type FeeBreakdownResponse struct {
	ScheduleVersion string           `json:"scheduleVersion"`
	FeePolicy       domain.FeePolicy `json:"feePolicy"`
	ProcessingFee   decimal.Decimal  `json:"processingFee"`
	PayerPortion    decimal.Decimal  `json:"payerPortion"`
	LandlordPortion decimal.Decimal  `json:"landlordPortion"`
	TotalCharged    decimal.Decimal  `json:"totalCharged"`
	NetToLandlord   decimal.Decimal  `json:"netToLandlord"`
}

// PaymentResult is the discriminated outcome of a payment attempt. Expected
// business failures come back with Success=false and a stable FailureReason;
// the fee breakdown is populated even on failure so callers can show what
// would have applied.
type PaymentResult struct {
	Success       bool                  `json:"success"`
	PaymentID     string                `json:"paymentID,omitempty"`
	Status        domain.PaymentStatus  `json:"status,omitempty"`
	FailureReason domain.FailureReason  `json:"failureReason,omitempty"`
	FailureDetail string                `json:"failureDetail,omitempty"`
	Fees          *FeeBreakdownResponse `json:"fees,omitempty"`
	ReceiptURL    string                `json:"receiptUrl,omitempty"`
}

// PaymentResponse mirrors domain.Payment for read endpoints.
type PaymentResponse struct {
	PaymentID         string               `json:"paymentID"`
	OrganizationID    string               `json:"organizationID"`
	TenantID          string               `json:"tenantID"`
	LeaseID           string               `json:"leaseID"`
	ChargeIDs         []string             `json:"chargeIDs"`
	PaymentMethodID   string               `json:"paymentMethodID"`
	Amount            decimal.Decimal      `json:"amount"`
	Fees              FeeBreakdownResponse `json:"fees"`
	ProcessorChargeID string               `json:"processorChargeID,omitempty"`
	Status            domain.PaymentStatus `json:"status"`
	FailureReason     domain.FailureReason `json:"failureReason,omitempty"`
	FailureDetail     string               `json:"failureDetail,omitempty"`
	Description       string               `json:"description,omitempty"`
	ReceiptURL        string               `json:"receiptUrl,omitempty"`
	CreatedAt         time.Time            `json:"createdAt"`
}

// ListPaymentsParams controls tenant payment history pagination.
type ListPaymentsParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListPaymentsResponse wraps a page of payments.
type ListPaymentsResponse struct {
	Payments  []PaymentResponse `json:"payments"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ReconcileRequest resolves a PROCESSING payment with the processor's final
// status. It is the collaborator interface for webhook/polling reconciliation.
type ReconcileRequest struct {
	ProcessorChargeID string `json:"processorChargeID" binding:"required"`
	FinalStatus       string `json:"finalStatus" binding:"required,oneof=succeeded failed"`
	FailureDetail     string `json:"failureDetail"`
	ReceiptURL        string `json:"receiptUrl"`
}

// ToFeeBreakdownResponse converts a domain fee breakdown to its DTO.
func ToFeeBreakdownResponse(f domain.FeeBreakdown) FeeBreakdownResponse {
	return FeeBreakdownResponse{
		ScheduleVersion: f.ScheduleVersion,
		FeePolicy:       f.FeePolicy,
		ProcessingFee:   f.ProcessingFee,
		PayerPortion:    f.PayerPortion,
		LandlordPortion: f.LandlordPortion,
		TotalCharged:    f.TotalCharged,
		NetToLandlord:   f.NetToLandlord,
	}
}

// ToPaymentResponse converts a domain.Payment to its DTO.
func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:         p.PaymentID,
		OrganizationID:    p.OrganizationID,
		TenantID:          p.TenantID,
		LeaseID:           p.LeaseID,
		ChargeIDs:         p.ChargeIDs,
		PaymentMethodID:   p.PaymentMethodID,
		Amount:            p.Amount,
		Fees:              ToFeeBreakdownResponse(p.Fees),
		ProcessorChargeID: p.ProcessorChargeID,
		Status:            p.Status,
		FailureReason:     p.FailureReason,
		FailureDetail:     p.FailureDetail,
		Description:       p.Description,
		ReceiptURL:        p.ReceiptURL,
		CreatedAt:         p.CreatedAt,
	}
}

// ToPaymentResponses converts a slice of domain payments to DTOs.
func ToPaymentResponses(payments []domain.Payment) []PaymentResponse {
	res := make([]PaymentResponse, len(payments))
	for i, p := range payments {
		res[i] = ToPaymentResponse(&p)
	}
	return res
}
