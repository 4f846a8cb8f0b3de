package services

import (
	"context"

	"github.com/rentora/rentora_payments/internal/core/domain"
	"github.com/rentora/rentora_payments/internal/dto"
)

// PaymentSvcFacade executes and reads tenant payments.
type PaymentSvcFacade interface {
	// ProcessPayment validates, prices and executes a payment attempt.
	// Business failures come back inside the result with Success=false;
	// the returned error is reserved for infrastructure faults.
	ProcessPayment(ctx context.Context, req dto.ProcessPaymentRequest) (*dto.PaymentResult, error)
	// GetPayment returns a payment visible to the caller.
	GetPayment(ctx context.Context, paymentID string, callerID string) (*domain.Payment, error)
	// ListTenantPayments pages through a tenant's payment history,
	// newest first.
	ListTenantPayments(ctx context.Context, tenantID string, params dto.ListPaymentsParams) (*dto.ListPaymentsResponse, error)
	// ReconcileTransaction resolves a PROCESSING payment with the
	// processor's final status. Payments already in a terminal state are
	// left untouched.
	ReconcileTransaction(ctx context.Context, req dto.ReconcileRequest) (*domain.Payment, error)
}
