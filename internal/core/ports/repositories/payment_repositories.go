package repositories

import (
	"context"
	"time"

	"github.com/rentora/rentora_payments/internal/core/domain"
)

// PaymentRepositoryFacade defines persistence for money-movement attempts.
//
// CreatePending is the write-ahead step: the PENDING row (with its
// idempotency key) must be durable before the processor call is issued, so a
// crash between submission and result can be repaired by reconciliation.
type PaymentRepositoryFacade interface {
	// CreatePending inserts the write-ahead row. A duplicate idempotency key
	// returns apperrors.ErrDuplicate.
	CreatePending(ctx context.Context, payment domain.Payment) error
	FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)
	FindByIdempotencyKey(ctx context.Context, idempotencyKey string) (*domain.Payment, error)
	FindByProcessorChargeID(ctx context.Context, processorChargeID string) (*domain.Payment, error)
	// MarkSucceeded finalizes the payment and marks the settled charges paid
	// in the same database transaction.
	MarkSucceeded(ctx context.Context, paymentID, processorChargeID, receiptURL string, chargeIDs []string, updatedBy string, now time.Time) error
	MarkFailed(ctx context.Context, paymentID string, reason domain.FailureReason, detail, updatedBy string, now time.Time) error
	// MarkProcessing records an ambiguous submission awaiting reconciliation.
	MarkProcessing(ctx context.Context, paymentID, processorChargeID, updatedBy string, now time.Time) error
	ListByTenant(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.Payment, *string, error)
}
