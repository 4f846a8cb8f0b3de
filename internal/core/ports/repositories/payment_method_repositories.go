package repositories

import (
	"context"
	"time"

	"github.com/rentora/rentora_payments/internal/core/domain"
)

// PaymentMethodRepositoryFacade defines persistence for tenants' saved
// payment instruments and their processor customer mapping.
//
// Implementations must guard the single-default invariant: any write that
// sets a default must lock the tenant's method set (SELECT ... FOR UPDATE)
// and clear the previous default in the same transaction.
type PaymentMethodRepositoryFacade interface {
	// SavePaymentMethod inserts a new method. When the method is marked
	// default, the tenant's previous default is cleared atomically.
	SavePaymentMethod(ctx context.Context, method domain.PaymentMethod) error
	FindPaymentMethodByID(ctx context.Context, paymentMethodID string) (*domain.PaymentMethod, error)
	ListActiveByTenant(ctx context.Context, tenantID string) ([]domain.PaymentMethod, error)
	SetDefault(ctx context.Context, tenantID, paymentMethodID, updatedBy string, now time.Time) error
	UpdateNickname(ctx context.Context, tenantID, paymentMethodID, nickname, updatedBy string, now time.Time) error
	MarkRemoved(ctx context.Context, tenantID, paymentMethodID, updatedBy string, now time.Time) error

	// Processor customer mapping for a tenant.
	FindCustomerIDByTenant(ctx context.Context, tenantID string) (string, error)
	SaveCustomerID(ctx context.Context, tenantID, customerID string, now time.Time) error
}
