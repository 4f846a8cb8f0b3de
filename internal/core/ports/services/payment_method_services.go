package services

import (
	"context"

	"github.com/rentora/rentora_payments/internal/core/domain"
	"github.com/rentora/rentora_payments/internal/dto"
)

// PaymentMethodSvcFacade manages a tenant's saved payment instruments.
type PaymentMethodSvcFacade interface {
	// CreateSetupSession opens a processor session for collecting a new
	// instrument, creating the processor customer on first use.
	CreateSetupSession(ctx context.Context, tenantID string, req dto.CreateSetupSessionRequest) (*dto.SetupSessionResponse, error)
	// SaveMethod persists an instrument collected in a completed setup
	// session. A tenant's first method becomes the default automatically.
	SaveMethod(ctx context.Context, tenantID string, req dto.SavePaymentMethodRequest, userID string) (*domain.PaymentMethod, error)
	// ListMethods returns the tenant's active methods, default first.
	ListMethods(ctx context.Context, tenantID string) ([]domain.PaymentMethod, error)
	// SetDefault makes the given method the tenant's single default.
	SetDefault(ctx context.Context, tenantID string, paymentMethodID string, userID string) error
	// UpdateNickname renames a saved method.
	UpdateNickname(ctx context.Context, tenantID string, paymentMethodID string, nickname string, userID string) error
	// Remove detaches the instrument from the processor and marks it removed.
	// Methods referenced by an active autopay schedule fail with
	// apperrors.ErrConflict.
	Remove(ctx context.Context, tenantID string, paymentMethodID string, userID string) error
}
