package repositories

import (
	"context"
	"time"

	"github.com/rentora/rentora_payments/internal/core/domain"
)

// AutoPayRepositoryFacade defines persistence for recurring-payment
// schedules. Implementations must enforce at most one active schedule per
// (tenant, lease) pair.
type AutoPayRepositoryFacade interface {
	// SaveSchedule inserts a new schedule. A second active schedule for the
	// same (tenant, lease) returns apperrors.ErrDuplicate.
	SaveSchedule(ctx context.Context, schedule domain.AutoPaySchedule) error
	FindScheduleByID(ctx context.Context, scheduleID string) (*domain.AutoPaySchedule, error)
	FindActiveByTenantAndLease(ctx context.Context, tenantID, leaseID string) (*domain.AutoPaySchedule, error)
	ListByTenant(ctx context.Context, tenantID string) ([]domain.AutoPaySchedule, error)
	UpdateSchedule(ctx context.Context, schedule domain.AutoPaySchedule) error
	Deactivate(ctx context.Context, scheduleID, updatedBy string, now time.Time) error
	// ListDue returns active schedules whose day-of-month matches asOf and
	// whose last run is not already in asOf's calendar month.
	ListDue(ctx context.Context, asOf time.Time) ([]domain.AutoPaySchedule, error)
	RecordRunResult(ctx context.Context, scheduleID string, result domain.AutoPayResult, detail string, consecutiveFailures int, runAt time.Time, updatedBy string) error
	// ExistsActiveForMethod reports whether any active schedule references the
	// payment method (used to block method removal).
	ExistsActiveForMethod(ctx context.Context, paymentMethodID string) (bool, error)
}
