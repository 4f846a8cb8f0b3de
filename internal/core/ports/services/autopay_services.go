package services

import (
	"context"
	"time"

	"github.com/rentora/rentora_payments/internal/core/domain"
	"github.com/rentora/rentora_payments/internal/dto"
)

// AutoPaySvcFacade manages recurring payment schedules and their execution.
type AutoPaySvcFacade interface {
	// Setup creates a schedule for a lease. A second active schedule for the
	// same tenant and lease fails with apperrors.ErrDuplicate.
	Setup(ctx context.Context, tenantID string, req dto.SetupAutoPayRequest) (*domain.AutoPaySchedule, error)
	// GetSchedule returns the schedule by ID for its owner.
	GetSchedule(ctx context.Context, tenantID string, scheduleID string) (*domain.AutoPaySchedule, error)
	// ListForTenant returns all of a tenant's schedules, active first.
	ListForTenant(ctx context.Context, tenantID string) ([]domain.AutoPaySchedule, error)
	// Update applies partial changes to an active schedule.
	Update(ctx context.Context, tenantID string, scheduleID string, req dto.UpdateAutoPayRequest) (*domain.AutoPaySchedule, error)
	// Cancel deactivates the schedule. Cancelling an already inactive
	// schedule is a no-op.
	Cancel(ctx context.Context, tenantID string, scheduleID string) error
	// RunDue executes every schedule due at asOf. Failures are recorded on
	// the schedule and never abort the sweep.
	RunDue(ctx context.Context, asOf time.Time) (*dto.RunDueSummary, error)
}
