package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rentora/rentora_payments/internal/apperrors"
	"github.com/rentora/rentora_payments/internal/core/domain"
	portsrepo "github.com/rentora/rentora_payments/internal/core/ports/repositories"
	"github.com/rentora/rentora_payments/internal/models"
	"github.com/rentora/rentora_payments/internal/utils/mapping"
)

type PgxAutoPayRepository struct {
	BaseRepository
}

// newPgxAutoPayRepository creates a new repository for autopay schedules.
func newPgxAutoPayRepository(pool *pgxpool.Pool) portsrepo.AutoPayRepositoryFacade {
	return &PgxAutoPayRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.AutoPayRepositoryFacade = (*PgxAutoPayRepository)(nil)

const autoPayColumns = `schedule_id, tenant_id, lease_id, organization_id, day_of_month, fixed_amount, payment_method_id, charge_types, active, last_run_at, last_result, last_failure_detail, consecutive_failures, created_at, created_by, last_updated_at, last_updated_by`

func scanAutoPaySchedule(row pgx.Row) (models.AutoPaySchedule, error) {
	var m models.AutoPaySchedule
	err := row.Scan(
		&m.ScheduleID,
		&m.TenantID,
		&m.LeaseID,
		&m.OrganizationID,
		&m.DayOfMonth,
		&m.FixedAmount,
		&m.PaymentMethodID,
		&m.ChargeTypes,
		&m.Active,
		&m.LastRunAt,
		&m.LastResult,
		&m.LastFailureDetail,
		&m.ConsecutiveFailures,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveSchedule inserts a new schedule. The partial unique index on
// (tenant_id, lease_id) WHERE active enforces one active schedule per lease.
func (r *PgxAutoPayRepository) SaveSchedule(ctx context.Context, schedule domain.AutoPaySchedule) error {
	m := mapping.ToModelAutoPaySchedule(schedule)

	query := `
		INSERT INTO autopay_schedules (` + autoPayColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ScheduleID,
		m.TenantID,
		m.LeaseID,
		m.OrganizationID,
		m.DayOfMonth,
		m.FixedAmount,
		m.PaymentMethodID,
		m.ChargeTypes,
		m.Active,
		m.LastRunAt,
		m.LastResult,
		m.LastFailureDetail,
		m.ConsecutiveFailures,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: active autopay schedule already exists for tenant %s lease %s", apperrors.ErrDuplicate, m.TenantID, m.LeaseID)
		}
		return fmt.Errorf("failed to save autopay schedule %s: %w", m.ScheduleID, err)
	}
	return nil
}

// FindScheduleByID retrieves a schedule by its ID.
func (r *PgxAutoPayRepository) FindScheduleByID(ctx context.Context, scheduleID string) (*domain.AutoPaySchedule, error) {
	query := `SELECT ` + autoPayColumns + ` FROM autopay_schedules WHERE schedule_id = $1;`

	m, err := scanAutoPaySchedule(r.Pool.QueryRow(ctx, query, scheduleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: autopay schedule %s", apperrors.ErrNotFound, scheduleID)
		}
		return nil, fmt.Errorf("failed to find autopay schedule %s: %w", scheduleID, err)
	}
	s := mapping.ToDomainAutoPaySchedule(m)
	return &s, nil
}

// FindActiveByTenantAndLease retrieves the single active schedule for a lease.
func (r *PgxAutoPayRepository) FindActiveByTenantAndLease(ctx context.Context, tenantID, leaseID string) (*domain.AutoPaySchedule, error) {
	query := `SELECT ` + autoPayColumns + ` FROM autopay_schedules WHERE tenant_id = $1 AND lease_id = $2 AND active = TRUE;`

	m, err := scanAutoPaySchedule(r.Pool.QueryRow(ctx, query, tenantID, leaseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: active autopay schedule for tenant %s lease %s", apperrors.ErrNotFound, tenantID, leaseID)
		}
		return nil, fmt.Errorf("failed to find active autopay schedule for tenant %s lease %s: %w", tenantID, leaseID, err)
	}
	s := mapping.ToDomainAutoPaySchedule(m)
	return &s, nil
}

// ListByTenant returns all of a tenant's schedules, active first then newest.
func (r *PgxAutoPayRepository) ListByTenant(ctx context.Context, tenantID string) ([]domain.AutoPaySchedule, error) {
	query := `
		SELECT ` + autoPayColumns + `
		FROM autopay_schedules
		WHERE tenant_id = $1
		ORDER BY active DESC, created_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list autopay schedules for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	modelSchedules, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.AutoPaySchedule, error) {
		return scanAutoPaySchedule(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan autopay schedules for tenant %s: %w", tenantID, err)
	}
	return mapping.ToDomainAutoPayScheduleSlice(modelSchedules), nil
}

// UpdateSchedule overwrites the mutable configuration of an active schedule.
func (r *PgxAutoPayRepository) UpdateSchedule(ctx context.Context, schedule domain.AutoPaySchedule) error {
	m := mapping.ToModelAutoPaySchedule(schedule)

	query := `
		UPDATE autopay_schedules
		SET day_of_month = $1,
			fixed_amount = $2,
			payment_method_id = $3,
			charge_types = $4,
			last_updated_at = $5,
			last_updated_by = $6
		WHERE schedule_id = $7 AND active = TRUE;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.DayOfMonth,
		m.FixedAmount,
		m.PaymentMethodID,
		m.ChargeTypes,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.ScheduleID,
	)
	if err != nil {
		return fmt.Errorf("failed to update autopay schedule %s: %w", m.ScheduleID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: active autopay schedule %s", apperrors.ErrNotFound, m.ScheduleID)
	}
	return nil
}

// Deactivate turns the schedule off. Already inactive schedules are a no-op.
func (r *PgxAutoPayRepository) Deactivate(ctx context.Context, scheduleID, updatedBy string, now time.Time) error {
	query := `
		UPDATE autopay_schedules
		SET active = FALSE, last_updated_at = $1, last_updated_by = $2
		WHERE schedule_id = $3 AND active = TRUE;
	`
	if _, err := r.Pool.Exec(ctx, query, now, updatedBy, scheduleID); err != nil {
		return fmt.Errorf("failed to deactivate autopay schedule %s: %w", scheduleID, err)
	}
	return nil
}

// ListDue returns active schedules due at asOf. The month guard on
// last_run_at keeps one execution per calendar month even across restarts.
func (r *PgxAutoPayRepository) ListDue(ctx context.Context, asOf time.Time) ([]domain.AutoPaySchedule, error) {
	query := `
		SELECT ` + autoPayColumns + `
		FROM autopay_schedules
		WHERE active = TRUE
		  AND day_of_month <= $1
		  AND (last_run_at IS NULL OR date_trunc('month', last_run_at) < date_trunc('month', $2::timestamptz))
		ORDER BY created_at ASC;
	`
	rows, err := r.Pool.Query(ctx, query, asOf.Day(), asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to list due autopay schedules: %w", err)
	}
	defer rows.Close()

	modelSchedules, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.AutoPaySchedule, error) {
		return scanAutoPaySchedule(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan due autopay schedules: %w", err)
	}
	return mapping.ToDomainAutoPayScheduleSlice(modelSchedules), nil
}

// RecordRunResult stamps the outcome of one execution onto the schedule.
func (r *PgxAutoPayRepository) RecordRunResult(ctx context.Context, scheduleID string, result domain.AutoPayResult, detail string, consecutiveFailures int, runAt time.Time, updatedBy string) error {
	query := `
		UPDATE autopay_schedules
		SET last_run_at = $1,
			last_result = $2,
			last_failure_detail = $3,
			consecutive_failures = $4,
			last_updated_at = $1,
			last_updated_by = $5
		WHERE schedule_id = $6;
	`
	tag, err := r.Pool.Exec(ctx, query, runAt, string(result), detail, consecutiveFailures, updatedBy, scheduleID)
	if err != nil {
		return fmt.Errorf("failed to record run result for autopay schedule %s: %w", scheduleID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: autopay schedule %s", apperrors.ErrNotFound, scheduleID)
	}
	return nil
}

// ExistsActiveForMethod reports whether any active schedule references the method.
func (r *PgxAutoPayRepository) ExistsActiveForMethod(ctx context.Context, paymentMethodID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM autopay_schedules WHERE payment_method_id = $1 AND active = TRUE);`

	var exists bool
	if err := r.Pool.QueryRow(ctx, query, paymentMethodID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check autopay references for payment method %s: %w", paymentMethodID, err)
	}
	return exists, nil
}
