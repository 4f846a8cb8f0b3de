package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rentora/rentora_payments/internal/apperrors"
	"github.com/rentora/rentora_payments/internal/core/domain"
	portsrepo "github.com/rentora/rentora_payments/internal/core/ports/repositories"
	"github.com/rentora/rentora_payments/internal/models"
	"github.com/rentora/rentora_payments/internal/utils/mapping"
)

type PgxChargeRepository struct {
	BaseRepository
}

// newPgxChargeRepository creates a new repository for billing charges.
func newPgxChargeRepository(pool *pgxpool.Pool) portsrepo.ChargeRepositoryFacade {
	return &PgxChargeRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.ChargeRepositoryFacade = (*PgxChargeRepository)(nil)

const chargeColumns = `charge_id, organization_id, lease_id, tenant_id, charge_type, description, amount, due_date, paid, paid_by_payment, created_at, created_by, last_updated_at, last_updated_by`

func scanCharge(row pgx.Row) (models.Charge, error) {
	var m models.Charge
	err := row.Scan(
		&m.ChargeID,
		&m.OrganizationID,
		&m.LeaseID,
		&m.TenantID,
		&m.ChargeType,
		&m.Description,
		&m.Amount,
		&m.DueDate,
		&m.Paid,
		&m.PaidByPayment,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveCharge inserts a new charge.
func (r *PgxChargeRepository) SaveCharge(ctx context.Context, charge domain.Charge) error {
	m := mapping.ToModelCharge(charge)

	query := `
		INSERT INTO charges (` + chargeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ChargeID,
		m.OrganizationID,
		m.LeaseID,
		m.TenantID,
		m.ChargeType,
		m.Description,
		m.Amount,
		m.DueDate,
		m.Paid,
		m.PaidByPayment,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: charge %s already exists", apperrors.ErrDuplicate, m.ChargeID)
		}
		return fmt.Errorf("failed to save charge %s: %w", m.ChargeID, err)
	}
	return nil
}

// FindChargesByIDs retrieves the named charges keyed by charge ID. Missing
// IDs are simply absent from the map; callers decide whether that is an error.
func (r *PgxChargeRepository) FindChargesByIDs(ctx context.Context, chargeIDs []string) (map[string]domain.Charge, error) {
	if len(chargeIDs) == 0 {
		return map[string]domain.Charge{}, nil
	}

	query := `SELECT ` + chargeColumns + ` FROM charges WHERE charge_id = ANY($1);`
	rows, err := r.Pool.Query(ctx, query, chargeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to find charges: %w", err)
	}
	defer rows.Close()

	modelCharges, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Charge, error) {
		return scanCharge(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan charges: %w", err)
	}

	result := make(map[string]domain.Charge, len(modelCharges))
	for _, m := range modelCharges {
		result[m.ChargeID] = mapping.ToDomainCharge(m)
	}
	return result, nil
}

// ListUnpaidByLease returns unpaid charges on a lease filtered by type,
// oldest due date first.
func (r *PgxChargeRepository) ListUnpaidByLease(ctx context.Context, leaseID string, chargeTypes []domain.ChargeType) ([]domain.Charge, error) {
	types := make([]string, len(chargeTypes))
	for i, t := range chargeTypes {
		types[i] = string(t)
	}

	query := `
		SELECT ` + chargeColumns + `
		FROM charges
		WHERE lease_id = $1 AND paid = FALSE AND charge_type = ANY($2)
		ORDER BY due_date ASC, created_at ASC;
	`
	rows, err := r.Pool.Query(ctx, query, leaseID, types)
	if err != nil {
		return nil, fmt.Errorf("failed to list unpaid charges for lease %s: %w", leaseID, err)
	}
	defer rows.Close()

	modelCharges, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Charge, error) {
		return scanCharge(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan unpaid charges for lease %s: %w", leaseID, err)
	}
	return mapping.ToDomainChargeSlice(modelCharges), nil
}
