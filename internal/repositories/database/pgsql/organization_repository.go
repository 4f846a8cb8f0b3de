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

type PgxOrganizationRepository struct {
	BaseRepository
}

// newPgxOrganizationRepository creates a new repository for organization data.
func newPgxOrganizationRepository(pool *pgxpool.Pool) portsrepo.OrganizationRepositoryFacade {
	return &PgxOrganizationRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.OrganizationRepositoryFacade = (*PgxOrganizationRepository)(nil)

const organizationColumns = `organization_id, name, owner_user_id, fee_policy, trust_level, payout_delay_days, payout_delay_minimum, successful_payout_count, first_successful_payout_at, created_at, created_by, last_updated_at, last_updated_by`

func scanOrganization(row pgx.Row) (models.Organization, error) {
	var m models.Organization
	err := row.Scan(
		&m.OrganizationID,
		&m.Name,
		&m.OwnerUserID,
		&m.FeePolicy,
		&m.TrustLevel,
		&m.PayoutDelayDays,
		&m.PayoutDelayMinimum,
		&m.SuccessfulPayoutCount,
		&m.FirstSuccessfulPayoutAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveOrganization inserts a new organization.
func (r *PgxOrganizationRepository) SaveOrganization(ctx context.Context, org domain.Organization) error {
	m := mapping.ToModelOrganization(org)

	query := `
		INSERT INTO organizations (` + organizationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.OrganizationID,
		m.Name,
		m.OwnerUserID,
		m.FeePolicy,
		m.TrustLevel,
		m.PayoutDelayDays,
		m.PayoutDelayMinimum,
		m.SuccessfulPayoutCount,
		m.FirstSuccessfulPayoutAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: organization %s already exists", apperrors.ErrDuplicate, m.OrganizationID)
		}
		return fmt.Errorf("failed to save organization %s: %w", m.OrganizationID, err)
	}
	return nil
}

// FindOrganizationByID retrieves an organization by its ID.
func (r *PgxOrganizationRepository) FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error) {
	query := `SELECT ` + organizationColumns + ` FROM organizations WHERE organization_id = $1;`

	m, err := scanOrganization(r.Pool.QueryRow(ctx, query, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: organization %s", apperrors.ErrNotFound, organizationID)
		}
		return nil, fmt.Errorf("failed to find organization %s: %w", organizationID, err)
	}
	org := mapping.ToDomainOrganization(m)
	return &org, nil
}

// UpdateFeePolicy changes the fee policy column only.
func (r *PgxOrganizationRepository) UpdateFeePolicy(ctx context.Context, organizationID string, policy domain.FeePolicy, updatedBy string, now time.Time) error {
	query := `
		UPDATE organizations
		SET fee_policy = $1, last_updated_at = $2, last_updated_by = $3
		WHERE organization_id = $4;
	`
	tag, err := r.Pool.Exec(ctx, query, string(policy), now, updatedBy, organizationID)
	if err != nil {
		return fmt.Errorf("failed to update fee policy for organization %s: %w", organizationID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: organization %s", apperrors.ErrNotFound, organizationID)
	}
	return nil
}

// UpdatePayoutPolicy overwrites the flattened payout policy columns.
func (r *PgxOrganizationRepository) UpdatePayoutPolicy(ctx context.Context, organizationID string, policy domain.PayoutPolicy, updatedBy string, now time.Time) error {
	query := `
		UPDATE organizations
		SET trust_level = $1,
			payout_delay_days = $2,
			payout_delay_minimum = $3,
			successful_payout_count = $4,
			first_successful_payout_at = $5,
			last_updated_at = $6,
			last_updated_by = $7
		WHERE organization_id = $8;
	`
	tag, err := r.Pool.Exec(ctx, query,
		string(policy.TrustLevel),
		policy.PayoutDelayDays,
		policy.PayoutDelayMinimum,
		policy.SuccessfulPayoutCount,
		policy.FirstSuccessfulPayoutAt,
		now,
		updatedBy,
		organizationID,
	)
	if err != nil {
		return fmt.Errorf("failed to update payout policy for organization %s: %w", organizationID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: organization %s", apperrors.ErrNotFound, organizationID)
	}
	return nil
}
