package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rentora/rentora_payments/internal/apperrors"
	"github.com/rentora/rentora_payments/internal/core/domain"
	portsrepo "github.com/rentora/rentora_payments/internal/core/ports/repositories"
	"github.com/rentora/rentora_payments/internal/models"
	"github.com/rentora/rentora_payments/internal/utils/mapping"
)

type PgxConnectedAccountRepository struct {
	BaseRepository
}

// newPgxConnectedAccountRepository creates a new repository for processor account links.
func newPgxConnectedAccountRepository(pool *pgxpool.Pool) portsrepo.ConnectedAccountRepositoryFacade {
	return &PgxConnectedAccountRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.ConnectedAccountRepositoryFacade = (*PgxConnectedAccountRepository)(nil)

const connectedAccountColumns = `connected_account_id, organization_id, processor_account_id, status, charges_enabled, payouts_enabled, details_submitted, currently_due, eventually_due, past_due, bank_last4, bank_name, last_synced_at, created_at, created_by, last_updated_at, last_updated_by`

func scanConnectedAccount(row pgx.Row) (models.ConnectedAccount, error) {
	var m models.ConnectedAccount
	err := row.Scan(
		&m.ConnectedAccountID,
		&m.OrganizationID,
		&m.ProcessorAccountID,
		&m.Status,
		&m.ChargesEnabled,
		&m.PayoutsEnabled,
		&m.DetailsSubmitted,
		&m.CurrentlyDue,
		&m.EventuallyDue,
		&m.PastDue,
		&m.BankLast4,
		&m.BankName,
		&m.LastSyncedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveConnectedAccount inserts a new connected account. The unique index on
// organization_id enforces one account per organization.
func (r *PgxConnectedAccountRepository) SaveConnectedAccount(ctx context.Context, account domain.ConnectedAccount) error {
	m := mapping.ToModelConnectedAccount(account)

	query := `
		INSERT INTO connected_accounts (` + connectedAccountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ConnectedAccountID,
		m.OrganizationID,
		m.ProcessorAccountID,
		m.Status,
		m.ChargesEnabled,
		m.PayoutsEnabled,
		m.DetailsSubmitted,
		m.CurrentlyDue,
		m.EventuallyDue,
		m.PastDue,
		m.BankLast4,
		m.BankName,
		m.LastSyncedAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: connected account for organization %s already exists", apperrors.ErrDuplicate, m.OrganizationID)
		}
		return fmt.Errorf("failed to save connected account %s: %w", m.ConnectedAccountID, err)
	}
	return nil
}

// FindByOrganizationID retrieves the organization's connected account.
func (r *PgxConnectedAccountRepository) FindByOrganizationID(ctx context.Context, organizationID string) (*domain.ConnectedAccount, error) {
	query := `SELECT ` + connectedAccountColumns + ` FROM connected_accounts WHERE organization_id = $1;`

	m, err := scanConnectedAccount(r.Pool.QueryRow(ctx, query, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: connected account for organization %s", apperrors.ErrNotFound, organizationID)
		}
		return nil, fmt.Errorf("failed to find connected account for organization %s: %w", organizationID, err)
	}
	acc := mapping.ToDomainConnectedAccount(m)
	return &acc, nil
}

// FindByProcessorAccountID retrieves a connected account by its processor-side ID.
func (r *PgxConnectedAccountRepository) FindByProcessorAccountID(ctx context.Context, processorAccountID string) (*domain.ConnectedAccount, error) {
	query := `SELECT ` + connectedAccountColumns + ` FROM connected_accounts WHERE processor_account_id = $1;`

	m, err := scanConnectedAccount(r.Pool.QueryRow(ctx, query, processorAccountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: connected account for processor account %s", apperrors.ErrNotFound, processorAccountID)
		}
		return nil, fmt.Errorf("failed to find connected account for processor account %s: %w", processorAccountID, err)
	}
	acc := mapping.ToDomainConnectedAccount(m)
	return &acc, nil
}

// ApplySyncState overwrites capability state guarded by a compare-and-swap on
// last_synced_at. A stale snapshot affects zero rows and returns false.
func (r *PgxConnectedAccountRepository) ApplySyncState(ctx context.Context, connectedAccountID string, state portsrepo.ConnectedAccountSyncState, updatedBy string) (bool, error) {
	query := `
		UPDATE connected_accounts
		SET status = $1,
			charges_enabled = $2,
			payouts_enabled = $3,
			details_submitted = $4,
			currently_due = $5,
			eventually_due = $6,
			past_due = $7,
			bank_last4 = $8,
			bank_name = $9,
			last_synced_at = $10,
			last_updated_at = $10,
			last_updated_by = $11
		WHERE connected_account_id = $12
		  AND (last_synced_at IS NULL OR last_synced_at < $10);
	`
	tag, err := r.Pool.Exec(ctx, query,
		string(state.Status),
		state.ChargesEnabled,
		state.PayoutsEnabled,
		state.DetailsSubmitted,
		state.Requirements.CurrentlyDue,
		state.Requirements.EventuallyDue,
		state.Requirements.PastDue,
		state.BankLast4,
		state.BankName,
		state.SnapshotAt,
		updatedBy,
		connectedAccountID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to apply sync state to connected account %s: %w", connectedAccountID, err)
	}
	return tag.RowsAffected() > 0, nil
}
