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

type PgxPaymentMethodRepository struct {
	BaseRepository
}

// newPgxPaymentMethodRepository creates a new repository for saved payment instruments.
func newPgxPaymentMethodRepository(pool *pgxpool.Pool) portsrepo.PaymentMethodRepositoryFacade {
	return &PgxPaymentMethodRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.PaymentMethodRepositoryFacade = (*PgxPaymentMethodRepository)(nil)

const paymentMethodColumns = `payment_method_id, tenant_id, processor_method_id, method_class, last4, brand, nickname, is_default, status, created_at, created_by, last_updated_at, last_updated_by`

func scanPaymentMethod(row pgx.Row) (models.PaymentMethod, error) {
	var m models.PaymentMethod
	err := row.Scan(
		&m.PaymentMethodID,
		&m.TenantID,
		&m.ProcessorMethodID,
		&m.MethodClass,
		&m.Last4,
		&m.Brand,
		&m.Nickname,
		&m.IsDefault,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// lockTenantMethods serializes writers touching one tenant's method set so
// the single-default invariant holds under concurrency.
func lockTenantMethods(ctx context.Context, tx pgx.Tx, tenantID string) error {
	rows, err := tx.Query(ctx, `SELECT payment_method_id FROM payment_methods WHERE tenant_id = $1 FOR UPDATE;`, tenantID)
	if err != nil {
		return fmt.Errorf("failed to lock payment methods for tenant %s: %w", tenantID, err)
	}
	rows.Close()
	return rows.Err()
}

// SavePaymentMethod inserts a new method. When the method is flagged default,
// the tenant's previous default is cleared in the same transaction.
func (r *PgxPaymentMethodRepository) SavePaymentMethod(ctx context.Context, method domain.PaymentMethod) error {
	m := mapping.ToModelPaymentMethod(method)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := lockTenantMethods(ctx, tx, m.TenantID); err != nil {
		return err
	}

	if m.IsDefault {
		clearQuery := `
			UPDATE payment_methods
			SET is_default = FALSE, last_updated_at = $1, last_updated_by = $2
			WHERE tenant_id = $3 AND is_default = TRUE;
		`
		if _, err := tx.Exec(ctx, clearQuery, m.LastUpdatedAt, m.LastUpdatedBy, m.TenantID); err != nil {
			return fmt.Errorf("failed to clear previous default for tenant %s: %w", m.TenantID, err)
		}
	}

	insertQuery := `
		INSERT INTO payment_methods (` + paymentMethodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err = tx.Exec(ctx, insertQuery,
		m.PaymentMethodID,
		m.TenantID,
		m.ProcessorMethodID,
		m.MethodClass,
		m.Last4,
		m.Brand,
		m.Nickname,
		m.IsDefault,
		m.Status,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: payment method %s already saved", apperrors.ErrDuplicate, m.ProcessorMethodID)
		}
		return fmt.Errorf("failed to save payment method %s: %w", m.PaymentMethodID, err)
	}

	return r.Commit(ctx, tx)
}

// FindPaymentMethodByID retrieves a method by ID regardless of status.
func (r *PgxPaymentMethodRepository) FindPaymentMethodByID(ctx context.Context, paymentMethodID string) (*domain.PaymentMethod, error) {
	query := `SELECT ` + paymentMethodColumns + ` FROM payment_methods WHERE payment_method_id = $1;`

	m, err := scanPaymentMethod(r.Pool.QueryRow(ctx, query, paymentMethodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: payment method %s", apperrors.ErrNotFound, paymentMethodID)
		}
		return nil, fmt.Errorf("failed to find payment method %s: %w", paymentMethodID, err)
	}
	method := mapping.ToDomainPaymentMethod(m)
	return &method, nil
}

// ListActiveByTenant returns the tenant's active methods, default first then
// newest first.
func (r *PgxPaymentMethodRepository) ListActiveByTenant(ctx context.Context, tenantID string) ([]domain.PaymentMethod, error) {
	query := `
		SELECT ` + paymentMethodColumns + `
		FROM payment_methods
		WHERE tenant_id = $1 AND status = $2
		ORDER BY is_default DESC, created_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID, string(domain.MethodActive))
	if err != nil {
		return nil, fmt.Errorf("failed to list payment methods for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	modelMethods, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.PaymentMethod, error) {
		return scanPaymentMethod(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan payment methods for tenant %s: %w", tenantID, err)
	}
	return mapping.ToDomainPaymentMethodSlice(modelMethods), nil
}

// SetDefault makes the given active method the tenant's single default.
func (r *PgxPaymentMethodRepository) SetDefault(ctx context.Context, tenantID, paymentMethodID, updatedBy string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := lockTenantMethods(ctx, tx, tenantID); err != nil {
		return err
	}

	clearQuery := `
		UPDATE payment_methods
		SET is_default = FALSE, last_updated_at = $1, last_updated_by = $2
		WHERE tenant_id = $3 AND is_default = TRUE AND payment_method_id <> $4;
	`
	if _, err := tx.Exec(ctx, clearQuery, now, updatedBy, tenantID, paymentMethodID); err != nil {
		return fmt.Errorf("failed to clear previous default for tenant %s: %w", tenantID, err)
	}

	setQuery := `
		UPDATE payment_methods
		SET is_default = TRUE, last_updated_at = $1, last_updated_by = $2
		WHERE tenant_id = $3 AND payment_method_id = $4 AND status = $5;
	`
	tag, err := tx.Exec(ctx, setQuery, now, updatedBy, tenantID, paymentMethodID, string(domain.MethodActive))
	if err != nil {
		return fmt.Errorf("failed to set default payment method %s: %w", paymentMethodID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: active payment method %s for tenant %s", apperrors.ErrNotFound, paymentMethodID, tenantID)
	}

	return r.Commit(ctx, tx)
}

// UpdateNickname renames a tenant's method.
func (r *PgxPaymentMethodRepository) UpdateNickname(ctx context.Context, tenantID, paymentMethodID, nickname, updatedBy string, now time.Time) error {
	query := `
		UPDATE payment_methods
		SET nickname = $1, last_updated_at = $2, last_updated_by = $3
		WHERE tenant_id = $4 AND payment_method_id = $5 AND status = $6;
	`
	tag, err := r.Pool.Exec(ctx, query, nickname, now, updatedBy, tenantID, paymentMethodID, string(domain.MethodActive))
	if err != nil {
		return fmt.Errorf("failed to update nickname for payment method %s: %w", paymentMethodID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: active payment method %s for tenant %s", apperrors.ErrNotFound, paymentMethodID, tenantID)
	}
	return nil
}

// MarkRemoved tombstones the method and drops its default flag.
func (r *PgxPaymentMethodRepository) MarkRemoved(ctx context.Context, tenantID, paymentMethodID, updatedBy string, now time.Time) error {
	query := `
		UPDATE payment_methods
		SET status = $1, is_default = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE tenant_id = $4 AND payment_method_id = $5 AND status = $6;
	`
	tag, err := r.Pool.Exec(ctx, query, string(domain.MethodRemoved), now, updatedBy, tenantID, paymentMethodID, string(domain.MethodActive))
	if err != nil {
		return fmt.Errorf("failed to mark payment method %s removed: %w", paymentMethodID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: active payment method %s for tenant %s", apperrors.ErrNotFound, paymentMethodID, tenantID)
	}
	return nil
}

// FindCustomerIDByTenant returns the processor customer ID for a tenant.
func (r *PgxPaymentMethodRepository) FindCustomerIDByTenant(ctx context.Context, tenantID string) (string, error) {
	query := `SELECT processor_customer_id FROM tenant_customers WHERE tenant_id = $1;`

	var customerID string
	err := r.Pool.QueryRow(ctx, query, tenantID).Scan(&customerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("%w: processor customer for tenant %s", apperrors.ErrNotFound, tenantID)
		}
		return "", fmt.Errorf("failed to find processor customer for tenant %s: %w", tenantID, err)
	}
	return customerID, nil
}

// SaveCustomerID records the tenant's processor customer mapping. Concurrent
// first-time setup races resolve to the first writer.
func (r *PgxPaymentMethodRepository) SaveCustomerID(ctx context.Context, tenantID, customerID string, now time.Time) error {
	query := `
		INSERT INTO tenant_customers (tenant_id, processor_customer_id, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $1, $3, $1)
		ON CONFLICT (tenant_id) DO NOTHING;
	`
	if _, err := r.Pool.Exec(ctx, query, tenantID, customerID, now); err != nil {
		return fmt.Errorf("failed to save processor customer for tenant %s: %w", tenantID, err)
	}
	return nil
}
