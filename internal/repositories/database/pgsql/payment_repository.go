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
	"github.com/rentora/rentora_payments/internal/utils/pagination"
)

type PgxPaymentRepository struct {
	BaseRepository
}

// newPgxPaymentRepository creates a new repository for payment attempts.
func newPgxPaymentRepository(pool *pgxpool.Pool) portsrepo.PaymentRepositoryFacade {
	return &PgxPaymentRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.PaymentRepositoryFacade = (*PgxPaymentRepository)(nil)

const paymentColumns = `payment_id, idempotency_key, params_hash, organization_id, tenant_id, lease_id, charge_ids, payment_method_id, amount, fee_schedule_version, fee_policy, processing_fee, payer_portion, landlord_portion, total_charged, net_to_landlord, processor_charge_id, status, failure_reason, failure_detail, description, receipt_url, created_at, created_by, last_updated_at, last_updated_by`

func scanPayment(row pgx.Row) (models.Payment, error) {
	var m models.Payment
	err := row.Scan(
		&m.PaymentID,
		&m.IdempotencyKey,
		&m.ParamsHash,
		&m.OrganizationID,
		&m.TenantID,
		&m.LeaseID,
		&m.ChargeIDs,
		&m.PaymentMethodID,
		&m.Amount,
		&m.FeeScheduleVersion,
		&m.FeePolicy,
		&m.ProcessingFee,
		&m.PayerPortion,
		&m.LandlordPortion,
		&m.TotalCharged,
		&m.NetToLandlord,
		&m.ProcessorChargeID,
		&m.Status,
		&m.FailureReason,
		&m.FailureDetail,
		&m.Description,
		&m.ReceiptURL,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// CreatePending inserts the write-ahead row before any processor call. The
// unique index on idempotency_key turns replays into ErrDuplicate.
func (r *PgxPaymentRepository) CreatePending(ctx context.Context, payment domain.Payment) error {
	m := mapping.ToModelPayment(payment)

	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.PaymentID,
		m.IdempotencyKey,
		m.ParamsHash,
		m.OrganizationID,
		m.TenantID,
		m.LeaseID,
		m.ChargeIDs,
		m.PaymentMethodID,
		m.Amount,
		m.FeeScheduleVersion,
		m.FeePolicy,
		m.ProcessingFee,
		m.PayerPortion,
		m.LandlordPortion,
		m.TotalCharged,
		m.NetToLandlord,
		m.ProcessorChargeID,
		m.Status,
		m.FailureReason,
		m.FailureDetail,
		m.Description,
		m.ReceiptURL,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: payment with idempotency key %s already exists", apperrors.ErrDuplicate, m.IdempotencyKey)
		}
		return fmt.Errorf("failed to create pending payment %s: %w", m.PaymentID, err)
	}
	return nil
}

// FindPaymentByID retrieves a payment by its ID.
func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	return r.findOne(ctx, `payment_id = $1`, paymentID)
}

// FindByIdempotencyKey retrieves a payment by its idempotency key.
func (r *PgxPaymentRepository) FindByIdempotencyKey(ctx context.Context, idempotencyKey string) (*domain.Payment, error) {
	return r.findOne(ctx, `idempotency_key = $1`, idempotencyKey)
}

// FindByProcessorChargeID retrieves a payment by its processor charge ID.
func (r *PgxPaymentRepository) FindByProcessorChargeID(ctx context.Context, processorChargeID string) (*domain.Payment, error) {
	return r.findOne(ctx, `processor_charge_id = $1`, processorChargeID)
}

func (r *PgxPaymentRepository) findOne(ctx context.Context, where string, arg any) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE ` + where + `;`

	m, err := scanPayment(r.Pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: payment matching %v", apperrors.ErrNotFound, arg)
		}
		return nil, fmt.Errorf("failed to find payment matching %v: %w", arg, err)
	}
	p := mapping.ToDomainPayment(m)
	return &p, nil
}

// MarkSucceeded finalizes the payment and flips the settled charges to paid
// in one transaction, so a success can never leave its charges open.
func (r *PgxPaymentRepository) MarkSucceeded(ctx context.Context, paymentID, processorChargeID, receiptURL string, chargeIDs []string, updatedBy string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	paymentQuery := `
		UPDATE payments
		SET status = $1, processor_charge_id = $2, receipt_url = $3, last_updated_at = $4, last_updated_by = $5
		WHERE payment_id = $6 AND status IN ($7, $8);
	`
	tag, err := tx.Exec(ctx, paymentQuery,
		string(domain.PaymentSucceeded),
		processorChargeID,
		receiptURL,
		now,
		updatedBy,
		paymentID,
		string(domain.PaymentPending),
		string(domain.PaymentProcessing),
	)
	if err != nil {
		return fmt.Errorf("failed to mark payment %s succeeded: %w", paymentID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: payment %s is not open for settlement", apperrors.ErrConflict, paymentID)
	}

	chargeQuery := `
		UPDATE charges
		SET paid = TRUE, paid_by_payment = $1, last_updated_at = $2, last_updated_by = $3
		WHERE charge_id = ANY($4) AND paid = FALSE;
	`
	if _, err := tx.Exec(ctx, chargeQuery, paymentID, now, updatedBy, chargeIDs); err != nil {
		return fmt.Errorf("failed to mark charges paid for payment %s: %w", paymentID, err)
	}

	return r.Commit(ctx, tx)
}

// MarkFailed records a terminal failure with its stable reason code.
func (r *PgxPaymentRepository) MarkFailed(ctx context.Context, paymentID string, reason domain.FailureReason, detail, updatedBy string, now time.Time) error {
	query := `
		UPDATE payments
		SET status = $1, failure_reason = $2, failure_detail = $3, last_updated_at = $4, last_updated_by = $5
		WHERE payment_id = $6 AND status IN ($7, $8);
	`
	tag, err := r.Pool.Exec(ctx, query,
		string(domain.PaymentFailed),
		string(reason),
		detail,
		now,
		updatedBy,
		paymentID,
		string(domain.PaymentPending),
		string(domain.PaymentProcessing),
	)
	if err != nil {
		return fmt.Errorf("failed to mark payment %s failed: %w", paymentID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: payment %s is not open for failure", apperrors.ErrConflict, paymentID)
	}
	return nil
}

// MarkProcessing parks an ambiguous submission for reconciliation.
func (r *PgxPaymentRepository) MarkProcessing(ctx context.Context, paymentID, processorChargeID, updatedBy string, now time.Time) error {
	query := `
		UPDATE payments
		SET status = $1, processor_charge_id = $2, last_updated_at = $3, last_updated_by = $4
		WHERE payment_id = $5 AND status = $6;
	`
	tag, err := r.Pool.Exec(ctx, query,
		string(domain.PaymentProcessing),
		processorChargeID,
		now,
		updatedBy,
		paymentID,
		string(domain.PaymentPending),
	)
	if err != nil {
		return fmt.Errorf("failed to mark payment %s processing: %w", paymentID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: payment %s is not pending", apperrors.ErrConflict, paymentID)
	}
	return nil
}

// ListByTenant pages a tenant's payments newest first using a keyset token
// over (created_at, payment_id).
func (r *PgxPaymentRepository) ListByTenant(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.Payment, *string, error) {
	args := []any{tenantID}
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE tenant_id = $1`

	if nextToken != nil && *nextToken != "" {
		createdAt, paymentID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (created_at, payment_id) < ($2, $3)`
		args = append(args, createdAt, paymentID)
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC, payment_id DESC LIMIT $%d;`, len(args)+1)
	args = append(args, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list payments for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	modelPayments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Payment, error) {
		return scanPayment(row)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan payments for tenant %s: %w", tenantID, err)
	}

	var token *string
	if len(modelPayments) > limit {
		modelPayments = modelPayments[:limit]
		last := modelPayments[len(modelPayments)-1]
		t := pagination.EncodeToken(last.CreatedAt, last.PaymentID)
		token = &t
	}
	return mapping.ToDomainPaymentSlice(modelPayments), token, nil
}
