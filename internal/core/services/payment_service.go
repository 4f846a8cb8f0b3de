package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rentora/rentora_payments/internal/apperrors"
	"github.com/rentora/rentora_payments/internal/core/domain"
	"github.com/rentora/rentora_payments/internal/core/ports/gateways"
	portsrepo "github.com/rentora/rentora_payments/internal/core/ports/repositories"
	portssvc "github.com/rentora/rentora_payments/internal/core/ports/services"
	"github.com/rentora/rentora_payments/internal/dto"
	"github.com/rentora/rentora_payments/internal/middleware"
	"github.com/rentora/rentora_payments/internal/utils/feecalc"
)

const (
	maxPageSize     = 100
	defaultPageSize = 20
	chargeCurrency  = "usd"
)

// paymentService validates, prices and executes payment attempts.
type paymentService struct {
	paymentRepo  portsrepo.PaymentRepositoryFacade
	chargeRepo   portsrepo.ChargeRepositoryFacade
	methodRepo   portsrepo.PaymentMethodRepositoryFacade
	orgRepo      portsrepo.OrganizationRepositoryFacade
	accountRepo  portsrepo.ConnectedAccountRepositoryFacade
	processor    gateways.PaymentProcessor
	events       gateways.EventSink
	splitRatio   decimal.Decimal
	systemUserID string
	now          func() time.Time
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	repos portsrepo.RepositoryProvider,
	processor gateways.PaymentProcessor,
	events gateways.EventSink,
	splitRatio decimal.Decimal,
	systemUserID string,
) portssvc.PaymentSvcFacade {
	return &paymentService{
		paymentRepo:  repos.PaymentRepo,
		chargeRepo:   repos.ChargeRepo,
		methodRepo:   repos.PaymentMethodRepo,
		orgRepo:      repos.OrganizationRepo,
		accountRepo:  repos.ConnectedAccountRepo,
		processor:    processor,
		events:       events,
		splitRatio:   splitRatio,
		systemUserID: systemUserID,
		now:          time.Now,
	}
}

var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

// hashParams produces a stable digest of the business parameters bound to an
// idempotency key, so key reuse with different parameters is detectable.
func hashParams(req dto.ProcessPaymentRequest) string {
	ids := append([]string(nil), req.ChargeIDs...)
	sort.Strings(ids)
	canonical := strings.Join([]string{
		req.TenantID,
		req.LeaseID,
		strings.Join(ids, ","),
		req.PaymentMethodID,
		req.Amount.String(),
	}, "|")
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}

// toCents converts a decimal dollar amount to integer minor units.
func toCents(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

// resultFromPayment derives the caller-facing result from a stored payment.
func resultFromPayment(p *domain.Payment) *dto.PaymentResult {
	fees := dto.ToFeeBreakdownResponse(p.Fees)
	return &dto.PaymentResult{
		Success:       p.Status == domain.PaymentSucceeded,
		PaymentID:     p.PaymentID,
		Status:        p.Status,
		FailureReason: p.FailureReason,
		FailureDetail: p.FailureDetail,
		Fees:          &fees,
		ReceiptURL:    p.ReceiptURL,
	}
}

// businessFailure builds a failure result for attempts rejected before any
// payment row or processor call exists. The breakdown that would have applied
// is attached whenever the method class and fee policy are already known.
func businessFailure(reason domain.FailureReason, detail string, fees *domain.FeeBreakdown) *dto.PaymentResult {
	result := &dto.PaymentResult{
		Success:       false,
		FailureReason: reason,
		FailureDetail: detail,
	}
	if fees != nil {
		f := dto.ToFeeBreakdownResponse(*fees)
		result.Fees = &f
	}
	return result
}

// ProcessPayment runs the full attempt: validation, fee computation, the
// write-ahead PENDING row, the processor call and settlement. Expected
// business failures come back inside the result; returned errors are
// infrastructure faults only.
func (s *paymentService) ProcessPayment(ctx context.Context, req dto.ProcessPaymentRequest) (*dto.PaymentResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if len(req.ChargeIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one charge is required", apperrors.ErrValidation)
	}

	// Idempotent replay: the same key with the same parameters returns the
	// stored outcome; the same key with different parameters is a conflict.
	idempotencyKey := req.IdempotencyKey
	paramsHash := hashParams(req)
	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	} else {
		existing, err := s.paymentRepo.FindByIdempotencyKey(ctx, idempotencyKey)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		if existing != nil {
			if existing.ParamsHash != paramsHash {
				return businessFailure(domain.FailureConflict, "idempotency key reused with different parameters", nil), nil
			}
			return resultFromPayment(existing), nil
		}
	}

	// Validate the instrument.
	method, err := s.methodRepo.FindPaymentMethodByID(ctx, req.PaymentMethodID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return businessFailure(domain.FailurePaymentMethodInvalid, "payment method not found", nil), nil
		}
		return nil, err
	}
	if method.TenantID != req.TenantID || method.Status != domain.MethodActive {
		return businessFailure(domain.FailurePaymentMethodInvalid, "payment method is not active for this tenant", nil), nil
	}

	// Validate the charges: all present, on this lease, one organization.
	// Unpaid and amount checks are deferred until the breakdown is priced so
	// their failures can carry it.
	charges, err := s.chargeRepo.FindChargesByIDs(ctx, req.ChargeIDs)
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	organizationID := ""
	paidDetail := ""
	for _, chargeID := range req.ChargeIDs {
		charge, ok := charges[chargeID]
		if !ok {
			return nil, fmt.Errorf("%w: charge %s not found", apperrors.ErrValidation, chargeID)
		}
		if charge.LeaseID != req.LeaseID || charge.TenantID != req.TenantID {
			return nil, fmt.Errorf("%w: charge %s does not belong to lease %s", apperrors.ErrValidation, chargeID, req.LeaseID)
		}
		if charge.Paid && paidDetail == "" {
			paidDetail = fmt.Sprintf("charge %s is already paid", chargeID)
		}
		if organizationID == "" {
			organizationID = charge.OrganizationID
		} else if organizationID != charge.OrganizationID {
			return nil, fmt.Errorf("%w: charges span multiple organizations", apperrors.ErrValidation)
		}
		total = total.Add(charge.Amount)
	}

	// Price the attempt before any outcome is decided: every result from here
	// on reports the breakdown that applies or would have applied.
	org, err := s.orgRepo.FindOrganizationByID(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	fees, err := feecalc.ComputeFees(req.Amount, method.MethodClass, org.FeePolicy, s.splitRatio)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	if paidDetail != "" {
		return businessFailure(domain.FailureAmountMismatch, paidDetail, &fees), nil
	}
	if !total.Equal(req.Amount) {
		return businessFailure(domain.FailureAmountMismatch,
			fmt.Sprintf("requested amount %s does not match charge total %s", req.Amount.String(), total.String()), &fees), nil
	}

	// Resolve routing: money only moves toward an account that can receive
	// payouts.
	account, err := s.accountRepo.FindByOrganizationID(ctx, organizationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return businessFailure(domain.FailurePayoutNotConfigured, "organization has no connected account", &fees), nil
		}
		return nil, err
	}
	if account.Status != domain.AccountActive || !account.ChargesEnabled || !account.PayoutsEnabled {
		return businessFailure(domain.FailurePayoutNotConfigured,
			fmt.Sprintf("connected account is %s", account.Status), &fees), nil
	}

	customerID, err := s.methodRepo.FindCustomerIDByTenant(ctx, req.TenantID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return businessFailure(domain.FailurePaymentMethodInvalid, "tenant has no processor customer", &fees), nil
		}
		return nil, err
	}

	// Write-ahead: the PENDING row with its idempotency key is durable
	// before the processor sees the request.
	now := s.now()
	payment := domain.Payment{
		PaymentID:       uuid.NewString(),
		IdempotencyKey:  idempotencyKey,
		ParamsHash:      paramsHash,
		OrganizationID:  organizationID,
		TenantID:        req.TenantID,
		LeaseID:         req.LeaseID,
		ChargeIDs:       req.ChargeIDs,
		PaymentMethodID: req.PaymentMethodID,
		Amount:          req.Amount,
		Fees:            fees,
		Status:          domain.PaymentPending,
		Description:     req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     req.TenantID,
			LastUpdatedAt: now,
			LastUpdatedBy: req.TenantID,
		},
	}
	if err := s.paymentRepo.CreatePending(ctx, payment); err != nil {
		// A concurrent attempt with the same key won the insert race.
		if errors.Is(err, apperrors.ErrDuplicate) {
			stored, findErr := s.paymentRepo.FindByIdempotencyKey(ctx, idempotencyKey)
			if findErr != nil {
				return nil, findErr
			}
			if stored.ParamsHash != paramsHash {
				return businessFailure(domain.FailureConflict, "idempotency key reused with different parameters", nil), nil
			}
			return resultFromPayment(stored), nil
		}
		return nil, err
	}

	chargeResult, err := s.processor.CreateCharge(ctx, gateways.ChargeRequest{
		IdempotencyKey:        idempotencyKey,
		CustomerID:            customerID,
		PaymentMethodID:       method.ProcessorMethodID,
		AmountCents:           toCents(fees.TotalCharged),
		NetToDestinationCents: toCents(fees.NetToLandlord),
		DestinationAccountID:  account.ProcessorAccountID,
		Currency:              chargeCurrency,
		Description:           req.Description,
	})
	if err != nil {
		var apiErr *gateways.APIError
		if errors.As(err, &apiErr) {
			// Definitive processor answer: the charge never happened.
			if markErr := s.paymentRepo.MarkFailed(ctx, payment.PaymentID, domain.FailureProcessorDeclined, apiErr.Message, req.TenantID, s.now()); markErr != nil {
				return nil, markErr
			}
			logger.Warn("Payment declined at submission",
				slog.String("payment_id", payment.PaymentID),
				slog.String("decline", apiErr.Message),
			)
			s.events.Emit(req.TenantID, "payment_failed", map[string]any{
				"payment_id": payment.PaymentID,
				"reason":     string(domain.FailureProcessorDeclined),
			})
			return s.storedResult(ctx, payment.PaymentID)
		}
		// Ambiguous submission: never assume failure on timeout. Park the
		// row in PROCESSING for reconciliation.
		if markErr := s.paymentRepo.MarkProcessing(ctx, payment.PaymentID, "", req.TenantID, s.now()); markErr != nil {
			return nil, markErr
		}
		logger.Warn("Payment submission ambiguous, awaiting reconciliation",
			slog.String("payment_id", payment.PaymentID),
			slog.String("error", err.Error()),
		)
		return s.storedResult(ctx, payment.PaymentID)
	}

	switch chargeResult.Status {
	case gateways.ChargeStatusSucceeded:
		if err := s.paymentRepo.MarkSucceeded(ctx, payment.PaymentID, chargeResult.ChargeID, chargeResult.ReceiptURL, req.ChargeIDs, req.TenantID, s.now()); err != nil {
			return nil, err
		}
		logger.Info("Payment succeeded",
			slog.String("payment_id", payment.PaymentID),
			slog.String("processor_charge_id", chargeResult.ChargeID),
		)
		s.events.Emit(req.TenantID, "payment_succeeded", map[string]any{
			"payment_id":      payment.PaymentID,
			"organization_id": organizationID,
			"amount":          req.Amount.String(),
		})
	case gateways.ChargeStatusProcessing:
		if err := s.paymentRepo.MarkProcessing(ctx, payment.PaymentID, chargeResult.ChargeID, req.TenantID, s.now()); err != nil {
			return nil, err
		}
	default:
		if err := s.paymentRepo.MarkFailed(ctx, payment.PaymentID, domain.FailureProcessorDeclined, chargeResult.DeclineReason, req.TenantID, s.now()); err != nil {
			return nil, err
		}
		logger.Warn("Payment declined",
			slog.String("payment_id", payment.PaymentID),
			slog.String("decline", chargeResult.DeclineReason),
		)
		s.events.Emit(req.TenantID, "payment_failed", map[string]any{
			"payment_id": payment.PaymentID,
			"reason":     string(domain.FailureProcessorDeclined),
		})
	}
	return s.storedResult(ctx, payment.PaymentID)
}

func (s *paymentService) storedResult(ctx context.Context, paymentID string) (*dto.PaymentResult, error) {
	stored, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	return resultFromPayment(stored), nil
}

// GetPayment returns a payment visible to the caller: the paying tenant or
// the receiving organization's owner.
func (s *paymentService) GetPayment(ctx context.Context, paymentID string, callerID string) (*domain.Payment, error) {
	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.TenantID == callerID {
		return payment, nil
	}
	org, err := s.orgRepo.FindOrganizationByID(ctx, payment.OrganizationID)
	if err != nil {
		return nil, err
	}
	if org.OwnerUserID != callerID {
		return nil, fmt.Errorf("%w: payment %s", apperrors.ErrForbidden, paymentID)
	}
	return payment, nil
}

// ListTenantPayments pages through a tenant's payment history, newest first.
func (s *paymentService) ListTenantPayments(ctx context.Context, tenantID string, params dto.ListPaymentsParams) (*dto.ListPaymentsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	payments, nextToken, err := s.paymentRepo.ListByTenant(ctx, tenantID, limit, params.NextToken)
	if err != nil {
		return nil, err
	}
	return &dto.ListPaymentsResponse{
		Payments:  dto.ToPaymentResponses(payments),
		NextToken: nextToken,
	}, nil
}

// ReconcileTransaction resolves a PROCESSING payment with the processor's
// final status. Terminal payments are left untouched so replayed
// notifications are harmless.
func (s *paymentService) ReconcileTransaction(ctx context.Context, req dto.ReconcileRequest) (*domain.Payment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	payment, err := s.paymentRepo.FindByProcessorChargeID(ctx, req.ProcessorChargeID)
	if err != nil {
		return nil, err
	}
	if payment.Status == domain.PaymentSucceeded || payment.Status == domain.PaymentFailed {
		return payment, nil
	}

	if req.FinalStatus == gateways.ChargeStatusSucceeded {
		if err := s.paymentRepo.MarkSucceeded(ctx, payment.PaymentID, req.ProcessorChargeID, req.ReceiptURL, payment.ChargeIDs, s.systemUserID, s.now()); err != nil {
			return nil, err
		}
		logger.Info("Payment reconciled as succeeded", slog.String("payment_id", payment.PaymentID))
		s.events.Emit(payment.TenantID, "payment_succeeded", map[string]any{
			"payment_id":      payment.PaymentID,
			"organization_id": payment.OrganizationID,
			"amount":          payment.Amount.String(),
		})
	} else {
		if err := s.paymentRepo.MarkFailed(ctx, payment.PaymentID, domain.FailureProcessorDeclined, req.FailureDetail, s.systemUserID, s.now()); err != nil {
			return nil, err
		}
		logger.Info("Payment reconciled as failed", slog.String("payment_id", payment.PaymentID))
		s.events.Emit(payment.TenantID, "payment_failed", map[string]any{
			"payment_id": payment.PaymentID,
			"reason":     string(domain.FailureProcessorDeclined),
		})
	}
	return s.paymentRepo.FindPaymentByID(ctx, payment.PaymentID)
}
