package services

import (
	"context"
	"fmt"
	"log/slog"
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
)

const (
	minDayOfMonth = 1
	maxDayOfMonth = 28
)

// autoPayService manages recurring payment schedules and their monthly
// execution.
type autoPayService struct {
	autoPayRepo  portsrepo.AutoPayRepositoryFacade
	chargeRepo   portsrepo.ChargeRepositoryFacade
	methodRepo   portsrepo.PaymentMethodRepositoryFacade
	paymentSvc   portssvc.PaymentSvcFacade
	events       gateways.EventSink
	systemUserID string
	now          func() time.Time
}

// NewAutoPayService creates a new AutoPayService.
func NewAutoPayService(
	autoPayRepo portsrepo.AutoPayRepositoryFacade,
	chargeRepo portsrepo.ChargeRepositoryFacade,
	methodRepo portsrepo.PaymentMethodRepositoryFacade,
	paymentSvc portssvc.PaymentSvcFacade,
	events gateways.EventSink,
	systemUserID string,
) portssvc.AutoPaySvcFacade {
	return &autoPayService{
		autoPayRepo:  autoPayRepo,
		chargeRepo:   chargeRepo,
		methodRepo:   methodRepo,
		paymentSvc:   paymentSvc,
		events:       events,
		systemUserID: systemUserID,
		now:          time.Now,
	}
}

var _ portssvc.AutoPaySvcFacade = (*autoPayService)(nil)

// validMethodForTenant verifies the payment method exists, is active and is
// owned by the tenant.
func (s *autoPayService) validMethodForTenant(ctx context.Context, tenantID, paymentMethodID string) error {
	method, err := s.methodRepo.FindPaymentMethodByID(ctx, paymentMethodID)
	if err != nil {
		return err
	}
	if method.TenantID != tenantID || method.Status != domain.MethodActive {
		return fmt.Errorf("%w: payment method %s", apperrors.ErrNotFound, paymentMethodID)
	}
	return nil
}

func validDayOfMonth(day int) error {
	if day < minDayOfMonth || day > maxDayOfMonth {
		return fmt.Errorf("%w: day of month %d outside %d..%d", apperrors.ErrValidation, day, minDayOfMonth, maxDayOfMonth)
	}
	return nil
}

func validFixedAmount(amount *decimal.Decimal) error {
	if amount != nil && !amount.IsPositive() {
		return fmt.Errorf("%w: fixed amount must be positive", apperrors.ErrValidation)
	}
	return nil
}

// Setup creates a recurring payment instruction for a lease.
func (s *autoPayService) Setup(ctx context.Context, tenantID string, req dto.SetupAutoPayRequest) (*domain.AutoPaySchedule, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validDayOfMonth(req.DayOfMonth); err != nil {
		return nil, err
	}
	if err := validFixedAmount(req.FixedAmount); err != nil {
		return nil, err
	}
	if err := s.validMethodForTenant(ctx, tenantID, req.PaymentMethodID); err != nil {
		return nil, err
	}

	now := s.now()
	schedule := domain.AutoPaySchedule{
		ScheduleID:      uuid.NewString(),
		TenantID:        tenantID,
		LeaseID:         req.LeaseID,
		OrganizationID:  req.OrganizationID,
		DayOfMonth:      req.DayOfMonth,
		FixedAmount:     req.FixedAmount,
		PaymentMethodID: req.PaymentMethodID,
		ChargeTypes:     req.ChargeTypes,
		Active:          true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     tenantID,
			LastUpdatedAt: now,
			LastUpdatedBy: tenantID,
		},
	}
	schedule.SeedFirstRun(now)
	if err := s.autoPayRepo.SaveSchedule(ctx, schedule); err != nil {
		return nil, err
	}

	logger.Info("AutoPay schedule created",
		slog.String("schedule_id", schedule.ScheduleID),
		slog.String("lease_id", req.LeaseID),
		slog.Int("day_of_month", req.DayOfMonth),
	)
	s.events.Emit(tenantID, "autopay_created", map[string]any{
		"schedule_id": schedule.ScheduleID,
		"lease_id":    req.LeaseID,
	})
	return &schedule, nil
}

// ownedSchedule fetches the schedule and verifies tenant ownership.
func (s *autoPayService) ownedSchedule(ctx context.Context, tenantID, scheduleID string) (*domain.AutoPaySchedule, error) {
	schedule, err := s.autoPayRepo.FindScheduleByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if schedule.TenantID != tenantID {
		return nil, fmt.Errorf("%w: autopay schedule %s", apperrors.ErrNotFound, scheduleID)
	}
	return schedule, nil
}

func (s *autoPayService) GetSchedule(ctx context.Context, tenantID string, scheduleID string) (*domain.AutoPaySchedule, error) {
	return s.ownedSchedule(ctx, tenantID, scheduleID)
}

func (s *autoPayService) ListForTenant(ctx context.Context, tenantID string) ([]domain.AutoPaySchedule, error) {
	return s.autoPayRepo.ListByTenant(ctx, tenantID)
}

// Update applies partial changes to an active schedule.
func (s *autoPayService) Update(ctx context.Context, tenantID string, scheduleID string, req dto.UpdateAutoPayRequest) (*domain.AutoPaySchedule, error) {
	schedule, err := s.ownedSchedule(ctx, tenantID, scheduleID)
	if err != nil {
		return nil, err
	}
	if !schedule.Active {
		return nil, fmt.Errorf("%w: autopay schedule %s is inactive", apperrors.ErrNotActive, scheduleID)
	}
	if req.FixedAmount != nil && req.FullBalance != nil && *req.FullBalance {
		return nil, fmt.Errorf("%w: fixedAmount and fullBalance are mutually exclusive", apperrors.ErrValidation)
	}

	if req.DayOfMonth != nil {
		if err := validDayOfMonth(*req.DayOfMonth); err != nil {
			return nil, err
		}
		schedule.DayOfMonth = *req.DayOfMonth
	}
	if req.FixedAmount != nil {
		if err := validFixedAmount(req.FixedAmount); err != nil {
			return nil, err
		}
		schedule.FixedAmount = req.FixedAmount
	}
	if req.FullBalance != nil && *req.FullBalance {
		schedule.FixedAmount = nil
	}
	if req.PaymentMethodID != nil {
		if err := s.validMethodForTenant(ctx, tenantID, *req.PaymentMethodID); err != nil {
			return nil, err
		}
		schedule.PaymentMethodID = *req.PaymentMethodID
	}
	if len(req.ChargeTypes) > 0 {
		schedule.ChargeTypes = req.ChargeTypes
	}

	schedule.LastUpdatedAt = s.now()
	schedule.LastUpdatedBy = tenantID
	if err := s.autoPayRepo.UpdateSchedule(ctx, *schedule); err != nil {
		return nil, err
	}
	return s.autoPayRepo.FindScheduleByID(ctx, scheduleID)
}

// Cancel deactivates the schedule. Cancelling an already inactive schedule
// succeeds without error.
func (s *autoPayService) Cancel(ctx context.Context, tenantID string, scheduleID string) error {
	if _, err := s.ownedSchedule(ctx, tenantID, scheduleID); err != nil {
		return err
	}
	if err := s.autoPayRepo.Deactivate(ctx, scheduleID, tenantID, s.now()); err != nil {
		return err
	}
	s.events.Emit(tenantID, "autopay_cancelled", map[string]any{"schedule_id": scheduleID})
	return nil
}

// sameMonth reports whether two times fall in the same calendar month.
func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// selectCharges picks the charges a run should pay. Full-balance mode takes
// every eligible unpaid charge; fixed-amount mode takes charges oldest first
// while they fit under the fixed amount, since a payment must match its
// charge total exactly.
func selectCharges(charges []domain.Charge, fixedAmount *decimal.Decimal) ([]string, decimal.Decimal) {
	ids := make([]string, 0, len(charges))
	total := decimal.Zero
	for _, charge := range charges {
		next := total.Add(charge.Amount)
		if fixedAmount != nil && next.GreaterThan(*fixedAmount) {
			break
		}
		ids = append(ids, charge.ChargeID)
		total = next
	}
	return ids, total
}

// RunDue executes every schedule due at asOf. Individual failures are
// recorded on their schedule and never abort the sweep.
func (s *autoPayService) RunDue(ctx context.Context, asOf time.Time) (*dto.RunDueSummary, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	schedules, err := s.autoPayRepo.ListDue(ctx, asOf)
	if err != nil {
		return nil, err
	}

	summary := &dto.RunDueSummary{Selected: len(schedules)}
	for _, schedule := range schedules {
		// The repository filters by month too; this guard protects against
		// a sweep running twice in one process lifetime.
		if schedule.LastRunAt != nil && sameMonth(*schedule.LastRunAt, asOf) {
			summary.Skipped++
			continue
		}

		outcome := s.runSchedule(ctx, schedule, asOf)
		switch outcome {
		case runOutcomeSucceeded:
			summary.Succeeded++
		case runOutcomeFailed:
			summary.Failed++
		default:
			summary.Skipped++
		}
	}

	logger.Info("AutoPay sweep completed",
		slog.Int("selected", summary.Selected),
		slog.Int("succeeded", summary.Succeeded),
		slog.Int("failed", summary.Failed),
		slog.Int("skipped", summary.Skipped),
	)
	return summary, nil
}

type runOutcome int

const (
	runOutcomeSkipped runOutcome = iota
	runOutcomeSucceeded
	runOutcomeFailed
)

// runSchedule executes one schedule. The deterministic idempotency key makes
// a crashed sweep safe to rerun within the month.
func (s *autoPayService) runSchedule(ctx context.Context, schedule domain.AutoPaySchedule, asOf time.Time) runOutcome {
	logger := middleware.GetLoggerFromCtx(ctx)

	charges, err := s.chargeRepo.ListUnpaidByLease(ctx, schedule.LeaseID, schedule.ChargeTypes)
	if err != nil {
		s.recordFailure(ctx, schedule, asOf, fmt.Sprintf("failed to load charges: %v", err))
		return runOutcomeFailed
	}

	chargeIDs, amount := selectCharges(charges, schedule.FixedAmount)
	if len(chargeIDs) == 0 {
		// Nothing due yet. Leave last_run_at untouched so a later sweep
		// this month can still pay charges posted after today.
		logger.Info("AutoPay schedule has nothing to pay", slog.String("schedule_id", schedule.ScheduleID))
		return runOutcomeSkipped
	}

	result, err := s.paymentSvc.ProcessPayment(ctx, dto.ProcessPaymentRequest{
		TenantID:        schedule.TenantID,
		LeaseID:         schedule.LeaseID,
		ChargeIDs:       chargeIDs,
		PaymentMethodID: schedule.PaymentMethodID,
		Amount:          amount,
		Description:     fmt.Sprintf("AutoPay %s", asOf.Format("January 2006")),
		IdempotencyKey:  fmt.Sprintf("autopay-%s-%04d-%02d", schedule.ScheduleID, asOf.Year(), int(asOf.Month())),
	})
	if err != nil {
		s.recordFailure(ctx, schedule, asOf, err.Error())
		return runOutcomeFailed
	}
	if !result.Success && result.Status != domain.PaymentProcessing {
		s.recordFailure(ctx, schedule, asOf, result.FailureDetail)
		s.events.Emit(schedule.TenantID, "autopay_payment_failed", map[string]any{
			"schedule_id": schedule.ScheduleID,
			"payment_id":  result.PaymentID,
			"reason":      string(result.FailureReason),
		})
		return runOutcomeFailed
	}

	detail := ""
	if result.Status == domain.PaymentProcessing {
		detail = "payment awaiting reconciliation"
	}
	if err := s.autoPayRepo.RecordRunResult(ctx, schedule.ScheduleID, domain.AutoPaySucceeded, detail, 0, asOf, s.systemUserID); err != nil {
		logger.Error("Failed to record autopay run result", slog.String("schedule_id", schedule.ScheduleID), slog.String("error", err.Error()))
	}
	return runOutcomeSucceeded
}

func (s *autoPayService) recordFailure(ctx context.Context, schedule domain.AutoPaySchedule, runAt time.Time, detail string) {
	logger := middleware.GetLoggerFromCtx(ctx)
	failures := schedule.ConsecutiveFailures + 1
	if err := s.autoPayRepo.RecordRunResult(ctx, schedule.ScheduleID, domain.AutoPayFailed, detail, failures, runAt, s.systemUserID); err != nil {
		logger.Error("Failed to record autopay failure", slog.String("schedule_id", schedule.ScheduleID), slog.String("error", err.Error()))
		return
	}
	logger.Warn("AutoPay run failed",
		slog.String("schedule_id", schedule.ScheduleID),
		slog.Int("consecutive_failures", failures),
		slog.String("detail", detail),
	)
}
