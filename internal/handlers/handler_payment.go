package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	portssvc "github.com/rentora/rentora_payments/internal/core/ports/services"
	"github.com/rentora/rentora_payments/internal/dto"
	"github.com/rentora/rentora_payments/internal/middleware"
)

// paymentHandler handles HTTP requests for payment execution and history.
type paymentHandler struct {
	paymentService portssvc.PaymentSvcFacade
}

func newPaymentHandler(ps portssvc.PaymentSvcFacade) *paymentHandler {
	return &paymentHandler{paymentService: ps}
}

// registerPaymentRoutes registers payment routes. Payment submission is rate
// limited per client IP.
func registerPaymentRoutes(rg *gin.RouterGroup, paymentService portssvc.PaymentSvcFacade) {
	h := newPaymentHandler(paymentService)

	rate, _ := limiter.NewRateFromFormatted("60-M")
	store := memory.NewStore()
	ipLimiter := limiter.New(store, rate)

	payments := rg.Group("/payments")
	{
		payments.POST("", middleware.RateLimit(ipLimiter), h.processPayment)
		payments.GET("", h.listPayments)
		payments.GET("/:paymentID", h.getPayment)
		payments.POST("/reconcile", h.reconcile)
	}
}

// processPayment godoc
// @Summary Process a payment
// @Description Charges the caller's payment method for one or more unpaid charges. Business failures come back with success=false and a stable failure reason.
// @Tags payments
// @Accept json
// @Produce json
// @Param payment body dto.ProcessPaymentRequest true "Charges, method and amount"
// @Success 200 {object} dto.PaymentResult
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /payments [post]
func (h *paymentHandler) processPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	tenantID, ok := callerID(c)
	if !ok {
		return
	}
	req.TenantID = tenantID

	result, err := h.paymentService.ProcessPayment(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "Failed to process payment")
		return
	}

	logger.Info("Payment attempt finished",
		slog.String("payment_id", result.PaymentID),
		slog.Bool("success", result.Success),
	)
	c.JSON(http.StatusOK, result)
}

// getPayment godoc
// @Summary Get a payment
// @Description Returns a payment visible to the caller (the paying tenant or the receiving organization's owner)
// @Tags payments
// @Produce json
// @Param paymentID path string true "Payment ID"
// @Success 200 {object} dto.PaymentResponse
// @Failure 403 {object} map[string]string "Payment belongs to someone else"
// @Failure 404 {object} map[string]string "Payment not found"
// @Security BearerAuth
// @Router /payments/{paymentID} [get]
func (h *paymentHandler) getPayment(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	payment, err := h.paymentService.GetPayment(c.Request.Context(), c.Param("paymentID"), userID)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve payment")
		return
	}
	c.JSON(http.StatusOK, dto.ToPaymentResponse(payment))
}

// listPayments godoc
// @Summary List the caller's payments
// @Description Pages through the caller's payment history, newest first
// @Tags payments
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Opaque continuation token from the previous page"
// @Success 200 {object} dto.ListPaymentsResponse
// @Security BearerAuth
// @Router /payments [get]
func (h *paymentHandler) listPayments(c *gin.Context) {
	var params dto.ListPaymentsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	tenantID, ok := callerID(c)
	if !ok {
		return
	}

	page, err := h.paymentService.ListTenantPayments(c.Request.Context(), tenantID, params)
	if err != nil {
		respondServiceError(c, err, "Failed to list payments")
		return
	}
	c.JSON(http.StatusOK, page)
}

// reconcile godoc
// @Summary Reconcile a payment
// @Description Resolves a PROCESSING payment with the processor's final status. Replayed notifications for terminal payments are no-ops.
// @Tags payments
// @Accept json
// @Produce json
// @Param notification body dto.ReconcileRequest true "Processor charge outcome"
// @Success 200 {object} dto.PaymentResponse
// @Failure 404 {object} map[string]string "No payment for that processor charge"
// @Security BearerAuth
// @Router /payments/reconcile [post]
func (h *paymentHandler) reconcile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	payment, err := h.paymentService.ReconcileTransaction(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "Failed to reconcile payment")
		return
	}

	logger.Info("Payment reconciled via API", slog.String("payment_id", payment.PaymentID), slog.String("status", string(payment.Status)))
	c.JSON(http.StatusOK, dto.ToPaymentResponse(payment))
}
