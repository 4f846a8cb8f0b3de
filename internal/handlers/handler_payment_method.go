package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/rentora/rentora_payments/internal/core/ports/services"
	"github.com/rentora/rentora_payments/internal/dto"
)

// paymentMethodHandler handles HTTP requests for a tenant's saved payment
// instruments. The tenant is always the authenticated caller.
type paymentMethodHandler struct {
	methodService portssvc.PaymentMethodSvcFacade
}

func newPaymentMethodHandler(ms portssvc.PaymentMethodSvcFacade) *paymentMethodHandler {
	return &paymentMethodHandler{methodService: ms}
}

// registerPaymentMethodRoutes registers payment method routes.
func registerPaymentMethodRoutes(rg *gin.RouterGroup, methodService portssvc.PaymentMethodSvcFacade) {
	h := newPaymentMethodHandler(methodService)

	methods := rg.Group("/payment-methods")
	{
		methods.POST("/setup-session", h.createSetupSession)
		methods.POST("", h.saveMethod)
		methods.GET("", h.listMethods)
		methods.PUT("/:methodID/default", h.setDefault)
		methods.PUT("/:methodID/nickname", h.updateNickname)
		methods.DELETE("/:methodID", h.removeMethod)
	}
}

// createSetupSession godoc
// @Summary Open a setup session
// @Description Opens a processor session for collecting a new payment instrument
// @Tags payment-methods
// @Accept json
// @Produce json
// @Param session body dto.CreateSetupSessionRequest true "Allowed method classes and return URL"
// @Success 201 {object} dto.SetupSessionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /payment-methods/setup-session [post]
func (h *paymentMethodHandler) createSetupSession(c *gin.Context) {
	var req dto.CreateSetupSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	tenantID, ok := callerID(c)
	if !ok {
		return
	}

	session, err := h.methodService.CreateSetupSession(c.Request.Context(), tenantID, req)
	if err != nil {
		respondServiceError(c, err, "Failed to create setup session")
		return
	}
	c.JSON(http.StatusCreated, session)
}

// saveMethod godoc
// @Summary Save a payment method
// @Description Persists an instrument collected in a completed setup session. The first method becomes the default.
// @Tags payment-methods
// @Accept json
// @Produce json
// @Param method body dto.SavePaymentMethodRequest true "Processor method token"
// @Success 201 {object} dto.PaymentMethodResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /payment-methods [post]
func (h *paymentMethodHandler) saveMethod(c *gin.Context) {
	var req dto.SavePaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	tenantID, ok := callerID(c)
	if !ok {
		return
	}

	method, err := h.methodService.SaveMethod(c.Request.Context(), tenantID, req, tenantID)
	if err != nil {
		respondServiceError(c, err, "Failed to save payment method")
		return
	}
	c.JSON(http.StatusCreated, dto.ToPaymentMethodResponse(method))
}

// listMethods godoc
// @Summary List payment methods
// @Description Returns the caller's active payment methods, default first
// @Tags payment-methods
// @Produce json
// @Success 200 {object} dto.ListPaymentMethodsResponse
// @Security BearerAuth
// @Router /payment-methods [get]
func (h *paymentMethodHandler) listMethods(c *gin.Context) {
	tenantID, ok := callerID(c)
	if !ok {
		return
	}

	methods, err := h.methodService.ListMethods(c.Request.Context(), tenantID)
	if err != nil {
		respondServiceError(c, err, "Failed to list payment methods")
		return
	}
	c.JSON(http.StatusOK, dto.ListPaymentMethodsResponse{PaymentMethods: dto.ToPaymentMethodResponses(methods)})
}

// setDefault godoc
// @Summary Set the default method
// @Description Makes the given method the caller's single default
// @Tags payment-methods
// @Produce json
// @Param methodID path string true "Payment method ID"
// @Success 204 "Default updated"
// @Failure 404 {object} map[string]string "Method not found"
// @Security BearerAuth
// @Router /payment-methods/{methodID}/default [put]
func (h *paymentMethodHandler) setDefault(c *gin.Context) {
	tenantID, ok := callerID(c)
	if !ok {
		return
	}

	if err := h.methodService.SetDefault(c.Request.Context(), tenantID, c.Param("methodID"), tenantID); err != nil {
		respondServiceError(c, err, "Failed to set default payment method")
		return
	}
	c.Status(http.StatusNoContent)
}

// updateNickname godoc
// @Summary Rename a payment method
// @Tags payment-methods
// @Accept json
// @Produce json
// @Param methodID path string true "Payment method ID"
// @Param nickname body dto.UpdateNicknameRequest true "New nickname"
// @Success 204 "Nickname updated"
// @Failure 404 {object} map[string]string "Method not found"
// @Security BearerAuth
// @Router /payment-methods/{methodID}/nickname [put]
func (h *paymentMethodHandler) updateNickname(c *gin.Context) {
	var req dto.UpdateNicknameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	tenantID, ok := callerID(c)
	if !ok {
		return
	}

	if err := h.methodService.UpdateNickname(c.Request.Context(), tenantID, c.Param("methodID"), req.Nickname, tenantID); err != nil {
		respondServiceError(c, err, "Failed to update nickname")
		return
	}
	c.Status(http.StatusNoContent)
}

// removeMethod godoc
// @Summary Remove a payment method
// @Description Detaches the instrument from the processor and removes it. Methods used by an active autopay schedule are refused.
// @Tags payment-methods
// @Produce json
// @Param methodID path string true "Payment method ID"
// @Success 204 "Method removed"
// @Failure 404 {object} map[string]string "Method not found"
// @Failure 409 {object} map[string]string "Method used by an active autopay schedule"
// @Security BearerAuth
// @Router /payment-methods/{methodID} [delete]
func (h *paymentMethodHandler) removeMethod(c *gin.Context) {
	tenantID, ok := callerID(c)
	if !ok {
		return
	}

	if err := h.methodService.Remove(c.Request.Context(), tenantID, c.Param("methodID"), tenantID); err != nil {
		respondServiceError(c, err, "Failed to remove payment method")
		return
	}
	c.Status(http.StatusNoContent)
}
