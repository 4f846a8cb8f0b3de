package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/rentora/rentora_payments/internal/core/ports/services"
	"github.com/rentora/rentora_payments/internal/dto"
)

// autoPayHandler handles HTTP requests for recurring payment schedules.
type autoPayHandler struct {
	autoPayService portssvc.AutoPaySvcFacade
}

func newAutoPayHandler(as portssvc.AutoPaySvcFacade) *autoPayHandler {
	return &autoPayHandler{autoPayService: as}
}

// registerAutoPayRoutes registers autopay schedule routes.
func registerAutoPayRoutes(rg *gin.RouterGroup, autoPayService portssvc.AutoPaySvcFacade) {
	h := newAutoPayHandler(autoPayService)

	autopay := rg.Group("/autopay")
	{
		autopay.POST("", h.setupAutoPay)
		autopay.GET("", h.listSchedules)
		autopay.GET("/:scheduleID", h.getSchedule)
		autopay.PATCH("/:scheduleID", h.updateSchedule)
		autopay.DELETE("/:scheduleID", h.cancelSchedule)
	}
}

// setupAutoPay godoc
// @Summary Create an autopay schedule
// @Description Creates a recurring monthly payment instruction for a lease. At most one active schedule per lease.
// @Tags autopay
// @Accept json
// @Produce json
// @Param schedule body dto.SetupAutoPayRequest true "Schedule details"
// @Success 201 {object} dto.AutoPayResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Lease already has an active schedule"
// @Security BearerAuth
// @Router /autopay [post]
func (h *autoPayHandler) setupAutoPay(c *gin.Context) {
	var req dto.SetupAutoPayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	tenantID, ok := callerID(c)
	if !ok {
		return
	}

	schedule, err := h.autoPayService.Setup(c.Request.Context(), tenantID, req)
	if err != nil {
		respondServiceError(c, err, "Failed to create autopay schedule")
		return
	}
	c.JSON(http.StatusCreated, dto.ToAutoPayResponse(schedule))
}

// listSchedules godoc
// @Summary List the caller's autopay schedules
// @Tags autopay
// @Produce json
// @Success 200 {array} dto.AutoPayResponse
// @Security BearerAuth
// @Router /autopay [get]
func (h *autoPayHandler) listSchedules(c *gin.Context) {
	tenantID, ok := callerID(c)
	if !ok {
		return
	}

	schedules, err := h.autoPayService.ListForTenant(c.Request.Context(), tenantID)
	if err != nil {
		respondServiceError(c, err, "Failed to list autopay schedules")
		return
	}
	c.JSON(http.StatusOK, dto.ToAutoPayResponses(schedules))
}

// getSchedule godoc
// @Summary Get an autopay schedule
// @Tags autopay
// @Produce json
// @Param scheduleID path string true "Schedule ID"
// @Success 200 {object} dto.AutoPayResponse
// @Failure 404 {object} map[string]string "Schedule not found"
// @Security BearerAuth
// @Router /autopay/{scheduleID} [get]
func (h *autoPayHandler) getSchedule(c *gin.Context) {
	tenantID, ok := callerID(c)
	if !ok {
		return
	}

	schedule, err := h.autoPayService.GetSchedule(c.Request.Context(), tenantID, c.Param("scheduleID"))
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve autopay schedule")
		return
	}
	c.JSON(http.StatusOK, dto.ToAutoPayResponse(schedule))
}

// updateSchedule godoc
// @Summary Update an autopay schedule
// @Description Applies partial changes to an active schedule. fixedAmount and fullBalance are mutually exclusive.
// @Tags autopay
// @Accept json
// @Produce json
// @Param scheduleID path string true "Schedule ID"
// @Param changes body dto.UpdateAutoPayRequest true "Fields to change"
// @Success 200 {object} dto.AutoPayResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Schedule is inactive"
// @Security BearerAuth
// @Router /autopay/{scheduleID} [patch]
func (h *autoPayHandler) updateSchedule(c *gin.Context) {
	var req dto.UpdateAutoPayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	tenantID, ok := callerID(c)
	if !ok {
		return
	}

	schedule, err := h.autoPayService.Update(c.Request.Context(), tenantID, c.Param("scheduleID"), req)
	if err != nil {
		respondServiceError(c, err, "Failed to update autopay schedule")
		return
	}
	c.JSON(http.StatusOK, dto.ToAutoPayResponse(schedule))
}

// cancelSchedule godoc
// @Summary Cancel an autopay schedule
// @Description Deactivates the schedule. Cancelling an already inactive schedule succeeds.
// @Tags autopay
// @Produce json
// @Param scheduleID path string true "Schedule ID"
// @Success 204 "Schedule cancelled"
// @Failure 404 {object} map[string]string "Schedule not found"
// @Security BearerAuth
// @Router /autopay/{scheduleID} [delete]
func (h *autoPayHandler) cancelSchedule(c *gin.Context) {
	tenantID, ok := callerID(c)
	if !ok {
		return
	}

	if err := h.autoPayService.Cancel(c.Request.Context(), tenantID, c.Param("scheduleID")); err != nil {
		respondServiceError(c, err, "Failed to cancel autopay schedule")
		return
	}
	c.Status(http.StatusNoContent)
}
