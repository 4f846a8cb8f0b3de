package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/rentora/rentora_payments/internal/core/ports/services"
	"github.com/rentora/rentora_payments/internal/dto"
	"github.com/rentora/rentora_payments/internal/middleware"
)

// organizationHandler handles HTTP requests for organization payment settings.
type organizationHandler struct {
	orgService portssvc.OrganizationSvcFacade
}

func newOrganizationHandler(os portssvc.OrganizationSvcFacade) *organizationHandler {
	return &organizationHandler{orgService: os}
}

// registerOrganizationRoutes registers fee and payout policy routes.
func registerOrganizationRoutes(rg *gin.RouterGroup, orgService portssvc.OrganizationSvcFacade) {
	h := newOrganizationHandler(orgService)

	orgs := rg.Group("/organizations/:orgID")
	{
		orgs.GET("", h.getOrganization)
		orgs.PUT("/fee-policy", h.updateFeePolicy)
		orgs.PUT("/payout-delay", h.setPayoutDelay)
		orgs.POST("/payouts/record", h.recordPayoutSuccess)
	}
}

// getOrganization godoc
// @Summary Get an organization
// @Description Returns the organization with its fee and payout policy
// @Tags organizations
// @Produce json
// @Param orgID path string true "Organization ID"
// @Success 200 {object} dto.OrganizationResponse
// @Failure 404 {object} map[string]string "Organization not found"
// @Security BearerAuth
// @Router /organizations/{orgID} [get]
func (h *organizationHandler) getOrganization(c *gin.Context) {
	org, err := h.orgService.GetOrganization(c.Request.Context(), c.Param("orgID"))
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve organization")
		return
	}
	c.JSON(http.StatusOK, dto.ToOrganizationResponse(org))
}

// updateFeePolicy godoc
// @Summary Update the fee policy
// @Description Changes who pays processing fees for future payments. Historical payments keep their original breakdown.
// @Tags organizations
// @Accept json
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param policy body dto.UpdateFeePolicyRequest true "New fee policy"
// @Success 200 {object} dto.OrganizationResponse
// @Failure 400 {object} map[string]string "Invalid policy"
// @Failure 403 {object} map[string]string "Not the organization owner"
// @Security BearerAuth
// @Router /organizations/{orgID}/fee-policy [put]
func (h *organizationHandler) updateFeePolicy(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpdateFeePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := callerID(c)
	if !ok {
		return
	}

	org, err := h.orgService.UpdateFeePolicy(c.Request.Context(), c.Param("orgID"), req.FeePolicy, userID)
	if err != nil {
		respondServiceError(c, err, "Failed to update fee policy")
		return
	}

	logger.Info("Fee policy updated via API", slog.String("organization_id", org.OrganizationID))
	c.JSON(http.StatusOK, dto.ToOrganizationResponse(org))
}

// setPayoutDelay godoc
// @Summary Set the payout delay
// @Description Sets the payout delay in days. Values below the trust-derived minimum are rejected.
// @Tags organizations
// @Accept json
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param delay body dto.SetPayoutDelayRequest true "New payout delay"
// @Success 200 {object} dto.OrganizationResponse
// @Failure 403 {object} map[string]string "Not the organization owner"
// @Failure 422 {object} map[string]string "Delay below the trust minimum"
// @Security BearerAuth
// @Router /organizations/{orgID}/payout-delay [put]
func (h *organizationHandler) setPayoutDelay(c *gin.Context) {
	var req dto.SetPayoutDelayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := callerID(c)
	if !ok {
		return
	}

	org, err := h.orgService.SetPayoutDelay(c.Request.Context(), c.Param("orgID"), req.PayoutDelayDays, userID)
	if err != nil {
		respondServiceError(c, err, "Failed to set payout delay")
		return
	}
	c.JSON(http.StatusOK, dto.ToOrganizationResponse(org))
}

// recordPayoutSuccess godoc
// @Summary Record a successful payout
// @Description Feeds a completed payout into the organization's trust history. Trust level may escalate; it never regresses.
// @Tags organizations
// @Accept json
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param payout body dto.RecordPayoutRequest true "Payout completion time"
// @Success 200 {object} dto.OrganizationResponse
// @Failure 404 {object} map[string]string "Organization not found"
// @Security BearerAuth
// @Router /organizations/{orgID}/payouts/record [post]
func (h *organizationHandler) recordPayoutSuccess(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RecordPayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	payoutAt := time.Now().UTC()
	if req.PayoutAt != nil {
		payoutAt = *req.PayoutAt
	}

	org, err := h.orgService.RecordPayoutSuccess(c.Request.Context(), c.Param("orgID"), payoutAt)
	if err != nil {
		respondServiceError(c, err, "Failed to record payout")
		return
	}

	logger.Info("Payout recorded via API",
		slog.String("organization_id", org.OrganizationID),
		slog.String("trust_level", string(org.PayoutPolicy.TrustLevel)),
	)
	c.JSON(http.StatusOK, dto.ToOrganizationResponse(org))
}
