package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/rentora/rentora_payments/internal/core/ports/services"
	"github.com/rentora/rentora_payments/internal/dto"
	"github.com/rentora/rentora_payments/internal/middleware"
)

// connectedAccountHandler handles HTTP requests for the processor account
// lifecycle.
type connectedAccountHandler struct {
	accountService portssvc.ConnectedAccountSvcFacade
}

func newConnectedAccountHandler(as portssvc.ConnectedAccountSvcFacade) *connectedAccountHandler {
	return &connectedAccountHandler{accountService: as}
}

// registerConnectedAccountRoutes registers connected account routes under the
// organization group.
func registerConnectedAccountRoutes(rg *gin.RouterGroup, accountService portssvc.ConnectedAccountSvcFacade) {
	h := newConnectedAccountHandler(accountService)

	account := rg.Group("/organizations/:orgID/connected-account")
	{
		account.POST("", h.createAccount)
		account.GET("", h.getAccount)
		account.GET("/onboarding-link", h.getOnboardingLink)
		account.GET("/dashboard-link", h.getDashboardLink)
		account.POST("/sync", h.syncStatus)
		account.GET("/can-accept-payments", h.canAcceptPayments)
	}
}

// createAccount godoc
// @Summary Create a connected account
// @Description Provisions a processor account for the organization and starts onboarding
// @Tags connected-accounts
// @Accept json
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param account body dto.CreateConnectedAccountRequest true "Business details"
// @Success 201 {object} dto.ConnectedAccountResponse
// @Failure 403 {object} map[string]string "Not the organization owner"
// @Failure 409 {object} map[string]string "Organization already has a connected account"
// @Security BearerAuth
// @Router /organizations/{orgID}/connected-account [post]
func (h *connectedAccountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateConnectedAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := callerID(c)
	if !ok {
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), c.Param("orgID"), req, userID)
	if err != nil {
		respondServiceError(c, err, "Failed to create connected account")
		return
	}

	logger.Info("Connected account created via API", slog.String("connected_account_id", account.ConnectedAccountID))
	c.JSON(http.StatusCreated, dto.ToConnectedAccountResponse(account))
}

// getAccount godoc
// @Summary Get the connected account
// @Description Returns the stored connected account snapshot for the organization
// @Tags connected-accounts
// @Produce json
// @Param orgID path string true "Organization ID"
// @Success 200 {object} dto.ConnectedAccountResponse
// @Failure 404 {object} map[string]string "No connected account"
// @Security BearerAuth
// @Router /organizations/{orgID}/connected-account [get]
func (h *connectedAccountHandler) getAccount(c *gin.Context) {
	account, err := h.accountService.GetAccount(c.Request.Context(), c.Param("orgID"))
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve connected account")
		return
	}
	c.JSON(http.StatusOK, dto.ToConnectedAccountResponse(account))
}

// getOnboardingLink godoc
// @Summary Get an onboarding link
// @Description Mints a fresh short-lived hosted onboarding URL. Safe to call repeatedly.
// @Tags connected-accounts
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param refreshUrl query string false "URL the processor redirects to when the link expires"
// @Param returnUrl query string false "URL the processor redirects to on completion"
// @Success 200 {object} dto.OnboardingLinkResponse
// @Failure 409 {object} map[string]string "Account was rejected"
// @Security BearerAuth
// @Router /organizations/{orgID}/connected-account/onboarding-link [get]
func (h *connectedAccountHandler) getOnboardingLink(c *gin.Context) {
	var req dto.OnboardingLinkRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	link, err := h.accountService.GetOnboardingURL(c.Request.Context(), c.Param("orgID"), req)
	if err != nil {
		respondServiceError(c, err, "Failed to create onboarding link")
		return
	}
	c.JSON(http.StatusOK, link)
}

// getDashboardLink godoc
// @Summary Get an express dashboard link
// @Description Mints a one-time processor dashboard login URL for an active account
// @Tags connected-accounts
// @Produce json
// @Param orgID path string true "Organization ID"
// @Success 200 {object} dto.DashboardLinkResponse
// @Failure 409 {object} map[string]string "Account not active"
// @Security BearerAuth
// @Router /organizations/{orgID}/connected-account/dashboard-link [get]
func (h *connectedAccountHandler) getDashboardLink(c *gin.Context) {
	link, err := h.accountService.GetExpressDashboardURL(c.Request.Context(), c.Param("orgID"))
	if err != nil {
		respondServiceError(c, err, "Failed to create dashboard link")
		return
	}
	c.JSON(http.StatusOK, link)
}

// syncStatus godoc
// @Summary Sync the account status
// @Description Pulls the processor's current account state and applies it locally
// @Tags connected-accounts
// @Produce json
// @Param orgID path string true "Organization ID"
// @Success 200 {object} dto.ConnectedAccountResponse
// @Failure 404 {object} map[string]string "No connected account"
// @Security BearerAuth
// @Router /organizations/{orgID}/connected-account/sync [post]
func (h *connectedAccountHandler) syncStatus(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	account, err := h.accountService.SyncAccountStatus(c.Request.Context(), c.Param("orgID"), userID)
	if err != nil {
		respondServiceError(c, err, "Failed to sync connected account")
		return
	}
	c.JSON(http.StatusOK, dto.ToConnectedAccountResponse(account))
}

// canAcceptPayments godoc
// @Summary Check payment readiness
// @Description Reports whether the organization can receive payments, with a reason when it cannot
// @Tags connected-accounts
// @Produce json
// @Param orgID path string true "Organization ID"
// @Success 200 {object} dto.CanAcceptPaymentsResponse
// @Security BearerAuth
// @Router /organizations/{orgID}/connected-account/can-accept-payments [get]
func (h *connectedAccountHandler) canAcceptPayments(c *gin.Context) {
	resp, err := h.accountService.CanAcceptPayments(c.Request.Context(), c.Param("orgID"))
	if err != nil {
		respondServiceError(c, err, "Failed to check payment readiness")
		return
	}
	c.JSON(http.StatusOK, resp)
}
