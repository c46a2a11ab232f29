package billing

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"clinic-billing/internal/app/session"
	"clinic-billing/internal/domain/plans"
)

func (h *Handler) UpgradePlan(c *gin.Context) {
	var body struct {
		TargetTier   string `json:"target_tier" binding:"required"`
		BillingCycle string `json:"billing_cycle"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid target_tier"})
		return
	}

	e, ok := currentEntry(c)
	if !ok {
		return
	}

	// Unknown tiers are rejected by the controller.
	tier := plans.Tier(strings.ToUpper(strings.TrimSpace(body.TargetTier)))
	var cycle *plans.BillingCycle
	if strings.TrimSpace(body.BillingCycle) != "" {
		bc := plans.ParseBillingCycle(body.BillingCycle)
		cycle = &bc
	}

	ctx, slot := session.WithRedirectSlot(c.Request.Context())
	redirect, err := e.Controller.UpgradePlan(ctx, tier, cycle)
	if err != nil {
		respondError(c, err)
		return
	}

	url := slot.URL()
	if url == "" {
		url = redirect.URL
	}
	h.logger.Info("plan upgrade approval issued",
		zap.String("tenant", e.Controller.Tenant()),
		zap.String("user", e.Session.UserID()),
		zap.String("role", e.Session.Role()),
		zap.String("target_tier", string(tier)),
	)
	respondRedirect(c, url)
}
