package billing

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"clinic-billing/internal/domain/billing"
)

// GetPlan returns the tenant's plan. ?force=1 bypasses the plan cache.
// When the billing service fails but placeholder data can be shown, the
// answer is 200 with degraded=true and the error attached.
func (h *Handler) GetPlan(c *gin.Context) {
	e, ok := currentEntry(c)
	if !ok {
		return
	}
	force := c.Query("force") == "1" || c.Query("force") == "true"

	view, err := e.Controller.FetchPlan(c.Request.Context(), force)
	if err != nil && (view.Snapshot == nil || errors.Is(err, billing.ErrTenantSwitched)) {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, BuildPlanResponse(view, err))
}

// ClearPlan drops the session's cached plan.
func (h *Handler) ClearPlan(c *gin.Context) {
	e, ok := currentEntry(c)
	if !ok {
		return
	}
	e.Controller.ClearPlanDetails()
	c.Status(http.StatusNoContent)
}
