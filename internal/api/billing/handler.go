package billing

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"clinic-billing/internal/app/http/middleware"
	"clinic-billing/internal/app/session"
	"clinic-billing/internal/domain/billing"
)

// EventLister reads the stored billing events of a tenant.
type EventLister interface {
	Recent(ctx context.Context, tenant string, limit int) ([]billing.EventRecord, error)
}

// Handler serves the dashboard's billing routes. events may be nil when no
// database is configured.
type Handler struct {
	events EventLister
	logger *zap.Logger
}

func NewHandler(events EventLister, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{events: events, logger: logger}
}

func currentEntry(c *gin.Context) (*session.Entry, bool) {
	e, ok := middleware.EntryFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
		return nil, false
	}
	return e, true
}

func statusFor(kind billing.Kind) int {
	switch kind {
	case billing.KindNotFound:
		return http.StatusNotFound
	case billing.KindAccessDenied:
		return http.StatusForbidden
	case billing.KindConflict, billing.KindPlanNotLoaded:
		return http.StatusConflict
	case billing.KindInvalidTarget:
		return http.StatusUnprocessableEntity
	case billing.KindUpstreamUnavailable, billing.KindMissingRedirect:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, billing.ErrMutationInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": "Another billing change is in progress", "code": "mutation_in_progress"})
		return
	case errors.Is(err, billing.ErrTenantSwitched):
		c.JSON(http.StatusConflict, gin.H{"error": "The clinic changed while the request was running", "code": "tenant_switched"})
		return
	}

	var berr *billing.Error
	if !errors.As(err, &berr) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unexpected billing error"})
		return
	}
	msg := billing.ErrorMessage(berr.Op, berr.Kind)
	c.JSON(statusFor(berr.Kind), gin.H{
		"error":   msg.Title,
		"details": msg.Description,
		"code":    string(berr.Kind),
	})
}

// respondRedirect answers with {"url": ...}, or with a 303 when the caller
// asked to be redirected (?redirect=1).
func respondRedirect(c *gin.Context, url string) {
	if c.Query("redirect") == "1" {
		c.Redirect(http.StatusSeeOther, url)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
