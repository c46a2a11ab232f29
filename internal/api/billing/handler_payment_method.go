package billing

import (
	"github.com/gin-gonic/gin"

	"clinic-billing/internal/app/session"
)

// UpdatePaymentMethod sends the user to the billing portal.
func (h *Handler) UpdatePaymentMethod(c *gin.Context) {
	e, ok := currentEntry(c)
	if !ok {
		return
	}

	ctx, slot := session.WithRedirectSlot(c.Request.Context())
	redirect, err := e.Controller.UpdatePaymentMethod(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	url := slot.URL()
	if url == "" {
		url = redirect.URL
	}
	respondRedirect(c, url)
}
