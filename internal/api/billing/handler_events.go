package billing

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ListEvents returns the tenant's recent billing notifications.
func (h *Handler) ListEvents(c *gin.Context) {
	if h.events == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Event log not configured"})
		return
	}
	e, ok := currentEntry(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	tenant := e.Controller.Tenant()

	records, err := h.events.Recent(c.Request.Context(), tenant, limit)
	if err != nil {
		h.logger.Error("failed to load billing events", zap.String("tenant", tenant), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load billing events"})
		return
	}

	out := make([]EventDTO, 0, len(records))
	for _, rec := range records {
		out = append(out, BuildEventDTO(rec))
	}
	c.JSON(http.StatusOK, out)
}
