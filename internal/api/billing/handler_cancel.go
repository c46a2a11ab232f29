package billing

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxReasonLength = 500

func (h *Handler) CancelPlan(c *gin.Context) {
	var body struct {
		Immediate bool   `json:"immediate"`
		Reason    string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cancellation request"})
		return
	}
	if len(body.Reason) > maxReasonLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cancellation reason is too long"})
		return
	}

	e, ok := currentEntry(c)
	if !ok {
		return
	}

	res, err := e.Controller.CancelPlan(c.Request.Context(), body.Immediate, body.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	h.logger.Info("plan cancelled",
		zap.String("tenant", e.Controller.Tenant()),
		zap.String("user", e.Session.UserID()),
		zap.String("role", e.Session.Role()),
		zap.Bool("immediate", res.Immediate),
	)
	c.JSON(http.StatusOK, CancelResponse{
		EffectiveDate: dateString(res.EffectiveDate),
		Immediate:     res.Immediate,
		Plan:          BuildPlanResponse(e.Controller.Current(), nil),
	})
}

func (h *Handler) ResumePlan(c *gin.Context) {
	e, ok := currentEntry(c)
	if !ok {
		return
	}

	if err := e.Controller.ResumePlan(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}

	h.logger.Info("plan resumed",
		zap.String("tenant", e.Controller.Tenant()),
		zap.String("user", e.Session.UserID()),
		zap.String("role", e.Session.Role()),
	)
	c.JSON(http.StatusOK, gin.H{
		"message": "Subscription resumed",
		"plan":    BuildPlanResponse(e.Controller.Current(), nil),
	})
}
