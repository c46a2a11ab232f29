package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"clinic-billing/internal/app/http/middleware"
	"clinic-billing/internal/app/session"
)

type Handler struct {
	sessions *session.Registry
	logger   *zap.Logger
}

func NewHandler(sessions *session.Registry, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{sessions: sessions, logger: logger}
}

// Logout drops the session's controller together with its cached plan.
func (h *Handler) Logout(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
		return
	}

	if h.sessions.Remove(claims.ID) {
		h.logger.Info("session logged out", zap.String("session", claims.ID), zap.String("tenant", claims.TenantSlug))
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
