package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	authapi "clinic-billing/internal/api/auth"
	"clinic-billing/internal/api/billing"
	"clinic-billing/internal/app/http/middleware"
	"clinic-billing/internal/app/session"
	"clinic-billing/internal/infra/metrics"
)

type Deps struct {
	JWTSecret []byte
	Sessions  *session.Registry
	Billing   *billing.Handler
	Auth      *authapi.Handler
	Metrics   *metrics.Metrics
	Gatherer  prometheus.Gatherer
	Logger    *zap.Logger
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	if d.Metrics != nil {
		r.Use(d.Metrics.GinMiddleware())
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler(d.Gatherer)))
	}

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware(d.JWTSecret, d.Logger))
	auth.POST("/logout", d.Auth.Logout)

	// Session-bound billing
	b := auth.Group("/billing")
	b.Use(middleware.SessionMiddleware(d.Sessions))
	b.GET("/plan", d.Billing.GetPlan)
	b.DELETE("/plan", d.Billing.ClearPlan)
	b.GET("/events", d.Billing.ListEvents)

	mutations := b.Group("/")
	mutations.Use(middleware.SanitizeAndCleanInputMiddleware())
	mutations.POST("/upgrade", d.Billing.UpgradePlan)
	mutations.POST("/cancel", d.Billing.CancelPlan)
	mutations.POST("/resume", d.Billing.ResumePlan)
	mutations.POST("/payment-method", d.Billing.UpdatePaymentMethod)
}
