package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"clinic-billing/config"
	"clinic-billing/database"
	authapi "clinic-billing/internal/api/auth"
	billinghandler "clinic-billing/internal/api/billing"
	routes "clinic-billing/internal/app/http"
	"clinic-billing/internal/app/session"
	"clinic-billing/internal/domain/billing"
	"clinic-billing/internal/infra/billingapi"
	"clinic-billing/internal/infra/metrics"
	"clinic-billing/internal/infra/notify"
)

func main() {
	envLoaded := config.LoadEnv()

	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("invalid configuration", zap.Error(err))
	}

	logger := newLogger(cfg)
	defer func() { _ = logger.Sync() }()
	if !envLoaded {
		logger.Info("no .env file found, using system environment variables")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	seeds := billing.DefaultSeeds()
	if cfg.SeedFile != "" {
		if seeds, err = billing.LoadSeedFile(cfg.SeedFile); err != nil {
			logger.Fatal("failed to load seed catalogue", zap.String("path", cfg.SeedFile), zap.Error(err))
		}
	}

	sinks := notify.Fanout{notify.NewLogger(logger)}
	var events billinghandler.EventLister
	if cfg.DBURL != "" {
		db, err := database.InitDB(cfg.DBURL, logger)
		if err != nil {
			logger.Fatal("database unavailable", zap.Error(err))
		}
		store := notify.NewStore(db, logger)
		sinks = append(sinks, store)
		events = store
	} else {
		logger.Warn("DB_URL not set, billing event log disabled")
	}

	sessions := session.NewRegistry(cfg.MaxSessions, cfg.SessionIdleTTL, func(s *session.Session) *billing.Controller {
		api := billingapi.New(cfg.BillingAPIURL, s,
			billingapi.WithTimeout(cfg.BillingAPITimeout),
			billingapi.WithLogger(logger),
		)
		return billing.New(api, s, s.Tenant(),
			billing.WithCacheTTL(cfg.PlanCacheTTL),
			billing.WithNotifier(sinks),
			billing.WithNavigator(session.Navigator{}),
			billing.WithSeeds(seeds),
			billing.WithRecorder(m),
			billing.WithLogger(logger.With(zap.String("session", s.ID()))),
		)
	}, session.WithGauge(m.SessionsActive), session.WithLogger(logger))

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigin,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Location"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, routes.Deps{
		JWTSecret: []byte(cfg.JWTSecret),
		Sessions:  sessions,
		Billing:   billinghandler.NewHandler(events, logger),
		Auth:      authapi.NewHandler(sessions, logger),
		Metrics:   m,
		Gatherer:  registry,
		Logger:    logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger(cfg *config.Config) *zap.Logger {
	var (
		l   *zap.Logger
		err error
	)
	if cfg.IsDevelopment() {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewExample()
	}
	return l
}
