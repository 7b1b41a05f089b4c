package server

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"reviewgate/internal/config"
	"reviewgate/internal/db"
	"reviewgate/internal/email"
	"reviewgate/internal/handlers"
	"reviewgate/internal/handlers/api"
	"reviewgate/internal/jobs"
	"reviewgate/internal/middleware"
)

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(
	ctx context.Context,
	database *db.DB,
	yamlCfg *config.YAMLConfig,
	notifier *email.Notifier,
	scheduler *jobs.Scheduler,
	processor *jobs.Processor,
) error {
	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(database)

	// Initialize handlers
	approvalHandler := handlers.NewApprovalHandler(database, s.Cfg, notifier)
	dashboardHandler := handlers.NewDashboardHandler(database, s.Cfg)
	giftCodeHandler := handlers.NewGiftCodeHandler(database, s.Cfg)
	facilityHandler := handlers.NewFacilityHandler(database, s.Cfg, yamlCfg)
	probeHandler := handlers.NewProbeHandler(database)

	reviewCheckAPI := api.NewReviewCheckHandler(database, s.Cfg, scheduler)
	facilityAPI := api.NewFacilityHandler(database, s.Cfg, yamlCfg)
	processorAPI := api.NewProcessorHandler(processor)

	// Probes and metrics
	s.App.Get("/healthz", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Auth routes - OIDC is required for back-office access
	if s.Cfg.OIDCIssuer == "" {
		return fmt.Errorf("OIDC_ISSUER is required for back-office access")
	}

	authHandler, err := handlers.NewAuthHandler(ctx, s.Cfg, database)
	if err != nil {
		return err
	}

	s.App.Get("/auth/login", authHandler.Login)
	s.App.Get("/auth/callback", authHandler.Callback)
	s.App.Get("/auth/logout", authHandler.Logout)
	s.App.Get("/login", func(c fiber.Ctx) error {
		return c.Render("login", handlers.MergeBranding(fiber.Map{
			"Title": "Sign in",
		}, s.Cfg))
	})

	// Public claim API - reviewers submit claims from the vertical sites
	s.App.Post("/api/review-checks", reviewCheckAPI.Create)
	s.App.Get("/api/review-checks/:id", reviewCheckAPI.Get)
	s.App.Get("/api/facilities", facilityAPI.List)

	// Public approval links, consumed from emails. GET and POST both work
	// so mail clients that prefetch links and plain browsers behave the
	// same.
	s.App.Get("/review-checks/:id/facility-approve", approvalHandler.FacilityApprove)
	s.App.Post("/review-checks/:id/facility-approve", approvalHandler.FacilityApprove)
	s.App.Get("/review-checks/:id/admin-approve", approvalHandler.AdminApprove)
	s.App.Post("/review-checks/:id/admin-approve", approvalHandler.AdminApprove)

	// Back-office routes - require authentication
	s.App.Get("/", authMiddleware.RequireAuth, dashboardHandler.Index)
	s.App.Get("/review-checks/:id", authMiddleware.RequireAuth, dashboardHandler.Show)
	s.App.Get("/facilities", authMiddleware.RequireAuth, facilityHandler.Index)

	// Admin routes
	s.App.Get("/gift-codes", authMiddleware.RequireAuth, authMiddleware.RequireAdmin, giftCodeHandler.Index)
	s.App.Post("/gift-codes", authMiddleware.RequireAuth, authMiddleware.RequireAdmin, giftCodeHandler.Create)
	s.App.Post("/gift-codes/:id/delete", authMiddleware.RequireAuth, authMiddleware.RequireAdmin, giftCodeHandler.Delete)

	s.App.Post("/api/facilities", authMiddleware.RequireAuth, authMiddleware.RequireAdmin, facilityAPI.Create)
	s.App.Post("/api/processor/run", authMiddleware.RequireAuth, authMiddleware.RequireAdmin, processorAPI.Trigger)

	return nil
}
