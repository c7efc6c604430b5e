package routes

import (
	"time"

	"github.com/campusguard/campusguard-backend/internal/config"
	"github.com/campusguard/campusguard-backend/internal/handlers"
	"github.com/campusguard/campusguard-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	reportHandler *handlers.ReportHandler,
	attachmentHandler *handlers.AttachmentHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth: stricter 10 req/min per IP on the public endpoints
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/login", authHandler.Login)
	auth.Post("/verify-token", authHandler.VerifyToken)

	// Account creation is admin-only; registered outside the auth group
	// so it gets the general limiter, not the login one.
	api.Post("/auth/register",
		middleware.JWTProtected(cfg), middleware.RoleRequired("admin"),
		authHandler.Register)

	reports := api.Group("/reports")

	// Public surface: anonymous submission, status lookup, evidence
	reports.Post("/submit", reportHandler.Submit)
	reports.Get("/status/:tracking_id", reportHandler.Status)
	reports.Post("/:tracking_id/attachments", attachmentHandler.Upload)
	reports.Get("/:tracking_id/attachments", attachmentHandler.List)

	// Admin surface
	reports.Get("/",
		middleware.JWTProtected(cfg), middleware.RoleRequired("admin", "counselor"),
		reportHandler.List)
	reports.Get("/analytics/summary",
		middleware.JWTProtected(cfg), middleware.RoleRequired("admin"),
		reportHandler.Analytics)
	reports.Put("/:id/status",
		middleware.JWTProtected(cfg), middleware.RoleRequired("admin"),
		reportHandler.UpdateStatus)
}
