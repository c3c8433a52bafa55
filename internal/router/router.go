package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/Bugitoy/Study-Talk-sub000/internal/handler"
	"github.com/Bugitoy/Study-Talk-sub000/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Confession *handler.ConfessionHandler
	Vote       *handler.VoteHandler
	User       *handler.UserHandler
	Health     *handler.HealthHandler
}

// Setup configures the middleware stack and all API routes on the given Fiber app.
func Setup(app *fiber.App, h *Handlers, corsOrigins string) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(handler.MetricsMiddleware())
	app.Use(middleware.NewCORS(corsOrigins))

	// Health checks and metrics (before API group, no rate limits)
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", handler.MetricsHandler())

	// API routes
	api := app.Group("/api")

	// Confession feed and comments
	api.Get("/confessions", h.Confession.Feed, middleware.NewFeedRateLimiter().Handler())
	api.Get("/confessions/:confessionId", h.Confession.GetByID, middleware.NewFeedRateLimiter().Handler())
	api.Post("/confessions/:confessionId/comments", h.Confession.AddComment, middleware.NewCommentRateLimiter().Handler())

	// Vote ledger
	api.Post("/votes", h.Vote.Submit, middleware.NewVoteSubmitRateLimiter().Handler())
	api.Delete("/votes", h.Vote.Delete, middleware.NewVoteDeleteRateLimiter().Handler())
	api.Get("/votes/:confessionId", h.Vote.Get, middleware.NewFeedRateLimiter().Handler())

	// Reputation, audit trail, and bot risk
	api.Get("/users/:userId/reputation", h.User.GetReputation, middleware.NewReputationRateLimiter().Handler())
	api.Get("/users/:userId/reputation/history", h.User.GetHistory, middleware.NewReputationRateLimiter().Handler())
	api.Post("/users/:userId/reputation/recalculate", h.User.Recalculate, middleware.NewRecalcRateLimiter().Handler())
	api.Get("/users/:userId/reports", h.User.GetReports, middleware.NewReputationRateLimiter().Handler())
	api.Get("/users/:userId/bot-risk", h.User.GetBotRisk, middleware.NewBotRiskRateLimiter().Handler())
	api.Post("/users/:userId/devices", h.User.RegisterDevice, middleware.NewBotRiskRateLimiter().Handler())
}
