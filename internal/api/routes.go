package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/chynybekuuludastan/seo_inspector/internal/api/handlers"
	"github.com/chynybekuuludastan/seo_inspector/internal/api/middleware"
	ws "github.com/chynybekuuludastan/seo_inspector/internal/api/websocket"
	"github.com/chynybekuuludastan/seo_inspector/internal/config"
	"github.com/chynybekuuludastan/seo_inspector/internal/repository"
	"github.com/chynybekuuludastan/seo_inspector/internal/repository/cache"
	"github.com/chynybekuuludastan/seo_inspector/internal/service/analyzer"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, repo *repository.Factory, cacheRepo *cache.Repository, svc *analyzer.Service, hub *ws.Hub, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(repo.UserRepository, cfg)
	websiteHandler := handlers.NewWebsiteHandler(repo)
	analysisHandler := handlers.NewAnalysisHandler(repo, cacheRepo, svc, hub, cfg)
	wsHandler := handlers.NewWebSocketHandler(hub, repo.AnalysisRepository)

	api := app.Group("/api")

	// Health check route
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", middleware.JWTMiddleware(cfg), authHandler.RefreshToken)
	auth.Get("/me", middleware.JWTMiddleware(cfg), authHandler.GetMe)
	auth.Put("/password", middleware.JWTMiddleware(cfg), authHandler.ChangePassword)

	// Website routes
	websites := api.Group("/websites", middleware.JWTMiddleware(cfg))
	websites.Get("/", middleware.AnalystOrAdmin(), websiteHandler.ListWebsites)
	websites.Get("/:id", middleware.AnalystOrAdmin(), websiteHandler.GetWebsite)

	// Analysis routes
	analysis := api.Group("/analysis", middleware.JWTMiddleware(cfg))
	analysis.Post("/", middleware.AnalystOrAdmin(), analysisHandler.CreateAnalysis)
	analysis.Get("/", middleware.AnalystOrAdmin(), analysisHandler.ListAnalyses)
	analysis.Get("/recent", middleware.AnalystOrAdmin(), analysisHandler.ListRecentAnalyses)
	analysis.Get("/:id", analysisHandler.GetAnalysis)
	analysis.Delete("/:id", middleware.AdminOnly(), analysisHandler.DeleteAnalysis)

	// WebSocket endpoint for real-time analysis progress
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})

	app.Get("/ws/analysis/:id", websocket.New(wsHandler.HandleAnalysisWebSocket))
}
