package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/chynybekuuludastan/seo_inspector/internal/api"
	ws "github.com/chynybekuuludastan/seo_inspector/internal/api/websocket"
	"github.com/chynybekuuludastan/seo_inspector/internal/config"
	"github.com/chynybekuuludastan/seo_inspector/internal/database"
	"github.com/chynybekuuludastan/seo_inspector/internal/repository"
	"github.com/chynybekuuludastan/seo_inspector/internal/repository/cache"
	"github.com/chynybekuuludastan/seo_inspector/internal/service/analyzer"
	"github.com/chynybekuuludastan/seo_inspector/internal/service/fetcher"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg := config.NewConfig()

	// Connect to PostgreSQL
	db, err := database.InitPostgreSQL(cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()

	// Connect to Redis
	redisClient, err := database.InitRedis(cfg.RedisURI)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	repo := repository.NewRepositoryFactory(db.DB)
	cacheRepo := cache.NewRepository(redisClient.Client, cfg.CacheTTL)

	// Analysis pipeline
	pages := fetcher.NewClient(cfg.PageFetchTimeout)
	probes := fetcher.NewProber(cfg.ProbeTimeout, cfg.ProbeRPS)
	svc := analyzer.NewService(pages, probes, cfg.AnalysisTimeout)

	hub := ws.NewHub()
	go hub.Run()

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"success": false,
				"error":   err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, PATCH",
	}))

	api.SetupRoutes(app, repo, cacheRepo, svc, hub, cfg)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
}
