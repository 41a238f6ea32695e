package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/clockquest/clockquest/clockquest"
	"github.com/clockquest/clockquest/clockquest/database"
	"github.com/clockquest/clockquest/clockquest/database/repositories"
	"github.com/clockquest/clockquest/clockquest/handlers"
	"github.com/clockquest/clockquest/clockquest/logger"
	"github.com/clockquest/clockquest/clockquest/middleware"
	"github.com/clockquest/clockquest/clockquest/services"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	configPath := "config.toml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := clockquest.LoadConfig(configPath)
	if err != nil {
		slog.Error("Failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	customHandler := logger.NewHandler(cfg.Log.Level)
	slog.SetDefault(slog.New(customHandler))

	slog.Info("Starting ClockQuest API",
		slog.String("version", version),
		slog.String("commit", commit))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	slog.Info("Connecting to database...")
	db, err := database.New(ctx, cfg.DB)
	if err != nil {
		slog.Error("Failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	if err := db.InitializeSchema(ctx); err != nil {
		slog.Error("Failed to initialize schema", slog.Any("error", err))
		os.Exit(1)
	}
	slog.Info("Database connected successfully")

	loc, err := time.LoadLocation(cfg.Game.QuestTimezone)
	if err != nil {
		slog.Error("Invalid quest timezone",
			slog.String("timezone", cfg.Game.QuestTimezone),
			slog.Any("error", err))
		os.Exit(1)
	}

	worldRepo := repositories.NewWorldRepository(db.BunDB())
	playerRepo := repositories.NewPlayerRepository(db.BunDB())
	sessionRepo := repositories.NewSessionRepository(db.BunDB())
	trialRepo := repositories.NewTrialRepository(db.BunDB())
	questRepo := repositories.NewQuestRepository(db.BunDB())
	questRunRepo := repositories.NewQuestRunRepository(db.BunDB())
	tipRepo := repositories.NewTipRepository(db.BunDB())

	questService := services.NewQuestService(questRepo, questRunRepo, loc)
	progressionService := services.NewProgressionService(
		playerRepo, sessionRepo, trialRepo, questRunRepo, tipRepo, questService)

	app := &handlers.App{
		Worlds:      services.NewWorldService(worldRepo),
		Players:     services.NewPlayerService(playerRepo, worldRepo),
		Progression: progressionService,
		Leaderboard: services.NewLeaderboardService(playerRepo, sessionRepo),
		Health: func() error {
			pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer pingCancel()
			return db.Ping(pingCtx)
		},
		Version: version,
	}

	srv := fiber.New(fiber.Config{
		AppName:      "ClockQuest API",
		ServerHeader: "ClockQuest",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	srv.Use(recover.New())
	srv.Use(middleware.SecurityHeaders())
	srv.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	srv.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.Server.CORSOrigins, ","),
		AllowMethods: "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-Requested-With",
	}))
	srv.Use(middleware.LoggingMiddleware())

	setupRoutes(srv, app)

	address := cfg.ServerAddr()
	slog.Info("Starting server", slog.String("address", address))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := srv.Listen(address); err != nil {
			slog.Error("Failed to start server", slog.Any("error", err))
		}
	}()

	<-sig
	slog.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := srv.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", slog.Any("error", err))
	}

	db.Close()
	slog.Info("Shutdown complete")
}

// setupRoutes configures all application routes.
func setupRoutes(srv *fiber.App, app *handlers.App) {
	api := srv.Group("/api")

	api.Get("/health", handlers.HealthCheck(app))

	worlds := api.Group("/worlds")
	worlds.Post("/", handlers.CreateWorld(app))
	worlds.Get("/join/:code", handlers.JoinWorld(app))
	worlds.Get("/:id", handlers.GetWorld(app))
	worlds.Delete("/:id", handlers.DeleteWorld(app))
	worlds.Get("/:worldID/players/search", handlers.SearchWorldPlayers(app))

	players := api.Group("/players")
	players.Post("/", handlers.CreatePlayer(app))
	players.Get("/world/:worldID", handlers.ListWorldPlayers(app))
	players.Get("/:id", handlers.GetPlayer(app))
	players.Delete("/:id", handlers.DeletePlayer(app))
	players.Get("/:id/briefing", handlers.GetBriefing(app))
	players.Post("/:id/tips/seen", handlers.MarkTipSeen(app))

	api.Post("/sessions", handlers.SubmitSession(app))

	api.Post("/trials", handlers.SubmitTrial(app))
	api.Get("/trials/config/:tier", handlers.GetTrialConfig(app))

	api.Post("/challenges/quest-run", handlers.RecordQuestRun(app))

	api.Get("/leaderboard", handlers.GetLeaderboard(app))
	api.Get("/tiers", handlers.ListTiers(app))

	srv.Use(func(c *fiber.Ctx) error {
		slog.Warn("No route matched",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("ip", c.IP()))
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error": fiber.Map{
				"code":    "NOT_FOUND",
				"message": "the requested endpoint does not exist",
			},
		})
	})
}
