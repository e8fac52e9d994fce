package main

import (
	"log/slog"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/meubolso/statement-extractor/internal/ai"
	"github.com/meubolso/statement-extractor/internal/api"
	"github.com/meubolso/statement-extractor/internal/config"
	"github.com/meubolso/statement-extractor/internal/middleware"
	"github.com/meubolso/statement-extractor/internal/parser"
)

func main() {
	// Configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	aiClient := ai.NewClient(ai.Config{
		GatewayURL: cfg.AI.GatewayURL,
		APIKey:     cfg.AI.APIKey,
		Model:      cfg.AI.Model,
		Timeout:    cfg.AI.Timeout,
	}, logger)
	statementParser := parser.New(aiClient, logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	handler, err := api.NewHandler(statementParser, logger, reg)
	if err != nil {
		logger.Error("failed to initialize handler", "error", err)
		os.Exit(1)
	}

	promMW, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		logger.Error("failed to register metrics", "error", err)
		os.Exit(1)
	}

	app := fiber.New(fiber.Config{
		BodyLimit: cfg.MaxUploadMB * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(logger))
	app.Use(promMW.Handler())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET, POST, OPTIONS",
		AllowHeaders: "authorization, x-client-info, apikey, content-type",
	}))

	handler.RegisterRoutes(app)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	if cfg.AI.APIKey == "" {
		logger.Warn("AI_API_KEY is not set; extraction requests will fail until it is configured")
	}

	addr := ":" + cfg.Port
	logger.Info("statement extractor listening", "addr", addr)
	if err := app.Listen(addr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
