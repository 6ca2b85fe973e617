package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpapi "github.com/moonlight-energy/solar-dashboard/internal/api/http"
	"github.com/moonlight-energy/solar-dashboard/internal/config"
	"github.com/moonlight-energy/solar-dashboard/internal/metrics"
	"github.com/moonlight-energy/solar-dashboard/internal/scheduler"
	"github.com/moonlight-energy/solar-dashboard/internal/solar"
	"github.com/moonlight-energy/solar-dashboard/internal/solar/sources"
	"github.com/moonlight-energy/solar-dashboard/internal/store"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// In-memory measurement store.
	memStore := store.NewMemoryStore()

	// One source per country: local CSVs by default, remote exports when a
	// base URL is configured.
	var srcs []solar.Source
	if cfg.RemoteBaseURL != "" {
		httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
		for _, country := range cfg.Countries {
			src, err := sources.NewHTTPSource(httpClient, country, cfg.RemoteBaseURL)
			if err != nil {
				log.Fatalf("failed to configure source for %s: %v", country, err)
			}
			srcs = append(srcs, src)
		}
	} else {
		for _, country := range cfg.Countries {
			path := filepath.Join(cfg.DataDir, sources.CountryFileName(country))
			srcs = append(srcs, sources.NewFileSource(country, path))
		}
	}

	// Optional shared summary cache.
	var cache solar.SummaryCache
	if cfg.RedisAddr != "" {
		redisCache, err := store.NewSummaryCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.SummaryCacheTTL)
		if err != nil {
			log.Fatalf("failed to connect summary cache: %v", err)
		}
		defer redisCache.Close()
		cache = redisCache
	}

	m := metrics.New()

	// Core service orchestrating sources, store and summaries.
	service := solar.NewService(memStore, srcs, cache, m)

	// Initial load; partial failure is tolerated, total failure is not.
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 2*time.Minute)
	if err := service.LoadAll(loadCtx); err != nil {
		cancelLoad()
		log.Fatalf("initial load failed: %v", err)
	}
	cancelLoad()

	// Scheduler that periodically reloads the sources.
	sched := scheduler.New(cfg.ReloadInterval, service)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "solar-dashboard",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "solar-dashboard",
		})
	})

	// Prometheus scrape endpoint.
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// API routes.
	httpapi.RegisterRoutes(app, service)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
