package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"github.com/croquete1/Fitness-Pro-sub001/config"
	"github.com/croquete1/Fitness-Pro-sub001/infrastructure/messaging"
	"github.com/croquete1/Fitness-Pro-sub001/ui/rest"
	"github.com/croquete1/Fitness-Pro-sub001/usecase"
)

const demoViewerID = "demo-trainer"

func main() {
	cfg := config.Load()

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logrus.Fatalf("❌ Failed to create storage directory: %v", err)
		}
	}

	repo, err := messaging.NewSQLiteRepository(cfg.DBPath)
	if err != nil {
		logrus.Fatalf("❌ Failed to open message store: %v", err)
	}
	defer repo.Close()

	fallback := messaging.NewSampleProvider()
	if cfg.UseSampleData {
		if err := messaging.SeedIfEmpty(context.Background(), repo, fallback, demoViewerID); err != nil {
			logrus.Warnf("⚠️  Failed to seed sample data: %v", err)
		}
	}

	insightsService := usecase.NewInsightsService(repo, repo, fallback)
	healthService := usecase.NewHealthService(repo)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"status":  code,
				"code":    "ERROR",
				"message": err.Error(),
			})
		},
	})
	app.Use(recover.New())

	api := app.Group("/api")
	rest.InitRestInsights(api, insightsService)
	rest.InitRestHealth(api, healthService)

	logrus.Infof("🚀 FitnessPro insights API listening on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		logrus.Fatalf("❌ Server stopped: %v", err)
	}
}
