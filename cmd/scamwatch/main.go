package main

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/scamwatch/scamwatch/app/controllers"
	"github.com/scamwatch/scamwatch/app/repository"
	"github.com/scamwatch/scamwatch/internal/pkg/cache"
	"github.com/scamwatch/scamwatch/internal/pkg/database"
	"github.com/scamwatch/scamwatch/internal/pkg/env"
	"github.com/scamwatch/scamwatch/internal/pkg/evidence"
	"github.com/scamwatch/scamwatch/internal/pkg/feedback"
	"github.com/scamwatch/scamwatch/internal/pkg/gamification"
	"github.com/scamwatch/scamwatch/internal/pkg/router"
	"github.com/scamwatch/scamwatch/internal/pkg/verification"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()

	db := database.GetDB()
	repository.InitializeFactory(db)

	// evidence storage is optional; the platform runs without it
	var evidenceClient *evidence.Client
	if cfg, err := evidence.LoadConfig(); err != nil {
		log.Printf("Warning: evidence storage disabled: %v", err)
	} else if cfg.IsEnabled() {
		evidenceClient, err = evidence.NewClient(cfg)
		if err != nil {
			log.Printf("Warning: evidence storage unavailable: %v", err)
			evidenceClient = nil
		}
	}

	ttlDays, err := strconv.Atoi(env.GetEnv("REPORT_TTL_DAYS", "30"))
	if err != nil || ttlDays < 0 {
		ttlDays = 30
	}

	xpService := gamification.NewServiceFromDB(db)
	var remover verification.ObjectRemover
	if evidenceClient != nil {
		remover = evidenceClient
	}
	controllers.SetupServices(&controllers.Services{
		Verification: verification.NewServiceFromDB(db, xpService, remover, time.Duration(ttlDays)*24*time.Hour),
		Feedback:     feedback.NewServiceFromDB(db, xpService),
		Gamification: xpService,
		Evidence:     evidenceClient,
	})

	app := fiber.New(fiber.Config{
		BodyLimit: 32 * 1024 * 1024,
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// fiber metrics
	app.Get("/metrics", basicauth.New(basicauth.Config{
		Users: map[string]string{
			"admin": env.GetEnv("METRICS_PASSWORD", "test"),
		},
	}), monitor.New())

	// ROUTER
	router.InstallRouter(app)

	return app
}
