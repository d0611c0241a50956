package main

import (
	"log"

	"listed/internal/config"
	"listed/internal/database"
	"listed/internal/handlers"
	"listed/internal/mailer"
	"listed/internal/queue"
	"listed/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Init DB
	if err := database.InitDB(cfg.DatabasePath); err != nil {
		log.Fatalf("Failed to init DB: %v", err)
	}

	// 3. Collaborators
	mail := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.MailFrom)
	events := mailer.LogPublisher{}
	tasks := queue.NewClient(cfg.RedisAddr)
	defer tasks.Close()

	// 4. Core services
	filter := services.NewRestrictionFilter(cfg.RestrictedWords())
	content := services.NewContentAggregator(database.DB)
	engine := services.NewEligibilityEngine(database.DB, content, filter)
	identity := services.NewIdentityResolver(cfg.Host)
	authors := services.NewAuthorService(database.DB, content, engine, mail, events, tasks)

	// 5. API Server
	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	api := e.Group("/api")
	handlers.RegisterRoutes(api, authors, content, identity)

	log.Printf("Listed starting on %s...", cfg.ListenAddr)
	e.Logger.Fatal(e.Start(cfg.ListenAddr))
}
