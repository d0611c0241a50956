package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"listed/internal/config"
	"listed/internal/database"
	"listed/internal/mailer"
	"listed/internal/queue"
	"listed/internal/services"

	"github.com/hibiken/asynq"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := database.InitDB(cfg.DatabasePath); err != nil {
		log.Fatalf("Failed to init DB: %v", err)
	}

	mail := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.MailFrom)
	events := mailer.LogPublisher{}

	filter := services.NewRestrictionFilter(cfg.RestrictedWords())
	content := services.NewContentAggregator(database.DB)
	engine := services.NewEligibilityEngine(database.DB, content, filter)
	authors := services.NewAuthorService(database.DB, content, engine, mail, events, nil)

	mux := asynq.NewServeMux()
	mux.Handle(queue.TypeFeaturedEmail, queue.NewFeaturedEmailHandler(database.DB, mail))
	mux.Handle(queue.TypeGuestbookDigest, queue.NewGuestbookDigestHandler(authors))

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		asynq.Config{Concurrency: 10},
	)

	go func() {
		log.Println("Worker starting...")
		if err := srv.Run(mux); err != nil {
			log.Fatalf("Worker failed: %v", err)
		}
	}()

	scheduler := queue.NewScheduler(cfg.RedisAddr)
	if err := scheduler.RegisterJobs(); err != nil {
		log.Fatalf("Failed to register scheduled jobs: %v", err)
	}
	go func() {
		log.Println("Scheduler starting...")
		if err := scheduler.Start(); err != nil {
			log.Fatalf("Scheduler failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	scheduler.Shutdown()
	srv.Shutdown()
}
