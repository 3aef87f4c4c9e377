package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/Fares-ag/blox-vercel-sub002/internal/config"
	"github.com/Fares-ag/blox-vercel-sub002/internal/repository"
	"github.com/Fares-ag/blox-vercel-sub002/internal/service"
)

func main() {
	log.Println("Starting schedule maintenance jobs...")

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	financingRepo := repository.NewFinancingRepository(db)
	ledgerRepo := repository.NewDeferralLedgerRepository(redisClient)
	scheduleService := service.NewScheduleService(financingRepo, ledgerRepo, cfg)

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		log.Fatalf("Invalid scheduler timezone %q: %v", cfg.Scheduler.Timezone, err)
	}

	c := cron.New(cron.WithSeconds(), cron.WithLocation(location))

	// Daily job: recompute active/upcoming statuses against the clock.
	// Payment recording is the only thing that marks entries paid; this
	// job only keeps the active/upcoming boundary current.
	_, err = c.AddFunc(cfg.Scheduler.StatusRefreshSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		refreshed, err := scheduleService.RefreshAllStatuses(ctx, time.Now())
		if err != nil {
			log.Printf("Status refresh failed after %d financings: %v", refreshed, err)
			return
		}
		log.Printf("Refreshed statuses for %d financings", refreshed)
	})
	if err != nil {
		log.Fatalf("Error scheduling status refresh job: %v", err)
	}

	c.Start()
	log.Println("Scheduler started successfully")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down scheduler...")
	c.Stop()
	log.Println("Scheduler stopped")
}
