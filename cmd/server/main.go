package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/Fares-ag/blox-vercel-sub002/internal/config"
	"github.com/Fares-ag/blox-vercel-sub002/internal/handler"
	"github.com/Fares-ag/blox-vercel-sub002/internal/repository"
	"github.com/Fares-ag/blox-vercel-sub002/internal/service"
	"github.com/Fares-ag/blox-vercel-sub002/pkg/response"
)

func main() {
	// Load .env if present, then configuration
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize Redis
	redisClient := initRedis(cfg)
	defer redisClient.Close()

	// Initialize repositories
	financingRepo := repository.NewFinancingRepository(db)
	ledgerRepo := repository.NewDeferralLedgerRepository(redisClient)

	// Initialize service and handlers
	scheduleService := service.NewScheduleService(financingRepo, ledgerRepo, cfg)
	scheduleHandler := handler.NewScheduleHandler(scheduleService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	// Setup routes
	router := setupRoutes(scheduleHandler, healthHandler)

	// Start server
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(scheduleHandler *handler.ScheduleHandler, healthHandler *handler.HealthHandler) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware, response.CORSMiddleware)

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/financings", scheduleHandler.CreateFinancing).Methods("POST")
	api.HandleFunc("/financings/{financingId}/schedule", scheduleHandler.GetSchedule).Methods("GET")
	api.HandleFunc("/financings/{financingId}/schedule", scheduleHandler.ApplyManualEdit).Methods("PUT")
	api.HandleFunc("/financings/{financingId}/payment", scheduleHandler.RecordPayment).Methods("POST")
	api.HandleFunc("/financings/{financingId}/deferral", scheduleHandler.DeferPayment).Methods("POST")
	api.HandleFunc("/financings/{financingId}/settlement-quote", scheduleHandler.SettlementQuote).Methods("GET")
	api.HandleFunc("/schedules/validate", scheduleHandler.ValidateSchedule).Methods("POST")

	return router
}
