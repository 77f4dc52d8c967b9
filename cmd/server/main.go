package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/freightdesk/service-booking/internal/application"
	"github.com/freightdesk/service-booking/internal/auth"
	"github.com/freightdesk/service-booking/internal/config"
	"github.com/freightdesk/service-booking/internal/database"
	bookingEvents "github.com/freightdesk/service-booking/internal/events"
	"github.com/freightdesk/service-booking/internal/handler"
	"github.com/freightdesk/service-booking/internal/health"
	"github.com/freightdesk/service-booking/internal/kafka"
	"github.com/freightdesk/service-booking/internal/logger"
	"github.com/freightdesk/service-booking/internal/middleware"
	"github.com/freightdesk/service-booking/internal/repository"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, "service-booking")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-booking",
		zap.String("port", cfg.Port),
	)

	// Connect to database
	db, err := database.Connect(cfg.DBConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(
			&repository.BookingModel{},
			&repository.OfferModel{},
			&repository.ShippingLineModel{},
		); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		dbURL := database.URL(cfg.DBConfig)
		if err := database.RunMigrations(dbURL, "migrations", log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(
		cfg.JWTConfig.Secret,
		15*time.Minute,
		7*24*time.Hour,
	)

	// Initialize Kafka producer
	kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
	defer func() { _ = kafkaProducer.Close() }()

	// Initialize repositories
	bookingRepo := repository.NewGormBookingRepository(db)
	offerRepo := repository.NewGormOfferRepository(db)
	lineRepo := repository.NewGormShippingLineRepository(db)

	// Initialize application services
	bookingService := application.NewBookingService(
		bookingRepo,
		offerRepo,
		lineRepo,
		kafkaProducer,
		cfg.MainAccount,
		log,
	)
	offerService := application.NewOfferService(offerRepo, kafkaProducer, log)
	masterService := application.NewMasterService(lineRepo, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Seed the shipping-line master list if empty
	if err := masterService.SeedShippingLines(ctx); err != nil {
		log.Fatal("failed to seed shipping lines", zap.Error(err))
	}

	// Initialize and start the offer event consumer in a goroutine
	groupID := cfg.KafkaConfig.GroupPrefix + "booking-service"
	offerConsumer := bookingEvents.NewOfferEventConsumer(
		cfg.KafkaConfig.Brokers,
		groupID,
		bookingService,
		log,
	)
	defer func() { _ = offerConsumer.Close() }()

	go func() {
		log.Info("starting offer event consumer")
		if err := offerConsumer.Start(ctx); err != nil && err != context.Canceled {
			log.Error("offer event consumer error", zap.Error(err))
		}
	}()

	// Initialize HTTP handlers
	bookingHandler := handler.NewBookingHandler(bookingService)
	offerHandler := handler.NewOfferHandler(offerService)
	mastersHandler := handler.NewMastersHandler(masterService)
	adminHandler := handler.NewAdminBookingHandler(bookingService)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check routes
	healthHandler := health.NewHandler(db, "service-booking")
	healthHandler.RegisterRoutes(router)

	// Register routes
	bookingHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	offerHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	mastersHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	adminHandler.RegisterRoutes(&router.RouterGroup, jwtManager)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-booking...")

	// Cancel the consumer context
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-booking stopped")
}
