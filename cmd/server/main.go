// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/art-rental-backend/internal/config"
	"github.com/javajoker/art-rental-backend/internal/database"
	"github.com/javajoker/art-rental-backend/internal/handlers"
	"github.com/javajoker/art-rental-backend/internal/i18n"
	"github.com/javajoker/art-rental-backend/internal/logger"
	"github.com/javajoker/art-rental-backend/internal/repositories"
	"github.com/javajoker/art-rental-backend/internal/router"
	"github.com/javajoker/art-rental-backend/internal/services"
	"github.com/javajoker/art-rental-backend/internal/utils"
	"github.com/javajoker/art-rental-backend/pkg/events"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	log := logger.Setup(cfg)

	if err := i18n.Initialize(); err != nil {
		log.WithError(err).Fatal("Failed to initialize i18n")
	}

	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize database
	db, err := database.Initialize(cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize database")
	}
	defer database.Close(db)

	if err := database.RunMigrations(db); err != nil {
		log.WithError(err).Fatal("Failed to run migrations")
	}

	if err := database.SeedInitialData(context.Background(), db, cfg.Seed); err != nil {
		log.WithError(err).Fatal("Failed to seed initial data")
	}

	repos := repositories.New(db)
	bus := events.NewBus()
	bus.SetLogger(log)

	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize storage")
	}

	var gateway services.PaymentGateway
	if cfg.Payment.StripeSecretKey != "" {
		gateway = services.NewStripeGateway(cfg.Payment.StripeSecretKey)
	} else {
		log.Warn("STRIPE_SECRET_KEY not set, payment intents are disabled")
	}

	// Services
	authService := services.NewAuthService(repos.Users, cfg)
	userService := services.NewUserService(repos.Users)
	mediumService := services.NewMediumService(repos.Mediums)
	artworkService := services.NewArtworkService(repos.Artworks, repos.Mediums, repos.Users, storageService, bus)
	rentalService := services.NewRentalService(repos.Rentals, repos.Artworks, repos.Users, bus)
	paymentService := services.NewPaymentService(repos.Rentals, repos.Users, gateway, cfg)
	adminService := services.NewAdminService(repos.Stats)
	notificationService := services.NewNotificationService(
		services.NewEmailSender(cfg.Email),
		repos.Notifications,
		repos.Users,
		cfg,
	)
	notificationService.RegisterHandlers(bus)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := router.New(cfg, router.Dependencies{
		Auth:      handlers.NewAuthHandler(authService),
		Users:     handlers.NewUserHandler(userService),
		Mediums:   handlers.NewMediumHandler(mediumService),
		Artwork:   handlers.NewArtworkHandler(artworkService),
		Rentals:   handlers.NewRentalHandler(rentalService, paymentService),
		Admin:     handlers.NewAdminHandler(adminService, notificationService),
		AuditLogs: repos.AuditLogs,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	// Let pending notification e-mails finish
	bus.Wait()

	log.Info("Server exited")
}
