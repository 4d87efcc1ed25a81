package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"stenolearn-backend-go/internal/api"
	"stenolearn-backend-go/internal/config"
	"stenolearn-backend-go/internal/core"
	"stenolearn-backend-go/internal/db"
	"stenolearn-backend-go/internal/middleware"
)

func main() {
	// A .env file is optional; the environment always wins.
	_ = godotenv.Load()

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		zapLogger.Fatal("Failed to load application configuration", zap.Error(err))
	}
	zapLogger.Info("Application configuration loaded.")

	var (
		profileRepo  db.ProfileRepository
		activityRepo db.ActivityRepository
		checkout     core.CheckoutClient
		authMW       gin.HandlerFunc
		clients      *db.Clients
	)

	if cfg.LocalMode {
		// Guest/local-only mode: in-memory storage, header-based auth, no
		// Firebase project or Stripe account needed.
		zapLogger.Warn("Running in LOCAL_MODE: profiles are in-memory and auth trusts the X-User-ID header.")
		profileRepo = db.NewMemoryProfileRepository()
		activityRepo = db.NewMemoryActivityRepository()
		authMW = middleware.LocalAuth()
	} else {
		initCtx, cancelInit := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelInit()
		clients, err = db.NewClients(initCtx, cfg)
		if err != nil {
			zapLogger.Fatal("Failed to initialize Firebase Admin SDK", zap.Error(err))
		}
		defer clients.Close()
		zapLogger.Info("Firebase Admin SDK (Firestore, Auth) initialized.")

		profileRepo = db.NewFirestoreProfileRepository(clients.Firestore)
		activityRepo = db.NewFirestoreActivityRepository(clients.Firestore)
		checkout = core.NewStripeCheckoutClient(cfg.StripeSecretKey, cfg.CheckoutSuccessURL, cfg.CheckoutCancelURL)
		authMW = middleware.NewAuthMiddleware(clients.Auth).VerifyToken()
	}

	activityService := core.NewActivityService(activityRepo)
	profileService := core.NewProfileService(profileRepo, activityService, core.SystemClock())
	billingService := core.NewBillingService(checkout, profileService, cfg.StripeWebhookSecret, core.SystemClock())
	zapLogger.Info("Core services initialized.")

	if strings.ToLower(cfg.GinMode) == "release" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()

	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	if cfg.ClientURL != "" {
		router.Use(middleware.CORSMiddleware(cfg))
		zapLogger.Info("CORS middleware enabled", zap.String("clientURL", cfg.ClientURL))
	} else {
		zapLogger.Warn("CORS middleware skipped: CLIENT_URL is not configured.")
	}

	api.SetupRoutes(router, zapLogger, authMW, profileService, billingService)

	serverAddr := fmt.Sprintf(":%s", cfg.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	zapLogger.Info("Starting HTTP server", zap.String("address", serverAddr), zap.String("ginMode", gin.Mode()))
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	zapLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	zapLogger.Info("Server exiting gracefully.")
}
