// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/wasendio/wasend-backend/internal/config"
	"github.com/wasendio/wasend-backend/internal/controller"
	"github.com/wasendio/wasend-backend/internal/db"
	"github.com/wasendio/wasend-backend/internal/provider"
	"github.com/wasendio/wasend-backend/internal/ratelimit"
	"github.com/wasendio/wasend-backend/internal/repository"
	"github.com/wasendio/wasend-backend/internal/service"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on OS environment variables")
	}

	cfg := config.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Connect(ctx, cfg.MongoURL, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Disconnect(disconnectCtx, database); err != nil {
			logger.Error("database disconnect failed", "error", err)
		}
	}()

	if err := db.EnsureIndexes(ctx, database); err != nil {
		log.Fatalf("indexes: %v", err)
	}

	contactRepo := &repository.ContactRepository{DB: database}
	campaignRepo := &repository.CampaignRepository{DB: database}
	messageRepo := &repository.MessageRepository{DB: database}
	configRepo := &repository.ProviderConfigRepository{DB: database}

	registry := provider.NewRegistry()
	limiter := ratelimit.New(cfg.MaxMessagesPerSecond)

	settingsService := &service.SettingsService{
		ConfigRepo:        configRepo,
		Registry:          registry,
		StatusCallbackURL: cfg.StatusCallbackURL,
		Logger:            logger.With(slog.String("component", "settings")),
	}
	if err := settingsService.Bootstrap(ctx, cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioWhatsAppNumber); err != nil {
		log.Fatalf("provider bootstrap: %v", err)
	}

	dispatchService := service.NewDispatchService(
		registry, limiter, campaignRepo, messageRepo,
		logger.With(slog.String("component", "dispatch")))

	contactService := &service.ContactService{
		ContactRepo: contactRepo,
		Logger:      logger.With(slog.String("component", "contacts")),
	}
	campaignService := &service.CampaignService{
		CampaignRepo: campaignRepo,
		MessageRepo:  messageRepo,
		Logger:       logger.With(slog.String("component", "campaigns")),
	}
	mediaService := &service.MediaService{
		Dir:    cfg.UploadDir,
		Logger: logger.With(slog.String("component", "media")),
	}
	statsService := &service.StatsService{
		ContactRepo:  contactRepo,
		CampaignRepo: campaignRepo,
		MessageRepo:  messageRepo,
	}

	scheduler := service.NewScheduler(
		dispatchService, campaignRepo,
		logger.With(slog.String("component", "scheduler")), cfg.SchedulerInterval)
	scheduler.Start()

	router := controller.NewRouter(controller.Controllers{
		Health:    &controller.HealthController{Registry: registry},
		Contacts:  &controller.ContactController{ContactService: contactService},
		Media:     &controller.MediaController{MediaService: mediaService},
		Campaigns: &controller.CampaignController{CampaignService: campaignService},
		Messages:  &controller.MessageController{Dispatch: dispatchService, MessageRepo: messageRepo},
		Webhooks:  &controller.WebhookController{MessageRepo: messageRepo, Logger: logger.With(slog.String("component", "webhooks"))},
		Settings:  &controller.SettingsController{SettingsService: settingsService},
		Stats:     &controller.StatsController{StatsService: statsService},
	}, cfg.CORSOrigins)

	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     router,
		ReadTimeout: 30 * time.Second,
		// Bulk sends dispatch inside the request, so writes must outlive
		// the slowest campaign.
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
}
