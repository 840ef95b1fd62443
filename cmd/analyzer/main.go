package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/azure/brand-pulse/internal/analysis"
	"github.com/azure/brand-pulse/internal/config"
	"github.com/azure/brand-pulse/internal/monitoring"
	"github.com/azure/brand-pulse/internal/notifications"
	"github.com/azure/brand-pulse/internal/reports"
	"github.com/azure/brand-pulse/internal/scheduler"
	"github.com/azure/brand-pulse/internal/sources"
	"github.com/azure/brand-pulse/internal/storage"
	"github.com/azure/brand-pulse/internal/website"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var (
	_ monitoring.NewsFetcher      = (*sources.NewsAPISource)(nil)
	_ monitoring.WebsiteInspector = (*website.Analyzer)(nil)
	_ reports.Notifier            = (*notifications.Service)(nil)
	_ scheduler.Analyzer          = (*monitoring.Service)(nil)
	_ scheduler.ReportGenerator   = (*reports.Service)(nil)
	_ analyzer                    = (*monitoring.Service)(nil)
	_ reporter                    = (*reports.Service)(nil)
)

func main() {
	// Load environment variables from .env file if it exists
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logrus.SetLevel(logrus.InfoLevel)
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.SetFormatter(&logrus.JSONFormatter{})

	logrus.Info("Starting Brand Pulse analyzer")

	store, err := openStore(cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.Close()

	profiles, err := analysis.LoadProfiles(cfg.PolicyFile)
	if err != nil {
		logrus.Fatalf("Failed to load scoring policy: %v", err)
	}

	monitoringService := monitoring.NewService(cfg, store, monitoring.Options{
		Platforms: []analysis.Platform{
			sources.NewTwitterSource(cfg.TwitterBearerToken),
			sources.NewFacebookSource(cfg.FacebookAccessToken),
			sources.NewLinkedInSource(cfg.LinkedInAccessToken),
			sources.NewInstagramSource(cfg.InstagramToken),
		},
		News:     sources.NewNewsAPISource(cfg.NewsAPIKey),
		Website:  website.NewAnalyzer(),
		Profiles: profiles,
	})

	var notifier reports.Notifier
	if cfg.NotificationsEnabled() {
		notifier = notifications.NewService(cfg)
	}
	reportService := reports.NewService(store, notifier)

	schedulerService := scheduler.NewService(cfg, monitoringService, reportService)
	if err := schedulerService.Start(); err != nil {
		logrus.Fatalf("Failed to start scheduler: %v", err)
	}
	defer schedulerService.Stop()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      newRouter(monitoringService, reportService),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logrus.Infof("HTTP server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}

// openStore selects the analysis repository backend
func openStore(cfg *config.Config) (storage.AnalysisRepository, error) {
	switch cfg.StorageBackend {
	case "azure":
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		blobs, err := storage.NewAzureBlobStore(ctx, cfg.StorageAccount, cfg.StorageContainer)
		if err != nil {
			return nil, err
		}
		logrus.Infof("Using Azure blob storage %s/%s", cfg.StorageAccount, cfg.StorageContainer)
		return storage.NewBlobRepository(blobs), nil
	default:
		repo, err := storage.NewSQLiteRepository(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		logrus.Infof("Using SQLite storage at %s", cfg.SQLitePath)
		return repo, nil
	}
}
