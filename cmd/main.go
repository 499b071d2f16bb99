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

	"github.com/joho/godotenv"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	redisAdapter "github.com/Vikasg7/alerty/internal/adapter/cache/redis"
	natsAdapter "github.com/Vikasg7/alerty/internal/adapter/messaging/nats"
	adapternotify "github.com/Vikasg7/alerty/internal/adapter/notify"
	mongoRepo "github.com/Vikasg7/alerty/internal/adapter/repository/mongodb"
	"github.com/Vikasg7/alerty/internal/config"
	"github.com/Vikasg7/alerty/internal/extractor"
	"github.com/Vikasg7/alerty/internal/platform/logger"
	"github.com/Vikasg7/alerty/internal/platform/metrics"
	"github.com/Vikasg7/alerty/internal/platform/tracer"
	"github.com/Vikasg7/alerty/internal/port/notify"
	"github.com/Vikasg7/alerty/internal/scheduler"
	"github.com/Vikasg7/alerty/internal/usecase"
)

const serviceName = "alerty"

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("INFO: .env file not found or error loading: %v. Relying on OS environment variables.\n", err)
	}

	appLogger := logger.NewLogger()
	appLogger.Info("Application starting...", zap.String("service_name", serviceName))

	cfg, err := config.LoadConfig(appLogger)
	if err != nil {
		appLogger.Fatal("Failed to load configuration", zap.Error(err))
	}

	var tp *sdktrace.TracerProvider
	if cfg.OTExporterOTLPEndpoint != "" {
		tp = tracer.InitTracer(serviceName, cfg.OTExporterOTLPEndpoint, appLogger)
		defer func() {
			ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancelShutdown()
			if err := tp.Shutdown(ctxShutdown); err != nil {
				appLogger.Error("Failed to shutdown tracer provider", zap.Error(err))
			}
		}()
		appLogger.Info("OpenTelemetry Tracer initialized.")
	} else {
		appLogger.Info("OpenTelemetry Tracer not initialized (OTEL_EXPORTER_OTLP_ENDPOINT not set).")
	}

	mongoClient, err := mongoRepo.NewMongoDBConnection(context.Background(), cfg.MongoURI)
	if err != nil {
		appLogger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			appLogger.Error("Error disconnecting from MongoDB", zap.Error(err))
		}
	}()
	appLogger.Info("Successfully connected and pinged MongoDB.")

	store := mongoRepo.NewListingRepository(mongoClient.Database(cfg.MongoDatabase), appLogger)

	redisClient, err := redisAdapter.NewRedisClient(cfg.RedisAddress, cfg.RedisPassword, cfg.RedisDB, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	badgeCache := redisAdapter.NewBadgeCache(redisClient, appLogger)

	natsConn, err := natsAdapter.Connect(cfg.NATSURL, appLogger, serviceName)
	if err != nil {
		appLogger.Fatal("Failed to connect to NATS", zap.Error(err))
	}
	publisher := natsAdapter.NewPublisher(natsConn, appLogger)
	defer publisher.Close()
	broadcaster := natsAdapter.NewBroadcaster(publisher)

	notifiers := []notify.Notifier{adapternotify.NewNATSNotifier(publisher)}
	if cfg.SMTPHost != "" {
		emailNotifier, err := adapternotify.NewEmailNotifier(adapternotify.SMTPConfig{
			Host:        cfg.SMTPHost,
			Port:        cfg.SMTPPort,
			Username:    cfg.SMTPUsername,
			Password:    cfg.SMTPPassword,
			SenderEmail: cfg.SMTPSenderEmail,
			Recipient:   cfg.NotifyEmail,
		})
		if err != nil {
			appLogger.Fatal("Failed to initialize email notifier", zap.Error(err))
		}
		notifiers = append(notifiers, emailNotifier)
		appLogger.Info("Email notifier configured.")
	}
	notifier := adapternotify.NewFanout(notifiers...)

	metricsManager := metrics.NewMetricsManager(serviceName)
	if cfg.PrometheusMetricsPort != "" {
		go func() {
			appLogger.Info("Starting Prometheus metrics server", zap.String("port", cfg.PrometheusMetricsPort))
			if err := metrics.StartMetricsServer(cfg.PrometheusMetricsPort, appLogger, metricsManager.Registry); err != nil && !errors.Is(err, http.ErrServerClosed) {
				appLogger.Error("Prometheus metrics server failed", zap.Error(err))
			}
		}()
	}

	httpClient := extractor.NewHTTPClient(time.Duration(cfg.HTTPTimeoutSeconds) * time.Second)
	extractors := extractor.NewRegistry(httpClient, cfg.AmazonBaseURL, appLogger)

	refreshUC := usecase.NewRefreshUseCase(store, extractors, broadcaster, notifier, badgeCache, metricsManager, appLogger)
	trackerUC := usecase.NewTrackerUseCase(store, extractors, broadcaster, refreshUC, metricsManager, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	subscriber := natsAdapter.NewSubscriber(natsConn, trackerUC, appLogger)
	if err := subscriber.Start(ctx); err != nil {
		appLogger.Fatal("Failed to start command subscriber", zap.Error(err))
	}
	defer subscriber.Stop()

	refreshScheduler := scheduler.New(refreshUC, time.Duration(cfg.RefreshIntervalMinutes)*time.Minute, appLogger)
	go refreshScheduler.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	appLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	cancel()
	appLogger.Info("Application shutting down...")
}
