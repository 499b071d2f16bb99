package config

import (
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Vikasg7/alerty/internal/platform/logger"
)

// Config holds all configuration for the service.
type Config struct {
	ServiceName            string `mapstructure:"SERVICE_NAME"`
	MongoURI               string `mapstructure:"MONGO_URI"`
	MongoDatabase          string `mapstructure:"MONGO_DATABASE"`
	RedisAddress           string `mapstructure:"REDIS_ADDRESS"`
	RedisPassword          string `mapstructure:"REDIS_PASSWORD"`
	RedisDB                int    `mapstructure:"REDIS_DB"`
	NATSURL                string `mapstructure:"NATS_URL"`
	PrometheusMetricsPort  string `mapstructure:"PROMETHEUS_METRICS_PORT"`
	OTExporterOTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	RefreshIntervalMinutes int    `mapstructure:"REFRESH_INTERVAL_MINUTES"`
	AmazonBaseURL          string `mapstructure:"AMAZON_BASE_URL"`
	HTTPTimeoutSeconds     int    `mapstructure:"HTTP_TIMEOUT_SECONDS"`
	SMTPHost               string `mapstructure:"SMTP_HOST"`
	SMTPPort               int    `mapstructure:"SMTP_PORT"`
	SMTPUsername           string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword           string `mapstructure:"SMTP_PASSWORD"`
	SMTPSenderEmail        string `mapstructure:"SMTP_SENDER_EMAIL"`
	NotifyEmail            string `mapstructure:"NOTIFY_EMAIL"`
	LogLevel               string `mapstructure:"LOG_LEVEL"`
	LogFormat              string `mapstructure:"LOG_FORMAT"`
}

// LoadConfig reads configuration from environment variables with sane
// defaults for a local setup. A .env file, if any, is loaded by main.
func LoadConfig(appLogger *logger.Logger) (*Config, error) {
	viper.SetDefault("SERVICE_NAME", "alerty")
	viper.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DATABASE", "alerty")
	viper.SetDefault("REDIS_ADDRESS", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("NATS_URL", "nats://localhost:4222")
	viper.SetDefault("PROMETHEUS_METRICS_PORT", "9094")
	viper.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	viper.SetDefault("REFRESH_INTERVAL_MINUTES", 30)
	viper.SetDefault("AMAZON_BASE_URL", "https://www.amazon.in")
	viper.SetDefault("HTTP_TIMEOUT_SECONDS", 30)
	viper.SetDefault("SMTP_HOST", "")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_USERNAME", "")
	viper.SetDefault("SMTP_PASSWORD", "")
	viper.SetDefault("SMTP_SENDER_EMAIL", "")
	viper.SetDefault("NOTIFY_EMAIL", "")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")

	viper.AutomaticEnv()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		appLogger.Error("Failed to unmarshal configuration", zap.Error(err))
		return nil, err
	}

	if cfg.MongoURI == "" {
		appLogger.Fatal("MONGO_URI is not set. This is required.")
	}
	if cfg.MongoDatabase == "" {
		appLogger.Fatal("MONGO_DATABASE is not set. This is required.")
	}
	if cfg.RefreshIntervalMinutes <= 0 {
		appLogger.Warn("REFRESH_INTERVAL_MINUTES must be positive, using default",
			zap.Int("value", cfg.RefreshIntervalMinutes))
		cfg.RefreshIntervalMinutes = 30
	}

	appLogger.Debug("Configuration loaded",
		zap.String("service_name", cfg.ServiceName),
		zap.Bool("mongo_uri_present", cfg.MongoURI != ""),
		zap.String("mongo_database", cfg.MongoDatabase),
		zap.String("redis_address", cfg.RedisAddress),
		zap.String("nats_url", cfg.NATSURL),
		zap.String("prometheus_port", cfg.PrometheusMetricsPort),
		zap.Int("refresh_interval_minutes", cfg.RefreshIntervalMinutes),
		zap.Bool("smtp_configured", cfg.SMTPHost != ""),
	)

	return &cfg, nil
}
