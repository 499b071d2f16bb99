package metrics

import (
	"net/http"

	"github.com/Vikasg7/alerty/internal/platform/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// MetricsManager holds custom Prometheus metrics for the tracker.
type MetricsManager struct {
	Registry *prometheus.Registry

	RefreshPassesTotal      prometheus.Counter
	RefreshPassDuration     prometheus.Histogram
	ExtractionFailuresTotal *prometheus.CounterVec // by source
	AlertsSentTotal         *prometheus.CounterVec // by alert type
	CommandsTotal           *prometheus.CounterVec // by action
	ListingsTracked         prometheus.Gauge
}

// NewMetricsManager initializes and registers custom Prometheus metrics.
func NewMetricsManager(serviceName string) *MetricsManager {
	registry := prometheus.NewRegistry()

	refreshPassesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "refresh_passes_total",
		Help:      "Total number of completed refresh passes.",
	})
	refreshPassDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: serviceName,
		Name:      "refresh_pass_duration_seconds",
		Help:      "Duration of full refresh passes.",
		Buckets:   prometheus.DefBuckets,
	})
	extractionFailuresTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "extraction_failures_total",
		Help:      "Total number of failed listing extractions by source.",
	}, []string{"source"})
	alertsSentTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "alerts_sent_total",
		Help:      "Total number of user alerts sent by type.",
	}, []string{"type"})
	commandsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "commands_total",
		Help:      "Total number of handled commands by action.",
	}, []string{"action"})
	listingsTracked := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: serviceName,
		Name:      "listings_tracked",
		Help:      "Number of listings currently tracked.",
	})

	registry.MustRegister(
		refreshPassesTotal,
		refreshPassDuration,
		extractionFailuresTotal,
		alertsSentTotal,
		commandsTotal,
		listingsTracked,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	return &MetricsManager{
		Registry:                registry,
		RefreshPassesTotal:      refreshPassesTotal,
		RefreshPassDuration:     refreshPassDuration,
		ExtractionFailuresTotal: extractionFailuresTotal,
		AlertsSentTotal:         alertsSentTotal,
		CommandsTotal:           commandsTotal,
		ListingsTracked:         listingsTracked,
	}
}

// StartMetricsServer starts an HTTP server exposing the registry on /metrics.
func StartMetricsServer(port string, appLogger *logger.Logger, registry *prometheus.Registry) error {
	if port == "" {
		appLogger.Info("Prometheus metrics server port not configured, server will not start.")
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	appLogger.Info("Prometheus metrics server starting", zap.String("port", port), zap.String("path", "/metrics"))

	server := &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}

	return server.ListenAndServe()
}
