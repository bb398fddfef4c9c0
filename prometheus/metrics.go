package prometheus

import (
	"property-service/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Authentication metrics
	AuthAttemptsCounter prometheus.Counter
	AuthErrorsCounter   *prometheus.CounterVec
	ActiveTokensGauge   prometheus.Gauge

	// Property metrics
	PropertyOperationsCounter *prometheus.CounterVec

	// Dashboard metrics
	DashboardRequestsCounter prometheus.Counter

	// Notification dispatcher metrics
	NotificationOutcomesCounter *prometheus.CounterVec
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(cfg *config.Config) {
	prefix := cfg.Metrics.Prefix

	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	AuthAttemptsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
	)

	AuthErrorsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_auth_errors_total",
			Help: "Total number of authentication errors by reason",
		},
		[]string{"reason"},
	)

	ActiveTokensGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: prefix + "_active_tokens",
			Help: "Number of currently issued, unrevoked tokens",
		},
	)

	PropertyOperationsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_property_operations_total",
			Help: "Total number of property operations by type",
		},
		[]string{"operation"},
	)

	DashboardRequestsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_dashboard_requests_total",
			Help: "Total number of dashboard statistic requests",
		},
	)

	NotificationOutcomesCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_notification_outcomes_total",
			Help: "Total number of notification dispatch outcomes by state",
		},
		[]string{"state"},
	)
}

// RecordAuthAttempt increments the authentication attempt counter.
func RecordAuthAttempt() {
	if AuthAttemptsCounter != nil {
		AuthAttemptsCounter.Inc()
	}
}

// IncreaseActiveTokens bumps the issued-token gauge.
func IncreaseActiveTokens() {
	if ActiveTokensGauge != nil {
		ActiveTokensGauge.Inc()
	}
}

// DecreaseActiveTokens lowers the issued-token gauge.
func DecreaseActiveTokens() {
	if ActiveTokensGauge != nil {
		ActiveTokensGauge.Dec()
	}
}

// RecordDashboardRequest increments the dashboard request counter.
func RecordDashboardRequest() {
	if DashboardRequestsCounter != nil {
		DashboardRequestsCounter.Inc()
	}
}

// RecordAuthError increments the auth error counter for the given reason.
func RecordAuthError(reason string) {
	if AuthErrorsCounter != nil {
		AuthErrorsCounter.WithLabelValues(reason).Inc()
	}
}

// RecordPropertyOperation increments the property operation counter.
func RecordPropertyOperation(operation string) {
	if PropertyOperationsCounter != nil {
		PropertyOperationsCounter.WithLabelValues(operation).Inc()
	}
}

// RecordNotificationOutcome increments the notification outcome counter.
func RecordNotificationOutcome(state string) {
	if NotificationOutcomesCounter != nil {
		NotificationOutcomesCounter.WithLabelValues(state).Inc()
	}
}
