package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/iho/gowallet/internal/domain"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Wallet operation metrics
	Operations        *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	OperationAmount   *prometheus.HistogramVec
	LockTimeouts      prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Authentication metrics
	AuthAttempts *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec

	// Notification delivery metrics
	NotificationsDelivered prometheus.Counter
	NotificationFailures   prometheus.Counter
}

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_operations_total",
				Help: "Wallet operations by type and outcome",
			},
			[]string{"operation", "outcome"},
		),
		OperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gowallet_operation_duration_seconds",
				Help:    "Duration of wallet operations including lock waits",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		OperationAmount: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gowallet_operation_amount",
				Help:    "Amounts moved by successful operations",
				Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
			},
			[]string{"operation"},
		),
		LockTimeouts: factory.NewCounter(prometheus.CounterOpts{
			Name: "gowallet_lock_timeouts_total",
			Help: "Operations that gave up waiting for account locks",
		}),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gowallet_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		AuthAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_auth_attempts_total",
				Help: "Total authentication attempts",
			},
			[]string{"status"},
		),

		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"path"},
		),

		NotificationsDelivered: factory.NewCounter(prometheus.CounterOpts{
			Name: "gowallet_notifications_delivered_total",
			Help: "Notifications pushed to subscribers",
		}),
		NotificationFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "gowallet_notification_failures_total",
			Help: "Notification pushes that failed after retries",
		}),
	}
}

// ObserveOperation implements usecase.MetricsRecorder.
func (m *Metrics) ObserveOperation(operation string, amount float64, duration time.Duration, err error) {
	m.Operations.WithLabelValues(operation, string(domain.AuditStatusFor(err))).Inc()
	m.OperationDuration.WithLabelValues(operation).Observe(duration.Seconds())

	if err == nil {
		m.OperationAmount.WithLabelValues(operation).Observe(amount)
	}

	if errors.Is(err, domain.ErrLockTimeout) {
		m.LockTimeouts.Inc()
	}
}

// ObserveAuth counts a login or registration attempt.
func (m *Metrics) ObserveAuth(success bool) {
	status := "failure"
	if success {
		status = "success"
	}
	m.AuthAttempts.WithLabelValues(status).Inc()
}

// ObserveDelivery counts one notification push attempt.
func (m *Metrics) ObserveDelivery(err error) {
	if err != nil {
		m.NotificationFailures.Inc()
		return
	}
	m.NotificationsDelivered.Inc()
}
