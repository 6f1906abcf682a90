package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/HarshwardhanZalte/NearBasket-backend/pkg/config"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Authentication metrics
	OTPSentCounter     prometheus.Counter
	OTPVerifiedCounter prometheus.Counter
	AuthErrorsCounter  prometheus.Counter

	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec

	// Order workflow metrics
	OrderOperationsCounter prometheus.CounterVec

	// Product metrics
	ProductOperationsCounter prometheus.CounterVec
	ProductStockGauge        prometheus.GaugeVec
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(appConfig *config.Config) {
	// Use metric prefix from configuration
	prefix := appConfig.Metrics.Prefix

	// HTTP request metrics
	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTP request duration
	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Authentication metrics
	OTPSentCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_otp_sent_total",
			Help: "Total number of OTP codes sent",
		},
	)

	OTPVerifiedCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_otp_verified_total",
			Help: "Total number of successful OTP verifications",
		},
	)

	AuthErrorsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_errors_total",
			Help: "Total number of authentication errors",
		},
	)

	// Database operation metrics
	DbOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	// Order workflow metrics
	OrderOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_order_operations_total",
			Help: "Total number of order operations",
		},
		[]string{"operation", "outcome"},
	)

	// Product metrics
	ProductOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_product_operations_total",
			Help: "Total number of product operations",
		},
		[]string{"operation"},
	)

	ProductStockGauge = *promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: prefix + "_product_stock",
			Help: "Current stock level for products",
		},
		[]string{"product_id", "shop_id"},
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordOrderOperation increments the counter for order operations
func RecordOrderOperation(operation, outcome string) {
	OrderOperationsCounter.WithLabelValues(operation, outcome).Inc()
}

// RecordProductOperation increments the counter for product operations
func RecordProductOperation(operation string) {
	ProductOperationsCounter.WithLabelValues(operation).Inc()
}
