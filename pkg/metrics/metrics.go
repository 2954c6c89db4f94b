package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор prometheus-метрик сервиса
type Metrics struct {
	// HTTP метрики
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Метрики запросов к БД
	DBQueriesTotal  *prometheus.CounterVec
	DBQueryDuration *prometheus.HistogramVec

	// Метрики connection pool
	DBPoolOpenConnections *prometheus.GaugeVec
	DBPoolInUse           *prometheus.GaugeVec
	DBPoolIdle            *prometheus.GaugeVec

	// Метрики фонового воркера экспирации слотов
	SweeperRunsTotal         *prometheus.CounterVec
	SweeperSlotsExpiredTotal *prometheus.CounterVec
	SweeperErrorsTotal       *prometheus.CounterVec
}

// New создает и регистрирует метрики в default registry
func New(serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),

		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		DBQueriesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_queries_total",
			Help:        "Total number of database queries",
			ConstLabels: constLabels,
		}, []string{"operation", "status"}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"operation"}),

		DBPoolOpenConnections: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_pool_open_connections",
			Help:        "Number of open connections in the pool",
			ConstLabels: constLabels,
		}, []string{}),

		DBPoolInUse: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_pool_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: constLabels,
		}, []string{}),

		DBPoolIdle: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_pool_idle_connections",
			Help:        "Number of idle connections in the pool",
			ConstLabels: constLabels,
		}, []string{}),

		SweeperRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "sweeper_runs_total",
			Help:        "Total number of slot expiry sweeps",
			ConstLabels: constLabels,
		}, []string{}),

		SweeperSlotsExpiredTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "sweeper_slots_expired_total",
			Help:        "Total number of slots marked as expired",
			ConstLabels: constLabels,
		}, []string{}),

		SweeperErrorsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "sweeper_errors_total",
			Help:        "Total number of per-slot errors during sweeps",
			ConstLabels: constLabels,
		}, []string{}),
	}
}
