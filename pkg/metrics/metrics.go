package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор prometheus коллекторов сервиса
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration    *prometheus.HistogramVec
	DBQueryErrorsTotal *prometheus.CounterVec
	DBOpenConnections  *prometheus.GaugeVec
	DBInUseConnections *prometheus.GaugeVec
	DBIdleConnections  *prometheus.GaugeVec
	DBWaitCount        *prometheus.GaugeVec

	RecapDuration      *prometheus.HistogramVec
	RecapDegradedTotal *prometheus.CounterVec
	RecapCacheTotal    *prometheus.CounterVec
	RefreshRunsTotal   *prometheus.CounterVec

	serviceName string
}

// New создает метрики и регистрирует их в prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry создает метрики и регистрирует их в переданном реестре
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		serviceName: serviceName,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "route"}),

		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"service", "operation"}),
		DBQueryErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "db_query_errors_total",
			Help: "Total number of failed database queries",
		}, []string{"service", "operation"}),
		DBOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_open_connections",
			Help: "Number of established connections",
		}, []string{"service"}),
		DBInUseConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_in_use_connections",
			Help: "Number of connections currently in use",
		}, []string{"service"}),
		DBIdleConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_idle_connections",
			Help: "Number of idle connections",
		}, []string{"service"}),
		DBWaitCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_wait_count",
			Help: "Total number of connections waited for",
		}, []string{"service"}),

		RecapDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "recap_aggregation_duration_seconds",
			Help:    "Duration of a full recap aggregation (fetch + fold)",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"service"}),
		RecapDegradedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recap_degraded_fetch_total",
			Help: "Fetches that failed and were treated as empty data",
		}, []string{"service", "source"}),
		RecapCacheTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recap_cache_requests_total",
			Help: "Recap cache lookups by result",
		}, []string{"service", "result"}),
		RefreshRunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recap_refresh_runs_total",
			Help: "Recap recomputations started by the refresh worker",
		}, []string{"service", "trigger"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBQueryErrorsTotal,
		m.DBOpenConnections,
		m.DBInUseConnections,
		m.DBIdleConnections,
		m.DBWaitCount,
		m.RecapDuration,
		m.RecapDegradedTotal,
		m.RecapCacheTotal,
		m.RefreshRunsTotal,
	)

	return m
}

// ObserveRecapDuration фиксирует длительность агрегации
func (m *Metrics) ObserveRecapDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.RecapDuration.WithLabelValues(m.serviceName).Observe(d.Seconds())
}

// IncDegradedFetch увеличивает счетчик деградировавших выборок
func (m *Metrics) IncDegradedFetch(source string) {
	if m == nil {
		return
	}
	m.RecapDegradedTotal.WithLabelValues(m.serviceName, source).Inc()
}

// IncCache фиксирует попадание или промах кэша (result = hit|miss|error)
func (m *Metrics) IncCache(result string) {
	if m == nil {
		return
	}
	m.RecapCacheTotal.WithLabelValues(m.serviceName, result).Inc()
}

// IncRefreshRun фиксирует пересчет, запущенный воркером (trigger = cron|notify)
func (m *Metrics) IncRefreshRun(trigger string) {
	if m == nil {
		return
	}
	m.RefreshRunsTotal.WithLabelValues(m.serviceName, trigger).Inc()
}
