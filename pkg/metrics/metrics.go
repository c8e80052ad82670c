package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// События жизненного цикла сессии для booking_events_total
const (
	EventCreated   = "created"
	EventConflict  = "conflict"
	EventConfirmed = "confirmed"
	EventCompleted = "completed"
	EventCancelled = "cancelled"
	EventRefunded  = "refunded"
	EventRated     = "rated"
	EventReminded  = "reminded"
)

// Результаты доставки уведомлений для notifications_total
const (
	NotificationPublished = "published"
	NotificationDropped   = "dropped"
	NotificationFailed    = "failed"
)

// Metrics набор prometheus метрик сервиса.
// Методы безопасны для nil-получателя: метрики можно отключить в конфиге.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration    *prometheus.HistogramVec
	DBOpenConnections  prometheus.Gauge
	DBInUseConnections prometheus.Gauge
	DBIdleConnections  prometheus.Gauge
	DBWaitCount        prometheus.Gauge

	BookingEvents *prometheus.CounterVec
	Notifications *prometheus.CounterVec
	CacheLookups  *prometheus.CounterVec
}

// New регистрирует метрики в глобальном реестре prometheus
func New(serviceName string) *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer, serviceName)
}

// NewWithRegistry регистрирует метрики в переданном реестре
func NewWithRegistry(reg prometheus.Registerer, serviceName string) *Metrics {
	labels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: labels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		DBOpenConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections",
			ConstLabels: labels,
		}),
		DBInUseConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: labels,
		}),
		DBIdleConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: labels,
		}),
		DBWaitCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: labels,
		}),
		BookingEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_events_total",
			Help:        "Session lifecycle events",
			ConstLabels: labels,
		}, []string{"event"}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "notifications_total",
			Help:        "Outbound notification dispatch results",
			ConstLabels: labels,
		}, []string{"result"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "availability_cache_lookups_total",
			Help:        "Availability cache lookups by result",
			ConstLabels: labels,
		}, []string{"result"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBOpenConnections,
		m.DBInUseConnections,
		m.DBIdleConnections,
		m.DBWaitCount,
		m.BookingEvents,
		m.Notifications,
		m.CacheLookups,
	)

	return m
}

// IncBookingEvent увеличивает счетчик события жизненного цикла
func (m *Metrics) IncBookingEvent(event string) {
	if m == nil {
		return
	}
	m.BookingEvents.WithLabelValues(event).Inc()
}

// IncNotification увеличивает счетчик доставки уведомлений
func (m *Metrics) IncNotification(result string) {
	if m == nil {
		return
	}
	m.Notifications.WithLabelValues(result).Inc()
}

// IncCacheLookup увеличивает счетчик обращений к кэшу (hit/miss/error)
func (m *Metrics) IncCacheLookup(result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

// ObserveDBQuery записывает длительность запроса к БД
func (m *Metrics) ObserveDBQuery(operation string, seconds float64) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(operation).Observe(seconds)
}

// ObserveHTTPRequest учитывает HTTP запрос. route - шаблон пути, а не сам путь.
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(seconds)
}
