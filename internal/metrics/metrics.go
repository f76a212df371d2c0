package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "godev_candidate"

// Metrics groups the collectors of the bot. A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	apiRequests    *prometheus.CounterVec
	apiLatency     *prometheus.HistogramVec
	quotaDecisions *prometheus.CounterVec
	storeFetches   *prometheus.CounterVec
	botUpdates     *prometheus.CounterVec
	notifications  *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Registry: reg,
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Requests sent to the GoDev backend.",
		}, []string{"method", "route", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "Latency of requests sent to the GoDev backend.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		quotaDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quick_apply_quota_total",
			Help:      "Quick-apply quota checks and registrations.",
		}, []string{"result"}),
		storeFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_fetches_total",
			Help:      "Remote resource loads by store and outcome.",
		}, []string{"store", "result"}),
		botUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bot_updates_total",
			Help:      "Telegram updates handled by kind and outcome.",
		}, []string{"kind", "outcome"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_notifications_total",
			Help:      "Application status change notifications sent by the watcher.",
		}, []string{"result"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.apiRequests,
		m.apiLatency,
		m.quotaDecisions,
		m.storeFetches,
		m.botUpdates,
		m.notifications,
	)

	return m
}

// ObserveAPI records one backend round trip. status 0 means transport failure.
func (m *Metrics) ObserveAPI(method, route string, status int, took time.Duration) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.apiLatency.WithLabelValues(method, route).Observe(took.Seconds())
}

func (m *Metrics) Quota(result string) {
	if m == nil {
		return
	}
	m.quotaDecisions.WithLabelValues(result).Inc()
}

func (m *Metrics) StoreFetch(store, result string) {
	if m == nil {
		return
	}
	m.storeFetches.WithLabelValues(store, result).Inc()
}

func (m *Metrics) BotUpdate(kind, outcome string) {
	if m == nil {
		return
	}
	m.botUpdates.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) Notification(result string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(result).Inc()
}
