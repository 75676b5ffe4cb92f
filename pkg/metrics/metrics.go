package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the service counters. A nil *Metrics is valid and records
// nothing, so services can be built without a registry in tests.
type Metrics struct {
	reg            *prometheus.Registry
	farmMutations  *prometheus.CounterVec
	storeFailures  *prometheus.CounterVec
	upstreamCalls  *prometheus.CounterVec
	chatReplies    *prometheus.CounterVec
	weatherRefresh prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		farmMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "micampo", Name: "farm_mutations_total",
			Help: "Farm store mutations by operation.",
		}, []string{"op"}),
		storeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "micampo", Name: "store_write_failures_total",
			Help: "Failed persistence writes by key.",
		}, []string{"key"}),
		upstreamCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "micampo", Name: "upstream_calls_total",
			Help: "Calls to third-party APIs by upstream and outcome.",
		}, []string{"upstream", "outcome"}),
		chatReplies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "micampo", Name: "chat_replies_total",
			Help: "Assistant replies by mode (api, rules, error).",
		}, []string{"mode"}),
		weatherRefresh: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "micampo", Name: "weather_last_success_timestamp_seconds",
			Help: "Unix time of the last successful weather refresh.",
		}),
	}
	m.reg.MustRegister(
		collectors.NewGoCollector(),
		m.farmMutations, m.storeFailures, m.upstreamCalls, m.chatReplies, m.weatherRefresh,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.reg
}

func (m *Metrics) FarmMutation(op string) {
	if m != nil {
		m.farmMutations.WithLabelValues(op).Inc()
	}
}

func (m *Metrics) StoreWriteFailed(key string) {
	if m != nil {
		m.storeFailures.WithLabelValues(key).Inc()
	}
}

func (m *Metrics) Upstream(name string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.upstreamCalls.WithLabelValues(name, outcome).Inc()
}

func (m *Metrics) ChatReply(mode string) {
	if m != nil {
		m.chatReplies.WithLabelValues(mode).Inc()
	}
}

func (m *Metrics) WeatherRefreshed(unix float64) {
	if m != nil {
		m.weatherRefresh.Set(unix)
	}
}
