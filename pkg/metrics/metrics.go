package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the portfolio service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	TradesTotal        *prometheus.CounterVec // labels: side, result
	RefreshRunsTotal   *prometheus.CounterVec // labels: trigger, status
	RefreshStocksTotal *prometheus.CounterVec // labels: outcome=updated|skipped
	UpstreamRequests   *prometheus.CounterVec // labels: endpoint, outcome
	UpstreamDuration   *prometheus.HistogramVec
	QuoteCacheLookups  *prometheus.CounterVec // labels: result=hit|miss
	HTTPRequestsTotal  *prometheus.CounterVec // labels: method, route, status
	HTTPDuration       *prometheus.HistogramVec
}

// New creates the metrics on a dedicated registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		TradesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_trades_total",
			Help: "Buy and sell requests by outcome",
		}, []string{"side", "result"}),
		RefreshRunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_refresh_runs_total",
			Help: "Price refresh runs by trigger and final status",
		}, []string{"trigger", "status"}),
		RefreshStocksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_refresh_stocks_total",
			Help: "Stocks updated or skipped during price refresh",
		}, []string{"outcome"}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_upstream_requests_total",
			Help: "Outbound market-data requests that reached the provider",
		}, []string{"endpoint", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portfolio_upstream_request_duration_seconds",
			Help:    "Outbound market-data request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		QuoteCacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_quote_cache_lookups_total",
			Help: "Quote cache lookups by result",
		}, []string{"result"}),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_http_requests_total",
			Help: "HTTP requests served",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portfolio_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.TradesTotal,
		m.RefreshRunsTotal,
		m.RefreshStocksTotal,
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.QuoteCacheLookups,
		m.HTTPRequestsTotal,
		m.HTTPDuration,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveTrade(side, result string) {
	if m == nil {
		return
	}
	m.TradesTotal.WithLabelValues(side, result).Inc()
}

func (m *Metrics) ObserveRefresh(trigger, status string, updated, skipped int) {
	if m == nil {
		return
	}
	m.RefreshRunsTotal.WithLabelValues(trigger, status).Inc()
	m.RefreshStocksTotal.WithLabelValues("updated").Add(float64(updated))
	m.RefreshStocksTotal.WithLabelValues("skipped").Add(float64(skipped))
}

func (m *Metrics) ObserveUpstream(endpoint string, started time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.UpstreamRequests.WithLabelValues(endpoint, outcome).Inc()
	m.UpstreamDuration.WithLabelValues(endpoint).Observe(time.Since(started).Seconds())
}

func (m *Metrics) ObserveCacheLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.QuoteCacheLookups.WithLabelValues("hit").Inc()
		return
	}
	m.QuoteCacheLookups.WithLabelValues("miss").Inc()
}

func (m *Metrics) ObserveHTTP(method, route, status string, started time.Time) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(time.Since(started).Seconds())
}
