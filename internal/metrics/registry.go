package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all Prometheus metrics of the service.
type Registry struct {
	reg *prometheus.Registry

	txTotal       *prometheus.CounterVec
	txRetries     prometheus.Counter
	txDuration    prometheus.Histogram
	cacheLookups  *prometheus.CounterVec
	batchItems    *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDurations *prometheus.HistogramVec
}

func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)

	return &Registry{
		reg: reg,
		txTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "iot_center_tx_total",
			Help: "Finished transactions by outcome",
		}, []string{"outcome"}),
		txRetries: factory.NewCounter(prometheus.CounterOpts{
			Name: "iot_center_tx_retries_total",
			Help: "Transaction attempts repeated after a transient error",
		}),
		txDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "iot_center_tx_duration_seconds",
			Help:    "Duration of transactions including retries",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "iot_center_cache_lookups_total",
			Help: "Read-through cache lookups by result",
		}, []string{"result"}),
		batchItems: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "iot_center_batch_items_total",
			Help: "Items processed by batch operations",
		}, []string{"operation", "outcome"}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "iot_center_http_requests_total",
			Help: "HTTP requests by route and status code",
		}, []string{"method", "route", "code"}),
		httpDurations: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "iot_center_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Handler exposes the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

func (r *Registry) ObserveTx(outcome string, d time.Duration) {
	r.txTotal.WithLabelValues(outcome).Inc()
	r.txDuration.Observe(d.Seconds())
}

func (r *Registry) IncTxRetries() {
	r.txRetries.Inc()
}

func (r *Registry) CacheHit() {
	r.cacheLookups.WithLabelValues("hit").Inc()
}

func (r *Registry) CacheMiss() {
	r.cacheLookups.WithLabelValues("miss").Inc()
}

func (r *Registry) ObserveBatch(operation string, succeeded, failed int) {
	r.batchItems.WithLabelValues(operation, "success").Add(float64(succeeded))
	r.batchItems.WithLabelValues(operation, "failure").Add(float64(failed))
}

func (r *Registry) ObserveRequest(method, route string, code int, d time.Duration) {
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	r.httpDurations.WithLabelValues(method, route).Observe(d.Seconds())
}
