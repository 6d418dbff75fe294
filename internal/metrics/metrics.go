package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg             *prometheus.Registry
	HTTPRequests    *prometheus.CounterVec
	HTTPLatencySec  *prometheus.HistogramVec
	AggregationSec  prometheus.Histogram
	CacheHits       prometheus.Counter
	CacheMisses     prometheus.Counter
	EventsPublished *prometheus.CounterVec
	EventsConsumed  prometheus.Counter
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "store_admin_http_requests_total",
	}, []string{"method", "route", "code"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "store_admin_http_request_seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	aggregation := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "store_admin_analytics_aggregation_seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
	})
	hits := prometheus.NewCounter(prometheus.CounterOpts{Name: "store_admin_analytics_cache_hits_total"})
	misses := prometheus.NewCounter(prometheus.CounterOpts{Name: "store_admin_analytics_cache_misses_total"})
	published := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "store_admin_change_events_published_total",
	}, []string{"entity", "result"})
	consumed := prometheus.NewCounter(prometheus.CounterOpts{Name: "store_admin_change_events_consumed_total"})

	r.MustRegister(requests, latency, aggregation, hits, misses, published, consumed)
	return &Registry{
		reg:             r,
		HTTPRequests:    requests,
		HTTPLatencySec:  latency,
		AggregationSec:  aggregation,
		CacheHits:       hits,
		CacheMisses:     misses,
		EventsPublished: published,
		EventsConsumed:  consumed,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }

// Middleware records request counts and latency labelled by chi route pattern.
func (r *Registry) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		next.ServeHTTP(ww, req)

		route := "unmatched"
		if rc := chi.RouteContext(req.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		r.HTTPRequests.WithLabelValues(req.Method, route, strconv.Itoa(status)).Inc()
		r.HTTPLatencySec.WithLabelValues(req.Method, route).Observe(time.Since(start).Seconds())
	})
}
