package middleware

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Middleware instruments wrapped handlers with per-route request
// counters and duration histograms, registered on the given registry.
type Middleware struct {
	inFlight *prometheus.GaugeVec
	counter  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func New(registry prometheus.Registerer, buckets []float64) *Middleware {
	if buckets == nil {
		buckets = prometheus.ExponentialBuckets(0.005, 2, 12)
	}

	factory := promauto.With(registry)
	return &Middleware{
		inFlight: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of currently handled requests",
		}, []string{"handler"}),
		counter: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of handled requests",
		}, []string{"handler", "method", "code"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Request handling duration",
			Buckets: buckets,
		}, []string{"handler", "method", "code"}),
	}
}

func (m *Middleware) WrapHandler(handlerName string, handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.inFlight.WithLabelValues(handlerName).Inc()
		defer m.inFlight.WithLabelValues(handlerName).Dec()

		timer := prometheus.NewTimer(nil)
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		handler.ServeHTTP(sw, r)
		elapsed := timer.ObserveDuration()

		code := strconv.Itoa(sw.status)
		m.counter.WithLabelValues(handlerName, r.Method, code).Inc()
		m.duration.WithLabelValues(handlerName, r.Method, code).Observe(elapsed.Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
