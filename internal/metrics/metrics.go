package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "shopupload"

// Metrics holds the service's collectors on a private registry so that
// several servers can coexist in one process (tests).
type Metrics struct {
	registry *prometheus.Registry

	RecordsSubmitted prometheus.Counter
	FilesStored      prometheus.Counter
	SubmitFailures   prometheus.Counter
	RateLimited      prometheus.Counter
	RequestDuration  *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RecordsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "records_submitted_total", Help: "Number of records stored.",
		}),
		FilesStored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "files_stored_total", Help: "Number of uploaded files written to the file store.",
		}),
		SubmitFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "submit_failures_total", Help: "Number of submissions that failed with a server error.",
		}),
		RateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "rate_limited_total", Help: "Number of requests rejected by the upload rate limiter.",
		}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and status code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "code"}),
	}

	m.registry.MustRegister(
		m.RecordsSubmitted,
		m.FilesStored,
		m.SubmitFailures,
		m.RateLimited,
		m.RequestDuration,
		collectors.NewGoCollector(),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
