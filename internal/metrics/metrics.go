package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result label values.
const (
	ResultOK       = "ok"
	ResultNotFound = "not_found"
	ResultInvalid  = "invalid"
	ResultError    = "error"
)

// Metrics counts image operations by outcome.
type Metrics interface {
	IncUploads(result string)
	IncFetches(result string)
	IncDeletes(result string)
}

// Noop implements Metrics without emitting anything.
type Noop struct{}

func (Noop) IncUploads(string) {}
func (Noop) IncFetches(string) {}
func (Noop) IncDeletes(string) {}

// Prom implements Metrics backed by Prometheus counters on its own registry.
type Prom struct {
	registry *prometheus.Registry
	uploads  *prometheus.CounterVec
	fetches  *prometheus.CounterVec
	deletes  *prometheus.CounterVec
}

func NewProm(namespace string) *Prom {
	p := &Prom{
		registry: prometheus.NewRegistry(),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "image_uploads_total",
			Help:      "Image uploads by result",
		}, []string{"result"}),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "image_fetches_total",
			Help:      "Image fetches by result",
		}, []string{"result"}),
		deletes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "image_deletes_total",
			Help:      "Image deletions by result",
		}, []string{"result"}),
	}
	p.registry.MustRegister(
		p.uploads,
		p.fetches,
		p.deletes,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return p
}

func (p *Prom) IncUploads(result string) {
	p.uploads.WithLabelValues(result).Inc()
}

func (p *Prom) IncFetches(result string) {
	p.fetches.WithLabelValues(result).Inc()
}

func (p *Prom) IncDeletes(result string) {
	p.deletes.WithLabelValues(result).Inc()
}

// Gatherer exposes the underlying registry.
func (p *Prom) Gatherer() prometheus.Gatherer {
	return p.registry
}

// Handler returns an HTTP handler for /metrics.
func (p *Prom) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}
