// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tierboard"

// Proxy outcomes
const (
	ProxyOK         = "ok"
	ProxyBadRequest = "bad_request"
	ProxyForbidden  = "forbidden"
	ProxyUpstream   = "upstream_error"
)

type Metrics struct {
	submissions  *prometheus.CounterVec
	itemsAdded   prometheus.Counter
	itemsRemoved prometheus.Counter
	imageProxy   *prometheus.CounterVec
	aggregate    prometheus.Histogram
}

// New registers the service metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		submissions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Boards submitted, by whether the submission was new or an overwrite.",
		}, []string{"result"}),
		itemsAdded: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_added_total",
			Help:      "Catalog items added.",
		}),
		itemsRemoved: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_removed_total",
			Help:      "Catalog items removed.",
		}),
		imageProxy: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "image_proxy_requests_total",
			Help:      "Image proxy requests by outcome.",
		}, []string{"outcome"}),
		aggregate: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "aggregate_duration_seconds",
			Help:      "Time spent loading and aggregating results.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) Submission(created bool) {
	result := "updated"
	if created {
		result = "created"
	}
	m.submissions.WithLabelValues(result).Inc()
}

func (m *Metrics) ItemsAdded(n int) {
	m.itemsAdded.Add(float64(n))
}

func (m *Metrics) ItemRemoved() {
	m.itemsRemoved.Inc()
}

func (m *Metrics) ProxyRequest(outcome string) {
	m.imageProxy.WithLabelValues(outcome).Inc()
}

// ObserveAggregate records the time since start.
func (m *Metrics) ObserveAggregate(start time.Time) {
	m.aggregate.Observe(time.Since(start).Seconds())
}

// Handler exposes everything gathered by reg.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}
