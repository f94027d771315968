// Package metrics defines the Prometheus collectors the service exports.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	PortCalls       *prometheus.CounterVec
	PortLatency     *prometheus.HistogramVec
	HTTPRequests    *prometheus.CounterVec
	HTTPLatency     *prometheus.HistogramVec
	EventsPublished *prometheus.CounterVec
}

// New builds the collectors and registers them on reg. A nil reg uses the default registerer.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		PortCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "user_port", Name: "calls_total",
			Help: "External user port calls by adapter, method and outcome.",
		}, []string{"adapter", "method", "outcome"}),
		PortLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "user_port", Name: "call_duration_seconds",
			Help:    "External user port call latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"adapter", "method"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "http", Name: "requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "http", Name: "request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "events", Name: "published_total",
			Help: "Payment events handed to the broker by type and outcome.",
		}, []string{"type", "outcome"}),
	}
	reg.MustRegister(m.PortCalls, m.PortLatency, m.HTTPRequests, m.HTTPLatency, m.EventsPublished)
	return m
}
