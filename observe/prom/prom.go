// Package prom exports scope lifecycle counts as Prometheus
// metrics. It lives outside the core package so that programs which
// do not scrape metrics never pull the client library in.
package prom

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Observer implements moro.Observer on Prometheus collectors.
// Attach one with moro.WithObserver. All callbacks fire on the
// driver's goroutine; the collectors themselves are safe to scrape
// from anywhere.
type Observer struct {
	scopes     prometheus.Counter
	spawned    prometheus.Counter
	completed  prometheus.Counter
	terminated prometheus.Counter
	cleared    prometheus.Counter
	active     prometheus.Gauge
}

// New registers the collectors with reg and returns the observer.
func New(reg prometheus.Registerer) *Observer {
	f := promauto.With(reg)
	return &Observer{
		scopes: f.NewCounter(prometheus.CounterOpts{
			Name: "moro_scopes_created_total",
			Help: "Scopes created.",
		}),
		spawned: f.NewCounter(prometheus.CounterOpts{
			Name: "moro_jobs_spawned_total",
			Help: "Jobs admitted into a scope.",
		}),
		completed: f.NewCounter(prometheus.CounterOpts{
			Name: "moro_jobs_completed_total",
			Help: "Jobs that finished and delivered a result.",
		}),
		terminated: f.NewCounter(prometheus.CounterOpts{
			Name: "moro_scopes_terminated_total",
			Help: "Scopes collapsed early by Terminate.",
		}),
		cleared: f.NewCounter(prometheus.CounterOpts{
			Name: "moro_jobs_cleared_total",
			Help: "Pending jobs dropped by Clear without completing.",
		}),
		active: f.NewGauge(prometheus.GaugeOpts{
			Name: "moro_jobs_active",
			Help: "Jobs currently resident in a scope.",
		}),
	}
}

// ScopeCreated records a scope creation.
func (o *Observer) ScopeCreated() {
	o.scopes.Inc()
}

// TaskSpawned records a job entering a scope.
func (o *Observer) TaskSpawned() {
	o.spawned.Inc()
	o.active.Inc()
}

// TaskCompleted records a job finishing normally.
func (o *Observer) TaskCompleted() {
	o.completed.Inc()
	o.active.Dec()
}

// ScopeTerminated records a scope collapsing early.
func (o *Observer) ScopeTerminated() {
	o.terminated.Inc()
}

// ScopeCleared records dropped jobs leaving a scope unfinished.
func (o *Observer) ScopeCleared(dropped int) {
	o.cleared.Add(float64(dropped))
	o.active.Sub(float64(dropped))
}
