// Package metrics exposes Prometheus collectors for the pager.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sweeney/headroom-pager/internal/headroom"
	"github.com/sweeney/headroom-pager/internal/logic"
)

var states = []logic.PinState{logic.StatePinned, logic.StateUnpinned, logic.StateUnfixed}

// Metrics holds the pager's collectors on a private registry.
type Metrics struct {
	registry    *prometheus.Registry
	transitions *prometheus.CounterVec
	samples     *prometheus.CounterVec
	pinState    *prometheus.GaugeVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "headroom",
			Name:      "transitions_total",
			Help:      "Applied transitions by action.",
		}, []string{"action"}),
		samples: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "headroom",
			Name:      "samples_total",
			Help:      "Scheduled scroll updates by outcome.",
		}, []string{"result"}),
		pinState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "headroom",
			Name:      "pin_state",
			Help:      "1 for the current pin state, 0 otherwise.",
		}, []string{"state"}),
	}
	m.registry.MustRegister(
		m.transitions,
		m.samples,
		m.pinState,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveTransition counts e and moves the state gauge to e.To.
func (m *Metrics) ObserveTransition(e logic.Event) {
	m.transitions.WithLabelValues(string(e.Action)).Inc()
	m.SetState(e.To)
}

// ObserveSample counts the outcome of a scheduled update.
func (m *Metrics) ObserveSample(o headroom.Outcome) {
	m.samples.WithLabelValues(string(o)).Inc()
}

// SetState sets the gauge for current to 1 and the others to 0.
func (m *Metrics) SetState(current logic.PinState) {
	for _, s := range states {
		v := 0.0
		if s == current {
			v = 1
		}
		m.pinState.WithLabelValues(string(s)).Set(v)
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
