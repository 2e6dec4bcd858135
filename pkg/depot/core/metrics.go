package core

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the operational counters exposed alongside the
// diagnostic snapshot, independent of the printed snapshot format and
// the wire protocol itself.
type Metrics struct {
	Delivered   prometheus.Counter
	Withdrawn   prometheus.Counter
	Transferred prometheus.Counter
	Executed    prometheus.Counter
	Neighbours  prometheus.Gauge
}

// NewMetrics registers a fresh set of collectors against reg. Each depot
// process should use its own registry (rather than the global default)
// so that multiple depots in the same test binary don't collide on
// duplicate registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Delivered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "depot_delivered_total",
			Help: "Number of successfully dispatched Deliver messages.",
		}),
		Withdrawn: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "depot_withdrawn_total",
			Help: "Number of successfully dispatched Withdraw messages.",
		}),
		Transferred: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "depot_transferred_total",
			Help: "Number of successfully dispatched Transfer messages.",
		}),
		Executed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "depot_executed_total",
			Help: "Number of Execute messages processed, regardless of group size.",
		}),
		Neighbours: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "depot_neighbours",
			Help: "Current number of registered neighbours.",
		}),
	}
	reg.MustRegister(m.Delivered, m.Withdrawn, m.Transferred, m.Executed, m.Neighbours)
	return m
}
