package observe

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/katalvlaran/colgen/event"
)

// Node outcome label values.
const (
	OutcomeLabel = "outcome"

	OutcomePruned     = "pruned"
	OutcomeInfeasible = "infeasible"
	OutcomeIntegral   = "integral"
	OutcomeFractional = "fractional"
)

// Metrics exports search progress as prometheus collectors.
type Metrics struct {
	nodes      *prometheus.CounterVec
	columns    prometheus.Counter
	cuts       prometheus.Counter
	iterations prometheus.Counter
	master     prometheus.Histogram
	pricing    prometheus.Histogram
	incumbent  prometheus.Gauge
	bound      prometheus.Gauge
	open       prometheus.Gauge
}

// NewMetrics creates the collectors under namespace and registers them on
// reg. It fails if any of them is already registered.
func NewMetrics(namespace string, reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		nodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nodes_total",
			Help:      "Processed search nodes by outcome",
		}, []string{OutcomeLabel}),
		columns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "columns_total",
			Help:      "Columns added to master problems",
		}),
		cuts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cuts_total",
			Help:      "Inequalities added to master problems",
		}),
		iterations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "colgen_iterations_total",
			Help:      "Master solves across all column generation loops",
		}),
		master: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "master_solve_seconds",
			Help:      "Duration of master solves",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 10),
		}),
		pricing: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pricing_round_seconds",
			Help:      "Duration of pricing rounds",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 10),
		}),
		incumbent: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "incumbent_objective",
			Help:      "Objective of the best integral solution",
		}),
		bound: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "bound",
			Help:      "Best bound at the end of the search or at a time limit",
		}),
		open: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "open_nodes",
			Help:      "Nodes waiting in the queue",
		}),
	}
	for _, c := range m.collectors() {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.nodes, m.columns, m.cuts, m.iterations,
		m.master, m.pricing, m.incumbent, m.bound, m.open,
	}
}

// Observe implements event.Listener.
func (m *Metrics) Observe(e event.Event) {
	switch x := e.(type) {
	case event.Started:
		if x.HasIncumbent {
			m.incumbent.Set(x.Incumbent)
		}
	case event.NodePopped:
		m.open.Set(float64(x.Queue))
	case event.NodePruned:
		m.nodes.WithLabelValues(OutcomePruned).Inc()
	case event.NodeInfeasible:
		m.nodes.WithLabelValues(OutcomeInfeasible).Inc()
	case event.NodeIntegral:
		m.nodes.WithLabelValues(OutcomeIntegral).Inc()
	case event.NodeFractional:
		m.nodes.WithLabelValues(OutcomeFractional).Inc()
	case event.IncumbentUpdated:
		m.incumbent.Set(x.Objective)
	case event.MasterSolved:
		m.iterations.Inc()
		m.master.Observe(x.Duration.Seconds())
	case event.PricingSolved:
		m.pricing.Observe(x.Duration.Seconds())
	case event.ColumnsAdded:
		m.columns.Add(float64(len(x.Columns)))
	case event.CutsAdded:
		m.cuts.Add(float64(len(x.Cuts)))
	case event.BranchCreated:
		m.open.Add(float64(len(x.Children)))
	case event.TimeLimitHit:
		m.bound.Set(x.Bound)
	case event.Finished:
		m.bound.Set(x.Bound)
	}
}
