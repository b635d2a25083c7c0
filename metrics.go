package splitter

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "splitter"

// Outcome labels.
const (
	outcomeOK       = "ok"
	outcomeReverted = "reverted"
)

type metrics struct {
	operations   *prometheus.CounterVec
	materialized prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "operations_total",
			Help:      "Registry operations by kind and outcome.",
		}, []string{"op", "outcome"}),
		materialized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "holders_materialized_total",
			Help:      "Holders brought into existence by the registry.",
		}),
	}
	if reg == nil {
		return m, nil
	}

	var err error
	m.operations, err = register(reg, m.operations)
	if err != nil {
		return nil, err
	}
	m.materialized, err = register(reg, m.materialized)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// register adds c to reg, reusing an identical collector that another
// registry already put there.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *metrics) observe(op string, err error) {
	outcome := outcomeOK
	if err != nil {
		outcome = outcomeReverted
	}
	m.operations.WithLabelValues(op, outcome).Inc()
}
