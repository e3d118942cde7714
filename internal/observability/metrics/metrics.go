package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "invoicebook"

// Metrics exposes application-level instruments. A nil *Metrics is a no-op.
type Metrics struct {
	storeOps       *prometheus.CounterVec
	blockedDeletes *prometheus.CounterVec
	mutations      *prometheus.CounterVec
}

// New registers the application counters on reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		storeOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_operations_total",
			Help:      "Entity store loads and saves by collection and result.",
		}, []string{"collection", "op", "result"}),
		blockedDeletes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocked_deletes_total",
			Help:      "Deletes rejected by referential integrity rules.",
		}, []string{"entity", "reason"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Successful create, update and delete operations by entity.",
		}, []string{"entity", "op"}),
	}

	var err error
	if m.storeOps, err = register(reg, m.storeOps); err != nil {
		return nil, err
	}
	if m.blockedDeletes, err = register(reg, m.blockedDeletes); err != nil {
		return nil, err
	}
	if m.mutations, err = register(reg, m.mutations); err != nil {
		return nil, err
	}
	return m, nil
}

// register returns the already registered vector when the same metric was
// registered before, so several fx apps in one process share counters.
func register(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return c, nil
}

// ObserveStore records one store operation on a collection.
func (m *Metrics) ObserveStore(collection, op string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.storeOps.WithLabelValues(collection, op, result).Inc()
}

// BlockedDelete records a delete rejected with the given reason
// (in_use, last_resource).
func (m *Metrics) BlockedDelete(entity, reason string) {
	if m == nil {
		return
	}
	m.blockedDeletes.WithLabelValues(entity, reason).Inc()
}

func (m *Metrics) Mutation(entity, op string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(entity, op).Inc()
}
