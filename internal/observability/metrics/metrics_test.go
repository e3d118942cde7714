package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	m.ObserveStore("categories", "save", nil)
	m.ObserveStore("categories", "save", errors.New("boom"))
	m.BlockedDelete("currency", "last_resource")
	m.Mutation("invoice", "create")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.storeOps.WithLabelValues("categories", "save", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.storeOps.WithLabelValues("categories", "save", "error")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.blockedDeletes.WithLabelValues("currency", "last_resource")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.mutations.WithLabelValues("invoice", "create")))
}

func TestMetrics_RegisterTwice(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := New(reg)
	require.NoError(t, err)
	second, err := New(reg)
	require.NoError(t, err)

	second.Mutation("category", "create")
	assert.Equal(t, float64(1), testutil.ToFloat64(first.mutations.WithLabelValues("category", "create")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveStore("products", "load", nil)
		m.BlockedDelete("category", "in_use")
		m.Mutation("product", "delete")
	})
}
