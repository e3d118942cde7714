package store

import (
	"context"

	"github.com/smallbiznis/invoicebook/internal/observability/metrics"
)

type instrumented struct {
	next    Store
	metrics *metrics.Metrics
}

// Instrument counts loads and saves per collection.
func Instrument(next Store, m *metrics.Metrics) Store {
	if m == nil {
		return next
	}
	return &instrumented{next: next, metrics: m}
}

func (s *instrumented) Load(ctx context.Context, key string) ([]byte, bool, error) {
	payload, ok, err := s.next.Load(ctx, key)
	s.metrics.ObserveStore(key, "load", err)
	return payload, ok, err
}

func (s *instrumented) Save(ctx context.Context, key string, payload []byte) error {
	err := s.next.Save(ctx, key, payload)
	s.metrics.ObserveStore(key, "save", err)
	return err
}
