package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// Collection is a typed view of one store key. A never-written key reads as
// the seed. Load never writes; the seed is persisted by the first Replace,
// which callers issue under the Serializer.
type Collection[T any] struct {
	store Store
	key   string
	seed  func() []T
}

func NewCollection[T any](st Store, key string, seed func() []T) *Collection[T] {
	return &Collection[T]{store: st, key: key, seed: seed}
}

func (c *Collection[T]) Key() string {
	return c.key
}

// Load returns the current records in insertion order.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	payload, ok, err := c.store.Load(ctx, c.key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", c.key, err)
	}
	if !ok {
		items := []T{}
		if c.seed != nil {
			items = c.seed()
		}
		if items == nil {
			items = []T{}
		}
		return items, nil
	}

	var items []T
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Replace writes the whole collection.
func (c *Collection[T]) Replace(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.key, err)
	}
	if err := c.store.Save(ctx, c.key, payload); err != nil {
		return fmt.Errorf("save %s: %w", c.key, err)
	}
	return nil
}
