package store

import (
	"context"
	"sync"
)

// Serializer runs read-modify-write sequences one at a time. Every service
// mutation goes through the same Serializer, so a delete guard and the
// write it protects observe one consistent set of collections.
type Serializer interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// LocalSerializer serializes writers inside one process.
type LocalSerializer struct {
	mu sync.Mutex
}

func NewLocalSerializer() *LocalSerializer {
	return &LocalSerializer{}
}

func (s *LocalSerializer) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(ctx)
}
