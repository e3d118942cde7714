// Package store is the entity store: a key-value record store holding one
// JSON-serialized collection per key. Every write replaces the whole
// collection.
package store

import (
	"context"
	"errors"
)

// Collection keys.
const (
	KeyCategories = "categories"
	KeyProducts   = "products"
	KeyCurrencies = "currencies"
	KeyInvoices   = "invoices"
)

var ErrEmptyKey = errors.New("store key is empty")

// Store loads and replaces serialized collections. Load reports ok=false when
// the key has never been written.
type Store interface {
	Load(ctx context.Context, key string) (payload []byte, ok bool, err error)
	Save(ctx context.Context, key string, payload []byte) error
}
