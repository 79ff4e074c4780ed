package memory

import (
	"cmp"
	"context"
	"iter"
	"slices"

	"github.com/picatz/super/internal/history/storage"
)

var _ storage.Backend[string, string] = (*Backend[string, string])(nil)

// Backend is an in-memory storage backend that keeps its entries in a slice
// sorted by key. It is not safe for concurrent use.
type Backend[K cmp.Ordered, V any] struct {
	store []storage.Entry[K, V]
}

// NewBackend creates a new, empty in-memory storage backend.
func NewBackend[K cmp.Ordered, V any]() *Backend[K, V] {
	return &Backend[K, V]{}
}

func (b *Backend[K, V]) search(key K) (int, bool) {
	return slices.BinarySearchFunc(b.store, key, func(e storage.Entry[K, V], k K) int {
		return cmp.Compare(e.Key, k)
	})
}

// Get retrieves a value by its key.
func (b *Backend[K, V]) Get(ctx context.Context, key K) (V, bool, error) {
	if i, ok := b.search(key); ok {
		return b.store[i].Value, true, nil
	}
	var zero V
	return zero, false, nil
}

// Set stores a value, replacing any value already held for the key.
func (b *Backend[K, V]) Set(ctx context.Context, key K, value V) error {
	i, ok := b.search(key)
	if ok {
		b.store[i].Value = value
		return nil
	}
	b.store = slices.Insert(b.store, i, storage.Entry[K, V]{Key: key, Value: value})
	return nil
}

// Delete removes a key. Deleting a missing key is not an error.
func (b *Backend[K, V]) Delete(ctx context.Context, key K) error {
	if i, ok := b.search(key); ok {
		b.store = slices.Delete(b.store, i, i+1)
	}
	return nil
}

// List returns one page of entries in key order.
func (b *Backend[K, V]) List(ctx context.Context, pageSize *int, pageToken *K) (iter.Seq2[K, V], *K, error) {
	entries := b.store
	if pageToken != nil {
		i, _ := b.search(*pageToken)
		entries = entries[i:]
	}

	limit := storage.DefaultListPageSize
	if pageSize != nil && *pageSize > 0 {
		limit = *pageSize
	}

	var nextPageToken *K
	if len(entries) > limit {
		nextPageToken = storage.PageToken(entries[limit].Key)
		entries = entries[:limit]
	}

	// Copy so that writes made while iterating don't shift the page.
	return storage.Seq(slices.Clone(entries)), nextPageToken, nil
}

// Flush is a no-op for the in-memory backend.
func (b *Backend[K, V]) Flush(context.Context) error {
	return nil
}

// Close is a no-op for the in-memory backend.
func (b *Backend[K, V]) Close(context.Context) error {
	return nil
}
