package storage

import (
	"context"
	"iter"
)

// Entry is a single key/value pair held by a Backend.
type Entry[K, V any] struct {
	Key   K
	Value V
}

// Backend stores values by key.
//
// List returns entries in ascending key order, starting at pageToken
// (inclusive) when it is not nil. The returned token is the key of the first
// entry of the next page, or nil when there are no more entries.
type Backend[K, V any] interface {
	Get(ctx context.Context, key K) (value V, found bool, err error)
	Set(ctx context.Context, key K, value V) error
	Delete(ctx context.Context, key K) error
	List(ctx context.Context, pageSize *int, pageToken *K) (entries iter.Seq2[K, V], nextPageToken *K, err error)
	Flush(ctx context.Context) error
	Close(ctx context.Context) error
}

// DefaultListPageSize is used by backends when List is called without a page size.
const DefaultListPageSize = 25

func ptr[T any](v T) *T {
	return &v
}

// PageSize returns a page size argument for List.
func PageSize(pageSize int) *int {
	return ptr(pageSize)
}

// PageToken returns a page token argument for List.
func PageToken[T any](pageToken T) *T {
	return ptr(pageToken)
}

// Seq yields the given entries in order, stopping early if asked to.
func Seq[K, V any](entries []Entry[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, e := range entries {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}
