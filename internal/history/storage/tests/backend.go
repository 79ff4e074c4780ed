// Package tests holds the conformance suite every storage backend must pass.
package tests

import (
	"iter"
	"testing"
	"time"

	"github.com/picatz/super/internal/history"
	"github.com/picatz/super/internal/history/storage"
	"github.com/shoenig/test/must"
)

// BackendSuite tests a backend implementation of the storage package, using
// the provided backend instance to perform the tests.
func BackendSuite(t *testing.T, backend storage.Backend[string, string]) {
	t.Helper()

	ctx := t.Context()

	_, ok, err := backend.Get(ctx, "missing")
	must.NoError(t, err)
	must.False(t, ok)

	must.NoError(t, backend.Set(ctx, "b", "second"))
	must.NoError(t, backend.Set(ctx, "a", "first"))
	must.NoError(t, backend.Set(ctx, "c", "third"))

	value, ok, err := backend.Get(ctx, "a")
	must.NoError(t, err)
	must.True(t, ok)
	must.Eq(t, "first", value)

	// Overwrite keeps a single entry.
	must.NoError(t, backend.Set(ctx, "b", "second again"))

	value, ok, err = backend.Get(ctx, "b")
	must.NoError(t, err)
	must.True(t, ok)
	must.Eq(t, "second again", value)

	entries, next, err := backend.List(ctx, storage.PageSize(2), nil)
	must.NoError(t, err)
	must.NotNil(t, next)
	must.Eq(t, "c", *next)
	must.Eq(t, []string{"a", "b"}, keys(entries))

	entries, next, err = backend.List(ctx, nil, next)
	must.NoError(t, err)
	must.Nil(t, next)
	must.Eq(t, []string{"c"}, keys(entries))

	must.NoError(t, backend.Delete(ctx, "b"))
	must.NoError(t, backend.Delete(ctx, "never-set"))

	_, ok, err = backend.Get(ctx, "b")
	must.NoError(t, err)
	must.False(t, ok)

	entries, next, err = backend.List(ctx, nil, nil)
	must.NoError(t, err)
	must.Nil(t, next)
	must.Eq(t, []string{"a", "c"}, keys(entries))

	must.NoError(t, backend.Flush(ctx))
}

// BackendSuite_exchanges runs the history recorder against a backend.
func BackendSuite_exchanges(t *testing.T, b storage.Backend[string, history.Exchange]) {
	t.Helper()

	ctx := t.Context()
	recorder := history.NewRecorder(b)

	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	var recorded []history.Exchange
	for i, prompt := range []string{"one", "two", "three"} {
		ex, err := recorder.Record(ctx, history.Exchange{
			Time:    start.Add(time.Duration(i) * time.Minute),
			BaseURL: "http://localhost:8080/v1",
			Model:   "test-model",
			Prompt:  prompt,
			Reply:   "reply " + prompt,
		})
		must.NoError(t, err)
		must.NotEq(t, "", ex.ID)
		recorded = append(recorded, ex)
	}

	got, ok, err := recorder.Get(ctx, recorded[1].ID)
	must.NoError(t, err)
	must.True(t, ok)
	must.Eq(t, "two", got.Prompt)
	must.Eq(t, "reply two", got.Reply)
	must.True(t, got.Time.Equal(recorded[1].Time))

	page, next, err := recorder.List(ctx, 2, "")
	must.NoError(t, err)
	must.Eq(t, []string{"one", "two"}, prompts(page))
	must.Eq(t, recorded[2].ID, next)

	page, next, err = recorder.List(ctx, 2, next)
	must.NoError(t, err)
	must.Eq(t, []string{"three"}, prompts(page))
	must.Eq(t, "", next)

	all, err := recorder.All(ctx)
	must.NoError(t, err)
	must.Eq(t, []string{"one", "two", "three"}, prompts(all))

	n, err := recorder.Clear(ctx)
	must.NoError(t, err)
	must.Eq(t, 3, n)

	all, err = recorder.All(ctx)
	must.NoError(t, err)
	must.Eq(t, 0, len(all))

	// Exchanges within the same second still list oldest first.
	for i := range 10 {
		_, err := recorder.Record(ctx, history.Exchange{
			Time:   start.Add(time.Duration(i) * 90 * time.Millisecond),
			Prompt: string(rune('a' + i)),
		})
		must.NoError(t, err)
	}

	all, err = recorder.All(ctx)
	must.NoError(t, err)
	must.Eq(t, []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}, prompts(all))

	n, err = recorder.Clear(ctx)
	must.NoError(t, err)
	must.Eq(t, 10, n)
}

func keys[V any](entries iter.Seq2[string, V]) []string {
	var out []string
	for k := range entries {
		out = append(out, k)
	}
	return out
}

func prompts(exchanges []history.Exchange) []string {
	var out []string
	for _, ex := range exchanges {
		out = append(out, ex.Prompt)
	}
	return out
}
