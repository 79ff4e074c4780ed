package history

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/picatz/super/internal/history/storage/memory"
	"github.com/segmentio/ksuid"
	"github.com/shoenig/test/must"
)

func TestRecorder_Record_stampsTime(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	r := NewRecorder(memory.NewBackend[string, Exchange]())
	r.now = func() time.Time { return now }

	ex, err := r.Record(t.Context(), Exchange{Prompt: "hello", Error: "connection failed"})
	must.NoError(t, err)
	must.True(t, ex.Time.Equal(now))
	must.True(t, ex.Failed())

	nanos, suffix, ok := strings.Cut(ex.ID, "-")
	must.True(t, ok)
	must.Eq(t, fmt.Sprintf("%019d", now.UnixNano()), nanos)

	id, err := ksuid.Parse(suffix)
	must.NoError(t, err)
	must.True(t, id.Time().Equal(now))
}

func TestRecorder_All_subsecondOrder(t *testing.T) {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	for range 100 {
		r := NewRecorder(memory.NewBackend[string, Exchange]())

		for i, prompt := range []string{"first", "second", "third"} {
			_, err := r.Record(t.Context(), Exchange{
				Time:   start.Add(time.Duration(i) * 300 * time.Millisecond),
				Prompt: prompt,
			})
			must.NoError(t, err)
		}

		all, err := r.All(t.Context())
		must.NoError(t, err)
		must.SliceLen(t, 3, all)
		must.Eq(t, "first", all[0].Prompt)
		must.Eq(t, "second", all[1].Prompt)
		must.Eq(t, "third", all[2].Prompt)
	}
}

func TestRecorder_Record_clockOrder(t *testing.T) {
	r := NewRecorder(memory.NewBackend[string, Exchange]())

	var prompts []string
	for i := range 20 {
		prompt := fmt.Sprintf("prompt %02d", i)
		prompts = append(prompts, prompt)

		_, err := r.Record(t.Context(), Exchange{Prompt: prompt})
		must.NoError(t, err)
		time.Sleep(time.Millisecond)
	}

	all, err := r.All(t.Context())
	must.NoError(t, err)

	var got []string
	for _, ex := range all {
		got = append(got, ex.Prompt)
	}
	must.Eq(t, prompts, got)
}

func TestRecorder_List_empty(t *testing.T) {
	r := NewRecorder(memory.NewBackend[string, Exchange]())

	page, next, err := r.List(t.Context(), 10, "")
	must.NoError(t, err)
	must.Eq(t, 0, len(page))
	must.Eq(t, "", next)

	n, err := r.Clear(t.Context())
	must.NoError(t, err)
	must.Eq(t, 0, n)
}
