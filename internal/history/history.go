package history

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/picatz/super/internal/history/storage"
	"github.com/segmentio/ksuid"
)

// DefaultPath is the default location of the history database.
//
// On Unix-like systems it is ~/.super-history, and on Windows it is
// %USERPROFILE%/.super-history.
var DefaultPath = cmp.Or(os.Getenv("HOME"), os.Getenv("USERPROFILE")) + "/.super-history"

// Exchange is one recorded query.
type Exchange struct {
	ID      string    `json:"id"`
	Time    time.Time `json:"time"`
	BaseURL string    `json:"base_url"`
	Model   string    `json:"model"`
	Prompt  string    `json:"prompt"`
	Reply   string    `json:"reply,omitempty"`
	Error   string    `json:"error,omitempty"`
}

// Failed reports whether the query ended in an error.
func (e Exchange) Failed() bool {
	return e.Error != ""
}

// Recorder writes exchanges to a storage backend. Keys are the zero-padded
// Unix time in nanoseconds followed by a KSUID, so listing returns them
// oldest first even within the same second.
type Recorder struct {
	backend storage.Backend[string, Exchange]
	now     func() time.Time
}

// NewRecorder returns a Recorder backed by b.
func NewRecorder(b storage.Backend[string, Exchange]) *Recorder {
	return &Recorder{backend: b, now: time.Now}
}

// Record stores ex under a new ID and returns it with ID and Time filled in.
// A zero Time is set to the current time.
func (r *Recorder) Record(ctx context.Context, ex Exchange) (Exchange, error) {
	if ex.Time.IsZero() {
		ex.Time = r.now()
	}

	id, err := ksuid.NewRandomWithTime(ex.Time)
	if err != nil {
		return ex, fmt.Errorf("failed to generate exchange id: %w", err)
	}
	ex.ID = fmt.Sprintf("%019d-%s", ex.Time.UnixNano(), id)

	if err := r.backend.Set(ctx, ex.ID, ex); err != nil {
		return ex, fmt.Errorf("failed to record exchange: %w", err)
	}

	return ex, nil
}

// Get returns the exchange with the given ID.
func (r *Recorder) Get(ctx context.Context, id string) (Exchange, bool, error) {
	return r.backend.Get(ctx, id)
}

// List returns up to limit exchanges starting at the ID after (inclusive), or
// at the oldest when after is empty. The second result is the ID to pass to
// get the next page, empty when there is none.
func (r *Recorder) List(ctx context.Context, limit int, after string) ([]Exchange, string, error) {
	var token *string
	if after != "" {
		token = storage.PageToken(after)
	}

	entries, next, err := r.backend.List(ctx, storage.PageSize(limit), token)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list exchanges: %w", err)
	}

	var exchanges []Exchange
	for _, ex := range entries {
		exchanges = append(exchanges, ex)
	}

	if next == nil {
		return exchanges, "", nil
	}
	return exchanges, *next, nil
}

// All returns every recorded exchange, oldest first.
func (r *Recorder) All(ctx context.Context) ([]Exchange, error) {
	var (
		all   []Exchange
		after string
	)
	for {
		page, next, err := r.List(ctx, storage.DefaultListPageSize, after)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if next == "" {
			return all, nil
		}
		after = next
	}
}

// Clear deletes every recorded exchange and flushes the backend. It returns
// the number of exchanges deleted.
func (r *Recorder) Clear(ctx context.Context) (int, error) {
	all, err := r.All(ctx)
	if err != nil {
		return 0, err
	}

	for _, ex := range all {
		if err := r.backend.Delete(ctx, ex.ID); err != nil {
			return 0, fmt.Errorf("failed to delete exchange %s: %w", ex.ID, err)
		}
	}

	if err := r.backend.Flush(ctx); err != nil {
		return 0, fmt.Errorf("failed to flush history: %w", err)
	}

	return len(all), nil
}
