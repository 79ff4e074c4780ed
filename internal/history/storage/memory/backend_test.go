package memory_test

import (
	"testing"

	"github.com/picatz/super/internal/history"
	"github.com/picatz/super/internal/history/storage/memory"
	"github.com/picatz/super/internal/history/storage/tests"
)

func TestBackend(t *testing.T) {
	tests.BackendSuite(t, memory.NewBackend[string, string]())
	tests.BackendSuite_exchanges(t, memory.NewBackend[string, history.Exchange]())
}
