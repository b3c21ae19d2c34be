package handlers

import (
	"testing"
	"time"

	"storeadmin/application/cache"
	"storeadmin/infrastructure/cachestore"
	"storeadmin/pkg/observability"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

var testNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func newTestAccessor(t *testing.T) (*cache.Accessor, *cachestore.MemoryStore) {
	t.Helper()
	store := cachestore.NewMemoryStore(clockwork.NewFakeClockAt(testNow), 0)
	t.Cleanup(func() { store.Close() })
	return cache.NewAccessor(store, zap.NewNop(), nil, observability.NewTracer("test", false)), store
}
