package dispatcher

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/marminbh/webhook-relay/internal/config"
	"github.com/marminbh/webhook-relay/internal/models"
)

type countingSink struct {
	mu     sync.Mutex
	events []int64
}

func (s *countingSink) DeliverEvent(_ context.Context, event *models.Event) (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event.ID)
	return 1, 0
}

func (s *countingSink) seen() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int64(nil), s.events...)
}

func TestDispatcherDeliversEnqueuedEvents(t *testing.T) {
	sink := &countingSink{}
	d := NewDispatcher(config.DispatcherConfig{Workers: 4, QueueSize: 32}, sink, zap.NewNop())
	require.NoError(t, d.Start())
	t.Cleanup(func() { _ = d.Stop() })

	for i := int64(1); i <= 20; i++ {
		require.NoError(t, d.Enqueue(&models.Event{ID: i, Type: "job_created"}))
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && len(sink.seen()) < 20 {
		time.Sleep(5 * time.Millisecond)
	}

	seen := sink.seen()
	require.Len(t, seen, 20)
	ids := make(map[int64]bool)
	for _, id := range seen {
		ids[id] = true
	}
	assert.Len(t, ids, 20, "every event delivered exactly once")
}

func TestDispatcherRequiresWorkers(t *testing.T) {
	d := NewDispatcher(config.DispatcherConfig{Workers: 0, QueueSize: 1}, &countingSink{}, zap.NewNop())
	assert.Error(t, d.Start())
}

func TestEnqueueAfterStopFails(t *testing.T) {
	sink := &countingSink{}
	d := NewDispatcher(config.DispatcherConfig{Workers: 1, QueueSize: 1}, sink, zap.NewNop())
	require.NoError(t, d.Start())
	require.NoError(t, d.Stop())

	assert.Error(t, d.Enqueue(&models.Event{ID: 1}))
}
