package retry

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

// fakeDeliverer records every redelivery and fails the first failures calls.
type fakeDeliverer struct {
	mu       sync.Mutex
	attempts []int
	at       []time.Time
	failures int
}

func (f *fakeDeliverer) Redeliver(_ context.Context, _ *models.Event, _ *models.Webhook, attemptCount int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts = append(f.attempts, attemptCount)
	f.at = append(f.at, time.Now())
	return len(f.attempts) > f.failures
}

func (f *fakeDeliverer) snapshot() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.attempts...)
}

func newTestScheduler(t *testing.T, base time.Duration, maxRetries int, d Redeliverer) *Scheduler {
	t.Helper()
	s := NewScheduler(config.RetryConfig{MaxRetries: maxRetries, BaseDelay: base}, zap.NewNop())
	s.SetDeliverer(d)
	s.Start()
	t.Cleanup(s.Stop)
	return s
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %s", timeout)
}

func TestBackoffDelayDoubles(t *testing.T) {
	s := NewScheduler(config.RetryConfig{MaxRetries: 3, BaseDelay: time.Second}, zap.NewNop())

	assert.Equal(t, 1*time.Second, s.backoffDelay(1))
	assert.Equal(t, 2*time.Second, s.backoffDelay(2))
	assert.Equal(t, 4*time.Second, s.backoffDelay(3))
	assert.Equal(t, 1*time.Second, s.backoffDelay(0), "attempts below 1 clamp to the base delay")
}

func TestChainStopsAtMaxRetries(t *testing.T) {
	d := &fakeDeliverer{failures: 100} // never succeeds
	s := newTestScheduler(t, 10*time.Millisecond, 3, d)

	event := &models.Event{ID: 1, ExternalID: "evt-1", Type: "job_created"}
	webhook := &models.Webhook{ID: 1, EventType: "job_created"}
	s.Schedule(event, webhook, 1)

	waitFor(t, 2*time.Second, func() bool { return len(d.snapshot()) == 3 })

	// settle, then confirm no fourth automatic attempt
	time.Sleep(200 * time.Millisecond)
	attempts := d.snapshot()
	require.Len(t, attempts, 3)
	assert.Equal(t, []int{2, 3, 4}, attempts, "audit attempt counts are monotonic across the chain")
	assert.Equal(t, 0, s.Depth())
}

func TestChainStopsOnSuccess(t *testing.T) {
	d := &fakeDeliverer{failures: 1} // second redelivery succeeds
	s := newTestScheduler(t, 10*time.Millisecond, 3, d)

	event := &models.Event{ID: 1, ExternalID: "evt-1", Type: "job_created"}
	webhook := &models.Webhook{ID: 1, EventType: "job_created"}
	s.Schedule(event, webhook, 1)

	waitFor(t, 2*time.Second, func() bool { return len(d.snapshot()) == 2 })

	time.Sleep(200 * time.Millisecond)
	assert.Len(t, d.snapshot(), 2, "a successful attempt terminates the chain")
}

func TestBackoffScheduleSpacing(t *testing.T) {
	d := &fakeDeliverer{failures: 100}
	s := newTestScheduler(t, 50*time.Millisecond, 3, d)

	event := &models.Event{ID: 1}
	webhook := &models.Webhook{ID: 1}
	start := time.Now()
	s.Schedule(event, webhook, 1)

	waitFor(t, 3*time.Second, func() bool { return len(d.snapshot()) == 3 })

	d.mu.Lock()
	defer d.mu.Unlock()
	// fire times should be at roughly base, base+2*base, base+2*base+4*base
	assert.GreaterOrEqual(t, d.at[0].Sub(start), 50*time.Millisecond)
	assert.GreaterOrEqual(t, d.at[1].Sub(d.at[0]), 100*time.Millisecond)
	assert.GreaterOrEqual(t, d.at[2].Sub(d.at[1]), 200*time.Millisecond)
}

func TestIndependentChains(t *testing.T) {
	d := &fakeDeliverer{failures: 100}
	s := newTestScheduler(t, 10*time.Millisecond, 2, d)

	event := &models.Event{ID: 1}
	for i := int64(1); i <= 3; i++ {
		s.Schedule(event, &models.Webhook{ID: i}, 1)
	}

	waitFor(t, 2*time.Second, func() bool { return len(d.snapshot()) == 6 })
	assert.Len(t, d.snapshot(), 6, "each (event, webhook) chain runs its own two retries")
}

func TestManualTaskFiresOnceEvenOnFailure(t *testing.T) {
	d := &fakeDeliverer{failures: 100}
	s := newTestScheduler(t, 10*time.Millisecond, 3, d)

	event := &models.Event{ID: 1}
	webhook := &models.Webhook{ID: 1}
	s.ScheduleManual(event, webhook, 5)

	waitFor(t, time.Second, func() bool { return len(d.snapshot()) == 1 })
	time.Sleep(100 * time.Millisecond)

	attempts := d.snapshot()
	require.Len(t, attempts, 1, "manual redelivery never continues a chain")
	assert.Equal(t, 5, attempts[0])
}

func TestScheduleBeyondCeilingIsDropped(t *testing.T) {
	d := &fakeDeliverer{}
	s := newTestScheduler(t, 10*time.Millisecond, 3, d)

	s.Schedule(&models.Event{ID: 1}, &models.Webhook{ID: 1}, 4)
	assert.Equal(t, 0, s.Depth())
}
