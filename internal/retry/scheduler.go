// Package retry schedules bounded redelivery of failed webhook dispatches.
// Pending work sits in a min-heap keyed by fire time and a single goroutine
// drives one timer across all chains, so many independent backoff timers
// never cost a goroutine each. Chains for different (event, webhook) pairs
// proceed fully independently.
package retry

import (
	"container/heap"
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/marminbh/webhook-relay/internal/config"
	"github.com/marminbh/webhook-relay/internal/models"
)

// Redeliverer performs one delivery attempt and reports whether it succeeded.
// The delivery engine implements it; an attempt record is appended either way.
type Redeliverer interface {
	Redeliver(ctx context.Context, event *models.Event, webhook *models.Webhook, attemptCount int) bool
}

type task struct {
	fireAt  time.Time
	event   *models.Event
	webhook *models.Webhook
	// attempt is the retry attempt number, 1-based. The audit record for the
	// fired attempt carries auditAttempt.
	attempt      int
	auditAttempt int
	// manual tasks fire once and never reschedule.
	manual bool
	index  int
}

type Scheduler struct {
	cfg       config.RetryConfig
	logger    *zap.Logger
	deliverer Redeliverer

	mu    sync.Mutex
	tasks taskHeap
	wake  chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewScheduler(cfg config.RetryConfig, logger *zap.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cfg:    cfg,
		logger: logger,
		wake:   make(chan struct{}, 1),
		ctx:    ctx,
		cancel: cancel,
	}
}

// SetDeliverer wires the delivery engine in after construction; the engine
// needs the scheduler to hand off failures, so the two are bound in two steps.
func (s *Scheduler) SetDeliverer(d Redeliverer) {
	s.deliverer = d
}

// Start launches the timer goroutine.
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.run()
	s.logger.Info("Retry scheduler started",
		zap.Int("max_retries", s.cfg.MaxRetries),
		zap.Duration("base_delay", s.cfg.BaseDelay),
	)
}

// Stop stops the timer loop. Already fired attempts run to completion; tasks
// still pending are dropped with the process state.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	s.logger.Info("Retry scheduler stopped")
}

// Schedule enqueues retry attempt number attempt for the (event, webhook)
// pair, to fire after the exponential backoff delay for that attempt. The
// delivery engine calls this with attempt 1 when a fan-out dispatch fails.
func (s *Scheduler) Schedule(event *models.Event, webhook *models.Webhook, attempt int) {
	if attempt > s.cfg.MaxRetries {
		s.logger.Info("Retry chain exhausted",
			zap.Int64("event_id", event.ID),
			zap.Int64("webhook_id", webhook.ID),
			zap.Int("max_retries", s.cfg.MaxRetries),
		)
		return
	}

	delay := s.backoffDelay(attempt)
	s.push(&task{
		fireAt:       time.Now().Add(delay),
		event:        event,
		webhook:      webhook,
		attempt:      attempt,
		auditAttempt: attempt + 1,
	})

	s.logger.Info("Retry scheduled",
		zap.Int64("event_id", event.ID),
		zap.Int64("webhook_id", webhook.ID),
		zap.Int("attempt", attempt),
		zap.Duration("delay", delay),
	)
}

// ScheduleManual enqueues one immediate redelivery for an operator requeue.
// The attempt fires once, records auditAttempt, and never continues a chain.
func (s *Scheduler) ScheduleManual(event *models.Event, webhook *models.Webhook, auditAttempt int) {
	s.push(&task{
		fireAt:       time.Now(),
		event:        event,
		webhook:      webhook,
		auditAttempt: auditAttempt,
		manual:       true,
	})

	s.logger.Info("Manual redelivery scheduled",
		zap.Int64("event_id", event.ID),
		zap.Int64("webhook_id", webhook.ID),
		zap.Int("attempt_count", auditAttempt),
	)
}

// Depth reports how many tasks are waiting to fire.
func (s *Scheduler) Depth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasks.Len()
}

// backoffDelay returns BaseDelay << (attempt-1): 1s, 2s, 4s, ... with the
// default base.
func (s *Scheduler) backoffDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return s.cfg.BaseDelay << (attempt - 1)
}

func (s *Scheduler) push(t *task) {
	s.mu.Lock()
	heap.Push(&s.tasks, t)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Scheduler) run() {
	defer s.wg.Done()

	for {
		s.mu.Lock()
		wait := time.Hour
		if s.tasks.Len() > 0 {
			wait = time.Until(s.tasks[0].fireAt)
			if wait < 0 {
				wait = 0
			}
		}
		s.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-s.ctx.Done():
			timer.Stop()
			return
		case <-s.wake:
			timer.Stop()
		case <-timer.C:
			s.fireDue()
		}
	}
}

// fireDue pops every task whose fire time has passed and runs each attempt in
// its own goroutine so one slow endpoint never delays another chain.
func (s *Scheduler) fireDue() {
	now := time.Now()

	s.mu.Lock()
	var due []*task
	for s.tasks.Len() > 0 && !s.tasks[0].fireAt.After(now) {
		due = append(due, heap.Pop(&s.tasks).(*task))
	}
	s.mu.Unlock()

	for _, t := range due {
		s.wg.Add(1)
		go func(t *task) {
			defer s.wg.Done()
			s.runTask(t)
		}(t)
	}
}

func (s *Scheduler) runTask(t *task) {
	success := s.deliverer.Redeliver(s.ctx, t.event, t.webhook, t.auditAttempt)

	if success {
		s.logger.Info("Redelivery succeeded",
			zap.Int64("event_id", t.event.ID),
			zap.Int64("webhook_id", t.webhook.ID),
			zap.Int("attempt_count", t.auditAttempt),
		)
		return
	}

	if t.manual {
		s.logger.Warn("Manual redelivery failed",
			zap.Int64("event_id", t.event.ID),
			zap.Int64("webhook_id", t.webhook.ID),
			zap.Int("attempt_count", t.auditAttempt),
		)
		return
	}

	if t.attempt >= s.cfg.MaxRetries {
		s.logger.Warn("Retry chain exhausted",
			zap.Int64("event_id", t.event.ID),
			zap.Int64("webhook_id", t.webhook.ID),
			zap.Int("attempts", t.auditAttempt),
		)
		return
	}

	s.Schedule(t.event, t.webhook, t.attempt+1)
}

// taskHeap is a min-heap ordered by fire time.
type taskHeap []*task

func (h taskHeap) Len() int           { return len(h) }
func (h taskHeap) Less(i, j int) bool { return h[i].fireAt.Before(h[j].fireAt) }
func (h taskHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }

func (h *taskHeap) Push(x interface{}) {
	t := x.(*task)
	t.index = len(*h)
	*h = append(*h, t)
}
func (h *taskHeap) Pop() interface{} {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return t
}
