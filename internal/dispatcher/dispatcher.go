// Package dispatcher decouples event intake from delivery: intake enqueues
// the event onto a bounded channel and returns, and a fixed pool of workers
// owns the fan-out and retry lifecycle independently of the HTTP request that
// triggered it.
package dispatcher

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/marminbh/webhook-relay/internal/config"
	"github.com/marminbh/webhook-relay/internal/models"
)

// Sink consumes dispatched events; the delivery engine implements it.
type Sink interface {
	DeliverEvent(ctx context.Context, event *models.Event) (delivered, failed int)
}

type Dispatcher struct {
	cfg    config.DispatcherConfig
	sink   Sink
	logger *zap.Logger

	queue   chan *models.Event
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

func NewDispatcher(cfg config.DispatcherConfig, sink Sink, logger *zap.Logger) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		cfg:    cfg,
		sink:   sink,
		logger: logger,
		queue:  make(chan *models.Event, cfg.QueueSize),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start launches the worker pool.
func (d *Dispatcher) Start() error {
	if d.cfg.Workers <= 0 {
		return fmt.Errorf("dispatcher requires at least one worker")
	}

	for i := 0; i < d.cfg.Workers; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}
	d.started = true

	d.logger.Info("Dispatcher started",
		zap.Int("workers", d.cfg.Workers),
		zap.Int("queue_size", d.cfg.QueueSize),
	)
	return nil
}

// Stop stops the workers. Deliveries already in flight run to completion;
// events still queued are dropped with the process state.
func (d *Dispatcher) Stop() error {
	if !d.started {
		return nil
	}
	d.cancel()
	d.wg.Wait()
	d.started = false
	d.logger.Info("Dispatcher stopped")
	return nil
}

// Enqueue hands an event to the worker pool. A full queue applies
// backpressure to intake; a stopped dispatcher returns an error.
func (d *Dispatcher) Enqueue(event *models.Event) error {
	select {
	case <-d.ctx.Done():
		return fmt.Errorf("dispatcher is stopped")
	case d.queue <- event:
		return nil
	}
}

// Depth reports how many events are waiting for a worker.
func (d *Dispatcher) Depth() int {
	return len(d.queue)
}

func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()

	for {
		select {
		case <-d.ctx.Done():
			return
		case event := <-d.queue:
			d.logger.Debug("Worker picked up event",
				zap.Int("worker", id),
				zap.Int64("event_id", event.ID),
				zap.String("event_type", event.Type),
			)
			// Deliveries run under a background context: stopping the
			// dispatcher never cancels an in-flight attempt.
			d.sink.DeliverEvent(context.Background(), event)
		}
	}
}
