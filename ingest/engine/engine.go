package engine

import (
	"context"
	"errors"
	"sync"

	"github.com/Azure/logfill/metrics"
	"golang.org/x/sync/errgroup"
)

var (
	ErrEngineNotOpen = errors.New("engine is not open")
	ErrEngineClosed  = errors.New("engine is closed")
)

const DefaultWorkers = 4

// Order is one unit of work executed by an engine worker.
type Order func(ctx context.Context)

// Submitter accepts units of work.  Submit is safe to call concurrently with running orders.
type Submitter interface {
	Submit(ctx context.Context, order Order) error
}

type Config struct {
	// Workers is the number of goroutines executing orders.  Defaults to DefaultWorkers.
	Workers int
	// QueueSize is the number of orders that may wait for a worker before Submit blocks.
	// Defaults to twice the number of workers.
	QueueSize int
}

type state int

const (
	stateNew state = iota
	stateOpen
	stateClosed
)

// Engine is a fixed pool of workers executing submitted orders in any order.
type Engine struct {
	workers int
	queue   chan Order

	mu     sync.RWMutex
	state  state
	group  *errgroup.Group
	cancel context.CancelFunc

	pendingMu sync.Mutex
	idle      *sync.Cond
	pending   int
}

func New(cfg Config) *Engine {
	workers := cfg.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 2 * workers
	}

	e := &Engine{
		workers: workers,
		queue:   make(chan Order, queueSize),
	}
	e.idle = sync.NewCond(&e.pendingMu)
	return e
}

// Open starts the workers.  Orders run with a context derived from ctx.
func (e *Engine) Open(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case stateOpen:
		return nil
	case stateClosed:
		return ErrEngineClosed
	}

	ctx, e.cancel = context.WithCancel(ctx)
	e.group = &errgroup.Group{}
	for i := 0; i < e.workers; i++ {
		e.group.Go(func() error {
			e.work(ctx)
			return nil
		})
	}
	e.state = stateOpen
	return nil
}

// Submit queues order and returns without waiting for it to run.  It blocks only while the queue is
// full, until ctx is done.
func (e *Engine) Submit(ctx context.Context, order Order) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	switch e.state {
	case stateNew:
		return ErrEngineNotOpen
	case stateClosed:
		return ErrEngineClosed
	}

	e.add(1)
	metrics.EngineQueueDepth.Inc()
	select {
	case e.queue <- order:
		return nil
	case <-ctx.Done():
		metrics.EngineQueueDepth.Dec()
		e.add(-1)
		return ctx.Err()
	}
}

// Wait blocks until every order submitted so far has finished running.
func (e *Engine) Wait() {
	e.pendingMu.Lock()
	for e.pending > 0 {
		e.idle.Wait()
	}
	e.pendingMu.Unlock()
}

// Close stops accepting orders, runs the ones already queued and waits for the workers to exit.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.state != stateOpen {
		e.state = stateClosed
		e.mu.Unlock()
		return nil
	}
	e.state = stateClosed
	close(e.queue)
	e.mu.Unlock()

	err := e.group.Wait()
	e.cancel()
	return err
}

func (e *Engine) work(ctx context.Context) {
	for order := range e.queue {
		metrics.EngineQueueDepth.Dec()
		order(ctx)
		e.add(-1)
	}
}

func (e *Engine) add(n int) {
	e.pendingMu.Lock()
	e.pending += n
	if e.pending == 0 {
		e.idle.Broadcast()
	}
	e.pendingMu.Unlock()
}
