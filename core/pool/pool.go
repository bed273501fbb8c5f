package pool

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrNotStarted is returned when tasks are submitted before Start.
	ErrNotStarted = errors.New("pool not started: call Start first")
	// ErrClosed is returned when tasks are submitted after Close.
	ErrClosed = errors.New("pool closed")
	// ErrCritical wraps a panic recovered inside a task.
	ErrCritical = errors.New("critical worker error")
)

// Worker owns one resource bundle and processes tasks one at a time.
type Worker[T, O any] interface {
	Handle(ctx context.Context, task T) O
	Close() error
}

// Factory builds the worker with the given index. It is called exactly once per worker.
type Factory[T, O any] func(ctx context.Context, id int) (Worker[T, O], error)

// Result is the outcome of one submitted task. Err is set only when the
// task could not produce an Output (panic or cancellation).
type Result[T, O any] struct {
	Task   T
	Output O
	Err    error
}

type state int

const (
	stateIdle state = iota
	stateStarted
	stateClosed
)

// Pool dispatches tasks to isolated workers. In consecutive mode a single
// worker runs each task on the submitting goroutine.
type Pool[T, O any] struct {
	cfg     Config
	factory Factory[T, O]
	log     *zap.Logger

	mu      sync.RWMutex
	state   state
	workers []Worker[T, O]
	tasks   chan T
	results chan Result[T, O]
	wg      sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc

	submitted atomic.Int64
}

// New creates a pool. Nothing is provisioned until Start.
func New[T, O any](cfg Config, factory Factory[T, O], log *zap.Logger) *Pool[T, O] {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pool[T, O]{
		cfg:     cfg,
		factory: factory,
		log:     log,
		results: make(chan Result[T, O], cfg.queueSize()),
	}
}

// Results delivers one Result per submitted task. It is closed by Close.
func (p *Pool[T, O]) Results() <-chan Result[T, O] {
	return p.results
}

// Submitted returns the number of tasks accepted so far.
func (p *Pool[T, O]) Submitted() int64 {
	return p.submitted.Load()
}

// Start provisions every worker bundle. If any bundle fails, the ones
// already built are closed and the error is returned.
func (p *Pool[T, O]) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != stateIdle {
		return fmt.Errorf("pool already started")
	}

	n := p.cfg.WorkerCount()
	workers := make([]Worker[T, O], n)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			w, err := p.factory(gctx, i)
			if err != nil {
				return fmt.Errorf("failed to provision worker %d: %w", i, err)
			}
			workers[i] = w
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		for _, w := range workers {
			if w != nil {
				_ = w.Close()
			}
		}
		return err
	}

	p.workers = workers
	p.ctx, p.cancel = context.WithCancel(ctx)
	p.state = stateStarted

	if p.cfg.Consecutive {
		p.log.Debug("Pool started in consecutive mode")
		return nil
	}

	p.tasks = make(chan T, p.cfg.queueSize())
	for i, w := range workers {
		p.wg.Add(1)
		go p.loop(i, w)
	}
	p.log.Debug("Pool started", zap.Int("workers", n))
	return nil
}

func (p *Pool[T, O]) loop(id int, w Worker[T, O]) {
	defer p.wg.Done()
	for task := range p.tasks {
		if err := p.ctx.Err(); err != nil {
			p.results <- Result[T, O]{Task: task, Err: err}
			continue
		}
		p.results <- p.run(id, w, task)
	}
}

func (p *Pool[T, O]) run(id int, w Worker[T, O], task T) (res Result[T, O]) {
	res.Task = task
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("Worker panicked",
				zap.Int("worker", id),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()))
			res.Err = fmt.Errorf("%w: %v", ErrCritical, r)
		}
	}()
	res.Output = w.Handle(p.ctx, task)
	return res
}

// Submit hands a task to the pool. In pooled mode it blocks only while the
// queue is full; in consecutive mode it runs the task before returning.
func (p *Pool[T, O]) Submit(ctx context.Context, task T) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	switch p.state {
	case stateIdle:
		return ErrNotStarted
	case stateClosed:
		return ErrClosed
	}

	p.submitted.Add(1)

	if p.cfg.Consecutive {
		p.results <- p.run(0, p.workers[0], task)
		return nil
	}

	select {
	case p.tasks <- task:
		return nil
	case <-ctx.Done():
		p.submitted.Add(-1)
		return ctx.Err()
	}
}

// Close refuses new submissions and waits for queued tasks. If ctx is
// cancelled first, running tasks are cancelled, queued tasks are reported
// with the cancellation error, and teardown still happens. Worker bundles
// are always closed; their errors are aggregated.
func (p *Pool[T, O]) Close(ctx context.Context) error {
	p.mu.Lock()
	if p.state != stateStarted {
		s := p.state
		p.mu.Unlock()
		if s == stateIdle {
			return ErrNotStarted
		}
		return nil
	}
	p.state = stateClosed
	if p.tasks != nil {
		close(p.tasks)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	var result *multierror.Error
	select {
	case <-done:
	case <-ctx.Done():
		p.log.Warn("Pool shutdown interrupted, cancelling in-flight tasks")
		p.cancel()
		<-done
		result = multierror.Append(result, ctx.Err())
	}
	p.cancel()
	close(p.results)

	for i, w := range p.workers {
		if err := w.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("failed to close worker %d: %w", i, err))
		}
	}
	return result.ErrorOrNil()
}
