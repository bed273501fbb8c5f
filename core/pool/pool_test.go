package pool_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"mgzdb/core/pool"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoWorker struct {
	id      int
	closed  *atomic.Int32
	closeFn func() error
	block   chan struct{}
}

func (w *echoWorker) Handle(ctx context.Context, task string) string {
	if task == "panic" {
		panic("boom")
	}
	if task == "block" && w.block != nil {
		select {
		case <-w.block:
		case <-ctx.Done():
			return "cancelled"
		}
	}
	return task + "!"
}

func (w *echoWorker) Close() error {
	w.closed.Add(1)
	if w.closeFn != nil {
		return w.closeFn()
	}
	return nil
}

func collect(p *pool.Pool[string, string]) (*[]pool.Result[string, string], *sync.WaitGroup) {
	var out []pool.Result[string, string]
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for r := range p.Results() {
			out = append(out, r)
		}
	}()
	return &out, &wg
}

func newPool(cfg pool.Config, closed *atomic.Int32, block chan struct{}) *pool.Pool[string, string] {
	factory := func(_ context.Context, id int) (pool.Worker[string, string], error) {
		return &echoWorker{id: id, closed: closed, block: block}, nil
	}
	return pool.New(cfg, factory, nil)
}

func TestSubmitBeforeStart(t *testing.T) {
	var closed atomic.Int32
	p := newPool(pool.Config{Workers: 2}, &closed, nil)

	err := p.Submit(context.Background(), "a")
	assert.ErrorIs(t, err, pool.ErrNotStarted)
	assert.ErrorIs(t, p.Close(context.Background()), pool.ErrNotStarted)
}

func TestConsecutiveKeepsSubmissionOrder(t *testing.T) {
	ctx := context.Background()
	var closed atomic.Int32
	p := newPool(pool.Config{Consecutive: true, Workers: 8}, &closed, nil)
	require.NoError(t, p.Start(ctx))
	out, wg := collect(p)

	for _, task := range []string{"a", "b", "c"} {
		require.NoError(t, p.Submit(ctx, task))
	}
	require.NoError(t, p.Close(ctx))
	wg.Wait()

	require.Len(t, *out, 3)
	assert.Equal(t, "a!", (*out)[0].Output)
	assert.Equal(t, "b!", (*out)[1].Output)
	assert.Equal(t, "c!", (*out)[2].Output)
	assert.Equal(t, int32(1), closed.Load())
	assert.EqualValues(t, 3, p.Submitted())
}

func TestPooledDeliversEveryResult(t *testing.T) {
	ctx := context.Background()
	var closed atomic.Int32
	p := newPool(pool.Config{Workers: 4}, &closed, nil)
	require.NoError(t, p.Start(ctx))
	out, wg := collect(p)

	for i := 0; i < 50; i++ {
		require.NoError(t, p.Submit(ctx, "t"))
	}
	require.NoError(t, p.Close(ctx))
	wg.Wait()

	assert.Len(t, *out, 50)
	assert.Equal(t, int32(4), closed.Load())

	assert.ErrorIs(t, p.Submit(ctx, "late"), pool.ErrClosed)
}

func TestPanicIsIsolated(t *testing.T) {
	ctx := context.Background()
	var closed atomic.Int32
	p := newPool(pool.Config{Workers: 1}, &closed, nil)
	require.NoError(t, p.Start(ctx))
	out, wg := collect(p)

	require.NoError(t, p.Submit(ctx, "panic"))
	require.NoError(t, p.Submit(ctx, "after"))
	require.NoError(t, p.Close(ctx))
	wg.Wait()

	require.Len(t, *out, 2)
	var critical, ok int
	for _, r := range *out {
		if errors.Is(r.Err, pool.ErrCritical) {
			critical++
		} else if r.Output == "after!" {
			ok++
		}
	}
	assert.Equal(t, 1, critical)
	assert.Equal(t, 1, ok)
}

func TestProvisioningFailureClosesBuiltWorkers(t *testing.T) {
	var closed atomic.Int32
	factory := func(_ context.Context, id int) (pool.Worker[string, string], error) {
		if id == 2 {
			return nil, errors.New("no database")
		}
		return &echoWorker{id: id, closed: &closed}, nil
	}
	p := pool.New(pool.Config{Workers: 3}, factory, nil)

	err := p.Start(context.Background())
	assert.ErrorContains(t, err, "no database")
	assert.Equal(t, int32(2), closed.Load())
}

func TestCloseAggregatesTeardownErrors(t *testing.T) {
	ctx := context.Background()
	var closed atomic.Int32
	factory := func(_ context.Context, id int) (pool.Worker[string, string], error) {
		return &echoWorker{id: id, closed: &closed, closeFn: func() error { return errors.New("close failed") }}, nil
	}
	p := pool.New(pool.Config{Workers: 2}, factory, nil)
	require.NoError(t, p.Start(ctx))
	_, wg := collect(p)

	err := p.Close(ctx)
	wg.Wait()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to close worker 0")
	assert.Contains(t, err.Error(), "failed to close worker 1")
}

func TestCloseCancelledStillTearsDown(t *testing.T) {
	var closed atomic.Int32
	block := make(chan struct{})
	p := newPool(pool.Config{Workers: 1}, &closed, block)
	require.NoError(t, p.Start(context.Background()))
	out, wg := collect(p)

	require.NoError(t, p.Submit(context.Background(), "block"))
	require.NoError(t, p.Submit(context.Background(), "queued"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := p.Close(ctx)
	wg.Wait()

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, int32(1), closed.Load())
	require.Len(t, *out, 2)
	assert.Equal(t, "cancelled", (*out)[0].Output)
	assert.ErrorIs(t, (*out)[1].Err, context.Canceled)
}

func TestWorkerCount(t *testing.T) {
	assert.Equal(t, 1, pool.Config{Consecutive: true, Workers: 5}.WorkerCount())
	assert.Equal(t, 5, pool.Config{Workers: 5}.WorkerCount())
	assert.Greater(t, pool.Config{}.WorkerCount(), 0)
}
