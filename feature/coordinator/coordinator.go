package coordinator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"mgzdb/core/codec"
	"mgzdb/core/platform"
	"mgzdb/core/pool"
	"mgzdb/core/storage"
	"mgzdb/feature/ingest"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps are the resources the coordinator uses on the caller's goroutine.
// Workers never see them: each worker gets its own bundle from Provision.
type Deps struct {
	DB        *gorm.DB
	Store     *storage.BlobStore
	Codec     *codec.Codec
	Platforms *platform.Registry
	// Provision builds the resource bundle of worker id.
	Provision func(ctx context.Context, id int) (*ingest.Resources, error)
}

// Options tune the coordinator.
type Options struct {
	Pool       pool.Config
	RetryDelay time.Duration
	Logger     *zap.Logger
}

// Stats counts task outcomes as they are drained from the pool. Cancelled
// counts tasks dropped by shutdown before they ran.
type Stats struct {
	Submitted  int64 `json:"submitted"`
	Committed  int   `json:"committed"`
	Duplicates int   `json:"duplicates"`
	Invalid    int   `json:"invalid"`
	Flagged    int   `json:"flagged"`
	Failed     int   `json:"failed"`
	Critical   int   `json:"critical"`
	Cancelled  int   `json:"cancelled"`
}

// Coordinator is the entry point for every ingestion and maintenance
// operation. Ingestion requires Start; maintenance and queries do not.
type Coordinator struct {
	deps Deps
	opts Options
	log  *zap.Logger
	pool *pool.Pool[ingest.Task, ingest.Outcome]

	mu      sync.Mutex
	tempDir string
	stats   Stats
	drained chan struct{}
}

// New creates a coordinator. Nothing is provisioned until Start.
func New(deps Deps, opts Options) (*Coordinator, error) {
	if deps.DB == nil {
		return nil, errors.New("coordinator requires a database")
	}
	if deps.Store == nil {
		return nil, errors.New("coordinator requires a blob store")
	}
	if deps.Provision == nil {
		return nil, errors.New("coordinator requires a worker provisioner")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	c := &Coordinator{deps: deps, opts: opts, log: log}
	c.pool = pool.New(opts.Pool, c.newWorker, log)
	return c, nil
}

func (c *Coordinator) newWorker(ctx context.Context, id int) (pool.Worker[ingest.Task, ingest.Outcome], error) {
	res, err := c.deps.Provision(ctx, id)
	if err != nil {
		return nil, err
	}
	ingestOpts := ingest.Options{Retries: c.opts.Pool.Retries, RetryDelay: c.opts.RetryDelay}
	return ingest.NewIngester(res, ingestOpts, c.log.With(zap.Int("worker", id))), nil
}

// Start creates the scoped temporary directory and provisions the workers.
func (c *Coordinator) Start(ctx context.Context) error {
	dir, err := os.MkdirTemp(c.opts.Pool.TempDir, "mgzdb-")
	if err != nil {
		return fmt.Errorf("failed to create temporary directory: %w", err)
	}
	if err := c.pool.Start(ctx); err != nil {
		os.RemoveAll(dir)
		return err
	}

	c.mu.Lock()
	c.tempDir = dir
	c.drained = make(chan struct{})
	c.mu.Unlock()

	go c.drain(c.pool.Results(), c.drained)
	c.log.Info("Coordinator started",
		zap.Int("workers", c.opts.Pool.WorkerCount()),
		zap.Bool("consecutive", c.opts.Pool.Consecutive))
	return nil
}

// Finished waits for every submitted task, tears the workers down and
// removes the temporary directory. If ctx ends first, in-flight tasks are
// cancelled; cleanup happens either way.
func (c *Coordinator) Finished(ctx context.Context) error {
	err := c.pool.Close(ctx)
	if errors.Is(err, pool.ErrNotStarted) {
		return err
	}

	c.mu.Lock()
	drained, dir := c.drained, c.tempDir
	c.tempDir = ""
	c.mu.Unlock()

	<-drained
	if rmErr := os.RemoveAll(dir); rmErr != nil {
		c.log.Warn("Failed to remove temporary directory", zap.String("dir", dir), zap.Error(rmErr))
	}

	stats := c.Stats()
	c.log.Info("Ingestion finished",
		zap.Int64("submitted", stats.Submitted),
		zap.Int("committed", stats.Committed),
		zap.Int("duplicates", stats.Duplicates),
		zap.Int("invalid", stats.Invalid),
		zap.Int("flagged", stats.Flagged),
		zap.Int("failed", stats.Failed),
		zap.Int("critical", stats.Critical),
		zap.Int("cancelled", stats.Cancelled))
	return err
}

// Stats returns the outcome counts so far.
func (c *Coordinator) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Submitted = c.pool.Submitted()
	return s
}

// AddFile submits one file. It returns pool.ErrNotStarted before Start.
func (c *Coordinator) AddFile(ctx context.Context, task ingest.Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	return c.pool.Submit(ctx, task)
}

func (c *Coordinator) drain(results <-chan pool.Result[ingest.Task, ingest.Outcome], done chan<- struct{}) {
	defer close(done)
	for r := range results {
		c.record(r)
	}
}

func (c *Coordinator) record(r pool.Result[ingest.Task, ingest.Outcome]) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if errors.Is(r.Err, context.Canceled) || errors.Is(r.Err, context.DeadlineExceeded) {
		c.stats.Cancelled++
		c.log.Warn("Task cancelled",
			zap.String("task_id", r.Task.ID),
			zap.String("path", r.Task.Path))
		return
	}
	if r.Err != nil {
		c.stats.Critical++
		c.log.Error("Task did not complete",
			zap.String("task_id", r.Task.ID),
			zap.String("path", r.Task.Path),
			zap.Error(r.Err))
		return
	}

	switch r.Output.Reason {
	case ingest.ReasonCommitted:
		c.stats.Committed++
	case ingest.ReasonDuplicate:
		c.stats.Duplicates++
	case ingest.ReasonInvalid:
		c.stats.Invalid++
	case ingest.ReasonFlagged:
		c.stats.Flagged++
	default:
		c.stats.Failed++
	}
}

// scratch creates a fresh directory inside the scoped temporary directory.
func (c *Coordinator) scratch(prefix string) (string, error) {
	c.mu.Lock()
	base := c.tempDir
	c.mu.Unlock()
	if base == "" {
		return "", pool.ErrNotStarted
	}
	dir, err := os.MkdirTemp(base, prefix)
	if err != nil {
		return "", fmt.Errorf("failed to create scratch directory: %w", err)
	}
	return dir, nil
}
