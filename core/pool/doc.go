// Package pool runs tasks on a fixed set of isolated workers.
//
// Each worker is built once by a Factory and owns its resources (database
// handle, store client, platform clients) for its whole lifetime; nothing is
// shared between workers. Outcomes are delivered on a typed Results channel
// instead of callbacks, one Result per submitted task, in completion order.
//
// # Modes
//
//   - Pooled: Submit enqueues, workers pull from the queue concurrently.
//   - Consecutive: a single worker runs each task inside Submit, which makes
//     execution order equal to submission order.
//
// # Lifecycle
//
//	p := pool.New(cfg, factory, log)
//	err := p.Start(ctx)
//	go drain(p.Results())
//	err = p.Submit(ctx, task)
//	err = p.Close(ctx)
//
// A panic inside a task is recovered and reported as ErrCritical; it never
// stops the worker or its siblings.
package pool
