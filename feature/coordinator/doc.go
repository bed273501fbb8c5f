// Package coordinator is the front door of mgzdb.
//
// A Coordinator owns the worker pool and a scoped temporary directory.
// Every ingestion entry point (a single file, a platform match or ladder,
// a series zip, another instance, an on-disk archive) reduces to tasks
// submitted through AddFile. Submission is asynchronous: outcomes are
// drained from the pool in the background and counted in Stats, and
// Finished waits for all of them before releasing the workers and the
// temporary directory.
//
// Maintenance operations (Remove, Tag, Get, Reset, Bootstrap, Query) run
// on the caller's goroutine against the coordinator's own database handle
// and blob store and do not need Start.
package coordinator
