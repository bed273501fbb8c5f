// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments (development vs production)
// and two scoping helpers: WithRayID for HTTP requests served by the query API, and
// WithTask for ingestion tasks running inside the worker pool.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Encoding: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Pipeline started")
//
//	l := logger.WithTask(log, task.ID, task.Path)
//	l.Warn("Flagged match skipped", zap.String("match_hash", hash))
package logger
