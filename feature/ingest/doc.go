// Package ingest implements the per-file ingestion procedure.
//
// AddFile walks a file through
//
//	received -> hashed -> parsed -> reconciled -> stored -> committed
//
// and stops early, without error, when the content hash is already known
// (duplicate), the parser rejects the bytes (invalid) or a new match is
// incomplete or restored and the task is not forced (flagged).
//
// The first committed upload of a match hash creates the Match, its Teams,
// Players and tags. Later uploads only add a File and fill in player
// identity and rating fields from the task's UserData.
//
// Reconciliation relies on unique keys, not locks. When two workers race
// to create the same rows the loser sees gorm.ErrDuplicatedKey, and the
// whole reconcile/store/commit step is retried with retry-go until it
// observes the winner's rows. The blob is uploaded before the File row is
// created, so a failed upload never leaves a File behind.
//
// An Ingester owns one Resources bundle and implements pool.Worker.
package ingest
