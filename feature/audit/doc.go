// Package audit checks that every File row has its blob and every blob has
// its File row.
//
// It plugs a FileAdapter, keyed by content hash, into the reconcile engine.
// A file whose blob is missing can never be served again, so purging
// deletes the row (and its match when it was the last file). An orphan blob
// is simply removed from the store.
//
// # HTTP Endpoints
//
//   - GET /audit : summary of both sources (?details=true lists the inconsistent hashes).
//   - GET /audit/:hash : presence of one content hash.
package audit
