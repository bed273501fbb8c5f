// Package peer replicates files between mgzdb instances.
//
// A Peer lists its matches with the metadata needed to re-ingest them
// (series, platform, ladder, played time and the owner of each file) and
// serves the raw bytes of each file. Local reads straight from a database
// and blob store. Client talks to a remote instance running the serve
// command, which mounts Handler under /peer:
//
//   - GET /peer/matches : every match with its files.
//   - GET /peer/files/:id : the raw replay bytes as an attachment.
package peer
