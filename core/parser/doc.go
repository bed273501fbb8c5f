// Package parser defines what the ingestion pipeline needs from a replay
// parser and ships one implementation that shells out to an external
// summary tool.
//
// The tool receives the raw replay on stdin and prints a JSON Summary on
// stdout. Any failure to produce a valid summary is reported as
// ErrInvalidFormat, which the pipeline treats as terminal for that file.
//
// ParseFilename recovers the played timestamp from the default recording
// names used by the different game editions, for replays that do not carry
// one themselves.
package parser
