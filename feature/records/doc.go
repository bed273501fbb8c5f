// Package records holds the relational model of the replay database and the
// repository operations over it.
//
// # Entities
//
//   - File: one upload, unique by SHA-1 of its bytes.
//   - Match: one logical game, unique by the parser-derived match hash.
//   - Player, Team: keyed by (match, number) and (match, team id).
//   - Series, Tag, Source, Ladder, Platform: grouping and labels.
//
// # Get-or-create
//
// GetOrCreate is the only way rows keyed by a natural key are created. It
// relies on database.Connect translating unique violations into
// gorm.ErrDuplicatedKey, inserts inside a savepoint, and re-queries the
// winning row after a conflict.
//
// # Cascades
//
// Nothing is deleted by foreign key cascades. DeleteFile, DeleteMatch and
// DeleteSeries remove files, tags, players, teams and the match in that order
// inside one transaction, and report the content hashes whose blobs are now
// unreferenced.
package records
