// Package query serves read-only reports over the records.
//
// # HTTP Endpoints
//
//   - GET /matches/:id : match with series, ladder, teams, players, files and tags.
//   - GET /files/:id : file with its match hash, source and owner.
//   - GET /series/:id : series with its matches.
//   - GET /summary : entity counts and matches per platform.
package query
