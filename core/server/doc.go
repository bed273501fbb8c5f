// Package server holds the HTTP server configuration.
//
// The serve command exposes the query API and the peer replication endpoints.
// This package defines the listening port and the optional API key that
// protects every route.
package server
