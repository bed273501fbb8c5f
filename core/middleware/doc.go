// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation. Requests must carry the key in the
//     X-API-Key header when one is configured.
//   - rayid: assigns every request a ray id, stores it in the "ray_id"
//     local and echoes it in the X-Ray-ID response header.
//
// rayid is registered first so that every log line, including auth
// failures, carries the id.
package middleware
