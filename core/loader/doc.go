// Package loader registers HTTP features and mounts their routes.
//
// Each feature implements the Feature interface:
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// The Manager keeps features in registration order and LoadAll mounts the
// enabled ones. The serve command registers the query and peer features
// through it.
package loader
