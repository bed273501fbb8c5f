package server

// Config holds configuration for the HTTP query server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// AuditCacheSeconds is how long the audit endpoint reuses loaded indices.
	AuditCacheSeconds int `mapstructure:"audit_cache_seconds" default:"60"`
}

// IsProtected reports whether requests must present the API key.
func (c Config) IsProtected() bool {
	return c.ApiKey != ""
}
