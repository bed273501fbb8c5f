package platform

// Config holds configuration for the remote match platforms.
type Config struct {
	// TimeoutSeconds bounds every platform request, downloads included.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"300"`
	// CacheMinutes is how long the de platform remembers matches it has seen.
	CacheMinutes int `mapstructure:"cache_minutes" default:"1440"`
	// Voobly holds the global Voobly endpoint and credentials.
	Voobly VooblyConfig `mapstructure:"voobly"`
	// VooblyCN holds the Chinese Voobly endpoint. Credentials are shared with Voobly.
	VooblyCN EndpointConfig `mapstructure:"vooblycn"`
	// QQ holds the aocrec endpoint.
	QQ EndpointConfig `mapstructure:"qq"`
	// DE holds the Definitive Edition match endpoint.
	DE EndpointConfig `mapstructure:"de"`
}

// VooblyConfig holds the Voobly endpoint and credentials.
type VooblyConfig struct {
	BaseURL  string `mapstructure:"base_url" default:"https://www.voobly.com"`
	Key      string `mapstructure:"key" default:""`
	Username string `mapstructure:"username" default:""`
	Password string `mapstructure:"password" default:""`
}

// EndpointConfig holds a platform base URL.
type EndpointConfig struct {
	BaseURL string `mapstructure:"base_url" default:""`
}
