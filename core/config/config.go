package config

import (
	"reflect"
	"strings"

	"mgzdb/core/codec"
	"mgzdb/core/database"
	"mgzdb/core/logger"
	"mgzdb/core/parser"
	"mgzdb/core/platform"
	"mgzdb/core/pool"
	"mgzdb/core/server"
	"mgzdb/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP query server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the blob store (e.g., S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Codec holds configuration for blob compression.
	Codec codec.Config `mapstructure:"codec"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the database connection.
	Database database.Config `mapstructure:"database"`
	// Pipeline holds configuration for the ingestion worker pool.
	Pipeline pool.Config `mapstructure:"pipeline"`
	// Platform holds configuration for the remote match platforms.
	Platform platform.Config `mapstructure:"platform"`
	// Parser holds configuration for the external replay parser.
	Parser parser.Config `mapstructure:"parser"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. DATABASE_DRIVER -> database.driver)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
