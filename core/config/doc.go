// Package config provides configuration management for mgzdb.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file. Defaults are declared on the partial config
// structs through `default` struct tags and registered by reflection.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Database: relational store driver and connection details
//   - Storage: S3/MinIO credentials, bucket and blob root
//   - Codec: blob compression level
//   - Pipeline: worker pool size and mode
//   - Platform: remote match platform endpoints
//   - Parser: external replay parser command
//   - Server: HTTP query server settings
//   - Log: Logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Database.Driver)
package config
