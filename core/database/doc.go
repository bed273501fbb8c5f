// Package database handles database connections and schema management.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to configure
// MySQL, PostgreSQL or SQLite connections based on the application's configuration.
//
// # Connect
//
// Connect establishes a connection handle. Handles are configured with
// TranslateError so that unique-constraint violations surface as
// gorm.ErrDuplicatedKey regardless of the driver; the ingestion pipeline
// relies on this to recover from concurrent match creation. SQLite files are
// opened with a busy timeout and immediate transactions.
//
// # Schema
//
// Migrate and Reset wrap GORM's migrator. The inspector (GetTableColumns,
// VerifySchema) checks a migrated schema during bootstrap.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	problems, err := database.VerifySchema(db, map[string][]string{"files": {"hash"}})
package database
