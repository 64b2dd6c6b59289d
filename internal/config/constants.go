package config

// Default locations and identifiers
const (
	// DefaultDatabasePath is the default SQLite database file
	DefaultDatabasePath = "./reader-sync.db"

	// DefaultEnvFile is loaded before the environment is read, if present
	DefaultEnvFile = ".env"

	// ServiceName tags logs and metrics
	ServiceName = "reader-sync"
)

// Supported database drivers
const (
	DatabaseDriverSQLite   = "sqlite"
	DatabaseDriverPostgres = "postgres"
)

// Supported blob store backends
const (
	BlobBackendGorm = "gorm"
	BlobBackendS3   = "s3"
)
