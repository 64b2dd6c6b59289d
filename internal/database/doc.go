// Package database provides the data access layer for the application.
//
// # Architecture
//
//	database/
//	├── database.go      # Connection setup (sqlite or postgres) and migrations
//	├── accounts/        # Credential store persistence
//	└── library/         # Per-account book list and lastUpdated stamp
//
// Blob rows are owned by the blobstore package; they share the same
// connection but are never touched from here.
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase(cfg.Database)
//
//	accountRepo := accounts.NewRepository(db.DB)
//	libraryRepo := library.NewRepository(db.DB)
//
//	id, err := accountRepo.Create(ctx, "alice", hash)
//	lib, err := libraryRepo.Get(ctx, id)
package database
