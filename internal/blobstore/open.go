package blobstore

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Duke0404/react-reader-backend/internal/config"
)

// Open builds the configured backend. The gorm backend shares db.
func Open(ctx context.Context, cfg config.BlobStore, db *gorm.DB) (Store, error) {
	switch cfg.Backend {
	case config.BlobBackendGorm, "":
		return NewGormStore(db), nil
	case config.BlobBackendS3:
		return NewS3Store(ctx, cfg)
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownBackend, cfg.Backend)
	}
}

// OpenHandle opens the backend and attaches it to a fresh Handle.
func OpenHandle(ctx context.Context, cfg config.BlobStore, db *gorm.DB) (*Handle, error) {
	store, err := Open(ctx, cfg, db)
	if err != nil {
		return nil, err
	}

	backend := cfg.Backend
	if backend == "" {
		backend = config.BlobBackendGorm
	}

	h := NewHandle()
	if err := h.Init(store, backend); err != nil {
		return nil, err
	}
	return h, nil
}
