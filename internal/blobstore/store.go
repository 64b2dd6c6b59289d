// Package blobstore keeps binary payloads (cover images, documents) outside
// the book records. Blobs are addressed by an opaque generated id and have
// no metadata beyond an optional filename.
//
// Two backends exist: GormStore keeps blobs in the primary database and
// S3Store writes them to an S3-compatible bucket. Callers depend on the
// process-wide Handle, which fails fast with ErrNotInitialized until a
// backend is attached.
package blobstore

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Duke0404/react-reader-backend/internal/metrics"
)

var (
	ErrNotFound           = errors.New("blob not found")
	ErrNotInitialized     = errors.New("blob store not initialized")
	ErrAlreadyInitialized = errors.New("blob store already initialized")
	ErrListNotSupported   = errors.New("blob store cannot list blobs")
)

// Store is the minimal contract every backend implements.
type Store interface {
	// Put stores data and returns a fresh unique id.
	Put(ctx context.Context, data []byte, filename string) (string, error)
	// Get returns the stored bytes or ErrNotFound.
	Get(ctx context.Context, id string) ([]byte, error)
	// Delete removes the blob; an absent blob is not an error.
	Delete(ctx context.Context, id string) error
}

// Lister is implemented by backends that can enumerate their blobs.
type Lister interface {
	ListIDs(ctx context.Context, olderThan time.Time) ([]string, error)
}

// Handle is the shared reference handed to every component at startup.
// It is attached to a backend once the database is open.
type Handle struct {
	mu      sync.RWMutex
	store   Store
	backend string
}

func NewHandle() *Handle {
	return &Handle{}
}

// Init attaches the backend. It may only be called once.
func (h *Handle) Init(store Store, backend string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.store != nil {
		return ErrAlreadyInitialized
	}
	h.store = store
	h.backend = backend
	return nil
}

// Ready reports whether a backend is attached.
func (h *Handle) Ready() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.store != nil
}

func (h *Handle) current() (Store, string, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.store == nil {
		return nil, "", ErrNotInitialized
	}
	return h.store, h.backend, nil
}

func (h *Handle) Put(ctx context.Context, data []byte, filename string) (string, error) {
	store, backend, err := h.current()
	if err != nil {
		return "", err
	}

	id, err := store.Put(ctx, data, filename)
	metrics.BlobOperationsTotal.WithLabelValues(backend, "put", metrics.Result(err)).Inc()
	return id, err
}

// Get returns ErrNotFound for an empty id without touching the backend.
func (h *Handle) Get(ctx context.Context, id string) ([]byte, error) {
	store, backend, err := h.current()
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, ErrNotFound
	}

	data, err := store.Get(ctx, id)
	result := metrics.Result(err)
	if errors.Is(err, ErrNotFound) {
		result = "not_found"
	}
	metrics.BlobOperationsTotal.WithLabelValues(backend, "get", result).Inc()
	return data, err
}

// Delete is a no-op for an empty id.
func (h *Handle) Delete(ctx context.Context, id string) error {
	store, backend, err := h.current()
	if err != nil {
		return err
	}
	if id == "" {
		return nil
	}

	err = store.Delete(ctx, id)
	metrics.BlobOperationsTotal.WithLabelValues(backend, "delete", metrics.Result(err)).Inc()
	return err
}

// ListIDs enumerates blobs created before olderThan, if the backend can.
func (h *Handle) ListIDs(ctx context.Context, olderThan time.Time) ([]string, error) {
	store, _, err := h.current()
	if err != nil {
		return nil, err
	}

	lister, ok := store.(Lister)
	if !ok {
		return nil, ErrListNotSupported
	}
	return lister.ListIDs(ctx, olderThan)
}

var (
	_ Store  = (*Handle)(nil)
	_ Lister = (*Handle)(nil)
)
