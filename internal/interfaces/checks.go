package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/Duke0404/react-reader-backend/internal/auth"
	"github.com/Duke0404/react-reader-backend/internal/blobstore"
	"github.com/Duke0404/react-reader-backend/internal/database"
	"github.com/Duke0404/react-reader-backend/internal/database/accounts"
	librarydb "github.com/Duke0404/react-reader-backend/internal/database/library"
	"github.com/Duke0404/react-reader-backend/internal/http"
	"github.com/Duke0404/react-reader-backend/internal/library"
	"github.com/Duke0404/react-reader-backend/internal/scheduler"
	"github.com/Duke0404/react-reader-backend/internal/speech"
	"github.com/Duke0404/react-reader-backend/internal/translate"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// AccountRepository implementations
var _ auth.AccountRepository = (*accounts.Repository)(nil)

// Library Repository implementations
var _ library.Repository = (*librarydb.Repository)(nil)

// Readiness check
var _ http.Pinger = (*database.Database)(nil)

// =============================================================================
// Blob Storage
// =============================================================================

// Store implementations
var _ blobstore.Store = (*blobstore.GormStore)(nil)
var _ blobstore.Store = (*blobstore.S3Store)(nil)
var _ blobstore.Store = (*blobstore.Handle)(nil)

// Lister implementations
var _ blobstore.Lister = (*blobstore.GormStore)(nil)
var _ blobstore.Lister = (*blobstore.S3Store)(nil)

// =============================================================================
// Orphan Sweep
// =============================================================================

var _ scheduler.BlobSource = (*blobstore.Handle)(nil)
var _ scheduler.ReferenceSource = (*librarydb.Repository)(nil)

// =============================================================================
// External Services
// =============================================================================

var _ http.Synthesizer = (*speech.Client)(nil)
var _ http.Translator = (*translate.Client)(nil)
