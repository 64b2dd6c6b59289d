// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - auth.AccountRepository: credential storage (internal/auth/service.go)
//   - library.Repository: book metadata and lastUpdated (internal/library/library.go)
//   - http.Pinger: database readiness (internal/http/config.go)
//
// ## Blob Storage Interfaces
//
//   - blobstore.Store: put/get/delete of opaque payloads (internal/blobstore/store.go)
//   - blobstore.Lister: enumeration for the orphan sweep (internal/blobstore/store.go)
//
// Request handlers only ever see the shared *blobstore.Handle, which
// returns blobstore.ErrNotInitialized until a backend is attached.
//
// ## External Service Interfaces
//
//   - http.Synthesizer: text-to-speech (internal/speech/client.go)
//   - http.Translator: translation and language listing (internal/translate/client.go)
//
// # Adding a New Blob Backend
//
//  1. Implement blobstore.Store, and blobstore.Lister if the backend can
//     enumerate objects with their creation time.
//  2. Add a backend constant in internal/config/constants.go and accept it
//     in Config.Validate.
//  3. Construct it in blobstore.Open.
//  4. Add compile-time checks to checks.go.
//
// Compile-time checks in checks.go keep the implementations in sync with
// these interfaces.
package interfaces
