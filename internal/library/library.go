// Package library synchronises an account's whole library: book metadata
// goes to the database, cover and document bytes go to the blob store, and
// the two are stitched back together on read.
//
// A replace never leaves stored metadata pointing at blobs that were not
// written. New blobs are uploaded first, the metadata swap commits in one
// transaction, and only then are the previous blobs released. Anything a
// failed or interleaved replace leaks is reclaimed by the orphan sweeper.
package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/Duke0404/react-reader-backend/internal/blobstore"
	librarydb "github.com/Duke0404/react-reader-backend/internal/database/library"
	"github.com/Duke0404/react-reader-backend/internal/entities"
	"github.com/Duke0404/react-reader-backend/internal/utils"
)

// maxConcurrentBlobOps bounds the fan-out of a single request.
const maxConcurrentBlobOps = 8

var (
	ErrAccountNotFound = librarydb.ErrAccountNotFound
	ErrInvalidPayload  = errors.New("invalid book payload")
)

// Book is the wire shape: blob ids are replaced by inline payloads.
type Book struct {
	ID           int64                  `json:"id"`
	Title        string                 `json:"title"`
	Author       string                 `json:"author"`
	CurrentPage  int                    `json:"currentPage"`
	TotalPages   int                    `json:"totalPages"`
	Cover        *string                `json:"cover"`
	Data         *string                `json:"data"`
	LastReadPage int                    `json:"lastReadPage"`
	AddTime      int64                  `json:"addTime"`
	LastReadTime int64                  `json:"lastReadTime"`
	Settings     *entities.BookSettings `json:"settings,omitempty"`
}

// Library is the wire shape of a whole library.
type Library struct {
	Books       []Book `json:"books"`
	LastUpdated int64  `json:"lastUpdated"`
}

// Repository is the metadata storage the service needs.
type Repository interface {
	Get(ctx context.Context, accountID uint) (*entities.Library, error)
	Timestamp(ctx context.Context, accountID uint) (int64, error)
	Replace(ctx context.Context, accountID uint, books []entities.Book, lastUpdated int64) ([]entities.Book, error)
}

// Service coordinates the repository and the blob store.
type Service struct {
	repo  Repository
	blobs blobstore.Store
}

func NewService(repo Repository, blobs blobstore.Store) *Service {
	return &Service{repo: repo, blobs: blobs}
}

// CoverFilename and DataFilename name uploaded blobs.
func CoverFilename(bookID int64) string {
	return "cover-" + strconv.FormatInt(bookID, 10) + ".jpg"
}

func DataFilename(title string) string {
	return utils.SanitizeFilename(title) + ".pdf"
}

// Get returns the library with every blob inlined. Blobs are fetched
// concurrently; a reference that no longer resolves renders as null.
func (s *Service) Get(ctx context.Context, accountID uint) (*Library, error) {
	stored, err := s.repo.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}

	books := make([]Book, len(stored.Books))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentBlobOps)

	for i, b := range stored.Books {
		books[i] = toWire(b)
		if b.CoverBlobID != nil {
			g.Go(func() error {
				payload, err := s.fetch(gctx, accountID, *b.CoverBlobID)
				books[i].Cover = payload
				return err
			})
		}
		if b.DataBlobID != nil {
			g.Go(func() error {
				payload, err := s.fetch(gctx, accountID, *b.DataBlobID)
				books[i].Data = payload
				return err
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Library{Books: books, LastUpdated: stored.LastUpdated}, nil
}

func (s *Service) fetch(ctx context.Context, accountID uint, id string) (*string, error) {
	data, err := s.blobs.Get(ctx, id)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			slog.Warn("book references a missing blob", "account_id", accountID, "blob_id", id)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch blob %s: %w", id, err)
	}
	payload := blobstore.EncodePayload(data)
	return &payload, nil
}

// Timestamp returns the lastUpdated stamp alone.
func (s *Service) Timestamp(ctx context.Context, accountID uint) (int64, error) {
	return s.repo.Timestamp(ctx, accountID)
}

type upload struct {
	book     int
	cover    bool
	data     []byte
	filename string
	id       string
}

// Replace swaps the account's library for books. Payloads are decoded
// before anything is written; new blobs are stored before the metadata
// commit and previous blobs are released after it.
func (s *Service) Replace(ctx context.Context, accountID uint, books []Book, lastUpdated int64) error {
	uploads, err := decodeUploads(books)
	if err != nil {
		return err
	}

	if _, err := s.repo.Timestamp(ctx, accountID); err != nil {
		return err
	}

	if err := s.uploadAll(ctx, uploads); err != nil {
		s.release(ctx, accountID, uploadedIDs(uploads))
		return err
	}

	rows := make([]entities.Book, len(books))
	for i, b := range books {
		rows[i] = fromWire(b)
	}
	for _, u := range uploads {
		id := u.id
		if u.cover {
			rows[u.book].CoverBlobID = &id
		} else {
			rows[u.book].DataBlobID = &id
		}
	}

	previous, err := s.repo.Replace(ctx, accountID, rows, lastUpdated)
	if err != nil {
		s.release(ctx, accountID, uploadedIDs(uploads))
		return err
	}

	var stale []string
	for _, b := range previous {
		stale = append(stale, b.BlobIDs()...)
	}
	s.release(ctx, accountID, stale)

	slog.Info("library replaced",
		"account_id", accountID,
		"books", len(books),
		"blobs_written", len(uploads),
		"blobs_released", len(stale),
	)
	return nil
}

func decodeUploads(books []Book) ([]*upload, error) {
	var uploads []*upload
	for i, b := range books {
		if b.Cover != nil && *b.Cover != "" {
			data, err := blobstore.DecodePayload(*b.Cover)
			if err != nil {
				return nil, fmt.Errorf("%w: cover of book %d", ErrInvalidPayload, b.ID)
			}
			uploads = append(uploads, &upload{book: i, cover: true, data: data, filename: CoverFilename(b.ID)})
		}
		if b.Data != nil && *b.Data != "" {
			data, err := blobstore.DecodePayload(*b.Data)
			if err != nil {
				return nil, fmt.Errorf("%w: data of book %d", ErrInvalidPayload, b.ID)
			}
			uploads = append(uploads, &upload{book: i, data: data, filename: DataFilename(b.Title)})
		}
	}
	return uploads, nil
}

func (s *Service) uploadAll(ctx context.Context, uploads []*upload) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentBlobOps)

	for _, u := range uploads {
		g.Go(func() error {
			id, err := s.blobs.Put(gctx, u.data, u.filename)
			if err != nil {
				return fmt.Errorf("failed to store %s: %w", u.filename, err)
			}
			u.id = id
			return nil
		})
	}
	return g.Wait()
}

func uploadedIDs(uploads []*upload) []string {
	var ids []string
	for _, u := range uploads {
		if u.id != "" {
			ids = append(ids, u.id)
		}
	}
	return ids
}

// release deletes blobs best-effort. It outlives a cancelled request so a
// client hanging up cannot strand blobs it already replaced.
func (s *Service) release(ctx context.Context, accountID uint, ids []string) {
	if len(ids) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)

	var g errgroup.Group
	g.SetLimit(maxConcurrentBlobOps)
	for _, id := range ids {
		g.Go(func() error {
			if err := s.blobs.Delete(ctx, id); err != nil {
				slog.Warn("failed to delete blob", "account_id", accountID, "blob_id", id, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()
}

func toWire(b entities.Book) Book {
	return Book{
		ID:           b.BookID,
		Title:        b.Title,
		Author:       b.Author,
		CurrentPage:  b.CurrentPage,
		TotalPages:   b.TotalPages,
		LastReadPage: b.LastReadPage,
		AddTime:      b.AddTime,
		LastReadTime: b.LastReadTime,
		Settings:     b.Settings,
	}
}

func fromWire(b Book) entities.Book {
	return entities.Book{
		BookID:       b.ID,
		Title:        b.Title,
		Author:       b.Author,
		CurrentPage:  b.CurrentPage,
		TotalPages:   b.TotalPages,
		LastReadPage: b.LastReadPage,
		AddTime:      b.AddTime,
		LastReadTime: b.LastReadTime,
		Settings:     b.Settings,
	}
}
