package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Duke0404/react-reader-backend/internal/blobstore"
	"github.com/Duke0404/react-reader-backend/internal/config"
	"github.com/Duke0404/react-reader-backend/internal/database"
	librarydb "github.com/Duke0404/react-reader-backend/internal/database/library"
	"github.com/Duke0404/react-reader-backend/internal/scheduler"
)

// SweepBlobsCommand deletes blobs no book references, once.
type SweepBlobsCommand struct {
	DryRun bool
	Grace  time.Duration

	out io.Writer
}

// NewSweepBlobsCommand creates a new SweepBlobsCommand
func NewSweepBlobsCommand() *SweepBlobsCommand {
	return &SweepBlobsCommand{out: os.Stdout}
}

// ParseFlags parses command line flags. The grace default comes from
// BLOB_SWEEP_GRACE.
func (cmd *SweepBlobsCommand) ParseFlags(args []string, defaultGrace time.Duration) error {
	fs := flag.NewFlagSet("sweep-blobs", flag.ContinueOnError)

	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Only report orphaned blobs, do not delete them")
	fs.DurationVar(&cmd.Grace, "grace", defaultGrace, "Skip blobs younger than this")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s sweep-blobs [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Delete stored blobs that no book references.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s sweep-blobs -dry-run\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s sweep-blobs -grace 24h\n", os.Args[0])
	}

	return fs.Parse(args)
}

// Run opens the configured database and blob store and sweeps once.
func (cmd *SweepBlobsCommand) Run(ctx context.Context, cfg *config.Config) error {
	db, err := database.NewDatabase(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	blobs, err := blobstore.OpenHandle(ctx, cfg.BlobStore, db.DB)
	if err != nil {
		return fmt.Errorf("failed to open blob store: %w", err)
	}

	return cmd.sweep(ctx, blobs, librarydb.NewRepository(db.DB))
}

func (cmd *SweepBlobsCommand) sweep(ctx context.Context, blobs scheduler.BlobSource, refs scheduler.ReferenceSource) error {
	result, err := scheduler.NewSweeper(blobs, refs, cmd.Grace).Sweep(ctx, cmd.DryRun)
	if err != nil {
		return err
	}

	if cmd.DryRun {
		fmt.Fprintf(cmd.out, "Scanned %d blobs, %d orphaned (dry run, nothing deleted)\n", result.Scanned, result.Orphaned)
		return nil
	}
	fmt.Fprintf(cmd.out, "Scanned %d blobs, %d orphaned, %d deleted, %d failed in %v\n",
		result.Scanned, result.Orphaned, result.Deleted, result.Failed, result.Duration.Round(time.Millisecond))
	if result.Failed > 0 {
		return fmt.Errorf("%d blobs could not be deleted", result.Failed)
	}
	return nil
}
