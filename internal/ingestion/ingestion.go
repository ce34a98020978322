// Package ingestion bulk-loads offer exports (semicolon separated CSV files)
// into the offers table.
package ingestion

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/spesasmart/pricing/internal/domain/models"
	"github.com/spesasmart/pricing/internal/logger"
	"github.com/spesasmart/pricing/internal/storage"
)

const (
	fileSuffix       = ".csv"
	defaultBatchSize = 5000
	maxParallelFiles = 8
)

// Repository is the part of storage.OfferRepository used by ingestion.
type Repository interface {
	ListChains(ctx context.Context) ([]models.Chain, error)
	InsertOffersBatch(ctx context.Context, offers []models.Offer) error
	HasIngestionForFile(ctx context.Context, sourceFile string) (bool, error)
	UpsertIngestionLog(ctx context.Context, sourceFile string, rowCount int) error
	DeleteOffersBySource(ctx context.Context, sourceFile string) error
}

// Invalidator drops derived prices of a product, typically the Redis cache.
type Invalidator interface {
	InvalidateProduct(ctx context.Context, productID uuid.UUID) error
}

// Options tunes a directory run.
type Options struct {
	Parallel int         // <= 0 uses min(8, NumCPU)
	Force    bool        // reload files already recorded in ingestion_log
	Cache    Invalidator // optional
}

// repoCtor is an indirection for creating the repository; tests can override this.
var repoCtor = func(db *sql.DB) Repository {
	return storage.NewOfferRepository(db)
}

// listFiles returns the offer files of dir sorted by name.
func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), fileSuffix) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// ProcessDirectory loads every *.csv offer file under dir.
//
// Parameters:
//   - dir: directory containing the exports.
//   - db:  open *sql.DB (PostgreSQL).
//   - opts: parallelism, force reload and optional cache invalidation.
//
// Behavior:
//   - Chains are loaded once and rows resolve chain_slug against them.
//   - Files are processed concurrently, bounded by opts.Parallel (clamp 1..8).
//   - A file already present in ingestion_log is skipped unless opts.Force,
//     in which case its previous offers are deleted and it is reloaded.
//   - A file that fails midway has its partial rows removed.
//   - After a file is loaded, cached prices of every touched product are dropped.
//   - If any file returns error, cancels the rest and returns that error.
//
// Returns:
//   - error: first error encountered (if any).
func ProcessDirectory(ctx context.Context, dir string, db *sql.DB, opts Options) error {
	// use indirection to allow tests to swap repository constructor
	repo := repoCtor(db)
	log := logger.Component("ingestion")

	files, err := listFiles(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no offer files (*%s) found in %s", fileSuffix, dir)
	}

	chainList, err := repo.ListChains(ctx)
	if err != nil {
		return fmt.Errorf("load chains: %w", err)
	}
	chains := make(map[string]models.Chain, len(chainList))
	for _, c := range chainList {
		chains[strings.ToLower(c.Slug)] = c
	}

	log.Info().Int("files", len(files)).Int("chains", len(chains)).Str("dir", dir).Msg("ingestion start")

	// Concurrency: default to min(8, NumCPU), or use provided clamp(1..8)
	maxParallel := maxParallelFiles
	if opts.Parallel > 0 {
		if opts.Parallel < maxParallel {
			maxParallel = opts.Parallel
		}
	} else if c := runtime.NumCPU(); c < maxParallel {
		maxParallel = c
	}

	log.Info().Int("max_parallel", maxParallel).Bool("force", opts.Force).Msg("ingestion configured")

	// errgroup will cancel siblings on first error.
	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, maxParallel)

	for i, file := range files {
		idx := i
		f := file
		sem <- struct{}{}

		g.Go(func() error {
			defer func() { <-sem }()
			start := time.Now()
			base := filepath.Base(f)
			flog := log.With().Int("idx", idx+1).Int("total", len(files)).Str("file", base).Logger()
			flog.Info().Msg("file start")

			// Idempotency: skip if already ingested, unless force
			exists, err := repo.HasIngestionForFile(gctx, base)
			if err != nil {
				flog.Error().Err(err).Msg("check ingestion log failed")
				return fmt.Errorf("file %s: check ingestion log: %w", f, err)
			}
			if exists && !opts.Force {
				flog.Info().Bool("skipped", true).Msg("already ingested")
				return nil
			}
			if exists {
				if err := repo.DeleteOffersBySource(gctx, base); err != nil {
					flog.Error().Err(err).Msg("delete existing failed")
					return fmt.Errorf("file %s: delete existing: %w", f, err)
				}
			}

			res, err := parseAndPersistFile(gctx, f, repo, chains, defaultBatchSize)
			if err != nil {
				flog.Error().Dur("elapsed", time.Since(start)).Err(err).Msg("file failed")
				// Remove rows of batches that were already committed.
				if res.Rows > 0 {
					if derr := repo.DeleteOffersBySource(context.Background(), base); derr != nil {
						flog.Error().Err(derr).Msg("cleanup of partial load failed")
					}
				}
				return fmt.Errorf("file %s: %w", f, err)
			}
			if err := repo.UpsertIngestionLog(gctx, base, res.Rows); err != nil {
				flog.Error().Err(err).Msg("update ingestion log failed")
				return fmt.Errorf("file %s: upsert ingestion log: %w", f, err)
			}

			invalidate(gctx, opts.Cache, res.Products, flog)

			flog.Info().
				Int("rows", res.Rows).
				Int("skipped_rows", res.Skipped).
				Int("products", len(res.Products)).
				Dur("elapsed", time.Since(start)).
				Msg("file done")
			return nil
		})
	}

	return g.Wait()
}

// invalidate drops cached prices of the given products. Failures are logged;
// cached entries expire on their own.
func invalidate(ctx context.Context, c Invalidator, products map[uuid.UUID]struct{}, log zerolog.Logger) {
	if c == nil {
		return
	}
	for id := range products {
		if err := c.InvalidateProduct(ctx, id); err != nil {
			log.Warn().Err(err).Str("product_id", id.String()).Msg("cache invalidation failed")
		}
	}
}
