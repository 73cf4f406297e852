package prunetable

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	pdberrors "github.com/tamirms/prunetable/errors"
)

// Load returns the classified tables for the puzzle defined at defPath,
// reading defPath+suffix when it is a usable cache and building otherwise.
//
// The cache is used when caching is enabled, the file exists, and defPath was
// not modified after it. When the cache exists its modification time and the
// definition's must both be readable; failing that is a KindFatal error.
// A malformed cache is not fatal: it is recorded in Report().CacheErr and the
// tables are rebuilt. Every rebuild rewrites the cache, even with caching
// disabled, and a failed write is recorded in Report().WriteErr.
func Load(ctx context.Context, defPath string, p *Puzzle, opts ...Option) (*TableSet, error) {
	cfg := newConfig(opts)
	if err := validatePuzzle(p); err != nil {
		return nil, err
	}
	cachePath := defPath + cfg.cacheSuffix
	log := cfg.logger.With().Str("cache", cachePath).Logger()
	report := Report{Source: SourceBuilt, Path: cachePath}

	exists := false
	if cfg.useCache {
		cacheInfo, err := os.Stat(cachePath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, pdberrors.Fatal("stat cache", cachePath, fmt.Errorf("%w: %w", pdberrors.ErrCacheUnreadable, err))
		default:
			exists = true
			defInfo, err := os.Stat(defPath)
			if err != nil {
				return nil, pdberrors.Fatal("stat definition", defPath, fmt.Errorf("%w: %w", pdberrors.ErrDefinitionUnreadable, err))
			}
			report.Stale = defInfo.ModTime().After(cacheInfo.ModTime())
		}
	}

	if exists && !report.Stale {
		log.Info().Msg("pruning tables found on file")
		ts, err := readFile(cachePath, p, cfg)
		if err == nil {
			report.Source = SourceCache
			ts.report = report
			Classify(p.Datasets, ts)
			return ts, nil
		}
		if pdberrors.KindOf(err) != pdberrors.KindMalformed {
			return nil, pdberrors.Fatal("read cache", cachePath, errors.Join(pdberrors.ErrCacheUnreadable, err))
		}
		log.Warn().Err(err).Msg("cache rejected, recomputing")
		report.CacheErr = err
	} else if report.Stale {
		log.Info().Msg("pruning tables older than definition, recomputing")
	} else {
		log.Info().Msg("pruning tables not found on file, computing")
	}

	ts, err := build(ctx, p, cfg)
	if err != nil {
		return nil, err
	}
	if err := WriteFile(cachePath, ts); err != nil {
		log.Warn().Err(err).Msg("failed to write cache")
		report.WriteErr = err
	}
	ts.report = report
	Classify(p.Datasets, ts)
	return ts, nil
}
