package acquire

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/KaramelBytes/housewrangle/internal/table"
	"github.com/KaramelBytes/housewrangle/internal/utils"
)

// ErrNoSource is returned when a fetch is needed but no database is configured.
var ErrNoSource = errors.New("no database source configured")

// Querier runs a query and returns its rows as a table.
type Querier interface {
	Query(ctx context.Context, q string, args ...any) (*table.Table, error)
}

// Acquirer loads raw data, preferring a local CSV cache over the database.
type Acquirer struct {
	src       Querier
	cachePath string
	logger    *zap.Logger
}

// NewAcquirer creates an Acquirer. src may be nil when only the cache is used;
// an empty cachePath disables caching.
func NewAcquirer(src Querier, cachePath string, logger *zap.Logger) *Acquirer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Acquirer{src: src, cachePath: cachePath, logger: logger}
}

// Load returns the cached table when the cache file exists, otherwise it runs
// query and writes the result to the cache.
func (a *Acquirer) Load(ctx context.Context, query string) (*table.Table, error) {
	if a.cachePath != "" && utils.FileExists(a.cachePath) {
		t, err := ReadCSV(a.cachePath)
		if err != nil {
			return nil, err
		}
		a.logger.Info("Loaded cached data", zap.String("path", a.cachePath), zap.Int("rows", t.Len()))
		return t, nil
	}
	return a.Refresh(ctx, query)
}

// Refresh always runs query and overwrites the cache.
func (a *Acquirer) Refresh(ctx context.Context, query string) (*table.Table, error) {
	if a.src == nil {
		return nil, ErrNoSource
	}
	t, err := a.src.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	a.logger.Info("Fetched data", zap.Int("rows", t.Len()), zap.Strings("columns", t.Columns()))
	if a.cachePath == "" {
		return t, nil
	}
	if err := WriteCSV(a.cachePath, t); err != nil {
		return nil, fmt.Errorf("write cache: %w", err)
	}
	a.logger.Debug("Wrote cache", zap.String("path", a.cachePath))
	return t, nil
}
