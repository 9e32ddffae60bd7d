package acquire

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/KaramelBytes/housewrangle/internal/table"
)

// Source runs queries against a SQL database and returns keyed tables.
type Source struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// Open connects to the database described by cfg and verifies the connection.
func Open(ctx context.Context, cfg Config, logger *zap.Logger) (*Source, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("Connecting to database",
		zap.String("driver", cfg.Driver),
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Database),
		zap.String("user", cfg.User))

	db, err := sqlx.ConnectContext(ctx, cfg.Driver, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.Driver, err)
	}
	return NewSource(db, logger), nil
}

// NewSource wraps an existing connection.
func NewSource(db *sqlx.DB, logger *zap.Logger) *Source {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{db: db, logger: logger}
}

// Close releases the underlying connection pool.
func (s *Source) Close() error { return s.db.Close() }

// Query runs q and collects the result set into a table. Rows are keyed by
// their 0-based position in the result.
func (s *Source) Query(ctx context.Context, q string, args ...any) (*table.Table, error) {
	start := time.Now()
	rows, err := s.db.QueryxContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}
	out := table.New(cols...)
	for i := 0; rows.Next(); i++ {
		raw, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("scan row %d: %w", i, err)
		}
		vals := make([]table.Value, len(raw))
		for j, v := range raw {
			vals[j] = Coerce(v)
		}
		if err := out.Append(table.Key(strconv.Itoa(i)), vals...); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	s.logger.Debug("Query complete",
		zap.Int("rows", out.Len()),
		zap.Int("columns", len(cols)),
		zap.Duration("elapsed", time.Since(start)))
	return out, nil
}

// Coerce converts a database value into a table value. Strings and byte
// slices that hold a number become numbers.
func Coerce(v any) table.Value {
	switch x := v.(type) {
	case nil:
		return table.Null()
	case time.Time:
		return table.At(x)
	case []byte:
		return ParseCell(string(x))
	case string:
		return ParseCell(x)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return table.Str(cast.ToString(v))
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return table.Null()
	}
	return table.Num(f)
}

// ParseCell interprets a text cell: empty, NaN or infinite is null, numeric
// text is a number, anything else is kept as text.
func ParseCell(s string) table.Value {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return table.Null()
	}
	f, err := cast.ToFloat64E(trimmed)
	if err != nil {
		return table.Str(s)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return table.Null()
	}
	return table.Num(f)
}
