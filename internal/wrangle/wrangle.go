package wrangle

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/KaramelBytes/housewrangle/internal/table"
)

// Options controls the cleaning pipeline.
type Options struct {
	// Threshold is the strict |z| bound for outlier screening. 0 means DefaultThreshold.
	Threshold float64
	// OutlierColumns are projected from the filtered table and screened.
	OutlierColumns []string
	// DateColumn is parsed from text into time values.
	DateColumn string
	// DropDuplicates removes exact duplicate rows before imputation.
	DropDuplicates bool
}

// DefaultOptions returns the housing pipeline defaults.
func DefaultOptions() Options {
	return Options{
		Threshold:      DefaultThreshold,
		OutlierColumns: append([]string(nil), OutlierColumns...),
		DateColumn:     ColTransactionDate,
	}
}

// Stage records the row count after one pipeline step.
type Stage struct {
	Name string
	Rows int
}

// Result is the output of a cleaning run.
type Result struct {
	RunID  string
	Table  *table.Table
	Input  int
	Stages []Stage
}

// Cleaner runs the wrangling pipeline over housing tables.
type Cleaner struct {
	opt    Options
	logger *zap.Logger
}

// NewCleaner creates a Cleaner. A nil logger disables logging.
func NewCleaner(opt Options, logger *zap.Logger) *Cleaner {
	if opt.Threshold <= 0 {
		opt.Threshold = DefaultThreshold
	}
	if len(opt.OutlierColumns) == 0 {
		opt.OutlierColumns = append([]string(nil), OutlierColumns...)
	}
	if opt.DateColumn == "" {
		opt.DateColumn = ColTransactionDate
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cleaner{opt: opt, logger: logger}
}

// Clean imputes amenity flags, drops invalid rows, parses transaction dates and
// removes outliers. The input table is not modified. Any error aborts the run.
func (c *Cleaner) Clean(raw *table.Table) (*Result, error) {
	res := &Result{RunID: uuid.NewString(), Input: raw.Len()}
	log := c.logger.With(zap.String("run_id", res.RunID))
	record := func(name string, t *table.Table) {
		res.Stages = append(res.Stages, Stage{Name: name, Rows: t.Len()})
		log.Debug("Stage complete", zap.String("stage", name), zap.Int("rows", t.Len()))
	}

	t := raw
	if c.opt.DropDuplicates {
		t = DropDuplicates(t)
		record("dedupe", t)
	}

	t, err := ImputeAmenities(t)
	if err != nil {
		return nil, fmt.Errorf("impute amenities: %w", err)
	}
	record("impute", t)

	if t, err = DropInvalid(t); err != nil {
		return nil, fmt.Errorf("drop invalid rows: %w", err)
	}
	record("filter", t)

	if t, err = ParseDates(t, c.opt.DateColumn); err != nil {
		return nil, fmt.Errorf("parse dates: %w", err)
	}
	record("dates", t)

	proj, err := t.Select(c.opt.OutlierColumns...)
	if err != nil {
		return nil, fmt.Errorf("project outlier columns: %w", err)
	}
	keep, err := OutlierFreeKeys(proj, c.opt.Threshold)
	if err != nil {
		return nil, fmt.Errorf("score outliers: %w", err)
	}
	t = t.RetainKeys(keep)
	record("outliers", t)

	res.Table = t
	log.Info("Cleaned table",
		zap.Int("input_rows", res.Input),
		zap.Int("output_rows", t.Len()),
		zap.Float64("threshold", c.opt.Threshold))
	return res, nil
}
