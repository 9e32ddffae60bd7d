package runlog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/housewrangle/internal/utils"
	"github.com/KaramelBytes/housewrangle/internal/wrangle"
)

const recordExt = ".json"

var (
	// ErrNotFound is returned when no record matches a run ID.
	ErrNotFound = errors.New("run record not found")
	// ErrInvalidID is returned for run IDs that could name a path outside the
	// runs directory.
	ErrInvalidID = errors.New("invalid run id")
)

// StageCount is the row count after one cleaning stage.
type StageCount struct {
	Name string `json:"name"`
	Rows int    `json:"rows"`
}

// Record describes one cleaning run persisted on disk.
type Record struct {
	ID             string       `json:"id"`
	Source         string       `json:"source"`
	Output         string       `json:"output,omitempty"`
	Threshold      float64      `json:"threshold"`
	OutlierColumns []string     `json:"outlier_columns"`
	DropDuplicates bool         `json:"drop_duplicates"`
	Input          int          `json:"input_rows"`
	Stages         []StageCount `json:"stages"`
	CreatedAt      time.Time    `json:"created_at"`
}

// NewRecord builds a record from a finished cleaning run.
func NewRecord(res *wrangle.Result, opt wrangle.Options, source, output string) *Record {
	id := res.RunID
	if id == "" {
		id = uuid.NewString()
	}
	r := &Record{
		ID:             id,
		Source:         source,
		Output:         output,
		Threshold:      opt.Threshold,
		OutlierColumns: append([]string(nil), opt.OutlierColumns...),
		DropDuplicates: opt.DropDuplicates,
		Input:          res.Input,
		CreatedAt:      time.Now().UTC(),
	}
	for _, s := range res.Stages {
		r.Stages = append(r.Stages, StageCount{Name: s.Name, Rows: s.Rows})
	}
	return r
}

// Kept returns the row count after the final stage.
func (r *Record) Kept() int {
	if len(r.Stages) == 0 {
		return r.Input
	}
	return r.Stages[len(r.Stages)-1].Rows
}

// Save writes the record as <dir>/<id>.json using atomic write.
func Save(dir string, r *Record) error {
	if r == nil || r.ID == "" {
		return errors.New("record has no id")
	}
	if err := checkID(r.ID); err != nil {
		return err
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	return utils.SafeWriteFile(filepath.Join(dir, r.ID+recordExt), data)
}

// Load reads the record with the given run ID. A unique ID prefix is accepted.
func Load(dir, id string) (*Record, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	path := filepath.Join(dir, id+recordExt)
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		path, err = resolvePrefix(dir, id)
		if err != nil {
			return nil, err
		}
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read record: %w", err)
	}
	var r Record
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("parse record %s: %w", path, err)
	}
	return &r, nil
}

// List returns every record in dir, newest first. A missing dir yields none.
func List(dir string) ([]*Record, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list runs: %w", err)
	}
	var out []*Record
	for _, e := range entries {
		id := strings.TrimSuffix(e.Name(), recordExt)
		if e.IsDir() || filepath.Ext(e.Name()) != recordExt || checkID(id) != nil {
			continue
		}
		r, err := Load(dir, id)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func resolvePrefix(dir, prefix string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, prefix)
		}
		return "", fmt.Errorf("list runs: %w", err)
	}
	var match string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != recordExt || !strings.HasPrefix(name, prefix) {
			continue
		}
		if match != "" {
			return "", fmt.Errorf("run id prefix %q is ambiguous", prefix)
		}
		match = name
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", ErrNotFound, prefix)
	}
	return filepath.Join(dir, match), nil
}

// checkID accepts a full uuid or a plain name without path separators.
func checkID(id string) error {
	if len(id) == 36 {
		if _, err := uuid.Parse(id); err != nil {
			return fmt.Errorf("%w %q: %v", ErrInvalidID, id, err)
		}
		return nil
	}
	if id == "" || strings.ContainsAny(id, `/\`) || strings.HasPrefix(id, ".") || filepath.Base(id) != id {
		return fmt.Errorf("%w %q", ErrInvalidID, id)
	}
	return nil
}
