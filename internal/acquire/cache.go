package acquire

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/KaramelBytes/housewrangle/internal/table"
	"github.com/KaramelBytes/housewrangle/internal/utils"
)

// ReadCSV loads a cached table. When the first header cell is empty, the first
// column holds the row keys; otherwise rows are keyed by position.
func ReadCSV(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	defer f.Close()
	t, err := DecodeCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return t, nil
}

// DecodeCSV parses CSV data in the cache layout.
func DecodeCSV(r io.Reader) (*table.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty csv")
		}
		return nil, err
	}
	if len(header) > 0 {
		header[0] = trimBOM(header[0])
	}
	keyed := len(header) > 0 && header[0] == ""
	cols := header
	if keyed {
		cols = header[1:]
	}
	out := table.New(cols...)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rec) != len(header) {
			return nil, fmt.Errorf("line %d: got %d fields, want %d", line, len(rec), len(header))
		}
		key := table.Key(strconv.Itoa(line - 2))
		if keyed {
			key = table.Key(rec[0])
			rec = rec[1:]
		}
		vals := make([]table.Value, len(rec))
		for i, cell := range rec {
			vals[i] = ParseCell(cell)
		}
		if err := out.Append(key, vals...); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	return out, nil
}

// WriteCSV atomically writes t to path with a leading key column.
func WriteCSV(path string, t *table.Table) error {
	var buf bytes.Buffer
	if err := EncodeCSV(&buf, t); err != nil {
		return err
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}

// EncodeCSV writes t in the cache layout. Nulls are written as empty cells.
func EncodeCSV(w io.Writer, t *table.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{""}, t.Columns()...)); err != nil {
		return err
	}
	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		rec := make([]string, 0, len(t.Columns())+1)
		rec = append(rec, string(row.Key))
		for _, v := range row.Values() {
			rec = append(rec, v.String())
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func trimBOM(s string) string {
	if len(s) >= 3 && s[0] == 0xEF && s[1] == 0xBB && s[2] == 0xBF {
		return s[3:]
	}
	return s
}
