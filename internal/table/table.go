package table

import (
	"fmt"
	"math"
	"sort"
)

// Key identifies a row across every stage that derives a table from another.
type Key string

// KeySet is a set of row keys.
type KeySet map[Key]struct{}

// NewKeySet builds a set from the given keys.
func NewKeySet(keys ...Key) KeySet {
	s := make(KeySet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

func (s KeySet) Has(k Key) bool {
	_, ok := s[k]
	return ok
}

// Sorted returns the keys in lexical order.
func (s KeySet) Sorted() []Key {
	out := make([]Key, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Row is a read-only view of one table row.
type Row struct {
	Key    Key
	cols   map[string]int
	values []Value
}

// Get returns the value in the named column; absent columns read as null.
func (r Row) Get(col string) Value {
	i, ok := r.cols[col]
	if !ok {
		return Null()
	}
	return r.values[i]
}

// Values returns a copy of the row's cells in column order.
func (r Row) Values() []Value {
	out := make([]Value, len(r.values))
	copy(out, r.values)
	return out
}

// Table is an ordered, uniformly-schemed collection of keyed rows.
type Table struct {
	columns []string
	index   map[string]int
	keys    []Key
	keyPos  map[Key]int
	cells   [][]Value // row-major
}

// New creates an empty table with the given columns.
func New(columns ...string) *Table {
	t := &Table{
		columns: append([]string(nil), columns...),
		index:   make(map[string]int, len(columns)),
		keyPos:  map[Key]int{},
	}
	for i, c := range columns {
		t.index[c] = i
	}
	return t
}

// Append adds a row. Keys must be unique and values must match the column count.
func (t *Table) Append(key Key, values ...Value) error {
	if len(values) != len(t.columns) {
		return fmt.Errorf("row %s: got %d values for %d columns", key, len(values), len(t.columns))
	}
	if _, dup := t.keyPos[key]; dup {
		return fmt.Errorf("duplicate row key %s", key)
	}
	t.keyPos[key] = len(t.keys)
	t.keys = append(t.keys, key)
	t.cells = append(t.cells, append([]Value(nil), values...))
	return nil
}

func (t *Table) Len() int { return len(t.keys) }

// Columns returns a copy of the column names in order.
func (t *Table) Columns() []string { return append([]string(nil), t.columns...) }

func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Keys returns row keys in row order.
func (t *Table) Keys() []Key { return append([]Key(nil), t.keys...) }

// Row returns the i-th row.
func (t *Table) Row(i int) Row {
	return Row{Key: t.keys[i], cols: t.index, values: t.cells[i]}
}

// Lookup returns the row with the given key.
func (t *Table) Lookup(k Key) (Row, bool) {
	i, ok := t.keyPos[k]
	if !ok {
		return Row{}, false
	}
	return t.Row(i), true
}

// Value returns the cell at row i in the named column.
func (t *Table) Value(i int, col string) Value {
	j, ok := t.index[col]
	if !ok {
		return Null()
	}
	return t.cells[i][j]
}

// Column returns a copy of the named column.
func (t *Table) Column(name string) ([]Value, error) {
	j, ok := t.index[name]
	if !ok {
		return nil, &MissingColumnError{Column: name}
	}
	out := make([]Value, len(t.cells))
	for i, row := range t.cells {
		out[i] = row[j]
	}
	return out, nil
}

// Floats returns the named column as finite numbers. Any null, non-numeric,
// NaN or infinite cell is an InvalidColumnTypeError.
func (t *Table) Floats(name string) ([]float64, error) {
	j, ok := t.index[name]
	if !ok {
		return nil, &MissingColumnError{Column: name}
	}
	out := make([]float64, len(t.cells))
	for i, row := range t.cells {
		f, ok := row[j].Float()
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, &InvalidColumnTypeError{Column: name, Key: t.keys[i], Value: row[j], Want: KindNumber}
		}
		out[i] = f
	}
	return out, nil
}

// Require returns a MissingColumnError for the first absent column.
func (t *Table) Require(cols ...string) error {
	for _, c := range cols {
		if !t.HasColumn(c) {
			return &MissingColumnError{Column: c}
		}
	}
	return nil
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	out := New(t.columns...)
	out.keys = append([]Key(nil), t.keys...)
	out.cells = make([][]Value, len(t.cells))
	for i, row := range t.cells {
		out.cells[i] = append([]Value(nil), row...)
		out.keyPos[t.keys[i]] = i
	}
	return out
}

// Select projects the named columns, preserving row keys and order.
func (t *Table) Select(cols ...string) (*Table, error) {
	idx := make([]int, len(cols))
	for i, c := range cols {
		j, ok := t.index[c]
		if !ok {
			return nil, &MissingColumnError{Column: c}
		}
		idx[i] = j
	}
	out := New(cols...)
	for i, row := range t.cells {
		vals := make([]Value, len(idx))
		for k, j := range idx {
			vals[k] = row[j]
		}
		out.keyPos[t.keys[i]] = len(out.keys)
		out.keys = append(out.keys, t.keys[i])
		out.cells = append(out.cells, vals)
	}
	return out, nil
}

// Filter returns the rows for which keep is true, in their original order.
func (t *Table) Filter(keep func(Row) bool) *Table {
	out := New(t.columns...)
	for i := range t.cells {
		if !keep(t.Row(i)) {
			continue
		}
		out.keyPos[t.keys[i]] = len(out.keys)
		out.keys = append(out.keys, t.keys[i])
		out.cells = append(out.cells, append([]Value(nil), t.cells[i]...))
	}
	return out
}

// RetainKeys keeps only rows whose key is in the set.
func (t *Table) RetainKeys(keep KeySet) *Table {
	return t.Filter(func(r Row) bool { return keep.Has(r.Key) })
}

// WithColumn returns a copy with the named column added (appended) or replaced.
func (t *Table) WithColumn(name string, values []Value) (*Table, error) {
	if len(values) != len(t.cells) {
		return nil, fmt.Errorf("column %q: got %d values for %d rows", name, len(values), len(t.cells))
	}
	out := t.Clone()
	j, exists := out.index[name]
	if !exists {
		j = len(out.columns)
		out.columns = append(out.columns, name)
		out.index[name] = j
	}
	for i := range out.cells {
		if exists {
			out.cells[i][j] = values[i]
		} else {
			out.cells[i] = append(out.cells[i], values[i])
		}
	}
	return out, nil
}

// Drop returns a copy without the named column.
func (t *Table) Drop(name string) (*Table, error) {
	if !t.HasColumn(name) {
		return nil, &MissingColumnError{Column: name}
	}
	keep := make([]string, 0, len(t.columns)-1)
	for _, c := range t.columns {
		if c != name {
			keep = append(keep, c)
		}
	}
	return t.Select(keep...)
}

// Take returns the rows at the given positions, in that order.
func (t *Table) Take(idx []int) *Table {
	out := New(t.columns...)
	for _, i := range idx {
		out.keyPos[t.keys[i]] = len(out.keys)
		out.keys = append(out.keys, t.keys[i])
		out.cells = append(out.cells, append([]Value(nil), t.cells[i]...))
	}
	return out
}
