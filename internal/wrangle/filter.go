package wrangle

import (
	"strings"

	"github.com/KaramelBytes/housewrangle/internal/table"
)

// DropInvalid removes rows holding a null in any column, then rows reporting
// zero bathrooms. Survivors keep their order.
func DropInvalid(t *table.Table) (*table.Table, error) {
	if err := t.Require(ColBathrooms); err != nil {
		return nil, err
	}
	complete := t.Filter(func(r table.Row) bool { return !hasNull(r) })

	baths, err := complete.Floats(ColBathrooms)
	if err != nil {
		return nil, err
	}
	zero := table.NewKeySet()
	for i, b := range baths {
		if b == 0 {
			zero[complete.Row(i).Key] = struct{}{}
		}
	}
	return complete.Filter(func(r table.Row) bool { return !zero.Has(r.Key) }), nil
}

// DropDuplicates keeps the first of any rows whose cells are all equal.
// Row keys are not compared.
func DropDuplicates(t *table.Table) *table.Table {
	seen := map[string]struct{}{}
	return t.Filter(func(r table.Row) bool {
		sig := signature(r.Values())
		if _, dup := seen[sig]; dup {
			return false
		}
		seen[sig] = struct{}{}
		return true
	})
}

// HandleMissing drops duplicate rows and then every row holding a null.
func HandleMissing(t *table.Table) *table.Table {
	return DropDuplicates(t).Filter(func(r table.Row) bool { return !hasNull(r) })
}

func hasNull(r table.Row) bool {
	for _, v := range r.Values() {
		if v.IsNull() {
			return true
		}
	}
	return false
}

func signature(vals []table.Value) string {
	var b strings.Builder
	for _, v := range vals {
		b.WriteString(v.Kind().String())
		b.WriteByte(':')
		b.WriteString(v.String())
		b.WriteByte(0x1f)
	}
	return b.String()
}
