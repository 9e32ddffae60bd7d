package wrangle

import (
	"strings"
	"time"

	"github.com/KaramelBytes/housewrangle/internal/table"
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006/01/02",
	"01/02/2006",
}

// ParseDate parses a date-like string using the accepted layouts.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseDates converts the named column from text to time values. Nulls and
// values that are already times are kept; anything else must parse.
func ParseDates(t *table.Table, col string) (*table.Table, error) {
	vals, err := t.Column(col)
	if err != nil {
		return nil, err
	}
	keys := t.Keys()
	for i, v := range vals {
		switch v.Kind() {
		case table.KindNull, table.KindTime:
			continue
		}
		raw := v.String()
		at, ok := ParseDate(raw)
		if !ok {
			return nil, &table.InvalidDateFormatError{Column: col, Key: keys[i], Raw: raw}
		}
		vals[i] = table.At(at)
	}
	return t.WithColumn(col, vals)
}
