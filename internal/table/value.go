package table

import (
	"strconv"
	"time"
)

// Kind identifies the scalar type held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindNumber
	KindText
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindTime:
		return "time"
	default:
		return "unknown"
	}
}

// Value is a nullable scalar cell. The zero Value is null.
type Value struct {
	kind Kind
	num  float64
	text string
	at   time.Time
}

// Null returns the null value.
func Null() Value { return Value{} }

// Num wraps a float64.
func Num(f float64) Value { return Value{kind: KindNumber, num: f} }

// Str wraps a string.
func Str(s string) Value { return Value{kind: KindText, text: s} }

// At wraps a point in time.
func At(t time.Time) Value { return Value{kind: KindTime, at: t} }

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// Float returns the numeric payload; ok is false for non-numbers.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Time returns the time payload; ok is false for non-times.
func (v Value) Time() (time.Time, bool) {
	if v.kind != KindTime {
		return time.Time{}, false
	}
	return v.at, true
}

// Text returns the string payload; ok is false for non-text.
func (v Value) Text() (string, bool) {
	if v.kind != KindText {
		return "", false
	}
	return v.text, true
}

// Equal reports whether two values have the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num == o.num
	case KindText:
		return v.text == o.text
	case KindTime:
		return v.at.Equal(o.at)
	default:
		return true
	}
}

// String renders the value the way the CSV cache stores it. Null renders empty.
// Times at midnight UTC render as a bare date.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindText:
		return v.text
	case KindTime:
		if v.at.Equal(v.at.Truncate(24*time.Hour)) && v.at.Location() == time.UTC {
			return v.at.Format("2006-01-02")
		}
		return v.at.Format(time.RFC3339)
	default:
		return ""
	}
}
