package table

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

func sample(t *testing.T) *Table {
	t.Helper()
	tb := New("a", "b")
	rows := []struct {
		key Key
		a   Value
		b   Value
	}{
		{"0", Num(1), Str("x")},
		{"1", Null(), Str("y")},
		{"2", Num(3), Null()},
	}
	for _, r := range rows {
		if err := tb.Append(r.key, r.a, r.b); err != nil {
			t.Fatalf("append %s: %v", r.key, err)
		}
	}
	return tb
}

func TestAppendRejectsDuplicateKeyAndArity(t *testing.T) {
	tb := sample(t)
	if err := tb.Append("0", Num(9), Str("z")); err == nil {
		t.Fatalf("expected duplicate key error")
	}
	if err := tb.Append("9", Num(9)); err == nil {
		t.Fatalf("expected arity error")
	}
	if tb.Len() != 3 {
		t.Fatalf("len = %d, want 3", tb.Len())
	}
}

func TestFloatsReportsOffendingRow(t *testing.T) {
	tb := sample(t)
	_, err := tb.Floats("a")
	var typeErr *InvalidColumnTypeError
	if !errors.As(err, &typeErr) {
		t.Fatalf("expected InvalidColumnTypeError, got %v", err)
	}
	if typeErr.Column != "a" || typeErr.Key != "1" {
		t.Fatalf("unexpected error context: %+v", typeErr)
	}
	if !errors.Is(err, ErrInvalidColumnType) {
		t.Fatalf("errors.Is should match ErrInvalidColumnType")
	}
	if _, err := tb.Floats("nope"); !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected missing column, got %v", err)
	}
}

func TestFloatsRejectsNonFinite(t *testing.T) {
	tests := []struct {
		name string
		bad  float64
	}{
		{"positive infinity", math.Inf(1)},
		{"negative infinity", math.Inf(-1)},
		{"NaN", math.NaN()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tb := New("sqft")
			if err := tb.Append("a", Num(1500)); err != nil {
				t.Fatal(err)
			}
			if err := tb.Append("b", Num(tt.bad)); err != nil {
				t.Fatal(err)
			}
			_, err := tb.Floats("sqft")
			var typeErr *InvalidColumnTypeError
			if !errors.As(err, &typeErr) || typeErr.Key != "b" {
				t.Fatalf("expected InvalidColumnTypeError for row b, got %v", err)
			}
			if !strings.Contains(err.Error(), "finite") {
				t.Fatalf("message should mention finiteness: %v", err)
			}
		})
	}
}

func TestSelectAndRetainKeysPreserveIdentity(t *testing.T) {
	tb := sample(t)
	proj, err := tb.Select("b")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if got := proj.Columns(); len(got) != 1 || got[0] != "b" {
		t.Fatalf("columns = %v", got)
	}
	keep := NewKeySet()
	for i := 0; i < proj.Len(); i++ {
		if !proj.Row(i).Get("b").IsNull() {
			keep[proj.Row(i).Key] = struct{}{}
		}
	}
	out := tb.RetainKeys(keep)
	if out.Len() != 2 {
		t.Fatalf("len = %d, want 2", out.Len())
	}
	keys := out.Keys()
	if keys[0] != "0" || keys[1] != "1" {
		t.Fatalf("keys = %v", keys)
	}
	if !out.Value(1, "a").IsNull() {
		t.Fatalf("full-row values should follow the key")
	}
}

func TestWithColumnAndDropDoNotMutateInput(t *testing.T) {
	tb := sample(t)
	added, err := tb.WithColumn("c", []Value{Num(1), Num(2), Num(3)})
	if err != nil {
		t.Fatalf("with column: %v", err)
	}
	if tb.HasColumn("c") {
		t.Fatalf("input table was mutated")
	}
	replaced, err := added.WithColumn("a", []Value{Num(7), Num(8), Num(9)})
	if err != nil {
		t.Fatalf("replace column: %v", err)
	}
	if f, _ := replaced.Value(0, "a").Float(); f != 7 {
		t.Fatalf("a[0] = %v, want 7", f)
	}
	if f, _ := added.Value(0, "a").Float(); f != 1 {
		t.Fatalf("replace mutated its source")
	}
	dropped, err := replaced.Drop("b")
	if err != nil {
		t.Fatalf("drop: %v", err)
	}
	if dropped.HasColumn("b") || !dropped.HasColumn("c") {
		t.Fatalf("columns after drop = %v", dropped.Columns())
	}
	if _, err := dropped.Drop("b"); !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected missing column on second drop, got %v", err)
	}
}

func TestValueString(t *testing.T) {
	day := time.Date(2017, 6, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		v    Value
		want string
	}{
		{Null(), ""},
		{Num(1500), "1500"},
		{Num(2.5), "2.5"},
		{Str("6037"), "6037"},
		{At(day), "2017-06-01"},
		{At(day.Add(90 * time.Minute)), "2017-06-01T01:30:00Z"},
	}
	for _, c := range cases {
		if got := c.v.String(); got != c.want {
			t.Errorf("%v: got %q want %q", c.v.Kind(), got, c.want)
		}
	}
}
