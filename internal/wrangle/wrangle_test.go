package wrangle

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/KaramelBytes/housewrangle/internal/acquire"
	"github.com/KaramelBytes/housewrangle/internal/table"
)

var rawColumns = []string{
	ColBathrooms, ColBedrooms, ColSqft, ColHasPool, ColGarageCarCount, ColTransactionDate,
}

type house struct {
	baths, beds, sqft table.Value
	pool, garage      table.Value
	date              table.Value
}

func buildRaw(t *testing.T, rows ...house) *table.Table {
	t.Helper()
	tb := table.New(rawColumns...)
	for i, h := range rows {
		if err := tb.Append(table.Key(strconv.Itoa(i)), h.baths, h.beds, h.sqft, h.pool, h.garage, h.date); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	return tb
}

func typical(sqft float64, date string) house {
	return house{
		baths:  table.Num(2),
		beds:   table.Num(3),
		sqft:   table.Num(sqft),
		pool:   table.Null(),
		garage: table.Num(1),
		date:   table.Str(date),
	}
}

func TestCleanSingleSurvivor(t *testing.T) {
	raw := buildRaw(t,
		house{table.Num(2), table.Num(3), table.Num(1500), table.Null(), table.Null(), table.Str("2017-06-01")},
		house{table.Num(0), table.Num(2), table.Num(1200), table.Num(1), table.Num(2), table.Str("2017-07-01")},
	)
	res, err := NewCleaner(DefaultOptions(), nil).Clean(raw)
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	out := res.Table
	if out.Len() != 1 {
		t.Fatalf("rows = %d, want 1", out.Len())
	}
	row := out.Row(0)
	if row.Key != "0" {
		t.Fatalf("surviving key = %s, want 0", row.Key)
	}
	if f, _ := row.Get(ColHasPool).Float(); f != 0 {
		t.Fatalf("has_pool = %v, want 0", f)
	}
	if f, _ := row.Get(ColHasGarage).Float(); f != 0 {
		t.Fatalf("has_garage = %v, want 0", f)
	}
	at, ok := row.Get(ColTransactionDate).Time()
	if !ok || !at.Equal(time.Date(2017, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("transaction_date = %v (ok=%v)", at, ok)
	}
	if out.HasColumn(ColGarageCarCount) {
		t.Fatalf("garage_car_count should be dropped, columns = %v", out.Columns())
	}
	if raw.Len() != 2 || raw.HasColumn(ColHasGarage) {
		t.Fatalf("input table was mutated")
	}
}

func TestCleanRemovesOutliersAgainstFilteredPopulation(t *testing.T) {
	var rows []house
	for i := 0; i < 10; i++ {
		rows = append(rows, typical(1000, "2017-05-02"))
	}
	rows = append(rows, typical(10000, "2017-05-03"))
	// Filtered out before scoring; would otherwise shift the mean.
	rows = append(rows, house{table.Num(0), table.Num(3), table.Num(90000), table.Null(), table.Null(), table.Str("2017-05-04")})

	raw := buildRaw(t, rows...)
	res, err := NewCleaner(DefaultOptions(), nil).Clean(raw)
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if res.Table.Len() != 10 {
		t.Fatalf("rows = %d, want 10", res.Table.Len())
	}
	for _, k := range res.Table.Keys() {
		if k == "10" || k == "11" {
			t.Fatalf("row %s should have been removed", k)
		}
	}
	assertProperties(t, raw, res)
}

func TestCleanPropertiesOnMixedInput(t *testing.T) {
	raw := buildRaw(t,
		house{table.Num(1), table.Num(2), table.Num(900), table.Num(1), table.Num(0), table.Str("2017-05-01")},
		house{table.Num(2.5), table.Num(4), table.Num(2100), table.Null(), table.Num(2), table.Str("2017-06-15")},
		house{table.Num(3), table.Null(), table.Num(1800), table.Null(), table.Num(1), table.Str("2017-07-20")},
		house{table.Num(0), table.Num(1), table.Num(600), table.Null(), table.Null(), table.Str("2017-08-30")},
		house{table.Num(2), table.Num(3), table.Num(1650), table.Num(1), table.Null(), table.Str("2017-08-01 00:00:00")},
	)
	res, err := NewCleaner(DefaultOptions(), nil).Clean(raw)
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if res.Table.Len() != 3 {
		t.Fatalf("rows = %d, want 3", res.Table.Len())
	}
	assertProperties(t, raw, res)

	wantGarage := map[table.Key]float64{"0": 0, "1": 1, "4": 0}
	for i := 0; i < res.Table.Len(); i++ {
		row := res.Table.Row(i)
		got, _ := row.Get(ColHasGarage).Float()
		if got != wantGarage[row.Key] {
			t.Errorf("row %s has_garage = %v, want %v", row.Key, got, wantGarage[row.Key])
		}
	}
}

// assertProperties checks the invariants every cleaned table must satisfy.
func assertProperties(t *testing.T, raw *table.Table, res *Result) {
	t.Helper()
	prev := raw.Len()
	for _, s := range res.Stages {
		if s.Rows > prev {
			t.Fatalf("stage %s grew rows %d -> %d", s.Name, prev, s.Rows)
		}
		prev = s.Rows
	}
	out := res.Table
	for i := 0; i < out.Len(); i++ {
		row := out.Row(i)
		for _, v := range row.Values() {
			if v.IsNull() {
				t.Fatalf("row %s holds a null", row.Key)
			}
		}
		if b, _ := row.Get(ColBathrooms).Float(); !(b > 0) {
			t.Fatalf("row %s bathroom_cnt = %v", row.Key, b)
		}
		src, ok := raw.Lookup(row.Key)
		if !ok {
			t.Fatalf("row %s not in input", row.Key)
		}
		g := src.Get(ColGarageCarCount)
		f, _ := g.Float()
		want := 0.0
		if !g.IsNull() && f != 0 {
			want = 1
		}
		if got, _ := row.Get(ColHasGarage).Float(); got != want {
			t.Fatalf("row %s has_garage = %v, want %v", row.Key, got, want)
		}
	}
}

func TestCleanPropagatesErrors(t *testing.T) {
	t.Run("missing column", func(t *testing.T) {
		tb := table.New(ColBathrooms, ColHasPool)
		_ = tb.Append("0", table.Num(1), table.Num(0))
		_, err := NewCleaner(DefaultOptions(), nil).Clean(tb)
		var mc *table.MissingColumnError
		if !errors.As(err, &mc) || mc.Column != ColGarageCarCount {
			t.Fatalf("expected missing garage_car_count, got %v", err)
		}
	})
	t.Run("bad date", func(t *testing.T) {
		raw := buildRaw(t, typical(1000, "2017-05-02"), typical(1100, "last tuesday"))
		_, err := NewCleaner(DefaultOptions(), nil).Clean(raw)
		var de *table.InvalidDateFormatError
		if !errors.As(err, &de) {
			t.Fatalf("expected InvalidDateFormatError, got %v", err)
		}
		if de.Key != "1" || de.Raw != "last tuesday" {
			t.Fatalf("unexpected context: %+v", de)
		}
	})
	t.Run("non-numeric outlier column", func(t *testing.T) {
		h := typical(1000, "2017-05-02")
		h.sqft = table.Str("large")
		raw := buildRaw(t, typical(1000, "2017-05-02"), h)
		_, err := NewCleaner(DefaultOptions(), nil).Clean(raw)
		if !errors.Is(err, table.ErrInvalidColumnType) {
			t.Fatalf("expected invalid column type, got %v", err)
		}
	})
}

func TestZScoresUsePopulationDivisor(t *testing.T) {
	z := ZScores([]float64{1, 2, 3, 4})
	want := 1.5 / math.Sqrt(1.25)
	if math.Abs(z[3]-want) > 1e-12 {
		t.Fatalf("z[3] = %v, want %v", z[3], want)
	}
	if math.Abs(z[0]+want) > 1e-12 {
		t.Fatalf("z[0] = %v, want %v", z[0], -want)
	}
}

func TestZeroVarianceNeverExcludes(t *testing.T) {
	tb := table.New("a", "b")
	for i := 0; i < 5; i++ {
		_ = tb.Append(table.Key(strconv.Itoa(i)), table.Num(0.1), table.Num(float64(i)))
	}
	scores, err := StandardScores(tb)
	if err != nil {
		t.Fatalf("StandardScores: %v", err)
	}
	for i, s := range scores["a"] {
		if s != 0 {
			t.Fatalf("score[%d] = %v, want 0", i, s)
		}
	}
	keep, err := OutlierFreeKeys(tb, DefaultThreshold)
	if err != nil {
		t.Fatalf("OutlierFreeKeys: %v", err)
	}
	if len(keep) != 5 {
		t.Fatalf("kept %d rows, want 5", len(keep))
	}
}

func TestOutlierFreeKeysStrictBound(t *testing.T) {
	tb := table.New("x")
	for i := 0; i < 10; i++ {
		_ = tb.Append(table.Key(strconv.Itoa(i)), table.Num(1000))
	}
	_ = tb.Append("10", table.Num(10000))

	keep, err := OutlierFreeKeys(tb, DefaultThreshold)
	if err != nil {
		t.Fatalf("OutlierFreeKeys: %v", err)
	}
	if keep.Has("10") || len(keep) != 10 {
		t.Fatalf("kept = %v", keep.Sorted())
	}
	// sqrt(10) ~ 3.162 is still inside a looser bound.
	keep, _ = OutlierFreeKeys(tb, 3.2)
	if len(keep) != 11 {
		t.Fatalf("kept %d rows with threshold 3.2, want 11", len(keep))
	}
}

func TestCleanerDropDuplicatesOption(t *testing.T) {
	raw := buildRaw(t, typical(1000, "2017-05-02"), typical(1000, "2017-05-02"), typical(1200, "2017-05-02"))
	opt := DefaultOptions()
	opt.DropDuplicates = true
	res, err := NewCleaner(opt, nil).Clean(raw)
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if res.Table.Len() != 2 {
		t.Fatalf("rows = %d, want 2", res.Table.Len())
	}
	if res.Stages[0].Name != "dedupe" {
		t.Fatalf("first stage = %s, want dedupe", res.Stages[0].Name)
	}
}

func TestHandleMissingDropsDuplicatesAndNulls(t *testing.T) {
	raw := buildRaw(t,
		typical(1000, "2017-05-02"),
		typical(1000, "2017-05-02"),
		house{table.Num(2), table.Null(), table.Num(1100), table.Num(0), table.Num(1), table.Str("2017-05-03")},
		house{table.Num(1), table.Num(2), table.Num(900), table.Num(0), table.Num(1), table.Str("2017-05-04")},
	)
	got := HandleMissing(raw)
	keys := got.Keys()
	if len(keys) != 1 || keys[0] != "3" {
		t.Fatalf("keys = %v, want [3]", keys)
	}
}

func TestParseDatesLayouts(t *testing.T) {
	want := time.Date(2017, 6, 1, 0, 0, 0, 0, time.UTC)
	for _, s := range []string{"2017-06-01", "2017/06/01", "06/01/2017", " 2017-06-01 "} {
		got, ok := ParseDate(s)
		if !ok || !got.Equal(want) {
			t.Fatalf("ParseDate(%q) = %v, %v", s, got, ok)
		}
	}
	tb := table.New(ColTransactionDate)
	_ = tb.Append("a", table.Str("2017-06-01"))
	_ = tb.Append("b", table.Null())
	_ = tb.Append("c", table.At(want))
	out, err := ParseDates(tb, ColTransactionDate)
	if err != nil {
		t.Fatalf("ParseDates: %v", err)
	}
	if at, ok := out.Value(0, ColTransactionDate).Time(); !ok || !at.Equal(want) {
		t.Fatalf("row a = %v", out.Value(0, ColTransactionDate))
	}
	if !out.Value(1, ColTransactionDate).IsNull() {
		t.Fatalf("row b should stay null")
	}
	if _, ok := tb.Value(0, ColTransactionDate).Text(); !ok {
		t.Fatalf("input was mutated")
	}
	if _, err := ParseDates(tb, "nope"); !errors.Is(err, table.ErrMissingColumn) {
		t.Fatalf("err = %v, want missing column", err)
	}
}

func TestZScoresNonFiniteNeverPass(t *testing.T) {
	tests := []struct {
		name string
		vals []float64
	}{
		{"NaN", []float64{1, 2, math.NaN()}},
		{"positive infinity", []float64{1500, math.Inf(1), 1600}},
		{"negative infinity", []float64{1500, math.Inf(-1), 1600}},
		{"all infinite", []float64{math.Inf(1), math.Inf(1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i, z := range ZScores(tt.vals) {
				if math.Abs(z) < DefaultThreshold {
					t.Fatalf("score %d = %v passes the bound", i, z)
				}
			}
		})
	}
}

func TestOutlierFreeKeysRejectsNonFinite(t *testing.T) {
	tb := table.New(ColSqft)
	_ = tb.Append("a", table.Num(1500))
	_ = tb.Append("b", table.Num(math.Inf(1)))
	_ = tb.Append("c", table.Num(1600))
	_, err := OutlierFreeKeys(tb, DefaultThreshold)
	var typeErr *table.InvalidColumnTypeError
	if !errors.As(err, &typeErr) || typeErr.Key != "b" {
		t.Fatalf("err = %v, want InvalidColumnTypeError for row b", err)
	}
}

func TestCleanNonFiniteInput(t *testing.T) {
	t.Run("infinite value in table", func(t *testing.T) {
		h := typical(0, "2017-05-02")
		h.sqft = table.Num(math.Inf(1))
		raw := buildRaw(t, typical(1500, "2017-05-02"), h, typical(1600, "2017-05-02"))
		_, err := NewCleaner(DefaultOptions(), nil).Clean(raw)
		if !errors.Is(err, table.ErrInvalidColumnType) {
			t.Fatalf("err = %v, want invalid column type", err)
		}
	})
	t.Run("infinite text in csv", func(t *testing.T) {
		csv := ",bathroom_cnt,bedroom_cnt,sqft_calculated,has_pool,garage_car_count,transaction_date\n" +
			"a,2,3,1500,,1,2017-05-02\n" +
			"b,2,3,inf,,1,2017-05-02\n" +
			"c,2,3,1600,,1,2017-05-02\n"
		raw, err := acquire.DecodeCSV(strings.NewReader(csv))
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		res, err := NewCleaner(DefaultOptions(), nil).Clean(raw)
		if err != nil {
			t.Fatalf("Clean: %v", err)
		}
		if _, ok := res.Table.Lookup("b"); ok {
			t.Fatalf("row with infinite sqft was kept: %v", res.Table.Keys())
		}
		if res.Table.Len() != 2 {
			t.Fatalf("kept %v, want [a c]", res.Table.Keys())
		}
		assertProperties(t, raw, res)
	})
}
