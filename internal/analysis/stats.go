package analysis

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/housewrangle/internal/table"
)

// MissingStat is the null count of one column.
type MissingStat struct {
	Column  string
	Missing int
	Percent float64 // rounded to one decimal
}

// MissingValues lists columns holding nulls, highest percentage first.
func MissingValues(t *table.Table) []MissingStat {
	var out []MissingStat
	if t.Len() == 0 {
		return out
	}
	for _, col := range t.Columns() {
		vals, _ := t.Column(col)
		n := 0
		for _, v := range vals {
			if v.IsNull() {
				n++
			}
		}
		if n == 0 {
			continue
		}
		pct := math.Round(float64(n)*1000/float64(t.Len())) / 10
		out = append(out, MissingStat{Column: col, Missing: n, Percent: pct})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Percent > out[j].Percent })
	return out
}

// Bin is one equal-width histogram bucket covering [Lo, Hi).
type Bin struct {
	Lo, Hi float64
	Count  int
}

// Histogram counts vals into equal-width bins spanning their range. The
// maximum falls in the last bin. A constant input yields one bin. NaN and
// infinite values are skipped.
func Histogram(vals []float64, bins int) ([]Bin, error) {
	if bins < 1 {
		return nil, fmt.Errorf("bins must be positive, got %d", bins)
	}
	sorted := make([]float64, 0, len(vals))
	for _, v := range vals {
		if finite(v) {
			sorted = append(sorted, v)
		}
	}
	if len(sorted) == 0 {
		return nil, nil
	}
	sort.Float64s(sorted)
	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		return []Bin{{Lo: lo, Hi: hi, Count: len(sorted)}}, nil
	}
	if !finite(hi - lo) {
		return nil, fmt.Errorf("range %g to %g is too wide to bin", lo, hi)
	}
	dividers := floats.Span(make([]float64, bins+1), lo, hi)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))
	counts := stat.Histogram(nil, dividers, sorted, nil)

	out := make([]Bin, bins)
	for i := range out {
		out[i] = Bin{Lo: dividers[i], Hi: dividers[i+1], Count: int(counts[i])}
	}
	out[bins-1].Hi = hi
	return out, nil
}

// PairSummary describes the linear relationship of Y on X.
type PairSummary struct {
	X, Y      string
	N         int
	R         float64
	Intercept float64
	Slope     float64
}

// PairSummaries fits every unordered pair of cols, in combination order.
// Rows missing either value are skipped.
func PairSummaries(t *table.Table, cols []string) ([]PairSummary, error) {
	if err := t.Require(cols...); err != nil {
		return nil, err
	}
	var out []PairSummary
	for i := 0; i < len(cols); i++ {
		for j := i + 1; j < len(cols); j++ {
			xs, ys := pairedValues(t, cols[i], cols[j])
			p := PairSummary{X: cols[i], Y: cols[j], N: len(xs)}
			if len(xs) >= 2 {
				p.R = stat.Correlation(xs, ys, nil)
				p.Intercept, p.Slope = stat.LinearRegression(xs, ys, nil, false)
			}
			if math.IsNaN(p.R) {
				p.R = 0
			}
			out = append(out, p)
		}
	}
	return out, nil
}

func pairedValues(t *table.Table, x, y string) ([]float64, []float64) {
	var xs, ys []float64
	for i := 0; i < t.Len(); i++ {
		a, okA := t.Value(i, x).Float()
		b, okB := t.Value(i, y).Float()
		if okA && okB && finite(a) && finite(b) {
			xs = append(xs, a)
			ys = append(ys, b)
		}
	}
	return xs, ys
}

// GroupSummary is the distribution of one numeric column within one category.
type GroupSummary struct {
	Category string
	Value    string
	Column   string
	Count    int
	Mean     float64
	Min      float64
	Q1       float64
	Median   float64
	Q3       float64
	Max      float64
}

// GroupSummaries summarizes each continuous column per value of cat.
// Results are ordered by column, then by category value.
func GroupSummaries(t *table.Table, cat string, cont []string) ([]GroupSummary, error) {
	if err := t.Require(cat); err != nil {
		return nil, err
	}
	if err := t.Require(cont...); err != nil {
		return nil, err
	}
	if len(cont) == 0 {
		return nil, errors.New("no continuous columns to group")
	}
	var out []GroupSummary
	for _, col := range cont {
		groups := map[string][]float64{}
		for i := 0; i < t.Len(); i++ {
			f, ok := t.Value(i, col).Float()
			if !ok || !finite(f) {
				continue
			}
			k := t.Value(i, cat).String()
			groups[k] = append(groups[k], f)
		}
		keys := make([]string, 0, len(groups))
		for k := range groups {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			vals := groups[k]
			sort.Float64s(vals)
			out = append(out, GroupSummary{
				Category: cat,
				Value:    k,
				Column:   col,
				Count:    len(vals),
				Mean:     stat.Mean(vals, nil),
				Min:      vals[0],
				Q1:       stat.Quantile(0.25, stat.Empirical, vals, nil),
				Median:   stat.Quantile(0.5, stat.Empirical, vals, nil),
				Q3:       stat.Quantile(0.75, stat.Empirical, vals, nil),
				Max:      vals[len(vals)-1],
			})
		}
	}
	return out, nil
}
