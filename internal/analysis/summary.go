package analysis

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/housewrangle/internal/table"
	"github.com/KaramelBytes/housewrangle/internal/wrangle"
)

// Options controls exploration of a table.
type Options struct {
	// SampleRows determines how many example rows to include in the report.
	SampleRows int
	// OutlierThreshold counts numeric values with |z| at or above it. 0 disables.
	OutlierThreshold float64
	// Pairs lists numeric columns summarized pairwise (correlation and fit line).
	Pairs []string
	// GroupBy is a categorical column; numeric columns are summarized per value.
	GroupBy string
	// Bins is the histogram bin count for numeric columns. 0 disables histograms.
	Bins int
}

// DefaultOptions returns reasonable defaults for dataset exploration.
func DefaultOptions() Options {
	return Options{
		SampleRows:       5,
		OutlierThreshold: wrangle.DefaultThreshold,
		Bins:             10,
	}
}

// Report is a markdown-friendly exploration of a table.
type Report struct {
	Name       string
	Rows       int
	Cols       []ColumnSummary
	Samples    [][]string
	Missing    []MissingStat
	Histograms map[string][]Bin
	Pairs      []PairSummary
	Groups     []GroupSummary
	Warnings   []string
}

// ColumnSummary captures inferred type and statistics per column.
type ColumnSummary struct {
	Name    string
	Kind    string // numeric|datetime|categorical|text|empty
	NonNull int
	Missing int
	Unique  int
	// Numeric stats; Std is the sample standard deviation.
	Min  float64
	Max  float64
	Mean float64
	Std  float64
	// Outliers by population z-score.
	OutliersCount    int
	OutliersMaxAbsZ  float64
	OutlierThreshold float64
	// NonFinite counts NaN or infinite numbers, which are left out of the stats.
	NonFinite    int
	TopValues    []CategoryCount
	ExampleTexts []string
}

type CategoryCount struct {
	Value string
	Count int
}

const maxCategoryLen = 64

// Summarize profiles every column of t.
func Summarize(name string, t *table.Table, opt Options) (*Report, error) {
	rep := &Report{Name: name, Rows: t.Len()}
	sampleRows := opt.SampleRows
	if sampleRows <= 0 {
		sampleRows = 5
	}
	for i := 0; i < t.Len() && i < sampleRows; i++ {
		vals := t.Row(i).Values()
		row := make([]string, len(vals))
		for j, v := range vals {
			row[j] = v.String()
		}
		rep.Samples = append(rep.Samples, row)
	}

	for _, col := range t.Columns() {
		vals, _ := t.Column(col)
		s := summarizeColumn(col, vals, opt.OutlierThreshold)
		rep.Cols = append(rep.Cols, s)
		if s.Kind == "numeric" && opt.Bins > 0 {
			if rep.Histograms == nil {
				rep.Histograms = map[string][]Bin{}
			}
			nums, _ := numbers(vals)
			h, err := Histogram(nums, opt.Bins)
			if err != nil {
				return nil, fmt.Errorf("histogram %s: %w", col, err)
			}
			rep.Histograms[col] = h
		}
		if s.NonFinite > 0 {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("column %s has %d non-finite values excluded from statistics", col, s.NonFinite))
		}
		if s.Kind != "numeric" && s.Kind != "empty" && s.NonNull > 0 {
			if nums, mixed := numbers(vals); mixed && len(nums) > 0 {
				rep.Warnings = append(rep.Warnings, fmt.Sprintf("column %s mixes numbers with other values", col))
			}
		}
	}
	rep.Missing = MissingValues(t)

	if len(opt.Pairs) >= 2 {
		pairs, err := PairSummaries(t, opt.Pairs)
		if err != nil {
			return nil, err
		}
		rep.Pairs = pairs
	}
	if opt.GroupBy != "" {
		var cont []string
		for _, c := range rep.Cols {
			if c.Kind == "numeric" && c.Name != opt.GroupBy {
				cont = append(cont, c.Name)
			}
		}
		groups, err := GroupSummaries(t, opt.GroupBy, cont)
		if err != nil {
			return nil, err
		}
		rep.Groups = groups
	}
	return rep, nil
}

func summarizeColumn(name string, vals []table.Value, threshold float64) ColumnSummary {
	s := ColumnSummary{Name: name}
	var nums []float64
	var dtCnt, txtCnt int
	cats := map[string]int{}
	longText := false
	for _, v := range vals {
		switch v.Kind() {
		case table.KindNull:
			s.Missing++
			continue
		case table.KindNumber:
			f, _ := v.Float()
			if finite(f) {
				nums = append(nums, f)
			} else {
				s.NonFinite++
			}
		case table.KindTime:
			dtCnt++
		case table.KindText:
			txt, _ := v.Text()
			if _, ok := wrangle.ParseDate(txt); ok {
				dtCnt++
				break
			}
			txtCnt++
			if len(txt) > maxCategoryLen {
				longText = true
			}
			if len(s.ExampleTexts) < 3 {
				s.ExampleTexts = append(s.ExampleTexts, txt)
			}
		}
		s.NonNull++
		cats[v.String()]++
	}
	s.Unique = len(cats)

	switch {
	case s.NonNull == 0:
		s.Kind = "empty"
	case len(nums)+s.NonFinite >= dtCnt && len(nums)+s.NonFinite >= txtCnt:
		s.Kind = "numeric"
		if len(nums) == 0 {
			break
		}
		s.Min, s.Max = math.Inf(1), math.Inf(-1)
		for _, x := range nums {
			s.Min = math.Min(s.Min, x)
			s.Max = math.Max(s.Max, x)
		}
		s.Mean, s.Std = stat.MeanStdDev(nums, nil)
		if len(nums) < 2 {
			s.Std = 0
		}
		if threshold > 0 {
			s.OutlierThreshold = threshold
			for _, z := range wrangle.ZScores(nums) {
				az := math.Abs(z)
				if az >= threshold {
					s.OutliersCount++
				}
				s.OutliersMaxAbsZ = math.Max(s.OutliersMaxAbsZ, az)
			}
		}
	case dtCnt >= txtCnt:
		s.Kind = "datetime"
	case !longText:
		s.Kind = "categorical"
		s.TopValues = topValues(cats, 8)
	default:
		s.Kind = "text"
	}
	if s.Kind != "text" {
		s.ExampleTexts = nil
	}
	return s
}

func topValues(cats map[string]int, limit int) []CategoryCount {
	tops := make([]CategoryCount, 0, len(cats))
	for k, v := range cats {
		tops = append(tops, CategoryCount{Value: k, Count: v})
	}
	sort.Slice(tops, func(i, j int) bool {
		if tops[i].Count == tops[j].Count {
			return tops[i].Value < tops[j].Value
		}
		return tops[i].Count > tops[j].Count
	})
	if len(tops) > limit {
		tops = tops[:limit]
	}
	return tops
}

// numbers returns the finite numeric values in vals and whether any non-null
// value was not a number.
func numbers(vals []table.Value) ([]float64, bool) {
	var out []float64
	mixed := false
	for _, v := range vals {
		if f, ok := v.Float(); ok {
			if finite(f) {
				out = append(out, f)
			}
		} else if !v.IsNull() {
			mixed = true
		}
	}
	return out, mixed
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
