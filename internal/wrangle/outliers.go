package wrangle

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/housewrangle/internal/table"
)

// DefaultThreshold is the |z| bound a row must stay strictly under.
const DefaultThreshold = 3.0

// ZScores returns the population standard score of each value:
// (x - mean) / stddev with divisor n. A constant column scores 0 everywhere.
// A NaN or infinite input makes every score NaN, which no bound accepts.
func ZScores(vals []float64) []float64 {
	out := make([]float64, len(vals))
	if len(vals) == 0 || constant(vals) {
		return out
	}
	mean, std := stat.PopMeanStdDev(vals, nil)
	if std == 0 {
		return out
	}
	for i, v := range vals {
		out[i] = (v - mean) / std
	}
	return out
}

// StandardScores computes ZScores for every column of t, keyed by column name.
func StandardScores(t *table.Table) (map[string][]float64, error) {
	scores := make(map[string][]float64, len(t.Columns()))
	for _, col := range t.Columns() {
		vals, err := t.Floats(col)
		if err != nil {
			return nil, err
		}
		scores[col] = ZScores(vals)
	}
	return scores, nil
}

// OutlierFreeKeys returns the keys of rows whose |z| is strictly below
// threshold in every column of t. t is normally a projection of the
// columns to screen.
func OutlierFreeKeys(t *table.Table, threshold float64) (table.KeySet, error) {
	scores, err := StandardScores(t)
	if err != nil {
		return nil, err
	}
	keep := table.NewKeySet()
	for i, k := range t.Keys() {
		ok := true
		for _, s := range scores {
			if !(math.Abs(s[i]) < threshold) {
				ok = false
				break
			}
		}
		if ok {
			keep[k] = struct{}{}
		}
	}
	return keep, nil
}

// constant reports whether every value is the same finite number.
func constant(vals []float64) bool {
	for _, v := range vals {
		if v != vals[0] || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
