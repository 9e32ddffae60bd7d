package evaluate

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// FRegression returns the univariate F statistic of each feature against y.
// Constant features score 0.
func FRegression(X [][]float64, y []float64) ([]float64, error) {
	n := len(y)
	if n < 3 {
		return nil, fmt.Errorf("need at least 3 observations, got %d", n)
	}
	scores := make([]float64, len(X))
	for j, col := range X {
		if len(col) != n {
			return nil, fmt.Errorf("%w: feature %d has %d values, target has %d", ErrLengthMismatch, j, len(col), n)
		}
		r := stat.Correlation(col, y, nil)
		switch {
		case math.IsNaN(r):
			scores[j] = 0
		case r*r >= 1:
			scores[j] = math.Inf(1)
		default:
			scores[j] = r * r / (1 - r*r) * float64(n-2)
		}
	}
	return scores, nil
}

// SelectKBest returns the names of the k features with the highest F scores,
// in their input order.
func SelectKBest(X [][]float64, names []string, y []float64, k int) ([]string, error) {
	if len(names) != len(X) {
		return nil, fmt.Errorf("%w: %d names for %d features", ErrLengthMismatch, len(names), len(X))
	}
	if k < 1 || k > len(X) {
		return nil, fmt.Errorf("k must be between 1 and %d, got %d", len(X), k)
	}
	scores, err := FRegression(X, y)
	if err != nil {
		return nil, err
	}
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return scores[order[a]] > scores[order[b]] })
	chosen := append([]int(nil), order[:k]...)
	sort.Ints(chosen)
	out := make([]string, k)
	for i, j := range chosen {
		out[i] = names[j]
	}
	return out, nil
}

// RFE repeatedly fits OLS and drops the feature with the smallest absolute
// coefficient until n remain. The survivors are returned in input order.
func RFE(X [][]float64, names []string, y []float64, n int) ([]string, error) {
	if len(names) != len(X) {
		return nil, fmt.Errorf("%w: %d names for %d features", ErrLengthMismatch, len(names), len(X))
	}
	if n < 1 || n > len(X) {
		return nil, fmt.Errorf("n must be between 1 and %d, got %d", len(X), n)
	}
	remain := make([]int, len(X))
	for i := range remain {
		remain[i] = i
	}
	for len(remain) > n {
		cols := make([][]float64, len(remain))
		for i, j := range remain {
			cols[i] = X[j]
		}
		m, err := FitOLS(cols, y)
		if err != nil {
			return nil, err
		}
		weakest := 0
		for i := 1; i < len(m.Coef); i++ {
			if math.Abs(m.Coef[i]) < math.Abs(m.Coef[weakest]) {
				weakest = i
			}
		}
		remain = append(remain[:weakest], remain[weakest+1:]...)
	}
	out := make([]string, len(remain))
	for i, j := range remain {
		out[i] = names[j]
	}
	return out, nil
}
