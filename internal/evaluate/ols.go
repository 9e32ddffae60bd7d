package evaluate

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/KaramelBytes/housewrangle/internal/table"
)

// LinearModel is an ordinary least squares fit with an intercept.
type LinearModel struct {
	Intercept float64
	Coef      []float64
}

// FitOLS fits y on the feature columns X (X[j] holds feature j for every
// observation).
func FitOLS(X [][]float64, y []float64) (*LinearModel, error) {
	n, p := len(y), len(X)
	if n == 0 {
		return nil, ErrEmpty
	}
	for j, col := range X {
		if len(col) != n {
			return nil, fmt.Errorf("%w: feature %d has %d values, target has %d", ErrLengthMismatch, j, len(col), n)
		}
	}
	if n <= p {
		return nil, fmt.Errorf("need more observations (%d) than features (%d)", n, p)
	}

	a := mat.NewDense(n, p+1, nil)
	for i := 0; i < n; i++ {
		a.Set(i, 0, 1)
		for j := 0; j < p; j++ {
			a.Set(i, j+1, X[j][i])
		}
	}
	b := mat.NewDense(n, 1, append([]float64(nil), y...))

	var beta mat.Dense
	if err := beta.Solve(a, b); err != nil {
		return nil, fmt.Errorf("solve least squares: %w", err)
	}
	m := &LinearModel{Intercept: beta.At(0, 0), Coef: make([]float64, p)}
	for j := range m.Coef {
		m.Coef[j] = beta.At(j+1, 0)
	}
	return m, nil
}

// Predict returns the fitted values for the feature columns X.
func (m *LinearModel) Predict(X [][]float64) ([]float64, error) {
	if len(X) != len(m.Coef) {
		return nil, fmt.Errorf("%w: model has %d features, got %d", ErrLengthMismatch, len(m.Coef), len(X))
	}
	if len(X) == 0 {
		return nil, ErrEmpty
	}
	n := len(X[0])
	out := make([]float64, n)
	for i := range out {
		out[i] = m.Intercept
	}
	for j, col := range X {
		if len(col) != n {
			return nil, fmt.Errorf("%w: feature %d has %d values, want %d", ErrLengthMismatch, j, len(col), n)
		}
		for i, v := range col {
			out[i] += m.Coef[j] * v
		}
	}
	return out, nil
}

// Features extracts the named numeric columns from t in column-major order.
func Features(t *table.Table, cols []string) ([][]float64, error) {
	out := make([][]float64, len(cols))
	for j, c := range cols {
		vals, err := t.Floats(c)
		if err != nil {
			return nil, err
		}
		out[j] = vals
	}
	return out, nil
}
