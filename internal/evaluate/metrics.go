package evaluate

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

var (
	ErrEmpty          = errors.New("no observations")
	ErrLengthMismatch = errors.New("length mismatch")
)

// Errors are the regression error sums for a set of predictions.
type Errors struct {
	SSE  float64
	MSE  float64
	RMSE float64
	ESS  float64
	TSS  float64
}

func check(y, yhat []float64) error {
	if len(y) == 0 {
		return ErrEmpty
	}
	if len(y) != len(yhat) {
		return fmt.Errorf("%w: %d actuals, %d predictions", ErrLengthMismatch, len(y), len(yhat))
	}
	return nil
}

// Regression computes SSE, MSE, RMSE, ESS and TSS of yhat against y.
func Regression(y, yhat []float64) (Errors, error) {
	if err := check(y, yhat); err != nil {
		return Errors{}, err
	}
	mean := stat.Mean(y, nil)
	var e Errors
	for i := range y {
		d := y[i] - yhat[i]
		e.SSE += d * d
		x := yhat[i] - mean
		e.ESS += x * x
		t := y[i] - mean
		e.TSS += t * t
	}
	e.MSE = e.SSE / float64(len(y))
	e.RMSE = math.Sqrt(e.MSE)
	return e, nil
}

// Baseline computes SSE, MSE and RMSE of predicting the mean of y for every
// observation. ESS is 0 and TSS equals SSE.
func Baseline(y []float64) (Errors, error) {
	if len(y) == 0 {
		return Errors{}, ErrEmpty
	}
	mean := stat.Mean(y, nil)
	yhat := make([]float64, len(y))
	for i := range yhat {
		yhat[i] = mean
	}
	return Regression(y, yhat)
}

// BetterThanBaseline reports whether yhat has a strictly lower RMSE than the
// mean baseline.
func BetterThanBaseline(y, yhat []float64) (bool, error) {
	model, err := Regression(y, yhat)
	if err != nil {
		return false, err
	}
	base, err := Baseline(y)
	if err != nil {
		return false, err
	}
	return model.RMSE < base.RMSE, nil
}

// CompareSSE describes which of two models has the lower SSE.
func CompareSSE(sse1, sse2 float64, model1, model2 string) string {
	if model2 == "" {
		model2 = "baseline"
	}
	switch {
	case sse1 > sse2:
		return fmt.Sprintf("%s is not better than %s.", model1, model2)
	case sse1 < sse2:
		return fmt.Sprintf("%s is better than %s. Difference: %.2f", model1, model2, sse2-sse1)
	default:
		return fmt.Sprintf("%s performs the same as %s", model1, model2)
	}
}

// R2 is the coefficient of determination, 1 - SSE/TSS.
func R2(y, yhat []float64) (float64, error) {
	if err := check(y, yhat); err != nil {
		return 0, err
	}
	return stat.RSquaredFrom(yhat, y, nil), nil
}

// Residuals returns y - yhat.
func Residuals(y, yhat []float64) ([]float64, error) {
	if err := check(y, yhat); err != nil {
		return nil, err
	}
	out := make([]float64, len(y))
	for i := range y {
		out[i] = y[i] - yhat[i]
	}
	return out, nil
}
