package prep

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/housewrangle/internal/table"
)

var errNotFitted = errors.New("scaler is not fitted")

// Scaler learns a transform from training values and applies it to others.
type Scaler interface {
	Fit(vals []float64) error
	Transform(vals []float64) ([]float64, error)
}

// MinMaxScaler maps the fitted range onto [0,1]. A constant training column
// maps every value to 0.
type MinMaxScaler struct {
	Min, Max float64
	fitted   bool
}

func (s *MinMaxScaler) Fit(vals []float64) error {
	if len(vals) == 0 {
		return errors.New("fit: no values")
	}
	s.Min, s.Max = floats.Min(vals), floats.Max(vals)
	s.fitted = true
	return nil
}

func (s *MinMaxScaler) Transform(vals []float64) ([]float64, error) {
	if !s.fitted {
		return nil, errNotFitted
	}
	out := make([]float64, len(vals))
	span := s.Max - s.Min
	if span == 0 {
		return out, nil
	}
	for i, v := range vals {
		out[i] = (v - s.Min) / span
	}
	return out, nil
}

// Inverse maps scaled values back to the original range.
func (s *MinMaxScaler) Inverse(vals []float64) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = v*(s.Max-s.Min) + s.Min
	}
	return out
}

// StandardScaler centres on the training mean and divides by the population
// standard deviation. Zero variance maps every value to 0.
type StandardScaler struct {
	Mean, Std float64
	fitted    bool
}

func (s *StandardScaler) Fit(vals []float64) error {
	if len(vals) == 0 {
		return errors.New("fit: no values")
	}
	s.Mean, s.Std = stat.PopMeanStdDev(vals, nil)
	s.fitted = true
	return nil
}

func (s *StandardScaler) Transform(vals []float64) ([]float64, error) {
	if !s.fitted {
		return nil, errNotFitted
	}
	out := make([]float64, len(vals))
	if s.Std == 0 {
		return out, nil
	}
	for i, v := range vals {
		out[i] = (v - s.Mean) / s.Std
	}
	return out, nil
}

// Inverse maps standardized values back to the original scale.
func (s *StandardScaler) Inverse(vals []float64) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = v*s.Std + s.Mean
	}
	return out
}

// NewScaler returns a fresh scaler by name: "minmax" or "standard".
func NewScaler(name string) (Scaler, error) {
	switch name {
	case "minmax", "min_max":
		return &MinMaxScaler{}, nil
	case "standard", "zscore":
		return &StandardScaler{}, nil
	}
	return nil, fmt.Errorf("unknown scaler %q (use minmax or standard)", name)
}

// Scaled is the result of ScaleColumns.
type Scaled struct {
	Split   *Split
	Scalers map[string]Scaler
	Columns []string
}

// ScaleColumns fits one scaler per column on the training rows and adds a
// "<col>_<suffix>" column to all three partitions. The input split is not
// modified.
func ScaleColumns(s *Split, cols []string, newScaler func() Scaler, suffix string) (*Scaled, error) {
	out := &Scaled{
		Split:   &Split{Train: s.Train, Validate: s.Validate, Test: s.Test},
		Scalers: make(map[string]Scaler, len(cols)),
	}
	for _, col := range cols {
		sc := newScaler()
		train, err := s.Train.Floats(col)
		if err != nil {
			return nil, err
		}
		if err := sc.Fit(train); err != nil {
			return nil, fmt.Errorf("fit %s: %w", col, err)
		}
		name := col + "_" + suffix
		parts := []**table.Table{&out.Split.Train, &out.Split.Validate, &out.Split.Test}
		for _, p := range parts {
			if *p, err = addScaled(*p, col, name, sc); err != nil {
				return nil, err
			}
		}
		out.Scalers[col] = sc
		out.Columns = append(out.Columns, name)
	}
	return out, nil
}

func addScaled(t *table.Table, col, name string, sc Scaler) (*table.Table, error) {
	vals, err := t.Floats(col)
	if err != nil {
		return nil, err
	}
	scaled, err := sc.Transform(vals)
	if err != nil {
		return nil, err
	}
	cells := make([]table.Value, len(scaled))
	for i, v := range scaled {
		cells[i] = table.Num(v)
	}
	return t.WithColumn(name, cells)
}
