package prep

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/KaramelBytes/housewrangle/internal/table"
)

// DefaultSeed makes splits reproducible across runs.
const DefaultSeed uint64 = 713

// SplitOptions controls Split.
type SplitOptions struct {
	// TestFraction is the share of all rows held out for testing.
	TestFraction float64
	// ValidateFraction is the share of the remaining rows held out for validation.
	ValidateFraction float64
	Seed             uint64
}

// DefaultSplitOptions returns a 0.2 test split followed by a 0.3 validate split.
func DefaultSplitOptions() SplitOptions {
	return SplitOptions{TestFraction: 0.2, ValidateFraction: 0.3, Seed: DefaultSeed}
}

// Split is a train/validate/test partition of one table.
type Split struct {
	Train    *table.Table
	Validate *table.Table
	Test     *table.Table
}

// SplitTable shuffles t deterministically and partitions it. Held-out sizes
// round up; each partition keeps the shuffled order.
func SplitTable(t *table.Table, opt SplitOptions) (*Split, error) {
	if opt.TestFraction <= 0 || opt.TestFraction >= 1 {
		return nil, fmt.Errorf("test fraction must be in (0,1), got %v", opt.TestFraction)
	}
	if opt.ValidateFraction <= 0 || opt.ValidateFraction >= 1 {
		return nil, fmt.Errorf("validate fraction must be in (0,1), got %v", opt.ValidateFraction)
	}
	n := t.Len()
	nTest := int(math.Ceil(float64(n) * opt.TestFraction))
	rest := n - nTest
	nVal := int(math.Ceil(float64(rest) * opt.ValidateFraction))
	if nTest == 0 || rest-nVal <= 0 {
		return nil, errors.New("too few rows to split into train, validate and test")
	}

	rng := rand.New(rand.NewPCG(opt.Seed, opt.Seed))
	perm := rng.Perm(n)
	test, remain := perm[:nTest], perm[nTest:]

	rng = rand.New(rand.NewPCG(opt.Seed, opt.Seed))
	rng.Shuffle(len(remain), func(i, j int) { remain[i], remain[j] = remain[j], remain[i] })
	validate, train := remain[:nVal], remain[nVal:]

	return &Split{
		Train:    t.Take(train),
		Validate: t.Take(validate),
		Test:     t.Take(test),
	}, nil
}

// Shapes returns the row counts of train, validate and test.
func (s *Split) Shapes() (train, validate, test int) {
	return s.Train.Len(), s.Validate.Len(), s.Test.Len()
}
