package wrangle

import (
	"github.com/KaramelBytes/housewrangle/internal/table"
)

// ImputeAmenities fills missing pool flags with 0 and replaces the garage car
// count with a has_garage indicator (1 when the count is present and non-zero).
func ImputeAmenities(t *table.Table) (*table.Table, error) {
	if err := t.Require(ColHasPool, ColGarageCarCount); err != nil {
		return nil, err
	}
	pool, _ := t.Column(ColHasPool)
	for i, v := range pool {
		if v.IsNull() {
			pool[i] = table.Num(0)
		}
	}
	garage, _ := t.Column(ColGarageCarCount)
	hasGarage := make([]table.Value, len(garage))
	for i, v := range garage {
		hasGarage[i] = table.Num(0)
		if v.IsNull() {
			continue
		}
		if f, ok := v.Float(); ok && f == 0 {
			continue
		}
		hasGarage[i] = table.Num(1)
	}

	out, err := t.WithColumn(ColHasPool, pool)
	if err != nil {
		return nil, err
	}
	if out, err = out.WithColumn(ColHasGarage, hasGarage); err != nil {
		return nil, err
	}
	return out.Drop(ColGarageCarCount)
}
