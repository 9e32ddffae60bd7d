package wrangle

// Column names of the housing transactions table.
const (
	ColParcelID        = "parcel_id"
	ColTaxValue        = "tax_value"
	ColBathrooms       = "bathroom_cnt"
	ColBedrooms        = "bedroom_cnt"
	ColSqft            = "sqft_calculated"
	ColHasPool         = "has_pool"
	ColGarageCarCount  = "garage_car_count"
	ColHasGarage       = "has_garage"
	ColFIPS            = "fips"
	ColTaxAmount       = "tax_amount"
	ColTransactionDate = "transaction_date"
)

// OutlierColumns are the columns screened for outliers by default.
var OutlierColumns = []string{ColSqft, ColBedrooms, ColBathrooms}
