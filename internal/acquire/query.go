package acquire

// ZillowQuery selects 2017 single-family transactions (May through August)
// with the columns the cleaning pipeline expects.
const ZillowQuery = `SELECT p.parcelid AS parcel_id,
	taxvaluedollarcnt AS tax_value,
	bathroomcnt AS bathroom_cnt,
	bedroomcnt AS bedroom_cnt,
	calculatedfinishedsquarefeet AS sqft_calculated,
	poolcnt AS has_pool,
	garagecarcnt AS garage_car_count,
	p.fips AS fips,
	taxamount AS tax_amount,
	transactiondate AS transaction_date
FROM properties_2017 AS p
JOIN predictions_2017 AS pred ON p.parcelid = pred.parcelid
WHERE p.propertylandusetypeid IN (261)
	AND pred.transactiondate BETWEEN '2017-05-01' AND '2017-08-31'`
