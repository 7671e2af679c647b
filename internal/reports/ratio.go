package reports

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// percent returns num/den*100. Callers guard den against zero.
func percent(num, den decimal.Decimal) float64 {
	return num.Div(den).Mul(hundred).InexactFloat64()
}

func sumPresent(acc decimal.NullDecimal, v decimal.NullDecimal) decimal.NullDecimal {
	if !v.Valid {
		return acc
	}
	if !acc.Valid {
		return v
	}
	return decimal.NewNullDecimal(acc.Decimal.Add(v.Decimal))
}

// orZero treats a missing amount as zero.
func orZero(v decimal.NullDecimal) decimal.Decimal {
	if !v.Valid {
		return decimal.Zero
	}
	return v.Decimal
}
