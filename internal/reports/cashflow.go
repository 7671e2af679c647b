package reports

import (
	"sort"

	"github.com/shopspring/decimal"

	"insurance-analytics/internal/model"
)

type cashFlowKey struct {
	day       int64
	productID int64
}

type cashFlowAcc struct {
	date        model.Date
	productName string
	expected    decimal.Decimal
	actual      decimal.NullDecimal
}

// CashFlow groups records by (date, product) and compares expected against
// actual totals. Missing actuals are left out of the actual total; a group
// with no actuals at all reports a null actual, difference and accuracy.
func CashFlow(records []model.FinancialRecord) []model.CashFlowRow {
	groups := make(map[cashFlowKey]*cashFlowAcc)
	var keys []cashFlowKey

	for _, r := range records {
		k := cashFlowKey{day: r.Date.Unix(), productID: r.ProductID}
		acc, ok := groups[k]
		if !ok {
			acc = &cashFlowAcc{date: r.Date, productName: r.ProductName}
			groups[k] = acc
			keys = append(keys, k)
		}
		acc.expected = acc.expected.Add(r.ExpectedAmount)
		acc.actual = sumPresent(acc.actual, r.ActualAmount)
	}

	rows := make([]model.CashFlowRow, 0, len(keys))
	for _, k := range keys {
		acc := groups[k]
		row := model.CashFlowRow{
			Date:           acc.date,
			ProductID:      k.productID,
			ProductName:    acc.productName,
			ExpectedAmount: acc.expected,
			ActualAmount:   acc.actual,
		}
		if acc.actual.Valid {
			row.Difference = decimal.NewNullDecimal(acc.actual.Decimal.Sub(acc.expected))
			if !acc.expected.IsZero() {
				a := percent(acc.actual.Decimal, acc.expected)
				row.Accuracy = &a
			}
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if !a.Date.Equal(b.Date.Time) {
			return a.Date.Before(b.Date.Time)
		}
		if a.ProductName != b.ProductName {
			return a.ProductName < b.ProductName
		}
		return a.ProductID < b.ProductID
	})
	return rows
}
