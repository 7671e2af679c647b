package reports

import (
	"sort"

	"github.com/shopspring/decimal"

	"insurance-analytics/internal/model"
)

type lossRatioKey struct {
	productID int64
	year      int
	month     int
}

type lossRatioAcc struct {
	productName string
	premium     decimal.Decimal
	losses      decimal.Decimal
}

// LossRatio groups records by product and calendar month. Unconfirmed
// premiums and claims count as zero.
func LossRatio(records []model.FinancialRecord) []model.LossRatioRow {
	groups := make(map[lossRatioKey]*lossRatioAcc)
	var keys []lossRatioKey

	for _, r := range records {
		k := lossRatioKey{productID: r.ProductID, year: r.Date.Year(), month: int(r.Date.Month())}
		acc, ok := groups[k]
		if !ok {
			acc = &lossRatioAcc{productName: r.ProductName}
			groups[k] = acc
			keys = append(keys, k)
		}
		switch r.PaymentKind {
		case model.PaymentPremium:
			acc.premium = acc.premium.Add(orZero(r.ActualAmount))
		case model.PaymentClaim:
			acc.losses = acc.losses.Add(orZero(r.ActualAmount))
		}
	}

	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.productID != b.productID {
			return a.productID < b.productID
		}
		if a.year != b.year {
			return a.year < b.year
		}
		return a.month < b.month
	})

	rows := make([]model.LossRatioRow, 0, len(keys))
	for _, k := range keys {
		acc := groups[k]
		rows = append(rows, model.LossRatioRow{
			ProductID:      k.productID,
			ProductName:    acc.productName,
			Year:           k.year,
			Month:          k.month,
			EarnedPremium:  acc.premium,
			IncurredLosses: acc.losses,
			LossRatio:      lossRatio(acc.losses, acc.premium),
		})
	}
	return rows
}

// lossRatio floors at 0 when no premium was earned.
func lossRatio(losses, premium decimal.Decimal) float64 {
	if !premium.IsPositive() {
		return 0
	}
	return percent(losses, premium)
}
