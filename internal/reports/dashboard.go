package reports

import (
	"sort"

	"github.com/shopspring/decimal"

	"insurance-analytics/internal/model"
)

const topProductsLimit = 5

// Dashboard computes the portfolio headline figures over every record.
func Dashboard(records []model.FinancialRecord, claims []model.Claim, snapshots []model.ReserveSnapshot, policyCount int64) model.DashboardSummary {
	sum := model.DashboardSummary{
		TotalPremium: decimal.Zero,
		TotalClaims:  decimal.Zero,
		OpenClaims:   decimal.Zero,
		PolicyCount:  policyCount,
		TopProducts:  []model.ProductSummary{},
	}

	byProduct := make(map[int64]*model.ProductSummary)
	var order []int64
	for _, r := range records {
		p, ok := byProduct[r.ProductID]
		if !ok {
			p = &model.ProductSummary{ProductID: r.ProductID, ProductName: r.ProductName}
			byProduct[r.ProductID] = p
			order = append(order, r.ProductID)
		}
		amount := orZero(r.ActualAmount)
		switch r.PaymentKind {
		case model.PaymentPremium:
			sum.TotalPremium = sum.TotalPremium.Add(amount)
			p.Premium = p.Premium.Add(amount)
		case model.PaymentClaim:
			sum.TotalClaims = sum.TotalClaims.Add(amount)
			p.Claims = p.Claims.Add(amount)
		}
	}

	for _, c := range claims {
		if c.IsOpen() {
			sum.OpenClaims = sum.OpenClaims.Add(c.ReserveAmount)
		}
	}

	sum.LossRatio = lossRatio(sum.TotalClaims, sum.TotalPremium)
	sum.ReserveSufficiency = 100
	if sum.OpenClaims.IsPositive() {
		available := decimal.Zero
		if latest, ok := latestSnapshot(snapshots); ok {
			available = latest.AvailableReserves
		}
		sum.ReserveSufficiency = percent(available, sum.OpenClaims)
	}

	products := make([]model.ProductSummary, 0, len(order))
	for _, id := range order {
		products = append(products, *byProduct[id])
	}
	sort.SliceStable(products, func(i, j int) bool {
		if c := products[i].Premium.Cmp(products[j].Premium); c != 0 {
			return c > 0
		}
		return products[i].ProductName < products[j].ProductName
	})
	if len(products) > topProductsLimit {
		products = products[:topProductsLimit]
	}
	sum.TopProducts = products
	return sum
}

func latestSnapshot(snapshots []model.ReserveSnapshot) (model.ReserveSnapshot, bool) {
	var latest model.ReserveSnapshot
	found := false
	for _, s := range snapshots {
		if !found || s.CalculationDate.After(latest.CalculationDate.Time) ||
			(s.CalculationDate.Equal(latest.CalculationDate.Time) && s.ID > latest.ID) {
			latest = s
			found = true
		}
	}
	return latest, found
}
