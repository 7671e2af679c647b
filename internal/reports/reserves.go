package reports

import (
	"sort"
	"time"

	"insurance-analytics/internal/model"
)

// Reserves reports every snapshot calculated within [from, to]. Snapshots are
// independent facts: nothing is interpolated between them.
func Reserves(snapshots []model.ReserveSnapshot, from, to time.Time, productID *int64) []model.ReserveRow {
	rows := make([]model.ReserveRow, 0, len(snapshots))
	for _, s := range snapshots {
		if s.CalculationDate.Before(from) || s.CalculationDate.After(to) {
			continue
		}
		if productID != nil && s.ProductID != *productID {
			continue
		}
		rows = append(rows, model.ReserveRow{
			ProductID:         s.ProductID,
			ProductName:       s.ProductName,
			CalculationDate:   s.CalculationDate,
			TotalReserves:     s.TotalReserves,
			RequiredReserves:  s.RequiredReserves,
			AvailableReserves: s.AvailableReserves,
			StressScenario:    s.StressScenario,
			SufficiencyRatio:  SufficiencyRatio(s),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].CalculationDate.Equal(rows[j].CalculationDate.Time) {
			return rows[i].CalculationDate.Before(rows[j].CalculationDate.Time)
		}
		return rows[i].ProductID < rows[j].ProductID
	})
	return rows
}

// SufficiencyRatio is available/required*100, or 100 when nothing is required.
func SufficiencyRatio(s model.ReserveSnapshot) float64 {
	if !s.RequiredReserves.IsPositive() {
		return 100
	}
	return percent(s.AvailableReserves, s.RequiredReserves)
}
