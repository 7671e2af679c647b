package model

import (
	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// AmountPlaces is the fixed scale of every monetary amount a report emits.
const AmountPlaces = 2

// FormatAmount renders d with exactly two fractional digits.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(AmountPlaces)
}

// fixedAmount and nullAmount are the wire forms of report amounts. Values
// decode back into decimal.Decimal unchanged.
type fixedAmount decimal.Decimal

func (a fixedAmount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + FormatAmount(decimal.Decimal(a)) + `"`), nil
}

type nullAmount decimal.NullDecimal

func (a nullAmount) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return []byte("null"), nil
	}
	return fixedAmount(a.Decimal).MarshalJSON()
}

func (r CashFlowRow) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date           Date        `json:"date"`
		ProductID      int64       `json:"product_id"`
		ProductName    string      `json:"product_name"`
		ExpectedAmount fixedAmount `json:"expected_amount"`
		ActualAmount   nullAmount  `json:"actual_amount"`
		Difference     nullAmount  `json:"difference"`
		Accuracy       *float64    `json:"accuracy"`
	}{
		r.Date, r.ProductID, r.ProductName,
		fixedAmount(r.ExpectedAmount), nullAmount(r.ActualAmount), nullAmount(r.Difference),
		r.Accuracy,
	})
}

func (r ReserveRow) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ProductID         int64       `json:"product_id"`
		ProductName       string      `json:"product_name"`
		CalculationDate   Date        `json:"calculation_date"`
		TotalReserves     fixedAmount `json:"total_reserves"`
		RequiredReserves  fixedAmount `json:"required_reserves"`
		AvailableReserves fixedAmount `json:"available_reserves"`
		StressScenario    string      `json:"stress_scenario"`
		SufficiencyRatio  float64     `json:"sufficiency_ratio"`
	}{
		r.ProductID, r.ProductName, r.CalculationDate,
		fixedAmount(r.TotalReserves), fixedAmount(r.RequiredReserves), fixedAmount(r.AvailableReserves),
		r.StressScenario, r.SufficiencyRatio,
	})
}

func (r LossRatioRow) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ProductID      int64       `json:"product_id"`
		ProductName    string      `json:"product_name"`
		Year           int         `json:"year"`
		Month          int         `json:"month"`
		EarnedPremium  fixedAmount `json:"earned_premium"`
		IncurredLosses fixedAmount `json:"incurred_losses"`
		LossRatio      float64     `json:"loss_ratio"`
	}{
		r.ProductID, r.ProductName, r.Year, r.Month,
		fixedAmount(r.EarnedPremium), fixedAmount(r.IncurredLosses), r.LossRatio,
	})
}

func (p HistoricalPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		BucketStart    Date        `json:"bucket_start"`
		ActualAmount   fixedAmount `json:"actual_amount"`
		ExpectedAmount fixedAmount `json:"expected_amount"`
		RollingMean    nullAmount  `json:"rolling_mean"`
	}{
		p.BucketStart, fixedAmount(p.ActualAmount), fixedAmount(p.ExpectedAmount), nullAmount(p.RollingMean),
	})
}

func (p ForecastPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		BucketStart Date        `json:"bucket_start"`
		Amount      fixedAmount `json:"amount"`
	}{p.BucketStart, fixedAmount(p.Amount)})
}

func (r StressTestResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Scenario       string      `json:"scenario"`
		StressFactor   float64     `json:"stress_factor"`
		TotalPremium   fixedAmount `json:"total_premium"`
		NormalClaims   fixedAmount `json:"normal_claims"`
		StressedClaims fixedAmount `json:"stressed_claims"`
		Reserves       fixedAmount `json:"reserves"`
		Impact         float64     `json:"impact"`
	}{
		r.Scenario, r.StressFactor,
		fixedAmount(r.TotalPremium), fixedAmount(r.NormalClaims), fixedAmount(r.StressedClaims),
		fixedAmount(r.Reserves), r.Impact,
	})
}

func (s DashboardSummary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		TotalPremium       fixedAmount      `json:"total_premium"`
		TotalClaims        fixedAmount      `json:"total_claims"`
		OpenClaims         fixedAmount      `json:"open_claims"`
		PolicyCount        int64            `json:"policy_count"`
		LossRatio          float64          `json:"loss_ratio"`
		ReserveSufficiency float64          `json:"reserve_sufficiency"`
		TopProducts        []ProductSummary `json:"top_products"`
	}{
		fixedAmount(s.TotalPremium), fixedAmount(s.TotalClaims), fixedAmount(s.OpenClaims),
		s.PolicyCount, s.LossRatio, s.ReserveSufficiency, s.TopProducts,
	})
}

func (p ProductSummary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ProductID   int64       `json:"product_id"`
		ProductName string      `json:"product_name"`
		Premium     fixedAmount `json:"premium"`
		Claims      fixedAmount `json:"claims"`
	}{p.ProductID, p.ProductName, fixedAmount(p.Premium), fixedAmount(p.Claims)})
}
