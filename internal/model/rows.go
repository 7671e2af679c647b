package model

import "github.com/shopspring/decimal"

type CashFlowRow struct {
	Date           Date                `json:"date"`
	ProductID      int64               `json:"product_id"`
	ProductName    string              `json:"product_name"`
	ExpectedAmount decimal.Decimal     `json:"expected_amount"`
	ActualAmount   decimal.NullDecimal `json:"actual_amount"`
	Difference     decimal.NullDecimal `json:"difference"`
	Accuracy       *float64            `json:"accuracy"`
}

type ReserveRow struct {
	ProductID         int64           `json:"product_id"`
	ProductName       string          `json:"product_name"`
	CalculationDate   Date            `json:"calculation_date"`
	TotalReserves     decimal.Decimal `json:"total_reserves"`
	RequiredReserves  decimal.Decimal `json:"required_reserves"`
	AvailableReserves decimal.Decimal `json:"available_reserves"`
	StressScenario    string          `json:"stress_scenario"`
	SufficiencyRatio  float64         `json:"sufficiency_ratio"`
}

type LossRatioRow struct {
	ProductID      int64           `json:"product_id"`
	ProductName    string          `json:"product_name"`
	Year           int             `json:"year"`
	Month          int             `json:"month"`
	EarnedPremium  decimal.Decimal `json:"earned_premium"`
	IncurredLosses decimal.Decimal `json:"incurred_losses"`
	LossRatio      float64         `json:"loss_ratio"`
}

type Granularity string

const (
	Weekly  Granularity = "weekly"
	Monthly Granularity = "monthly"
)

type ForecastResult struct {
	Granularity Granularity       `json:"granularity"`
	Historical  []HistoricalPoint `json:"historical"`
	Forecast    []ForecastPoint   `json:"forecast"`
	Message     string            `json:"message,omitempty"`
}

type HistoricalPoint struct {
	BucketStart    Date                `json:"bucket_start"`
	ActualAmount   decimal.Decimal     `json:"actual_amount"`
	ExpectedAmount decimal.Decimal     `json:"expected_amount"`
	RollingMean    decimal.NullDecimal `json:"rolling_mean"`
}

type ForecastPoint struct {
	BucketStart Date            `json:"bucket_start"`
	Amount      decimal.Decimal `json:"amount"`
}

type StressTestResult struct {
	Scenario       string          `json:"scenario"`
	StressFactor   float64         `json:"stress_factor"`
	TotalPremium   decimal.Decimal `json:"total_premium"`
	NormalClaims   decimal.Decimal `json:"normal_claims"`
	StressedClaims decimal.Decimal `json:"stressed_claims"`
	Reserves       decimal.Decimal `json:"reserves"`
	Impact         float64         `json:"impact"`
}

type DashboardSummary struct {
	TotalPremium       decimal.Decimal  `json:"total_premium"`
	TotalClaims        decimal.Decimal  `json:"total_claims"`
	OpenClaims         decimal.Decimal  `json:"open_claims"`
	PolicyCount        int64            `json:"policy_count"`
	LossRatio          float64          `json:"loss_ratio"`
	ReserveSufficiency float64          `json:"reserve_sufficiency"`
	TopProducts        []ProductSummary `json:"top_products"`
}

type ProductSummary struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Premium     decimal.Decimal `json:"premium"`
	Claims      decimal.Decimal `json:"claims"`
}
