package reports

import (
	"strings"

	"github.com/shopspring/decimal"

	"insurance-analytics/internal/model"
)

const DefaultScenario = "medium"

var scenarioFactors = map[string]float64{
	"low":     1.2,
	"medium":  1.5,
	"high":    2.0,
	"extreme": 3.0,
}

// StressFactor returns the multiplier for a scenario; unknown names fall back
// to the medium scenario and report known=false.
func StressFactor(scenario string) (factor float64, known bool) {
	f, ok := scenarioFactors[strings.ToLower(strings.TrimSpace(scenario))]
	if !ok {
		return scenarioFactors[DefaultScenario], false
	}
	return f, true
}

// StressTest multiplies paid claims by the scenario factor and expresses the
// extra loss as a share of total premium. premiums is the portfolio-wide
// premium record set; claims is already scoped to the requested product.
func StressTest(premiums []model.FinancialRecord, claims []model.Claim, scenario string) (model.StressTestResult, error) {
	if strings.TrimSpace(scenario) == "" {
		scenario = DefaultScenario
	}
	factor, _ := StressFactor(scenario)

	totalPremium := decimal.Zero
	for _, r := range premiums {
		if r.PaymentKind == model.PaymentPremium && r.ActualAmount.Valid {
			totalPremium = totalPremium.Add(r.ActualAmount.Decimal)
		}
	}

	paid, reserves := decimal.Zero, decimal.Zero
	for _, c := range claims {
		if c.PaidAmount.Valid {
			paid = paid.Add(c.PaidAmount.Decimal)
		}
		reserves = reserves.Add(c.ReserveAmount)
	}
	stressed := paid.Mul(decimal.NewFromFloat(factor)).Round(2)

	if totalPremium.IsZero() {
		return model.StressTestResult{}, &model.ComputationError{
			Op:      "stress_test",
			Message: "total premium is zero, impact is undefined",
		}
	}

	return model.StressTestResult{
		Scenario:       scenario,
		StressFactor:   factor,
		TotalPremium:   totalPremium,
		NormalClaims:   paid,
		StressedClaims: stressed,
		Reserves:       reserves,
		Impact:         percent(stressed.Sub(paid), totalPremium),
	}, nil
}
