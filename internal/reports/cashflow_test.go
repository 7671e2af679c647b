package reports

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insurance-analytics/internal/model"
)

func TestCashFlowMergesMissingActuals(t *testing.T) {
	records := []model.FinancialRecord{
		rec(t, "2024-01-01", model.PaymentPremium, 1, "A", "100", amount("110")),
		rec(t, "2024-01-01", model.PaymentPremium, 1, "A", "50", decimal.NullDecimal{}),
	}

	rows := CashFlow(records)
	require.Len(t, rows, 1)
	row := rows[0]

	assert.Equal(t, "2024-01-01", row.Date.String())
	assert.Equal(t, "A", row.ProductName)
	assert.True(t, row.ExpectedAmount.Equal(dec("150")))
	require.True(t, row.ActualAmount.Valid)
	assert.True(t, row.ActualAmount.Decimal.Equal(dec("110")))
	// the missing actual is excluded, not counted as zero
	require.True(t, row.Difference.Valid)
	assert.True(t, row.Difference.Decimal.Equal(dec("-40")))
	require.NotNil(t, row.Accuracy)
	assert.InDelta(t, 110.0/150.0*100, *row.Accuracy, 1e-9)
}

func TestCashFlowWithoutActuals(t *testing.T) {
	rows := CashFlow([]model.FinancialRecord{
		rec(t, "2024-01-01", model.PaymentClaim, 1, "A", "100", decimal.NullDecimal{}),
	})
	require.Len(t, rows, 1)
	assert.False(t, rows[0].ActualAmount.Valid)
	assert.False(t, rows[0].Difference.Valid)
	assert.Nil(t, rows[0].Accuracy)
}

func TestCashFlowZeroExpectedHasNoAccuracy(t *testing.T) {
	rows := CashFlow([]model.FinancialRecord{
		rec(t, "2024-01-01", model.PaymentCommission, 1, "A", "0", amount("12.50")),
	})
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].Accuracy)
	require.True(t, rows[0].Difference.Valid)
	assert.True(t, rows[0].Difference.Decimal.Equal(dec("12.50")))
}

func TestCashFlowOrderingAndTotals(t *testing.T) {
	records := []model.FinancialRecord{
		rec(t, "2024-01-02", model.PaymentPremium, 2, "Home", "10", amount("9")),
		rec(t, "2024-01-01", model.PaymentPremium, 2, "Home", "10", amount("11")),
		rec(t, "2024-01-01", model.PaymentPremium, 1, "Auto", "10", amount("10.25")),
		rec(t, "2024-01-02", model.PaymentPremium, 1, "Auto", "10", decimal.NullDecimal{}),
		rec(t, "2024-01-01", model.PaymentClaim, 1, "Auto", "5", amount("7")),
	}

	rows := CashFlow(records)
	require.Len(t, rows, 4)

	var order []string
	for _, r := range rows {
		order = append(order, r.Date.String()+" "+r.ProductName)
	}
	assert.Equal(t, []string{
		"2024-01-01 Auto",
		"2024-01-01 Home",
		"2024-01-02 Auto",
		"2024-01-02 Home",
	}, order)

	// grouping preserves the total of confirmed actuals
	inputTotal, outputTotal := decimal.Zero, decimal.Zero
	for _, r := range records {
		if r.ActualAmount.Valid {
			inputTotal = inputTotal.Add(r.ActualAmount.Decimal)
		}
	}
	for _, r := range rows {
		if r.ActualAmount.Valid {
			outputTotal = outputTotal.Add(r.ActualAmount.Decimal)
		}
	}
	assert.True(t, inputTotal.Equal(outputTotal), "input %s output %s", inputTotal, outputTotal)

	for _, r := range rows {
		if r.ExpectedAmount.IsZero() || !r.ActualAmount.Valid {
			assert.Nil(t, r.Accuracy)
			continue
		}
		require.NotNil(t, r.Accuracy)
		want := r.ActualAmount.Decimal.Div(r.ExpectedAmount).Mul(decimal.NewFromInt(100)).InexactFloat64()
		assert.Equal(t, want, *r.Accuracy)
	}
}

func TestCashFlowEmpty(t *testing.T) {
	rows := CashFlow(nil)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}
