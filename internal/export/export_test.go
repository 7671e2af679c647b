package export

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insurance-analytics/internal/model"
)

func TestCashFlowCSV(t *testing.T) {
	accuracy := 73.333
	rows := []model.CashFlowRow{
		{
			Date:           model.NewDate(2024, 1, 1),
			ProductName:    "Auto, comprehensive",
			ExpectedAmount: decimal.NewFromInt(150),
			ActualAmount:   decimal.NewNullDecimal(decimal.NewFromInt(110)),
			Difference:     decimal.NewNullDecimal(decimal.NewFromInt(-40)),
			Accuracy:       &accuracy,
		},
		{
			Date:           model.NewDate(2024, 1, 2),
			ProductName:    "Home",
			ExpectedAmount: decimal.RequireFromString("12.5"),
		},
	}

	table, err := Build("cashflow", rows)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, table.WriteCSV(&buf))
	assert.Equal(t,
		"Date,Product,Expected,Actual,Difference\n"+
			"2024-01-01,\"Auto, comprehensive\",150.00,110.00,-40.00\n"+
			"2024-01-02,Home,12.50,,\n",
		buf.String())
}

func TestLossRatioCSV(t *testing.T) {
	table, err := Build("loss_ratio", []model.LossRatioRow{{
		ProductName:    "Auto",
		Year:           2024,
		Month:          3,
		EarnedPremium:  decimal.NewFromInt(300),
		IncurredLosses: decimal.NewFromInt(100),
		LossRatio:      100.0 / 3,
	}})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, table.WriteCSV(&buf))
	assert.Equal(t,
		"Product,Year,Month,Earned Premium,Incurred Losses,Loss Ratio\n"+
			"Auto,2024,3,300.00,100.00,33.33\n",
		buf.String())
	assert.Equal(t, "loss_ratio_report_20240315.csv", table.Filename(model.NewDate(2024, 3, 15)))
}

func TestBuildRejectsOtherKinds(t *testing.T) {
	_, err := Build("forecast", model.ForecastResult{})
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "type", verr.Field)

	_, err = Build("cashflow", []model.LossRatioRow{})
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat("CSV")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	_, err = ParseFormat("xlsx")
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "format", verr.Field)
}
