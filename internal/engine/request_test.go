package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insurance-analytics/internal/model"
)

func TestParseRequestKinds(t *testing.T) {
	base := model.ReportParams{StartDate: "2024-01-01", EndDate: "2024-06-30"}

	tests := []struct {
		kind string
		want Kind
	}{
		{"cashflow", KindCashFlow},
		{"reserves", KindReserves},
		{"LOSS_RATIO", KindLossRatio},
		{"stress_test", KindStressTest},
	}
	for _, tt := range tests {
		p := base
		p.Type = tt.kind
		req, err := ParseRequest(p)
		require.NoError(t, err, tt.kind)
		assert.Equal(t, tt.want, req.Kind())
	}
}

func TestParseRequestTypedParams(t *testing.T) {
	req, err := ParseRequest(model.ReportParams{
		Type: "cashflow", StartDate: "2024-01-01", EndDate: "2024-01-31",
		ProductID: "3", RegionID: "4", PaymentType: "premium",
	})
	require.NoError(t, err)
	cf, ok := req.(CashFlowRequest)
	require.True(t, ok)
	assert.Equal(t, int64(3), *cf.Filter.ProductID)
	assert.Equal(t, int64(4), *cf.Filter.RegionID)
	assert.Equal(t, model.PaymentPremium, *cf.Filter.PaymentKind)

	req, err = ParseRequest(model.ReportParams{Type: "stress_test"})
	require.NoError(t, err, "stress tests need no date range")
	st := req.(StressTestRequest)
	assert.Equal(t, "medium", st.Scenario)
	assert.Nil(t, st.ProductID)
}

func TestParseRequestValidation(t *testing.T) {
	tests := []struct {
		name   string
		params model.ReportParams
		field  string
	}{
		{"missing type", model.ReportParams{StartDate: "2024-01-01", EndDate: "2024-01-02"}, "type"},
		{"unknown type", model.ReportParams{Type: "solvency", StartDate: "2024-01-01", EndDate: "2024-01-02"}, "type"},
		{"missing start", model.ReportParams{Type: "cashflow", EndDate: "2024-01-02"}, "start_date"},
		{"malformed end", model.ReportParams{Type: "loss_ratio", StartDate: "2024-01-01", EndDate: "2024-1-2"}, "end_date"},
		{"reserves malformed product", model.ReportParams{Type: "reserves", StartDate: "2024-01-01", EndDate: "2024-01-02", ProductID: "x"}, "product_id"},
		{"forecast needs payment type", model.ReportParams{Type: "forecast", StartDate: "2024-01-01", EndDate: "2024-01-02"}, "payment_type"},
		{"bad payment type", model.ReportParams{Type: "cashflow", StartDate: "2024-01-01", EndDate: "2024-01-02", PaymentType: "refund"}, "payment_type"},
		{"bad region", model.ReportParams{Type: "cashflow", StartDate: "2024-01-01", EndDate: "2024-01-02", RegionID: "1.5"}, "region_id"},
		{"stress bad product", model.ReportParams{Type: "stress_test", ProductID: "abc"}, "product_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRequest(tt.params)
			var verr *model.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}
