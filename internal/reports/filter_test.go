package reports

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insurance-analytics/internal/model"
)

func TestFilterRecords(t *testing.T) {
	north := int64(7)
	records := []model.FinancialRecord{
		rec(t, "2023-12-31", model.PaymentPremium, 1, "Auto", "10", amount("10")),
		rec(t, "2024-01-01", model.PaymentPremium, 1, "Auto", "20", amount("20")),
		rec(t, "2024-01-15", model.PaymentClaim, 2, "Home", "30", amount("30")),
		rec(t, "2024-01-31", model.PaymentPremium, 2, "Home", "40", amount("40")),
		rec(t, "2024-02-01", model.PaymentPremium, 1, "Auto", "50", amount("50")),
	}
	records[3].RegionID = &north

	base := RecordFilter{Start: mustTime(t, "2024-01-01"), End: mustTime(t, "2024-01-31")}

	t.Run("inclusive date bounds", func(t *testing.T) {
		got := FilterRecords(records, base)
		require.Len(t, got, 3)
		assert.Equal(t, "2024-01-01", got[0].Date.String())
		assert.Equal(t, "2024-01-31", got[2].Date.String())
	})

	t.Run("product", func(t *testing.T) {
		f := base
		f.ProductID = int64Ptr(2)
		assert.Len(t, FilterRecords(records, f), 2)
	})

	t.Run("region excludes records without region", func(t *testing.T) {
		f := base
		f.RegionID = &north
		got := FilterRecords(records, f)
		require.Len(t, got, 1)
		assert.Equal(t, "40", got[0].ExpectedAmount.String())
	})

	t.Run("payment kind", func(t *testing.T) {
		f := base
		kind := model.PaymentClaim
		f.PaymentKind = &kind
		got := FilterRecords(records, f)
		require.Len(t, got, 1)
		assert.Equal(t, model.PaymentClaim, got[0].PaymentKind)
	})

	t.Run("does not mutate input", func(t *testing.T) {
		before := len(records)
		_ = FilterRecords(records, base)
		assert.Len(t, records, before)
		assert.Equal(t, "2023-12-31", records[0].Date.String())
	})
}

func TestParseDateRange(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		field string
	}{
		{name: "missing start", start: "", end: "2024-01-01", field: "start_date"},
		{name: "missing end", start: "2024-01-01", end: " ", field: "end_date"},
		{name: "malformed start", start: "01/01/2024", end: "2024-01-01", field: "start_date"},
		{name: "impossible day", start: "2024-01-01", end: "2024-02-30", field: "end_date"},
		{name: "inverted", start: "2024-02-01", end: "2024-01-01", field: "end_date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseDateRange(tt.start, tt.end)
			var verr *model.ValidationError
			require.True(t, errors.As(err, &verr), "want ValidationError, got %v", err)
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	from, to, err := ParseDateRange("2024-01-01", "2024-01-01")
	require.NoError(t, err)
	assert.True(t, from.Equal(to))
}

func TestParseOptionalParams(t *testing.T) {
	id, err := ParseOptionalID("product_id", "")
	require.NoError(t, err)
	assert.Nil(t, id)

	id, err = ParseOptionalID("product_id", "42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), *id)

	_, err = ParseOptionalID("region_id", "north")
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "region_id", verr.Field)

	kind, err := ParsePaymentKind("payment_type", "Claim")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentClaim, *kind)

	_, err = ParsePaymentKind("payment_type", "refund")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "payment_type", verr.Field)
}
