package reports

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"insurance-analytics/internal/model"
)

func day(t *testing.T, s string) model.Date {
	t.Helper()
	d, ok := model.ParseDay(s)
	require.True(t, ok, "bad test date %q", s)
	return model.Date{Time: d}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func amount(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func rec(t *testing.T, date string, kind model.PaymentKind, productID int64, product, expected string, actual decimal.NullDecimal) model.FinancialRecord {
	t.Helper()
	return model.FinancialRecord{
		Date:           day(t, date),
		PaymentKind:    kind,
		ExpectedAmount: dec(expected),
		ActualAmount:   actual,
		ProductID:      productID,
		ProductName:    product,
	}
}

func int64Ptr(v int64) *int64 { return &v }

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	return day(t, s).Time
}
