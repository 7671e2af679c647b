package reports

import (
	"strconv"
	"strings"
	"time"

	"insurance-analytics/internal/model"
)

// RecordFilter narrows financial records. Start and End are inclusive; nil
// optional fields match everything.
type RecordFilter struct {
	Start       time.Time
	End         time.Time
	ProductID   *int64
	RegionID    *int64
	PaymentKind *model.PaymentKind
}

// FilterRecords returns the records matching f, preserving input order.
func FilterRecords(records []model.FinancialRecord, f RecordFilter) []model.FinancialRecord {
	out := make([]model.FinancialRecord, 0, len(records))
	for _, r := range records {
		if matchesFilter(r, f) {
			out = append(out, r)
		}
	}
	return out
}

func matchesFilter(r model.FinancialRecord, f RecordFilter) bool {
	if !f.Start.IsZero() && r.Date.Before(f.Start) {
		return false
	}
	if !f.End.IsZero() && r.Date.After(f.End) {
		return false
	}
	if f.ProductID != nil && r.ProductID != *f.ProductID {
		return false
	}
	if f.RegionID != nil && (r.RegionID == nil || *r.RegionID != *f.RegionID) {
		return false
	}
	if f.PaymentKind != nil && r.PaymentKind != *f.PaymentKind {
		return false
	}
	return true
}

// ParseDate parses a required YYYY-MM-DD parameter.
func ParseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, model.Invalid(field, "is required")
	}
	t, ok := model.ParseDay(value)
	if !ok {
		return time.Time{}, model.Invalid(field, "expected YYYY-MM-DD, got %q", value)
	}
	return t, nil
}

// ParseDateRange parses start/end and rejects inverted ranges.
func ParseDateRange(start, end string) (time.Time, time.Time, error) {
	from, err := ParseDate("start_date", start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := ParseDate("end_date", end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, model.Invalid("end_date", "must not be before start_date")
	}
	return from, to, nil
}

// ParseOptionalID returns nil for an empty value.
func ParseOptionalID(field, value string) (*int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil, model.Invalid(field, "expected an integer, got %q", value)
	}
	return &id, nil
}

// ParsePaymentKind returns nil for an empty value.
func ParsePaymentKind(field, value string) (*model.PaymentKind, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	k := model.PaymentKind(strings.ToLower(value))
	if !k.Valid() {
		return nil, model.Invalid(field, "unknown payment type %q", value)
	}
	return &k, nil
}
