package reports

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"insurance-analytics/internal/model"
)

const (
	historyYears     = 2
	monthlyThreshold = 90 * 24 * time.Hour
	maxRollingWindow = 3
	forecastHorizon  = 6
)

const insufficientHistoryMessage = "Not enough historical data to build a forecast"

// HistoryStart is the earliest date the forecaster needs records from. A
// Feb 29 start clamps to Feb 28 instead of rolling into March.
func HistoryStart(start time.Time) time.Time {
	t := start.AddDate(-historyYears, 0, 0)
	if t.Month() != start.Month() {
		t = time.Date(t.Year(), t.Month(), 0, 0, 0, 0, 0, start.Location())
	}
	return t
}

// GranularityFor picks monthly buckets for ranges longer than 90 days.
func GranularityFor(start, end time.Time) model.Granularity {
	if end.Sub(start) > monthlyThreshold {
		return model.Monthly
	}
	return model.Weekly
}

type bucketKey struct {
	year   int
	period int
}

type bucket struct {
	start    time.Time
	actual   decimal.Decimal
	expected decimal.Decimal
}

func keyOf(g model.Granularity, t time.Time) bucketKey {
	if g == model.Monthly {
		return bucketKey{year: t.Year(), period: int(t.Month())}
	}
	y, w := t.ISOWeek()
	return bucketKey{year: y, period: w}
}

func bucketStart(g model.Granularity, t time.Time) time.Time {
	if g == model.Monthly {
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	offset := (int(t.Weekday()) + 6) % 7
	return time.Date(t.Year(), t.Month(), t.Day()-offset, 0, 0, 0, 0, time.UTC)
}

func nextBucket(g model.Granularity, t time.Time) time.Time {
	if g == model.Monthly {
		return t.AddDate(0, 1, 0)
	}
	return t.AddDate(0, 0, 7)
}

// Forecast resamples records into weekly or monthly buckets, computes a
// trailing rolling mean of actuals and extrapolates it flat over the next six
// buckets. Buckets without records are never synthesized.
func Forecast(records []model.FinancialRecord, start, end time.Time) model.ForecastResult {
	g := GranularityFor(start, end)
	buckets := resample(records, g)

	result := model.ForecastResult{
		Granularity: g,
		Historical:  []model.HistoricalPoint{},
		Forecast:    []model.ForecastPoint{},
	}
	if len(buckets) == 0 {
		result.Message = insufficientHistoryMessage
		return result
	}

	means := rollingMean(buckets)
	for i, b := range buckets {
		result.Historical = append(result.Historical, model.HistoricalPoint{
			BucketStart:    model.Date{Time: b.start},
			ActualAmount:   b.actual,
			ExpectedAmount: b.expected,
			RollingMean:    means[i],
		})
	}

	last := means[len(means)-1].Decimal
	next := buckets[len(buckets)-1].start
	for i := 0; i < forecastHorizon; i++ {
		next = nextBucket(g, next)
		result.Forecast = append(result.Forecast, model.ForecastPoint{
			BucketStart: model.Date{Time: next},
			Amount:      last,
		})
	}
	return result
}

func resample(records []model.FinancialRecord, g model.Granularity) []*bucket {
	byKey := make(map[bucketKey]*bucket)
	var keys []bucketKey
	for _, r := range records {
		k := keyOf(g, r.Date.Time)
		b, ok := byKey[k]
		if !ok {
			b = &bucket{start: bucketStart(g, r.Date.Time)}
			byKey[k] = b
			keys = append(keys, k)
		}
		b.expected = b.expected.Add(r.ExpectedAmount)
		if r.ActualAmount.Valid {
			b.actual = b.actual.Add(r.ActualAmount.Decimal)
		}
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].period < keys[j].period
	})
	out := make([]*bucket, 0, len(keys))
	for _, k := range keys {
		out = append(out, byKey[k])
	}
	return out
}

// rollingMean uses a window of min(3, len(buckets)); positions without a full
// window stay null. The last position always has a full window.
func rollingMean(buckets []*bucket) []decimal.NullDecimal {
	w := len(buckets)
	if w > maxRollingWindow {
		w = maxRollingWindow
	}
	size := decimal.NewFromInt(int64(w))

	out := make([]decimal.NullDecimal, len(buckets))
	sum := decimal.Zero
	for i, b := range buckets {
		sum = sum.Add(b.actual)
		if i >= w {
			sum = sum.Sub(buckets[i-w].actual)
		}
		if i >= w-1 {
			out[i] = decimal.NewNullDecimal(sum.Div(size).Round(2))
		}
	}
	return out
}
