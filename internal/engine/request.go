package engine

import (
	"strings"
	"time"

	"insurance-analytics/internal/model"
	"insurance-analytics/internal/reports"
)

type Kind string

const (
	KindCashFlow   Kind = "cashflow"
	KindReserves   Kind = "reserves"
	KindLossRatio  Kind = "loss_ratio"
	KindForecast   Kind = "forecast"
	KindStressTest Kind = "stress_test"
)

// Request is one of the five report requests below. The set is closed: only
// this package can implement it.
type Request interface {
	Kind() Kind
	isRequest()
}

type CashFlowRequest struct {
	Filter reports.RecordFilter
}

type ReservesRequest struct {
	From      time.Time
	To        time.Time
	ProductID *int64
}

type LossRatioRequest struct {
	Filter reports.RecordFilter
}

// ForecastRequest always carries a payment kind.
type ForecastRequest struct {
	Filter reports.RecordFilter
}

type StressTestRequest struct {
	ProductID *int64
	Scenario  string
}

func (CashFlowRequest) Kind() Kind   { return KindCashFlow }
func (ReservesRequest) Kind() Kind   { return KindReserves }
func (LossRatioRequest) Kind() Kind  { return KindLossRatio }
func (ForecastRequest) Kind() Kind   { return KindForecast }
func (StressTestRequest) Kind() Kind { return KindStressTest }

func (CashFlowRequest) isRequest()   {}
func (ReservesRequest) isRequest()   {}
func (LossRatioRequest) isRequest()  {}
func (ForecastRequest) isRequest()   {}
func (StressTestRequest) isRequest() {}

// ParseRequest validates raw parameters once and builds the typed request
// for the requested kind.
func ParseRequest(p model.ReportParams) (Request, error) {
	kind := Kind(strings.ToLower(strings.TrimSpace(p.Type)))
	switch kind {
	case "":
		return nil, model.Invalid("type", "report type not specified")
	case KindCashFlow:
		f, err := parseFilter(p)
		if err != nil {
			return nil, err
		}
		return CashFlowRequest{Filter: f}, nil
	case KindLossRatio:
		f, err := parseFilter(p)
		if err != nil {
			return nil, err
		}
		return LossRatioRequest{Filter: f}, nil
	case KindReserves:
		from, to, err := reports.ParseDateRange(p.StartDate, p.EndDate)
		if err != nil {
			return nil, err
		}
		product, err := reports.ParseOptionalID("product_id", p.ProductID)
		if err != nil {
			return nil, err
		}
		return ReservesRequest{From: from, To: to, ProductID: product}, nil
	case KindForecast:
		f, err := parseFilter(p)
		if err != nil {
			return nil, err
		}
		if f.PaymentKind == nil {
			return nil, model.Invalid("payment_type", "is required for forecasts")
		}
		return ForecastRequest{Filter: f}, nil
	case KindStressTest:
		product, err := reports.ParseOptionalID("product_id", p.ProductID)
		if err != nil {
			return nil, err
		}
		scenario := strings.TrimSpace(p.Scenario)
		if scenario == "" {
			scenario = reports.DefaultScenario
		}
		return StressTestRequest{ProductID: product, Scenario: scenario}, nil
	}
	return nil, model.Invalid("type", "invalid report type %q", p.Type)
}

func parseFilter(p model.ReportParams) (reports.RecordFilter, error) {
	from, to, err := reports.ParseDateRange(p.StartDate, p.EndDate)
	if err != nil {
		return reports.RecordFilter{}, err
	}
	product, err := reports.ParseOptionalID("product_id", p.ProductID)
	if err != nil {
		return reports.RecordFilter{}, err
	}
	region, err := reports.ParseOptionalID("region_id", p.RegionID)
	if err != nil {
		return reports.RecordFilter{}, err
	}
	kind, err := reports.ParsePaymentKind("payment_type", p.PaymentType)
	if err != nil {
		return reports.RecordFilter{}, err
	}
	return reports.RecordFilter{Start: from, End: to, ProductID: product, RegionID: region, PaymentKind: kind}, nil
}
