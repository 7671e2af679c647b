package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentKind string

const (
	PaymentPremium    PaymentKind = "premium"
	PaymentClaim      PaymentKind = "claim"
	PaymentCommission PaymentKind = "commission"
)

func (k PaymentKind) Valid() bool {
	switch k {
	case PaymentPremium, PaymentClaim, PaymentCommission:
		return true
	}
	return false
}

// FinancialRecord is a single expected/actual payment flow. ActualAmount is
// invalid until the payment is confirmed.
type FinancialRecord struct {
	ID             int64               `json:"id" db:"id"`
	Date           Date                `json:"date" db:"date"`
	PaymentKind    PaymentKind         `json:"payment_type" db:"payment_type"`
	ExpectedAmount decimal.Decimal     `json:"expected_amount" db:"expected_amount"`
	ActualAmount   decimal.NullDecimal `json:"actual_amount" db:"actual_amount"`
	IsRecurring    bool                `json:"is_recurring" db:"is_recurring"`
	ProductID      int64               `json:"product_id" db:"product_id"`
	ProductName    string              `json:"product_name" db:"product_name"`
	RegionID       *int64              `json:"region_id" db:"region_id"`
	PolicyID       *int64              `json:"policy_id" db:"policy_id"`
}

type ClaimStatus string

const (
	ClaimOpen       ClaimStatus = "open"
	ClaimProcessing ClaimStatus = "processing"
	ClaimPaid       ClaimStatus = "paid"
	ClaimRejected   ClaimStatus = "rejected"
)

// Claim is an insurance claim. PaidAmount is only set once Status is paid.
type Claim struct {
	ID              int64               `json:"id" db:"id"`
	ClaimNumber     string              `json:"claim_number" db:"claim_number"`
	EventDate       Date                `json:"event_date" db:"event_date"`
	ReportDate      Date                `json:"report_date" db:"report_date"`
	Status          ClaimStatus         `json:"status" db:"status"`
	EstimatedAmount decimal.Decimal     `json:"estimated_amount" db:"estimated_amount"`
	PaidAmount      decimal.NullDecimal `json:"paid_amount" db:"paid_amount"`
	ReserveAmount   decimal.Decimal     `json:"reserve" db:"reserve"`
	IsCatastrophic  bool                `json:"is_catastrophic" db:"is_catastrophic"`
	PolicyID        int64               `json:"policy_id" db:"policy_id"`
	ProductID       int64               `json:"product_id" db:"product_id"`
}

func (c Claim) IsOpen() bool {
	return c.Status == ClaimOpen || c.Status == ClaimProcessing
}

type ReserveSnapshot struct {
	ID                int64           `json:"id" db:"id"`
	ProductID         int64           `json:"product_id" db:"product_id"`
	ProductName       string          `json:"product_name" db:"product_name"`
	CalculationDate   Date            `json:"calculation_date" db:"calculation_date"`
	TotalReserves     decimal.Decimal `json:"total_reserves" db:"total_reserves"`
	RequiredReserves  decimal.Decimal `json:"required_reserves" db:"required_reserves"`
	AvailableReserves decimal.Decimal `json:"available_reserves" db:"available_reserves"`
	StressScenario    string          `json:"stress_scenario" db:"stress_scenario"`
}

type Product struct {
	ID          int64           `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	BasePremium decimal.Decimal `json:"base_premium" db:"base_premium"`
	RiskFactor  float64         `json:"risk_factor" db:"risk_factor"`
}

type Region struct {
	ID             int64   `json:"id" db:"id"`
	Name           string  `json:"name" db:"name"`
	Code           string  `json:"code" db:"code"`
	EconomicFactor float64 `json:"economic_factor" db:"economic_factor"`
}

type Policy struct {
	ID           int64           `json:"id" db:"id"`
	PolicyNumber string          `json:"policy_number" db:"policy_number"`
	ProductID    int64           `json:"product_id" db:"product_id"`
	RegionID     int64           `json:"region_id" db:"region_id"`
	StartDate    Date            `json:"start_date" db:"start_date"`
	EndDate      Date            `json:"end_date" db:"end_date"`
	Premium      decimal.Decimal `json:"premium" db:"premium"`
	Status       string          `json:"status" db:"status"`
}

// Date is a calendar day in UTC, encoded as YYYY-MM-DD.
type Date struct {
	time.Time
}

const DateLayout = "2006-01-02"

func NewDate(y int, m time.Month, d int) Date {
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return &ValidationError{Field: "date", Message: "expected a quoted YYYY-MM-DD string"}
	}
	t, ok := ParseDay(s[1 : len(s)-1])
	if !ok {
		return &ValidationError{Field: "date", Message: "expected YYYY-MM-DD, got " + s}
	}
	d.Time = t
	return nil
}

// Scan accepts DATE columns as delivered by lib/pq.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		d.Time = time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, time.UTC)
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	case nil:
		d.Time = time.Time{}
		return nil
	}
	return &ValidationError{Field: "date", Message: "unsupported column type"}
}

func (d *Date) scanString(s string) error {
	if len(s) > 10 {
		s = s[:10]
	}
	t, ok := ParseDay(s)
	if !ok {
		return &ValidationError{Field: "date", Message: "expected YYYY-MM-DD, got " + s}
	}
	d.Time = t
	return nil
}

// ParseDay parses "YYYY-MM-DD" without going through layout parsing.
// Returns zero time and false on invalid input.
func ParseDay(s string) (time.Time, bool) {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return time.Time{}, false
	}
	for i, c := range []byte(s) {
		if i == 4 || i == 7 {
			continue
		}
		if c < '0' || c > '9' {
			return time.Time{}, false
		}
	}
	y := int(s[0]-'0')*1000 + int(s[1]-'0')*100 + int(s[2]-'0')*10 + int(s[3]-'0')
	m := time.Month(int(s[5]-'0')*10 + int(s[6]-'0'))
	d := int(s[8]-'0')*10 + int(s[9]-'0')
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes Feb 30 into March
	if t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}
