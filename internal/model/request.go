package model

// ReportParams carries the raw query parameters of a report request exactly
// as received; typed parsing happens in the engine.
type ReportParams struct {
	Type        string `json:"type"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	ProductID   string `json:"product_id,omitempty"`
	RegionID    string `json:"region_id,omitempty"`
	PaymentType string `json:"payment_type,omitempty"`
	Scenario    string `json:"scenario,omitempty"`
}
