package model

type ReportResponse struct {
	Metadata ReportMetadata  `json:"metadata"`
	Messages []ReportMessage `json:"messages"`
	Result   any             `json:"result"`
}

type ReportMetadata struct {
	ReportID          string `json:"report_id"`
	ReportKind        string `json:"report_kind"`
	ReportStartedAt   string `json:"report_started_at"`
	ReportCompletedAt string `json:"report_completed_at"`
	ReportDurationMs  int64  `json:"report_duration_ms"`
	ReportOutcome     string `json:"report_outcome"`
}

type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

const (
	OutcomeSuccess = "SUCCESS"
	OutcomeEmpty   = "EMPTY"
)
