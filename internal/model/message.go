package model

type ReportMessage struct {
	Level   string `json:"level"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	LevelCritical = "CRITICAL"
	LevelWarning  = "WARNING"
)

const (
	CodeInsufficientHistory = "INSUFFICIENT_HISTORY"
	CodeUnknownScenario     = "UNKNOWN_SCENARIO"
)
