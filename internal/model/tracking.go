package model

import "time"

// Stage names recorded per job.
const (
	StageIngest    = "ingestion"
	StageValidate  = "validation"
	StageAggregate = "aggregation"
	StageExport    = "export"
)

// StageMetrics records one stage of one job.
type StageMetrics struct {
	JobID            string        `json:"job_id"`
	Stage            string        `json:"stage"`
	StartTime        time.Time     `json:"start_time"`
	EndTime          *time.Time    `json:"end_time,omitempty"`
	Duration         time.Duration `json:"duration"`
	RecordsProcessed int64         `json:"records_processed"`
	Status           string        `json:"status"` // "running", "completed", "failed"
}

// ErrorDetail represents a job failure with context
type ErrorDetail struct {
	ID        int64     `json:"id"`
	JobID     string    `json:"job_id"`
	Stage     string    `json:"stage"`
	ErrorType string    `json:"error_type"`
	Message   string    `json:"message"`
	Missing   []string  `json:"missing_columns,omitempty"`
	Severity  string    `json:"severity"` // "low", "medium", "high", "critical"
	Timestamp time.Time `json:"timestamp"`
}
