package model

import "time"

// ExportResult represents the result of an export operation
type ExportResult struct {
	Format      string    `json:"format"` // "csv", "json", "excel"
	Path        string    `json:"path"`
	RecordCount int       `json:"record_count"`
	Success     bool      `json:"success"`
	Error       string    `json:"error,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
