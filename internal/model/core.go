package model

import "time"

// JobStatus is the lifecycle state of one upload job.
type JobStatus string

const (
	JobPending     JobStatus = "pending"
	JobIngesting   JobStatus = "ingesting"
	JobAggregating JobStatus = "aggregating"
	JobExporting   JobStatus = "exporting"
	JobCompleted   JobStatus = "completed"
	JobFailed      JobStatus = "failed"
)

// Terminal reports whether no further transitions happen from s.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed
}

// JobSpec is what a caller asks for: one file aggregated as one report type.
type JobSpec struct {
	FileName   string     `json:"file_name"`
	ReportType ReportType `json:"report_type"`
	From       *time.Time `json:"from,omitempty"`
	To         *time.Time `json:"to,omitempty"`
	TopN       int        `json:"top_n,omitempty"`
}

// Job is the persisted record of one upload.
type Job struct {
	ID         string     `json:"id"`
	FileName   string     `json:"file_name"`
	ReportType ReportType `json:"report_type"`
	Status     JobStatus  `json:"status"`
	RowCount   int        `json:"row_count"`
	Error      string     `json:"error,omitempty"`
	From       *time.Time `json:"from,omitempty"`
	To         *time.Time `json:"to,omitempty"`
	TopN       int        `json:"top_n,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ExportFile describes one downloadable artefact of a job.
type ExportFile struct {
	Format string `json:"format"`
	Name   string `json:"name"`
	URL    string `json:"url"`
	Size   int64  `json:"size"`
}
