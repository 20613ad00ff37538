package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ECOM-SR/ECOM-REPORTS/internal/model"
)

const dayLayout = "2006-01-02"

// CreateJob stores a new job. CreatedAt and UpdatedAt default to now.
func (s *Store) CreateJob(job model.Job) error {
	now := time.Now().UTC()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	if job.UpdatedAt.IsZero() {
		job.UpdatedAt = job.CreatedAt
	}
	if job.Status == "" {
		job.Status = model.JobPending
	}

	_, err := s.db.Exec(`
		INSERT INTO jobs (id, file_name, report_type, status, row_count, error_message, date_from, date_to, top_n, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, job.ID, job.FileName, string(job.ReportType), string(job.Status), job.RowCount, job.Error,
		dayOrNull(job.From), dayOrNull(job.To), job.TopN, job.CreatedAt, job.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

// UpdateJobStatus moves a job to status, recording message when it failed.
func (s *Store) UpdateJobStatus(id string, status model.JobStatus, message string) error {
	res, err := s.db.Exec(`UPDATE jobs SET status = ?, error_message = ?, updated_at = ? WHERE id = ?`,
		string(status), message, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}
	return requireRow(res, id)
}

// SetRowCount records how many rows a job aggregated.
func (s *Store) SetRowCount(id string, rows int) error {
	res, err := s.db.Exec(`UPDATE jobs SET row_count = ?, updated_at = ? WHERE id = ?`, rows, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update job row count: %w", err)
	}
	return requireRow(res, id)
}

// GetJob fetches one job.
func (s *Store) GetJob(id string) (*model.Job, error) {
	row := s.db.QueryRow(`
		SELECT id, file_name, report_type, status, row_count, error_message, date_from, date_to, top_n, created_at, updated_at
		FROM jobs WHERE id = ?
	`, id)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("job %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

// ListJobs returns jobs newest first. limit <= 0 returns all.
func (s *Store) ListJobs(limit int) ([]model.Job, error) {
	query := `
		SELECT id, file_name, report_type, status, row_count, error_message, date_from, date_to, top_n, created_at, updated_at
		FROM jobs ORDER BY created_at DESC, rowid DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	jobs := []model.Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(sc scanner) (*model.Job, error) {
	var (
		job        model.Job
		reportType string
		status     string
		dateFrom   sql.NullString
		dateTo     sql.NullString
	)
	if err := sc.Scan(&job.ID, &job.FileName, &reportType, &status, &job.RowCount, &job.Error,
		&dateFrom, &dateTo, &job.TopN, &job.CreatedAt, &job.UpdatedAt); err != nil {
		return nil, err
	}
	job.ReportType = model.ReportType(reportType)
	job.Status = model.JobStatus(status)
	job.From = parseDay(dateFrom)
	job.To = parseDay(dateTo)
	return &job, nil
}

// SaveJobError records a failure for a job.
func (s *Store) SaveJobError(detail model.ErrorDetail) error {
	if detail.Timestamp.IsZero() {
		detail.Timestamp = time.Now().UTC()
	}
	if detail.Severity == "" {
		detail.Severity = "high"
	}
	missing, err := json.Marshal(detail.Missing)
	if err != nil {
		return err
	}
	if detail.Missing == nil {
		missing = []byte("[]")
	}

	_, err = s.db.Exec(`
		INSERT INTO job_errors (job_id, stage, error_type, error_message, missing_columns, severity, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, detail.JobID, detail.Stage, detail.ErrorType, detail.Message, string(missing), detail.Severity, detail.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to save job error: %w", err)
	}
	return nil
}

// ListJobErrors returns a job's errors oldest first.
func (s *Store) ListJobErrors(jobID string) ([]model.ErrorDetail, error) {
	rows, err := s.db.Query(`
		SELECT id, job_id, stage, error_type, error_message, missing_columns, severity, created_at
		FROM job_errors WHERE job_id = ? ORDER BY id
	`, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to list job errors: %w", err)
	}
	defer rows.Close()

	details := []model.ErrorDetail{}
	for rows.Next() {
		var d model.ErrorDetail
		var missing string
		if err := rows.Scan(&d.ID, &d.JobID, &d.Stage, &d.ErrorType, &d.Message, &missing, &d.Severity, &d.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan job error: %w", err)
		}
		if err := json.Unmarshal([]byte(missing), &d.Missing); err != nil {
			return nil, fmt.Errorf("failed to decode missing columns: %w", err)
		}
		if len(d.Missing) == 0 {
			d.Missing = nil
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// SaveStage inserts or replaces the metrics of one job stage.
func (s *Store) SaveStage(m model.StageMetrics) error {
	var ended interface{}
	if m.EndTime != nil {
		ended = *m.EndTime
	}
	_, err := s.db.Exec(`
		INSERT INTO job_stages (job_id, stage, status, records_processed, duration_ns, started_at, ended_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(job_id, stage) DO UPDATE SET
			status = excluded.status,
			records_processed = excluded.records_processed,
			duration_ns = excluded.duration_ns,
			started_at = excluded.started_at,
			ended_at = excluded.ended_at
	`, m.JobID, m.Stage, m.Status, m.RecordsProcessed, int64(m.Duration), m.StartTime, ended)
	if err != nil {
		return fmt.Errorf("failed to save stage: %w", err)
	}
	return nil
}

// ListStages returns a job's stages in the order they were first saved.
func (s *Store) ListStages(jobID string) ([]model.StageMetrics, error) {
	rows, err := s.db.Query(`
		SELECT job_id, stage, status, records_processed, duration_ns, started_at, ended_at
		FROM job_stages WHERE job_id = ? ORDER BY rowid
	`, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stages: %w", err)
	}
	defer rows.Close()

	stages := []model.StageMetrics{}
	for rows.Next() {
		var m model.StageMetrics
		var duration int64
		var ended sql.NullTime
		if err := rows.Scan(&m.JobID, &m.Stage, &m.Status, &m.RecordsProcessed, &duration, &m.StartTime, &ended); err != nil {
			return nil, fmt.Errorf("failed to scan stage: %w", err)
		}
		m.Duration = time.Duration(duration)
		if ended.Valid {
			t := ended.Time
			m.EndTime = &t
		}
		stages = append(stages, m)
	}
	return stages, rows.Err()
}

func requireRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("job %s: %w", id, ErrNotFound)
	}
	return nil
}

func dayOrNull(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(dayLayout)
}

func parseDay(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	t, err := time.Parse(dayLayout, ns.String)
	if err != nil {
		return nil
	}
	return &t
}
