package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ECOM-SR/ECOM-REPORTS/internal/model"
)

// SaveResult stores the aggregate result of a job, replacing any earlier one.
func (s *Store) SaveResult(jobID string, result *model.AggregateResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO job_results (job_id, report_type, result, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(job_id) DO UPDATE SET report_type = excluded.report_type, result = excluded.result, created_at = excluded.created_at
	`, jobID, string(result.ReportType), string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}
	return nil
}

// GetResultJSON returns the stored result document as raw JSON.
func (s *Store) GetResultJSON(jobID string) ([]byte, error) {
	var data string
	err := s.db.QueryRow(`SELECT result FROM job_results WHERE job_id = ?`, jobID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("result for job %s: %w", jobID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get result: %w", err)
	}
	return []byte(data), nil
}

// GetResult returns the stored result of a job. Normalized is not persisted.
func (s *Store) GetResult(jobID string) (*model.AggregateResult, error) {
	data, err := s.GetResultJSON(jobID)
	if err != nil {
		return nil, err
	}
	var result model.AggregateResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode result: %w", err)
	}
	return &result, nil
}
