package pipeline

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/ECOM-SR/ECOM-REPORTS/internal/model"
	"github.com/ECOM-SR/ECOM-REPORTS/pkg/utils"
)

// JobStore is the persistence the runner needs. *store.Store implements it.
type JobStore interface {
	CreateJob(job model.Job) error
	UpdateJobStatus(id string, status model.JobStatus, message string) error
	SetRowCount(id string, rows int) error
	SaveJobError(detail model.ErrorDetail) error
	SaveStage(m model.StageMetrics) error
	SaveResult(jobID string, result *model.AggregateResult) error
}

// Error types recorded with a job error.
const (
	ErrorTypeValidation  = "validation_failure"
	ErrorTypeUnsupported = "unsupported_format"
	ErrorTypeFileSystem  = "file_system"
	ErrorTypeCancelled   = "cancelled"
	ErrorTypeInternal    = "internal_error"
)

// PipelineTracker records the stages of one job and persists them as they
// change. Store failures are logged, never returned: tracking must not fail a job.
type PipelineTracker struct {
	JobID  string
	store  JobStore
	logger *utils.Logger

	mu     sync.Mutex
	stages []model.StageMetrics
}

// NewPipelineTracker creates a tracker for jobID. A nil store only keeps
// stages in memory.
func NewPipelineTracker(jobID string, st JobStore, logger *utils.Logger) *PipelineTracker {
	return &PipelineTracker{JobID: jobID, store: st, logger: logger}
}

// StartStage marks stage as running.
func (pt *PipelineTracker) StartStage(stage string) {
	m := model.StageMetrics{JobID: pt.JobID, Stage: stage, StartTime: time.Now().UTC(), Status: "running"}

	pt.mu.Lock()
	pt.stages = append(pt.stages, m)
	pt.mu.Unlock()

	pt.logger.Debug("📊 Stage '%s' started for job %s", stage, pt.JobID)
	pt.persist(m)
}

// EndStage marks stage as completed with the number of records it handled.
func (pt *PipelineTracker) EndStage(stage string, recordsProcessed int64) {
	m, ok := pt.finish(stage, "completed", recordsProcessed)
	if !ok {
		return
	}
	pt.logger.Debug("📊 Stage '%s' completed: %d records in %v", stage, recordsProcessed, m.Duration)
	pt.persist(m)
}

// FailStage marks stage as failed and records err as a job error.
func (pt *PipelineTracker) FailStage(stage string, err error) {
	if m, ok := pt.finish(stage, "failed", 0); ok {
		pt.persist(m)
	}

	detail := model.ErrorDetail{
		JobID:     pt.JobID,
		Stage:     stage,
		ErrorType: classifyError(err),
		Message:   err.Error(),
		Timestamp: time.Now().UTC(),
	}
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		detail.Missing = verr.Missing
	}
	detail.Severity = determineSeverity(detail.ErrorType)

	pt.logger.Error("❌ Stage '%s' failed for job %s: %v", stage, pt.JobID, err)
	if pt.store != nil {
		if serr := pt.store.SaveJobError(detail); serr != nil {
			pt.logger.Warn("failed to record error for job %s: %v", pt.JobID, serr)
		}
	}
}

// Stages returns a snapshot of the stages seen so far, in start order.
func (pt *PipelineTracker) Stages() []model.StageMetrics {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	return append([]model.StageMetrics(nil), pt.stages...)
}

func (pt *PipelineTracker) finish(stage, status string, records int64) (model.StageMetrics, bool) {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	for i := len(pt.stages) - 1; i >= 0; i-- {
		m := &pt.stages[i]
		if m.Stage != stage || m.EndTime != nil {
			continue
		}
		now := time.Now().UTC()
		m.EndTime = &now
		m.Duration = now.Sub(m.StartTime)
		m.RecordsProcessed = records
		m.Status = status
		return *m, true
	}
	return model.StageMetrics{}, false
}

func (pt *PipelineTracker) persist(m model.StageMetrics) {
	if pt.store == nil {
		return
	}
	if err := pt.store.SaveStage(m); err != nil {
		pt.logger.Warn("failed to save stage '%s' for job %s: %v", m.Stage, pt.JobID, err)
	}
}

func classifyError(err error) string {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		return ErrorTypeValidation
	case errors.Is(err, ErrUnsupportedFormat):
		return ErrorTypeUnsupported
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrorTypeCancelled
	case errors.Is(err, os.ErrNotExist), errors.Is(err, os.ErrPermission):
		return ErrorTypeFileSystem
	default:
		return ErrorTypeInternal
	}
}

func determineSeverity(errorType string) string {
	switch errorType {
	case ErrorTypeFileSystem, ErrorTypeInternal:
		return "critical"
	case ErrorTypeValidation, ErrorTypeUnsupported:
		return "high"
	case ErrorTypeCancelled:
		return "medium"
	default:
		return "low"
	}
}
