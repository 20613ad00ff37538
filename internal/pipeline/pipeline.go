package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ECOM-SR/ECOM-REPORTS/internal/caching"
	"github.com/ECOM-SR/ECOM-REPORTS/internal/catalog"
	"github.com/ECOM-SR/ECOM-REPORTS/internal/model"
	"github.com/ECOM-SR/ECOM-REPORTS/pkg/utils"
)

// ------------------- Job Runner -------------------

// Runner takes one uploaded report through ingestion, validation,
// aggregation and export, recording every step against a job.
type Runner struct {
	Store    JobStore
	Output   *utils.OutputManager // nil skips the export stage
	Cache    caching.ResultCache  // nil disables caching
	CacheTTL time.Duration
	Logger   *utils.Logger
	Defaults Options // TopN and BottomN used when the job does not set them
}

// NewRunner creates a runner with an in-process cache and default table sizes.
func NewRunner(st JobStore, output *utils.OutputManager, logger *utils.Logger) *Runner {
	if logger == nil {
		logger = utils.NewLogger()
	}
	return &Runner{
		Store:    st,
		Output:   output,
		Cache:    caching.NewMemoryResultCache(),
		CacheTTL: time.Hour,
		Logger:   logger,
		Defaults: Options{TopN: DefaultTopN, BottomN: DefaultTopN},
	}
}

// Run aggregates src as spec.ReportType. An unknown report type is rejected
// before any job exists; every later failure is recorded on the returned job.
// A missing required column yields a *model.ValidationError.
func (r *Runner) Run(ctx context.Context, spec model.JobSpec, src io.Reader) (job *model.Job, result *model.AggregateResult, err error) {
	d, err := catalog.Lookup(spec.ReportType)
	if err != nil {
		return nil, nil, err
	}

	start := time.Now()
	job = &model.Job{
		ID:         uuid.New().String(),
		FileName:   spec.FileName,
		ReportType: d.Type,
		Status:     model.JobPending,
		From:       spec.From,
		To:         spec.To,
		TopN:       spec.TopN,
		CreatedAt:  start.UTC(),
		UpdatedAt:  start.UTC(),
	}
	if err := r.Store.CreateJob(*job); err != nil {
		return nil, nil, fmt.Errorf("failed to create job: %w", err)
	}
	r.Logger.Info("🚀 Starting %s job %s (%s)", d.Type, job.ID, spec.FileName)

	tracker := NewPipelineTracker(job.ID, r.Store, r.Logger)
	stage := ""

	defer func() {
		if err != nil {
			tracker.FailStage(stage, err)
			r.setStatus(job, model.JobFailed, err.Error())
			r.Logger.Error("❌ Job %s failed after %v: %v", job.ID, time.Since(start).Round(time.Millisecond), err)
		}
	}()

	// --- INGESTION STAGE ---
	stage = model.StageIngest
	r.setStatus(job, model.JobIngesting, "")
	tracker.StartStage(stage)
	report, err := ReadReport(spec.FileName, src)
	if err != nil {
		return job, nil, err
	}
	tracker.EndStage(stage, int64(report.Len()))
	r.Logger.Info("📄 Read %d rows from %s", report.Len(), spec.FileName)

	if err = ctx.Err(); err != nil {
		return job, nil, err
	}

	// --- VALIDATION STAGE ---
	stage = model.StageValidate
	tracker.StartStage(stage)
	if err = ValidateColumns(report, d); err != nil {
		return job, nil, err
	}
	tracker.EndStage(stage, int64(len(columnsOf(report))))

	// --- AGGREGATION STAGE ---
	stage = model.StageAggregate
	r.setStatus(job, model.JobAggregating, "")
	tracker.StartStage(stage)
	result, err = AggregateDescriptor(report, d, r.options(spec))
	if err != nil {
		return job, nil, err
	}
	job.RowCount = result.RowCount
	if serr := r.Store.SetRowCount(job.ID, result.RowCount); serr != nil {
		r.Logger.Warn("failed to record row count for job %s: %v", job.ID, serr)
	}
	if err = r.Store.SaveResult(job.ID, result); err != nil {
		return job, nil, err
	}
	if r.Cache != nil {
		if cerr := r.Cache.SetResult(ctx, job.ID, result, r.CacheTTL); cerr != nil {
			r.Logger.Warn("failed to cache result for job %s: %v", job.ID, cerr)
		}
	}
	tracker.EndStage(stage, int64(result.RowCount))
	r.Logger.Info("📊 %s", Describe(result))

	if err = ctx.Err(); err != nil {
		return job, nil, err
	}

	// --- EXPORT STAGE ---
	if r.Output != nil {
		stage = model.StageExport
		r.setStatus(job, model.JobExporting, "")
		tracker.StartStage(stage)
		exports, xerr := NewExportManager(job.ID, r.Output).ExportAll(result)
		if xerr != nil {
			return job, nil, xerr
		}
		for _, e := range exports {
			r.Logger.Debug("💾 %s export: %d records to %s", e.Format, e.RecordCount, e.Path)
		}
		tracker.EndStage(stage, int64(len(exports)))
	}

	r.setStatus(job, model.JobCompleted, "")
	r.Logger.Info("✅ Job %s completed in %v", job.ID, time.Since(start).Round(time.Millisecond))
	return job, result, nil
}

// LoadResult returns a job's result from the cache, falling back to loader
// (normally the store) and refilling the cache on a miss.
func (r *Runner) LoadResult(ctx context.Context, jobID string, loader func(string) (*model.AggregateResult, error)) (*model.AggregateResult, error) {
	if r.Cache != nil {
		cached, err := r.Cache.GetResult(ctx, jobID)
		if err != nil {
			r.Logger.Warn("cache read failed for job %s: %v", jobID, err)
		} else if cached != nil {
			return cached, nil
		}
	}

	result, err := loader(jobID)
	if err != nil {
		return nil, err
	}
	if r.Cache != nil {
		if err := r.Cache.SetResult(ctx, jobID, result, r.CacheTTL); err != nil {
			r.Logger.Warn("failed to cache result for job %s: %v", jobID, err)
		}
	}
	return result, nil
}

func (r *Runner) options(spec model.JobSpec) Options {
	opts := r.Defaults
	opts.From, opts.To = spec.From, spec.To
	if spec.TopN > 0 {
		opts.TopN = spec.TopN
		opts.BottomN = spec.TopN
	}
	return opts
}

func (r *Runner) setStatus(job *model.Job, status model.JobStatus, message string) {
	job.Status = status
	job.Error = message
	job.UpdatedAt = time.Now().UTC()
	if err := r.Store.UpdateJobStatus(job.ID, status, message); err != nil {
		r.Logger.Warn("failed to update job %s to %s: %v", job.ID, status, err)
	}
}

// ------------------- Batch Runner -------------------

// RunBatch aggregates every file in paths as rt with up to workers files in
// flight. Results come back in input order. onDone, when set, is called once
// per file as it finishes and may be called from several goroutines at once.
// Cancelling ctx stops work between files; unstarted files report ctx.Err().
func RunBatch(ctx context.Context, paths []string, rt model.ReportType, opts Options, workers int, onDone func(model.BatchResult)) []model.BatchResult {
	if workers <= 0 {
		workers = 1
	}
	results := make([]model.BatchResult, len(paths))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = aggregateFile(ctx, i, paths[i], rt, opts)
				if onDone != nil {
					onDone(results[i])
				}
			}
		}()
	}

	for i := range paths {
		if ctx.Err() != nil {
			results[i] = batchFailure(i, paths[i], ctx.Err(), 0)
			continue
		}
		select {
		case jobs <- i:
		case <-ctx.Done():
			results[i] = batchFailure(i, paths[i], ctx.Err(), 0)
		}
	}
	close(jobs)
	wg.Wait()
	return results
}

func aggregateFile(ctx context.Context, index int, path string, rt model.ReportType, opts Options) model.BatchResult {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return batchFailure(index, path, err, 0)
	}

	report, err := ReadFile(path)
	if err != nil {
		return batchFailure(index, path, err, time.Since(start))
	}
	result, err := AggregateWithOptions(report, rt, opts)
	if err != nil {
		return batchFailure(index, path, err, time.Since(start))
	}
	return model.BatchResult{Index: index, Path: path, Result: result, Duration: time.Since(start)}
}

func batchFailure(index int, path string, err error, d time.Duration) model.BatchResult {
	return model.BatchResult{Index: index, Path: path, Err: err, Error: err.Error(), Duration: d}
}

// FailedCount reports how many batch results carry an error.
func FailedCount(results []model.BatchResult) int {
	n := 0
	for _, r := range results {
		if r.Err != nil || r.Error != "" {
			n++
		}
	}
	return n
}

// IsValidationError reports whether err is a missing-columns failure.
func IsValidationError(err error) bool {
	var verr *model.ValidationError
	return errors.As(err, &verr)
}
