package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ECOM-SR/ECOM-REPORTS/internal/catalog"
	"github.com/ECOM-SR/ECOM-REPORTS/internal/model"
	"github.com/ECOM-SR/ECOM-REPORTS/internal/pipeline"
	"github.com/ECOM-SR/ECOM-REPORTS/internal/store"
	"github.com/ECOM-SR/ECOM-REPORTS/pkg/router"
	"github.com/ECOM-SR/ECOM-REPORTS/pkg/utils"
)

// ReportHandler serves the /api/v1 report endpoints.
type ReportHandler struct {
	Runner         *pipeline.Runner
	Store          *store.Store
	Output         *utils.OutputManager
	Logger         *utils.Logger
	MaxUploadBytes int64
	PreviewRows    int
}

// exportFiles maps the public download name to the file written by the export stage.
var exportFiles = map[string]string{
	"export.csv":  pipeline.NormalizedCSVFile,
	"export.json": pipeline.ResultJSONFile,
	"export.xlsx": pipeline.ResultXLSXFile,
}

// CreateReportResponse is returned by a successful upload.
type CreateReportResponse struct {
	Job    *model.Job             `json:"job"`
	Result *model.AggregateResult `json:"result"`
	Files  []model.ExportFile     `json:"files"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error          string           `json:"error"`
	JobID          string           `json:"job_id,omitempty"`
	ReportType     model.ReportType `json:"report_type,omitempty"`
	MissingColumns []string         `json:"missing_columns,omitempty"`
}

// CreateReport uploads and aggregates one marketplace export
// @Summary Upload a report
// @Description Upload a CSV or XLSX export and aggregate it synchronously as the given report type
// @Tags reports
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Report file (CSV or XLSX)"
// @Param type formData string true "Report type, e.g. flipkart_order"
// @Param from formData string false "First day to include (YYYY-MM-DD)"
// @Param to formData string false "Last day to include (YYYY-MM-DD)"
// @Param top formData int false "Size of top and bottom tables"
// @Success 201 {object} CreateReportResponse "Report aggregated"
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 422 {object} ErrorResponse "Missing required columns"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /reports [post]
func (h *ReportHandler) CreateReport(w http.ResponseWriter, r *http.Request) {
	if h.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	}
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid multipart form: " + err.Error()})
		return
	}

	rt, err := model.ParseReportType(r.FormValue("type"))
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	spec := model.JobSpec{ReportType: rt}
	if spec.From, err = parseDayParam(r.FormValue("from")); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid from date: " + err.Error()})
		return
	}
	if spec.To, err = parseDayParam(r.FormValue("to")); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid to date: " + err.Error()})
		return
	}
	if spec.From != nil && spec.To != nil && spec.To.Before(*spec.From) {
		writeError(w, http.StatusBadRequest, ErrorResponse{Error: "to must not be before from"})
		return
	}
	if top := r.FormValue("top"); top != "" {
		n, err := strconv.Atoi(top)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, ErrorResponse{Error: "top must be a non-negative integer"})
			return
		}
		spec.TopN = n
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{Error: "file is required"})
		return
	}
	defer file.Close()
	spec.FileName = header.Filename

	job, result, err := h.Runner.Run(r.Context(), spec, file)
	if err != nil {
		resp := ErrorResponse{Error: err.Error(), ReportType: rt}
		if job != nil {
			resp.JobID = job.ID
		}
		var verr *model.ValidationError
		switch {
		case errors.As(err, &verr):
			resp.MissingColumns = verr.Missing
			writeError(w, http.StatusUnprocessableEntity, resp)
		case errors.Is(err, pipeline.ErrUnsupportedFormat):
			writeError(w, http.StatusBadRequest, resp)
		default:
			if h.Logger != nil {
				h.Logger.Error("upload %s failed: %v", spec.FileName, err)
			}
			writeError(w, http.StatusInternalServerError, resp)
		}
		return
	}

	writeJSON(w, http.StatusCreated, CreateReportResponse{Job: job, Result: result, Files: h.files(job.ID)})
}

// ListReports retrieves report jobs, newest first
// @Summary List report jobs
// @Description Get report jobs with their current status, newest first
// @Tags reports
// @Produce json
// @Param limit query int false "Maximum number of jobs"
// @Success 200 {array} model.Job "List of jobs"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /reports [get]
func (h *ReportHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.Store.ListJobs(queryInt(r, "limit", 0))
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch jobs"})
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

// GetReport retrieves one job and its downloadable files
// @Summary Get report job
// @Tags reports
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} map[string]interface{} "Job details"
// @Failure 404 {object} ErrorResponse "Job not found"
// @Router /reports/{id} [get]
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	job, ok := h.job(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"job":   job,
		"files": h.files(job.ID),
	})
}

// GetReportResult retrieves the aggregate result of a job
// @Summary Get report result
// @Description Metrics, group tables, series, breakdowns and bid recommendations of a completed job
// @Tags reports
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} model.AggregateResult "Aggregate result"
// @Failure 404 {object} ErrorResponse "Result not found"
// @Router /reports/{id}/result [get]
func (h *ReportHandler) GetReportResult(w http.ResponseWriter, r *http.Request) {
	jobID := router.PathSegment(r, 3)
	result, err := h.Runner.LoadResult(r.Context(), jobID, h.Store.GetResult)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, ErrorResponse{Error: "Result not found", JobID: jobID})
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrorResponse{Error: "Failed to load result", JobID: jobID})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetReportErrors retrieves errors recorded for a job
// @Summary Get report errors
// @Tags reports
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} map[string]interface{} "Job errors"
// @Failure 404 {object} ErrorResponse "Job not found"
// @Router /reports/{id}/errors [get]
func (h *ReportHandler) GetReportErrors(w http.ResponseWriter, r *http.Request) {
	job, ok := h.job(w, r)
	if !ok {
		return
	}
	details, err := h.Store.ListJobErrors(job.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve errors", JobID: job.ID})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"job_id": job.ID,
		"errors": details,
		"count":  len(details),
	})
}

// GetReportStages retrieves per-stage timings of a job
// @Summary Get report stages
// @Tags reports
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} map[string]interface{} "Job stages"
// @Failure 404 {object} ErrorResponse "Job not found"
// @Router /reports/{id}/stages [get]
func (h *ReportHandler) GetReportStages(w http.ResponseWriter, r *http.Request) {
	job, ok := h.job(w, r)
	if !ok {
		return
	}
	stages, err := h.Store.ListStages(job.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve stages", JobID: job.ID})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"job_id": job.ID,
		"status": job.Status,
		"stages": stages,
	})
}

// GetReportRecords previews the normalised rows of a job
// @Summary Preview normalised records
// @Tags reports
// @Produce json
// @Param id path string true "Job ID"
// @Param limit query int false "Maximum number of rows"
// @Success 200 {object} map[string]interface{} "Normalised rows"
// @Failure 404 {object} ErrorResponse "Records not found"
// @Router /reports/{id}/records [get]
func (h *ReportHandler) GetReportRecords(w http.ResponseWriter, r *http.Request) {
	job, ok := h.job(w, r)
	if !ok {
		return
	}
	path, err := h.Output.ExportPath(job.ID, pipeline.NormalizedCSVFile)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), JobID: job.ID})
		return
	}
	report, err := pipeline.ReadFile(path)
	if err != nil {
		writeError(w, http.StatusNotFound, ErrorResponse{Error: "Records not found", JobID: job.ID})
		return
	}

	limit := queryInt(r, "limit", h.PreviewRows)
	rows := report.Rows
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	if rows == nil {
		rows = []model.Row{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"job_id":  job.ID,
		"columns": report.Columns,
		"rows":    rows,
		"count":   len(rows),
		"total":   report.Len(),
	})
}

// DownloadExport serves one export file of a job
// @Summary Download export
// @Description Download the normalised CSV, the result JSON or the result workbook
// @Tags files
// @Produce application/octet-stream
// @Param id path string true "Job ID"
// @Param file path string true "export.csv, export.json or export.xlsx"
// @Success 200 {file} file "File download"
// @Failure 404 {object} ErrorResponse "File not found"
// @Router /reports/{id}/{file} [get]
func (h *ReportHandler) DownloadExport(w http.ResponseWriter, r *http.Request) {
	jobID := router.PathSegment(r, 3)
	name := router.PathSegment(r, 4)
	fileName, ok := exportFiles[name]
	if !ok {
		writeError(w, http.StatusNotFound, ErrorResponse{Error: "Unknown export " + name, JobID: jobID})
		return
	}

	path, err := h.Output.ExportPath(jobID, fileName)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), JobID: jobID})
		return
	}
	if _, err := os.Stat(path); err != nil {
		writeError(w, http.StatusNotFound, ErrorResponse{Error: "File not found", JobID: jobID})
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s-%s\"", jobID, name))
	w.Header().Set("Content-Type", contentType(name))
	http.ServeFile(w, r, path)
}

// ListReportTypes lists every supported report type and its columns
// @Summary List report types
// @Tags catalog
// @Produce json
// @Success 200 {array} map[string]interface{} "Report types"
// @Router /report-types [get]
func (h *ReportHandler) ListReportTypes(w http.ResponseWriter, r *http.Request) {
	types := []map[string]interface{}{}
	for _, d := range catalog.All() {
		types = append(types, map[string]interface{}{
			"type":             d.Type,
			"marketplace":      d.Marketplace,
			"kind":             d.Kind,
			"title":            d.Title,
			"required_columns": d.RequiredColumns,
			"optional_columns": d.OptionalColumns,
			"time_axis":        d.TimeAxis,
		})
	}
	writeJSON(w, http.StatusOK, types)
}

// Health reports whether the job store is reachable
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{} "Healthy"
// @Failure 503 {object} map[string]interface{} "Unhealthy"
// @Router /healthz [get]
func (h *ReportHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Ping(); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{"status": "unhealthy", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ok", "time": time.Now().UTC()})
}

// ------------------- helpers -------------------

func (h *ReportHandler) job(w http.ResponseWriter, r *http.Request) (*model.Job, bool) {
	jobID := router.PathSegment(r, 3)
	if jobID == "" {
		writeError(w, http.StatusBadRequest, ErrorResponse{Error: "Job ID is required"})
		return nil, false
	}
	job, err := h.Store.GetJob(jobID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, ErrorResponse{Error: "Job not found", JobID: jobID})
		return nil, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch job", JobID: jobID})
		return nil, false
	}
	return job, true
}

// files lists the exports that exist on disk for jobID.
func (h *ReportHandler) files(jobID string) []model.ExportFile {
	files := []model.ExportFile{}
	if h.Output == nil {
		return files
	}
	for _, name := range []string{"export.csv", "export.json", "export.xlsx"} {
		path, err := h.Output.ExportPath(jobID, exportFiles[name])
		if err != nil {
			continue
		}
		size, err := h.Output.GetFileSize(path)
		if err != nil {
			continue
		}
		files = append(files, model.ExportFile{
			Format: h.Output.GetFileType(name),
			Name:   name,
			URL:    h.Output.GetDownloadURL(jobID, name),
			Size:   size,
		})
	}
	return files
}

func parseDayParam(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func queryInt(r *http.Request, key string, fallback int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func contentType(name string) string {
	switch utils.FileType(name) {
	case "csv":
		return "text/csv"
	case "json":
		return "application/json"
	case "excel":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, resp ErrorResponse) {
	writeJSON(w, status, resp)
}
