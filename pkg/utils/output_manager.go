package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// OutputManager lays out report exports on disk, one directory per job.
type OutputManager struct {
	BaseOutputDir string
}

// NewOutputManager roots every job directory under baseOutputDir.
func NewOutputManager(baseOutputDir string) *OutputManager {
	return &OutputManager{
		BaseOutputDir: baseOutputDir,
	}
}

// JobDir is the export directory of jobID. Job IDs that could escape the
// base directory are rejected.
func (om *OutputManager) JobDir(jobID string) (string, error) {
	if jobID == "" || strings.ContainsAny(jobID, `/\`) || jobID == "." || jobID == ".." {
		return "", fmt.Errorf("invalid job id %q", jobID)
	}
	return filepath.Join(om.BaseOutputDir, jobID), nil
}

// ExportPath locates a job's export without touching the filesystem.
// Only the base name of fileName is kept.
func (om *OutputManager) ExportPath(jobID, fileName string) (string, error) {
	jobDir, err := om.JobDir(jobID)
	if err != nil {
		return "", err
	}
	return filepath.Join(jobDir, filepath.Base(fileName)), nil
}

// CreateJobOutputDir makes the job's export directory.
func (om *OutputManager) CreateJobOutputDir(jobID string) (string, error) {
	jobDir, err := om.JobDir(jobID)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(jobDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create job output directory: %w", err)
	}
	return jobDir, nil
}

// GetOutputFilePath is ExportPath for writers: the job directory is created first.
func (om *OutputManager) GetOutputFilePath(jobID, fileName string) (string, error) {
	if _, err := om.CreateJobOutputDir(jobID); err != nil {
		return "", err
	}
	return om.ExportPath(jobID, fileName)
}

// GetDownloadURL is the API path that serves the export back.
func (om *OutputManager) GetDownloadURL(jobID, fileName string) string {
	cleanFileName := filepath.Base(fileName)
	return fmt.Sprintf("/api/v1/reports/%s/%s", jobID, cleanFileName)
}

// GetFileType is FileType for callers holding a manager.
func (om *OutputManager) GetFileType(fileName string) string {
	return FileType(fileName)
}

// FileType maps a file name to csv, json, excel, text or unknown.
func FileType(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".csv":
		return "csv"
	case ".json":
		return "json"
	case ".xlsx", ".xlsm", ".xls":
		return "excel"
	case ".txt":
		return "text"
	default:
		return "unknown"
	}
}

// GetFileSize stats an export for the files listing.
func (om *OutputManager) GetFileSize(filePath string) (int64, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return 0, err
	}
	return fileInfo.Size(), nil
}

// EnsureOutputDirExists creates the base directory at startup.
func (om *OutputManager) EnsureOutputDirExists() error {
	return os.MkdirAll(om.BaseOutputDir, 0755)
}
