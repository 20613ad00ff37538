package model

import (
	"fmt"
	"strings"
)

// ValidationError reports the required columns a Report lacks for its ReportType.
type ValidationError struct {
	ReportType ReportType `json:"report_type"`
	Missing    []string   `json:"missing_columns"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: missing required columns: %s", e.ReportType, strings.Join(e.Missing, ", "))
}
