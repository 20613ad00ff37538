package pipeline

import (
	"sort"

	"github.com/ECOM-SR/ECOM-REPORTS/internal/model"
)

// ValidateColumns checks the report header against the descriptor's required
// columns. The returned *model.ValidationError lists exactly the missing
// names, in descriptor order.
func ValidateColumns(report model.Report, d model.Descriptor) error {
	present := make(map[string]bool)
	for _, c := range columnsOf(report) {
		present[c] = true
	}

	var missing []string
	for _, c := range d.RequiredColumns {
		if !present[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &model.ValidationError{ReportType: d.Type, Missing: missing}
	}
	return nil
}

// columnsOf returns the header. Reports assembled in code may leave Columns
// empty, in which case the union of row keys is used, sorted.
func columnsOf(report model.Report) []string {
	if len(report.Columns) > 0 {
		return report.Columns
	}
	seen := make(map[string]bool)
	var cols []string
	for _, row := range report.Rows {
		for k := range row {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	sort.Strings(cols)
	return cols
}
