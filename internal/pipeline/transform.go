package pipeline

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ECOM-SR/ECOM-REPORTS/internal/model"
	"github.com/ECOM-SR/ECOM-REPORTS/pkg/utils"
)

// Normalize coerces every cell according to the descriptor and returns a new
// Report; the input is never mutated.
//
// Numeric columns become float64 (unreadable cells are 0). Date columns become
// time.Time, or nil when the cell cannot be read as a date. Every other cell
// is a trimmed string, with blanks replaced by the column's fallback label
// when one is declared.
func Normalize(report model.Report, d model.Descriptor) model.Report {
	cols := append([]string(nil), columnsOf(report)...)
	out := model.Report{Columns: cols, Rows: make([]model.Row, len(report.Rows))}

	for i, row := range report.Rows {
		nr := make(model.Row, len(cols))
		for _, col := range cols {
			nr[col] = normalizeCell(row[col], col, d)
		}
		out.Rows[i] = nr
	}
	return out
}

func normalizeCell(v interface{}, col string, d model.Descriptor) interface{} {
	switch {
	case d.IsNumeric(col):
		return utils.ParseNumber(v)
	case d.IsDate(col):
		if t, ok := utils.ParseDate(v); ok {
			return t
		}
		return nil
	default:
		s := cellString(v)
		if s == "" {
			if fb, ok := d.Fallbacks[col]; ok {
				return fb
			}
		}
		return s
	}
}

// FilterByDate keeps rows whose date in column falls within [from, to] by
// calendar day. Either bound may be nil. Rows without a date are dropped.
// A report without the column is returned unchanged.
func FilterByDate(report model.Report, column string, from, to *time.Time) model.Report {
	if (from == nil && to == nil) || !hasColumn(report, column) {
		return report
	}

	out := model.Report{Columns: report.Columns}
	for _, row := range report.Rows {
		t, ok := row[column].(time.Time)
		if !ok {
			continue
		}
		day := utils.DayKey(t)
		if from != nil && day < utils.DayKey(*from) {
			continue
		}
		if to != nil && day > utils.DayKey(*to) {
			continue
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

// cellString renders a cell for keys, matches and CSV export.
func cellString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case time.Time:
		if val.IsZero() {
			return ""
		}
		if val.Hour() == 0 && val.Minute() == 0 && val.Second() == 0 {
			return utils.DayKey(val)
		}
		return val.Format("2006-01-02 15:04:05")
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}

// hasColumn is Report.HasColumn for reports that may carry rows without a header.
func hasColumn(report model.Report, col string) bool {
	return model.Report{Columns: columnsOf(report)}.HasColumn(col)
}
