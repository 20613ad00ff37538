package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ECOM-SR/ECOM-REPORTS/internal/model"
	"github.com/ECOM-SR/ECOM-REPORTS/pkg/utils"
)

// Export file names inside a job's output directory.
const (
	NormalizedCSVFile = "normalized.csv"
	ResultJSONFile    = "result.json"
	ResultXLSXFile    = "result.xlsx"
)

// ExportManager writes a job's artefacts through an OutputManager.
type ExportManager struct {
	JobID  string
	Output *utils.OutputManager
}

// NewExportManager creates an export manager for one job.
func NewExportManager(jobID string, output *utils.OutputManager) *ExportManager {
	return &ExportManager{JobID: jobID, Output: output}
}

// ExportAll writes the normalised CSV, the result JSON and the result workbook.
// It stops at the first failure.
func (em *ExportManager) ExportAll(result *model.AggregateResult) ([]model.ExportResult, error) {
	var results []model.ExportResult

	steps := []struct {
		format string
		name   string
		count  int
		write  func(io.Writer) error
	}{
		{"csv", NormalizedCSVFile, result.RowCount, func(w io.Writer) error {
			if result.Normalized == nil {
				return fmt.Errorf("result carries no normalized report")
			}
			return WriteCSV(w, *result.Normalized)
		}},
		{"json", ResultJSONFile, result.RowCount, func(w io.Writer) error { return WriteJSON(w, result) }},
		{"excel", ResultXLSXFile, result.RowCount, func(w io.Writer) error { return WriteXLSX(w, result) }},
	}

	for _, step := range steps {
		res := model.ExportResult{Format: step.format, Timestamp: time.Now()}
		path, err := em.Output.GetOutputFilePath(em.JobID, step.name)
		if err == nil {
			res.Path = path
			err = writeFile(path, step.write)
		}
		if err != nil {
			res.Error = err.Error()
			results = append(results, res)
			return results, fmt.Errorf("export %s: %w", step.name, err)
		}
		res.Success = true
		res.RecordCount = step.count
		results = append(results, res)
	}
	return results, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ------------------- CSV -------------------

// WriteCSV writes the report with its columns and rows in order.
func WriteCSV(w io.Writer, report model.Report) error {
	writer := csv.NewWriter(w)
	cols := columnsOf(report)
	if err := writer.Write(cols); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	record := make([]string, len(cols))
	for _, row := range report.Rows {
		for i, c := range cols {
			record[i] = cellString(row[c])
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// ------------------- JSON -------------------

// WriteJSON writes the result as indented JSON.
func WriteJSON(w io.Writer, result *model.AggregateResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// ------------------- XLSX -------------------

// SummarySheet is the first sheet of a result workbook.
const SummarySheet = "Summary"

type sheetData struct {
	name string
	rows [][]interface{}
}

// WriteXLSX writes a workbook with a Summary sheet of metrics followed by
// one sheet per group table, series, breakdown, row table and the bid table.
func WriteXLSX(w io.Writer, result *model.AggregateResult) error {
	f, err := BuildWorkbook(result)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

// BuildWorkbook lays the result out as an excelize workbook.
func BuildWorkbook(result *model.AggregateResult) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}

	summary := [][]interface{}{
		{"Metric", "Value", "Display"},
		{"Report Type", string(result.ReportType), ""},
		{"Rows", result.RowCount, ""},
	}
	for _, m := range result.Metrics {
		summary = append(summary, []interface{}{label(m.Label, m.Name), m.Value, m.Formatted()})
	}

	sheets := []sheetData{{SummarySheet, summary}}

	for _, g := range result.Groups {
		header := append(append([]interface{}{}, toIface(g.Keys)...), g.ValueColumn)
		header = append(header, toIface(g.ExtraColumns)...)
		sheets = append(sheets, sheetData{"Top " + label(g.Label, g.Name), groupRows(header, g.Top, g.ExtraColumns)})
		if len(g.Bottom) > 0 {
			sheets = append(sheets, sheetData{"Bottom " + label(g.Label, g.Name), groupRows(header, g.Bottom, g.ExtraColumns)})
		}
	}
	for _, s := range result.Series {
		value := s.ValueColumn
		if value == "" {
			value = "Count"
		}
		rows := [][]interface{}{{"Date", value}}
		for _, p := range s.Points {
			rows = append(rows, []interface{}{p.Date, p.Value})
		}
		sheets = append(sheets, sheetData{label(s.Label, s.Name), rows})
	}
	for _, b := range result.Breakdowns {
		rows := [][]interface{}{{b.Column, "Count"}}
		for _, c := range b.Counts {
			rows = append(rows, []interface{}{c.Value, c.Count})
		}
		sheets = append(sheets, sheetData{label(b.Label, b.Name), rows})
	}
	for _, t := range result.Tables {
		rows := [][]interface{}{toIface(t.Columns)}
		for _, r := range t.Rows {
			line := make([]interface{}, len(t.Columns))
			for i, c := range t.Columns {
				line[i] = xlsxValue(r[c])
			}
			rows = append(rows, line)
		}
		sheets = append(sheets, sheetData{label(t.Label, t.Name), rows})
	}
	if len(result.Bids) > 0 {
		rows := [][]interface{}{{"Row", "Labels", "Current Bid", "Recommended Bid", "Rule"}}
		for _, b := range result.Bids {
			rows = append(rows, []interface{}{b.Row + 1, joinLabels(b.Labels), b.CurrentBid, b.Recommended, b.Rule})
		}
		sheets = append(sheets, sheetData{"Bids", rows})
	}

	used := map[string]bool{}
	for i, s := range sheets {
		name := sheetName(s.name, used)
		if i > 0 {
			if _, err := f.NewSheet(name); err != nil {
				return nil, err
			}
		}
		for r, row := range s.rows {
			cell, _ := excelize.CoordinatesToCellName(1, r+1)
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				return nil, fmt.Errorf("failed to write sheet %q: %w", name, err)
			}
		}
		if err := f.SetRowStyle(name, 1, 1, headerStyle); err != nil {
			return nil, fmt.Errorf("failed to style sheet %q: %w", name, err)
		}
		if err := f.SetColWidth(name, "A", "A", 30); err != nil {
			return nil, fmt.Errorf("failed to size sheet %q: %w", name, err)
		}
		if err := f.SetColWidth(name, "B", "F", 15); err != nil {
			return nil, fmt.Errorf("failed to size sheet %q: %w", name, err)
		}
	}
	return f, nil
}

func groupRows(header []interface{}, rows []model.GroupRow, extras []string) [][]interface{} {
	out := [][]interface{}{header}
	for _, g := range rows {
		line := append(toIface(g.Keys), g.Value)
		for _, c := range extras {
			line = append(line, g.Extra[c])
		}
		out = append(out, line)
	}
	return out
}

func toIface(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func xlsxValue(v interface{}) interface{} {
	switch val := v.(type) {
	case float64:
		return val
	case nil:
		return ""
	default:
		return cellString(val)
	}
}

func joinLabels(labels map[string]string) string {
	if len(labels) == 0 {
		return ""
	}
	parts := make([]string, 0, len(labels))
	for k, v := range labels {
		parts = append(parts, k+"="+v)
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}

func label(l, name string) string {
	if l != "" {
		return l
	}
	return name
}

var sheetNameCleaner = strings.NewReplacer(":", " ", "\\", " ", "/", " ", "?", " ", "*", " ", "[", "(", "]", ")")

// sheetName makes s a valid, unique sheet name: no reserved characters and at
// most 31 runes.
func sheetName(s string, used map[string]bool) string {
	base := []rune(strings.TrimSpace(sheetNameCleaner.Replace(s)))
	if len(base) > 31 {
		base = base[:31]
	}
	name := string(base)
	for n := 2; used[strings.ToLower(name)]; n++ {
		suffix := fmt.Sprintf(" %d", n)
		trimmed := base
		if len(trimmed)+len(suffix) > 31 {
			trimmed = trimmed[:31-len(suffix)]
		}
		name = string(trimmed) + suffix
	}
	used[strings.ToLower(name)] = true
	return name
}
