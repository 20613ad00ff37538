package pipeline

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ECOM-SR/ECOM-REPORTS/internal/model"
	"github.com/ECOM-SR/ECOM-REPORTS/pkg/utils"
)

// ErrUnsupportedFormat is returned for files that are neither CSV nor an XLSX workbook.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Format is the encoding of an uploaded export.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

var zipMagic = []byte("PK\x03\x04")

// DetectFormat picks the format from the file name, falling back to the
// content: workbooks are ZIP archives.
func DetectFormat(name string, head []byte) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case "", ".txt":
		if bytes.HasPrefix(head, zipMagic) {
			return FormatXLSX, nil
		}
		return FormatCSV, nil
	default:
		if bytes.HasPrefix(head, zipMagic) {
			return FormatXLSX, nil
		}
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(name))
	}
}

// ReadFile opens path and reads it as a Report.
func ReadFile(path string) (model.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Report{}, fmt.Errorf("failed to open report file: %w", err)
	}
	defer f.Close()
	return ReadReport(filepath.Base(path), f)
}

// ReadReport reads a CSV file or the first sheet of an XLSX workbook.
// Every cell is returned as a string; normalisation happens later.
func ReadReport(name string, r io.Reader) (model.Report, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(len(zipMagic))

	format, err := DetectFormat(name, head)
	if err != nil {
		return model.Report{}, err
	}
	switch format {
	case FormatXLSX:
		return readXLSX(br)
	default:
		return readCSV(br)
	}
}

// ------------------- CSV -------------------

func readCSV(r io.Reader) (model.Report, error) {
	csvReader := csv.NewReader(r)
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	headers, err := csvReader.Read()
	if err == io.EOF {
		return model.Report{}, nil
	}
	if err != nil {
		return model.Report{}, fmt.Errorf("failed to read CSV header: %w", err)
	}

	report := model.Report{Columns: mangleHeaders(headers)}
	line := 1
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return model.Report{}, fmt.Errorf("CSV read error at line %d: %w", line, err)
		}
		if blankRecord(record) {
			continue
		}
		report.Rows = append(report.Rows, toRow(report.Columns, record))
	}
	return report, nil
}

// ------------------- XLSX -------------------

func readXLSX(r io.Reader) (model.Report, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return model.Report{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return model.Report{}, nil
	}

	// Raw values keep dates as serial numbers, which ParseDate understands
	// regardless of the cell's display format.
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return model.Report{}, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return model.Report{}, nil
	}

	report := model.Report{Columns: mangleHeaders(rows[0])}
	for _, record := range rows[1:] {
		if blankRecord(record) {
			continue
		}
		report.Rows = append(report.Rows, toRow(report.Columns, record))
	}
	return report, nil
}

// mangleHeaders cleans header names and renames duplicates "col", "col.1",
// "col.2"; blank headers become "Unnamed: <index>".
func mangleHeaders(raw []string) []string {
	out := make([]string, len(raw))
	taken := make(map[string]bool, len(raw))
	counts := make(map[string]int, len(raw))

	for i, h := range raw {
		name := utils.CleanHeader(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		candidate := name
		for taken[candidate] {
			counts[name]++
			candidate = fmt.Sprintf("%s.%d", name, counts[name])
		}
		taken[candidate] = true
		out[i] = candidate
	}
	return out
}

func toRow(columns, record []string) model.Row {
	row := make(model.Row, len(columns))
	for i, col := range columns {
		if i < len(record) {
			row[col] = record[i]
		} else {
			row[col] = ""
		}
	}
	return row
}

func blankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
