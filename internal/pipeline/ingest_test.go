package pipeline_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ECOM-SR/ECOM-REPORTS/internal/model"
	"github.com/ECOM-SR/ECOM-REPORTS/internal/pipeline"
)

// buildWorkbook writes rows to the first sheet and adds any extra sheets after it.
func buildWorkbook(t *testing.T, rows [][]interface{}, extraSheets ...string) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("set row %d: %v", i, err)
		}
	}
	for _, name := range extraSheets {
		if _, err := f.NewSheet(name); err != nil {
			t.Fatalf("new sheet %s: %v", name, err)
		}
		if err := f.SetCellValue(name, "A1", "not the report"); err != nil {
			t.Fatalf("set cell: %v", err)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf
}

func TestReadCSVCleansAndManglesHeaders(t *testing.T) {
	input := "\" SKU \",\"Qty\",Qty,,Status\nA,1,2,x,ok\n\n,,,,\nB,3\n"

	report, err := pipeline.ReadReport("orders.csv", strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"SKU", "Qty", "Qty.1", "Unnamed: 3", "Status"}, report.Columns)
	require.Len(t, report.Rows, 2)
	assert.Equal(t, model.Row{"SKU": "A", "Qty": "1", "Qty.1": "2", "Unnamed: 3": "x", "Status": "ok"}, report.Rows[0])
	assert.Equal(t, "3", report.Rows[1]["Qty"])
	assert.Equal(t, "", report.Rows[1]["Status"])
}

func TestReadCSVStripsBOM(t *testing.T) {
	report, err := pipeline.ReadReport("meesho.csv", strings.NewReader("\ufeffQuantity\n2\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Quantity"}, report.Columns)
}

func TestReadCSVLazyQuotes(t *testing.T) {
	input := "sku,product_title\nS1,Shirt \"slim\" fit\n"

	report, err := pipeline.ReadReport("flipkart.csv", strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)
	assert.Equal(t, `Shirt "slim" fit`, report.Rows[0]["product_title"])
}

func TestReadXLSXFirstSheet(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{"Seller SKU", " Order Qty ", "Status"},
		{"X1", 2, "Delivered"},
		{},
		{"X2", 1.5, "Cancelled"},
	}, "Notes")

	report, err := pipeline.ReadReport("ajio.xlsx", buf)
	require.NoError(t, err)

	if got, want := strings.Join(report.Columns, "|"), "Seller SKU|Order Qty|Status"; got != want {
		t.Fatalf("columns=%s, want %s", got, want)
	}
	if got, want := len(report.Rows), 2; got != want {
		t.Fatalf("rows=%d, want %d", got, want)
	}
	if got, want := report.Rows[1]["Order Qty"], "1.5"; got != want {
		t.Fatalf("qty=%v, want %v", got, want)
	}
}

func TestReadXLSXWithoutExtension(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{{"Quantity"}, {3}})

	report, err := pipeline.ReadReport("upload", buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"Quantity"}, report.Columns)
}

func TestXLSXDatesFeedTheTimeSeries(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	buf := buildWorkbook(t, [][]interface{}{
		{"Order Date", "Quantity", "Customer State"},
		{day(5), 1, "Kerala"},
		{day(5), 2, "Goa"},
		{day(7), 1, "Kerala"},
		{"pending", 4, ""},
	})

	report, err := pipeline.ReadReport("meesho.xlsx", buf)
	require.NoError(t, err)

	res, err := pipeline.Aggregate(report, model.MeeshoOrder)
	require.NoError(t, err)

	assert.Equal(t, 4.0, res.Value("total_orders"))
	assert.Equal(t, 8.0, res.Value("total_units"))

	s, ok := res.SeriesByName("daily_orders")
	require.True(t, ok)
	assert.Equal(t, []model.SeriesPoint{{Date: "2024-01-05", Value: 2}, {Date: "2024-01-07", Value: 1}}, s.Points)

	b, ok := res.Breakdown("orders_by_state")
	require.True(t, ok)
	assert.Equal(t, []model.FrequencyCount{{Value: "Kerala", Count: 2}, {Value: "Goa", Count: 1}}, b.Counts)
}

func TestDetectFormat(t *testing.T) {
	zip := []byte("PK\x03\x04")

	cases := []struct {
		name string
		head []byte
		want pipeline.Format
	}{
		{"a.csv", nil, pipeline.FormatCSV},
		{"a.XLSX", nil, pipeline.FormatXLSX},
		{"a", zip, pipeline.FormatXLSX},
		{"a", []byte("sku,"), pipeline.FormatCSV},
		{"a.bin", zip, pipeline.FormatXLSX},
	}
	for _, tc := range cases {
		got, err := pipeline.DetectFormat(tc.name, tc.head)
		require.NoError(t, err, tc.name)
		assert.Equal(t, tc.want, got, tc.name)
	}

	_, err := pipeline.DetectFormat("report.xls", []byte{0xD0, 0xCF, 0x11, 0xE0})
	assert.True(t, errors.Is(err, pipeline.ErrUnsupportedFormat))
}

func TestReadEmptyCSV(t *testing.T) {
	report, err := pipeline.ReadReport("empty.csv", strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, report.Columns)
	assert.Empty(t, report.Rows)
}
