package utils

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want float64
	}{
		{"plain", "42", 42},
		{"rupee and separators", "₹1,234.50", 1234.5},
		{"percent", "12.5%", 12.5},
		{"padded", "  7 ", 7},
		{"text", "abc", 0},
		{"blank", "", 0},
		{"nil", nil, 0},
		{"nan string", "NaN", 0},
		{"bool", true, 0},
		{"int", 3, 3},
		{"int32", int32(7), 7},
		{"float", 2.25, 2.25},
		{"inf", math.Inf(1), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseNumber(tt.in))
		})
	}
}

func TestParseDate(t *testing.T) {
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name string
		in   interface{}
		want time.Time
		ok   bool
	}{
		{"iso", "2024-03-04", day(2024, time.March, 4), true},
		{"month first", "03/04/2024", day(2024, time.March, 4), true},
		{"day first fallback", "13/04/2024", day(2024, time.April, 13), true},
		{"named month", "5 Jan 2024", day(2024, time.January, 5), true},
		{"excel serial string", "45292", day(2024, time.January, 1), true},
		{"excel serial float", 45292.0, day(2024, time.January, 1), true},
		{"blank", "  ", time.Time{}, false},
		{"garbage", "not a date", time.Time{}, false},
		{"nil", nil, time.Time{}, false},
		{"serial out of range", -5.0, time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.in)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, DayKey(tt.want), DayKey(got))
			}
		})
	}
}

func TestCleanHeader(t *testing.T) {
	assert.Equal(t, "Order ID", CleanHeader("\ufeff \"Order ID\" "))
	assert.Equal(t, "sku", CleanHeader("sku"))
	assert.Equal(t, "", CleanHeader(`""`))
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "₹1,234,567.89", FormatMoney(1234567.891))
	assert.Equal(t, "₹1,000.00", FormatMoney(999.999))
	assert.Equal(t, "₹-1,000.00", FormatMoney(-1000))
	assert.Equal(t, "₹0.00", FormatMoney(0))
	assert.Equal(t, "0.00", FormatFixed(math.NaN(), 2))
	assert.Equal(t, "12.3", FormatFixed(12.345, 1))
	assert.Equal(t, "3", FormatCount(3))
	assert.Equal(t, "2.5", FormatCount(2.5))
}

func TestOutputManager(t *testing.T) {
	base := t.TempDir()
	om := NewOutputManager(filepath.Join(base, "out"))
	require.NoError(t, om.EnsureOutputDirExists())

	path, err := om.GetOutputFilePath("job-1", "../../evil.csv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "out", "job-1", "evil.csv"), path)

	require.NoError(t, os.WriteFile(path, []byte("a,b\n"), 0644))
	size, err := om.GetFileSize(path)
	require.NoError(t, err)
	assert.Equal(t, int64(4), size)

	for _, bad := range []string{"", ".", "..", "../x", `a\b`} {
		_, err := om.GetOutputFilePath(bad, "x.csv")
		assert.Error(t, err, bad)
	}

	readPath, err := om.ExportPath("job-2", "result.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "out", "job-2", "result.json"), readPath)
	_, err = os.Stat(filepath.Dir(readPath))
	assert.True(t, os.IsNotExist(err), "reading a path creates no directory")

	assert.Equal(t, "/api/v1/reports/job-1/result.json", om.GetDownloadURL("job-1", "dir/result.json"))
	assert.Equal(t, "csv", om.GetFileType("normalized.CSV"))
	assert.Equal(t, "excel", FileType("result.xlsx"))
	assert.Equal(t, "json", FileType("result.json"))
	assert.Equal(t, "unknown", FileType("archive.zip"))
}
