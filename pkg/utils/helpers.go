package utils

import (
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// numberNoise is stripped from numeric cells before parsing: thousands
// separators, rupee signs and percent suffixes show up in every marketplace export.
var numberNoise = strings.NewReplacer(",", "", "₹", "", "%", "", "INR", "", "Rs.", "")

// ParseNumber coerces a cell to float64. Anything that cannot be read as a
// finite number becomes 0.
func ParseNumber(v interface{}) float64 {
	switch val := v.(type) {
	case nil:
		return 0
	case string:
		s := strings.TrimSpace(numberNoise.Replace(strings.TrimSpace(val)))
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		return f
	case bool:
		return 0
	default:
		f := Numeric(val)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		return f
	}
}

// Numeric safely converts supported types to float64.
func Numeric(v interface{}) float64 {
	switch val := v.(type) {
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case float64:
		return val
	case float32:
		return float64(val)
	default:
		rv := reflect.ValueOf(v)
		if rv.IsValid() && rv.Kind() >= reflect.Int && rv.Kind() <= reflect.Float64 {
			return rv.Convert(reflect.TypeOf(float64(0))).Float()
		}
		return 0
	}
}

// dateLayouts are tried in order. Slashed and dashed forms are month-first
// before day-first, so "03/04/2024" is March 4th and "13/04/2024" still parses.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02 15:04:05 -0700 MST",
	"2006/1/2",
	"2006/1/2 15:04:05",
	"1/2/2006",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"1/2/2006 3:04 PM",
	"2/1/2006",
	"2/1/2006 15:04",
	"2/1/2006 15:04:05",
	"1-2-2006",
	"1-2-2006 15:04:05",
	"2-1-2006",
	"2-1-2006 15:04",
	"2-1-2006 15:04:05",
	"01-02-06",
	"1/2/06",
	"2-Jan-2006",
	"2-Jan-06",
	"2 Jan 2006",
	"2 Jan 2006 15:04:05",
	"Jan 2, 2006",
	"Jan 2 2006",
	"January 2, 2006",
	"2 January 2006",
	"Mon Jan 2 15:04:05 2006",
}

// maxExcelSerial is 9999-12-31 as an Excel serial day number.
const maxExcelSerial = 2958465

// ParseDate coerces a cell to a time. The second return is false when the
// cell is blank or unreadable; callers treat that as an absent date.
func ParseDate(v interface{}) (time.Time, bool) {
	switch val := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return val, !val.IsZero()
	case *time.Time:
		if val == nil || val.IsZero() {
			return time.Time{}, false
		}
		return *val, true
	case float64:
		return excelSerial(val)
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return excelSerial(f)
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

func excelSerial(f float64) (time.Time, bool) {
	if math.IsNaN(f) || f < 1 || f > maxExcelSerial {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(f, false)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DayKey returns the calendar date of t, ignoring time-of-day.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// CleanHeader trims whitespace and removes all quotes from a column name.
func CleanHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.TrimSpace(h)
	h = strings.ReplaceAll(h, `"`, "")
	return strings.TrimSpace(h)
}

// FormatMoney renders a currency total with two decimals and thousands
// separators, e.g. ₹12,345.60. Rounding happens here and nowhere else.
func FormatMoney(v float64) string {
	return "₹" + FormatFixed(v, 2)
}

// FormatFixed renders v with the given number of decimals and comma grouping.
func FormatFixed(v float64, places int32) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	s := decimal.NewFromFloat(v).StringFixed(places)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteString(frac)
	return b.String()
}

// FormatCount renders a count or quantity without trailing zeros.
func FormatCount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
