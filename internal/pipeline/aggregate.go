package pipeline

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/ECOM-SR/ECOM-REPORTS/internal/catalog"
	"github.com/ECOM-SR/ECOM-REPORTS/internal/model"
	"github.com/ECOM-SR/ECOM-REPORTS/pkg/utils"
)

// DefaultTopN is the size of top and bottom group tables unless overridden.
const DefaultTopN = 10

// ErrUnknownReportType is returned when no descriptor exists for a tag.
var ErrUnknownReportType = catalog.ErrUnknownReportType

// Options tunes one aggregation pass.
type Options struct {
	TopN    int        // size of descending group tables; 0 means DefaultTopN
	BottomN int        // size of ascending group tables; 0 means DefaultTopN
	From    *time.Time // inclusive lower bound on the time axis
	To      *time.Time // inclusive upper bound on the time axis
}

// Aggregate validates, normalises and aggregates report as rt.
func Aggregate(report model.Report, rt model.ReportType) (*model.AggregateResult, error) {
	return AggregateWithOptions(report, rt, Options{})
}

// AggregateWithOptions is Aggregate with a date range and table sizes.
func AggregateWithOptions(report model.Report, rt model.ReportType, opts Options) (*model.AggregateResult, error) {
	d, err := catalog.Lookup(rt)
	if err != nil {
		return nil, err
	}
	return AggregateDescriptor(report, d, opts)
}

// AggregateDescriptor runs one aggregation pass against an explicit descriptor.
// Nothing is computed when a required column is missing.
func AggregateDescriptor(report model.Report, d model.Descriptor, opts Options) (*model.AggregateResult, error) {
	if err := ValidateColumns(report, d); err != nil {
		return nil, err
	}

	norm := Normalize(report, d)
	if d.TimeAxis != "" {
		norm = FilterByDate(norm, d.TimeAxis, opts.From, opts.To)
	}

	result := &model.AggregateResult{
		ReportType: d.Type,
		RowCount:   len(norm.Rows),
		From:       opts.From,
		To:         opts.To,
	}
	if d.TimeAxis != "" && norm.HasColumn(d.TimeAxis) {
		for _, row := range norm.Rows {
			if _, ok := row[d.TimeAxis].(time.Time); ok {
				result.DatedRows++
			}
		}
	}

	result.Metrics = computeMetrics(norm, d)
	for _, g := range d.Groups {
		if table, ok := groupTable(norm, g, opts); ok {
			result.Groups = append(result.Groups, table)
		}
	}
	for _, s := range d.Series {
		if series, ok := timeSeries(norm, s); ok {
			result.Series = append(result.Series, series)
		}
	}
	for _, b := range d.Breakdowns {
		if freq, ok := frequencyTable(norm, b); ok {
			result.Breakdowns = append(result.Breakdowns, freq)
		}
	}
	for _, t := range d.Tables {
		if table, ok := rowTable(norm, t); ok {
			result.Tables = append(result.Tables, table)
		}
	}
	if d.Bid != nil {
		norm, result.Bids = ApplyBids(norm, *d.Bid)
		result.Metrics = append(result.Metrics, bidMetrics(result.Bids)...)
	}

	result.Normalized = &norm
	return result, nil
}

// ------------------- Scalar metrics -------------------

func computeMetrics(report model.Report, d model.Descriptor) []model.Metric {
	metrics := make([]model.Metric, 0, len(d.Metrics))
	values := make(map[string]float64, len(d.Metrics))

	for _, spec := range d.Metrics {
		var v float64
		if spec.Kind == model.MetricTotal {
			for _, name := range spec.Of {
				v += values[name]
			}
		} else {
			v = metricValue(report, spec)
		}
		v = finite(v)
		values[spec.Name] = v
		metrics = append(metrics, model.Metric{Name: spec.Name, Label: spec.Label, Value: v, Currency: spec.Currency})
	}
	return metrics
}

// metricValue computes one metric. A metric over a column the report does
// not carry is 0, except sums, where each absent column contributes 0.
func metricValue(report model.Report, spec model.MetricSpec) float64 {
	rows := report.Rows
	if spec.Kind == model.MetricRowCount {
		return float64(len(rows))
	}
	if spec.Kind == model.MetricSum {
		var total float64
		for _, col := range spec.Columns {
			total += columnSum(report, col)
		}
		for _, col := range spec.Subtract {
			total -= columnSum(report, col)
		}
		return total
	}

	if len(spec.Columns) == 0 {
		return 0
	}
	for _, col := range spec.Columns {
		if !report.HasColumn(col) {
			return 0
		}
	}
	col := spec.Columns[0]

	switch spec.Kind {
	case model.MetricDistinct:
		seen := make(map[string]struct{})
		for _, row := range rows {
			if s := cellString(row[col]); s != "" {
				seen[s] = struct{}{}
			}
		}
		return float64(len(seen))
	case model.MetricNonEmpty:
		n := 0
		for _, row := range rows {
			if cellString(row[col]) != "" {
				n++
			}
		}
		return float64(n)
	case model.MetricSumProduct:
		if len(spec.Columns) < 2 {
			return 0
		}
		var total float64
		for _, row := range rows {
			total = finite(total + utils.ParseNumber(row[col])*utils.ParseNumber(row[spec.Columns[1]]))
		}
		return total
	case model.MetricMean:
		if len(rows) == 0 {
			return 0
		}
		return columnSum(report, col) / float64(len(rows))
	case model.MetricMatch:
		if spec.Match == nil {
			return 0
		}
		n := 0
		for _, row := range rows {
			if matches(cellString(row[col]), *spec.Match) {
				n++
			}
		}
		return float64(n)
	case model.MetricAtMost:
		n := 0
		for _, row := range rows {
			if utils.ParseNumber(row[col]) <= spec.Threshold {
				n++
			}
		}
		return float64(n)
	default:
		return 0
	}
}

func columnSum(report model.Report, col string) float64 {
	if !report.HasColumn(col) {
		return 0
	}
	var total float64
	for _, row := range report.Rows {
		total += utils.ParseNumber(row[col])
	}
	return finite(total)
}

// finite keeps accumulated values encodable: sums that overflow saturate at
// ±MaxFloat64 and NaN becomes 0.
func finite(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case math.IsInf(v, 1):
		return math.MaxFloat64
	case math.IsInf(v, -1):
		return -math.MaxFloat64
	default:
		return v
	}
}

// matches applies a case-insensitive equality or substring rule.
func matches(cell string, rule model.MatchRule) bool {
	cell = strings.ToLower(strings.TrimSpace(cell))
	for _, v := range rule.Values {
		v = strings.ToLower(v)
		switch rule.Mode {
		case model.MatchContains:
			if strings.Contains(cell, v) {
				return true
			}
		default:
			if cell == v {
				return true
			}
		}
	}
	return false
}

// ------------------- Grouped aggregates -------------------

func groupTable(report model.Report, g model.GroupSpec, opts Options) (model.GroupTable, bool) {
	for _, col := range append(append([]string{g.ValueColumn}, g.Keys...), g.ExtraColumns...) {
		if !report.HasColumn(col) {
			return model.GroupTable{}, false
		}
	}

	index := make(map[string]int)
	var groups []model.GroupRow
	for _, row := range report.Rows {
		keys := make([]string, len(g.Keys))
		blank := false
		for i, k := range g.Keys {
			keys[i] = cellString(row[k])
			if keys[i] == "" {
				blank = true
			}
		}
		if blank {
			continue
		}

		id := strings.Join(keys, "\x1f")
		i, ok := index[id]
		if !ok {
			i = len(groups)
			index[id] = i
			groups = append(groups, model.GroupRow{Keys: keys})
			if len(g.ExtraColumns) > 0 {
				groups[i].Extra = make(map[string]float64, len(g.ExtraColumns))
			}
		}
		groups[i].Value = finite(groups[i].Value + utils.ParseNumber(row[g.ValueColumn]))
		for _, c := range g.ExtraColumns {
			groups[i].Extra[c] = finite(groups[i].Extra[c] + utils.ParseNumber(row[c]))
		}
	}

	table := model.GroupTable{
		Name:         g.Name,
		Label:        g.Label,
		Keys:         g.Keys,
		ValueColumn:  g.ValueColumn,
		ExtraColumns: g.ExtraColumns,
	}

	top := append([]model.GroupRow(nil), groups...)
	sort.SliceStable(top, func(i, j int) bool { return top[i].Value > top[j].Value })
	table.Top = limit(top, tableSize(g.TopN, opts.TopN))

	if !g.NoBottom {
		var positive []model.GroupRow
		for _, gr := range groups {
			if gr.Value > 0 {
				positive = append(positive, gr)
			}
		}
		sort.SliceStable(positive, func(i, j int) bool { return positive[i].Value < positive[j].Value })
		table.Bottom = limit(positive, tableSize(g.BottomN, opts.BottomN))
	}
	return table, true
}

// tableSize resolves a descriptor size against the caller's override.
func tableSize(declared, override int) int {
	switch {
	case declared == model.Unlimited:
		return -1
	case declared > 0:
		return declared
	case override > 0:
		return override
	default:
		return DefaultTopN
	}
}

func limit(rows []model.GroupRow, n int) []model.GroupRow {
	if n >= 0 && len(rows) > n {
		return rows[:n]
	}
	return rows
}

// ------------------- Time series -------------------

func timeSeries(report model.Report, s model.SeriesSpec) (model.TimeSeries, bool) {
	if !report.HasColumn(s.DateColumn) || (s.ValueColumn != "" && !report.HasColumn(s.ValueColumn)) {
		return model.TimeSeries{}, false
	}

	byDay := make(map[string]float64)
	for _, row := range report.Rows {
		t, ok := row[s.DateColumn].(time.Time)
		if !ok {
			continue
		}
		v := 1.0
		if s.ValueColumn != "" {
			v = utils.ParseNumber(row[s.ValueColumn])
		}
		day := utils.DayKey(t)
		byDay[day] = finite(byDay[day] + v)
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	series := model.TimeSeries{
		Name:        s.Name,
		Label:       s.Label,
		DateColumn:  s.DateColumn,
		ValueColumn: s.ValueColumn,
		Points:      make([]model.SeriesPoint, len(days)),
	}
	for i, day := range days {
		series.Points[i] = model.SeriesPoint{Date: day, Value: byDay[day]}
	}
	return series, true
}

// ------------------- Categorical breakdowns -------------------

func frequencyTable(report model.Report, b model.BreakdownSpec) (model.FrequencyTable, bool) {
	if !report.HasColumn(b.Column) {
		return model.FrequencyTable{}, false
	}

	index := make(map[string]int)
	var counts []model.FrequencyCount
	for _, row := range report.Rows {
		v := cellString(row[b.Column])
		if v == "" {
			continue
		}
		i, ok := index[v]
		if !ok {
			i = len(counts)
			index[v] = i
			counts = append(counts, model.FrequencyCount{Value: v})
		}
		counts[i].Count++
	}

	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })
	if b.TopN > 0 && len(counts) > b.TopN {
		counts = counts[:b.TopN]
	}
	return model.FrequencyTable{Name: b.Name, Label: b.Label, Column: b.Column, Counts: counts}, true
}

// ------------------- Row tables -------------------

func rowTable(report model.Report, t model.RowTableSpec) (model.RowTable, bool) {
	if !report.HasColumn(t.FilterColumn) {
		return model.RowTable{}, false
	}

	cols := t.Columns
	if len(cols) == 0 {
		cols = report.Columns
	}

	var selected []model.Row
	for _, row := range report.Rows {
		if utils.ParseNumber(row[t.FilterColumn]) <= t.Max {
			selected = append(selected, row)
		}
	}
	sort.SliceStable(selected, func(i, j int) bool {
		return utils.ParseNumber(selected[i][t.FilterColumn]) < utils.ParseNumber(selected[j][t.FilterColumn])
	})
	if t.Limit > 0 && len(selected) > t.Limit {
		selected = selected[:t.Limit]
	}

	table := model.RowTable{Name: t.Name, Label: t.Label, Columns: cols, Rows: make([]model.Row, len(selected))}
	for i, row := range selected {
		projected := make(model.Row, len(cols))
		for _, c := range cols {
			projected[c] = row[c]
		}
		table.Rows[i] = projected
	}
	return table, true
}

// Describe renders a one-line summary used in logs.
func Describe(r *model.AggregateResult) string {
	return fmt.Sprintf("%s: %d rows, %d metrics, %d groups, %d series, %d breakdowns",
		r.ReportType, r.RowCount, len(r.Metrics), len(r.Groups), len(r.Series), len(r.Breakdowns))
}
