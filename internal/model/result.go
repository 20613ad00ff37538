package model

import (
	"time"

	"github.com/ECOM-SR/ECOM-REPORTS/pkg/utils"
)

// Metric is one named scalar of an AggregateResult.
type Metric struct {
	Name     string  `json:"name"`
	Label    string  `json:"label"`
	Value    float64 `json:"value"`
	Currency bool    `json:"currency,omitempty"`
}

// Formatted renders the value for display. Currency is rounded to two
// decimals here; accumulation never rounds.
func (m Metric) Formatted() string {
	if m.Currency {
		return utils.FormatMoney(m.Value)
	}
	if m.Value == float64(int64(m.Value)) {
		return utils.FormatFixed(m.Value, 0)
	}
	return utils.FormatFixed(m.Value, 2)
}

// GroupRow is one group of a GroupTable. Extra holds the sums of the spec's extra columns.
type GroupRow struct {
	Keys  []string           `json:"keys"`
	Value float64            `json:"value"`
	Extra map[string]float64 `json:"extra,omitempty"`
}

// GroupTable is a grouped aggregate in two orderings.
type GroupTable struct {
	Name         string     `json:"name"`
	Label        string     `json:"label"`
	Keys         []string   `json:"keys"`
	ValueColumn  string     `json:"value_column"`
	ExtraColumns []string   `json:"extra_columns,omitempty"`
	Top          []GroupRow `json:"top"`
	Bottom       []GroupRow `json:"bottom,omitempty"`
}

// SeriesPoint is one calendar day of a TimeSeries.
type SeriesPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// TimeSeries is a per-day count or sum, ascending by date.
type TimeSeries struct {
	Name        string        `json:"name"`
	Label       string        `json:"label"`
	DateColumn  string        `json:"date_column"`
	ValueColumn string        `json:"value_column,omitempty"`
	Points      []SeriesPoint `json:"points"`
}

// FrequencyCount is one distinct value of a FrequencyTable.
type FrequencyCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// FrequencyTable counts distinct values of a categorical column, descending by count.
type FrequencyTable struct {
	Name   string           `json:"name"`
	Label  string           `json:"label"`
	Column string           `json:"column"`
	Counts []FrequencyCount `json:"counts"`
}

// RowTable is a filtered projection of normalised rows.
type RowTable struct {
	Name    string   `json:"name"`
	Label   string   `json:"label"`
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// BidRecommendation is the per-row output of the campaign bid rules.
type BidRecommendation struct {
	Row         int               `json:"row"`
	Labels      map[string]string `json:"labels,omitempty"`
	CurrentBid  float64           `json:"current_bid"`
	Recommended float64           `json:"recommended_bid"`
	Rule        string            `json:"rule"`
}

// AggregateResult is the structured output of one aggregation pass.
type AggregateResult struct {
	ReportType ReportType          `json:"report_type"`
	RowCount   int                 `json:"row_count"`
	DatedRows  int                 `json:"dated_rows"`
	From       *time.Time          `json:"from,omitempty"`
	To         *time.Time          `json:"to,omitempty"`
	Metrics    []Metric            `json:"metrics"`
	Groups     []GroupTable        `json:"groups,omitempty"`
	Series     []TimeSeries        `json:"series,omitempty"`
	Breakdowns []FrequencyTable    `json:"breakdowns,omitempty"`
	Tables     []RowTable          `json:"tables,omitempty"`
	Bids       []BidRecommendation `json:"bids,omitempty"`
	Normalized *Report             `json:"-"`
}

// Metric looks up a scalar by name.
func (r *AggregateResult) Metric(name string) (Metric, bool) {
	for _, m := range r.Metrics {
		if m.Name == name {
			return m, true
		}
	}
	return Metric{}, false
}

// Value returns the named scalar, or 0 when it was not computed.
func (r *AggregateResult) Value(name string) float64 {
	m, _ := r.Metric(name)
	return m.Value
}

// Group looks up a grouped table by name.
func (r *AggregateResult) Group(name string) (GroupTable, bool) {
	for _, g := range r.Groups {
		if g.Name == name {
			return g, true
		}
	}
	return GroupTable{}, false
}

// SeriesByName looks up a time series by name.
func (r *AggregateResult) SeriesByName(name string) (TimeSeries, bool) {
	for _, s := range r.Series {
		if s.Name == name {
			return s, true
		}
	}
	return TimeSeries{}, false
}

// Breakdown looks up a frequency table by name.
func (r *AggregateResult) Breakdown(name string) (FrequencyTable, bool) {
	for _, b := range r.Breakdowns {
		if b.Name == name {
			return b, true
		}
	}
	return FrequencyTable{}, false
}
