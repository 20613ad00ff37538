// Package catalog holds the declarative descriptor of every supported marketplace report.
package catalog

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ECOM-SR/ECOM-REPORTS/internal/model"
)

// ErrUnknownReportType is returned for a tag with no descriptor.
var ErrUnknownReportType = errors.New("unknown report type")

// UnknownProduct fills blank product titles.
const UnknownProduct = "Unknown Product"

// RecommendedBidColumn is appended to campaign reports by the bid rules.
const RecommendedBidColumn = "Recommended Bid (INR)"

var descriptors = map[model.ReportType]model.Descriptor{}

func register(d model.Descriptor) {
	if _, dup := descriptors[d.Type]; dup {
		panic(fmt.Sprintf("catalog: duplicate descriptor for %s", d.Type))
	}
	descriptors[d.Type] = d
}

// Lookup returns the descriptor for rt.
func Lookup(rt model.ReportType) (model.Descriptor, error) {
	d, ok := descriptors[rt]
	if !ok {
		return model.Descriptor{}, fmt.Errorf("%w: %q", ErrUnknownReportType, rt)
	}
	return d, nil
}

// All returns every descriptor in model.ReportTypes order.
func All() []model.Descriptor {
	out := make([]model.Descriptor, 0, len(descriptors))
	for _, rt := range model.ReportTypes {
		if d, ok := descriptors[rt]; ok {
			out = append(out, d)
		}
	}
	return out
}

// Check verifies that every column a descriptor's plan touches is declared,
// and that metric names are unique and totals only refer to earlier metrics.
func Check(d model.Descriptor) error {
	var problems []string
	need := func(where, col string) {
		if col != "" && !d.Declares(col) {
			problems = append(problems, fmt.Sprintf("%s references undeclared column %q", where, col))
		}
	}

	for _, c := range d.NumericColumns {
		need("numeric", c)
	}
	for _, c := range d.DateColumns {
		need("dates", c)
	}
	for c := range d.Fallbacks {
		need("fallbacks", c)
	}
	need("time axis", d.TimeAxis)

	seen := map[string]bool{}
	for _, m := range d.Metrics {
		if seen[m.Name] {
			problems = append(problems, fmt.Sprintf("duplicate metric %q", m.Name))
		}
		for _, c := range m.Columns {
			need("metric "+m.Name, c)
		}
		for _, c := range m.Subtract {
			need("metric "+m.Name, c)
		}
		for _, o := range m.Of {
			if !seen[o] {
				problems = append(problems, fmt.Sprintf("metric %s totals unknown or later metric %q", m.Name, o))
			}
		}
		seen[m.Name] = true
	}
	for _, g := range d.Groups {
		for _, k := range g.Keys {
			need("group "+g.Name, k)
		}
		need("group "+g.Name, g.ValueColumn)
		for _, c := range g.ExtraColumns {
			need("group "+g.Name, c)
		}
	}
	for _, s := range d.Series {
		need("series "+s.Name, s.DateColumn)
		need("series "+s.Name, s.ValueColumn)
		if !d.IsDate(s.DateColumn) {
			problems = append(problems, fmt.Sprintf("series %s axis %q is not a date column", s.Name, s.DateColumn))
		}
	}
	for _, b := range d.Breakdowns {
		need("breakdown "+b.Name, b.Column)
	}
	for _, t := range d.Tables {
		need("table "+t.Name, t.FilterColumn)
		for _, c := range t.Columns {
			need("table "+t.Name, c)
		}
	}
	if b := d.Bid; b != nil {
		for _, c := range []string{b.CPCColumn, b.ACOSColumn, b.CTRColumn, b.OrdersColumn, b.ClicksColumn, b.ROASColumn, b.SalesColumn} {
			need("bid", c)
			if !d.IsNumeric(c) {
				problems = append(problems, fmt.Sprintf("bid input %q is not numeric", c))
			}
		}
		for _, c := range b.LabelColumns {
			need("bid", c)
		}
	}

	if len(problems) == 0 {
		return nil
	}
	sort.Strings(problems)
	return fmt.Errorf("descriptor %s: %v", d.Type, problems)
}

func rows(name, label string) model.MetricSpec {
	return model.MetricSpec{Name: name, Label: label, Kind: model.MetricRowCount}
}

func distinct(name, label, col string) model.MetricSpec {
	return model.MetricSpec{Name: name, Label: label, Kind: model.MetricDistinct, Columns: []string{col}}
}

func sum(name, label string, cols ...string) model.MetricSpec {
	return model.MetricSpec{Name: name, Label: label, Kind: model.MetricSum, Columns: cols}
}

func money(name, label string, cols ...string) model.MetricSpec {
	m := sum(name, label, cols...)
	m.Currency = true
	return m
}

func equals(name, label, col string, values ...string) model.MetricSpec {
	return model.MetricSpec{Name: name, Label: label, Kind: model.MetricMatch, Columns: []string{col},
		Match: &model.MatchRule{Mode: model.MatchEquals, Values: values}}
}

func containing(name, label, col string, values ...string) model.MetricSpec {
	return model.MetricSpec{Name: name, Label: label, Kind: model.MetricMatch, Columns: []string{col},
		Match: &model.MatchRule{Mode: model.MatchContains, Values: values}}
}

func total(name, label string, of ...string) model.MetricSpec {
	return model.MetricSpec{Name: name, Label: label, Kind: model.MetricTotal, Of: of}
}

func daily(name, label, dateCol, valueCol string) model.SeriesSpec {
	return model.SeriesSpec{Name: name, Label: label, DateColumn: dateCol, ValueColumn: valueCol}
}

func breakdown(name, label, col string, topN int) model.BreakdownSpec {
	return model.BreakdownSpec{Name: name, Label: label, Column: col, TopN: topN}
}
