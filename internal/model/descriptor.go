package model

// MetricKind selects how a scalar metric is computed.
type MetricKind string

const (
	MetricRowCount   MetricKind = "row_count"   // number of rows
	MetricDistinct   MetricKind = "distinct"    // distinct non-blank values of Columns[0]
	MetricNonEmpty   MetricKind = "non_empty"   // rows where Columns[0] is not blank
	MetricSum        MetricKind = "sum"         // sum(Columns) - sum(Subtract)
	MetricSumProduct MetricKind = "sum_product" // sum(Columns[0] * Columns[1])
	MetricMean       MetricKind = "mean"        // arithmetic mean of Columns[0]
	MetricMatch      MetricKind = "match"       // rows where Columns[0] satisfies Match
	MetricAtMost     MetricKind = "at_most"     // rows where Columns[0] <= Threshold
	MetricTotal      MetricKind = "total"       // sum of the named metrics in Of
)

// MatchMode is the comparison used by a match metric. Both are case-insensitive.
type MatchMode string

const (
	MatchEquals   MatchMode = "equals"
	MatchContains MatchMode = "contains"
)

// MatchRule is a predicate on a status-like column.
type MatchRule struct {
	Mode   MatchMode `json:"mode"`
	Values []string  `json:"values"`
}

// MetricSpec declares one scalar metric.
type MetricSpec struct {
	Name      string     `json:"name"`
	Label     string     `json:"label"`
	Kind      MetricKind `json:"kind"`
	Columns   []string   `json:"columns,omitempty"`
	Subtract  []string   `json:"subtract,omitempty"`
	Match     *MatchRule `json:"match,omitempty"`
	Threshold float64    `json:"threshold,omitempty"`
	Of        []string   `json:"of,omitempty"`
	Currency  bool       `json:"currency,omitempty"`
}

// GroupSpec declares a grouped table: rows grouped by Keys, ValueColumn summed.
// TopN and BottomN of 0 mean "use the default"; Unlimited keeps every group.
// BottomN < 0 with NoBottom suppresses the ascending table.
type GroupSpec struct {
	Name         string   `json:"name"`
	Label        string   `json:"label"`
	Keys         []string `json:"keys"`
	ValueColumn  string   `json:"value_column"`
	ExtraColumns []string `json:"extra_columns,omitempty"`
	TopN         int      `json:"top_n,omitempty"`
	BottomN      int      `json:"bottom_n,omitempty"`
	NoBottom     bool     `json:"no_bottom,omitempty"`
}

// Unlimited disables top-N truncation.
const Unlimited = -1

// SeriesSpec declares a per-day series over DateColumn. An empty ValueColumn counts rows.
type SeriesSpec struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	DateColumn  string `json:"date_column"`
	ValueColumn string `json:"value_column,omitempty"`
}

// BreakdownSpec declares a frequency table over a categorical column. TopN 0 keeps all values.
type BreakdownSpec struct {
	Name   string `json:"name"`
	Label  string `json:"label"`
	Column string `json:"column"`
	TopN   int    `json:"top_n,omitempty"`
}

// RowTableSpec selects rows whose FilterColumn is at most Max, sorted ascending by it.
type RowTableSpec struct {
	Name         string   `json:"name"`
	Label        string   `json:"label"`
	FilterColumn string   `json:"filter_column"`
	Max          float64  `json:"max"`
	Columns      []string `json:"columns"`
	Limit        int      `json:"limit"`
}

// BidSpec names the campaign columns the bid rule table reads and the column it writes.
type BidSpec struct {
	CPCColumn    string   `json:"cpc_column"`
	ACOSColumn   string   `json:"acos_column"`
	CTRColumn    string   `json:"ctr_column"`
	OrdersColumn string   `json:"orders_column"`
	ClicksColumn string   `json:"clicks_column"`
	ROASColumn   string   `json:"roas_column"`
	SalesColumn  string   `json:"sales_column"`
	OutputColumn string   `json:"output_column"`
	LabelColumns []string `json:"label_columns"`
}

// Descriptor is the declarative schema and aggregate plan of one ReportType.
type Descriptor struct {
	Type        ReportType `json:"type"`
	Marketplace string     `json:"marketplace"`
	Kind        string     `json:"kind"`
	Title       string     `json:"title"`

	RequiredColumns []string          `json:"required_columns"`
	OptionalColumns []string          `json:"optional_columns,omitempty"`
	NumericColumns  []string          `json:"numeric_columns,omitempty"`
	DateColumns     []string          `json:"date_columns,omitempty"`
	Fallbacks       map[string]string `json:"fallbacks,omitempty"`
	TimeAxis        string            `json:"time_axis,omitempty"`

	Metrics    []MetricSpec    `json:"metrics"`
	Groups     []GroupSpec     `json:"groups,omitempty"`
	Series     []SeriesSpec    `json:"series,omitempty"`
	Breakdowns []BreakdownSpec `json:"breakdowns,omitempty"`
	Tables     []RowTableSpec  `json:"tables,omitempty"`
	Bid        *BidSpec        `json:"bid,omitempty"`
}

// Declares reports whether name is a required or optional column of d.
func (d Descriptor) Declares(name string) bool {
	for _, c := range d.RequiredColumns {
		if c == name {
			return true
		}
	}
	for _, c := range d.OptionalColumns {
		if c == name {
			return true
		}
	}
	return false
}

// IsNumeric reports whether name is declared numeric.
func (d Descriptor) IsNumeric(name string) bool {
	return contains(d.NumericColumns, name)
}

// IsDate reports whether name is declared as a date column.
func (d Descriptor) IsDate(name string) bool {
	return contains(d.DateColumns, name)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
