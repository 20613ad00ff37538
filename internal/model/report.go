package model

import (
	"fmt"
	"strings"
)

// Row is a schema-agnostic map from column name to cell value.
// Raw rows carry strings; normalised rows carry float64, time.Time, nil or string.
type Row map[string]interface{}

// Report is one uploaded marketplace export: the header in file order plus its rows.
type Report struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// HasColumn reports whether the header contains name.
func (r Report) HasColumn(name string) bool {
	for _, c := range r.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Len returns the number of rows.
func (r Report) Len() int {
	return len(r.Rows)
}

// ReportType selects which columns and aggregates apply to a Report.
type ReportType string

const (
	AmazonOrder       ReportType = "amazon_order"
	AmazonReturn      ReportType = "amazon_return"
	FlipkartOrder     ReportType = "flipkart_order"
	FlipkartReturn    ReportType = "flipkart_return"
	FlipkartInventory ReportType = "flipkart_inventory"
	AjioOrder         ReportType = "ajio_order"
	AjioReturn        ReportType = "ajio_return"
	MyntraOrder       ReportType = "myntra_order"
	MyntraReturn      ReportType = "myntra_return"
	MeeshoOrder       ReportType = "meesho_order"
	CampaignBid       ReportType = "campaign_bid"
)

// ReportTypes lists every supported tag in display order.
var ReportTypes = []ReportType{
	AmazonOrder, AmazonReturn,
	FlipkartOrder, FlipkartReturn, FlipkartInventory,
	AjioOrder, AjioReturn,
	MyntraOrder, MyntraReturn,
	MeeshoOrder,
	CampaignBid,
}

// ParseReportType accepts "flipkart_order", "FlipkartOrder", "flipkart-order"
// and other spellings that differ only in case and separators.
func ParseReportType(s string) (ReportType, error) {
	want := squash(s)
	for _, rt := range ReportTypes {
		if squash(string(rt)) == want {
			return rt, nil
		}
	}
	return "", fmt.Errorf("unknown report type %q", s)
}

func squash(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(s)
}
