package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReportType(t *testing.T) {
	cases := map[string]ReportType{
		"flipkart_order":    FlipkartOrder,
		"FlipkartOrder":     FlipkartOrder,
		"FLIPKART-ORDER":    FlipkartOrder,
		" campaign_bid ":    CampaignBid,
		"flipkartInventory": FlipkartInventory,
	}
	for in, want := range cases {
		got, err := ParseReportType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseReportType("shopify_order")
	assert.Error(t, err)
}

func TestValidationErrorListsMissingColumns(t *testing.T) {
	var err error = &ValidationError{ReportType: AjioReturn, Missing: []string{"Return QTY", "Return Value"}}
	assert.Equal(t, "ajio_return: missing required columns: Return QTY, Return Value", err.Error())

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, []string{"Return QTY", "Return Value"}, ve.Missing)
}

func TestMetricFormatted(t *testing.T) {
	assert.Equal(t, "₹12,345.60", Metric{Value: 12345.6, Currency: true}.Formatted())
	assert.Equal(t, "1,200", Metric{Value: 1200}.Formatted())
	assert.Equal(t, "3.33", Metric{Value: 10.0 / 3}.Formatted())
}

func TestAggregateResultLookups(t *testing.T) {
	r := &AggregateResult{
		Metrics: []Metric{{Name: "total_orders", Value: 4}},
		Groups:  []GroupTable{{Name: "sku"}},
	}
	assert.Equal(t, 4.0, r.Value("total_orders"))
	assert.Equal(t, 0.0, r.Value("missing"))
	_, ok := r.Group("sku")
	assert.True(t, ok)
	_, ok = r.Breakdown("state")
	assert.False(t, ok)
}

func TestJobStatusTerminal(t *testing.T) {
	assert.True(t, JobCompleted.Terminal())
	assert.True(t, JobFailed.Terminal())
	assert.False(t, JobAggregating.Terminal())
}

func TestReportHasColumn(t *testing.T) {
	r := Report{Columns: []string{"sku", "quantity"}, Rows: []Row{{"sku": "A", "quantity": "1"}}}

	assert.True(t, r.HasColumn("sku"))
	assert.False(t, r.HasColumn("SKU"))
	assert.False(t, Report{}.HasColumn("sku"))
	assert.Equal(t, 1, r.Len())
}
