package pipeline_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ECOM-SR/ECOM-REPORTS/internal/catalog"
	"github.com/ECOM-SR/ECOM-REPORTS/internal/model"
	"github.com/ECOM-SR/ECOM-REPORTS/internal/pipeline"
)

func orderDescriptor() model.Descriptor {
	return model.Descriptor{
		Type:            "test_order",
		RequiredColumns: []string{"SKU", "Qty", "Status"},
		OptionalColumns: []string{"Date", "Amount", "Title"},
		NumericColumns:  []string{"Qty", "Amount"},
		DateColumns:     []string{"Date"},
		Fallbacks:       map[string]string{"Title": catalog.UnknownProduct},
		TimeAxis:        "Date",
		Metrics: []model.MetricSpec{
			{Name: "rows", Kind: model.MetricRowCount},
			{Name: "cancelled", Kind: model.MetricMatch, Columns: []string{"Status"},
				Match: &model.MatchRule{Mode: model.MatchContains, Values: []string{"cancel"}}},
			{Name: "qty", Kind: model.MetricSum, Columns: []string{"Qty"}},
			{Name: "amount", Kind: model.MetricSum, Columns: []string{"Amount"}, Currency: true},
		},
		Groups: []model.GroupSpec{{Name: "sku", Keys: []string{"SKU"}, ValueColumn: "Qty"}},
		Series: []model.SeriesSpec{{Name: "daily", DateColumn: "Date"}},
		Breakdowns: []model.BreakdownSpec{
			{Name: "status", Column: "Status"},
		},
	}
}

func skuRows(pairs ...interface{}) model.Report {
	r := model.Report{Columns: []string{"SKU", "Qty", "Status"}}
	for i := 0; i+1 < len(pairs); i += 2 {
		r.Rows = append(r.Rows, model.Row{"SKU": pairs[i], "Qty": pairs[i+1], "Status": "Delivered"})
	}
	return r
}

func TestAggregateOrderScenario(t *testing.T) {
	report := model.Report{
		Columns: []string{"SKU", "Qty", "Status"},
		Rows: []model.Row{
			{"SKU": "A", "Qty": 5, "Status": "Cancelled"},
			{"SKU": "B", "Qty": 3, "Status": "Delivered"},
		},
	}

	res, err := pipeline.AggregateDescriptor(report, orderDescriptor(), pipeline.Options{TopN: 1})
	require.NoError(t, err)

	assert.Equal(t, 2, res.RowCount)
	assert.Equal(t, 2.0, res.Value("rows"))
	assert.Equal(t, 1.0, res.Value("cancelled"))

	g, ok := res.Group("sku")
	require.True(t, ok)
	require.Len(t, g.Top, 1)
	assert.Equal(t, []string{"A"}, g.Top[0].Keys)
	assert.Equal(t, 5.0, g.Top[0].Value)
}

func TestMissingColumnsComputesNothing(t *testing.T) {
	report := model.Report{
		Columns: []string{"SKU", "Title"},
		Rows:    []model.Row{{"SKU": "A", "Title": "Shirt"}},
	}

	res, err := pipeline.AggregateDescriptor(report, orderDescriptor(), pipeline.Options{})
	assert.Nil(t, res)

	var ve *model.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, []string{"Qty", "Status"}, ve.Missing)
}

func TestMissingColumnsForCatalogType(t *testing.T) {
	report := model.Report{Columns: []string{"SELLER SKU", "Return Value"}}

	_, err := pipeline.Aggregate(report, model.AjioReturn)

	var ve *model.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, model.AjioReturn, ve.ReportType)
	assert.Equal(t, []string{"Return QTY", "Credit Note Value"}, ve.Missing)
}

func TestUnknownReportType(t *testing.T) {
	_, err := pipeline.Aggregate(model.Report{}, "ebay_order")
	assert.True(t, errors.Is(err, pipeline.ErrUnknownReportType))
}

func TestUnparsableNumbersBecomeZero(t *testing.T) {
	report := model.Report{Columns: []string{"SKU", "Qty", "Status", "Amount"}}
	for _, cell := range []string{"10.5", "", "abc", "20"} {
		report.Rows = append(report.Rows, model.Row{"SKU": "A", "Qty": "1", "Status": "ok", "Amount": cell})
	}

	res, err := pipeline.AggregateDescriptor(report, orderDescriptor(), pipeline.Options{})
	require.NoError(t, err)

	var got []interface{}
	for _, row := range res.Normalized.Rows {
		got = append(got, row["Amount"])
	}
	assert.Equal(t, []interface{}{10.5, 0.0, 0.0, 20.0}, got)
	assert.Equal(t, 30.5, res.Value("amount"))

	m, _ := res.Metric("amount")
	assert.Equal(t, "₹30.50", m.Formatted())
}

func TestOverflowingSumsStayEncodable(t *testing.T) {
	report := model.Report{Columns: []string{"SKU", "Qty", "Status", "Amount"}}
	for _, cell := range []string{"1e308", "1e308", "-1e308"} {
		report.Rows = append(report.Rows, model.Row{"SKU": "A", "Qty": cell, "Status": "ok", "Amount": "1e308"})
	}

	res, err := pipeline.AggregateDescriptor(report, orderDescriptor(), pipeline.Options{})
	require.NoError(t, err)

	assert.Equal(t, math.MaxFloat64, res.Value("amount"))
	g, ok := res.Group("sku")
	require.True(t, ok)
	assert.False(t, math.IsInf(g.Top[0].Value, 0))
	assert.False(t, math.IsNaN(g.Top[0].Value))

	_, err = json.Marshal(res)
	assert.NoError(t, err)
}

func TestUndatedRowsLeaveSeriesButStayInMetrics(t *testing.T) {
	report := model.Report{Columns: []string{"SKU", "Qty", "Status", "Date"}}
	for _, d := range []string{"2024-03-01", "not a date", "2024-03-01 10:00:00", "03/02/2024"} {
		report.Rows = append(report.Rows, model.Row{"SKU": "A", "Qty": "1", "Status": "ok", "Date": d})
	}

	res, err := pipeline.AggregateDescriptor(report, orderDescriptor(), pipeline.Options{})
	require.NoError(t, err)

	assert.Equal(t, 4, res.RowCount)
	assert.Equal(t, 3, res.DatedRows)
	assert.Equal(t, 4.0, res.Value("qty"))
	assert.Nil(t, res.Normalized.Rows[1]["Date"])

	s, ok := res.SeriesByName("daily")
	require.True(t, ok)
	assert.Equal(t, []model.SeriesPoint{
		{Date: "2024-03-01", Value: 2},
		{Date: "2024-03-02", Value: 1},
	}, s.Points)
}

func TestBottomExcludesNonPositiveGroups(t *testing.T) {
	report := skuRows("A", "5", "B", "0", "C", "-2", "D", "3")

	res, err := pipeline.AggregateDescriptor(report, orderDescriptor(), pipeline.Options{})
	require.NoError(t, err)

	g, _ := res.Group("sku")
	keys := func(rows []model.GroupRow) []string {
		var out []string
		for _, r := range rows {
			out = append(out, r.Keys[0])
		}
		return out
	}
	assert.Equal(t, []string{"A", "D", "B", "C"}, keys(g.Top))
	assert.Equal(t, []string{"D", "A"}, keys(g.Bottom))
}

func TestGroupTiesKeepFirstSeenOrder(t *testing.T) {
	report := skuRows("B", "1", "A", "2", "B", "1", "C", "2")

	res, err := pipeline.AggregateDescriptor(report, orderDescriptor(), pipeline.Options{})
	require.NoError(t, err)

	g, _ := res.Group("sku")
	require.Len(t, g.Top, 3)
	assert.Equal(t, "B", g.Top[0].Keys[0])
	assert.Equal(t, "A", g.Top[1].Keys[0])
	assert.Equal(t, "C", g.Top[2].Keys[0])
	assert.Equal(t, "B", g.Bottom[0].Keys[0])
}

func TestBlankGroupKeysAreSkipped(t *testing.T) {
	report := skuRows("A", "1", "  ", "9", nil, "4")

	res, err := pipeline.AggregateDescriptor(report, orderDescriptor(), pipeline.Options{})
	require.NoError(t, err)

	g, _ := res.Group("sku")
	require.Len(t, g.Top, 1)
	assert.Equal(t, "A", g.Top[0].Keys[0])
	assert.Equal(t, 14.0, res.Value("qty"))
}

func TestBreakdownOrderingAndTruncation(t *testing.T) {
	d := orderDescriptor()
	d.Breakdowns = []model.BreakdownSpec{{Name: "status", Column: "Status", TopN: 2}}

	report := model.Report{Columns: []string{"SKU", "Qty", "Status"}}
	for _, s := range []string{"Shipped", "Pending", "Shipped", "", "Returned", "Pending", "Lost"} {
		report.Rows = append(report.Rows, model.Row{"SKU": "A", "Qty": "1", "Status": s})
	}

	res, err := pipeline.AggregateDescriptor(report, d, pipeline.Options{})
	require.NoError(t, err)

	b, ok := res.Breakdown("status")
	require.True(t, ok)
	assert.Equal(t, []model.FrequencyCount{{Value: "Shipped", Count: 2}, {Value: "Pending", Count: 2}}, b.Counts)
}

func TestFallbackLabelAndTrimming(t *testing.T) {
	report := model.Report{
		Columns: []string{"SKU", "Qty", "Status", "Title"},
		Rows: []model.Row{
			{"SKU": "  A ", "Qty": " 1,200 ", "Status": "ok", "Title": ""},
			{"SKU": "B", "Qty": "₹3", "Status": "ok", "Title": "  Cap "},
		},
	}

	res, err := pipeline.AggregateDescriptor(report, orderDescriptor(), pipeline.Options{})
	require.NoError(t, err)

	rows := res.Normalized.Rows
	assert.Equal(t, "A", rows[0]["SKU"])
	assert.Equal(t, 1200.0, rows[0]["Qty"])
	assert.Equal(t, catalog.UnknownProduct, rows[0]["Title"])
	assert.Equal(t, "Cap", rows[1]["Title"])
	assert.Equal(t, 3.0, rows[1]["Qty"])
}

func TestAggregateDoesNotMutateInput(t *testing.T) {
	report := skuRows("A", "5")
	_, err := pipeline.AggregateDescriptor(report, orderDescriptor(), pipeline.Options{})
	require.NoError(t, err)
	assert.Equal(t, "5", report.Rows[0]["Qty"])
}

func TestAggregateIsIdempotent(t *testing.T) {
	report := flipkartOrders()

	first, err := pipeline.Aggregate(report, model.FlipkartOrder)
	require.NoError(t, err)
	second, err := pipeline.Aggregate(report, model.FlipkartOrder)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func flipkartOrders() model.Report {
	cols := []string{"order_id", "order_item_status", "order_date", "sku", "product_title",
		"quantity", "price", "dispatch_sla_breached", "delivery_sla_breached"}
	data := [][]string{
		{"O1", "Delivered", "2024-01-05", "S1", "Shirt", "2", "100", "No", "Yes"},
		{"O1", "Cancelled", "2024-01-05", "S2", "", "1", "50", "yes", "no"},
		{"O2", "returned", "2024-01-06", "S1", "Shirt", "1", "100", "YES", "No"},
		{"O3", "Delivered", "", "S3", "Cap", "abc", "20", "", ""},
	}
	r := model.Report{Columns: cols}
	for _, rec := range data {
		row := model.Row{}
		for i, c := range cols {
			row[c] = rec[i]
		}
		r.Rows = append(r.Rows, row)
	}
	return r
}

func TestFlipkartOrderReport(t *testing.T) {
	res, err := pipeline.Aggregate(flipkartOrders(), model.FlipkartOrder)
	require.NoError(t, err)

	want := map[string]float64{
		"total_orders":          3,
		"cancelled_orders":      1,
		"returned_orders":       1,
		"total_quantity":        4,
		"estimated_revenue":     350,
		"dispatch_sla_breaches": 2,
		"delivery_sla_breaches": 1,
		"sla_breaches":          3,
	}
	for name, v := range want {
		assert.Equal(t, v, res.Value(name), name)
	}
	assert.Equal(t, 4, res.RowCount)
	assert.Equal(t, 3, res.DatedRows)

	g, ok := res.Group("product_movers")
	require.True(t, ok)
	require.Len(t, g.Top, 3)
	assert.Equal(t, []string{"S1", "Shirt"}, g.Top[0].Keys)
	assert.Equal(t, 3.0, g.Top[0].Value)
	assert.Equal(t, []string{"S2", catalog.UnknownProduct}, g.Top[1].Keys)
	require.Len(t, g.Bottom, 2)
	assert.Equal(t, "S2", g.Bottom[0].Keys[0])

	s, _ := res.SeriesByName("daily_orders")
	assert.Equal(t, []model.SeriesPoint{{Date: "2024-01-05", Value: 2}, {Date: "2024-01-06", Value: 1}}, s.Points)
}

func TestDateRangeFilter(t *testing.T) {
	day := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	res, err := pipeline.AggregateWithOptions(flipkartOrders(), model.FlipkartOrder, pipeline.Options{From: &day, To: &day})
	require.NoError(t, err)

	assert.Equal(t, 2, res.RowCount)
	assert.Equal(t, 1.0, res.Value("total_orders"))
	assert.Equal(t, 250.0, res.Value("estimated_revenue"))
}

func TestOptionalColumnsAbsent(t *testing.T) {
	report := model.Report{
		Columns: []string{"order_id", "order_item_status"},
		Rows:    []model.Row{{"order_id": "1", "order_item_status": "Cancelled"}},
	}

	res, err := pipeline.Aggregate(report, model.FlipkartOrder)
	require.NoError(t, err)

	assert.Equal(t, 0.0, res.Value("total_quantity"))
	assert.Equal(t, 0.0, res.Value("estimated_revenue"))
	assert.Equal(t, 1.0, res.Value("cancelled_orders"))
	assert.Empty(t, res.Groups)
	assert.Empty(t, res.Series)
}

func TestFlipkartInventoryLowStock(t *testing.T) {
	cols := []string{"sku", "stock_quantity", "average_daily_sales", "days_stock_will_last"}
	data := [][]string{
		{"A", "10", "2", "5"},
		{"B", "100", "1", "100"},
		{"C", "", "x", ""},
		{"D", "5", "3", "7.5"},
	}
	report := model.Report{Columns: cols}
	for _, rec := range data {
		report.Rows = append(report.Rows, model.Row{cols[0]: rec[0], cols[1]: rec[1], cols[2]: rec[2], cols[3]: rec[3]})
	}

	res, err := pipeline.Aggregate(report, model.FlipkartInventory)
	require.NoError(t, err)

	assert.Equal(t, 4.0, res.Value("total_skus"))
	assert.Equal(t, 115.0, res.Value("total_stock"))
	assert.Equal(t, 1.5, res.Value("avg_daily_sales"))
	assert.Equal(t, 2.0, res.Value("low_stock_skus"))

	require.Len(t, res.Tables, 1)
	low := res.Tables[0]
	require.Len(t, low.Rows, 2)
	assert.Equal(t, "C", low.Rows[0]["sku"])
	assert.Equal(t, "A", low.Rows[1]["sku"])
	assert.Equal(t, cols, low.Columns)
}

func TestAjioOrderTotals(t *testing.T) {
	d, err := catalog.Lookup(model.AjioOrder)
	require.NoError(t, err)

	base := func(sku, status, sla, value, mrp, price, qty, custCancel string) model.Row {
		row := model.Row{}
		for _, c := range d.RequiredColumns {
			row[c] = "0"
		}
		row["Seller SKU"], row["Description"] = sku, "desc "+sku
		row["Status"], row["SLA Status"] = status, sla
		row["Total Value"], row["Listing MRP"], row["Selling Price"] = value, mrp, price
		row["Order Qty"], row["Customer Cancelled QTY"] = qty, custCancel
		row["CGST_AMOUNT"], row["SGST_AMOUNT"] = "9", "9"
		return row
	}
	report := model.Report{Columns: d.RequiredColumns, Rows: []model.Row{
		base("X1", "Delivered", "On Time", "1000", "1500", "1000", "2", "0"),
		base("X2", "Customer Cancelled", "Delayed", "500", "800", "500", "1", "1"),
		base("X1", "Delivered", "on time", "250.5", "300", "250", "1", "0"),
	}}

	res, err := pipeline.Aggregate(report, model.AjioOrder)
	require.NoError(t, err)

	assert.Equal(t, 3.0, res.Value("total_orders"))
	assert.Equal(t, 1.0, res.Value("cancelled_orders"))
	assert.InDelta(t, 1750.5, res.Value("total_sales"), 1e-9)
	assert.Equal(t, 54.0, res.Value("total_tax"))
	assert.Equal(t, 850.0, res.Value("total_discounts"))
	assert.Equal(t, 2.0, res.Value("on_time_shipments"))
	assert.Equal(t, 1.0, res.Value("delayed_shipments"))

	summary, ok := res.Group("sku_summary")
	require.True(t, ok)
	require.Len(t, summary.Top, 2)
	assert.Empty(t, summary.Bottom)
	assert.Equal(t, 3.0, summary.Top[0].Value)
	assert.InDelta(t, 1250.5, summary.Top[0].Extra["Total Value"], 1e-9)
	assert.Equal(t, 1.0, summary.Top[1].Extra["Customer Cancelled QTY"])

	assert.Empty(t, res.Series, "no Order Date column")
}

func table(cols []string, data ...[]string) model.Report {
	r := model.Report{Columns: cols}
	for _, rec := range data {
		row := model.Row{}
		for i, c := range cols {
			row[c] = rec[i]
		}
		r.Rows = append(r.Rows, row)
	}
	return r
}

func ajioReturns() model.Report {
	cols := []string{"SELLER SKU", "Return QTY", "Return Value", "Credit Note Value",
		"Return Carrier Name", "QC Reason coding", "Return Created Date"}
	var data [][]string
	for i := 0; i < 12; i++ {
		carrier := fmt.Sprintf("C%d", i)
		if i == 11 {
			carrier = "C0"
		}
		data = append(data, []string{fmt.Sprintf("SKU%d", i%3), "1", "100", "90",
			carrier, fmt.Sprintf("Q%d", i), "2024-05-01"})
	}
	return table(cols, data...)
}

func TestCatalogReportTypes(t *testing.T) {
	tests := []struct {
		name       string
		rt         model.ReportType
		report     model.Report
		metrics    map[string]float64
		breakdowns map[string]int
		check      func(t *testing.T, res *model.AggregateResult)
	}{
		{
			name: "amazon orders",
			rt:   model.AmazonOrder,
			report: table(
				[]string{"amazon-order-id", "order-status", "sku", "quantity", "item-price",
					"purchase-date", "ship-state", "fulfillment-channel"},
				[]string{"A1", "Shipped", "S1", "2", "100", "2024-02-01", "KA", "AFN"},
				[]string{"A1", "Shipped", "S2", "1", "50", "2024-02-01", "KA", "AFN"},
				[]string{"A2", "Cancelled", "S1", "1", "0", "2024-02-02", "MH", "MFN"},
				[]string{"A3", "Canceled by buyer", "S3", "3", "0", "2024-02-02", "MH", "MFN"},
				[]string{"A4", "Pending", "S2", "1", "75", "2024-02-03", "KA", "AFN"},
			),
			metrics: map[string]float64{
				"order_lines":      5,
				"total_orders":     4,
				"cancelled_orders": 2,
				"shipped_orders":   2,
				"pending_orders":   1,
				"total_quantity":   8,
				"total_sales":      225,
				"total_tax":        0,
			},
			breakdowns: map[string]int{"order_status": 4, "ship_state": 2, "fulfillment_channel": 2},
			check: func(t *testing.T, res *model.AggregateResult) {
				g, _ := res.Group("sku_quantity")
				assert.Equal(t, "S1", g.Top[0].Keys[0])
				assert.Equal(t, "S2", g.Bottom[0].Keys[0])
				s, ok := res.SeriesByName("daily_sales")
				require.True(t, ok)
				assert.Equal(t, []model.SeriesPoint{
					{Date: "2024-02-01", Value: 150},
					{Date: "2024-02-02", Value: 0},
					{Date: "2024-02-03", Value: 75},
				}, s.Points)
			},
		},
		{
			name: "amazon returns",
			rt:   model.AmazonReturn,
			report: table(
				[]string{"order-id", "sku", "quantity", "detailed-disposition", "reason", "return-date"},
				[]string{"R1", "S1", "1", "CUSTOMER_DAMAGED", "TOO_SMALL", "2024-02-10"},
				[]string{"R1", "S2", "2", "SELLABLE", "TOO_SMALL", "2024-02-10"},
				[]string{"R2", "S1", "1", "DEFECTIVE", "NOT_AS_DESCRIBED", "2024-02-11"},
				[]string{"R3", "S3", "1", "Carrier Damaged", "", "2024-02-11"},
			),
			metrics: map[string]float64{
				"total_returns":      4,
				"returned_orders":    3,
				"total_quantity":     5,
				"unsellable_returns": 3,
			},
			breakdowns: map[string]int{"return_reason": 2, "disposition": 4},
		},
		{
			name: "flipkart returns",
			rt:   model.FlipkartReturn,
			report: table(
				[]string{"return_id", "return_status", "sku", "product_title", "quantity", "return_reason",
					"tech_visit_completion_breach", "return_completion_breach", "return_requested_date"},
				[]string{"F1", "Completed", "S1", "Shirt", "1", "size", "Yes", "No", "2024-03-01"},
				[]string{"F1", "completed", "S1", "Shirt", "1", "size", "no", "no", "2024-03-01"},
				[]string{"F2", "Cancelled", "S2", "", "2", "quality", "No", "yes", "2024-03-02"},
				[]string{"F3", "Approved", "S1", "Shirt", "1", "size", "", "", "2024-03-02"},
			),
			metrics: map[string]float64{
				"total_returns":              3,
				"completed_returns":          2,
				"cancelled_returns":          1,
				"total_quantity":             5,
				"tech_visit_breaches":        1,
				"return_completion_breaches": 1,
				"sla_breaches":               2,
			},
			breakdowns: map[string]int{"return_reason": 2},
			check: func(t *testing.T, res *model.AggregateResult) {
				g, _ := res.Group("returned_products")
				require.Len(t, g.Top, 2)
				assert.Equal(t, []string{"S1", "Shirt"}, g.Top[0].Keys)
				assert.Equal(t, []string{"S2", catalog.UnknownProduct}, g.Top[1].Keys)
			},
		},
		{
			name:   "ajio returns",
			rt:     model.AjioReturn,
			report: ajioReturns(),
			metrics: map[string]float64{
				"total_returns":      12,
				"total_return_qty":   12,
				"total_return_value": 1200,
				"credit_note_value":  1080,
			},
			breakdowns: map[string]int{"carriers": 10, "qc_reasons": 10},
			check: func(t *testing.T, res *model.AggregateResult) {
				b, _ := res.Breakdown("carriers")
				assert.Equal(t, model.FrequencyCount{Value: "C0", Count: 2}, b.Counts[0])
				s, _ := res.SeriesByName("daily_returns")
				assert.Equal(t, []model.SeriesPoint{{Date: "2024-05-01", Value: 12}}, s.Points)
			},
		},
		{
			name: "myntra orders",
			rt:   model.MyntraOrder,
			report: table(
				[]string{"created on", "order status", "final amount", "discount", "coupon discount", "style name", "state"},
				[]string{"2024-04-01", "Delivered", "500", "50", "10", "Tee", "KA"},
				[]string{"2024-04-01", "delivered", "300", "0", "0", "Tee", "MH"},
				[]string{"2024-04-02", "Cancelled", "0", "20", "0", "Jeans", "KA"},
			),
			metrics: map[string]float64{
				"total_orders":     3,
				"delivered_orders": 2,
				"total_revenue":    800,
				"total_discounts":  80,
			},
			breakdowns: map[string]int{"top_styles": 2, "orders_by_state": 2},
		},
		{
			name: "myntra returns",
			rt:   model.MyntraReturn,
			report: table(
				[]string{"return_id", "status", "is_refunded", "quantity", "return_created_date", "style_id", "return_reason"},
				[]string{"M1", "RTO", "yes", "1", "2024-04-05", "101", "Size issue"},
				[]string{"", "Delivered", "no", "1", "2024-04-05", "101", "Size issue"},
				[]string{"M3", "rto", "No", "2", "2024-04-06", "102", ""},
				[]string{"M4", "Refunded", "YES", "1", "", "103", "Damaged"},
			),
			metrics: map[string]float64{
				"total_returns":   3,
				"rto_orders":      2,
				"refunded_orders": 2,
				"total_quantity":  5,
			},
			breakdowns: map[string]int{"top_styles": 3, "return_reason": 2, "return_status": 4},
			check: func(t *testing.T, res *model.AggregateResult) {
				assert.Equal(t, 3, res.DatedRows)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := catalog.Lookup(tt.rt)
			require.NoError(t, err)

			res, err := pipeline.Aggregate(tt.report, tt.rt)
			require.NoError(t, err)
			assert.Equal(t, len(tt.report.Rows), res.RowCount)

			for name, want := range tt.metrics {
				assert.Equal(t, want, res.Value(name), name)
			}
			for name, n := range tt.breakdowns {
				b, ok := res.Breakdown(name)
				require.True(t, ok, name)
				assert.Len(t, b.Counts, n, name)
			}
			for _, spec := range d.Groups {
				g, ok := res.Group(spec.Name)
				require.True(t, ok, spec.Name)
				assert.NotEmpty(t, g.Top, spec.Name)
				if spec.NoBottom {
					assert.Empty(t, g.Bottom, spec.Name)
				} else {
					assert.NotEmpty(t, g.Bottom, spec.Name)
				}
			}
			if tt.check != nil {
				tt.check(t, res)
			}
		})
	}
}
