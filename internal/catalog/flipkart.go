package catalog

import "github.com/ECOM-SR/ECOM-REPORTS/internal/model"

func init() {
	register(model.Descriptor{
		Type:            model.FlipkartOrder,
		Marketplace:     "Flipkart",
		Kind:            "order",
		Title:           "Flipkart Order Lifecycle",
		RequiredColumns: []string{"order_id", "order_item_status"},
		OptionalColumns: []string{
			"order_date", "order_approval_date", "order_cancellation_date",
			"order_return_approval_date", "dispatched_date", "order_delivery_date",
			"sku", "product_title", "quantity", "price",
			"dispatch_sla_breached", "delivery_sla_breached",
		},
		NumericColumns: []string{"quantity", "price"},
		DateColumns: []string{
			"order_date", "order_approval_date", "order_cancellation_date",
			"order_return_approval_date", "dispatched_date", "order_delivery_date",
		},
		Fallbacks: map[string]string{"product_title": UnknownProduct},
		TimeAxis:  "order_date",
		Metrics: []model.MetricSpec{
			distinct("total_orders", "Total Orders", "order_id"),
			equals("cancelled_orders", "Cancelled Orders", "order_item_status", "cancelled"),
			equals("returned_orders", "Returned Orders", "order_item_status", "returned"),
			sum("total_quantity", "Total Quantity", "quantity"),
			{Name: "estimated_revenue", Label: "Estimated Revenue", Kind: model.MetricSumProduct,
				Columns: []string{"quantity", "price"}, Currency: true},
			equals("dispatch_sla_breaches", "Dispatch SLA Breaches", "dispatch_sla_breached", "yes"),
			equals("delivery_sla_breaches", "Delivery SLA Breaches", "delivery_sla_breached", "yes"),
			total("sla_breaches", "SLA Breaches", "dispatch_sla_breaches", "delivery_sla_breaches"),
		},
		Groups: []model.GroupSpec{
			{Name: "product_movers", Label: "Moving Products", Keys: []string{"sku", "product_title"}, ValueColumn: "quantity"},
		},
		Series: []model.SeriesSpec{
			daily("daily_orders", "Orders Over Time", "order_date", ""),
		},
	})

	register(model.Descriptor{
		Type:            model.FlipkartReturn,
		Marketplace:     "Flipkart",
		Kind:            "return",
		Title:           "Flipkart Return Report",
		RequiredColumns: []string{"return_id", "return_status"},
		OptionalColumns: []string{
			"return_requested_date", "return_approval_date", "return_completion_date",
			"return_complete_by_date", "tech_visit_by_date", "tech_visit_completion_datetime",
			"return_cancellation_date", "sku", "product_title", "quantity", "return_reason",
			"tech_visit_completion_breach", "return_completion_breach",
		},
		NumericColumns: []string{"quantity"},
		DateColumns: []string{
			"return_requested_date", "return_approval_date", "return_completion_date",
			"return_complete_by_date", "tech_visit_by_date", "tech_visit_completion_datetime",
			"return_cancellation_date",
		},
		Fallbacks: map[string]string{"product_title": UnknownProduct},
		TimeAxis:  "return_requested_date",
		Metrics: []model.MetricSpec{
			distinct("total_returns", "Total Returns", "return_id"),
			equals("completed_returns", "Completed Returns", "return_status", "completed"),
			equals("cancelled_returns", "Cancelled Returns", "return_status", "cancelled"),
			sum("total_quantity", "Total Quantity Returned", "quantity"),
			equals("tech_visit_breaches", "Tech Visit SLA Breaches", "tech_visit_completion_breach", "yes"),
			equals("return_completion_breaches", "Return Completion SLA Breaches", "return_completion_breach", "yes"),
			total("sla_breaches", "SLA Breaches", "tech_visit_breaches", "return_completion_breaches"),
		},
		Groups: []model.GroupSpec{
			{Name: "returned_products", Label: "Top Returned Products", Keys: []string{"sku", "product_title"},
				ValueColumn: "quantity", NoBottom: true},
		},
		Series: []model.SeriesSpec{
			daily("daily_returns", "Return Requests Over Time", "return_requested_date", ""),
		},
		Breakdowns: []model.BreakdownSpec{
			breakdown("return_reason", "Return Reason Summary", "return_reason", 0),
		},
	})

	register(model.Descriptor{
		Type:            model.FlipkartInventory,
		Marketplace:     "Flipkart",
		Kind:            "inventory",
		Title:           "Flipkart Inventory Report",
		RequiredColumns: []string{"sku", "stock_quantity", "average_daily_sales", "days_stock_will_last"},
		OptionalColumns: []string{"product_title", "warehouse_id", "listing_id", "fsn"},
		NumericColumns:  []string{"stock_quantity", "average_daily_sales", "days_stock_will_last"},
		Metrics: []model.MetricSpec{
			distinct("total_skus", "Total SKUs", "sku"),
			sum("total_stock", "Total Stock Quantity", "stock_quantity"),
			{Name: "avg_daily_sales", Label: "Avg. Daily Sales", Kind: model.MetricMean, Columns: []string{"average_daily_sales"}},
			{Name: "low_stock_skus", Label: "SKUs with ≤ 7 Days Stock", Kind: model.MetricAtMost,
				Columns: []string{"days_stock_will_last"}, Threshold: 7},
		},
		Tables: []model.RowTableSpec{
			{Name: "low_stock", Label: "Low Stock Alert (≤ 7 Days Cover)", FilterColumn: "days_stock_will_last", Max: 7, Limit: 10},
		},
	})
}
