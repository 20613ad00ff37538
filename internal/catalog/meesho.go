package catalog

import "github.com/ECOM-SR/ECOM-REPORTS/internal/model"

// MeeshoPriceColumn is the per-line settlement price, spelling included.
const MeeshoPriceColumn = "Supplier Discounted Price (Incl GST and Commision)"

func init() {
	register(model.Descriptor{
		Type:            model.MeeshoOrder,
		Marketplace:     "Meesho",
		Kind:            "order",
		Title:           "Meesho Sales Report",
		RequiredColumns: []string{"Quantity"},
		OptionalColumns: []string{
			"Order Date", "Sub Order No", "Reason for Credit Entry", "Customer State",
			"Product Name", "SKU", "Size", MeeshoPriceColumn, "Supplier Listed Price (Incl. GST + Commission)",
		},
		NumericColumns: []string{"Quantity", MeeshoPriceColumn, "Supplier Listed Price (Incl. GST + Commission)"},
		DateColumns:    []string{"Order Date"},
		TimeAxis:       "Order Date",
		Metrics: []model.MetricSpec{
			rows("total_orders", "Total Orders"),
			sum("total_units", "Total Units Sold", "Quantity"),
			money("total_sales", "Total Sales", MeeshoPriceColumn),
		},
		Series: []model.SeriesSpec{
			daily("daily_orders", "Orders Over Time", "Order Date", ""),
		},
		Breakdowns: []model.BreakdownSpec{
			breakdown("orders_by_state", "Orders by State", "Customer State", 0),
			breakdown("top_products", "Top 10 Products", "Product Name", 10),
			breakdown("credit_reasons", "Reasons for Credit Entry", "Reason for Credit Entry", 0),
		},
	})
}
