package catalog

import "github.com/ECOM-SR/ECOM-REPORTS/internal/model"

// Column names follow the Seller Central flat-file exports.
func init() {
	register(model.Descriptor{
		Type:            model.AmazonOrder,
		Marketplace:     "Amazon",
		Kind:            "order",
		Title:           "Amazon Order Report",
		RequiredColumns: []string{"amazon-order-id", "order-status", "sku", "quantity"},
		OptionalColumns: []string{
			"merchant-order-id", "purchase-date", "last-updated-date", "fulfillment-channel",
			"sales-channel", "product-name", "asin", "item-status", "currency",
			"item-price", "item-tax", "shipping-price", "ship-city", "ship-state", "ship-postal-code",
		},
		NumericColumns: []string{"quantity", "item-price", "item-tax", "shipping-price"},
		DateColumns:    []string{"purchase-date", "last-updated-date"},
		Fallbacks:      map[string]string{"product-name": UnknownProduct},
		TimeAxis:       "purchase-date",
		Metrics: []model.MetricSpec{
			rows("order_lines", "Order Lines"),
			distinct("total_orders", "Total Orders", "amazon-order-id"),
			containing("cancelled_orders", "Cancelled Orders", "order-status", "cancel"),
			equals("shipped_orders", "Shipped Orders", "order-status", "shipped"),
			equals("pending_orders", "Pending Orders", "order-status", "pending"),
			sum("total_quantity", "Total Quantity", "quantity"),
			money("total_sales", "Total Sales", "item-price"),
			money("total_tax", "Total Tax", "item-tax"),
		},
		Groups: []model.GroupSpec{
			{Name: "sku_quantity", Label: "Products by Quantity", Keys: []string{"sku"}, ValueColumn: "quantity"},
		},
		Series: []model.SeriesSpec{
			daily("daily_orders", "Orders Over Time", "purchase-date", ""),
			daily("daily_sales", "Sales Over Time", "purchase-date", "item-price"),
		},
		Breakdowns: []model.BreakdownSpec{
			breakdown("order_status", "Order Status", "order-status", 0),
			breakdown("ship_state", "Orders by State", "ship-state", 10),
			breakdown("fulfillment_channel", "Fulfillment Channel", "fulfillment-channel", 0),
		},
	})

	register(model.Descriptor{
		Type:            model.AmazonReturn,
		Marketplace:     "Amazon",
		Kind:            "return",
		Title:           "Amazon Return Report",
		RequiredColumns: []string{"order-id", "sku", "quantity"},
		OptionalColumns: []string{
			"return-date", "asin", "fnsku", "product-name", "fulfillment-center-id",
			"detailed-disposition", "reason", "status", "license-plate-number", "customer-comments",
		},
		NumericColumns: []string{"quantity"},
		DateColumns:    []string{"return-date"},
		Fallbacks:      map[string]string{"product-name": UnknownProduct},
		TimeAxis:       "return-date",
		Metrics: []model.MetricSpec{
			rows("total_returns", "Total Returns"),
			distinct("returned_orders", "Returned Orders", "order-id"),
			sum("total_quantity", "Total Units Returned", "quantity"),
			containing("unsellable_returns", "Unsellable Returns", "detailed-disposition", "damaged", "defective"),
		},
		Groups: []model.GroupSpec{
			{Name: "sku_returns", Label: "Returned Products", Keys: []string{"sku"}, ValueColumn: "quantity"},
		},
		Series: []model.SeriesSpec{
			daily("daily_returns", "Units Returned Over Time", "return-date", "quantity"),
		},
		Breakdowns: []model.BreakdownSpec{
			breakdown("return_reason", "Return Reasons", "reason", 10),
			breakdown("disposition", "Disposition", "detailed-disposition", 0),
			breakdown("return_status", "Return Status", "status", 0),
		},
	})
}
