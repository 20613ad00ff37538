package catalog

import "github.com/ECOM-SR/ECOM-REPORTS/internal/model"

func init() {
	register(model.Descriptor{
		Type:        model.MyntraOrder,
		Marketplace: "Myntra",
		Kind:        "order",
		Title:       "Myntra Order Report",
		RequiredColumns: []string{
			"created on", "order status", "final amount", "discount", "coupon discount", "style name", "state",
		},
		OptionalColumns: []string{"delivered on", "order release id", "seller sku code", "city"},
		NumericColumns:  []string{"final amount", "discount", "coupon discount"},
		DateColumns:     []string{"created on", "delivered on"},
		TimeAxis:        "created on",
		Metrics: []model.MetricSpec{
			rows("total_orders", "Total Orders"),
			equals("delivered_orders", "Delivered Orders", "order status", "delivered"),
			money("total_revenue", "Total Revenue", "final amount"),
			money("total_discounts", "Total Discounts", "discount", "coupon discount"),
		},
		Series: []model.SeriesSpec{
			daily("daily_orders", "Orders Over Time", "created on", ""),
		},
		Breakdowns: []model.BreakdownSpec{
			breakdown("top_styles", "Top 10 Selling Styles", "style name", 10),
			breakdown("orders_by_state", "Orders by State", "state", 0),
		},
	})

	register(model.Descriptor{
		Type:            model.MyntraReturn,
		Marketplace:     "Myntra",
		Kind:            "return",
		Title:           "Myntra Return Report",
		RequiredColumns: []string{"return_id", "status", "is_refunded", "quantity"},
		OptionalColumns: []string{
			"order_created_date", "order_delivered_date", "return_created_date",
			"refunded_date", "order_rto_date", "lmdo_last_modified_on",
			"style_id", "return_reason", "seller_sku_code",
		},
		NumericColumns: []string{"quantity"},
		DateColumns: []string{
			"order_created_date", "order_delivered_date", "return_created_date",
			"refunded_date", "order_rto_date", "lmdo_last_modified_on",
		},
		TimeAxis: "return_created_date",
		Metrics: []model.MetricSpec{
			{Name: "total_returns", Label: "Total Returned Orders", Kind: model.MetricNonEmpty, Columns: []string{"return_id"}},
			equals("rto_orders", "RTO Orders", "status", "rto"),
			equals("refunded_orders", "Refunded Orders", "is_refunded", "yes"),
			sum("total_quantity", "Total Units Returned", "quantity"),
		},
		Series: []model.SeriesSpec{
			daily("daily_returns", "Return Volume Over Time", "return_created_date", ""),
		},
		Breakdowns: []model.BreakdownSpec{
			breakdown("top_styles", "Top Returned Styles", "style_id", 10),
			breakdown("return_reason", "Return Reasons Distribution", "return_reason", 0),
			breakdown("return_status", "Return Status Split", "status", 0),
		},
	})
}
