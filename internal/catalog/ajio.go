package catalog

import "github.com/ECOM-SR/ECOM-REPORTS/internal/model"

var ajioOrderNumeric = []string{
	"Total Value", "CGST_AMOUNT", "SGST_AMOUNT", "IGST_AMOUNT",
	"Listing MRP", "Selling Price", "Order Qty",
	"Customer Cancelled QTY", "Seller Cancelled QTY",
}

func init() {
	register(model.Descriptor{
		Type:        model.AjioOrder,
		Marketplace: "Ajio",
		Kind:        "order",
		Title:       "Ajio Order Report",
		RequiredColumns: []string{
			"Status", "Total Value", "CGST_AMOUNT", "SGST_AMOUNT", "IGST_AMOUNT",
			"Listing MRP", "Selling Price", "Seller SKU", "Order Qty",
			"Customer Cancelled QTY", "Seller Cancelled QTY", "SLA Status", "Description",
		},
		OptionalColumns: []string{"Order Date"},
		NumericColumns:  ajioOrderNumeric,
		DateColumns:     []string{"Order Date"},
		TimeAxis:        "Order Date",
		Metrics: []model.MetricSpec{
			rows("total_orders", "Total Orders"),
			containing("cancelled_orders", "Cancelled Orders", "Status", "cancelled"),
			money("total_sales", "Total Sales", "Total Value"),
			money("total_tax", "Total Tax", "CGST_AMOUNT", "SGST_AMOUNT", "IGST_AMOUNT"),
			{Name: "total_discounts", Label: "Discounts", Kind: model.MetricSum,
				Columns: []string{"Listing MRP"}, Subtract: []string{"Selling Price"}, Currency: true},
			sum("customer_cancellations", "Customer Cancellations", "Customer Cancelled QTY"),
			sum("seller_cancellations", "Seller Cancellations", "Seller Cancelled QTY"),
			containing("on_time_shipments", "On-Time Shipments", "SLA Status", "on time"),
			containing("delayed_shipments", "Delayed Shipments", "SLA Status", "delayed"),
		},
		Groups: []model.GroupSpec{
			{Name: "sku_orders", Label: "Best-Selling and Slow-Moving SKUs", Keys: []string{"Seller SKU", "Description"},
				ValueColumn: "Order Qty"},
			{Name: "sku_summary", Label: "SKU Summary (Orders, Cancelled, Sales)", Keys: []string{"Seller SKU", "Description"},
				ValueColumn: "Order Qty", ExtraColumns: []string{"Customer Cancelled QTY", "Total Value"},
				TopN: model.Unlimited, NoBottom: true},
		},
		Series: []model.SeriesSpec{
			daily("daily_sales", "Sales by Day", "Order Date", "Total Value"),
			daily("daily_orders", "Number of Orders by Day", "Order Date", ""),
		},
	})

	register(model.Descriptor{
		Type:            model.AjioReturn,
		Marketplace:     "Ajio",
		Kind:            "return",
		Title:           "Ajio Return Report",
		RequiredColumns: []string{"SELLER SKU", "Return QTY", "Return Value", "Credit Note Value"},
		OptionalColumns: []string{
			"Return Created Date", "Return Delivered Date", "QC completion date", "Credit Note Generation Date",
			"Credit Note Pre Tax Value", "Credit Note Tax Value", "CGST AMOUNT", "SGST AMOUNT", "IGST AMOUNT",
			"RETURN ORDER NUMBER", "BRAND", "Disposition", "QC Reason coding", "Return Status", "Return Carrier Name",
		},
		NumericColumns: []string{
			"Return QTY", "Return Value", "Credit Note Value", "Credit Note Pre Tax Value",
			"Credit Note Tax Value", "CGST AMOUNT", "SGST AMOUNT", "IGST AMOUNT",
		},
		DateColumns: []string{"Return Created Date", "Return Delivered Date", "QC completion date", "Credit Note Generation Date"},
		TimeAxis:    "Return Created Date",
		Metrics: []model.MetricSpec{
			rows("total_returns", "Total Returns"),
			sum("total_return_qty", "Total Return Qty", "Return QTY"),
			money("total_return_value", "Total Return Value", "Return Value"),
			money("credit_note_value", "Credit Note Value", "Credit Note Value"),
		},
		Groups: []model.GroupSpec{
			{Name: "returned_skus", Label: "Top Returned SKUs", Keys: []string{"SELLER SKU"}, ValueColumn: "Return QTY", NoBottom: true},
		},
		Series: []model.SeriesSpec{
			daily("daily_returns", "Returns by Date", "Return Created Date", "Return QTY"),
		},
		Breakdowns: []model.BreakdownSpec{
			breakdown("disposition", "QC Disposition Breakdown", "Disposition", 0),
			breakdown("qc_reasons", "Top QC Reasons", "QC Reason coding", 10),
			breakdown("return_status", "Return Status Distribution", "Return Status", 0),
			breakdown("carriers", "Top Return Carriers", "Return Carrier Name", 10),
		},
	})
}
