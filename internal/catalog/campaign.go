package catalog

import "github.com/ECOM-SR/ECOM-REPORTS/internal/model"

var campaignColumns = []string{
	"State", "Keyword", "Match type", "Status", "Suggested bid (low) (INR)",
	"Suggested bid (median) (INR)", "Suggested bid (high) (INR)", "Keyword bid (INR)",
	"Top-of-search IS", "Impressions", "Clicks", "CTR", "Spend (INR)", "CPC (INR)",
	"Orders", "Sales (INR)", "ACOS", "ROAS", "NTB orders", "% of orders NTB",
	"NTB sales (INR)", "% of sales NTB",
}

func init() {
	register(model.Descriptor{
		Type:            model.CampaignBid,
		Marketplace:     "Amazon",
		Kind:            "campaign",
		Title:           "Amazon PPC Manual Campaign Bid Optimizer",
		RequiredColumns: campaignColumns,
		NumericColumns: []string{
			"Suggested bid (low) (INR)", "Suggested bid (median) (INR)", "Suggested bid (high) (INR)",
			"Keyword bid (INR)", "Top-of-search IS", "Impressions", "Clicks", "CTR", "Spend (INR)",
			"CPC (INR)", "Orders", "Sales (INR)", "ACOS", "ROAS", "NTB orders", "% of orders NTB",
			"NTB sales (INR)", "% of sales NTB",
		},
		Metrics: []model.MetricSpec{
			rows("keywords", "Keywords"),
			sum("impressions", "Impressions", "Impressions"),
			sum("clicks", "Clicks", "Clicks"),
			sum("orders", "Orders", "Orders"),
			money("total_spend", "Total Spend", "Spend (INR)"),
			money("total_sales", "Total Sales", "Sales (INR)"),
		},
		Breakdowns: []model.BreakdownSpec{
			breakdown("match_type", "Keywords by Match Type", "Match type", 0),
			breakdown("keyword_state", "Keywords by State", "State", 0),
		},
		Bid: &model.BidSpec{
			CPCColumn:    "CPC (INR)",
			ACOSColumn:   "ACOS",
			CTRColumn:    "CTR",
			OrdersColumn: "Orders",
			ClicksColumn: "Clicks",
			ROASColumn:   "ROAS",
			SalesColumn:  "Sales (INR)",
			OutputColumn: RecommendedBidColumn,
			LabelColumns: []string{"Keyword", "Match type"},
		},
	})
}
