package pipeline

import (
	"math"

	"github.com/ECOM-SR/ECOM-REPORTS/internal/model"
	"github.com/ECOM-SR/ECOM-REPORTS/pkg/utils"
)

// MinBid is the floor applied when a rule lowers a bid.
const MinBid = 0.1

// Bid rule names, in evaluation order.
const (
	RuleHighACOSOrLowCTR  = "high_acos_or_low_ctr"
	RuleEfficientKeyword  = "efficient_keyword"
	RuleLowConversion     = "low_conversion"
	RuleHighROASHighSales = "high_roas_high_sales"
	RuleKeep              = "keep"
)

// BidInput is the per-row performance the bid rules read.
type BidInput struct {
	CPC    float64
	ACOS   float64
	CTR    float64
	Orders float64
	Clicks float64
	ROAS   float64
	Sales  float64
}

// RecommendBid applies the bid rule table. The first matching rule wins;
// the conditions overlap, so the order below is part of the behaviour.
func RecommendBid(in BidInput) (float64, string) {
	switch {
	case in.ACOS > 50 || in.CTR < 0.2:
		return math.Max(in.CPC*0.6, MinBid), RuleHighACOSOrLowCTR
	case in.ACOS < 20 && in.Orders > 10 && in.CTR > 1.0:
		return in.CPC * 1.5, RuleEfficientKeyword
	case in.Clicks > 100 && in.Orders < 5:
		return math.Max(in.CPC*0.5, MinBid), RuleLowConversion
	case in.ROAS > 5 && in.Sales > 10000:
		return in.CPC * 1.3, RuleHighROASHighSales
	default:
		return in.CPC, RuleKeep
	}
}

// ApplyBids returns a copy of report with spec.OutputColumn set on every row,
// plus one recommendation per row in row order.
func ApplyBids(report model.Report, spec model.BidSpec) (model.Report, []model.BidRecommendation) {
	out := model.Report{Columns: append([]string(nil), columnsOf(report)...), Rows: make([]model.Row, len(report.Rows))}
	if !out.HasColumn(spec.OutputColumn) {
		out.Columns = append(out.Columns, spec.OutputColumn)
	}

	recs := make([]model.BidRecommendation, len(report.Rows))
	for i, row := range report.Rows {
		in := BidInput{
			CPC:    utils.ParseNumber(row[spec.CPCColumn]),
			ACOS:   utils.ParseNumber(row[spec.ACOSColumn]),
			CTR:    utils.ParseNumber(row[spec.CTRColumn]),
			Orders: utils.ParseNumber(row[spec.OrdersColumn]),
			Clicks: utils.ParseNumber(row[spec.ClicksColumn]),
			ROAS:   utils.ParseNumber(row[spec.ROASColumn]),
			Sales:  utils.ParseNumber(row[spec.SalesColumn]),
		}
		bid, rule := RecommendBid(in)
		bid = finite(bid)

		nr := make(model.Row, len(row)+1)
		for k, v := range row {
			nr[k] = v
		}
		nr[spec.OutputColumn] = bid
		out.Rows[i] = nr

		rec := model.BidRecommendation{Row: i, CurrentBid: in.CPC, Recommended: bid, Rule: rule}
		if len(spec.LabelColumns) > 0 {
			rec.Labels = make(map[string]string, len(spec.LabelColumns))
			for _, c := range spec.LabelColumns {
				rec.Labels[c] = cellString(row[c])
			}
		}
		recs[i] = rec
	}
	return out, recs
}

func bidMetrics(recs []model.BidRecommendation) []model.Metric {
	var raised, lowered, kept float64
	for _, r := range recs {
		switch {
		case r.Recommended > r.CurrentBid:
			raised++
		case r.Recommended < r.CurrentBid:
			lowered++
		default:
			kept++
		}
	}
	return []model.Metric{
		{Name: "bids_raised", Label: "Bids Raised", Value: raised},
		{Name: "bids_lowered", Label: "Bids Lowered", Value: lowered},
		{Name: "bids_unchanged", Label: "Bids Unchanged", Value: kept},
	}
}
