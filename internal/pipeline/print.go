package pipeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ECOM-SR/ECOM-REPORTS/internal/model"
	"github.com/ECOM-SR/ECOM-REPORTS/pkg/utils"
)

// --- ANSI color codes ---
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

// PrintOptions controls PrintResult.
type PrintOptions struct {
	Color    bool
	MaxRows  int // rows per table; 0 prints 5
	ShowBids bool
}

// PrintResult writes a human-readable summary of r.
func PrintResult(w io.Writer, title string, r *model.AggregateResult, opts PrintOptions) {
	p := printer{w: w, color: opts.Color}
	maxRows := opts.MaxRows
	if maxRows <= 0 {
		maxRows = 5
	}

	p.line(colorBold, "📊 %s", title)
	p.line("", "   %s · %d rows", r.ReportType, r.RowCount)
	if r.From != nil || r.To != nil {
		p.line("", "   range %s .. %s", dayOrDots(r.From), dayOrDots(r.To))
	}

	if len(r.Metrics) > 0 {
		width := 0
		for _, m := range r.Metrics {
			width = max(width, len(label(m.Label, m.Name)))
		}
		p.line(colorCyan, "\n  Metrics")
		for _, m := range r.Metrics {
			p.line("", "   %-*s  %s", width, label(m.Label, m.Name), m.Formatted())
		}
	}

	for _, g := range r.Groups {
		p.line(colorCyan, "\n  %s (top %d)", label(g.Label, g.Name), len(g.Top))
		printGroupRows(p, g.Top, maxRows, colorGreen)
		if len(g.Bottom) > 0 {
			p.line(colorCyan, "  %s (bottom %d)", label(g.Label, g.Name), len(g.Bottom))
			printGroupRows(p, g.Bottom, maxRows, colorYellow)
		}
	}

	for _, s := range r.Series {
		p.line(colorCyan, "\n  %s: %d days", label(s.Label, s.Name), len(s.Points))
		if n := len(s.Points); n > 0 {
			first, last := s.Points[0], s.Points[n-1]
			p.line("", "   %s %s .. %s %s", first.Date, utils.FormatFixed(first.Value, 2), last.Date, utils.FormatFixed(last.Value, 2))
		}
	}

	for _, b := range r.Breakdowns {
		p.line(colorCyan, "\n  %s", label(b.Label, b.Name))
		for i, c := range b.Counts {
			if i == maxRows {
				p.line("", "   … %d more", len(b.Counts)-maxRows)
				break
			}
			p.line("", "   %-30s %s", truncate(c.Value, 30), utils.FormatCount(float64(c.Count)))
		}
	}

	for _, t := range r.Tables {
		p.line(colorCyan, "\n  %s: %d rows", label(t.Label, t.Name), len(t.Rows))
	}

	if opts.ShowBids && len(r.Bids) > 0 {
		p.line(colorCyan, "\n  Bid recommendations")
		for i, b := range r.Bids {
			if i == maxRows {
				p.line("", "   … %d more", len(r.Bids)-maxRows)
				break
			}
			c := ""
			switch {
			case b.Recommended > b.CurrentBid:
				c = colorGreen
			case b.Recommended < b.CurrentBid:
				c = colorRed
			}
			p.line(c, "   %-40s %s → %s (%s)", truncate(joinLabels(b.Labels), 40),
				utils.FormatFixed(b.CurrentBid, 2), utils.FormatFixed(b.Recommended, 2), b.Rule)
		}
	}
	fmt.Fprintln(w)
}

// PrintFailure writes a one-line failure for a file that could not be aggregated.
func PrintFailure(w io.Writer, title string, err error, color bool) {
	p := printer{w: w, color: color}
	p.line(colorRed, "❌ %s: %v", title, err)
}

func printGroupRows(p printer, rows []model.GroupRow, maxRows int, c string) {
	for i, g := range rows {
		if i == maxRows {
			p.line("", "   … %d more", len(rows)-maxRows)
			return
		}
		p.line(c, "   %-40s %s", truncate(strings.Join(g.Keys, " / "), 40), utils.FormatFixed(g.Value, 2))
	}
}

type printer struct {
	w     io.Writer
	color bool
}

func (p printer) line(c, format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	if p.color && c != "" {
		text = c + text + colorReset
	}
	fmt.Fprintln(p.w, text)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func dayOrDots(t *time.Time) string {
	if t == nil {
		return "…"
	}
	return t.Format("2006-01-02")
}
