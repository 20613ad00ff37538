package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/ECOM-SR/ECOM-REPORTS/internal/config"
	"github.com/ECOM-SR/ECOM-REPORTS/internal/model"
	"github.com/ECOM-SR/ECOM-REPORTS/internal/pipeline"
	"github.com/ECOM-SR/ECOM-REPORTS/pkg/utils"
)

func main() {
	reportType := flag.String("type", "", "report type, e.g. flipkart_order (see -list)")
	from := flag.String("from", "", "first day to include (YYYY-MM-DD)")
	to := flag.String("to", "", "last day to include (YYYY-MM-DD)")
	top := flag.Int("top", 0, "size of top and bottom tables (default from config)")
	out := flag.String("out", "", "write normalized.csv, result.json and result.xlsx per file under this directory")
	workers := flag.Int("workers", 0, "files aggregated in parallel (default from config)")
	list := flag.Bool("list", false, "list report types and exit")
	color := flag.Bool("color", true, "colour console output")
	quiet := flag.Bool("q", false, "no progress bar")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: reports -type TYPE [flags] FILE...\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *list {
		for _, rt := range model.ReportTypes {
			fmt.Println(rt)
		}
		return
	}

	rt, err := model.ParseReportType(*reportType)
	if err != nil || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("failed to load config, using defaults: %v", err)
		cfg = config.DefaultConfig()
	}

	opts := pipeline.Options{TopN: cfg.Aggregation.TopN, BottomN: cfg.Aggregation.BottomN}
	if *top > 0 {
		opts.TopN, opts.BottomN = *top, *top
	}
	if opts.From, err = parseDay(*from); err != nil {
		log.Fatalf("invalid -from: %v", err)
	}
	if opts.To, err = parseDay(*to); err != nil {
		log.Fatalf("invalid -to: %v", err)
	}
	n := cfg.Batch.Workers
	if *workers > 0 {
		n = *workers
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	paths := flag.Args()
	var bar *progressbar.ProgressBar
	if !*quiet && len(paths) > 1 {
		bar = progressbar.Default(int64(len(paths)), "aggregating")
	}
	var mu sync.Mutex

	start := time.Now()
	results := pipeline.RunBatch(ctx, paths, rt, opts, n, func(model.BatchResult) {
		if bar != nil {
			mu.Lock()
			_ = bar.Add(1)
			mu.Unlock()
		}
	})
	if bar != nil {
		_ = bar.Finish()
		fmt.Println()
	}

	var output *utils.OutputManager
	if *out != "" {
		output = utils.NewOutputManager(*out)
	}

	for _, r := range results {
		if r.Err != nil {
			pipeline.PrintFailure(os.Stdout, r.Path, r.Err, *color)
			continue
		}
		pipeline.PrintResult(os.Stdout, r.Path, r.Result, pipeline.PrintOptions{Color: *color, ShowBids: true})

		if output != nil {
			name := exportDirName(r)
			if _, err := pipeline.NewExportManager(name, output).ExportAll(r.Result); err != nil {
				pipeline.PrintFailure(os.Stdout, r.Path, err, *color)
				continue
			}
			fmt.Printf("💾 exports written to %s\n\n", filepath.Join(*out, name))
		}
	}

	failed := pipeline.FailedCount(results)
	fmt.Printf("🏁 %d files, %d failed, %v\n", len(results), failed, time.Since(start).Round(time.Millisecond))
	if failed > 0 {
		os.Exit(1)
	}
}

func parseDay(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// exportDirName keeps exports of same-named files from different folders apart.
func exportDirName(r model.BatchResult) string {
	base := filepath.Base(r.Path)
	return fmt.Sprintf("%02d-%s", r.Index+1, base[:len(base)-len(filepath.Ext(base))])
}
