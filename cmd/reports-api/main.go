package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ECOM-SR/ECOM-REPORTS/internal/api"
	"github.com/ECOM-SR/ECOM-REPORTS/internal/api/handler"
	"github.com/ECOM-SR/ECOM-REPORTS/internal/caching"
	"github.com/ECOM-SR/ECOM-REPORTS/internal/config"
	"github.com/ECOM-SR/ECOM-REPORTS/internal/pipeline"
	"github.com/ECOM-SR/ECOM-REPORTS/internal/store"
	"github.com/ECOM-SR/ECOM-REPORTS/pkg/router"
	"github.com/ECOM-SR/ECOM-REPORTS/pkg/utils"
)

var (
	configPath = flag.String("config", "", "path to config.toml (default: next to the binary)")
	port       = flag.Int("port", 0, "listen port (used only when config.toml and PORT leave it unset)")
	dbPath     = flag.String("db", "", "SQLite database path (overrides config)")
	outputDir  = flag.String("output", "", "export directory (overrides config)")
	debug      = flag.Bool("debug", false, "enable debug logging")
)

func main() {
	flag.Parse()

	path := *configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, info, err := config.LoadConfigWithInfo(path)
	if err != nil {
		log.Printf("failed to load config, using defaults: %v", err)
		cfg = config.DefaultConfig()
		info = config.LoadConfigInfo{}
	}

	// Command-line flags override the config
	if *port > 0 && !info.PortSpecified {
		cfg.Server.Port = *port
	}
	if *dbPath != "" {
		cfg.Data.DBPath = *dbPath
	}
	if *outputDir != "" {
		cfg.Data.OutputDir = *outputDir
	}
	if *debug {
		cfg.Server.Debug = true
	}

	logger := utils.NewLogger()
	logger.SetDebug(cfg.Server.Debug)

	// Init DB
	st, err := store.New(cfg.Data.DBPath)
	if err != nil {
		log.Fatalf("failed to open job store: %v", err)
	}
	defer st.Close()

	output := utils.NewOutputManager(cfg.Data.OutputDir)
	if err := output.EnsureOutputDirExists(); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	cache := caching.New(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB, logger)
	defer cache.Close()

	runner := pipeline.NewRunner(st, output, logger)
	runner.Cache = cache
	runner.CacheTTL = cfg.Cache.ParseTTL()
	runner.Defaults = pipeline.Options{TopN: cfg.Aggregation.TopN, BottomN: cfg.Aggregation.BottomN}

	h := &handler.ReportHandler{
		Runner:         runner,
		Store:          st,
		Output:         output,
		Logger:         logger,
		MaxUploadBytes: int64(cfg.Server.MaxUploadMB) << 20,
		PreviewRows:    cfg.Aggregation.PreviewRows,
	}

	// Create router and register API routes
	r := router.New()
	api.RegisterRoutes(r, h)

	readTimeout, writeTimeout := cfg.Server.Timeouts()
	srv := r.Server(fmt.Sprintf(":%d", cfg.Server.Port), readTimeout, writeTimeout)

	go func() {
		logger.Info("🚀 Server started on http://localhost:%d (swagger: /swagger/index.html)", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed: %v", err)
	}
}
