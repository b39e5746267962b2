package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/genemap/genemap/internal/adapters/eutils"
	"github.com/genemap/genemap/internal/adapters/http/ops"
	"github.com/genemap/genemap/internal/adapters/repository"
	app "github.com/genemap/genemap/internal/app"
	"github.com/genemap/genemap/internal/config"
	"github.com/genemap/genemap/internal/domain/matrix"
	"github.com/genemap/genemap/internal/domain/resolve"
	"github.com/genemap/genemap/internal/extract"
	"github.com/genemap/genemap/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

func main() {
	// The process collectors only add noise to a short-lived pipeline run.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn("invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	client := eutils.NewClient(
		eutils.WithBaseURL(cfg.BaseURL),
		eutils.WithAPIKey(cfg.APIKey),
		eutils.WithRatePerSecond(cfg.RatePerSecond),
		eutils.WithRetryPolicy(eutils.Policy{
			Attempts: cfg.RetryAttempts,
			Delay:    time.Duration(cfg.RetryDelayMS) * time.Millisecond,
		}),
	)

	store, err := repository.NewFileStore(cfg.OutputDir)
	if err != nil {
		log.Error("failed to open output store", logger.Error(err))
		os.Exit(1)
	}

	resolver := resolve.NewResolver(client,
		resolve.WithMaxResults(cfg.MaxResults),
		resolve.WithSortOrder(eutils.SortOrder(cfg.SortOrder)),
	)
	extractor := extract.NewExtractor(cfg.DataDir, cfg.OutputDir,
		extract.WithFilter(matrix.NewFilter(
			matrix.WithZeroTolerance(cfg.ZeroTolerance),
			matrix.WithMaxZeroFraction(cfg.MaxZeroFraction),
		)),
	)

	pipeline := app.New(client, store,
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.QueueSize),
		app.WithSymbolsFile(cfg.SymbolsFile),
		app.WithDatasets(cfg.Datasets),
		app.WithDataDir(cfg.DataDir),
		app.WithOutputDir(cfg.OutputDir),
		app.WithEnsgDictFile(cfg.EnsgDictFile),
		app.WithFetchInfo(cfg.FetchInfo),
		app.WithExtract(cfg.Extract),
		app.WithResolver(resolver),
		app.WithExtractor(extractor),
	)

	mux := http.NewServeMux()
	ops.NewServer(pipeline).Register(mux)
	srv := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting ops server", logger.String("addr", cfg.MetricsAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error("ops server shutdown failed", logger.Error(err))
			}
		}()

		report, err := pipeline.Run(gctx)
		if err != nil {
			return err
		}
		log.Info("pipeline completed",
			logger.String("run_id", report.RunID),
			logger.Int("symbols", report.Symbols),
			logger.Int("resolved", report.Resolved),
			logger.Int("unresolved", len(report.Unresolved)))
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("run failed", logger.Error(err))
		os.Exit(1)
	}
}
