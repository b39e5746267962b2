package smoketest

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/genemap/genemap/internal/adapters/eutils"
	"github.com/genemap/genemap/internal/adapters/repository"
	service "github.com/genemap/genemap/internal/app"
)

// Run executes one smoke test: generate a catalog, start the stub
// service, drive the pipeline against it, and verify every output file.
func Run(ctx context.Context, cfg Config) error {
	stats := Stats{StartTime: time.Now()}

	workDir := cfg.WorkDir
	if workDir == "" {
		dir, err := os.MkdirTemp("", "genemap-smoke-*")
		if err != nil {
			return fmt.Errorf("create work dir: %w", err)
		}
		workDir = dir
	}
	if !cfg.KeepOutput {
		defer os.RemoveAll(workDir)
	}
	log.Printf("🔬 smoke run starting (workdir %s)", workDir)

	cat := buildCatalog(cfg)
	stats.Symbols = len(cat.queries)
	symbolsFile, err := cat.writeSymbolsFile(workDir)
	if err != nil {
		return err
	}
	log.Printf("📝 generated %d symbols (%d resolvable, %d alias-form, %d unknown)",
		len(cat.queries), cfg.NumSymbols, cfg.NumAliases, cfg.NumUnknown)

	stub := newStubService(cat)
	baseURL, err := stub.start()
	if err != nil {
		return err
	}
	defer stub.stop()
	log.Printf("🌐 stub service listening at %s", baseURL)

	client := eutils.NewClient(
		eutils.WithBaseURL(baseURL),
		eutils.WithRetryPolicy(eutils.Policy{Attempts: 6, Delay: stubRetryDelay}),
		eutils.WithRatePerSecond(stubRatePerSecond),
	)
	store, err := repository.NewFileStore(workDir)
	if err != nil {
		return fmt.Errorf("create store: %w", err)
	}

	pipeline := service.New(client, store,
		service.WithSymbolsFile(symbolsFile),
		service.WithOutputDir(workDir),
		service.WithWorkerCount(cfg.WorkerCount),
		service.WithFetchInfo(true),
	)

	runCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	report, err := pipeline.Run(runCtx)
	if err != nil {
		return fmt.Errorf("pipeline run: %w", err)
	}
	stats.Resolved = len(report.Mapping)
	stats.Unresolved = len(report.Unresolved)
	log.Printf("✅ pipeline finished: %d resolved, %d unresolved", stats.Resolved, stats.Unresolved)

	if cfg.Verbose {
		for symbol, id := range report.Mapping {
			log.Printf("   %s -> %s", symbol, id)
		}
		for _, e := range report.Unresolved {
			log.Printf("   %s unresolved: %s", e.Symbol, e.Reason)
		}
	}

	failures := verify(ctx, cat, report, store, workDir, &stats)
	stats.Failures = failures
	stats.EndTime = time.Now()
	displayStats(stats)

	if len(failures) > 0 {
		return fmt.Errorf("smoke test failed: %d check(s) did not pass", len(failures))
	}
	return nil
}

func displayStats(s Stats) {
	log.Printf("📊 smoke run summary")
	log.Printf("   symbols:    %d", s.Symbols)
	log.Printf("   resolved:   %d (%.1f%%)", s.Resolved,
		float64(s.Resolved)/float64(s.Symbols)*percentageMultiplier)
	log.Printf("   unresolved: %d", s.Unresolved)
	log.Printf("   enriched:   %d", s.Enriched)
	log.Printf("   duration:   %s", s.Duration().Round(time.Millisecond))
	if len(s.Failures) == 0 {
		log.Printf("🎉 all checks passed")
		return
	}
	log.Printf("❌ %d check(s) failed:", len(s.Failures))
	for _, f := range s.Failures {
		log.Printf("   - %s", f)
	}
}
