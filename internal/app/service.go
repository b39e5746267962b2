// Package service runs the symbol resolution pipeline end to end:
// resolve, enrich, extract.
package service

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	jobqueue "github.com/genemap/genemap/internal/adapters/mq/queue"
	workerpool "github.com/genemap/genemap/internal/adapters/mq/worker"
	"github.com/genemap/genemap/internal/adapters/repository"
	"github.com/genemap/genemap/internal/domain/model"
	"github.com/genemap/genemap/internal/domain/resolve"
	"github.com/genemap/genemap/internal/domain/types"
	"github.com/genemap/genemap/internal/enrich"
	"github.com/genemap/genemap/internal/extract"
	"github.com/genemap/genemap/pkg/logger"
	"github.com/genemap/genemap/pkg/metrics"
)

// Run stages reported through /progress.
const (
	StageIdle    = "idle"
	StageResolve = "resolve"
	StageEnrich  = "enrich"
	StageExtract = "extract"
	StageDone    = "done"
)

// Client bundles what the pipeline needs from the E-utilities adapter.
type Client interface {
	resolve.Client
	enrich.Fetcher
}

// Pipeline wires the stages together and tracks run progress.
type Pipeline struct {
	client Client
	store  repository.Store

	// Configuration
	workerCount int
	queueSize   int
	symbolsFile string
	datasets    []string
	dataDir     string
	outputDir   string
	ensgFile    string
	fetchInfo   bool
	extract     bool

	resolver  workerpool.Resolver
	extractor *extract.Extractor

	// Run state guarded by mu.
	mu         sync.RWMutex
	runID      string
	stage      string
	total      int
	results    []model.Resolution
	done       int
	resolved   int
	unresolved int

	logger logger.Logger
}

// New constructs a Pipeline over the given client and store.
func New(client Client, store repository.Store, opts ...Option) *Pipeline {
	p := &Pipeline{
		client:      client,
		store:       store,
		workerCount: 1,
		queueSize:   10_000,
		stage:       StageIdle,
		fetchInfo:   true,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logger.Get().Named("pipeline")
	}
	if p.resolver == nil {
		p.resolver = resolve.NewResolver(client)
	}
	return p
}

// Run executes the configured stages and returns the run report.
func (p *Pipeline) Run(ctx context.Context) (types.RunReport, error) {
	symbols, err := ReadSymbols(p.symbolsFile)
	if err != nil {
		return types.RunReport{}, err
	}

	report := types.RunReport{
		RunID:     uuid.NewString(),
		Symbols:   len(symbols),
		StartedAt: time.Now().UTC(),
	}
	p.beginRun(report.RunID, len(symbols))
	p.logger.Info("run started",
		logger.String("run_id", report.RunID),
		logger.Int("symbols", len(symbols)))

	mapping, unresolvedEntries, err := p.resolveAll(ctx, symbols)
	if err != nil {
		return types.RunReport{}, err
	}
	report.Mapping = mapping
	report.Resolved = len(mapping)
	report.Unresolved = unresolvedEntries

	if err := p.store.SaveMapping(ctx, mapping); err != nil {
		return types.RunReport{}, fmt.Errorf("save mapping: %w", err)
	}
	if err := p.store.SaveUnresolved(ctx, unresolvedEntries); err != nil {
		return types.RunReport{}, fmt.Errorf("save unresolved: %w", err)
	}

	if p.fetchInfo {
		p.setStage(StageEnrich)
		enricher := enrich.NewEnricher(p.client, p.store)
		if _, _, err := enricher.Run(ctx, mapping); err != nil {
			return types.RunReport{}, fmt.Errorf("enrich: %w", err)
		}
	}

	if p.extract {
		p.setStage(StageExtract)
		if err := p.runExtraction(ctx, mapping); err != nil {
			return types.RunReport{}, fmt.Errorf("extract: %w", err)
		}
	}

	p.setStage(StageDone)
	report.FinishedAt = time.Now().UTC()
	p.logger.Info("run finished",
		logger.String("run_id", report.RunID),
		logger.Int("resolved", report.Resolved),
		logger.Int("unresolved", len(report.Unresolved)))
	return report, nil
}

// resolveAll pushes every symbol through the worker pool and assembles
// the results back in input order.
func (p *Pipeline) resolveAll(ctx context.Context, symbols []string) (map[string]string, []types.UnresolvedEntry, error) {
	q := jobqueue.NewInMemoryQueue(jobqueue.WithCapacity(max(p.queueSize, len(symbols))))
	pool := workerpool.NewPool(p.workerCount, q, p.resolver, p)
	pool.Start(ctx)

	for i, symbol := range symbols {
		if !q.Enqueue(ctx, model.SymbolJob{Seq: i, Symbol: symbol}) {
			_ = q.Close()
			return nil, nil, fmt.Errorf("enqueue %q: queue rejected job", symbol)
		}
	}
	if err := q.Close(); err != nil {
		return nil, nil, err
	}
	if err := pool.Wait(ctx); err != nil {
		return nil, nil, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	mapping := make(map[string]string, len(symbols))
	var unresolvedEntries []types.UnresolvedEntry
	for _, res := range p.results {
		if res.Resolved() {
			mapping[res.Symbol] = res.GeneID
			continue
		}
		unresolvedEntries = append(unresolvedEntries, types.UnresolvedEntry{
			Symbol: res.Symbol,
			Reason: res.Reason,
		})
	}
	return mapping, unresolvedEntries, nil
}

func (p *Pipeline) runExtraction(ctx context.Context, mapping map[string]string) error {
	ensgDict, err := extract.LoadEnsgDict(p.ensgFile)
	if err != nil {
		return err
	}
	extractor := p.extractor
	if extractor == nil {
		extractor = extract.NewExtractor(p.dataDir, p.outputDir)
	}
	return extractor.Run(ctx, p.datasets, mapping, ensgDict)
}

// Record implements the worker pool's Recorder. Results land at their
// job's sequence slot so input order survives concurrent workers.
func (p *Pipeline) Record(_ context.Context, job workerpool.Job, res model.Resolution) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.results[job.Seq] = res
	p.done++
	if res.Resolved() {
		p.resolved++
	} else {
		p.unresolved++
	}
	metrics.UpdateSymbolsPending(p.total - p.done)
}

// Progress implements the ops progress provider.
func (p *Pipeline) Progress(_ context.Context) types.Progress {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return types.Progress{
		RunID:      p.runID,
		Total:      p.total,
		Done:       p.done,
		Resolved:   p.resolved,
		Unresolved: p.unresolved,
		Stage:      p.stage,
	}
}

func (p *Pipeline) beginRun(runID string, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.runID = runID
	p.stage = StageResolve
	p.total = total
	p.results = make([]model.Resolution, total)
	p.done = 0
	p.resolved = 0
	p.unresolved = 0
	metrics.UpdateSymbolsPending(total)
}

func (p *Pipeline) setStage(stage string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stage = stage
}

// ReadSymbols loads the newline-separated symbol list, skipping blank
// lines and comments. A symbol repeated in the file is kept once, at
// its first position.
func ReadSymbols(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open symbols file: %w", err)
	}
	defer f.Close()

	var symbols []string
	seen := make(map[string]struct{})
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		symbols = append(symbols, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read symbols file: %w", err)
	}
	return symbols, nil
}
