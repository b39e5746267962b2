package service

import (
	"github.com/genemap/genemap/internal/adapters/mq/worker"
	"github.com/genemap/genemap/internal/extract"
	"github.com/genemap/genemap/pkg/logger"
)

// Option applies a configuration option to the Pipeline.
type Option func(*Pipeline)

// WithWorkerCount sets the number of resolution workers.
func WithWorkerCount(count int) Option {
	return func(p *Pipeline) {
		if count > 0 {
			p.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the symbol job queue.
func WithQueueSize(size int) Option {
	return func(p *Pipeline) {
		if size > 0 {
			p.queueSize = size
		}
	}
}

// WithSymbolsFile sets the input symbol list.
func WithSymbolsFile(path string) Option {
	return func(p *Pipeline) {
		p.symbolsFile = path
	}
}

// WithDatasets names the cart directories to extract from.
func WithDatasets(datasets []string) Option {
	return func(p *Pipeline) {
		p.datasets = datasets
	}
}

// WithDataDir sets the directory holding downloaded carts.
func WithDataDir(dir string) Option {
	return func(p *Pipeline) {
		p.dataDir = dir
	}
}

// WithOutputDir sets where extracted matrices are written.
func WithOutputDir(dir string) Option {
	return func(p *Pipeline) {
		p.outputDir = dir
	}
}

// WithEnsgDictFile sets the symbol-to-Ensembl dictionary path.
func WithEnsgDictFile(path string) Option {
	return func(p *Pipeline) {
		p.ensgFile = path
	}
}

// WithFetchInfo toggles the enrichment stage.
func WithFetchInfo(enabled bool) Option {
	return func(p *Pipeline) {
		p.fetchInfo = enabled
	}
}

// WithExtract toggles the extraction stage.
func WithExtract(enabled bool) Option {
	return func(p *Pipeline) {
		p.extract = enabled
	}
}

// WithResolver overrides the resolver, mainly for tests.
func WithResolver(r worker.Resolver) Option {
	return func(p *Pipeline) {
		if r != nil {
			p.resolver = r
		}
	}
}

// WithExtractor overrides the extractor, mainly for tests.
func WithExtractor(e *extract.Extractor) Option {
	return func(p *Pipeline) {
		if e != nil {
			p.extractor = e
		}
	}
}

// WithLogger sets a custom logger for the pipeline.
func WithLogger(log logger.Logger) Option {
	return func(p *Pipeline) {
		if log != nil {
			p.logger = log
		}
	}
}
