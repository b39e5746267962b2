package extract

import (
	"github.com/genemap/genemap/internal/domain/matrix"
	"github.com/genemap/genemap/pkg/logger"
)

// Option applies a configuration option to the Extractor.
type Option func(*Extractor)

// WithFilter overrides the gene zero-content filter.
func WithFilter(f *matrix.Filter) Option {
	return func(e *Extractor) {
		if f != nil {
			e.filter = f
		}
	}
}

// WithLogger overrides the package logger.
func WithLogger(log logger.Logger) Option {
	return func(e *Extractor) {
		if log != nil {
			e.log = log
		}
	}
}
