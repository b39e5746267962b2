package enrich

import "github.com/genemap/genemap/pkg/logger"

// Option applies a configuration option to the Enricher.
type Option func(*Enricher)

// WithLogger overrides the package logger.
func WithLogger(log logger.Logger) Option {
	return func(e *Enricher) {
		if log != nil {
			e.log = log
		}
	}
}
