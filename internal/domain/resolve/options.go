package resolve

import (
	"github.com/genemap/genemap/internal/adapters/eutils"
	"github.com/genemap/genemap/pkg/logger"
)

// Option configures a Resolver.
type Option func(*Resolver)

// WithMaxResults caps how many candidates a search may return.
func WithMaxResults(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.maxResults = n
		}
	}
}

// WithSortOrder sets the candidate ordering requested from the search.
func WithSortOrder(sort eutils.SortOrder) Option {
	return func(r *Resolver) {
		if sort != "" {
			r.sort = sort
		}
	}
}

// WithLogger overrides the package logger.
func WithLogger(log logger.Logger) Option {
	return func(r *Resolver) {
		if log != nil {
			r.log = log
		}
	}
}
