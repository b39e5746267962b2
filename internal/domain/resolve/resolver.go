// Package resolve maps gene symbols to Entrez gene IDs using candidate
// lists from ESearch and full records from EFetch.
package resolve

import (
	"context"
	"fmt"
	"time"

	"github.com/genemap/genemap/internal/adapters/eutils"
	"github.com/genemap/genemap/internal/domain/model"
	"github.com/genemap/genemap/pkg/logger"
	"github.com/genemap/genemap/pkg/metrics"
)

const (
	defaultMaxResults = 25
	defaultSortOrder  = eutils.SortRelevance
)

// Client is the slice of the E-utilities client the resolver needs.
type Client interface {
	Search(ctx context.Context, symbol string, maxResults int, sort eutils.SortOrder) ([]string, error)
	FetchRecord(ctx context.Context, id string) (model.GeneRecord, error)
}

// Resolver decides which candidate ID, if any, a symbol maps to.
type Resolver struct {
	client     Client
	maxResults int
	sort       eutils.SortOrder
	log        logger.Logger
}

// NewResolver builds a resolver over the given client.
func NewResolver(client Client, opts ...Option) *Resolver {
	r := &Resolver{
		client:     client,
		maxResults: defaultMaxResults,
		sort:       defaultSortOrder,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logger.Get().Named("resolve")
	}
	return r
}

// Resolve runs the full decision procedure for one symbol. Decision
// outcomes, including the unresolved ones, come back as a Resolution;
// an error means the lookup itself failed and nothing was decided.
func (r *Resolver) Resolve(ctx context.Context, symbol string) (model.Resolution, error) {
	start := time.Now()
	defer func() {
		metrics.RecordSymbolLatency(time.Since(start).Seconds())
	}()

	candidates, err := r.client.Search(ctx, symbol, r.maxResults, r.sort)
	if err != nil {
		return model.Resolution{}, fmt.Errorf("search %q: %w", symbol, err)
	}

	switch len(candidates) {
	case 0:
		return r.unresolved(symbol, model.ReasonNoCandidates), nil
	case 1:
		return r.resolveSole(ctx, symbol, candidates[0])
	default:
		return r.resolveAmong(ctx, symbol, candidates)
	}
}

func (r *Resolver) resolveSole(ctx context.Context, symbol, id string) (model.Resolution, error) {
	rec, err := r.client.FetchRecord(ctx, id)
	if err != nil {
		return model.Resolution{}, fmt.Errorf("fetch %s for %q: %w", id, symbol, err)
	}
	if rec.Discontinued {
		return r.unresolved(symbol, model.ReasonSoleDiscontinued), nil
	}
	// A single live candidate is accepted without a symbol comparison.
	return r.resolved(symbol, id, model.MatchSole), nil
}

func (r *Resolver) resolveAmong(ctx context.Context, symbol string, candidates []string) (model.Resolution, error) {
	var aliasID string

	for _, id := range candidates {
		rec, err := r.client.FetchRecord(ctx, id)
		if err != nil {
			return model.Resolution{}, fmt.Errorf("fetch %s for %q: %w", id, symbol, err)
		}
		if rec.Discontinued {
			continue
		}
		if rec.OfficialSymbol == symbol {
			return r.resolved(symbol, id, model.MatchOfficial), nil
		}
		if aliasID == "" && rec.HasAlias(symbol) {
			aliasID = id
		}
	}

	if aliasID != "" {
		return r.resolved(symbol, aliasID, model.MatchAlias), nil
	}

	// No live candidate matched by symbol or alias. The head of the
	// relevance ordering is taken on trust, even when it was skipped
	// above as discontinued.
	return r.resolved(symbol, candidates[0], model.MatchFallback), nil
}

func (r *Resolver) resolved(symbol, id string, match model.Match) model.Resolution {
	r.log.Debug("symbol resolved",
		logger.String("symbol", symbol),
		logger.String("gene_id", id),
		logger.String("match", string(match)))
	metrics.RecordResolved(string(match))
	return model.Resolution{Symbol: symbol, GeneID: id, Match: match}
}

func (r *Resolver) unresolved(symbol, reason string) model.Resolution {
	r.log.Info("symbol unresolved",
		logger.String("symbol", symbol),
		logger.String("reason", reason))
	metrics.RecordUnresolved(reason)
	return model.Resolution{Symbol: symbol, Reason: reason}
}
