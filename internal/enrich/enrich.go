// Package enrich fetches full gene metadata for every resolved symbol.
package enrich

import (
	"context"
	"fmt"
	"sort"

	"github.com/genemap/genemap/internal/domain/model"
	"github.com/genemap/genemap/pkg/logger"
	"github.com/genemap/genemap/pkg/metrics"
)

// Fetcher retrieves one full record and its raw document.
type Fetcher interface {
	FetchRecordXML(ctx context.Context, id string) (model.GeneRecord, []byte, error)
}

// Store persists enrichment outputs.
type Store interface {
	SaveGeneInfo(ctx context.Context, info map[string]model.GeneInfo) error
	SaveRecordXML(ctx context.Context, symbol, id string, data []byte) error
}

// Enricher walks a symbol-to-ID mapping, snapshots each raw record, and
// collects per-gene metadata keyed by gene ID.
type Enricher struct {
	fetcher Fetcher
	store   Store
	log     logger.Logger
}

// NewEnricher creates an enricher with configuration options.
func NewEnricher(fetcher Fetcher, store Store, opts ...Option) *Enricher {
	e := &Enricher{
		fetcher: fetcher,
		store:   store,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = logger.Get().Named("enrich")
	}
	return e
}

// Run fetches metadata for every mapping entry. A failed gene is logged
// and skipped; whatever was gathered is persisted either way. The
// returned slice names the symbols that failed.
func (e *Enricher) Run(ctx context.Context, mapping map[string]string) (map[string]model.GeneInfo, []string, error) {
	symbols := make([]string, 0, len(mapping))
	for symbol := range mapping {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	info := make(map[string]model.GeneInfo, len(symbols))
	var failed []string

	for _, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		id := mapping[symbol]

		rec, raw, err := e.fetcher.FetchRecordXML(ctx, id)
		if err != nil {
			metrics.RecordInfoFailed()
			failed = append(failed, symbol)
			e.log.Warn("gene info fetch failed",
				logger.String("symbol", symbol),
				logger.String("gene_id", id),
				logger.Error(err))
			continue
		}

		if err := e.store.SaveRecordXML(ctx, symbol, id, raw); err != nil {
			return nil, nil, fmt.Errorf("snapshot %s: %w", symbol, err)
		}

		info[id] = model.GeneInfo{
			OfficialSymbol: rec.OfficialSymbol,
			Description:    rec.Description,
			GeneType:       rec.GeneType,
			Summary:        rec.Summary,
			Aliases:        rec.Aliases,
		}
		metrics.RecordInfoFetched()
	}

	if err := e.store.SaveGeneInfo(ctx, info); err != nil {
		return nil, nil, fmt.Errorf("save gene info: %w", err)
	}

	e.log.Info("enrichment finished",
		logger.Int("fetched", len(info)),
		logger.Int("failed", len(failed)))
	return info, failed, nil
}
