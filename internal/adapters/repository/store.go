// Package repository persists resolution results and fetched records.
package repository

import (
	"context"

	"github.com/genemap/genemap/internal/domain/model"
	"github.com/genemap/genemap/internal/domain/types"
)

// Store provides read/write access to the pipeline's outputs.
type Store interface {
	// SaveMapping writes the symbol-to-ID mapping.
	SaveMapping(ctx context.Context, mapping map[string]string) error

	// LoadMapping reads the mapping back. Returns ErrNotFound when no
	// mapping has been written yet.
	LoadMapping(ctx context.Context) (map[string]string, error)

	// SaveUnresolved writes the symbols that could not be mapped with
	// the reason each one failed.
	SaveUnresolved(ctx context.Context, entries []types.UnresolvedEntry) error

	// SaveGeneInfo writes the per-gene metadata keyed by gene ID.
	SaveGeneInfo(ctx context.Context, info map[string]model.GeneInfo) error

	// SaveRecordXML snapshots the raw fetched document for one gene.
	SaveRecordXML(ctx context.Context, symbol, id string, data []byte) error
}
