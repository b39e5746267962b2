package smoketest

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/genemap/genemap/internal/adapters/repository"
	"github.com/genemap/genemap/internal/domain/model"
	"github.com/genemap/genemap/internal/domain/types"
)

// verify checks the run report and every persisted artifact against the
// catalog's expectations. It returns one message per failed check.
func verify(ctx context.Context, cat *catalog, report types.RunReport, store *repository.FileStore, workDir string, stats *Stats) []string {
	var failures []string
	fail := func(format string, args ...any) {
		failures = append(failures, fmt.Sprintf(format, args...))
	}

	log.Printf("🔍 verifying mapping")
	for symbol, wantID := range cat.expected {
		gotID, ok := report.Mapping[symbol]
		if !ok {
			fail("symbol %s missing from mapping", symbol)
			continue
		}
		if gotID != wantID {
			fail("symbol %s mapped to %s, want %s", symbol, gotID, wantID)
		}
	}
	if got, want := len(report.Mapping), len(cat.expected); got != want {
		fail("mapping has %d entries, want %d", got, want)
	}

	unresolved := make(map[string]string, len(report.Unresolved))
	for _, e := range report.Unresolved {
		unresolved[e.Symbol] = e.Reason
	}
	for _, symbol := range cat.unknown {
		reason, ok := unresolved[symbol]
		if !ok {
			fail("unknown symbol %s missing from unresolved report", symbol)
			continue
		}
		if reason != "no candidates" {
			fail("unknown symbol %s has reason %q, want %q", symbol, reason, "no candidates")
		}
	}
	if got, want := len(report.Unresolved), len(cat.unknown); got != want {
		fail("unresolved report has %d entries, want %d", got, want)
	}

	log.Printf("🔍 verifying persisted artifacts")
	persisted, err := store.LoadMapping(ctx)
	if err != nil {
		fail("load persisted mapping: %v", err)
	} else if len(persisted) != len(report.Mapping) {
		fail("persisted mapping has %d entries, report has %d", len(persisted), len(report.Mapping))
	} else {
		for symbol, id := range report.Mapping {
			if persisted[symbol] != id {
				fail("persisted mapping for %s is %q, want %q", symbol, persisted[symbol], id)
			}
		}
	}

	var entries []types.UnresolvedEntry
	raw, err := os.ReadFile(filepath.Join(workDir, "unresolved_genes.yaml"))
	if err != nil {
		fail("read unresolved file: %v", err)
	} else if err := yaml.Unmarshal(raw, &entries); err != nil {
		fail("parse unresolved file: %v", err)
	} else if len(entries) != len(cat.unknown) {
		fail("unresolved file has %d entries, want %d", len(entries), len(cat.unknown))
	}

	var info map[string]model.GeneInfo
	raw, err = os.ReadFile(filepath.Join(workDir, "genes_info.json"))
	if err != nil {
		fail("read gene info file: %v", err)
	} else if err := json.Unmarshal(raw, &info); err != nil {
		fail("parse gene info file: %v", err)
	} else {
		stats.Enriched = len(info)
		for symbol, id := range cat.expected {
			rec, ok := info[id]
			if !ok {
				fail("gene info missing entry for %s (id %s)", symbol, id)
				continue
			}
			if got := cat.byID[id].Symbol; rec.OfficialSymbol != got {
				fail("gene info %s has official symbol %q, want %q", id, rec.OfficialSymbol, got)
			}
		}
	}

	for symbol, id := range cat.expected {
		snapshot := filepath.Join(workDir, "gene_xmls", fmt.Sprintf("%s__%s.xml", symbol, id))
		if _, err := os.Stat(snapshot); err != nil {
			fail("missing XML snapshot for %s: %v", symbol, err)
		}
	}

	return failures
}
