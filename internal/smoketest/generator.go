package smoketest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// gene is one synthetic catalog entry served by the stub.
type gene struct {
	ID           string
	Symbol       string
	Aliases      []string
	Description  string
	Discontinued bool
}

// catalog is the synthetic gene universe for one run, plus the query list
// and the mapping the pipeline is expected to produce.
type catalog struct {
	// byID backs efetch.
	byID map[string]gene
	// searches backs esearch, keyed by the bare query symbol.
	searches map[string][]string

	queries  []string
	expected map[string]string // query symbol -> gene ID
	unknown  []string
}

// buildCatalog generates a deterministic universe: cfg.NumSymbols genes
// queried by official symbol, cfg.NumAliases genes queried by an alias
// behind a decoy candidate, and cfg.NumUnknown symbols with no hits.
func buildCatalog(cfg Config) *catalog {
	c := &catalog{
		byID:     make(map[string]gene),
		searches: make(map[string][]string),
		expected: make(map[string]string),
	}

	for i := 0; i < cfg.NumSymbols; i++ {
		g := gene{
			ID:          fmt.Sprintf("%d", 1000+i),
			Symbol:      fmt.Sprintf("SMK%d", i),
			Description: fmt.Sprintf("smoke test gene %d", i),
		}
		c.byID[g.ID] = g
		c.searches[g.Symbol] = []string{g.ID}
		c.queries = append(c.queries, g.Symbol)
		c.expected[g.Symbol] = g.ID
	}

	for i := 0; i < cfg.NumAliases; i++ {
		alias := fmt.Sprintf("ALSMK%d", i)
		decoy := gene{
			ID:          fmt.Sprintf("%d", 2000+i),
			Symbol:      fmt.Sprintf("DECOY%d", i),
			Description: fmt.Sprintf("decoy without alias %d", i),
		}
		carrier := gene{
			ID:          fmt.Sprintf("%d", 3000+i),
			Symbol:      fmt.Sprintf("ALGENE%d", i),
			Aliases:     []string{alias},
			Description: fmt.Sprintf("alias carrier %d", i),
		}
		c.byID[decoy.ID] = decoy
		c.byID[carrier.ID] = carrier
		// Decoy ranks first so resolution must inspect aliases.
		c.searches[alias] = []string{decoy.ID, carrier.ID}
		c.queries = append(c.queries, alias)
		c.expected[alias] = carrier.ID
	}

	for i := 0; i < cfg.NumUnknown; i++ {
		symbol := fmt.Sprintf("NOSUCH%d", i)
		c.queries = append(c.queries, symbol)
		c.unknown = append(c.unknown, symbol)
	}

	return c
}

// writeSymbolsFile persists the query list in the input format the
// pipeline reads, with a comment header and a blank line to exercise
// the reader's skipping rules.
func (c *catalog) writeSymbolsFile(dir string) (string, error) {
	var b strings.Builder
	b.WriteString("# smoke test symbols\n\n")
	for _, q := range c.queries {
		b.WriteString(q)
		b.WriteByte('\n')
	}
	path := filepath.Join(dir, "genes.txt")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("write symbols file: %w", err)
	}
	return path, nil
}

// record renders the efetch document for one gene.
func (g gene) record() string {
	var syn strings.Builder
	for _, a := range g.Aliases {
		syn.WriteString("<Gene-ref_syn_E>")
		syn.WriteString(a)
		syn.WriteString("</Gene-ref_syn_E>")
	}
	var track string
	if g.Discontinued {
		track = `<Gene-track_discontinue-date><Date/></Gene-track_discontinue-date>`
	}
	return fmt.Sprintf(`<Entrezgene-Set><Entrezgene>
	<Entrezgene_track-info><Gene-track>%s</Gene-track></Entrezgene_track-info>
	<Entrezgene_type value="protein-coding">6</Entrezgene_type>
	<Entrezgene_gene><Gene-ref>
		<Gene-ref_locus>%s</Gene-ref_locus>
		<Gene-ref_desc>%s</Gene-ref_desc>
		<Gene-ref_syn>%s</Gene-ref_syn>
	</Gene-ref></Entrezgene_gene>
	<Entrezgene_summary>synthetic summary for %s</Entrezgene_summary>
</Entrezgene></Entrezgene-Set>`, track, g.Symbol, g.Description, syn.String(), g.Symbol)
}
