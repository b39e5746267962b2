// Package model contains domain models passed between layers.
package model

// GeneRecord is the parsed result of fetching one candidate identifier from
// the remote gene database. It is derived data, recomputed on every fetch.
type GeneRecord struct {
	GeneID         string   // candidate identifier the record was fetched for
	OfficialSymbol string   // canonical symbol; empty means absent
	Aliases        []string // alternate symbols, may be empty
	Discontinued   bool     // true when the record carries a discontinuation marker

	// Descriptive fields used by enrichment only.
	Description string
	GeneType    string
	Summary     string
}

// HasAlias reports whether symbol appears among the record's aliases.
// Matching is case-sensitive, like official-symbol matching.
func (r GeneRecord) HasAlias(symbol string) bool {
	for _, a := range r.Aliases {
		if a == symbol {
			return true
		}
	}
	return false
}

// Match names the rule that produced a resolution.
type Match string

// Match rules, in priority order.
const (
	MatchSole     Match = "sole"     // single non-discontinued candidate, accepted on faith
	MatchOfficial Match = "official" // exact official-symbol match
	MatchAlias    Match = "alias"    // best-ranked alias match
	MatchFallback Match = "fallback" // top-relevance candidate, unconfirmed
)

// Unresolved reasons produced by the decision procedure itself. Transport
// and parse failures carry their error text as the reason instead.
const (
	ReasonNoCandidates     = "no candidates"
	ReasonSoleDiscontinued = "sole candidate discontinued"
)

// Resolution is the outcome of resolving one gene symbol. Exactly one of
// GeneID (resolved) or Reason (unresolved) is set.
type Resolution struct {
	Symbol string
	GeneID string
	Match  Match
	Reason string
}

// Resolved reports whether the symbol mapped to an identifier.
func (r Resolution) Resolved() bool { return r.GeneID != "" }

// SymbolJob is one unit of work flowing through the queue. Seq preserves
// input order for reporting.
type SymbolJob struct {
	Seq    int
	Symbol string
}

// GeneInfo is the descriptive document stored per resolved identifier.
type GeneInfo struct {
	OfficialSymbol string   `json:"official_symbol"`
	Description    string   `json:"description"`
	GeneType       string   `json:"gene_type"`
	Summary        string   `json:"summary_info"`
	Aliases        []string `json:"gene_aliases"`
}
