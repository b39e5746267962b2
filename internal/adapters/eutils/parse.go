package eutils

import (
	"encoding/json"
	"encoding/xml"
	"fmt"

	"github.com/genemap/genemap/internal/domain/model"
)

// searchResponse mirrors the JSON envelope returned by the search endpoint.
type searchResponse struct {
	Result struct {
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

// parseSearchResult extracts the ordered candidate id list. An empty list is
// a valid, terminal result.
func parseSearchResult(body []byte) ([]string, error) {
	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	return sr.Result.IDList, nil
}

// The structs below mirror the slice of the Entrezgene XML document the
// pipeline reads. Element names follow the NCBI DTD.

type entrezgeneSet struct {
	XMLName xml.Name     `xml:"Entrezgene-Set"`
	Genes   []entrezgene `xml:"Entrezgene"`
}

type entrezgene struct {
	TrackInfo struct {
		GeneTrack struct {
			// Presence of the discontinue date marks a retired record.
			DiscontinueDate *struct{} `xml:"Gene-track_discontinue-date"`
		} `xml:"Gene-track"`
	} `xml:"Entrezgene_track-info"`
	Type struct {
		Value string `xml:"value,attr"`
	} `xml:"Entrezgene_type"`
	Gene struct {
		Ref geneRef `xml:"Gene-ref"`
	} `xml:"Entrezgene_gene"`
	Summary string `xml:"Entrezgene_summary"`
}

type geneRef struct {
	Locus    []string `xml:"Gene-ref_locus"`
	Desc     string   `xml:"Gene-ref_desc"`
	Synonyms struct {
		E []string `xml:"Gene-ref_syn_E"`
	} `xml:"Gene-ref_syn"`
}

// parseGeneRecord turns one fetched document into a GeneRecord. A missing
// official symbol or discontinue marker maps to the zero value; a document
// with no gene entry at all is malformed.
func parseGeneRecord(body []byte) (model.GeneRecord, error) {
	var set entrezgeneSet
	if err := xml.Unmarshal(body, &set); err != nil {
		return model.GeneRecord{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	if len(set.Genes) == 0 {
		return model.GeneRecord{}, fmt.Errorf("%w: document contains no gene entries", ErrMalformedRecord)
	}

	g := set.Genes[0]
	rec := model.GeneRecord{
		Discontinued: g.TrackInfo.GeneTrack.DiscontinueDate != nil,
		Aliases:      g.Gene.Ref.Synonyms.E,
		Description:  g.Gene.Ref.Desc,
		GeneType:     g.Type.Value,
		Summary:      g.Summary,
	}
	// The DTD allows repeated official-symbol nodes; the first wins.
	if len(g.Gene.Ref.Locus) > 0 {
		rec.OfficialSymbol = g.Gene.Ref.Locus[0]
	}
	return rec, nil
}
