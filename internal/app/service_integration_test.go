package service_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	service "github.com/genemap/genemap/internal/app"
	"github.com/genemap/genemap/internal/adapters/eutils"
	"github.com/genemap/genemap/internal/adapters/repository"
	. "github.com/smartystreets/goconvey/convey"
)

// geneDoc renders a minimal but well-formed efetch document.
func geneDoc(symbol, desc string, aliases []string) string {
	var syn string
	for _, a := range aliases {
		syn += "<Gene-ref_syn_E>" + a + "</Gene-ref_syn_E>"
	}
	return fmt.Sprintf(`<Entrezgene-Set><Entrezgene>
		<Entrezgene_type value="protein-coding">6</Entrezgene_type>
		<Entrezgene_gene><Gene-ref>
			<Gene-ref_locus>%s</Gene-ref_locus>
			<Gene-ref_desc>%s</Gene-ref_desc>
			<Gene-ref_syn>%s</Gene-ref_syn>
		</Gene-ref></Entrezgene_gene>
	</Entrezgene></Entrezgene-Set>`, symbol, desc, syn)
}

// stubEutils emulates enough of esearch and efetch for a full run.
func stubEutils() http.Handler {
	searches := map[string]string{
		"TP53[GENE] AND Homo sapiens[ORGN]":  `{"esearchresult":{"idlist":["7157"]}}`,
		"BRCA1[GENE] AND Homo sapiens[ORGN]": `{"esearchresult":{"idlist":["672"]}}`,
		"NOPE1[GENE] AND Homo sapiens[ORGN]": `{"esearchresult":{"idlist":[]}}`,
	}
	records := map[string]string{
		"7157": geneDoc("TP53", "tumor protein p53", []string{"P53"}),
		"672":  geneDoc("BRCA1", "BRCA1 DNA repair associated", nil),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/esearch.fcgi", func(w http.ResponseWriter, r *http.Request) {
		body, ok := searches[r.URL.Query().Get("term")]
		if !ok {
			body = `{"esearchresult":{"idlist":[]}}`
		}
		fmt.Fprint(w, body)
	})
	mux.HandleFunc("/efetch.fcgi", func(w http.ResponseWriter, r *http.Request) {
		body, ok := records[r.URL.Query().Get("id")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, body)
	})
	return mux
}

func TestPipelineAgainstStubService(t *testing.T) {
	Convey("Given a pipeline wired to a stub E-utilities service", t, func() {
		srv := httptest.NewServer(stubEutils())
		defer srv.Close()

		client := eutils.NewClient(
			eutils.WithBaseURL(srv.URL),
			eutils.WithRetryPolicy(eutils.Policy{Attempts: 6, Delay: time.Millisecond}),
			eutils.WithRatePerSecond(10000),
		)

		outDir := t.TempDir()
		store, err := repository.NewFileStore(outDir)
		So(err, ShouldBeNil)

		symbolsFile := writeSymbols(t, "TP53\nBRCA1\nNOPE1\n")

		p := service.New(client, store,
			service.WithSymbolsFile(symbolsFile),
		)

		Convey("When the full run executes", func() {
			report, err := p.Run(context.Background())

			Convey("Then the mapping and report reflect the service's data", func() {
				So(err, ShouldBeNil)
				So(report.Mapping, ShouldResemble, map[string]string{
					"TP53":  "7157",
					"BRCA1": "672",
				})
				So(report.Unresolved, ShouldHaveLength, 1)
				So(report.Unresolved[0].Symbol, ShouldEqual, "NOPE1")
			})

			Convey("And the enrichment snapshots carry the served XML", func() {
				data, err := os.ReadFile(filepath.Join(outDir, "gene_xmls", "TP53__7157.xml"))
				So(err, ShouldBeNil)
				So(string(data), ShouldContainSubstring, "tumor protein p53")

				info, err := os.ReadFile(filepath.Join(outDir, "genes_info.json"))
				So(err, ShouldBeNil)
				So(string(info), ShouldContainSubstring, `"official_symbol": "TP53"`)
			})
		})
	})
}
