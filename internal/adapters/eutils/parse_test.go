package eutils

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParseSearchResult(t *testing.T) {
	Convey("Given an esearch JSON body", t, func() {
		Convey("When the body lists candidates", func() {
			ids, err := parseSearchResult([]byte(`{"esearchresult":{"idlist":["7157","7158","7159"]}}`))

			Convey("Then the relevance order is preserved", func() {
				So(err, ShouldBeNil)
				So(ids, ShouldResemble, []string{"7157", "7158", "7159"})
			})
		})

		Convey("When the id list is empty", func() {
			ids, err := parseSearchResult([]byte(`{"esearchresult":{"idlist":[]}}`))

			So(err, ShouldBeNil)
			So(ids, ShouldBeEmpty)
		})

		Convey("When the body is not JSON", func() {
			_, err := parseSearchResult([]byte(`<html>rate limited</html>`))

			So(errors.Is(err, ErrMalformedRecord), ShouldBeTrue)
		})
	})
}

func TestParseGeneRecord(t *testing.T) {
	Convey("Given an efetch XML body", t, func() {
		Convey("When the record has a locus, synonyms and a type", func() {
			body := []byte(`<Entrezgene-Set><Entrezgene>
				<Entrezgene_type value="protein-coding">6</Entrezgene_type>
				<Entrezgene_gene><Gene-ref>
					<Gene-ref_locus>BRCA1</Gene-ref_locus>
					<Gene-ref_desc>BRCA1 DNA repair associated</Gene-ref_desc>
					<Gene-ref_syn>
						<Gene-ref_syn_E>IRIS</Gene-ref_syn_E>
						<Gene-ref_syn_E>PSCP</Gene-ref_syn_E>
					</Gene-ref_syn>
				</Gene-ref></Entrezgene_gene>
				<Entrezgene_summary>Encodes a nuclear phosphoprotein.</Entrezgene_summary>
			</Entrezgene></Entrezgene-Set>`)

			rec, err := parseGeneRecord(body)

			So(err, ShouldBeNil)
			So(rec.OfficialSymbol, ShouldEqual, "BRCA1")
			So(rec.Aliases, ShouldResemble, []string{"IRIS", "PSCP"})
			So(rec.Description, ShouldEqual, "BRCA1 DNA repair associated")
			So(rec.GeneType, ShouldEqual, "protein-coding")
			So(rec.Summary, ShouldEqual, "Encodes a nuclear phosphoprotein.")
			So(rec.Discontinued, ShouldBeFalse)
		})

		Convey("When the record carries a discontinue date", func() {
			body := []byte(`<Entrezgene-Set><Entrezgene>
				<Entrezgene_track-info><Gene-track>
					<Gene-track_discontinue-date>
						<Date><Date_std><Date-std_year>2015</Date-std_year></Date_std></Date>
					</Gene-track_discontinue-date>
				</Gene-track></Entrezgene_track-info>
				<Entrezgene_gene><Gene-ref><Gene-ref_locus>GONE1</Gene-ref_locus></Gene-ref></Entrezgene_gene>
			</Entrezgene></Entrezgene-Set>`)

			rec, err := parseGeneRecord(body)

			So(err, ShouldBeNil)
			So(rec.Discontinued, ShouldBeTrue)
		})

		Convey("When the record has no official symbol", func() {
			body := []byte(`<Entrezgene-Set><Entrezgene>
				<Entrezgene_gene><Gene-ref>
					<Gene-ref_desc>uncharacterized locus</Gene-ref_desc>
				</Gene-ref></Entrezgene_gene>
			</Entrezgene></Entrezgene-Set>`)

			rec, err := parseGeneRecord(body)

			Convey("Then the symbol is empty rather than an error", func() {
				So(err, ShouldBeNil)
				So(rec.OfficialSymbol, ShouldEqual, "")
			})
		})

		Convey("When a record repeats the locus element", func() {
			body := []byte(`<Entrezgene-Set><Entrezgene>
				<Entrezgene_gene><Gene-ref>
					<Gene-ref_locus>FIRST</Gene-ref_locus>
					<Gene-ref_locus>SECOND</Gene-ref_locus>
				</Gene-ref></Entrezgene_gene>
			</Entrezgene></Entrezgene-Set>`)

			rec, err := parseGeneRecord(body)

			Convey("Then the first occurrence wins", func() {
				So(err, ShouldBeNil)
				So(rec.OfficialSymbol, ShouldEqual, "FIRST")
			})
		})

		Convey("When the set contains no records", func() {
			_, err := parseGeneRecord([]byte(`<Entrezgene-Set></Entrezgene-Set>`))

			So(errors.Is(err, ErrMalformedRecord), ShouldBeTrue)
		})

		Convey("When the body is not XML", func() {
			_, err := parseGeneRecord([]byte(`{"oops":"json"}`))

			So(errors.Is(err, ErrMalformedRecord), ShouldBeTrue)
		})
	})
}
