package resolve_test

import (
	"context"
	"errors"
	"testing"

	"github.com/genemap/genemap/internal/adapters/eutils"
	"github.com/genemap/genemap/internal/domain/model"
	"github.com/genemap/genemap/internal/domain/resolve"
	"github.com/genemap/genemap/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

// fakeClient serves canned search and fetch responses and counts fetches.
type fakeClient struct {
	searchIDs []string
	searchErr error
	records   map[string]model.GeneRecord
	fetchErr  map[string]error
	fetched   []string
}

func (f *fakeClient) Search(_ context.Context, symbol string, _ int, _ eutils.SortOrder) ([]string, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.searchIDs, nil
}

func (f *fakeClient) FetchRecord(_ context.Context, id string) (model.GeneRecord, error) {
	f.fetched = append(f.fetched, id)
	if err, ok := f.fetchErr[id]; ok {
		return model.GeneRecord{}, err
	}
	rec, ok := f.records[id]
	if !ok {
		return model.GeneRecord{}, errors.New("fake: no record for " + id)
	}
	return rec, nil
}

func TestResolverDecisions(t *testing.T) {
	Convey("Given a resolver over a fake client", t, func() {
		Convey("When the search yields no candidates", func() {
			client := &fakeClient{searchIDs: nil}
			r := resolve.NewResolver(client)

			res, err := r.Resolve(context.Background(), "FOO")

			Convey("Then the symbol is unresolved without any fetch", func() {
				So(err, ShouldBeNil)
				So(res.Resolved(), ShouldBeFalse)
				So(res.Reason, ShouldEqual, model.ReasonNoCandidates)
				So(client.fetched, ShouldBeEmpty)
			})
		})

		Convey("When the search yields a single live candidate", func() {
			client := &fakeClient{
				searchIDs: []string{"7157"},
				records: map[string]model.GeneRecord{
					"7157": {GeneID: "7157", OfficialSymbol: "SOMETHING_ELSE"},
				},
			}
			r := resolve.NewResolver(client)

			res, err := r.Resolve(context.Background(), "TP53")

			Convey("Then it is accepted without comparing symbols", func() {
				So(err, ShouldBeNil)
				So(res.GeneID, ShouldEqual, "7157")
				So(res.Match, ShouldEqual, model.MatchSole)
			})
		})

		Convey("When the sole candidate is discontinued", func() {
			client := &fakeClient{
				searchIDs: []string{"99"},
				records: map[string]model.GeneRecord{
					"99": {GeneID: "99", OfficialSymbol: "TP53", Discontinued: true},
				},
			}
			r := resolve.NewResolver(client)

			res, err := r.Resolve(context.Background(), "TP53")

			So(err, ShouldBeNil)
			So(res.Resolved(), ShouldBeFalse)
			So(res.Reason, ShouldEqual, model.ReasonSoleDiscontinued)
		})

		Convey("When several candidates include an exact official match", func() {
			client := &fakeClient{
				searchIDs: []string{"10", "20", "30"},
				records: map[string]model.GeneRecord{
					"10": {GeneID: "10", OfficialSymbol: "OTHER"},
					"20": {GeneID: "20", OfficialSymbol: "X"},
					"30": {GeneID: "30", OfficialSymbol: "X"},
				},
			}
			r := resolve.NewResolver(client)

			res, err := r.Resolve(context.Background(), "X")

			Convey("Then the first official match wins and later candidates are never fetched", func() {
				So(err, ShouldBeNil)
				So(res.GeneID, ShouldEqual, "20")
				So(res.Match, ShouldEqual, model.MatchOfficial)
				So(client.fetched, ShouldResemble, []string{"10", "20"})
			})
		})

		Convey("When the official match is case-variant only", func() {
			client := &fakeClient{
				searchIDs: []string{"10", "20"},
				records: map[string]model.GeneRecord{
					"10": {GeneID: "10", OfficialSymbol: "tp53"},
					"20": {GeneID: "20", OfficialSymbol: "Tp53"},
				},
			}
			r := resolve.NewResolver(client)

			res, err := r.Resolve(context.Background(), "TP53")

			Convey("Then matching stays case sensitive and the head candidate is the fallback", func() {
				So(err, ShouldBeNil)
				So(res.GeneID, ShouldEqual, "10")
				So(res.Match, ShouldEqual, model.MatchFallback)
			})
		})

		Convey("When only an alias matches", func() {
			client := &fakeClient{
				searchIDs: []string{"10", "20", "30"},
				records: map[string]model.GeneRecord{
					"10": {GeneID: "10", OfficialSymbol: "AAA"},
					"20": {GeneID: "20", OfficialSymbol: "BBB", Aliases: []string{"P53", "LFS1"}},
					"30": {GeneID: "30", OfficialSymbol: "CCC", Aliases: []string{"P53"}},
				},
			}
			r := resolve.NewResolver(client)

			res, err := r.Resolve(context.Background(), "P53")

			Convey("Then the first alias carrier in relevance order wins", func() {
				So(err, ShouldBeNil)
				So(res.GeneID, ShouldEqual, "20")
				So(res.Match, ShouldEqual, model.MatchAlias)
			})
		})

		Convey("When a later official match outranks an earlier alias match", func() {
			client := &fakeClient{
				searchIDs: []string{"10", "20"},
				records: map[string]model.GeneRecord{
					"10": {GeneID: "10", OfficialSymbol: "AAA", Aliases: []string{"X"}},
					"20": {GeneID: "20", OfficialSymbol: "X"},
				},
			}
			r := resolve.NewResolver(client)

			res, err := r.Resolve(context.Background(), "X")

			So(err, ShouldBeNil)
			So(res.GeneID, ShouldEqual, "20")
			So(res.Match, ShouldEqual, model.MatchOfficial)
		})

		Convey("When discontinued candidates precede the match", func() {
			client := &fakeClient{
				searchIDs: []string{"10", "20"},
				records: map[string]model.GeneRecord{
					"10": {GeneID: "10", OfficialSymbol: "X", Discontinued: true},
					"20": {GeneID: "20", OfficialSymbol: "X"},
				},
			}
			r := resolve.NewResolver(client)

			res, err := r.Resolve(context.Background(), "X")

			Convey("Then discontinued records are skipped during matching", func() {
				So(err, ShouldBeNil)
				So(res.GeneID, ShouldEqual, "20")
				So(res.Match, ShouldEqual, model.MatchOfficial)
			})
		})

		Convey("When nothing matches and the head candidate is discontinued", func() {
			client := &fakeClient{
				searchIDs: []string{"10", "20"},
				records: map[string]model.GeneRecord{
					"10": {GeneID: "10", OfficialSymbol: "AAA", Discontinued: true},
					"20": {GeneID: "20", OfficialSymbol: "BBB"},
				},
			}
			r := resolve.NewResolver(client)

			res, err := r.Resolve(context.Background(), "ZZZ")

			// Longstanding behavior: the fallback takes the head of the
			// candidate list even when it was skipped as discontinued.
			Convey("Then the discontinued head is still the fallback", func() {
				So(err, ShouldBeNil)
				So(res.GeneID, ShouldEqual, "10")
				So(res.Match, ShouldEqual, model.MatchFallback)
			})
		})

		Convey("When the search itself fails", func() {
			client := &fakeClient{searchErr: errors.New("boom")}
			r := resolve.NewResolver(client)

			_, err := r.Resolve(context.Background(), "TP53")

			Convey("Then the error is surfaced instead of a decision", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "TP53")
			})
		})

		Convey("When a fetch fails mid-iteration", func() {
			client := &fakeClient{
				searchIDs: []string{"10", "20"},
				records: map[string]model.GeneRecord{
					"10": {GeneID: "10", OfficialSymbol: "AAA"},
				},
				fetchErr: map[string]error{"20": errors.New("timeout")},
			}
			r := resolve.NewResolver(client)

			_, err := r.Resolve(context.Background(), "X")

			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "fetch 20")
		})
	})
}
