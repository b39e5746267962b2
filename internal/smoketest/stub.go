package smoketest

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"time"
)

// stubService emulates the esearch and efetch endpoints for a catalog.
// The first request to each endpoint fails with 503 so a run also
// exercises the client's retry path.
type stubService struct {
	catalog *catalog
	server  *http.Server
	lis     net.Listener

	searchCalls atomic.Int64
	fetchCalls  atomic.Int64
}

func newStubService(c *catalog) *stubService {
	s := &stubService{catalog: c}
	mux := http.NewServeMux()
	mux.HandleFunc("/esearch.fcgi", s.handleSearch)
	mux.HandleFunc("/efetch.fcgi", s.handleFetch)
	s.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// start binds a loopback port and begins serving.
func (s *stubService) start() (string, error) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", fmt.Errorf("listen: %w", err)
	}
	s.lis = lis
	go s.server.Serve(lis) //nolint:errcheck // closed via stop
	return "http://" + lis.Addr().String(), nil
}

func (s *stubService) stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = s.server.Shutdown(ctx)
}

func (s *stubService) handleSearch(w http.ResponseWriter, r *http.Request) {
	if s.searchCalls.Add(1) == 1 {
		http.Error(w, "warming up", http.StatusServiceUnavailable)
		return
	}
	symbol := querySymbol(r.URL.Query().Get("term"))
	ids := s.catalog.searches[symbol]
	if ids == nil {
		ids = []string{}
	}
	resp := map[string]any{
		"esearchresult": map[string]any{"idlist": ids},
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *stubService) handleFetch(w http.ResponseWriter, r *http.Request) {
	if s.fetchCalls.Add(1) == 1 {
		http.Error(w, "warming up", http.StatusServiceUnavailable)
		return
	}
	g, ok := s.catalog.byID[r.URL.Query().Get("id")]
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/xml")
	fmt.Fprint(w, g.record())
}

// querySymbol strips the field and organism qualifiers from an esearch term.
func querySymbol(term string) string {
	symbol, _, _ := strings.Cut(term, "[GENE]")
	return strings.TrimSpace(symbol)
}
