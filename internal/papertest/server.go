// Package papertest serves a fixture papers API for tests.
package papertest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/csheth/arxivsocial/internal/papers"
)

// Server is an httptest server implementing GET /papers, GET /papers/{id}
// and GET /pdf/{file}.
type Server struct {
	*httptest.Server

	now time.Time

	mu          sync.Mutex
	corpus      []papers.Paper
	listQueries []url.Values
	detailHits  int
	pdfHits     int
	gate        chan struct{}
	failLists   int
}

// Now is the fixed clock used for date_range filtering.
var Now = time.Date(2025, time.March, 14, 12, 0, 0, 0, time.UTC)

// New starts a server over corpus and registers cleanup on t.
func New(t testing.TB, corpus []papers.Paper) *Server {
	t.Helper()
	s := &Server{now: Now, corpus: append([]papers.Paper(nil), corpus...)}

	r := chi.NewRouter()
	r.Get("/papers", s.handleList)
	r.Get("/papers/{id}", s.handleDetail)
	r.Get("/pdf/{file}", s.handlePDF)

	s.Server = httptest.NewServer(r)
	t.Cleanup(func() {
		s.release()
		s.Server.Close()
	})
	return s
}

// Client returns an API client bound to the server.
func (s *Server) Client(t testing.TB) *papers.Client {
	t.Helper()
	client, err := papers.NewClient(s.URL, s.Server.Client())
	if err != nil {
		t.Fatalf("papertest: client: %v", err)
	}
	return client
}

// Links points the PDF template at the server.
func (s *Server) Links() papers.Links {
	return papers.Links{
		AbsTemplate: papers.DefaultAbsTemplate,
		PDFTemplate: s.URL + "/pdf/{id}.pdf",
	}
}

// HoldLists makes list requests block until the returned func is called.
func (s *Server) HoldLists() func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	gate := make(chan struct{})
	s.gate = gate
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.gate == gate {
			s.gate = nil
			close(gate)
		}
	}
}

func (s *Server) release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gate != nil {
		close(s.gate)
		s.gate = nil
	}
}

// FailNextLists answers the next n list requests with HTTP 500.
func (s *Server) FailNextLists(n int) {
	s.mu.Lock()
	s.failLists = n
	s.mu.Unlock()
}

// ListHits counts GET /papers requests received so far.
func (s *Server) ListHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listQueries)
}

// ListQueries returns the query strings of every list request.
func (s *Server) ListQueries() []url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]url.Values(nil), s.listQueries...)
}

// DetailHits counts GET /papers/{id} requests.
func (s *Server) DetailHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.detailHits
}

// PDFHits counts PDF downloads.
func (s *Server) PDFHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pdfHits
}

// WaitForListHits polls until at least n list requests arrived.
func (s *Server) WaitForListHits(t testing.TB, n int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if s.ListHits() >= n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("papertest: waited for %d list requests, got %d", n, s.ListHits())
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	s.mu.Lock()
	s.listQueries = append(s.listQueries, query)
	gate := s.gate
	fail := s.failLists > 0
	if fail {
		s.failLists--
	}
	corpus := s.corpus
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-r.Context().Done():
			return
		}
	}
	if fail {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "fixture failure"})
		return
	}

	page := atoiDefault(query.Get("page"), 1)
	limit := atoiDefault(query.Get("limit"), papers.DefaultPageSize)
	matches := s.filter(corpus, query)
	start := (page - 1) * limit
	if start < 0 || start >= len(matches) {
		writeJSON(w, http.StatusOK, map[string]any{"papers": []papers.Paper{}})
		return
	}
	end := start + limit
	if end > len(matches) {
		end = len(matches)
	}
	writeJSON(w, http.StatusOK, map[string]any{"papers": matches[start:end]})
}

func (s *Server) filter(corpus []papers.Paper, query url.Values) []papers.Paper {
	category := query.Get("category")
	search := strings.ToLower(query.Get("search"))
	dateRange, _ := papers.ParseDateRange(query.Get("date_range"))
	cutoff, limited := cutoffFor(s.now, dateRange)

	out := []papers.Paper{}
	for _, p := range corpus {
		if category != "" && p.Category != category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Title+" "+p.Abstract), search) {
			continue
		}
		if limited {
			published, ok := p.PublishedTime()
			if !ok || published.Before(cutoff) {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

func cutoffFor(now time.Time, d papers.DateRange) (time.Time, bool) {
	switch d {
	case papers.DateToday:
		return now.Add(-24 * time.Hour), true
	case papers.DateWeek:
		return now.AddDate(0, 0, -7), true
	case papers.DateMonth:
		return now.AddDate(0, -1, 0), true
	case papers.DateYear:
		return now.AddDate(-1, 0, 0), true
	default:
		return time.Time{}, false
	}
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	s.detailHits++
	corpus := s.corpus
	s.mu.Unlock()

	for _, p := range corpus {
		if p.ID == id {
			writeJSON(w, http.StatusOK, p)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Paper not found"})
}

func (s *Server) handlePDF(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	id := strings.TrimSuffix(file, ".pdf")

	s.mu.Lock()
	s.pdfHits++
	s.mu.Unlock()

	if id == "" || id == "missing" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	_, _ = w.Write(MinimalPDF(fmt.Sprintf("Fixture PDF for %s", id)))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func atoiDefault(value string, fallback int) int {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
