package papers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := NewClient(server.URL+"/", server.Client())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestListPapersSendsQuery(t *testing.T) {
	t.Parallel()

	var gotPath, gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"papers":[{"id":"a","title":"First"},{"id":2,"title":"Second"}]}`)
	})

	page, err := client.ListPapers(context.Background(), PageQuery{Page: 2, Filter: Filter{Category: "cs.AI"}})
	if err != nil {
		t.Fatalf("ListPapers: %v", err)
	}
	if gotPath != "/papers" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotQuery != "category=cs.AI&limit=10&page=2" {
		t.Fatalf("query = %q", gotQuery)
	}
	if len(page) != 2 || page[0].ID != "a" || page[1].ID != "2" {
		t.Fatalf("unexpected page %#v", page)
	}
}

func TestListPapersTreatsMissingFieldAsEmpty(t *testing.T) {
	t.Parallel()

	bodies := map[string]string{
		"empty array":   `{"papers":[]}`,
		"missing field": `{"items":[{"id":"x"}]}`,
		"null field":    `{"papers":null}`,
		"object field":  `{"papers":{"id":"x"}}`,
		"bare array":    `[{"id":"x"}]`,
	}
	for name, body := range bodies {
		name, body := name, body
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, body)
			})
			page, err := client.ListPapers(context.Background(), PageQuery{Page: 1})
			if err != nil {
				t.Fatalf("ListPapers: %v", err)
			}
			if len(page) != 0 {
				t.Fatalf("expected empty page, got %d items", len(page))
			}
		})
	}
}

func TestListPapersReportsFailures(t *testing.T) {
	t.Parallel()

	t.Run("malformed json", func(t *testing.T) {
		t.Parallel()
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `<html>oops</html>`)
		})
		if _, err := client.ListPapers(context.Background(), PageQuery{Page: 1}); err == nil {
			t.Fatal("expected decode error")
		}
	})

	t.Run("server error", func(t *testing.T) {
		t.Parallel()
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		})
		if _, err := client.ListPapers(context.Background(), PageQuery{Page: 1}); err == nil {
			t.Fatal("expected status error")
		}
	})
}

func TestGetPaper(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/papers/2301.00001":
			fmt.Fprint(w, `{"id":"2301.00001","title":"Found","authors":"Ada","url":"http://arxiv.org/abs/2301.00001"}`)
		case "/papers/7":
			fmt.Fprint(w, `{"title":"No id"}`)
		case "/papers/null":
			fmt.Fprint(w, `null`)
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	paper, err := client.GetPaper(ctx, "2301.00001")
	if err != nil {
		t.Fatalf("GetPaper: %v", err)
	}
	if paper.Title != "Found" {
		t.Fatalf("title = %q", paper.Title)
	}

	paper, err = client.GetPaper(ctx, "7")
	if err != nil {
		t.Fatalf("GetPaper without id: %v", err)
	}
	if paper.ID != "7" {
		t.Fatalf("id should default to requested, got %q", paper.ID)
	}

	if _, err := client.GetPaper(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := client.GetPaper(ctx, "null"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for null body, got %v", err)
	}
	if _, err := client.GetPaper(ctx, " "); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty id, got %v", err)
	}
}

func TestNewClientValidatesURL(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "ftp://example.com", "localhost:8000", "http://"} {
		if _, err := NewClient(raw, nil); err == nil {
			t.Fatalf("NewClient(%q) should fail", raw)
		}
	}
	client, err := NewClient("http://localhost:8000/", nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if client.BaseURL() != "http://localhost:8000" {
		t.Fatalf("BaseURL = %q", client.BaseURL())
	}
}
