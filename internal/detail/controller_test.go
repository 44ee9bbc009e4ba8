package detail

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/csheth/arxivsocial/internal/papers"
	"github.com/csheth/arxivsocial/internal/papertest"
)

func TestLoadReturnsPaper(t *testing.T) {
	t.Parallel()

	corpus := papertest.Corpus(3)
	server := papertest.New(t, corpus)
	c := New(server.Client(t), server.Links())

	rec := c.Load(context.Background(), corpus[1].ID)
	if rec.Fallback || rec.Err != nil {
		t.Fatalf("unexpected fallback: %v", rec.Err)
	}
	if rec.Paper.Title != corpus[1].Title {
		t.Fatalf("title = %q", rec.Paper.Title)
	}
	if got, want := c.PDFURL(rec), server.URL+"/pdf/"+corpus[1].ID+"v1.pdf"; got != want {
		t.Fatalf("PDFURL = %q, want %q", got, want)
	}
	if got := c.AbsURL(rec); got != corpus[1].URL {
		t.Fatalf("AbsURL = %q", got)
	}
}

func TestLoadNotFoundUsesFallback(t *testing.T) {
	t.Parallel()

	server := papertest.New(t, papertest.Corpus(1))
	c := New(server.Client(t), papers.DefaultLinks())

	rec := c.Load(context.Background(), "2301.00001")
	if !rec.Fallback {
		t.Fatal("expected fallback record")
	}
	if !errors.Is(rec.Err, papers.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", rec.Err)
	}
	if rec.Paper.ID != "2301.00001" {
		t.Fatalf("id = %q", rec.Paper.ID)
	}
	if rec.Paper.Title != papers.PlaceholderTitle {
		t.Fatalf("title = %q", rec.Paper.Title)
	}
	if rec.Paper.URL != "http://arxiv.org/abs/2301.00001" {
		t.Fatalf("url = %q", rec.Paper.URL)
	}
	if server.DetailHits() != 1 {
		t.Fatalf("expected a single request, got %d", server.DetailHits())
	}
}

func TestLoadFallsBackOnMalformedBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	}))
	t.Cleanup(server.Close)
	client, err := papers.NewClient(server.URL, server.Client())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	rec := New(client, papers.DefaultLinks()).Load(context.Background(), "2402.00002")
	if !rec.Fallback || rec.Paper.Title != papers.PlaceholderTitle {
		t.Fatalf("expected fallback, got %+v", rec)
	}
}

func TestLoadFallsBackOnNetworkError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	client, err := papers.NewClient(server.URL, server.Client())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	server.Close()

	links := papers.Links{AbsTemplate: "https://mirror.test/abs/{id}"}
	rec := New(client, links).Load(context.Background(), "2402.00003")
	if !rec.Fallback || rec.Err == nil {
		t.Fatalf("expected fallback with cause, got %+v", rec)
	}
	if rec.Paper.URL != "https://mirror.test/abs/2402.00003" {
		t.Fatalf("fallback url should use configured template, got %q", rec.Paper.URL)
	}
}
