package pdfview

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/csheth/arxivsocial/internal/papertest"
)

func TestFetchExtractsText(t *testing.T) {
	t.Parallel()

	server := papertest.New(t, nil)
	f := New(server.Server.Client())

	doc, err := f.Fetch(context.Background(), server.URL+"/pdf/2301.00001.pdf")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if doc.Pages != 1 {
		t.Fatalf("pages = %d, want 1", doc.Pages)
	}
	if !strings.Contains(doc.Text, "Fixture") {
		t.Fatalf("extracted text %q missing fixture content", doc.Text)
	}
	if doc.URL != server.URL+"/pdf/2301.00001.pdf" {
		t.Fatalf("url = %q", doc.URL)
	}
}

func TestFetchReportsStatus(t *testing.T) {
	t.Parallel()

	server := papertest.New(t, nil)
	_, err := New(server.Server.Client()).Fetch(context.Background(), server.URL+"/pdf/missing.pdf")
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected 404 error, got %v", err)
	}
}

func TestFetchRejectsGarbage(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not a pdf</html>"))
	}))
	t.Cleanup(server.Close)

	if _, err := New(server.Client()).Fetch(context.Background(), server.URL); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestExtractRejectsEmpty(t *testing.T) {
	t.Parallel()

	if _, err := Extract(nil); err == nil {
		t.Fatal("expected error for empty input")
	}
}
