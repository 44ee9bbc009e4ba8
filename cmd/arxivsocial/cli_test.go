package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/csheth/arxivsocial/internal/papertest"
)

// writeTestConfig points the PDF template at server and returns the path.
func writeTestConfig(t *testing.T, server *papertest.Server) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "api_url: " + server.URL + "\npdf_url_template: " + server.URL + "/pdf/{id}.pdf\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append(args, "--color", "never"))
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestListFetchesRequestedPages(t *testing.T) {
	t.Setenv("ARXIVSOCIAL_API_URL", "")
	server := papertest.New(t, papertest.Corpus(25))

	out, _, err := execute(t, "list", "--config", writeTestConfig(t, server), "--pages", "2")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if hits := server.ListHits(); hits != 2 {
		t.Fatalf("list hits = %d, want 2", hits)
	}
	for _, want := range []string{"Latest Papers: all papers", "2503.00001", "2503.00020", "More available: --pages 3"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "2503.00021") {
		t.Fatalf("third page printed:\n%s", out)
	}
}

func TestListStopsWhenExhausted(t *testing.T) {
	t.Setenv("ARXIVSOCIAL_API_URL", "")
	server := papertest.New(t, papertest.Corpus(12))

	out, _, err := execute(t, "list", "--config", writeTestConfig(t, server), "--pages", "5")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if hits := server.ListHits(); hits != 3 {
		t.Fatalf("list hits = %d, want 3", hits)
	}
	if !strings.Contains(out, "No more papers available.") {
		t.Fatalf("missing end-of-list line:\n%s", out)
	}
}

func TestListJSONWithFilters(t *testing.T) {
	t.Setenv("ARXIVSOCIAL_API_URL", "")
	server := papertest.New(t, papertest.Corpus(30))

	out, _, err := execute(t, "list", "--config", writeTestConfig(t, server), "--category", "cs.LG", "--date-range", "month", "--json")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var got listResult
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if got.Filter.Category != "cs.LG" || got.Filter.DateRange.String() != "month" {
		t.Fatalf("filter = %+v", got.Filter)
	}
	if len(got.Papers) == 0 {
		t.Fatal("expected papers")
	}
	for _, p := range got.Papers {
		if p.Category != "cs.LG" {
			t.Fatalf("unexpected category %q", p.Category)
		}
	}
	q := server.ListQueries()[0]
	if q.Get("category") != "cs.LG" || q.Get("date_range") != "month" {
		t.Fatalf("query = %v", q)
	}
}

func TestListFailureWithNothingLoaded(t *testing.T) {
	t.Setenv("ARXIVSOCIAL_API_URL", "")
	server := papertest.New(t, papertest.Corpus(5))
	server.FailNextLists(1)

	_, stderr, err := execute(t, "list", "--config", writeTestConfig(t, server))
	if err == nil {
		t.Fatal("expected an error when the only page fails")
	}
	if !strings.Contains(stderr, "[WARN] could not load page 1") {
		t.Fatalf("stderr = %q", stderr)
	}
	if hits := server.ListHits(); hits != 1 {
		t.Fatalf("failure was retried: %d hits", hits)
	}
}

func TestListRejectsBadFlags(t *testing.T) {
	if _, _, err := execute(t, "list", "--pages", "0"); err == nil {
		t.Fatal("expected error for --pages 0")
	}
	if _, _, err := execute(t, "list", "--date-range", "decade"); err == nil {
		t.Fatal("expected error for unknown date range")
	}
}

func TestShowPrintsPaperAndPDF(t *testing.T) {
	t.Setenv("ARXIVSOCIAL_API_URL", "")
	server := papertest.New(t, papertest.Corpus(3))

	out, stderr, err := execute(t, "show", "2503.00002", "--config", writeTestConfig(t, server), "--pdf")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if stderr != "" {
		t.Fatalf("unexpected warnings: %q", stderr)
	}
	for _, want := range []string{"Fixture Paper 2", "Summary 2.", "http://arxiv.org/abs/2503.00002v1", "Embedded PDF", "Fixture PDF for 2503.00002v1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestShowFallsBackForUnknownPaper(t *testing.T) {
	t.Setenv("ARXIVSOCIAL_API_URL", "")
	server := papertest.New(t, papertest.Corpus(1))

	out, stderr, err := execute(t, "show", "2301.00001", "--config", writeTestConfig(t, server), "--json")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(stderr, "showing placeholder") {
		t.Fatalf("stderr = %q", stderr)
	}
	var got showResult
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if !got.Fallback || got.Paper.ID != "2301.00001" || got.Paper.URL != "http://arxiv.org/abs/2301.00001" {
		t.Fatalf("fallback record = %+v", got)
	}
	if server.DetailHits() != 1 {
		t.Fatalf("detail hits = %d, want 1", server.DetailHits())
	}
}

func TestAPIURLFlagOverridesConfig(t *testing.T) {
	t.Setenv("ARXIVSOCIAL_API_URL", "")
	server := papertest.New(t, papertest.Corpus(1))
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("api_url: http://127.0.0.1:1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := execute(t, "list", "--config", path, "--api-url", server.URL); err != nil {
		t.Fatalf("list: %v", err)
	}
	if server.ListHits() == 0 {
		t.Fatal("--api-url was ignored")
	}
}

func TestAPIURLFlagWinsOverInvalidEnv(t *testing.T) {
	t.Setenv("ARXIVSOCIAL_API_URL", "::not-a-url")
	server := papertest.New(t, papertest.Corpus(1))

	if _, _, err := execute(t, "list", "--config", writeTestConfig(t, server), "--api-url", server.URL); err != nil {
		t.Fatalf("list: %v", err)
	}
	if server.ListHits() != 1 {
		t.Fatalf("list hits = %d, want 1", server.ListHits())
	}
}

func TestVersionShort(t *testing.T) {
	out, _, err := execute(t, "version", "--short")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if strings.TrimSpace(out) != version {
		t.Fatalf("version = %q", out)
	}
}
