package papers

import (
	"encoding/json"
	"testing"
)

func TestExtractIdentifier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"abs url", "http://arxiv.org/abs/2101.00001", "2101.00001"},
		{"abs url with version", "http://arxiv.org/abs/2301.00001v2", "2301.00001v2"},
		{"pdf url", "https://arxiv.org/pdf/2205.12345.pdf", "2205.12345"},
		{"old style", "http://arxiv.org/abs/hep-th/9901001v1", "hep-th/9901001v1"},
		{"prefixed", "arXiv:2101.00001", "2101.00001"},
		{"bare", "2308.01234v2", "2308.01234v2"},
		{"database id", "42", ""},
		{"invalid", "https://example.com/foo", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := extractIdentifier(tt.in); got != tt.want {
				t.Fatalf("extractIdentifier(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExternalIDPrefersURL(t *testing.T) {
	t.Parallel()

	p := Paper{ID: "17", URL: "http://arxiv.org/abs/2402.01234v1"}
	if got := ExternalID(p); got != "2402.01234v1" {
		t.Fatalf("ExternalID = %q", got)
	}
	p = Paper{ID: "2402.01234"}
	if got := ExternalID(p); got != "2402.01234" {
		t.Fatalf("ExternalID without url = %q", got)
	}
	p = Paper{ID: "17", URL: "https://example.com/paper"}
	if got := ExternalID(p); got != "17" {
		t.Fatalf("ExternalID fallback = %q", got)
	}
}

func TestFallbackRecord(t *testing.T) {
	t.Parallel()

	got := Fallback("2301.00001")
	if got.ID != "2301.00001" {
		t.Fatalf("id = %q", got.ID)
	}
	if got.Title != PlaceholderTitle {
		t.Fatalf("title = %q", got.Title)
	}
	if got.URL != "http://arxiv.org/abs/2301.00001" {
		t.Fatalf("url = %q", got.URL)
	}
	for name, value := range map[string]string{
		"authors":   got.Authors,
		"abstract":  got.Abstract,
		"summary":   got.Summary,
		"category":  got.Category,
		"published": got.PublishedAt,
	} {
		if value == "" {
			t.Fatalf("fallback %s should carry placeholder text", name)
		}
	}
}

func TestLinksTemplates(t *testing.T) {
	t.Parallel()

	links := Links{AbsTemplate: "https://mirror.test/abs/{id}", PDFTemplate: ""}
	if got := links.Abs("2301.00001"); got != "https://mirror.test/abs/2301.00001" {
		t.Fatalf("Abs = %q", got)
	}
	if got := links.PDF("2301.00001"); got != "https://arxiv.org/pdf/2301.00001.pdf" {
		t.Fatalf("PDF should fall back to default template, got %q", got)
	}
	if got := links.PDFFor(Paper{ID: "9", URL: "http://arxiv.org/abs/2301.00002v3"}); got != "https://arxiv.org/pdf/2301.00002v3.pdf" {
		t.Fatalf("PDFFor = %q", got)
	}
}

func TestPaperDecodesNumericID(t *testing.T) {
	t.Parallel()

	var p Paper
	payload := `{"id": 42, "title": "T", "authors": "A, B", "abstract": "x", "summary": null, "url": "http://arxiv.org/abs/2301.00001", "published_at": "2025-02-01T10:00:00"}`
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.ID != "42" {
		t.Fatalf("id = %q, want 42", p.ID)
	}
	if p.Summary != "" {
		t.Fatalf("null summary should decode empty, got %q", p.Summary)
	}
	if p.Title != "T" || p.Authors != "A, B" {
		t.Fatalf("fields not decoded: %#v", p)
	}
	if got := p.PublishedLabel(); got != "Feb 1, 2025" {
		t.Fatalf("PublishedLabel = %q", got)
	}
}

func TestPaperRejectsObjectID(t *testing.T) {
	t.Parallel()

	var p Paper
	if err := json.Unmarshal([]byte(`{"id": {"x": 1}}`), &p); err == nil {
		t.Fatal("expected error for object id")
	}
}

func TestExcerptPrefersSummary(t *testing.T) {
	t.Parallel()

	p := Paper{Abstract: "abstract", Summary: "  "}
	if got := p.Excerpt(); got != "abstract" {
		t.Fatalf("Excerpt = %q", got)
	}
	p.Summary = "summary"
	if got := p.Excerpt(); got != "summary" {
		t.Fatalf("Excerpt = %q", got)
	}
}
