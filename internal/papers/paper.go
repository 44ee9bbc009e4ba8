package papers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Paper is a single record served by the papers API. The list endpoint and the
// detail endpoint share the same shape.
type Paper struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Authors     string `json:"authors"`
	Abstract    string `json:"abstract"`
	Summary     string `json:"summary,omitempty"`
	URL         string `json:"url"`
	Category    string `json:"category,omitempty"`
	PublishedAt string `json:"published_at"`
}

// UnmarshalJSON accepts the id either as a JSON string or as a number.
func (p *Paper) UnmarshalJSON(data []byte) error {
	type plain Paper
	aux := struct {
		ID json.RawMessage `json:"id"`
		*plain
	}{plain: (*plain)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	id, err := decodeID(aux.ID)
	if err != nil {
		return err
	}
	p.ID = id
	return nil
}

func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return strings.TrimSpace(s), nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("paper id must be a string or number: %w", err)
	}
	return n.String(), nil
}

// Display text used by the fallback record.
const (
	PlaceholderTitle     = "Paper not found"
	PlaceholderAuthors   = "Unknown authors"
	PlaceholderAbstract  = "The abstract for this paper could not be loaded."
	PlaceholderSummary   = "No summary available."
	PlaceholderCategory  = "uncategorized"
	PlaceholderPublished = "Unknown date"
)

// Fallback builds the placeholder record shown when a detail fetch fails,
// using the default arXiv link templates.
func Fallback(id string) Paper {
	return DefaultLinks().Fallback(id)
}

// Links expands paper identifiers into external URLs. Templates carry an {id}
// placeholder.
type Links struct {
	AbsTemplate string
	PDFTemplate string
}

const (
	DefaultAbsTemplate = "http://arxiv.org/abs/{id}"
	DefaultPDFTemplate = "https://arxiv.org/pdf/{id}.pdf"
)

// DefaultLinks points at arxiv.org.
func DefaultLinks() Links {
	return Links{AbsTemplate: DefaultAbsTemplate, PDFTemplate: DefaultPDFTemplate}
}

// Abs returns the abstract page URL for id.
func (l Links) Abs(id string) string {
	return expand(l.AbsTemplate, DefaultAbsTemplate, id)
}

// PDF returns the PDF document URL for id.
func (l Links) PDF(id string) string {
	return expand(l.PDFTemplate, DefaultPDFTemplate, id)
}

// PDFFor resolves the external identifier of p and expands the PDF template.
func (l Links) PDFFor(p Paper) string {
	return l.PDF(ExternalID(p))
}

// Fallback builds a placeholder record for id whose url points at the
// abstract page.
func (l Links) Fallback(id string) Paper {
	id = strings.TrimSpace(id)
	return Paper{
		ID:          id,
		Title:       PlaceholderTitle,
		Authors:     PlaceholderAuthors,
		Abstract:    PlaceholderAbstract,
		Summary:     PlaceholderSummary,
		URL:         l.Abs(id),
		Category:    PlaceholderCategory,
		PublishedAt: PlaceholderPublished,
	}
}

func expand(template, fallback, id string) string {
	if strings.TrimSpace(template) == "" {
		template = fallback
	}
	return strings.ReplaceAll(template, "{id}", strings.TrimSpace(id))
}

var (
	idRegexp   = regexp.MustCompile(`(?i)arxiv\.org/(?:abs|pdf)/([a-z\-]+(?:\.[a-z]{2})?/[0-9]{7}(?:v[0-9]+)?|[0-9a-z.\-]+)`)
	bareRegexp = regexp.MustCompile(`(?i)^(?:[a-z\-]+(?:\.[a-z]{2})?/[0-9]{7}(?:v[0-9]+)?|[0-9]{4}\.[0-9]{4,5}(?:v[0-9]+)?)$`)
)

// ExternalID returns the arXiv identifier of p. It is taken from the paper URL
// when that is an arXiv link, otherwise from the id itself.
func ExternalID(p Paper) string {
	if id := extractIdentifier(p.URL); id != "" {
		return id
	}
	if id := extractIdentifier(p.ID); id != "" {
		return id
	}
	return strings.TrimSpace(p.ID)
}

func extractIdentifier(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}
	if len(input) > 4 && strings.EqualFold(input[len(input)-4:], ".pdf") {
		input = input[:len(input)-4]
	}
	if matches := idRegexp.FindStringSubmatch(input); len(matches) > 1 {
		return matches[1]
	}
	if len(input) >= len("arxiv:") && strings.EqualFold(input[:len("arxiv:")], "arxiv:") {
		input = strings.TrimSpace(input[len("arxiv:"):])
	}
	if bareRegexp.MatchString(input) {
		return input
	}
	return ""
}

// Excerpt is the text shown on a feed card: the AI summary when present,
// otherwise the abstract.
func (p Paper) Excerpt() string {
	if s := strings.TrimSpace(p.Summary); s != "" {
		return s
	}
	return strings.TrimSpace(p.Abstract)
}
