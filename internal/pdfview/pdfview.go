// Package pdfview downloads a paper PDF and extracts its text for the
// embedded viewer on the detail page. Documents are held in memory only.
package pdfview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
)

const (
	defaultHTTPTimeout = 90 * time.Second
	// MaxDocumentBytes caps the download size.
	MaxDocumentBytes = 64 << 20
)

// ErrTooLarge is returned when a document exceeds MaxDocumentBytes.
var ErrTooLarge = errors.New("pdf exceeds size limit")

var extraneousWhitespace = regexp.MustCompile(`\s+`)

// Document is the extracted content of a PDF.
type Document struct {
	URL   string
	Pages int
	Text  string
}

// Fetcher downloads and parses PDFs.
type Fetcher struct {
	client *http.Client
}

// New returns a Fetcher. A nil client gets a 90 second timeout.
func New(client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Fetcher{client: client}
}

// Fetch downloads pdfURL and extracts its plain text.
func (f *Fetcher) Fetch(ctx context.Context, pdfURL string) (*Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pdfURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/pdf")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("pdf download failed: %s (%s)", resp.Status, strings.TrimSpace(string(body)))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxDocumentBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read pdf: %w", err)
	}
	if len(data) > MaxDocumentBytes {
		return nil, ErrTooLarge
	}

	doc, err := Extract(data)
	if err != nil {
		return nil, err
	}
	doc.URL = pdfURL
	return doc, nil
}

// Extract parses an in-memory PDF.
func Extract(data []byte) (doc *Document, err error) {
	// The parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("failed to parse pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	content, err := reader.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("failed to extract pdf text: %w", err)
	}

	var builder strings.Builder
	if _, err := io.Copy(&builder, content); err != nil {
		return nil, err
	}

	text := extraneousWhitespace.ReplaceAllString(builder.String(), " ")
	return &Document{Pages: reader.NumPage(), Text: strings.TrimSpace(text)}, nil
}
