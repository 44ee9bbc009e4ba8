// Package detail resolves a paper id to the full record shown on the detail
// page. It never returns an absent paper.
package detail

import (
	"context"
	"log"

	"github.com/csheth/arxivsocial/internal/papers"
)

// Getter fetches a single paper. *papers.Client satisfies it.
type Getter interface {
	GetPaper(ctx context.Context, id string) (*papers.Paper, error)
}

// Record is the outcome of a detail load. When Fallback is set, Paper holds
// placeholder content and Err the cause.
type Record struct {
	Paper    papers.Paper
	Fallback bool
	Err      error
}

// Controller issues one request per Load; it keeps no cache and never retries.
type Controller struct {
	getter Getter
	links  papers.Links
}

// New returns a detail controller. links supplies the abstract URL used in
// fallback records and the PDF template.
func New(getter Getter, links papers.Links) *Controller {
	return &Controller{getter: getter, links: links}
}

// Load fetches id, substituting the fallback record on any failure.
func (c *Controller) Load(ctx context.Context, id string) Record {
	paper, err := c.getter.GetPaper(ctx, id)
	if err != nil {
		log.Printf("[detail] %s unavailable, using placeholder: %v", id, err)
		return Record{Paper: c.links.Fallback(id), Fallback: true, Err: err}
	}
	return Record{Paper: *paper}
}

// PDFURL is the document shown in the embedded viewer for r.
func (c *Controller) PDFURL(r Record) string {
	return c.links.PDFFor(r.Paper)
}

// AbsURL is the external abstract page for r.
func (c *Controller) AbsURL(r Record) string {
	if r.Paper.URL != "" {
		return r.Paper.URL
	}
	return c.links.Abs(papers.ExternalID(r.Paper))
}
