package papertest

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/csheth/arxivsocial/internal/papers"
)

var categories = []string{"cs.AI", "cs.LG", "cs.CL"}

// Corpus builds n deterministic papers. Categories rotate through cs.AI,
// cs.LG and cs.CL; publication dates step back one day per paper from Now.
func Corpus(n int) []papers.Paper {
	out := make([]papers.Paper, 0, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("2503.%05d", i+1)
		out = append(out, papers.Paper{
			ID:          id,
			Title:       fmt.Sprintf("Fixture Paper %d", i+1),
			Authors:     fmt.Sprintf("Author %d, Coauthor %d", i+1, i+2),
			Abstract:    fmt.Sprintf("Abstract number %d describes a method for testing.", i+1),
			Summary:     fmt.Sprintf("Summary %d.", i+1),
			URL:         "http://arxiv.org/abs/" + id + "v1",
			Category:    categories[i%len(categories)],
			PublishedAt: Now.AddDate(0, 0, -i).Format(time.RFC3339),
		})
	}
	return out
}

// MinimalPDF renders a single-page PDF containing text in Helvetica. Object
// offsets are computed so the cross-reference table is valid.
func MinimalPDF(text string) []byte {
	escaped := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`).Replace(text)
	stream := fmt.Sprintf("BT /F1 12 Tf 72 712 Td (%s) Tj ET", escaped)
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, body := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}
