package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/csheth/arxivsocial/internal/papers"
)

const titleWidth = 60

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)
}

// PaperTable renders one row per paper, numbered from start.
func PaperTable(w io.Writer, list []papers.Paper, start int) error {
	table := newTable(w)
	table.Header([]string{"#", "ID", "Category", "Published", "Title"})
	rows := make([][]string, 0, len(list))
	for i, p := range list {
		rows = append(rows, []string{
			fmt.Sprintf("%d", start+i),
			papers.ExternalID(p),
			orDefault(p.Category, papers.PlaceholderCategory),
			p.PublishedLabel(),
			truncate.StringWithTail(oneLine(p.Title), titleWidth, "…"),
		})
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

// PaperDetail prints a full record, with extracted PDF text when present.
func PaperDetail(p *Printer, rec papers.Paper, absURL, pdfURL, pdfText string, width int) {
	if width <= 0 {
		width = 80
	}
	p.Header(oneLine(rec.Title))
	p.Print("%s %s", p.Dim("Authors: "), orDefault(rec.Authors, papers.PlaceholderAuthors))
	p.Print("%s %s", p.Dim("Category:"), orDefault(rec.Category, papers.PlaceholderCategory))
	p.Print("%s %s", p.Dim("Published:"), rec.PublishedLabel())
	p.Print("%s %s", p.Dim("Abstract page:"), absURL)
	p.Print("%s %s", p.Dim("PDF:"), pdfURL)

	p.Header("Abstract")
	p.Print("%s", wordwrap.String(orDefault(rec.Abstract, papers.PlaceholderAbstract), width))
	if rec.Summary != "" {
		p.Header("Summary")
		p.Print("%s", wordwrap.String(rec.Summary, width))
	}
	if pdfText != "" {
		p.Header("Embedded PDF")
		p.Print("%s", wordwrap.String(pdfText, width))
	}
}

// JSON writes v indented, the format used by --json.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
