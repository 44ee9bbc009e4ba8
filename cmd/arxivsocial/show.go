package main

import (
	"github.com/spf13/cobra"

	"github.com/csheth/arxivsocial/internal/detail"
	"github.com/csheth/arxivsocial/internal/output"
	"github.com/csheth/arxivsocial/internal/papers"
)

type showResult struct {
	Paper    papers.Paper `json:"paper"`
	Fallback bool         `json:"fallback"`
	AbsURL   string       `json:"abs_url"`
	PDFURL   string       `json:"pdf_url"`
	PDFText  string       `json:"pdf_text,omitempty"`
}

func newShowCmd(a *app) *cobra.Command {
	var (
		withPDF    bool
		jsonOutput bool
		width      int
	)

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print one paper, with a placeholder when it cannot be loaded",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}
			p, err := a.printer(cmd)
			if err != nil {
				return err
			}

			ctrl := detail.New(a.client, a.links)
			rec := ctrl.Load(cmd.Context(), args[0])
			if rec.Fallback {
				p.Warning("paper %s unavailable (%v); showing placeholder", args[0], rec.Err)
			}

			result := showResult{
				Paper:    rec.Paper,
				Fallback: rec.Fallback,
				AbsURL:   ctrl.AbsURL(rec),
				PDFURL:   ctrl.PDFURL(rec),
			}
			if withPDF {
				doc, err := a.pdfFetcher().Fetch(cmd.Context(), result.PDFURL)
				if err != nil {
					p.Warning("pdf unavailable: %v", err)
				} else {
					result.PDFText = doc.Text
				}
			}

			if jsonOutput {
				return output.JSON(cmd.OutOrStdout(), result)
			}
			output.PaperDetail(p, result.Paper, result.AbsURL, result.PDFURL, result.PDFText, width)
			return nil
		},
	}

	cmd.Flags().BoolVar(&withPDF, "pdf", false, "download the PDF and print its text")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	cmd.Flags().IntVar(&width, "width", 80, "wrap text at this column")
	return cmd
}
