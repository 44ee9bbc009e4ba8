package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/csheth/arxivsocial/internal/feed"
	"github.com/csheth/arxivsocial/internal/output"
	"github.com/csheth/arxivsocial/internal/papers"
)

type listResult struct {
	Filter    papers.Filter  `json:"filter"`
	NextPage  int            `json:"next_page"`
	Exhausted bool           `json:"exhausted"`
	Papers    []papers.Paper `json:"papers"`
}

func newListCmd(a *app) *cobra.Command {
	var (
		pages      int
		category   string
		dateRange  string
		search     string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print feed pages without starting the UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if pages < 1 {
				return fmt.Errorf("--pages must be at least 1, got %d", pages)
			}
			dr, err := papers.ParseDateRange(dateRange)
			if err != nil {
				return err
			}
			if err := a.load(); err != nil {
				return err
			}
			p, err := a.printer(cmd)
			if err != nil {
				return err
			}

			filter := papers.Filter{Category: category, DateRange: dr, Search: search}
			ctrl := feed.New(a.client, feed.WithPageSize(a.cfg.PageSize), feed.WithFilter(filter))
			failed := false
			for i := 0; i < pages; i++ {
				outcome := ctrl.LoadNextPage(cmd.Context())
				if outcome == feed.OutcomeFailed {
					failed = true
				}
				if outcome != feed.OutcomeAppended {
					break
				}
			}

			snap := ctrl.Snapshot()
			if failed {
				p.Warning("could not load page %d", snap.Page)
				if len(snap.Papers) == 0 {
					return errors.New("no papers loaded")
				}
			}

			if jsonOutput {
				return output.JSON(cmd.OutOrStdout(), listResult{
					Filter:    snap.Filter,
					NextPage:  snap.Page,
					Exhausted: snap.Exhausted(),
					Papers:    snap.Papers,
				})
			}

			p.Header("Latest Papers: " + snap.Filter.Describe())
			if err := output.PaperTable(p.Out(), snap.Papers, 1); err != nil {
				return err
			}
			if snap.Exhausted() {
				p.Info("No more papers available.")
			} else if !failed {
				p.Print("%s", p.Dim(fmt.Sprintf("More available: --pages %d", snap.Page)))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&pages, "pages", 1, "number of pages to fetch")
	cmd.Flags().StringVar(&category, "category", "", "only papers in this arXiv category (e.g. cs.LG)")
	cmd.Flags().StringVar(&dateRange, "date-range", "all", "all, today, week, month or year")
	cmd.Flags().StringVar(&search, "search", "", "filter by text in title or abstract")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}
