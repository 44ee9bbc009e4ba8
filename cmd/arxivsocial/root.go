package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/csheth/arxivsocial/internal/config"
	"github.com/csheth/arxivsocial/internal/detail"
	"github.com/csheth/arxivsocial/internal/feed"
	"github.com/csheth/arxivsocial/internal/output"
	"github.com/csheth/arxivsocial/internal/papers"
	"github.com/csheth/arxivsocial/internal/pdfview"
	"github.com/csheth/arxivsocial/internal/tui"
)

// app holds the flag values and the dependencies built from them.
type app struct {
	configPath string
	apiURL     string
	colorMode  string

	cfg    *config.Config
	client *papers.Client
	links  papers.Links
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var (
		noAltScreen bool
		logFile     string
	)

	root := &cobra.Command{
		Use:           "arxivsocial",
		Short:         "Browse the latest arXiv papers from the terminal",
		Long:          "arxivsocial shows an infinitely scrolling feed of recent papers with category, date and text filters, and a detail page with the embedded PDF.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}
			return a.runTUI(noAltScreen, logFile)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to config file (default "+config.DefaultConfigPath()+")")
	root.PersistentFlags().StringVar(&a.apiURL, "api-url", "", "papers API base URL, overrides the config file")
	root.PersistentFlags().StringVar(&a.colorMode, "color", "auto", "color output: auto, always or never")
	root.Flags().BoolVar(&noAltScreen, "no-alt-screen", false, "disable the alternate screen buffer")
	root.Flags().StringVar(&logFile, "log-file", "", "write logs to this file instead of the state directory")

	root.AddCommand(newListCmd(a), newShowCmd(a), newVersionCmd())
	return root
}

func (a *app) load() error {
	cfg, err := config.Load(a.configPath, config.WithAPIURL(a.apiURL))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	client, err := papers.NewClient(cfg.APIURL, &http.Client{Timeout: cfg.RequestDuration()})
	if err != nil {
		return fmt.Errorf("api url: %w", err)
	}
	a.cfg = cfg
	a.client = client
	a.links = cfg.Links()
	return nil
}

func (a *app) printer(cmd *cobra.Command) (*output.Printer, error) {
	mode, err := output.ParseColorMode(a.colorMode)
	if err != nil {
		return nil, err
	}
	return output.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode), nil
}

func (a *app) pdfFetcher() *pdfview.Fetcher {
	return pdfview.New(&http.Client{Timeout: a.cfg.PDFDuration()})
}

func (a *app) runTUI(noAltScreen bool, logFile string) error {
	if logFile == "" {
		logFile = a.cfg.LogPath()
	}
	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	f, err := tea.LogToFile(logFile, "arxivsocial")
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	model := tui.New(tui.Config{
		Feed:           feed.New(a.client, feed.WithPageSize(a.cfg.PageSize)),
		Detail:         detail.New(a.client, a.links),
		PDF:            a.pdfFetcher(),
		Links:          a.links,
		Categories:     a.cfg.Categories,
		RequestTimeout: a.cfg.RequestDuration(),
	})

	opts := []tea.ProgramOption{tea.WithMouseCellMotion()}
	if !noAltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	if _, err := tea.NewProgram(model, opts...).Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}
