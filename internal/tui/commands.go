package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/arxivsocial/internal/detail"
	"github.com/csheth/arxivsocial/internal/feed"
	"github.com/csheth/arxivsocial/internal/pdfview"
)

func withTimeout(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}

func feedPageJob(ctrl *feed.Controller, req feed.Request, timeout time.Duration) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := withTimeout(parent, timeout)
		defer cancel()
		res := ctrl.Fetch(ctx, req)
		return feedPageMsg{result: res}, res.Err
	}
}

func detailJob(ctrl *detail.Controller, id string, timeout time.Duration) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := withTimeout(parent, timeout)
		defer cancel()
		record := ctrl.Load(ctx, id)
		return detailResultMsg{id: id, record: record}, record.Err
	}
}

func pdfJob(fetcher *pdfview.Fetcher, id, url string) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		doc, err := fetcher.Fetch(parent, url)
		return pdfResultMsg{id: id, url: url, doc: doc, err: err}, err
	}
}

func openURLJob(open func(string) error, url string) jobRunner {
	return func(context.Context) (tea.Msg, error) {
		err := open(url)
		return browserResultMsg{url: url, err: err}, err
	}
}
