package tui

import (
	"github.com/csheth/arxivsocial/internal/detail"
	"github.com/csheth/arxivsocial/internal/feed"
	"github.com/csheth/arxivsocial/internal/pdfview"
)

type page int

const (
	pageHome page = iota
	pageSearch
	pageDetail
	pageProfile
)

func (p page) String() string {
	switch p {
	case pageSearch:
		return "Search"
	case pageDetail:
		return "Paper"
	case pageProfile:
		return "Profile"
	default:
		return "Home"
	}
}

const appTitle = "Arxiv Social"

const (
	feedHeading       = "Latest Papers"
	loadingMoreText   = "Loading more..."
	noMorePapersText  = "No more papers available."
	profileStubText   = "User information and saved papers will go here..."
	pdfPlaceholder    = "The PDF could not be displayed here. Press p to open it in your browser."
	pdfLoadingText    = "Fetching PDF…"
	pdfDisabledText   = "Embedded viewer disabled. Press p to open the PDF in your browser."
	detailLoadingText = "Loading paper…"
)

const (
	anchorAbstract = "abstract"
	anchorSummary  = "summary"
	anchorPDF      = "pdf"
)

var sectionSequence = []string{
	anchorSummary,
	anchorAbstract,
	anchorPDF,
}

const (
	minViewportWidth          = 40
	viewportHorizontalPadding = 4
	cardExcerptLimit          = 280
)

type feedPageMsg struct {
	result feed.Result
}

type detailResultMsg struct {
	id     string
	record detail.Record
}

type pdfResultMsg struct {
	id  string
	url string
	doc *pdfview.Document
	err error
}

type browserResultMsg struct {
	url string
	err error
}
