package tui

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/arxivsocial/internal/browser"
	"github.com/csheth/arxivsocial/internal/detail"
	"github.com/csheth/arxivsocial/internal/feed"
	"github.com/csheth/arxivsocial/internal/papers"
	"github.com/csheth/arxivsocial/internal/pdfview"
)

// Config wires runtime options into the TUI program.
type Config struct {
	Feed   *feed.Controller
	Detail *detail.Controller
	// PDF is optional; without it the detail page only links to the PDF.
	PDF            *pdfview.Fetcher
	Links          papers.Links
	Categories     []string
	RequestTimeout time.Duration
	// OpenURL defaults to browser.Open.
	OpenURL func(string) error
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	return newModel(config)
}

func newModel(config Config) *model {
	if config.OpenURL == nil {
		config.OpenURL = browser.Open
	}

	searchInput := textinput.New()
	searchInput.Placeholder = "Search titles and abstracts…"
	searchInput.CharLimit = 120
	searchInput.Width = 60

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	vp := viewport.New(80, 20)
	vp.MouseWheelEnabled = true

	return &model{
		config:         config,
		page:           pageHome,
		jobs:           newJobBus(),
		layout:         newPageLayout(),
		searchInput:    searchInput,
		spinner:        spin,
		viewport:       vp,
		sectionAnchors: map[string]int{},
		viewportDirty:  true,
	}
}

type model struct {
	config Config
	page   page
	jobs   *jobBus
	layout pageLayout

	searchInput textinput.Model
	spinner     spinner.Model
	viewport    viewport.Model

	feed            feed.Snapshot
	cursor          int
	listOffset      int
	sentinelVisible bool
	categoryIdx     int

	detailID       string
	detailFrom     page
	record         *detail.Record
	pdfURL         string
	pdfDoc         *pdfview.Document
	pdfErr         error
	pdfLoading     bool
	sectionAnchors map[string]int
	viewportDirty  bool

	infoMessage  string
	errorMessage string
	helpVisible  bool
}

func (m *model) Init() tea.Cmd {
	m.refreshFeed()
	return m.checkSentinel()
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.jobs.Busy() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m.handleKey(msg)
	case tea.MouseMsg:
		if m.page == pageDetail {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.layout.Update(msg.Width, msg.Height)
		m.viewport.Width = m.layout.viewportWidth
		m.viewport.Height = m.layout.viewportHeight
		m.searchInput.Width = m.layout.viewportWidth - 4
		m.markViewportDirty()
		m.ensureCursorVisible()
		return m, m.checkSentinel()
	case jobResultEnvelope:
		m.jobs.Finish(msg.Snapshot)
		return m.Update(msg.Payload)
	case feedPageMsg:
		return m, m.applyFeedResult(msg.result)
	case detailResultMsg:
		return m, m.applyDetail(msg)
	case pdfResultMsg:
		m.applyPDF(msg)
		return m, nil
	case browserResultMsg:
		if msg.err != nil {
			m.errorMessage = fmt.Sprintf("open browser: %v", msg.err)
			return m, nil
		}
		m.errorMessage = ""
		m.infoMessage = "Opened " + msg.url
		return m, nil
	}
	return m, nil
}

func (m *model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.page == pageSearch {
		return m.handleSearchKey(key)
	}

	switch key.String() {
	case "q":
		return m, tea.Quit
	case "?":
		m.helpVisible = !m.helpVisible
		return m, nil
	case "1":
		return m, m.switchPage(pageHome)
	case "2":
		return m, m.switchPage(pageSearch)
	case "3":
		return m, m.switchPage(pageProfile)
	}

	switch m.page {
	case pageHome:
		return m, m.handleHomeKey(key)
	case pageDetail:
		return m, m.handleDetailKey(key)
	case pageProfile:
		if key.Type == tea.KeyEsc {
			return m, m.switchPage(pageHome)
		}
	}
	return m, nil
}

func (m *model) switchPage(target page) tea.Cmd {
	if m.page == target {
		return nil
	}
	m.page = target
	m.helpVisible = false
	if target == pageSearch {
		m.searchInput.SetValue(m.feed.Filter.Search)
		m.searchInput.CursorEnd()
		return tea.Batch(m.searchInput.Focus(), textinput.Blink)
	}
	m.searchInput.Blur()
	if target == pageHome {
		m.ensureCursorVisible()
	}
	return m.checkSentinel()
}

func (m *model) handleHomeKey(key tea.KeyMsg) tea.Cmd {
	switch key.String() {
	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "pgdown", "ctrl+d":
		m.moveCursor(5)
	case "pgup", "ctrl+u":
		m.moveCursor(-5)
	case "g", "home":
		m.moveCursor(-len(m.feed.Papers))
	case "G", "end":
		m.moveCursor(len(m.feed.Papers))
	case "c":
		return m.cycleCategory()
	case "d":
		filter := m.feed.Filter
		filter.DateRange = filter.DateRange.Next()
		return m.applyFilter(filter)
	case "r":
		m.categoryIdx = 0
		return m.applyFilter(papers.Filter{})
	case "/":
		return m.switchPage(pageSearch)
	case "l":
		// Explicit request for the next page, as if scrolling past the end.
		if req, ok := m.config.Feed.OnViewportSentinelVisible(); ok {
			return m.startFeedJob(req)
		}
		return nil
	case "enter":
		if p, ok := m.selectedPaper(); ok {
			return m.openDetail(p.ID, pageHome)
		}
		return nil
	case "o":
		if p, ok := m.selectedPaper(); ok {
			return m.openURL(m.absURL(p))
		}
		return nil
	default:
		return nil
	}
	return m.checkSentinel()
}

func (m *model) handleSearchKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEsc:
		return m, m.switchPage(pageHome)
	case tea.KeyEnter:
		term := strings.TrimSpace(m.searchInput.Value())
		m.page = pageHome
		m.searchInput.Blur()
		filter := m.feed.Filter
		filter.Search = term
		return m, m.applyFilter(filter)
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(key)
	return m, cmd
}

func (m *model) handleDetailKey(key tea.KeyMsg) tea.Cmd {
	switch key.String() {
	case "esc", "backspace":
		return m.switchPage(m.detailFrom)
	case "o":
		if m.record != nil {
			return m.openURL(m.config.Detail.AbsURL(*m.record))
		}
	case "p":
		if m.pdfURL != "" {
			return m.openURL(m.pdfURL)
		}
	case "g", "home":
		m.viewport.GotoTop()
	case "G", "end":
		m.viewport.GotoBottom()
	case "]":
		m.jumpSection(1)
	case "[":
		m.jumpSection(-1)
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(key)
		return cmd
	}
	return nil
}

func (m *model) cycleCategory() tea.Cmd {
	options := len(m.config.Categories) + 1
	m.categoryIdx = (m.categoryIdx + 1) % options
	filter := m.feed.Filter
	filter.Category = m.currentCategory()
	return m.applyFilter(filter)
}

// currentCategory maps categoryIdx to a category; index 0 is unfiltered.
func (m *model) currentCategory() string {
	if m.categoryIdx <= 0 || m.categoryIdx > len(m.config.Categories) {
		return ""
	}
	return m.config.Categories[m.categoryIdx-1]
}

func (m *model) applyFilter(filter papers.Filter) tea.Cmd {
	req, ok := m.config.Feed.OnFilterChanged(filter)
	m.refreshFeed()
	m.cursor = 0
	m.listOffset = 0
	m.infoMessage = "Showing " + m.feed.Filter.Describe()
	if ok {
		m.sentinelVisible = m.page == pageHome && m.listEndVisible()
		return m.startFeedJob(req)
	}
	if len(m.feed.Papers) == 0 && m.feed.State == feed.StateIdle {
		// An empty idle session starts with the sentinel detached, so the
		// empty list coming into view loads the first page.
		m.sentinelVisible = false
		return m.checkSentinel()
	}
	m.sentinelVisible = m.page == pageHome && m.listEndVisible()
	return nil
}

func (m *model) moveCursor(delta int) {
	n := len(m.feed.Papers)
	if n == 0 {
		m.cursor = 0
		return
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= n {
		m.cursor = n - 1
	}
	m.ensureCursorVisible()
}

func (m *model) selectedPaper() (papers.Paper, bool) {
	if m.cursor < 0 || m.cursor >= len(m.feed.Papers) {
		return papers.Paper{}, false
	}
	return m.feed.Papers[m.cursor], true
}

// checkSentinel reports the end of the list becoming visible. Like an
// intersection observer it only fires on the hidden to visible edge.
func (m *model) checkSentinel() tea.Cmd {
	visible := m.page == pageHome && m.listEndVisible()
	fire := visible && !m.sentinelVisible
	m.sentinelVisible = visible
	if !fire {
		return nil
	}
	req, ok := m.config.Feed.OnViewportSentinelVisible()
	if !ok {
		return nil
	}
	return m.startFeedJob(req)
}

func (m *model) startFeedJob(req feed.Request) tea.Cmd {
	m.refreshFeed()
	job := m.jobs.Start(jobKindFeedPage, feedPageJob(m.config.Feed, req, m.config.RequestTimeout))
	return tea.Batch(job, m.spinner.Tick)
}

func (m *model) applyFeedResult(res feed.Result) tea.Cmd {
	outcome := m.config.Feed.Complete(res)
	m.refreshFeed()
	if outcome != feed.OutcomeAppended {
		return nil
	}
	m.ensureCursorVisible()
	return m.checkSentinel()
}

func (m *model) refreshFeed() {
	m.feed = m.config.Feed.Snapshot()
	if m.cursor >= len(m.feed.Papers) {
		m.cursor = max(len(m.feed.Papers)-1, 0)
	}
}

func (m *model) openDetail(id string, from page) tea.Cmd {
	m.page = pageDetail
	m.detailFrom = from
	m.detailID = id
	m.record = nil
	m.pdfURL = ""
	m.pdfDoc = nil
	m.pdfErr = nil
	m.pdfLoading = false
	m.helpVisible = false
	m.errorMessage = ""
	m.infoMessage = ""
	m.viewport.GotoTop()
	m.markViewportDirty()
	job := m.jobs.Start(jobKindDetail, detailJob(m.config.Detail, id, m.config.RequestTimeout))
	return tea.Batch(job, m.spinner.Tick)
}

func (m *model) applyDetail(msg detailResultMsg) tea.Cmd {
	if msg.id != m.detailID {
		log.Printf("[tui] dropping detail for %s, now showing %s", msg.id, m.detailID)
		return nil
	}
	record := msg.record
	m.record = &record
	m.pdfURL = m.config.Detail.PDFURL(record)
	if record.Fallback {
		m.infoMessage = "Showing placeholder details for " + msg.id
	}
	m.markViewportDirty()
	if m.config.PDF == nil {
		return nil
	}
	m.pdfLoading = true
	return m.jobs.Start(jobKindPDF, pdfJob(m.config.PDF, msg.id, m.pdfURL))
}

func (m *model) applyPDF(msg pdfResultMsg) {
	if msg.id != m.detailID || msg.url != m.pdfURL {
		log.Printf("[tui] dropping pdf %s, now showing %s", msg.url, m.pdfURL)
		return
	}
	m.pdfLoading = false
	m.pdfDoc = msg.doc
	m.pdfErr = msg.err
	m.markViewportDirty()
}

func (m *model) openURL(url string) tea.Cmd {
	if url == "" {
		return nil
	}
	return m.jobs.Start(jobKindBrowser, openURLJob(m.config.OpenURL, url))
}

func (m *model) absURL(p papers.Paper) string {
	if p.URL != "" {
		return p.URL
	}
	return m.config.Links.Abs(papers.ExternalID(p))
}

func (m *model) jumpSection(direction int) {
	m.refreshViewportIfDirty()
	current := m.viewport.YOffset
	var target = -1
	if direction > 0 {
		for _, anchor := range sectionSequence {
			line, ok := m.sectionAnchors[anchor]
			if ok && line > current {
				target = line
				break
			}
		}
	} else {
		for i := len(sectionSequence) - 1; i >= 0; i-- {
			line, ok := m.sectionAnchors[sectionSequence[i]]
			if ok && line < current {
				target = line
				break
			}
		}
	}
	if target >= 0 {
		m.viewport.SetYOffset(target)
	}
}

func (m *model) markViewportDirty() {
	m.viewportDirty = true
}

func (m *model) refreshViewportIfDirty() {
	if !m.viewportDirty {
		return
	}
	view := m.buildDetailContent()
	m.sectionAnchors = view.anchors
	m.viewport.SetContent(view.content)
	m.viewportDirty = false
}
