package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/csheth/arxivsocial/internal/papers"
)

type pageLayout struct {
	windowWidth    int
	windowHeight   int
	viewportWidth  int
	viewportHeight int
	listHeight     int
}

func newPageLayout() pageLayout {
	return pageLayout{
		viewportWidth:  80,
		viewportHeight: 20,
		listHeight:     18,
	}
}

func (l *pageLayout) Update(width, height int) {
	l.windowWidth = width
	l.windowHeight = height
	innerWidth := width - viewportHorizontalPadding
	if innerWidth < minViewportWidth {
		innerWidth = minViewportWidth
	}
	l.viewportWidth = innerWidth
	// navbar, heading, filter bar, sentinel footer, status bar and the gaps
	// joinNonEmpty puts between them.
	const homeChrome = 12
	const detailChrome = 8
	l.listHeight = height - homeChrome
	if l.listHeight < 6 {
		l.listHeight = 6
	}
	l.viewportHeight = height - detailChrome
	if l.viewportHeight < 6 {
		l.viewportHeight = 6
	}
}

func (m *model) wrapWidth(indent int) int {
	width := m.layout.viewportWidth - indent
	if width < 20 {
		width = 20
	}
	return width
}

// renderCard draws one feed entry: title, authors, excerpt, then category
// and publication date.
func renderCard(p papers.Paper, width int, selected bool) string {
	inner := width - 4
	if inner < 16 {
		inner = 16
	}
	title := strings.Join(strings.Fields(p.Title), " ")
	authors := strings.TrimSpace(p.Authors)
	if authors == "" {
		authors = papers.PlaceholderAuthors
	}
	excerpt := strings.Join(strings.Fields(p.Excerpt()), " ")
	excerpt = truncate.StringWithTail(excerpt, cardExcerptLimit, "…")

	meta := []string{}
	if p.Category != "" {
		meta = append(meta, p.Category)
	}
	if label := p.PublishedLabel(); label != "" {
		meta = append(meta, label)
	}

	lines := []string{
		cardTitleStyle.Render(wordwrap.String(title, inner)),
		helperStyle.Render(wordwrap.String("By "+authors, inner)),
	}
	if excerpt != "" {
		lines = append(lines, wordwrap.String(excerpt, inner))
	}
	if len(meta) > 0 {
		lines = append(lines, subjectStyle.Render(strings.Join(meta, " • ")))
	}
	style := cardStyle
	if selected {
		style = cardSelectedStyle
	}
	return style.Width(width - 2).Render(strings.Join(lines, "\n"))
}

// feedWindow returns the half-open range of cards that fit in the list area
// starting at listOffset. At least one card is always shown.
func (m *model) feedWindow() (int, int) {
	n := len(m.feed.Papers)
	start := m.listOffset
	if start > n {
		start = n
	}
	used := 0
	end := start
	for end < n {
		h := lipgloss.Height(renderCard(m.feed.Papers[end], m.layout.viewportWidth, end == m.cursor))
		if end > start {
			h++
		}
		if end > start && used+h > m.layout.listHeight {
			break
		}
		used += h
		end++
	}
	return start, end
}

func (m *model) ensureCursorVisible() {
	if m.cursor < m.listOffset {
		m.listOffset = m.cursor
	}
	for {
		_, end := m.feedWindow()
		if m.cursor < end || m.listOffset >= m.cursor {
			return
		}
		m.listOffset++
	}
}

// listEndVisible is the sentinel test: the list is empty or its last card is
// on screen.
func (m *model) listEndVisible() bool {
	n := len(m.feed.Papers)
	if n == 0 {
		return true
	}
	_, end := m.feedWindow()
	return end >= n
}

type displayView struct {
	content string
	anchors map[string]int
}

type contentBuilder struct {
	builder strings.Builder
	lines   int
}

func (cb *contentBuilder) WriteString(s string) {
	cb.builder.WriteString(s)
	cb.lines += strings.Count(s, "\n")
}

func (cb *contentBuilder) WriteRune(r rune) {
	cb.builder.WriteRune(r)
	if r == '\n' {
		cb.lines++
	}
}

func (cb *contentBuilder) String() string {
	return cb.builder.String()
}

func (cb *contentBuilder) Line() int {
	return cb.lines
}

func (m *model) buildDetailContent() displayView {
	cb := &contentBuilder{}
	anchors := map[string]int{}
	wrap := m.wrapWidth(2)

	if m.record == nil {
		cb.WriteString(helperStyle.Render(detailLoadingText))
		cb.WriteRune('\n')
		return displayView{content: cb.String(), anchors: anchors}
	}

	p := m.record.Paper
	section := func(anchor, title string) {
		cb.WriteRune('\n')
		anchors[anchor] = cb.Line()
		cb.WriteString(sectionHeaderStyle.Render(title))
		cb.WriteRune('\n')
	}

	cb.WriteString(titleStyle.Render(wordwrap.String(strings.Join(strings.Fields(p.Title), " "), wrap)))
	cb.WriteRune('\n')
	cb.WriteString(helperStyle.Render(wordwrap.String("By "+orPlaceholder(p.Authors, papers.PlaceholderAuthors), wrap)))
	cb.WriteRune('\n')
	meta := fmt.Sprintf("%s • %s • arXiv:%s",
		orPlaceholder(p.Category, papers.PlaceholderCategory),
		orPlaceholder(p.PublishedLabel(), papers.PlaceholderPublished),
		papers.ExternalID(p))
	cb.WriteString(subjectStyle.Render(meta))
	cb.WriteRune('\n')
	cb.WriteString(helperStyle.Render("Abstract page: " + m.config.Detail.AbsURL(*m.record)))
	cb.WriteRune('\n')
	cb.WriteString(helperStyle.Render("PDF: " + m.pdfURL))
	cb.WriteRune('\n')

	section(anchorSummary, "AI Summary")
	cb.WriteString(wordwrap.String(orPlaceholder(p.Summary, papers.PlaceholderSummary), wrap))
	cb.WriteRune('\n')

	section(anchorAbstract, "Abstract")
	cb.WriteString(wordwrap.String(orPlaceholder(p.Abstract, papers.PlaceholderAbstract), wrap))
	cb.WriteRune('\n')

	section(anchorPDF, "Embedded PDF")
	switch {
	case m.config.PDF == nil:
		cb.WriteString(helperStyle.Render(pdfDisabledText))
	case m.pdfLoading:
		cb.WriteString(helperStyle.Render(pdfLoadingText))
	case m.pdfErr != nil || m.pdfDoc == nil || m.pdfDoc.Text == "":
		cb.WriteString(helperStyle.Render(pdfPlaceholder))
	default:
		cb.WriteString(helperStyle.Render(fmt.Sprintf("%d page(s) from %s", m.pdfDoc.Pages, m.pdfDoc.URL)))
		cb.WriteRune('\n')
		cb.WriteString(wordwrap.String(m.pdfDoc.Text, wrap))
	}
	cb.WriteRune('\n')

	return displayView{content: cb.String(), anchors: anchors}
}

func orPlaceholder(value, placeholder string) string {
	if strings.TrimSpace(value) == "" {
		return placeholder
	}
	return value
}
