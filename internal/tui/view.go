package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m *model) View() string {
	var body string
	switch m.page {
	case pageSearch:
		body = m.viewSearch()
	case pageDetail:
		body = m.viewDetail()
	case pageProfile:
		body = m.viewProfile()
	default:
		body = m.viewHome()
	}
	parts := []string{m.navbarView(), body}
	if m.errorMessage != "" {
		parts = append(parts, errorStyle.Render(m.errorMessage))
	}
	if m.helpVisible {
		parts = append(parts, m.keyLegendView())
	}
	parts = append(parts, m.statusBarView())
	return joinNonEmpty(parts)
}

func (m *model) navbarView() string {
	items := []string{brandStyle.Render(appTitle)}
	for i, p := range []page{pageHome, pageSearch, pageProfile} {
		label := fmt.Sprintf("%d %s", i+1, p)
		if m.page == p || (p == pageHome && m.page == pageDetail && m.detailFrom == pageHome) {
			items = append(items, navActiveStyle.Render(label))
			continue
		}
		items = append(items, navItemStyle.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, items...)
}

func (m *model) viewHome() string {
	parts := []string{
		sectionHeaderStyle.Render(feedHeading),
		m.filterBarView(),
	}
	if len(m.feed.Papers) > 0 {
		start, end := m.feedWindow()
		cards := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			cards = append(cards, renderCard(m.feed.Papers[i], m.layout.viewportWidth, i == m.cursor))
		}
		parts = append(parts, strings.Join(cards, "\n"))
	}
	parts = append(parts, m.sentinelView())
	return joinNonEmpty(parts)
}

func (m *model) filterBarView() string {
	f := m.feed.Filter
	category := f.Category
	if category == "" {
		category = "All categories"
	}
	chips := []string{
		filterStyle.Render("c " + category),
		filterStyle.Render("d " + f.DateRange.Label()),
	}
	if f.Search != "" {
		chips = append(chips, filterStyle.Render(fmt.Sprintf("/ %q", f.Search)))
	}
	return strings.Join(chips, " ")
}

// sentinelView is the footer under the last card.
func (m *model) sentinelView() string {
	switch {
	case m.feed.Loading():
		return helperStyle.Render(m.spinner.View() + " " + loadingMoreText)
	case m.feed.Exhausted():
		return helperStyle.Render(noMorePapersText)
	default:
		return ""
	}
}

func (m *model) viewSearch() string {
	var b strings.Builder
	b.WriteString(sectionHeaderStyle.Render("Search Papers"))
	b.WriteRune('\n')
	b.WriteString(m.searchInput.View())
	b.WriteRune('\n')
	b.WriteString(helperStyle.Render("Enter to search the feed, empty to clear, Esc to cancel."))
	return b.String()
}

func (m *model) viewDetail() string {
	m.refreshViewportIfDirty()
	parts := []string{m.viewport.View()}
	if m.record == nil {
		parts = append(parts, helperStyle.Render(m.spinner.View()+" "+detailLoadingText))
	}
	if m.infoMessage != "" && m.record != nil {
		parts = append(parts, helperStyle.Render(m.infoMessage))
	}
	return joinNonEmpty(parts)
}

func (m *model) viewProfile() string {
	body := joinNonEmpty([]string{
		renderLogo(),
		taglineStyle.Render("Discover, read and share arXiv papers."),
		profileBoxStyle.Render(profileStubText),
	})
	return body
}

func (m *model) statusBarView() string {
	stats := []string{m.page.String()}
	if m.page == pageHome || m.page == pageSearch {
		stats = append(stats,
			fmt.Sprintf("%d papers", len(m.feed.Papers)),
			fmt.Sprintf("next page %d", m.feed.Page),
			m.feed.State.String(),
		)
	}
	if m.page == pageDetail {
		stats = append(stats, fmt.Sprintf("%3.f%%", m.viewport.ScrollPercent()*100))
	}
	stats = append(stats, m.jobs.Badges()...)
	stats = append(stats, "? keys")
	return statusBarStyle.Render(strings.Join(stats, "  •  "))
}

type keyHint struct {
	Key         string
	Description string
}

func (m *model) keyHints() []keyHint {
	common := []keyHint{
		{"1/2/3", "Home, Search, Profile"},
		{"?", "Toggle keys"},
		{"q", "Quit"},
	}
	switch m.page {
	case pageDetail:
		return append([]keyHint{
			{"↑/↓", "Scroll"},
			{"[/]", "Jump sections"},
			{"g/G", "Top or bottom"},
			{"o", "Open abstract"},
			{"p", "Open PDF"},
			{"esc", "Back"},
		}, common...)
	case pageHome:
		return append([]keyHint{
			{"j/k", "Move"},
			{"enter", "Open paper"},
			{"o", "Open in browser"},
			{"c", "Next category"},
			{"d", "Next date range"},
			{"/", "Search"},
			{"l", "Load more"},
			{"r", "Reset filters"},
		}, common...)
	default:
		return common
	}
}

func (m *model) keyLegendView() string {
	hints := m.keyHints()
	rows := []string{sectionHeaderStyle.Render("Keys")}
	const columns = 3
	for i := 0; i < len(hints); i += columns {
		end := i + columns
		if end > len(hints) {
			end = len(hints)
		}
		var cells []string
		for _, hint := range hints[i:end] {
			key := keyStyle.Render(hint.Key)
			desc := keyDescStyle.Render(" " + hint.Description + "  ")
			cells = append(cells, lipgloss.JoinHorizontal(lipgloss.Top, key, desc))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return legendBoxStyle.Render(strings.Join(rows, "\n"))
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n\n")
}

func renderLogo() string {
	if len(logoArtLines) == 0 {
		return ""
	}
	width := 0
	lineRunes := make([][]rune, len(logoArtLines))
	for i, line := range logoArtLines {
		runes := []rune(line)
		lineRunes[i] = runes
		if len(runes) > width {
			width = len(runes)
		}
	}
	width++
	height := len(logoArtLines) + 1

	type cell struct {
		r     rune
		style lipgloss.Style
	}

	grid := make([][]cell, height)
	for i := range grid {
		grid[i] = make([]cell, width)
	}

	// Shadow first, offset one cell down and right, then the face on top.
	for y, runes := range lineRunes {
		for x, r := range runes {
			if r != ' ' && y+1 < height && x+1 < width {
				grid[y+1][x+1] = cell{r: r, style: logoShadowStyle}
			}
		}
	}
	for y, runes := range lineRunes {
		for x, r := range runes {
			if r != ' ' {
				grid[y][x] = cell{r: r, style: logoFaceStyle}
			}
		}
	}

	lines := make([]string, height)
	for y, row := range grid {
		var b strings.Builder
		for _, c := range row {
			if c.r == 0 {
				b.WriteRune(' ')
				continue
			}
			b.WriteString(c.style.Render(string(c.r)))
		}
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}
