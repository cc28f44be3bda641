package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/preston-bernstein/league-catalog/internal/app/leagues"
	domainleagues "github.com/preston-bernstein/league-catalog/internal/domain/leagues"
	"github.com/preston-bernstein/league-catalog/internal/querycache"
)

// chrome is the number of lines View spends outside the league list.
const chrome = 8

type styles struct {
	title    lipgloss.Style
	selected lipgloss.Style
	muted    lipgloss.Style
	category lipgloss.Style
	active   lipgloss.Style
	badge    lipgloss.Style
	err      lipgloss.Style
	help     lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")),
		selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")),
		muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
		category: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		active: lipgloss.NewStyle().
			Bold(true).
			Underline(true).
			Foreground(lipgloss.Color("62")),
		badge: lipgloss.NewStyle().
			Foreground(lipgloss.Color("36")).
			PaddingLeft(4),
		err: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),
		help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
	}
}

// View renders the TUI
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.title.Render("League Catalog"))
	b.WriteString("\n")
	b.WriteString(m.renderSearch())
	b.WriteString("\n")
	b.WriteString(m.renderCategories())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n\n")
	b.WriteString(m.renderList())
	b.WriteString("\n")
	b.WriteString(m.styles.help.Render("/ search  tab sport  ↑/↓ move  enter badge  c clear  r refresh  q quit"))
	return b.String()
}

func (m *Model) renderSearch() string {
	if m.mode == ModeSearch {
		return m.search.View()
	}
	if m.state.Search == "" {
		return m.styles.muted.Render("press / to search")
	}
	return "search: " + m.state.Search
}

func (m *Model) renderCategories() string {
	parts := make([]string, 0, len(m.page.Categories)+1)
	parts = append(parts, m.renderCategory("All", m.state.Category == ""))
	for _, c := range m.page.Categories {
		parts = append(parts, m.renderCategory(c, c == m.state.Category))
	}
	return strings.Join(parts, m.styles.muted.Render(" · "))
}

func (m *Model) renderCategory(name string, active bool) string {
	if active {
		return m.styles.active.Render(name)
	}
	return m.styles.category.Render(name)
}

func (m *Model) renderStatus() string {
	switch m.page.Status {
	case querycache.StatusIdle, querycache.StatusLoading:
		return m.spinner.View() + " Loading leagues..."
	case querycache.StatusError:
		return m.styles.err.Render(fmt.Sprintf("Could not load leagues: %v (press r to retry)", m.page.Err))
	}

	status := fmt.Sprintf("Showing %d of %d leagues", m.page.Count, m.page.Total)
	if m.page.IsFetching {
		status += " " + m.spinner.View()
	}
	if m.page.Err != nil {
		status += m.styles.err.Render(" (refresh failed, showing cached data)")
	}
	return status
}

func (m *Model) renderList() string {
	if len(m.page.Leagues) == 0 {
		if m.page.Status != querycache.StatusSuccess {
			return ""
		}
		if m.page.State.IsZero() {
			return m.styles.muted.Render("No leagues available.") + "\n"
		}
		return m.styles.muted.Render("No leagues match your filters (press c to clear).") + "\n"
	}

	var b strings.Builder
	end := len(m.page.Leagues)
	if rows := m.visibleRows(); rows > 0 && m.offset+rows < end {
		end = m.offset + rows
	}
	for i := m.offset; i < end; i++ {
		m.renderLeague(&b, m.page.Leagues[i], i == m.cursor)
	}
	return b.String()
}

func (m *Model) renderLeague(b *strings.Builder, l domainleagues.League, selected bool) {
	cursor := " "
	name := l.DisplayName
	if selected {
		cursor = ">"
		name = m.styles.selected.Render(name)
	}
	line := cursor + " " + name + " " + m.styles.category.Render("("+l.Category+")")
	if l.AlternateName != "" {
		line += " " + m.styles.muted.Render(l.AlternateName)
	}
	b.WriteString(line + "\n")

	if state, ok := m.badges[l.ID]; ok {
		b.WriteString(m.styles.badge.Render(m.renderBadge(state)) + "\n")
	}
}

func (m *Model) renderBadge(state leagues.BadgeState) string {
	switch {
	case state.Status == querycache.StatusError:
		return m.styles.err.Render("badge unavailable: " + state.Err.Error())
	case !state.HasData():
		return m.spinner.View() + " loading badge..."
	case !state.Found:
		return "no badge"
	case !state.Badge.HasImage():
		return "season " + state.Badge.Season + ": no image"
	default:
		return "season " + state.Badge.Season + ": " + state.Badge.ImageURL
	}
}

// visibleRows is the number of league lines that fit; 0 means unbounded.
func (m *Model) visibleRows() int {
	if m.height <= 0 {
		return 0
	}
	rows := m.height - chrome - len(m.badges)
	if rows < 1 {
		rows = 1
	}
	return rows
}
