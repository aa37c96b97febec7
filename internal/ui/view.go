package ui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/movienite/nite/internal/models"
	"github.com/movienite/nite/internal/pipeline"
)

const gridColumns = 3

func (m *Model) renderBrowse() string {
	var b strings.Builder

	b.WriteString(m.styles.title.Render("MovieNite"))
	b.WriteString("\n")
	b.WriteString(m.renderAuthLine())
	b.WriteString("\n")
	b.WriteString(m.renderFilterLine())
	b.WriteString("\n\n")

	b.WriteString(m.renderSection("Streaming", streamingSection, m.lists.Streaming, pipeline.Page{}))
	if !m.hideWatched {
		b.WriteString(m.renderSection("Watched", watchedSection, m.lists.Watched.Movies, m.lists.Watched))
	}
	if !m.hideUpcoming {
		b.WriteString(m.renderSection("Upcoming", upcomingSection, m.lists.Upcoming.Movies, m.lists.Upcoming))
	}

	if len(m.lists.Streaming)+len(m.lists.Watched.Movies)+len(m.lists.Upcoming.Movies) == 0 {
		b.WriteString(m.styles.dim.Render("No movies match the current filters"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.errText != "" {
		b.WriteString(m.styles.err.Render("Error: " + m.errText))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(m.styles.ok.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) renderAuthLine() string {
	if m.user == nil {
		return m.styles.dim.Render("Not signed in — press L to log in")
	}
	line := fmt.Sprintf("Signed in as %s", m.user.Username)
	if m.user.IsAdmin {
		line += " (admin, 1/2/3 moves the selected movie)"
	}
	return m.styles.dim.Render(line)
}

func (m *Model) renderFilterLine() string {
	parts := []string{
		fmt.Sprintf("sort: %s", m.criteria.Sort),
	}
	if m.criteria.Reverse {
		parts = append(parts, "desc")
	} else {
		parts = append(parts, "asc")
	}
	if m.criteria.Content != pipeline.ContentAll {
		parts = append(parts, fmt.Sprintf("content: %s", m.criteria.Content))
	}
	if m.criteria.Search != "" {
		parts = append(parts, fmt.Sprintf("search: %q", m.criteria.Search))
	}
	if n := len(m.criteria.User.Users); n > 0 {
		if m.criteria.User.Mode == pipeline.ModeBlacklist {
			parts = append(parts, fmt.Sprintf("users: %d hidden", n))
		} else {
			parts = append(parts, fmt.Sprintf("users: %d shown", n))
		}
	}
	var hidden []string
	if m.hideWatched {
		hidden = append(hidden, "watched")
	}
	if m.hideUpcoming {
		hidden = append(hidden, "upcoming")
	}
	if len(hidden) > 0 {
		parts = append(parts, "hidden: "+strings.Join(hidden, ", "))
	}
	if m.criteria.PageSize > 0 {
		parts = append(parts, fmt.Sprintf("page size: %d", m.criteria.PageSize))
	}
	parts = append(parts, fmt.Sprintf("view: %s", m.viewType))

	return m.styles.dim.Render(strings.Join(parts, " · "))
}

func (m *Model) renderSection(title string, sec section, movies []models.Movie, page pipeline.Page) string {
	var header string
	if page.Total > 0 {
		header = fmt.Sprintf("%s — page %d/%d", title, page.Index+1, page.Total)
	} else {
		header = fmt.Sprintf("%s (%d)", title, len(movies))
	}

	style := m.styles.section
	if sec == m.focus {
		style = m.styles.focused
		header = "▸ " + header
	} else {
		header = "  " + header
	}

	var b strings.Builder
	b.WriteString(style.Render(header))
	b.WriteString("\n")

	if len(movies) == 0 {
		b.WriteString(m.styles.dim.Render("    (empty)"))
		b.WriteString("\n\n")
		return b.String()
	}

	if m.viewType == "grid" {
		b.WriteString(m.renderGrid(sec, movies))
	} else {
		b.WriteString(m.renderList(sec, movies))
	}
	b.WriteString("\n")
	return b.String()
}

func (m *Model) renderList(sec section, movies []models.Movie) string {
	var b strings.Builder
	for i, movie := range movies {
		line := movie.Title
		if user := movie.Username(); user != "" {
			line += m.styles.dim.Render(fmt.Sprintf("  %s", user))
		}
		if rating := movie.RatingValue(); rating > 0 {
			line += m.styles.dim.Render(fmt.Sprintf("  %.1f/10", rating))
		}
		if movie.Boobies {
			line += m.styles.warn.Render("  [flagged]")
		}

		if sec == m.focus && i == m.cursor {
			b.WriteString(m.styles.cursor.Render("  ▸ "))
		} else {
			b.WriteString("    ")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderGrid(sec section, movies []models.Movie) string {
	var b strings.Builder
	for i := 0; i < len(movies); i += gridColumns {
		b.WriteString("    ")
		for j := i; j < i+gridColumns && j < len(movies); j++ {
			cell := fmt.Sprintf("%-28.28s", movies[j].Title)
			if sec == m.focus && j == m.cursor {
				cell = m.styles.cursor.Render("▸" + cell)
			} else {
				cell = " " + cell
			}
			b.WriteString(cell)
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderInput(title string) string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.back}
	return fmt.Sprintf("%s\n\n%s\n\n%s",
		m.styles.title.Render(title),
		m.input.View(),
		m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderUserFilter() string {
	roster := pipeline.Usernames(m.collection)

	var b strings.Builder
	b.WriteString(m.styles.title.Render("Filter by user"))
	b.WriteString("\n")

	mode := "whitelist — only selected users are shown"
	if m.criteria.User.Mode == pipeline.ModeBlacklist {
		mode = "blacklist — selected users are hidden"
	}
	b.WriteString(m.styles.dim.Render(mode))
	b.WriteString("\n\n")

	if len(roster) == 0 {
		b.WriteString(m.styles.dim.Render("No attributed movies yet"))
		b.WriteString("\n")
	}

	for i, name := range roster {
		mark := "[ ]"
		if slices.Contains(m.criteria.User.Users, name) {
			mark = "[x]"
		}
		if i == m.userCursor {
			b.WriteString(m.styles.cursor.Render("▸ "))
		} else {
			b.WriteString("  ")
		}
		b.WriteString(fmt.Sprintf("%s %s\n", mark, name))
	}

	b.WriteString("\n")
	b.WriteString(m.styles.help.Render("enter toggle · m mode · c clear · esc back"))
	return b.String()
}

func (m *Model) renderConfirm() string {
	if m.pending == nil {
		return ""
	}

	title := m.styles.title.Render(fmt.Sprintf("Discard '%s'?", m.pending.Title))
	info := "\nThis removes the movie from the shared watchlist for everyone.\n"

	helpKeys := []key.Binding{m.keys.yes, m.keys.no}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}
