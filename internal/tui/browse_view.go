package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Column layout.
const (
	titleColWidth    = 46
	authorColWidth   = 16
	categoryColWidth = 14
	dateColWidth     = 10
	tableChromeRows  = 8
	minTableRows     = 3
	truncateSuffix   = "..."
)

// View styles.
var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	statusStyle = lipgloss.NewStyle().Faint(true).Padding(0, 1)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Padding(1, 1)
	helpStyle   = lipgloss.NewStyle().Faint(true).Padding(0, 1)
)

// totalsPrinter formats counts with thousands separators.
var totalsPrinter = message.NewPrinter(language.English)

// View renders the browse screen (Bubble Tea interface).
func (m BrowseModel) View() string {
	switch m.state {
	case ViewStateLoading:
		return headerStyle.Render("quill") + "\n\n  " + m.loading.View() + " loading posts...\n"
	case ViewStateError:
		return errorStyle.Render(fmt.Sprintf("error: %v", m.err)) + "\n" + helpStyle.Render("q quit")
	case ViewStateDetail:
		return m.detailView()
	case ViewStateQuitting:
		return ""
	case ViewStateList:
		return m.listView()
	default:
		return ""
	}
}

// listView renders the table, page strip, and status line.
func (m BrowseModel) listView() string {
	var b strings.Builder

	title := "quill"
	if m.query != "" {
		title += fmt.Sprintf(" — results for %q", m.query)
	}
	if cat := m.activeCategory(); cat != nil {
		title += fmt.Sprintf(" — category %s", cat.Name)
	}
	b.WriteString(headerStyle.Render(title))
	b.WriteString("\n")

	if m.showSearch {
		b.WriteString(statusStyle.Render("search: "))
		b.WriteString(m.searchInput.View())
		b.WriteString("\n")
	}

	b.WriteString(m.table.View())
	b.WriteString("\n")

	if strip := m.pageStrip.View(); strip != "" {
		b.WriteString(strip)
		b.WriteString("\n")
	}

	b.WriteString(statusStyle.Render(m.statusLine()))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab focus · / search · s sort · c category · g go to page · enter open · q quit"))
	return b.String()
}

// statusLine summarizes the listing position.
func (m BrowseModel) statusLine() string {
	return totalsPrinter.Sprintf("%d posts · page %d of %d",
		m.totalCount, m.pageStrip.CurrentPage(), m.pageStrip.TotalPages())
}

// detailView renders a single post.
func (m BrowseModel) detailView() string {
	if m.detailPost == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(m.detailPost.Title))
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(fmt.Sprintf("%s · %s · %s",
		m.detailPost.Author, m.detailPost.Category,
		m.detailPost.PublishedAt.Format("2006-01-02"))))
	b.WriteString("\n\n")
	b.WriteString(m.detailRendered)
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("esc back · q quit"))
	return b.String()
}

// buildTable creates the post table for the current posts and size.
func (m *BrowseModel) buildTable() table.Model {
	columns := []table.Column{
		{Title: "Title", Width: titleColWidth},
		{Title: "Author", Width: authorColWidth},
		{Title: "Category", Width: categoryColWidth},
		{Title: "Published", Width: dateColWidth},
	}

	rows := make([]table.Row, len(m.posts))
	for i, post := range m.posts {
		rows[i] = table.Row{
			truncate(post.Title, titleColWidth),
			truncate(post.Author, authorColWidth),
			truncate(post.Category, categoryColWidth),
			post.PublishedAt.Format("2006-01-02"),
		}
	}

	height := m.height - tableChromeRows
	if height < minTableRows {
		height = minTableRows
	}
	if len(rows) > 0 && height > len(rows) {
		height = len(rows)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(height),
		table.WithFocused(true),
	)
	return t
}

// truncate shortens s to fit a column, measuring display cells so
// wide and multi-byte runes are never split.
func truncate(s string, width int) string {
	return runewidth.Truncate(s, width, truncateSuffix)
}

// renderMarkdown renders a post body for terminal display.
func renderMarkdown(body string, width int) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to build markdown renderer: %w", err)
	}
	return renderer.Render(body)
}
