package pager

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Strip styles.
var (
	currentStyle  = lipgloss.NewStyle().Bold(true).Reverse(true).Padding(0, 1)
	focusedStyle  = lipgloss.NewStyle().Underline(true).Padding(0, 1)
	pageStyle     = lipgloss.NewStyle().Padding(0, 1)
	ellipsisStyle = lipgloss.NewStyle().Faint(true).Padding(0, 1)
	disabledStyle = lipgloss.NewStyle().Faint(true).Padding(0, 1)
	jumpStyle     = lipgloss.NewStyle().Faint(true)
)

// Arrow labels for the previous/next controls.
const (
	prevLabel = "‹ prev"
	nextLabel = "next ›"
)

// View renders the strip: prev control, page tokens, next control,
// and the jump input when active.
func (m Model) View() string {
	if m.showOnlyWhenMultiple && m.TotalPages() <= 1 {
		return ""
	}

	var b strings.Builder

	if m.currentPage > 1 {
		b.WriteString(pageStyle.Render(prevLabel))
	} else {
		b.WriteString(disabledStyle.Render(prevLabel))
	}

	for i, tok := range m.tokens {
		switch {
		case tok.IsEllipsis():
			b.WriteString(ellipsisStyle.Render(tok.String()))
		case tok.Page == m.currentPage:
			b.WriteString(currentStyle.Render(tok.String()))
		case i == m.focus && !m.jumping:
			b.WriteString(focusedStyle.Render(tok.String()))
		default:
			b.WriteString(pageStyle.Render(tok.String()))
		}
	}

	if m.currentPage < m.TotalPages() {
		b.WriteString(pageStyle.Render(nextLabel))
	} else {
		b.WriteString(disabledStyle.Render(nextLabel))
	}

	if m.jumping {
		b.WriteString("\n")
		b.WriteString(jumpStyle.Render("go to page: "))
		b.WriteString(m.jumpInput.View())
	}

	return b.String()
}
