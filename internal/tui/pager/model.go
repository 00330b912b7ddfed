package pager

import (
	"strconv"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/quillhq/quill/internal/pagination"
)

// PageChangedMsg is the single event the control emits: the user asked
// to view a different page. The page is always within [1, TotalPages]
// and never equal to the page the control was last told is current.
type PageChangedMsg struct {
	Page int
}

// jumpInputWidth bounds the jump field; page numbers don't need more.
const jumpInputWidth = 8

// Option configures a Model.
type Option func(*Model)

// WithSiblingCount sets how many page numbers stay visible on each
// side of the current page.
func WithSiblingCount(n int) Option {
	return func(m *Model) {
		if n >= 0 {
			m.siblingCount = n
		}
	}
}

// ShowOnlyWhenMultiple makes View render nothing when there is a
// single page. Purely a display policy; the model still tracks state.
func ShowOnlyWhenMultiple() Option {
	return func(m *Model) { m.showOnlyWhenMultiple = true }
}

// WithJumpInput enables the direct jump-to-page input (bound to "g").
func WithJumpInput() Option {
	return func(m *Model) { m.jumpEnabled = true }
}

// Model is the Bubble Tea model for the pagination strip.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View interface methods.
type Model struct {
	// Inputs owned by the parent.
	totalCount   int
	pageSize     int
	currentPage  int
	siblingCount int

	// tokens is the computed strip, recomputed whenever an input changes.
	tokens []pagination.Token

	// focus is the index (into tokens) of the focused page token.
	focus int

	// Jump-to-page state: the only mutable state this control owns.
	jumpEnabled bool
	jumping     bool
	jumpInput   textinput.Model

	showOnlyWhenMultiple bool
}

// New creates a pagination strip for the given listing shape. The
// current page starts at 1.
func New(totalCount, pageSize int, opts ...Option) Model {
	input := textinput.New()
	input.Placeholder = "page"
	input.CharLimit = jumpInputWidth
	input.Width = jumpInputWidth

	m := Model{
		totalCount:   totalCount,
		pageSize:     pageSize,
		currentPage:  1,
		siblingCount: pagination.DefaultSiblingCount,
		jumpInput:    input,
	}
	for _, opt := range opts {
		opt(&m)
	}

	m.recompute()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles key input. All other message types pass through
// untouched; the control performs no I/O of its own.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.jumping {
		return m.updateJump(keyMsg)
	}
	return m.updateStrip(keyMsg)
}

// updateStrip handles navigation keys while the strip has focus.
func (m Model) updateStrip(keyMsg tea.KeyMsg) (Model, tea.Cmd) {
	switch keyMsg.String() {
	case "left", "h":
		m.moveFocus(-1)
		return m, nil

	case "right", "l":
		m.moveFocus(1)
		return m, nil

	case "pgup", "p":
		return m, m.navigate(m.currentPage - 1)

	case "pgdown", "n":
		return m, m.navigate(m.currentPage + 1)

	case "enter":
		if m.focus >= 0 && m.focus < len(m.tokens) {
			tok := m.tokens[m.focus]
			if !tok.IsEllipsis() {
				return m, m.navigate(tok.Page)
			}
		}
		return m, nil

	case "g":
		if m.jumpEnabled {
			m.jumping = true
			m.jumpInput.Focus()
			return m, textinput.Blink
		}
		return m, nil

	default:
		return m, nil
	}
}

// updateJump handles keys while the jump-to-page input is active.
func (m Model) updateJump(keyMsg tea.KeyMsg) (Model, tea.Cmd) {
	switch keyMsg.String() {
	case "enter":
		page, err := strconv.Atoi(m.jumpInput.Value())
		if err != nil || page < 1 || page > m.TotalPages() {
			// Invalid target: emit nothing, leave the buffer untouched.
			return m, nil
		}
		m.jumping = false
		m.jumpInput.Blur()
		m.jumpInput.SetValue("")
		return m, m.navigate(page)

	case "esc":
		m.jumping = false
		m.jumpInput.Blur()
		return m, nil

	default:
		var cmd tea.Cmd
		m.jumpInput, cmd = m.jumpInput.Update(keyMsg)
		return m, cmd
	}
}

// navigate returns a command emitting PageChangedMsg for page, or nil
// when the request is out of range or already current.
func (m Model) navigate(page int) tea.Cmd {
	if page < 1 || page > m.TotalPages() || page == m.currentPage {
		return nil
	}
	return func() tea.Msg {
		return PageChangedMsg{Page: page}
	}
}

// moveFocus shifts the strip focus by delta, skipping ellipsis tokens,
// which are inert. Focus stops at the strip edges.
func (m *Model) moveFocus(delta int) {
	i := m.focus + delta
	for i >= 0 && i < len(m.tokens) && m.tokens[i].IsEllipsis() {
		i += delta
	}
	if i >= 0 && i < len(m.tokens) {
		m.focus = i
	}
}

// SetPage tells the control which page is now current. Called by the
// parent after a page change has actually taken effect.
func (m *Model) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	if total := m.TotalPages(); page > total {
		page = total
	}
	m.currentPage = page
	m.recompute()
}

// SetTotalCount updates the item total (e.g. after a new search) and
// re-clamps the current page against the new page count.
func (m *Model) SetTotalCount(totalCount int) {
	if totalCount < 0 {
		totalCount = 0
	}
	m.totalCount = totalCount
	if total := m.TotalPages(); m.currentPage > total {
		m.currentPage = total
	}
	m.recompute()
}

// recompute rebuilds the token strip and re-homes focus on the current
// page. The strip carries no identity across recomputations.
func (m *Model) recompute() {
	m.tokens = pagination.ComputeRange(m.totalCount, m.pageSize, m.currentPage, m.siblingCount)
	m.focus = 0
	for i, tok := range m.tokens {
		if !tok.IsEllipsis() && tok.Page == m.currentPage {
			m.focus = i
			break
		}
	}
}

// CurrentPage returns the page the control believes is current.
func (m Model) CurrentPage() int {
	return m.currentPage
}

// TotalPages returns the page count for the current totals.
func (m Model) TotalPages() int {
	return pagination.TotalPages(m.totalCount, m.pageSize)
}

// TotalCount returns the item total.
func (m Model) TotalCount() int {
	return m.totalCount
}

// Tokens returns the computed strip, front-to-back in visual order.
func (m Model) Tokens() []pagination.Token {
	return m.tokens
}

// Jumping reports whether the jump-to-page input is active.
func (m Model) Jumping() bool {
	return m.jumping
}

// JumpBuffer returns the jump input's current contents.
func (m Model) JumpBuffer() string {
	return m.jumpInput.Value()
}
