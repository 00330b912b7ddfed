package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/quillhq/quill/internal/api"
	"github.com/quillhq/quill/internal/pagination"
	"github.com/quillhq/quill/internal/tui/pager"
)

// ViewState is the browse view's state machine.
type ViewState int

const (
	// ViewStateLoading indicates the first page is still being fetched.
	ViewStateLoading ViewState = iota
	// ViewStateList shows the paged post table.
	ViewStateList
	// ViewStateDetail shows a single rendered post.
	ViewStateDetail
	// ViewStateError is a terminal failure state.
	ViewStateError
	// ViewStateQuitting indicates the program is exiting.
	ViewStateQuitting
)

// FocusArea tracks which part of the list screen receives key input.
type FocusArea int

const (
	// FocusTable routes keys to the post table.
	FocusTable FocusArea = iota
	// FocusPager routes keys to the page strip.
	FocusPager
)

// Default display dimensions before the first WindowSizeMsg arrives.
const (
	defaultWidth  = 100
	defaultHeight = 30
)

// sortCycle is the order the "s" key walks through.
var sortCycle = []string{
	pagination.DefaultSortField + ":" + pagination.SortOrderDesc,
	pagination.DefaultSortField + ":" + pagination.SortOrderAsc,
	"title:" + pagination.SortOrderAsc,
}

// initialLoadedMsg carries the result of the concurrent first fetch.
type initialLoadedMsg struct {
	page       *api.PostPage
	categories []api.Category
	err        error
}

// pageLoadedMsg carries a freshly fetched page of posts.
type pageLoadedMsg struct {
	page *api.PostPage
	err  error
}

// postLoadedMsg carries a single post with its rendered body.
type postLoadedMsg struct {
	post     *api.Post
	rendered string
	err      error
}

// BrowseModel is the Bubble Tea model for the interactive post browser.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View interface methods.
type BrowseModel struct {
	ctx    context.Context
	client *api.Client

	// Listing state.
	state         ViewState
	focus         FocusArea
	posts         []api.Post
	categories    []api.Category
	categoryIndex int // 0 means all categories
	totalCount    int
	query         string
	sortIndex     int
	pageSize      int

	// Interactive components.
	table       table.Model
	pageStrip   pager.Model
	searchInput textinput.Model
	loading     spinner.Model
	showSearch  bool

	// Detail state.
	detailPost     *api.Post
	detailRendered string

	// Display dimensions.
	width  int
	height int

	// Terminal failure.
	err error
}

// NewBrowseModel creates the browse view. pageSize and siblingCount
// come from config defaults.
func NewBrowseModel(ctx context.Context, client *api.Client, pageSize, siblingCount int) BrowseModel {
	search := textinput.New()
	search.Placeholder = "search posts"
	search.CharLimit = 120

	load := spinner.New()
	load.Spinner = spinner.Dot

	m := BrowseModel{
		ctx:      ctx,
		client:   client,
		state:    ViewStateLoading,
		focus:    FocusTable,
		pageSize: pageSize,
		pageStrip: pager.New(0, pageSize,
			pager.WithSiblingCount(siblingCount),
			pager.WithJumpInput(),
			pager.ShowOnlyWhenMultiple(),
		),
		searchInput: search,
		loading:     load,
		width:       defaultWidth,
		height:      defaultHeight,
	}
	m.table = m.buildTable()
	return m
}

// Init kicks off the concurrent initial fetch (Bubble Tea interface).
func (m BrowseModel) Init() tea.Cmd {
	return tea.Batch(m.loading.Tick, m.loadInitial())
}

// Update handles messages and updates model state (Bubble Tea interface).
func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.buildTable()
		return m, nil

	case initialLoadedMsg:
		return m.handleInitialLoaded(msg)

	case pageLoadedMsg:
		return m.handlePageLoaded(msg)

	case postLoadedMsg:
		return m.handlePostLoaded(msg)

	case pager.PageChangedMsg:
		return m, m.loadPage(msg.Page)

	case spinner.TickMsg:
		if m.state == ViewStateLoading {
			var cmd tea.Cmd
			m.loading, cmd = m.loading.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.showSearch {
		return m.handleSearchInput(msg)
	}

	switch m.state {
	case ViewStateList:
		return m.handleListUpdate(msg)
	case ViewStateDetail:
		return m.handleDetailUpdate(msg)
	case ViewStateLoading, ViewStateError, ViewStateQuitting:
		return m.handleTerminalKeys(msg)
	default:
		return m, nil
	}
}

// handleTerminalKeys lets the user quit from loading/error screens.
func (m BrowseModel) handleTerminalKeys(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "q", "ctrl+c":
			m.state = ViewStateQuitting
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m BrowseModel) handleInitialLoaded(msg initialLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.state = ViewStateError
		m.err = msg.err
		return m, nil
	}

	m.categories = msg.categories
	m.applyPage(msg.page)
	m.state = ViewStateList
	return m, nil
}

func (m BrowseModel) handlePageLoaded(msg pageLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.state = ViewStateError
		m.err = msg.err
		return m, nil
	}
	m.applyPage(msg.page)
	m.state = ViewStateList
	return m, nil
}

func (m BrowseModel) handlePostLoaded(msg postLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.state = ViewStateError
		m.err = msg.err
		return m, nil
	}
	m.detailPost = msg.post
	m.detailRendered = msg.rendered
	m.state = ViewStateDetail
	return m, nil
}

// applyPage installs a fetched page into the table and page strip.
func (m *BrowseModel) applyPage(page *api.PostPage) {
	m.posts = page.Posts
	m.totalCount = page.Meta.TotalCount
	m.pageStrip.SetTotalCount(page.Meta.TotalCount)
	m.pageStrip.SetPage(page.Meta.Page)
	m.table = m.buildTable()
}

func (m BrowseModel) handleSearchInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "enter":
		m.showSearch = false
		m.searchInput.Blur()
		m.query = m.searchInput.Value()
		m.state = ViewStateLoading
		return m, tea.Batch(m.loading.Tick, m.loadPage(1))
	case "esc":
		m.showSearch = false
		m.searchInput.Blur()
		return m, nil
	default:
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(keyMsg)
		return m, cmd
	}
}

func (m BrowseModel) handleListUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "q", "ctrl+c":
		m.state = ViewStateQuitting
		return m, tea.Quit

	case "tab":
		if m.focus == FocusTable {
			m.focus = FocusPager
		} else {
			m.focus = FocusTable
		}
		return m, nil

	case "/":
		m.showSearch = true
		m.searchInput.Focus()
		return m, textinput.Blink

	case "s":
		m.sortIndex = (m.sortIndex + 1) % len(sortCycle)
		m.state = ViewStateLoading
		return m, tea.Batch(m.loading.Tick, m.loadPage(1))

	case "c":
		if len(m.categories) == 0 {
			return m, nil
		}
		m.categoryIndex = (m.categoryIndex + 1) % (len(m.categories) + 1)
		m.state = ViewStateLoading
		return m, tea.Batch(m.loading.Tick, m.loadPage(1))

	case "esc":
		if m.query != "" || m.categoryIndex != 0 {
			m.query = ""
			m.categoryIndex = 0
			m.searchInput.SetValue("")
			m.state = ViewStateLoading
			return m, tea.Batch(m.loading.Tick, m.loadPage(1))
		}
		return m, nil
	}

	// The strip always sees paging chords; everything else follows focus.
	switch keyMsg.String() {
	case "pgup", "pgdown", "g":
		var cmd tea.Cmd
		m.pageStrip, cmd = m.pageStrip.Update(keyMsg)
		return m, cmd
	}

	if m.focus == FocusPager || m.pageStrip.Jumping() {
		var cmd tea.Cmd
		m.pageStrip, cmd = m.pageStrip.Update(keyMsg)
		return m, cmd
	}

	if keyMsg.String() == "enter" {
		cursor := m.table.Cursor()
		if cursor >= 0 && cursor < len(m.posts) {
			return m, m.loadPost(m.posts[cursor].ID)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(keyMsg)
	return m, cmd
}

func (m BrowseModel) handleDetailUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "q", "ctrl+c":
		m.state = ViewStateQuitting
		return m, tea.Quit
	case "esc":
		m.state = ViewStateList
		m.detailPost = nil
		m.detailRendered = ""
		return m, nil
	default:
		return m, nil
	}
}

// loadInitial fetches the first page and the category list in
// parallel; the view is unusable until both arrive.
func (m BrowseModel) loadInitial() tea.Cmd {
	client := m.client
	opts := m.listOptions(1)
	ctx := m.ctx

	return func() tea.Msg {
		var (
			page       *api.PostPage
			categories []api.Category
		)

		group, groupCtx := errgroup.WithContext(ctx)
		group.Go(func() error {
			var err error
			page, err = client.ListPosts(groupCtx, opts)
			return err
		})
		group.Go(func() error {
			var err error
			categories, err = client.ListCategories(groupCtx)
			return err
		})

		if err := group.Wait(); err != nil {
			return initialLoadedMsg{err: err}
		}
		return initialLoadedMsg{page: page, categories: categories}
	}
}

// loadPage fetches one page of the current listing.
func (m BrowseModel) loadPage(page int) tea.Cmd {
	client := m.client
	opts := m.listOptions(page)
	ctx := m.ctx

	return func() tea.Msg {
		result, err := client.ListPosts(ctx, opts)
		return pageLoadedMsg{page: result, err: err}
	}
}

// loadPost fetches a post body and renders its markdown.
func (m BrowseModel) loadPost(id string) tea.Cmd {
	client := m.client
	width := m.width
	ctx := m.ctx

	return func() tea.Msg {
		post, err := client.GetPost(ctx, id)
		if err != nil {
			return postLoadedMsg{err: err}
		}
		rendered, err := renderMarkdown(post.Body, width)
		if err != nil {
			// Fall back to the raw body rather than failing the view.
			rendered = post.Body
		}
		return postLoadedMsg{post: post, rendered: rendered}
	}
}

// activeCategory returns the category currently filtering the listing,
// or nil when all categories are shown.
func (m BrowseModel) activeCategory() *api.Category {
	if m.categoryIndex == 0 || m.categoryIndex > len(m.categories) {
		return nil
	}
	return &m.categories[m.categoryIndex-1]
}

// listOptions assembles the API options for the current query, category
// filter, and sort.
func (m BrowseModel) listOptions(page int) api.ListPostsOptions {
	field, order, err := pagination.ParseSort(sortCycle[m.sortIndex])
	if err != nil {
		field, order = pagination.DefaultSortField, pagination.DefaultSortOrder
	}
	opts := api.ListPostsOptions{
		Page:      page,
		PageSize:  m.pageSize,
		Query:     m.query,
		SortField: field,
		SortOrder: order,
	}
	if cat := m.activeCategory(); cat != nil {
		opts.Category = cat.Slug
	}
	return opts
}
