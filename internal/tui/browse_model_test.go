package tui

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillhq/quill/internal/api"
	"github.com/quillhq/quill/internal/tui/pager"
)

// testPage builds a PostPage for installing directly via messages.
func testPage(page, total int) *api.PostPage {
	return &api.PostPage{
		Posts: []api.Post{
			{ID: "p1", Title: "First post", Author: "ana", Category: "go", PublishedAt: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)},
			{ID: "p2", Title: "Second post", Author: "bo", Category: "go", PublishedAt: time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC)},
		},
		Meta: api.PageMeta{Page: page, PageSize: 10, TotalCount: total},
	}
}

// newTestModel builds a BrowseModel against a stub backend.
func newTestModel(t *testing.T) BrowseModel {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/posts", func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		_, _ = w.Write([]byte(`{"posts": [], "meta": {"page": ` + page + `, "limit": 10, "total": 200}}`))
	})
	mux.HandleFunc("/v1/categories", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"categories": []}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := api.NewClient(server.URL, time.Second)
	require.NoError(t, err)

	return NewBrowseModel(context.Background(), client, 10, 1)
}

func TestNewBrowseModel(t *testing.T) {
	m := newTestModel(t)

	assert.Equal(t, ViewStateLoading, m.state)
	assert.Equal(t, FocusTable, m.focus)
	assert.NotNil(t, m.Init())
}

func TestBrowseModel_InitialLoad(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(initialLoadedMsg{
		page:       testPage(1, 42),
		categories: []api.Category{{Slug: "go", Name: "Go"}},
	})
	m = updated.(BrowseModel)

	assert.Equal(t, ViewStateList, m.state)
	assert.Len(t, m.posts, 2)
	assert.Equal(t, 42, m.totalCount)
	assert.Equal(t, 1, m.pageStrip.CurrentPage())
	assert.Equal(t, 5, m.pageStrip.TotalPages())
	assert.Equal(t, []api.Category{{Slug: "go", Name: "Go"}}, m.categories)
}

func TestBrowseModel_InitialLoadError(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(initialLoadedMsg{err: errors.New("backend down")})
	m = updated.(BrowseModel)

	assert.Equal(t, ViewStateError, m.state)
	assert.Contains(t, m.View(), "backend down")
}

func TestBrowseModel_PageChangeTriggersFetch(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(initialLoadedMsg{page: testPage(1, 200)})
	m = updated.(BrowseModel)

	_, cmd := m.Update(pager.PageChangedMsg{Page: 3})
	require.NotNil(t, cmd)

	msg := cmd()
	loaded, ok := msg.(pageLoadedMsg)
	require.True(t, ok)
	require.NoError(t, loaded.err)
	assert.Equal(t, 3, loaded.page.Meta.Page)
}

func TestBrowseModel_PageLoadedUpdatesStrip(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(initialLoadedMsg{page: testPage(1, 200)})
	m = updated.(BrowseModel)

	updated, _ = m.Update(pageLoadedMsg{page: testPage(7, 200)})
	m = updated.(BrowseModel)

	assert.Equal(t, ViewStateList, m.state)
	assert.Equal(t, 7, m.pageStrip.CurrentPage())
}

func TestBrowseModel_DetailTransitions(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(initialLoadedMsg{page: testPage(1, 42)})
	m = updated.(BrowseModel)

	post := &api.Post{ID: "p1", Title: "First post", Author: "ana", Category: "go"}
	updated, _ = m.Update(postLoadedMsg{post: post, rendered: "First post body"})
	m = updated.(BrowseModel)
	assert.Equal(t, ViewStateDetail, m.state)
	assert.Contains(t, m.View(), "First post body")

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	m = updated.(BrowseModel)
	assert.Equal(t, ViewStateList, m.state)
	assert.Nil(t, m.detailPost)
}

func TestBrowseModel_SearchFlow(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(initialLoadedMsg{page: testPage(1, 42)})
	m = updated.(BrowseModel)

	// "/" opens the search input.
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	m = updated.(BrowseModel)
	assert.True(t, m.showSearch)

	// Type a query and submit.
	for _, r := range "golang" {
		updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = updated.(BrowseModel)
	}
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(BrowseModel)

	assert.False(t, m.showSearch)
	assert.Equal(t, "golang", m.query)
	assert.Equal(t, ViewStateLoading, m.state)
	assert.NotNil(t, cmd, "submitting a search refetches page 1")
}

func TestBrowseModel_CategoryCycle(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(initialLoadedMsg{
		page: testPage(1, 42),
		categories: []api.Category{
			{Slug: "go", Name: "Go"},
			{Slug: "rust", Name: "Rust"},
		},
	})
	m = updated.(BrowseModel)
	require.Empty(t, m.listOptions(1).Category)

	// "c" selects the first category and refetches page 1.
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	m = updated.(BrowseModel)
	assert.Equal(t, ViewStateLoading, m.state)
	require.NotNil(t, cmd)
	assert.Equal(t, "go", m.listOptions(1).Category)

	// The active filter shows up in the header once the page lands.
	updated, _ = m.Update(pageLoadedMsg{page: testPage(1, 42)})
	m = updated.(BrowseModel)
	assert.Contains(t, m.View(), "category Go")

	// Cycling past the last category returns to all posts.
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	m = updated.(BrowseModel)
	assert.Equal(t, "rust", m.listOptions(1).Category)

	updated, _ = m.Update(pageLoadedMsg{page: testPage(1, 42)})
	m = updated.(BrowseModel)
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	m = updated.(BrowseModel)
	assert.Empty(t, m.listOptions(1).Category)
}

func TestBrowseModel_CategoryCycleWithoutCategories(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(initialLoadedMsg{page: testPage(1, 42)})
	m = updated.(BrowseModel)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	m = updated.(BrowseModel)
	assert.Nil(t, cmd)
	assert.Equal(t, ViewStateList, m.state)
	assert.Empty(t, m.listOptions(1).Category)
}

func TestBrowseModel_EscClearsCategoryFilter(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(initialLoadedMsg{
		page:       testPage(1, 42),
		categories: []api.Category{{Slug: "go", Name: "Go"}},
	})
	m = updated.(BrowseModel)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	m = updated.(BrowseModel)
	updated, _ = m.Update(pageLoadedMsg{page: testPage(1, 42)})
	m = updated.(BrowseModel)
	require.Equal(t, "go", m.listOptions(1).Category)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	m = updated.(BrowseModel)
	assert.Empty(t, m.listOptions(1).Category)
	assert.Equal(t, ViewStateLoading, m.state)
	assert.NotNil(t, cmd, "clearing the filter refetches page 1")
}

func TestBrowseModel_FocusToggle(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(initialLoadedMsg{page: testPage(1, 200)})
	m = updated.(BrowseModel)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(BrowseModel)
	assert.Equal(t, FocusPager, m.focus)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(BrowseModel)
	assert.Equal(t, FocusTable, m.focus)
}

func TestBrowseModel_QuitFromList(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(initialLoadedMsg{page: testPage(1, 42)})
	m = updated.(BrowseModel)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	m = updated.(BrowseModel)
	assert.Equal(t, ViewStateQuitting, m.state)
	assert.NotNil(t, cmd)
}

func TestBrowseModel_StatusLine(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(initialLoadedMsg{page: testPage(1, 12345)})
	m = updated.(BrowseModel)

	assert.Contains(t, m.statusLine(), "12,345 posts")
	assert.Contains(t, m.statusLine(), "page 1 of 1,235")
}

func TestDetectOutputMode_ForcePlain(t *testing.T) {
	assert.Equal(t, OutputModePlain, DetectOutputMode(true))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a very l...", truncate("a very long title here", 11))

	// Wide runes are measured in display cells and never split.
	got := truncate("日本語のタイトルです", 9)
	assert.Equal(t, "日本語...", got)
	assert.True(t, utf8.ValidString(got))
}
