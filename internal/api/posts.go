package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/quillhq/quill/internal/pagination"
)

// Post is a published blog post as returned by the backend.
type Post struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt"`
	Body        string    `json:"body,omitempty"`
	Author      string    `json:"author"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

// PageMeta is the backend's pagination envelope: the page/limit echo
// plus the total item count. The contract is fixed server-side; total
// pages is derived client-side.
type PageMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"limit"`
	TotalCount int `json:"total"`
}

// TotalPages returns the page count implied by the meta.
func (m PageMeta) TotalPages() int {
	return pagination.TotalPages(m.TotalCount, m.PageSize)
}

// PostPage is one page of listing results.
type PostPage struct {
	Posts []Post   `json:"posts"`
	Meta  PageMeta `json:"meta"`
}

// ListPostsOptions selects and orders the posts to list.
type ListPostsOptions struct {
	// Page is the 1-based page to fetch.
	Page int

	// PageSize is the number of posts per page.
	PageSize int

	// Query is a full-text search term. Empty lists all posts.
	Query string

	// Category filters by category slug. Empty means all categories.
	Category string

	// SortField and SortOrder control result ordering.
	SortField string
	SortOrder string
}

// ListPosts fetches one page of posts. The response is cached when a
// cache store is configured.
func (c *Client) ListPosts(ctx context.Context, opts ListPostsOptions) (*PostPage, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PageSize < 1 {
		opts.PageSize = pagination.DefaultPageSize
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(opts.Page))
	query.Set("limit", strconv.Itoa(opts.PageSize))
	if opts.Query != "" {
		query.Set("q", opts.Query)
	}
	if opts.Category != "" {
		query.Set("category", opts.Category)
	}
	if opts.SortField != "" {
		order := opts.SortOrder
		if order == "" {
			order = pagination.DefaultSortOrder
		}
		query.Set("sort", opts.SortField+":"+order)
	}

	var page PostPage
	if err := c.get(ctx, "/v1/posts", query, &page); err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return &page, nil
}

// GetPost fetches a single post, with its full body, by ID or slug.
func (c *Client) GetPost(ctx context.Context, idOrSlug string) (*Post, error) {
	if idOrSlug == "" {
		return nil, fmt.Errorf("post id cannot be empty")
	}

	var post Post
	if err := c.get(ctx, "/v1/posts/"+url.PathEscape(idOrSlug), nil, &post); err != nil {
		return nil, fmt.Errorf("failed to get post %q: %w", idOrSlug, err)
	}
	return &post, nil
}
