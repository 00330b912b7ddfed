package api

import (
	"context"
	"fmt"
)

// Category is a post category with its published post count.
type Category struct {
	ID        string `json:"id"`
	Slug      string `json:"slug"`
	Name      string `json:"name"`
	PostCount int    `json:"post_count"`
}

// categoriesResponse is the backend's category listing envelope.
type categoriesResponse struct {
	Categories []Category `json:"categories"`
}

// ListCategories fetches all categories. Cached when a cache store is
// configured; the category set changes rarely.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var resp categoriesResponse
	if err := c.get(ctx, "/v1/categories", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return resp.Categories, nil
}
