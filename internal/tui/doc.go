// Package tui implements the interactive browse view: a paged table
// of posts, a search filter, a markdown detail view, and the page
// strip from the pager subpackage wired to the backend API client.
package tui
