package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/quillhq/quill/internal/api"
	"github.com/quillhq/quill/internal/pagination"
)

const (
	tabPadding       = 2
	titleTableMax    = 60
	publishedLayout  = "2006-01-02"
	publishedVerbose = "Mon, 02 Jan 2006 15:04 MST"
)

var countPrinter = message.NewPrinter(language.English)

// renderJSON writes v as indented JSON.
func renderJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// renderPostsTable writes one page of posts as a tabulated table followed
// by a pagination strip footer, e.g. "1 … 9 [10] 11 … 20".
func renderPostsTable(w io.Writer, page *api.PostPage, params pagination.Params) error {
	if len(page.Posts) == 0 {
		_, err := fmt.Fprintln(w, "No posts found.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(tw, "Title\tAuthor\tCategory\tPublished")
	fmt.Fprintln(tw, "-----\t------\t--------\t---------")
	for _, post := range page.Posts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			truncateCell(post.Title, titleTableMax), post.Author, post.Category,
			post.PublishedAt.Format(publishedLayout))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("rendering table: %w", err)
	}

	fmt.Fprintln(w)
	countPrinter.Fprintf(w, "%d posts · page %d of %d\n",
		page.Meta.TotalCount, page.Meta.Page, page.Meta.TotalPages())
	_, err := fmt.Fprintln(w, formatStrip(params.Range(page.Meta.TotalCount), page.Meta.Page))
	return err
}

// formatStrip renders pagination tokens as one line, bracketing the
// current page.
func formatStrip(tokens []pagination.Token, currentPage int) string {
	parts := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if !tok.IsEllipsis() && tok.Page == currentPage {
			parts = append(parts, "["+tok.String()+"]")
			continue
		}
		parts = append(parts, tok.String())
	}
	return strings.Join(parts, " ")
}

// renderPost writes one post in full as plain text.
func renderPost(w io.Writer, post *api.Post) error {
	fmt.Fprintln(w, post.Title)
	fmt.Fprintln(w, strings.Repeat("=", len(post.Title)))
	fmt.Fprintf(w, "by %s · %s · %s\n",
		post.Author, post.Category, post.PublishedAt.Format(publishedVerbose))
	if len(post.Tags) > 0 {
		fmt.Fprintf(w, "tags: %s\n", strings.Join(post.Tags, ", "))
	}
	fmt.Fprintln(w)
	body := post.Body
	if body == "" {
		body = post.Excerpt
	}
	_, err := fmt.Fprintln(w, strings.TrimRight(body, "\n"))
	return err
}

// truncateCell shortens s for table display, measuring display cells
// so wide and multi-byte runes are never split.
func truncateCell(s string, maxLen int) string {
	return runewidth.Truncate(s, maxLen, "...")
}
