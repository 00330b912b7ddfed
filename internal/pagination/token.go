package pagination

import "strconv"

// TokenKind discriminates page-number tokens from ellipsis markers.
type TokenKind int

const (
	// KindPage is a concrete, navigable page number.
	KindPage TokenKind = iota

	// KindEllipsis marks a contiguous run of pages elided from display.
	KindEllipsis
)

// ellipsisGlyph is the display form of an elision marker.
const ellipsisGlyph = "…"

// Token is one element of a computed page range: either a 1-based page
// number or an ellipsis. Tokens are value types with no identity across
// recomputations.
type Token struct {
	Kind TokenKind

	// Page is the 1-based page number. Only meaningful when Kind is KindPage.
	Page int
}

// PageToken returns a page-number token for page n.
func PageToken(n int) Token {
	return Token{Kind: KindPage, Page: n}
}

// EllipsisToken returns an elision marker token.
func EllipsisToken() Token {
	return Token{Kind: KindEllipsis}
}

// IsEllipsis reports whether the token is an elision marker.
func (t Token) IsEllipsis() bool {
	return t.Kind == KindEllipsis
}

// String renders the token for plain-text output: the page number, or
// the ellipsis glyph for elision markers.
func (t Token) String() string {
	if t.Kind == KindEllipsis {
		return ellipsisGlyph
	}
	return strconv.Itoa(t.Page)
}

// Pages extracts the page numbers from a token sequence, dropping
// ellipsis markers. The result preserves order.
func Pages(tokens []Token) []int {
	pages := make([]int, 0, len(tokens))
	for _, t := range tokens {
		if t.Kind == KindPage {
			pages = append(pages, t.Page)
		}
	}
	return pages
}
