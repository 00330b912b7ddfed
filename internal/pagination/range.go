package pagination

// DefaultSiblingCount is the number of page numbers kept visible on each
// side of the current page when eliding.
const DefaultSiblingCount = 1

// edgeWindow is the minimum number of contiguous pages pinned to the
// boundary when only one side of the strip is elided. It is a floor
// rather than a value derived from siblingCount: a purely sibling-based
// window would make the strip change width as the current page
// approaches either end, and a jittery control is worse than an
// asymmetric rule. See pinnedWindow for how wider sibling counts grow it.
const edgeWindow = 3

// pinnedWindow returns how many pages a one-sided elision pins to the
// boundary. The floor is edgeWindow; wider sibling counts grow the
// window to 2*siblingCount+1 so the current page (which sits at most
// siblingCount+1 pages from the boundary when a one-sided branch
// fires) always lands inside the pinned run.
func pinnedWindow(siblingCount int) int {
	return max(edgeWindow, siblingCount*2+1)
}

// TotalPages returns ceil(totalCount / pageSize). A zero totalCount
// still yields one (empty) page; a paging control never shows zero pages.
func TotalPages(totalCount, pageSize int) int {
	if pageSize < 1 {
		return 1
	}
	pages := totalCount / pageSize
	if totalCount%pageSize > 0 {
		pages++
	}
	if pages < 1 {
		return 1
	}
	return pages
}

// ComputeRange returns the ordered token strip a paging control should
// render for the given inputs: page numbers plus ellipsis markers for
// elided runs.
//
// The page numbers in the result are strictly increasing with no
// duplicates, always include page 1 and the last page, and include up
// to siblingCount neighbors on each side of currentPage when they fit.
// An ellipsis only ever stands in for two or more hidden pages; a
// single hidden page is shown instead, since the marker would occupy
// the same slot while conveying less.
//
// currentPage is expected to already lie within [1, TotalPages]; the
// caller clamps before calling. ComputeRange never fails, but its
// output is only meaningful under that invariant.
func ComputeRange(totalCount, pageSize, currentPage, siblingCount int) []Token {
	totalPages := TotalPages(totalCount, pageSize)

	if totalPages == 1 {
		return []Token{PageToken(1)}
	}

	// Current page, siblings on both sides, plus first and last: the
	// minimum layout that could ever need eliding. If the whole range
	// fits in that many slots, show everything.
	maxTokens := siblingCount*2 + 3
	if maxTokens >= totalPages {
		return pageRun(1, totalPages)
	}

	leftSibling := max(currentPage-siblingCount, 1)
	rightSibling := min(currentPage+siblingCount, totalPages)

	// An ellipsis is only worth its slot when it hides at least two
	// pages, hence the off-by-one guards against pages 2 and last-1.
	showLeftEllipsis := leftSibling > 2
	showRightEllipsis := rightSibling < totalPages-1

	switch {
	case showLeftEllipsis && showRightEllipsis:
		tokens := []Token{PageToken(1), EllipsisToken()}
		tokens = append(tokens, pageRun(leftSibling, rightSibling)...)
		return normalize(append(tokens, EllipsisToken(), PageToken(totalPages)))

	case showLeftEllipsis:
		// Near the right edge: pin the trailing pages so the strip
		// keeps a stable width as currentPage walks to the end.
		window := pinnedWindow(siblingCount)
		tokens := []Token{PageToken(1), EllipsisToken()}
		return normalize(append(tokens, pageRun(totalPages-window+1, totalPages)...))

	case showRightEllipsis:
		window := pinnedWindow(siblingCount)
		tokens := pageRun(1, window)
		return normalize(append(tokens, EllipsisToken(), PageToken(totalPages)))

	default:
		// Unreachable given the guards above; fall back to the full range.
		return pageRun(1, totalPages)
	}
}

// normalize removes ellipsis tokens that are not pulling their weight:
// one standing in for exactly one hidden page becomes that page (same
// slot, more information), and one hiding nothing at all is dropped.
func normalize(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))
	for i, tok := range tokens {
		if !tok.IsEllipsis() || i == 0 || i == len(tokens)-1 {
			out = append(out, tok)
			continue
		}
		prev, next := tokens[i-1], tokens[i+1]
		if prev.Kind != KindPage || next.Kind != KindPage {
			out = append(out, tok)
			continue
		}
		switch next.Page - prev.Page {
		case 2:
			out = append(out, PageToken(prev.Page+1))
		case 0, 1:
			// Nothing hidden between the neighbours; drop the marker.
		default:
			out = append(out, tok)
		}
	}
	return out
}

// pageRun returns page tokens for every page in [from, to].
func pageRun(from, to int) []Token {
	if to < from {
		return nil
	}
	tokens := make([]Token, 0, to-from+1)
	for p := from; p <= to; p++ {
		tokens = append(tokens, PageToken(p))
	}
	return tokens
}
