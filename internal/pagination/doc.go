// Package pagination computes the page-number strip shown by paging
// controls and carries the shared page/offset parameter handling for
// CLI commands.
//
// The central piece is ComputeRange, which turns (totalCount, pageSize,
// currentPage, siblingCount) into an ordered sequence of tokens: page
// numbers plus ellipsis markers standing in for elided runs of pages.
package pagination
