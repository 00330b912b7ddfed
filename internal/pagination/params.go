package pagination

import (
	"errors"
	"fmt"
	"strings"
)

// Defaults and validation limits for listing commands.
const (
	DefaultPageSize  = 20
	MinPageSize      = 1
	MaxPageSize      = 100
	DefaultPage      = 1
	MinPage          = 1
	DefaultSortField = "published_at"
	SortOrderAsc     = "asc"
	SortOrderDesc    = "desc"
	DefaultSortOrder = SortOrderDesc
)

// Validation errors shared by the listing commands.
var (
	ErrInvalidPage       = errors.New("page must be >= 1")
	ErrInvalidPageSize   = fmt.Errorf("page-size must be between %d and %d", MinPageSize, MaxPageSize)
	ErrInvalidSortOrder  = errors.New("sort order must be 'asc' or 'desc'")
	ErrInvalidSortFormat = errors.New("invalid sort format: use 'field' or 'field:order' (e.g., 'published_at:desc')")
	ErrEmptySortField    = errors.New("sort field cannot be empty")
)

// Params holds the pagination and sort flags of a listing command.
type Params struct {
	// Page is the 1-based page number to request.
	Page int

	// PageSize is the number of results per page.
	PageSize int

	// SiblingCount controls the width of the rendered page strip.
	SiblingCount int

	// SortField is the field name to sort by (e.g., "published_at", "title").
	SortField string

	// SortOrder is the sort direction: "asc" or "desc".
	SortOrder string
}

// NewParams returns Params populated with defaults.
func NewParams() Params {
	return Params{
		Page:         DefaultPage,
		PageSize:     DefaultPageSize,
		SiblingCount: DefaultSiblingCount,
		SortField:    DefaultSortField,
		SortOrder:    DefaultSortOrder,
	}
}

// Validate checks bounds and consistency of the parameters.
func (p Params) Validate() error {
	if p.Page < MinPage {
		return fmt.Errorf("%w: got %d", ErrInvalidPage, p.Page)
	}
	if p.PageSize < MinPageSize || p.PageSize > MaxPageSize {
		return fmt.Errorf("%w: got %d", ErrInvalidPageSize, p.PageSize)
	}
	if p.SiblingCount < 0 {
		return errors.New("sibling-count cannot be negative")
	}
	if p.SortOrder != SortOrderAsc && p.SortOrder != SortOrderDesc {
		return fmt.Errorf("%w: got %q", ErrInvalidSortOrder, p.SortOrder)
	}
	return nil
}

// Offset returns the 0-based item offset of the requested page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// TotalPages returns the page count for a total result count under the
// configured page size.
func (p Params) TotalPages(totalCount int) int {
	return TotalPages(totalCount, p.PageSize)
}

// Range computes the page strip tokens for the current parameters.
func (p Params) Range(totalCount int) []Token {
	return ComputeRange(totalCount, p.PageSize, p.Page, p.SiblingCount)
}

// ClampPage returns page forced into [1, TotalPages(totalCount)]. The
// range calculator expects a pre-clamped current page; callers whose
// page state may have gone stale (e.g. the total shrank under them)
// clamp through this before computing a range.
func (p Params) ClampPage(page, totalCount int) int {
	totalPages := p.TotalPages(totalCount)
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// sortPartsMax is the maximum number of parts in a sort string (field:order).
const sortPartsMax = 2

// ParseSort parses a sort string in the format "field" or "field:order".
// Examples: "title", "published_at:desc".
//
//nolint:nonamedreturns // Named returns improve readability for this multi-value function.
func ParseSort(sortStr string) (field, order string, err error) {
	if sortStr == "" {
		return DefaultSortField, DefaultSortOrder, nil
	}

	parts := strings.Split(sortStr, ":")
	switch len(parts) {
	case 1:
		field = strings.TrimSpace(parts[0])
		order = DefaultSortOrder
	case sortPartsMax:
		field = strings.TrimSpace(parts[0])
		order = strings.ToLower(strings.TrimSpace(parts[1]))
	default:
		return "", "", fmt.Errorf("%w: %q", ErrInvalidSortFormat, sortStr)
	}

	if field == "" {
		return "", "", ErrEmptySortField
	}
	if order != SortOrderAsc && order != SortOrderDesc {
		return "", "", fmt.Errorf("%w: got %q", ErrInvalidSortOrder, order)
	}

	return field, order, nil
}
