package pagination

import (
	"errors"
	"fmt"
	"strings"
)

// Pagination modes and validation limits.
const (
	DefaultLimit    = 100
	MaxLimit        = 10000
	DefaultPageSize = 20
	MaxPageSize     = 100
	DefaultOffset   = 0
	MinPage         = 1

	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"
)

// Common validation errors.
var (
	ErrNegativeLimit    = errors.New("limit cannot be negative")
	ErrLimitTooLarge    = errors.New("limit must be at most 10000")
	ErrNegativeOffset   = errors.New("offset cannot be negative")
	ErrNegativePage     = errors.New("page cannot be negative")
	ErrNegativePageSize = errors.New("page-size cannot be negative")
	ErrPageSizeTooLarge = errors.New("page-size must be at most 100")
	ErrMixedModes       = errors.New("cannot combine offset-based (--offset) and page-based (--page) pagination")
	ErrPageWithoutSize  = errors.New("page-size must be specified when using page")
	ErrSizeWithoutPage  = errors.New("page must be specified when using page-size")
	ErrInvalidSort      = errors.New("invalid sort format: use 'field' or 'field:order' (e.g. 'time:desc')")
	ErrInvalidSortOrder = errors.New("sort order must be 'asc' or 'desc'")
	ErrEmptySortField   = errors.New("sort field cannot be empty")
)

// Params holds CLI pagination flags and provides validation.
type Params struct {
	// Limit is the maximum number of results (offset-based mode).
	Limit int
	// Offset is the number of results to skip (offset-based mode).
	Offset int
	// Page is the 1-based page number (page-based mode, 0 = inactive).
	Page int
	// PageSize is the number of results per page (page-based mode).
	PageSize int
	// SortField is the field to sort by (time, camera, label, score).
	SortField string
	// SortOrder is "asc" or "desc".
	SortOrder string
}

// NewParams creates Params with offset-based defaults.
func NewParams() *Params {
	return &Params{
		Limit:     DefaultLimit,
		Offset:    DefaultOffset,
		SortOrder: SortOrderDesc,
	}
}

// Validate checks the parameters for consistency.
func (p Params) Validate() error {
	if p.Limit < 0 {
		return ErrNegativeLimit
	}
	if p.Limit > MaxLimit {
		return fmt.Errorf("%w: got %d", ErrLimitTooLarge, p.Limit)
	}
	if p.Offset < 0 {
		return ErrNegativeOffset
	}
	if p.Page < 0 {
		return ErrNegativePage
	}
	if p.PageSize < 0 {
		return ErrNegativePageSize
	}
	if p.PageSize > MaxPageSize {
		return fmt.Errorf("%w: got %d", ErrPageSizeTooLarge, p.PageSize)
	}

	if p.Page > 0 && p.Offset > 0 {
		return ErrMixedModes
	}
	if p.Page == 0 && p.PageSize > 0 {
		return ErrSizeWithoutPage
	}
	if p.Page > 0 && p.PageSize == 0 {
		return ErrPageWithoutSize
	}

	return nil
}

// IsPageBased reports whether page-based pagination is active.
func (p Params) IsPageBased() bool {
	return p.Page > 0
}

// EffectiveOffsetLimit resolves both modes to a single (offset, limit) pair
// suitable for the fetch contract.
func (p Params) EffectiveOffsetLimit() (int, int) {
	if p.IsPageBased() {
		return (p.Page - 1) * p.PageSize, p.PageSize
	}
	return p.Offset, p.Limit
}

// sortPartsMax is the maximum number of parts in a sort expression.
const sortPartsMax = 2

// ParseSort parses a sort expression in "field" or "field:order" format and
// stores the result. Order defaults to descending, matching the backend's
// newest-first listing.
func (p *Params) ParseSort(expr string) error {
	if strings.TrimSpace(expr) == "" {
		p.SortField = ""
		p.SortOrder = SortOrderDesc
		return nil
	}

	parts := strings.Split(expr, ":")
	if len(parts) > sortPartsMax {
		return fmt.Errorf("%w: %q", ErrInvalidSort, expr)
	}

	field := strings.TrimSpace(parts[0])
	if field == "" {
		return ErrEmptySortField
	}

	order := SortOrderDesc
	if len(parts) == sortPartsMax {
		order = strings.ToLower(strings.TrimSpace(parts[1]))
	}
	if order != SortOrderAsc && order != SortOrderDesc {
		return fmt.Errorf("%w: got %q", ErrInvalidSortOrder, order)
	}

	p.SortField = field
	p.SortOrder = order
	return nil
}
