// Package view derives what the operator sees from the client's collection:
// the search-filtered list, the current page and the page-number controls.
// Everything here is a pure function of its inputs.
package view

import (
	"fmt"
	"slices"
	"strings"

	"phonestore/internal/inventory"
)

// DefaultPageSize is the page size before the operator picks one.
const DefaultPageSize = 10

// PageSizeOptions are the selectable page sizes.
var PageSizeOptions = []int{5, 10, 15, 20, 50}

// ValidPageSize reports whether size is one of PageSizeOptions.
func ValidPageSize(size int) bool {
	return slices.Contains(PageSizeOptions, size)
}

// Filter returns the phones where query is a case-insensitive substring of
// brand, model, storage capacity, RAM, color or sale price. An empty query
// matches everything.
func Filter(phones []inventory.Phone, query string) []inventory.Phone {
	q := strings.ToLower(query)
	out := make([]inventory.Phone, 0, len(phones))
	for _, p := range phones {
		if q == "" || matches(p, q) {
			out = append(out, p)
		}
	}
	return out
}

func matches(p inventory.Phone, q string) bool {
	for _, field := range []string{p.Brand, p.Model, p.StorageCapacity, p.RAM, p.Color, p.SalePrice.String()} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// Page is one page of a list together with the numbers needed to render its
// controls.
type Page struct {
	Items      []inventory.Phone
	Number     int // 1-based, after clamping
	Size       int
	TotalItems int
	TotalPages int
}

// HasPrev reports whether a previous page exists.
func (p Page) HasPrev() bool { return p.Number > 1 }

// HasNext reports whether a following page exists.
func (p Page) HasNext() bool { return p.Number < p.TotalPages }

// Window returns the page-number controls for this page.
func (p Page) Window() []PageItem { return PageWindow(p.Number, p.TotalPages) }

// Paginate slices phones into the requested 1-based page. A page past the
// last one clamps to the last page and a page below 1 clamps to 1. A
// non-positive size falls back to DefaultPageSize.
func Paginate(phones []inventory.Phone, page, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := len(phones)
	totalPages := (total + size - 1) / size

	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}

	start := min((page-1)*size, total)
	end := min(start+size, total)

	return Page{
		Items:      phones[start:end],
		Number:     page,
		Size:       size,
		TotalItems: total,
		TotalPages: totalPages,
	}
}

// PageItem is one entry in the page-number controls: either a page number or
// a gap marker.
type PageItem struct {
	Number   int
	Ellipsis bool
	Current  bool
}

func (it PageItem) String() string {
	switch {
	case it.Ellipsis:
		return "…"
	case it.Current:
		return fmt.Sprintf("[%d]", it.Number)
	default:
		return fmt.Sprintf("%d", it.Number)
	}
}

// PageWindow lists the controls for current out of total pages. Pages 1 and
// total and the pages next to current are shown as numbers. A page exactly two
// away from current that is not already shown becomes an ellipsis. Every other
// page is omitted. With one page or fewer there are no controls.
func PageWindow(current, total int) []PageItem {
	if total <= 1 {
		return nil
	}

	var items []PageItem
	for n := 1; n <= total; n++ {
		switch {
		case n == 1 || n == total || (n >= current-1 && n <= current+1):
			items = append(items, PageItem{Number: n, Current: n == current})
		case n == current-2 || n == current+2:
			items = append(items, PageItem{Number: n, Ellipsis: true})
		}
	}
	return items
}

// ListState holds the operator's list parameters.
type ListState struct {
	Query    string
	Page     int
	PageSize int
}

// NewListState returns the initial state: no query, first page, default size.
func NewListState() ListState {
	return ListState{Page: 1, PageSize: DefaultPageSize}
}

// SetQuery changes the search text and returns to the first page.
func (s *ListState) SetQuery(q string) {
	s.Query = q
	s.Page = 1
}

// SetPageSize changes the page size and returns to the first page.
func (s *ListState) SetPageSize(size int) error {
	if !ValidPageSize(size) {
		return fmt.Errorf("page size %d not one of %v", size, PageSizeOptions)
	}
	s.PageSize = size
	s.Page = 1
	return nil
}

// SetPage moves to page n. Out-of-range pages are clamped when applied.
func (s *ListState) SetPage(n int) {
	s.Page = n
}

// Apply filters and paginates phones for the current state.
func (s ListState) Apply(phones []inventory.Phone) Page {
	return Paginate(Filter(phones, s.Query), s.Page, s.PageSize)
}
