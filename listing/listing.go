// Package listing implements the shared search, facet-filter and
// pagination behavior used by every list endpoint.
package listing // import "github.com/openshelf/openshelf/listing"

import "strings"

// Matches reports whether the free-text query matches any of the fields
// with a case-insensitive substring match. An empty query matches
// everything.
func Matches(query string, fields ...string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// Filter keeps the items for which keep returns true, preserving the
// source order.
func Filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

// PageCount returns ceil(n/size). Zero items still have one (empty) page.
func PageCount(n, size int) int {
	if size <= 0 {
		return 1
	}
	pages := (n + size - 1) / size
	if pages < 1 {
		return 1
	}
	return pages
}

// Page slices the 1-based page out of items. Out-of-range pages yield
// an empty slice.
func Page[T any](items []T, page, size int) []T {
	if page < 1 || size <= 0 {
		return nil
	}
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// Selection is the current query, facet and page state of a list view.
// Changing the query, a facet or the page size resets the page to 1.
type Selection struct {
	query    string
	facets   map[string]string
	page     int
	pageSize int
}

func NewSelection(pageSize int) *Selection {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &Selection{
		facets:   make(map[string]string),
		page:     1,
		pageSize: pageSize,
	}
}

func (s *Selection) Query() string    { return s.query }
func (s *Selection) CurrentPage() int { return s.page }
func (s *Selection) PageSize() int    { return s.pageSize }

// Facet returns the active value of a facet, empty when unset.
func (s *Selection) Facet(key string) string { return s.facets[key] }

func (s *Selection) SetQuery(query string) {
	if s.query == query {
		return
	}
	s.query = query
	s.page = 1
}

// SetFacet sets a facet to an exact-match value; an empty value clears
// the facet.
func (s *Selection) SetFacet(key, value string) {
	if s.facets[key] == value {
		return
	}
	if value == "" {
		delete(s.facets, key)
	} else {
		s.facets[key] = value
	}
	s.page = 1
}

func (s *Selection) SetPageSize(size int) {
	if size <= 0 || size == s.pageSize {
		return
	}
	s.pageSize = size
	s.page = 1
}

func (s *Selection) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	s.page = page
}

// Result is one displayed page of a filtered collection.
type Result[T any] struct {
	Items     []T `json:"items"`
	Total     int `json:"total"`
	Page      int `json:"page"`
	PageCount int `json:"page_count"`
}

// Apply filters items with the match predicate and slices out the
// selection's current page. Facets are exact-match predicates composed
// with AND against the text query; the predicate receives both.
func Apply[T any](s *Selection, items []T, match func(item T, query string, facets map[string]string) bool) Result[T] {
	filtered := Filter(items, func(it T) bool {
		return match(it, s.query, s.facets)
	})
	return Result[T]{
		Items:     Page(filtered, s.page, s.pageSize),
		Total:     len(filtered),
		Page:      s.page,
		PageCount: PageCount(len(filtered), s.pageSize),
	}
}
