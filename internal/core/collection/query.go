package collection

import (
	"math"
	"slices"
	"strings"
	"time"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Query selects a page of a collection. Every field is optional.
type Query struct {
	Search  string            `json:"search,omitempty"`
	Filters map[string]string `json:"filters,omitempty"`
	Flags   map[string]bool   `json:"flags,omitempty"`
	SortBy  SortKey           `json:"sortBy,omitempty"`
	Page    int               `json:"page,omitempty"`
	Limit   int               `json:"limit,omitempty"`
	// Offset, when positive, replaces the page-derived offset.
	Offset int `json:"offset,omitempty"`
	// Now anchors time-based flags. Zero means time.Now().
	Now time.Time `json:"-"`
}

type Page[T any] struct {
	Items   []T  `json:"data"`
	Total   int  `json:"total"`
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	HasMore bool `json:"hasMore"`
}

// Run filters, sorts and paginates items. items is never modified.
func Run[T any](def *Definition[T], items []T, q Query) Page[T] {
	now := q.Now
	if now.IsZero() {
		now = time.Now()
	}

	// Whitespace-only search is no constraint; otherwise the needle is
	// matched as given.
	needle := ""
	if strings.TrimSpace(q.Search) != "" {
		needle = strings.ToLower(q.Search)
	}
	matched := make([]T, 0, len(items))
	for i := range items {
		if def.matches(&items[i], needle, q, now) {
			matched = append(matched, items[i])
		}
	}

	if cmp := def.comparator(q.SortBy); cmp != nil {
		slices.SortStableFunc(matched, func(a, b T) int { return cmp(&a, &b) })
	}

	page, limit := q.Page, q.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = def.defaultLimit()
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	total := len(matched)
	offset := total
	if page-1 <= (math.MaxInt-1)/limit {
		offset = (page - 1) * limit
	}
	if q.Offset > 0 {
		offset = q.Offset
		page = offset/limit + 1
	}

	out := make([]T, 0, limit)
	if offset < total {
		end := min(offset+limit, total)
		out = append(out, matched[offset:end]...)
	}

	return Page[T]{
		Items:   out,
		Total:   total,
		Page:    page,
		Limit:   limit,
		HasMore: offset+len(out) < total,
	}
}

func (d *Definition[T]) matches(item *T, needle string, q Query, now time.Time) bool {
	if needle != "" && !d.searchMatches(item, needle) {
		return false
	}

	for name, want := range q.Filters {
		if want == "" {
			continue
		}
		if field, ok := d.Filters[name]; ok && field(item) != want {
			return false
		}
		if match, ok := d.Matchers[name]; ok && !match(item, want) {
			return false
		}
	}

	for name, want := range q.Flags {
		pred, ok := d.Flags[name]
		if !ok {
			continue
		}
		if pred(item, now) != want {
			return false
		}
	}

	return true
}

func (d *Definition[T]) searchMatches(item *T, needle string) bool {
	if d.SearchFields == nil {
		return true
	}
	for _, field := range d.SearchFields(item) {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// Contains reports whether haystack contains needle, ignoring case. Flags
// doing substring matches use it.
func Contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
