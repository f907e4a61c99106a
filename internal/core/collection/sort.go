package collection

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
)

type SortKey string

const (
	SortLatest    SortKey = "latest"
	SortOldest    SortKey = "oldest"
	SortName      SortKey = "name"
	SortTitle     SortKey = "title"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
)

var sortAliases = map[SortKey]SortKey{
	"price-ascending":  SortPriceAsc,
	"price-descending": SortPriceDesc,
	"newest":           SortLatest,
	SortTitle:          SortName,
}

// Normalize resolves spelling aliases. Unknown keys pass through unchanged.
func (k SortKey) Normalize() SortKey {
	k = SortKey(strings.ToLower(strings.TrimSpace(string(k))))
	if alias, ok := sortAliases[k]; ok {
		return alias
	}
	return k
}

// SortKeys lists the keys the definition accepts, in a stable order.
func (d *Definition[T]) SortKeys() []SortKey {
	keys := []SortKey{SortLatest, SortOldest}
	if d.DisplayName != nil {
		keys = append(keys, SortName)
	}
	if d.Price != nil {
		keys = append(keys, SortPriceAsc, SortPriceDesc)
	}
	extra := make([]SortKey, 0, len(d.Sorts))
	for k := range d.Sorts {
		extra = append(extra, k)
	}
	slices.Sort(extra)
	return append(keys, extra...)
}

// comparator returns the ordering for key with the pinned partition applied,
// or nil when the natural order should be kept.
func (d *Definition[T]) comparator(key SortKey) func(a, b *T) int {
	if key == "" {
		key = d.DefaultSort
	}
	base := d.baseComparator(key.Normalize())

	if d.Pinned == nil {
		return base
	}
	return func(a, b *T) int {
		pa, pb := d.Pinned(a), d.Pinned(b)
		if pa != pb {
			if pa {
				return -1
			}
			return 1
		}
		if base == nil {
			return 0
		}
		return base(a, b)
	}
}

func (d *Definition[T]) baseComparator(key SortKey) func(a, b *T) int {
	for name, custom := range d.Sorts {
		if strings.EqualFold(string(name), string(key)) {
			return custom
		}
	}

	switch key {
	case SortLatest:
		return func(a, b *T) int {
			return d.Envelope(b).CreatedAt.Compare(d.Envelope(a).CreatedAt)
		}
	case SortOldest:
		return func(a, b *T) int {
			return d.Envelope(a).CreatedAt.Compare(d.Envelope(b).CreatedAt)
		}
	case SortName:
		if d.DisplayName == nil {
			return nil
		}
		// Collators keep internal buffers and are not safe for concurrent
		// use, so each sort gets its own.
		col := collate.New(d.Locale, collate.IgnoreCase)
		return func(a, b *T) int {
			return col.CompareString(d.DisplayName(a), d.DisplayName(b))
		}
	case SortPriceAsc:
		if d.Price == nil {
			return nil
		}
		return func(a, b *T) int { return cmp.Compare(d.Price(a), d.Price(b)) }
	case SortPriceDesc:
		if d.Price == nil {
			return nil
		}
		return func(a, b *T) int { return cmp.Compare(d.Price(b), d.Price(a)) }
	}
	return nil
}

// Ranked orders string values by their position in order. Values not in
// order sort last.
func Ranked(order ...string) func(string) int {
	rank := make(map[string]int, len(order))
	for i, v := range order {
		rank[v] = i
	}
	return func(v string) int {
		if r, ok := rank[v]; ok {
			return r
		}
		return len(order)
	}
}
